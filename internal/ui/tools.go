package ui

import (
	"image/color"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/lucasb-eyer/go-colorful"
)

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},
	color.NRGBA{G: 160, A: 255},
	color.NRGBA{B: 255, A: 255},
	color.NRGBA{R: 255, G: 200, A: 255},
	color.White,
}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// hexColor formats c the way styles store colours.
func hexColor(c color.Color) string {
	cf, ok := colorful.MakeColor(c)
	if !ok {
		return state.Transparent
	}
	return cf.Hex()
}

// styleEditor applies toolbar changes to the engine's current style.
type styleEditor struct {
	board *BoardWidget
	fill  bool
}

func (s *styleEditor) update(fn func(st *state.Style)) {
	eng := s.board.Engine()
	st := eng.Style()
	fn(&st)
	eng.SetStyle(st)
}

func (s *styleEditor) setColor(c color.Color) {
	hex := hexColor(c)
	s.update(func(st *state.Style) {
		st.StrokeColor = hex
		if s.fill {
			st.FillColor = hex
		}
	})
}

func (s *styleEditor) setFill(on bool) {
	s.fill = on
	s.update(func(st *state.Style) {
		if on {
			st.FillColor = st.StrokeColor
		} else {
			st.FillColor = state.Transparent
		}
	})
}

// NewToolbar builds the tool, style, view and file controls for a board.
func NewToolbar(board *BoardWidget, win fyne.Window) fyne.CanvasObject {
	eng := board.Engine()
	styles := &styleEditor{board: board, fill: eng.Style().HasFill()}

	names := make([]string, len(engine.Tools))
	for i, t := range engine.Tools {
		names[i] = t.String()
	}
	toolSelect := widget.NewSelect(names, func(name string) {
		if t, err := engine.ParseTool(name); err == nil {
			eng.SetTool(t)
		}
	})
	toolSelect.SetSelected(eng.Tool().String())

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, c := range palette {
		colorBox.Add(newColorSwatch(c, styles.setColor))
	}

	fillCheck := widget.NewCheck("Fill", styles.setFill)
	fillCheck.SetChecked(styles.fill)
	dashCheck := widget.NewCheck("Dashed", func(on bool) {
		styles.update(func(st *state.Style) { st.Dashed = on })
	})
	dashCheck.SetChecked(eng.Style().Dashed)

	// --- Stroke Width and Font Size Sliders ---
	strokeSlider := widget.NewSlider(1, 20)
	strokeSlider.SetValue(eng.Style().StrokeWidth)
	strokeSlider.OnChanged = func(v float64) {
		styles.update(func(st *state.Style) { st.StrokeWidth = v })
	}
	fontSlider := widget.NewSlider(8, 72)
	fontSlider.SetValue(eng.FontSize())
	fontSlider.OnChanged = eng.SetFontSize

	jsonExts := []string{".json"}
	actions := widget.NewToolbar(
		widget.NewToolbarAction(theme.ZoomInIcon(), eng.ZoomIn),
		widget.NewToolbarAction(theme.ZoomOutIcon(), eng.ZoomOut),
		widget.NewToolbarAction(theme.ZoomFitIcon(), eng.FitToContainer),
		widget.NewToolbarAction(theme.ViewRestoreIcon(), eng.ResetView),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), eng.DeleteSelected),
		widget.NewToolbarAction(theme.ContentClearIcon(), eng.Clear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), func() {
			saveAs(win, "sketch.json", jsonExts, board.SaveDrawing)
		}),
		widget.NewToolbarAction(theme.FolderOpenIcon(), func() {
			openFile(win, jsonExts, board.LoadDrawing)
		}),
		widget.NewToolbarAction(theme.FileImageIcon(), func() {
			saveAs(win, "sketch.png", []string{".png"}, board.ExportPNG)
		}),
		widget.NewToolbarAction(theme.DocumentPrintIcon(), func() {
			saveAs(win, "sketch.pdf", []string{".pdf"}, board.ExportPDF)
		}),
	)

	// --- Assemble everything ---
	return container.NewHBox(
		widget.NewLabel("Tool:"),
		toolSelect,
		widget.NewSeparator(),
		colorBox,
		fillCheck,
		dashCheck,
		widget.NewSeparator(),
		widget.NewLabel("Width:"),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), strokeSlider),
		widget.NewLabel("Font:"),
		container.New(layout.NewGridWrapLayout(fyne.NewSize(120, 35)), fontSlider),
		layout.NewSpacer(),
		actions,
	)
}
