package ui

import (
	"fmt"
	"image"
	"io"
	"log"

	"SketchBoard/internal/engine"
	"SketchBoard/internal/export"
	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// BoardWidget hosts an annotation engine: it shows the engine's frames and turns fyne
// input events into engine transitions.
type BoardWidget struct {
	widget.BaseWidget
	engine    *engine.Engine
	raster    *canvas.Raster
	overlay   *textOverlay
	statusBar *widget.Label

	pressed bool
	last    geom.Point
	size    fyne.Size

	// OnSceneChange receives a copy of the scene after every committed edit.
	OnSceneChange func(objects []state.Object)
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ fyne.DoubleTappable = (*BoardWidget)(nil)
var _ fyne.Focusable = (*BoardWidget)(nil)
var _ fyne.Scrollable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)
var _ desktop.Keyable = (*BoardWidget)(nil)

// NewBoardWidget creates the widget and its engine. The engine's redraw and scene-change
// callbacks are owned by the widget.
func NewBoardWidget(opts engine.Options) *BoardWidget {
	b := &BoardWidget{statusBar: widget.NewLabel("Ready")}
	b.raster = canvas.NewRaster(b.draw)
	b.raster.ScaleMode = canvas.ImageScaleSmooth

	bg := opts.Background
	opts.Background = nil
	opts.OnRedraw = b.scheduleRefresh
	opts.OnSceneChange = b.sceneChanged
	b.engine = engine.New(opts)
	b.overlay = newTextOverlay(b)
	if bg != nil {
		b.engine.SetBackgroundSource(bg)
	}

	b.ExtendBaseWidget(b)
	return b
}

// Engine returns the engine behind the widget.
func (b *BoardWidget) Engine() *engine.Engine {
	return b.engine
}

// StatusBar returns the label the widget reports to.
func (b *BoardWidget) StatusBar() *widget.Label {
	return b.statusBar
}

// SetStatus updates the status bar from any goroutine.
func (b *BoardWidget) SetStatus(text string) {
	fyne.Do(func() {
		b.statusBar.SetText(text)
	})
}

func (b *BoardWidget) draw(w, h int) image.Image {
	return b.engine.Frame()
}

// scheduleRefresh is the engine's redraw callback; it may run on any goroutine.
func (b *BoardWidget) scheduleRefresh() {
	fyne.Do(func() {
		b.raster.Refresh()
		if b.overlay != nil {
			b.overlay.sync()
		}
	})
}

func (b *BoardWidget) sceneChanged() {
	if b.OnSceneChange != nil {
		b.OnSceneChange(b.engine.GetDrawingData())
	}
}

func toPoint(p fyne.Position) geom.Point {
	return geom.Pt(float64(p.X), float64(p.Y))
}

func (b *BoardWidget) focus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(b); c != nil {
		c.Focus(b)
	}
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.focus()
	b.pressed = true
	b.last = toPoint(e.Position)
	b.engine.PointerDown(b.last)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary || !b.pressed {
		return
	}
	b.pressed = false
	b.last = toPoint(e.Position)
	b.engine.PointerUp(b.last)
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.move(toPoint(e.Position))
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.move(toPoint(e.Position))
}

func (b *BoardWidget) MouseOut() {}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.move(toPoint(e.Position))
}

// DragEnd finishes a gesture whose MouseUp was delivered elsewhere.
func (b *BoardWidget) DragEnd() {
	if b.pressed {
		b.pressed = false
		b.engine.PointerUp(b.last)
	}
}

// move forwards a pointer position once; drags report through both Dragged and MouseMoved.
func (b *BoardWidget) move(p geom.Point) {
	if p == b.last {
		return
	}
	b.last = p
	b.engine.PointerMove(p)
}

func (b *BoardWidget) DoubleTapped(e *fyne.PointEvent) {
	b.engine.DoubleClick(toPoint(e.Position))
}

func (b *BoardWidget) Scrolled(e *fyne.ScrollEvent) {
	switch {
	case e.Scrolled.DY > 0:
		b.engine.ZoomAt(toPoint(e.Position), geom.ZoomStep)
	case e.Scrolled.DY < 0:
		b.engine.ZoomAt(toPoint(e.Position), 1/geom.ZoomStep)
	}
}

func (b *BoardWidget) FocusGained()            {}
func (b *BoardWidget) FocusLost()              {}
func (b *BoardWidget) TypedRune(rune)          {}
func (b *BoardWidget) TypedKey(*fyne.KeyEvent) {}

func (b *BoardWidget) KeyDown(e *fyne.KeyEvent) {
	if k := engineKey(e.Name); k != engine.KeyOther {
		b.engine.KeyDown(k, b.overlay.Active())
	}
}

func (b *BoardWidget) KeyUp(e *fyne.KeyEvent) {
	if k := engineKey(e.Name); k != engine.KeyOther {
		b.engine.KeyUp(k)
	}
}

func engineKey(name fyne.KeyName) engine.Key {
	switch name {
	case fyne.KeyDelete:
		return engine.KeyDelete
	case fyne.KeyBackspace:
		return engine.KeyBackspace
	case fyne.KeySpace:
		return engine.KeySpace
	}
	return engine.KeyOther
}

// SaveDrawing writes the scene as JSON.
func (b *BoardWidget) SaveDrawing(w io.Writer) error {
	objs := b.engine.GetDrawingData()
	data, err := state.EncodeObjects(objs)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write drawing: %w", err)
	}
	b.SetStatus(fmt.Sprintf("Saved %d objects", len(objs)))
	return nil
}

// LoadDrawing replaces the scene with a JSON drawing.
func (b *BoardWidget) LoadDrawing(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read drawing: %w", err)
	}
	objs, err := state.DecodeObjects(data)
	if err != nil {
		return err
	}
	b.engine.LoadDrawingData(objs)
	b.sceneChanged()
	b.SetStatus(fmt.Sprintf("Loaded %d objects", len(objs)))
	log.Printf("[ui] loaded %d objects", len(objs))
	return nil
}

// ExportPNG writes the current frame as PNG.
func (b *BoardWidget) ExportPNG(w io.Writer) error {
	data, err := b.engine.ExportAsImage()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	b.SetStatus("Exported PNG")
	return nil
}

// ExportPDF writes the background and scene as a vector PDF.
func (b *BoardWidget) ExportPDF(w io.Writer) error {
	if err := export.WritePDF(w, b.engine.Background(), b.engine.GetDrawingData()); err != nil {
		return err
	}
	b.SetStatus("Exported PDF")
	return nil
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{board: b}
}

type boardWidgetRenderer struct {
	board *BoardWidget
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.board.raster, r.board.overlay.wrapper}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.board.raster.Resize(size)
	r.board.raster.Move(fyne.NewPos(0, 0))
	if size != r.board.size {
		r.board.size = size
		r.board.engine.Resize(int(size.Width), int(size.Height))
	}
	r.board.overlay.sync()
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.raster.Refresh()
}

func (r *boardWidgetRenderer) Destroy() {
	r.board.engine.Close()
}
