package engine

import (
	"image/color"
	"log"
	"math"
	"sync"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	previewAlpha = 0.5
	handleSize   = 8.0
	outlineWidth = 1.0
	outlineDash  = 4.0
)

var (
	outlineColor = color.NRGBA{R: 0x00, G: 0x66, B: 0xff, A: 0xff}
	defaultInk   = color.NRGBA{A: 0xff}
)

var (
	fontOnce sync.Once
	textFont *truetype.Font
)

func regularFont() *truetype.Font {
	fontOnce.Do(func() {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("[engine] parse builtin font: %v", err)
			return
		}
		textFont = f
	})
	return textFont
}

// redraw renders one frame into a fresh context. Must be called with e.mu held.
func (e *Engine) redraw() {
	w, h := e.frameSize()
	dc := gg.NewContext(w, h)
	v := e.viewport

	dc.Scale(v.Zoom, v.Zoom)
	dc.Translate(v.Pan.X, v.Pan.Y)
	if e.background != nil {
		dc.DrawImage(e.background, 0, 0)
	}

	editing := e.editingID()
	e.scene.Each(func(o *state.Object) {
		if o.ID == editing {
			return
		}
		e.drawShape(dc, o.Shape, o.Style, 1)
	})

	if !e.viewOnly {
		e.scene.Each(func(o *state.Object) {
			if o.ID == editing {
				return
			}
			sel := e.selected[o.ID]
			if sel || o.ID == e.hovered {
				e.drawOutline(dc, o.Bounds, sel)
			}
		})
		e.drawPreview(dc)
	}

	e.dc = dc
	e.frames++
}

func (e *Engine) drawPreview(dc *gg.Context) {
	if e.drag.mode != dragDraw {
		return
	}
	shape, ok := shapeFor(e.drag.tool, e.drag.start, e.drag.current, e.drag.points)
	if !ok {
		return
	}
	e.drawShape(dc, shape, e.style, previewAlpha)
}

func (e *Engine) drawOutline(dc *gg.Context, b geom.Rect, selected bool) {
	zoom := e.viewport.Zoom
	dc.SetColor(outlineColor)
	dc.SetLineWidth(outlineWidth)
	dc.SetDash(outlineDash, outlineDash)
	dc.DrawRectangle(b.X, b.Y, b.W, b.H)
	dc.Stroke()
	dc.SetDash()
	if selected {
		size := handleSize / zoom
		br := b.BottomRight()
		dc.DrawRectangle(br.X-size/2, br.Y-size/2, size, size)
		dc.Fill()
	}
}

// drawShape strokes (and fills) one shape in scene space. Line width and dashes are given
// in scene units and so scale with zoom.
func (e *Engine) drawShape(dc *gg.Context, s state.Shape, st state.Style, alpha float64) {
	zoom := e.viewport.Zoom
	stroke, ok := state.ParseColor(st.StrokeColor)
	if !ok {
		stroke = defaultInk
	}
	stroke = state.WithAlpha(stroke, alpha)
	fill, hasFill := state.ParseColor(st.FillColor)
	fill = state.WithAlpha(fill, alpha)

	dc.SetLineWidth(math.Max(st.StrokeWidth, 0) * zoom)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	if st.Dashed {
		dc.SetDash(10*zoom, 5*zoom)
	} else {
		dc.SetDash()
	}
	defer dc.SetDash()

	paint := func(closed bool) {
		if closed && hasFill {
			dc.SetColor(fill)
			dc.FillPreserve()
		}
		dc.SetColor(stroke)
		dc.Stroke()
	}

	switch v := s.(type) {
	case state.Rectangle:
		dc.DrawRectangle(v.X, v.Y, v.Width, v.Height)
		paint(true)
	case state.Circle:
		dc.DrawCircle(v.X, v.Y, math.Abs(v.Radius))
		paint(true)
	case state.Line:
		dc.DrawLine(v.X1, v.Y1, v.X2, v.Y2)
		paint(false)
	case state.Arrow:
		dc.DrawLine(v.X1, v.Y1, v.X2, v.Y2)
		left, right := v.Head()
		dc.MoveTo(v.X2, v.Y2)
		dc.LineTo(left.X, left.Y)
		dc.MoveTo(v.X2, v.Y2)
		dc.LineTo(right.X, right.Y)
		paint(false)
	case state.Freehand:
		switch len(v.Points) {
		case 0:
		case 1:
			p := v.Points[0]
			dc.DrawCircle(p.X, p.Y, math.Max(st.StrokeWidth, 1)/2)
			dc.SetColor(stroke)
			dc.Fill()
		default:
			dc.MoveTo(v.Points[0].X, v.Points[0].Y)
			for _, p := range v.Points[1:] {
				dc.LineTo(p.X, p.Y)
			}
			paint(false)
		}
	case state.Text:
		e.drawText(dc, v, stroke)
	}
}

// drawText renders in device space with a face sized for the current zoom so glyphs stay
// sharp. The text is anchored at its top-left corner.
func (e *Engine) drawText(dc *gg.Context, t state.Text, c color.Color) {
	if t.Text == "" {
		return
	}
	face := e.face(t.FontSize * e.viewport.Zoom)
	if face == nil {
		return
	}
	at := e.viewport.SceneToScreen(geom.Pt(t.X, t.Y))
	dc.Push()
	dc.Identity()
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawStringAnchored(t.Text, at.X, at.Y, 0, 1)
	dc.Pop()
}

func (e *Engine) face(size float64) font.Face {
	size = math.Max(math.Round(size*2)/2, 1)
	if f, ok := e.faces[size]; ok {
		return f
	}
	tt := regularFont()
	if tt == nil {
		return nil
	}
	f := truetype.NewFace(tt, &truetype.Options{Size: size, Hinting: font.HintingFull})
	e.faces[size] = f
	return f
}
