package engine

import (
	"math"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragPan
	dragMove
	dragResize
	dragDraw
)

// dragState is the pointer gesture in progress. Points are in scene space except
// lastScreen.
type dragState struct {
	mode       dragMode
	tool       Tool
	lastScreen geom.Point
	start      geom.Point
	current    geom.Point
	points     []geom.Point
	// origin holds each dragged object's geometry at pointer down; move and resize are
	// applied to it using the total delta so a drag back to the start restores it exactly.
	origin map[string]state.Shape
	target string
}

// PointerDown starts a gesture at a container-relative screen point.
func (e *Engine) PointerDown(screen geom.Point) {
	e.update(func() effect {
		if e.viewOnly {
			return effect{}
		}
		var fx effect
		if e.edit != nil {
			fx.merge(e.commitEdit())
		}
		p := e.viewport.ScreenToScene(screen)

		if e.spaceHeld || e.tool == ToolPan {
			e.drag = dragState{mode: dragPan, tool: e.tool, lastScreen: screen}
			return fx
		}

		if id, ok := e.scene.HitTest(p, ""); ok {
			e.selectOnly(id)
			obj, _ := e.scene.Get(id)
			mode := dragMove
			if e.inResizeHandle(obj.Bounds, p) {
				mode = dragResize
			}
			e.drag = dragState{
				mode:   mode,
				tool:   e.tool,
				start:  p,
				origin: map[string]state.Shape{id: state.CloneShape(obj.Shape)},
				target: id,
			}
			fx.redraw = true
			return fx
		}

		if e.tool.Draws() {
			e.clearSelection()
			e.drag = dragState{mode: dragDraw, tool: e.tool, start: p, current: p}
			if e.tool == ToolPen {
				e.drag.points = []geom.Point{p}
			}
			fx.redraw = true
			return fx
		}

		if e.clearSelection() {
			fx.redraw = true
		}
		return fx
	})
}

// PointerMove updates hover and advances the gesture in progress.
func (e *Engine) PointerMove(screen geom.Point) {
	e.update(func() effect {
		if e.viewOnly {
			return effect{}
		}
		var fx effect
		p := e.viewport.ScreenToScene(screen)

		hovered, _ := e.scene.HitTest(p, e.editingID())
		if hovered != e.hovered {
			e.hovered = hovered
			fx.redraw = true
		}

		switch e.drag.mode {
		case dragPan:
			e.viewport = e.viewport.PanBy(screen.Sub(e.drag.lastScreen))
			e.drag.lastScreen = screen
			fx.redraw = true
		case dragMove:
			e.applyMove(p.Sub(e.drag.start))
			fx.redraw = true
		case dragResize:
			e.applyResize(p.Sub(e.drag.start))
			fx.redraw = true
		case dragDraw:
			e.drag.current = p
			if e.drag.tool == ToolPen {
				e.drag.points = append(e.drag.points, p)
			}
			fx.redraw = true
		}
		return fx
	})
}

// PointerUp finishes the gesture in progress.
func (e *Engine) PointerUp(screen geom.Point) {
	e.update(func() effect {
		if e.viewOnly || e.drag.mode == dragNone {
			e.drag = dragState{}
			return effect{}
		}
		d := e.drag
		e.drag = dragState{}

		switch d.mode {
		case dragMove, dragResize:
			changed := false
			for id, orig := range d.origin {
				if obj, ok := e.scene.Get(id); ok && !state.SameShape(obj.Shape, orig) {
					changed = true
				}
			}
			return effect{redraw: true, changed: changed}
		case dragDraw:
			end := e.viewport.ScreenToScene(screen)
			if d.tool == ToolText {
				e.openEdit(&textEdit{
					id:       e.ids.Next(),
					isNew:    true,
					pos:      d.start,
					fontSize: e.fontSize,
					style:    e.style,
				})
				return effect{redraw: true}
			}
			points := d.points
			if d.tool == ToolPen && (len(points) == 0 || points[len(points)-1] != end) {
				points = append(points, end)
			}
			shape, ok := shapeFor(d.tool, d.start, end, points)
			if !ok {
				return effect{redraw: true}
			}
			e.scene.Add(state.NewObject(e.ids.Next(), shape, e.style))
			return effect{redraw: true, changed: true}
		}
		return effect{redraw: true}
	})
}

// DoubleClick opens the topmost text object under the pointer for editing.
func (e *Engine) DoubleClick(screen geom.Point) {
	e.update(func() effect {
		if e.viewOnly {
			return effect{}
		}
		var fx effect
		if e.edit != nil {
			fx.merge(e.commitEdit())
		}
		p := e.viewport.ScreenToScene(screen)
		id, ok := e.scene.HitTest(p, "")
		if !ok {
			return fx
		}
		obj, _ := e.scene.Get(id)
		text, ok := obj.Shape.(state.Text)
		if !ok {
			return fx
		}
		e.drag = dragState{}
		e.openEdit(&textEdit{
			id:       id,
			pos:      geom.Pt(text.X, text.Y),
			buffer:   text.Text,
			fontSize: text.FontSize,
			style:    obj.Style,
		})
		fx.redraw = true
		return fx
	})
}

// KeyDown handles Delete/Backspace and the Space pan override. inTextInput is true when
// keyboard focus is inside a text field of the host.
func (e *Engine) KeyDown(k Key, inTextInput bool) {
	e.update(func() effect {
		if e.viewOnly || inTextInput || e.edit != nil {
			return effect{}
		}
		switch k {
		case KeyDelete, KeyBackspace:
			return e.deleteSelected()
		case KeySpace:
			e.spaceHeld = true
		}
		return effect{}
	})
}

// KeyUp releases the Space pan override.
func (e *Engine) KeyUp(k Key) {
	if k != KeySpace {
		return
	}
	e.mu.Lock()
	e.spaceHeld = false
	e.mu.Unlock()
}

// DeleteSelected removes the selected objects, as the Delete key does.
func (e *Engine) DeleteSelected() {
	e.update(func() effect {
		if e.viewOnly || e.edit != nil {
			return effect{}
		}
		return e.deleteSelected()
	})
}

func (e *Engine) deleteSelected() effect {
	if len(e.selected) == 0 {
		return effect{}
	}
	ids := e.selectionIDs()
	e.scene.Remove(ids...)
	if e.selected[e.hovered] {
		e.hovered = ""
	}
	e.selected = make(map[string]bool)
	return effect{changed: true}
}

func (e *Engine) inResizeHandle(bounds geom.Rect, p geom.Point) bool {
	size := e.viewport.ToScene(ResizeHandleSize)
	br := bounds.BottomRight()
	return p.X >= br.X-size && p.Y >= br.Y-size
}

func (e *Engine) applyMove(d geom.Point) {
	for id, orig := range e.drag.origin {
		obj, ok := e.scene.Get(id)
		if !ok {
			continue
		}
		if d == (geom.Point{}) {
			obj.SetShape(state.CloneShape(orig))
			continue
		}
		obj.SetShape(orig.Translate(d))
	}
}

func (e *Engine) applyResize(d geom.Point) {
	obj, ok := e.scene.Get(e.drag.target)
	if !ok {
		return
	}
	orig := e.drag.origin[e.drag.target]
	if d == (geom.Point{}) {
		obj.SetShape(state.CloneShape(orig))
		return
	}
	obj.SetShape(resized(orig, d))
}

// resized applies a resize drag of d scene units to the geometry s had at pointer down.
func resized(s state.Shape, d geom.Point) state.Shape {
	switch v := s.(type) {
	case state.Rectangle:
		v.Width += d.X
		v.Height += d.Y
		return v
	case state.Circle:
		v.Radius = math.Max(0, v.Radius+math.Max(d.X, d.Y))
		return v
	case state.Line:
		v.X2 += d.X
		v.Y2 += d.Y
		return v
	case state.Arrow:
		v.X2 += d.X
		v.Y2 += d.Y
		return v
	case state.Text:
		v.FontSize = math.Max(state.MinFontSize, v.FontSize+d.X*TextResizeRate)
		return v
	}
	return state.CloneShape(s)
}
