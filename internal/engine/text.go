package engine

import (
	"strings"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"
)

// textEdit is an open text-edit session. The underlying object, if any, is not rendered
// while the session is open.
type textEdit struct {
	id       string
	isNew    bool
	pos      geom.Point
	buffer   string
	fontSize float64
	style    state.Style
}

// EditSession describes the open text edit for the host's overlay input.
type EditSession struct {
	ID   string
	Text string
	// Scene is the text's top-left corner in scene space, Screen the same point in
	// container pixels.
	Scene          geom.Point
	Screen         geom.Point
	FontSize       float64
	ScreenFontSize float64
	Color          string
	IsNew          bool
}

// EditSession returns the open text edit, if any. Screen placement follows the current
// viewport.
func (e *Engine) EditSession() (EditSession, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edit == nil {
		return EditSession{}, false
	}
	ed := e.edit
	return EditSession{
		ID:             ed.id,
		Text:           ed.buffer,
		Scene:          ed.pos,
		Screen:         e.viewport.SceneToScreen(ed.pos),
		FontSize:       ed.fontSize,
		ScreenFontSize: ed.fontSize * e.viewport.Zoom,
		Color:          ed.style.StrokeColor,
		IsNew:          ed.isNew,
	}, true
}

// SetEditText replaces the edit buffer. The canvas does not show the buffer, so nothing is
// redrawn.
func (e *Engine) SetEditText(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.edit != nil {
		e.edit.buffer = s
	}
}

// CommitEdit closes the open text edit, writing the buffer into the scene. A blank buffer
// deletes the object.
func (e *Engine) CommitEdit() {
	e.update(func() effect {
		if e.edit == nil {
			return effect{}
		}
		return e.commitEdit()
	})
}

// CancelEdit closes the open text edit and leaves the scene as it was.
func (e *Engine) CancelEdit() {
	e.update(func() effect {
		if e.edit == nil {
			return effect{}
		}
		e.edit = nil
		return effect{redraw: true}
	})
}

func (e *Engine) editingID() string {
	if e.edit == nil {
		return ""
	}
	return e.edit.id
}

func (e *Engine) openEdit(ed *textEdit) {
	e.edit = ed
	e.clearSelection()
	e.drag = dragState{}
	if e.hovered == ed.id {
		e.hovered = ""
	}
}

func (e *Engine) commitEdit() effect {
	ed := e.edit
	e.edit = nil

	if strings.TrimSpace(ed.buffer) == "" {
		if ed.isNew || e.scene.Remove(ed.id) == 0 {
			return effect{redraw: true}
		}
		delete(e.selected, ed.id)
		if e.hovered == ed.id {
			e.hovered = ""
		}
		return effect{changed: true}
	}

	shape := state.Text{X: ed.pos.X, Y: ed.pos.Y, Text: ed.buffer, FontSize: ed.fontSize}
	if obj, ok := e.scene.Get(ed.id); ok {
		if old, isText := obj.Shape.(state.Text); isText && old == shape {
			return effect{redraw: true}
		}
		obj.SetShape(shape)
		return effect{changed: true}
	}
	e.scene.Add(state.NewObject(ed.id, shape, ed.style))
	return effect{changed: true}
}
