package ui

import (
	"math"

	"SketchBoard/internal/engine"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	minOverlayWidth    = 160
	minOverlayTextSize = 8
)

// overlayEntry is the text input placed over the canvas while a text object is edited.
// Losing focus commits, Escape cancels.
type overlayEntry struct {
	widget.Entry
	onFocusLost func()
	onCancel    func()
}

func newOverlayEntry() *overlayEntry {
	e := &overlayEntry{}
	e.ExtendBaseWidget(e)
	return e
}

func (e *overlayEntry) FocusLost() {
	e.Entry.FocusLost()
	if e.onFocusLost != nil {
		e.onFocusLost()
	}
}

func (e *overlayEntry) TypedKey(ev *fyne.KeyEvent) {
	if ev.Name == fyne.KeyEscape && e.onCancel != nil {
		e.onCancel()
		return
	}
	e.Entry.TypedKey(ev)
}

// textSizeTheme scales the entry's text to the zoomed font size of the edited object.
type textSizeTheme struct {
	fyne.Theme
	size float32
}

func (t *textSizeTheme) Size(n fyne.ThemeSizeName) float32 {
	if n == theme.SizeNameText && t.size > 0 {
		return t.size
	}
	return t.Theme.Size(n)
}

// textOverlay keeps the entry in step with the engine's edit session.
type textOverlay struct {
	board   *BoardWidget
	entry   *overlayEntry
	theme   *textSizeTheme
	wrapper *container.ThemeOverride
	session string
	syncing bool
}

func newTextOverlay(b *BoardWidget) *textOverlay {
	o := &textOverlay{
		board: b,
		entry: newOverlayEntry(),
		theme: &textSizeTheme{Theme: theme.DefaultTheme()},
	}
	o.wrapper = container.NewThemeOverride(o.entry, o.theme)
	o.wrapper.Hide()

	o.entry.OnChanged = func(s string) {
		if !o.syncing {
			b.engine.SetEditText(s)
		}
	}
	o.entry.OnSubmitted = func(string) { b.engine.CommitEdit() }
	o.entry.onFocusLost = func() {
		if !o.syncing {
			b.engine.CommitEdit()
		}
	}
	o.entry.onCancel = func() { b.engine.CancelEdit() }
	return o
}

// Active reports whether the overlay is showing.
func (o *textOverlay) Active() bool {
	return o.wrapper.Visible()
}

// sync shows, moves or hides the entry to match the engine. Must run on the fyne goroutine.
func (o *textOverlay) sync() {
	sess, ok := o.board.engine.EditSession()
	if !ok {
		if o.wrapper.Visible() {
			o.syncing = true
			o.session = ""
			o.wrapper.Hide()
			o.syncing = false
		}
		return
	}

	o.theme.size = float32(math.Max(sess.ScreenFontSize, minOverlayTextSize))
	if o.session != sess.ID {
		o.syncing = true
		o.session = sess.ID
		o.entry.SetText(sess.Text)
		o.syncing = false
	}
	o.layout(sess)
	if !o.wrapper.Visible() {
		o.wrapper.Show()
		if c := fyne.CurrentApp().Driver().CanvasForObject(o.board); c != nil {
			c.Focus(o.entry)
		}
	}
	o.wrapper.Refresh()
}

func (o *textOverlay) layout(sess engine.EditSession) {
	width := float32(math.Max(minOverlayWidth, float64(len([]rune(sess.Text))+4)*sess.ScreenFontSize*0.6))
	height := o.entry.MinSize().Height
	o.wrapper.Move(fyne.NewPos(float32(sess.Screen.X), float32(sess.Screen.Y)))
	o.wrapper.Resize(fyne.NewSize(width, height))
}
