// Package engine implements the annotation canvas: an ordered scene of drawable objects over
// an optional background image, a zoom/pan viewport, a tool-mode state machine driven by
// pointer and keyboard events, and a redraw-on-demand raster renderer.
//
// Every exported method is one synchronous state transition. A transition that changes
// anything visible redraws the frame exactly once and then calls OnRedraw.
package engine

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"math"
	"sync"
	"time"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

const (
	// ResizeHandleSize is the screen-space extent of the bottom-right resize hotspot.
	ResizeHandleSize = 30.0
	// TextResizeRate is the font size gained per scene unit of horizontal resize drag.
	TextResizeRate = 0.5

	defaultWidth       = 800
	defaultHeight      = 600
	DefaultSettleDelay = 150 * time.Millisecond
)

// Options configure a new Engine.
type Options struct {
	// Background is loaded asynchronously; nil means no background.
	Background ImageSource
	// BackgroundImage is used as-is when Background is nil.
	BackgroundImage image.Image
	ViewOnly        bool
	InitialObjects  []state.Object

	// Width and Height are the container size in pixels. Zero defers fitting the background
	// until the first Resize.
	Width, Height int

	// SettleDelay is waited after the background decodes and before the viewport is fitted.
	// Negative disables the wait.
	SettleDelay time.Duration

	Style    *state.Style
	FontSize float64

	// OnRedraw is called after every redraw, outside the engine lock.
	OnRedraw func()
	// OnSceneChange is called when a committed scene edit finishes, outside the engine lock.
	OnSceneChange func()
}

// Engine is one annotation canvas. It owns its scene, selection and viewport.
type Engine struct {
	mu sync.Mutex

	scene    *state.Scene
	ids      *state.IDSource
	viewport geom.Viewport
	width    int
	height   int
	viewOnly bool

	tool      Tool
	style     state.Style
	fontSize  float64
	spaceHeld bool

	selected map[string]bool
	hovered  string
	drag     dragState
	edit     *textEdit

	background  image.Image
	fitted      bool
	settleDelay time.Duration
	cancelLoad  context.CancelFunc
	loadDone    chan struct{}

	dc     *gg.Context
	frames int
	faces  map[float64]font.Face

	onRedraw      func()
	onSceneChange func()
}

// effect records what a transition did, so callers redraw and notify at most once.
type effect struct {
	redraw  bool
	changed bool
}

func (fx *effect) merge(o effect) {
	fx.redraw = fx.redraw || o.redraw
	fx.changed = fx.changed || o.changed
}

// New creates an engine, renders the first frame and starts loading the background.
func New(opts Options) *Engine {
	e := &Engine{
		scene:         state.NewScene(opts.InitialObjects),
		ids:           state.NewIDSource(),
		viewport:      geom.Identity(),
		width:         opts.Width,
		height:        opts.Height,
		viewOnly:      opts.ViewOnly,
		tool:          ToolSelect,
		style:         state.DefaultStyle(),
		fontSize:      opts.FontSize,
		selected:      make(map[string]bool),
		settleDelay:   opts.SettleDelay,
		faces:         make(map[float64]font.Face),
		onRedraw:      opts.OnRedraw,
		onSceneChange: opts.OnSceneChange,
	}
	if opts.Style != nil {
		e.style = *opts.Style
	}
	if e.fontSize <= 0 {
		e.fontSize = state.DefaultFontSize
	}
	if e.settleDelay == 0 {
		e.settleDelay = DefaultSettleDelay
	}

	e.mu.Lock()
	switch {
	case opts.Background != nil:
		e.startLoad(opts.Background)
	case opts.BackgroundImage != nil:
		e.background = opts.BackgroundImage
		e.fitted = e.fitBackground()
		e.loadDone = closedChan()
	default:
		e.loadDone = closedChan()
	}
	e.redraw()
	e.mu.Unlock()
	return e
}

// Close stops a pending background load.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancelLoad != nil {
		e.cancelLoad()
		e.cancelLoad = nil
	}
}

// update runs fn under the lock, redraws once if fn asks for it and fires the callbacks
// after unlocking.
func (e *Engine) update(fn func() effect) {
	e.mu.Lock()
	fx := fn()
	if fx.redraw || fx.changed {
		e.redraw()
	}
	onRedraw, onChange := e.onRedraw, e.onSceneChange
	e.mu.Unlock()

	if (fx.redraw || fx.changed) && onRedraw != nil {
		onRedraw()
	}
	if fx.changed && onChange != nil {
		onChange()
	}
}

// GetDrawingData returns a deep copy of the scene, safe to persist and to feed back into
// LoadDrawingData.
func (e *Engine) GetDrawingData() []state.Object {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scene.Snapshot()
}

// LoadDrawingData replaces the scene with copies of objs.
func (e *Engine) LoadDrawingData(objs []state.Object) {
	e.update(func() effect {
		e.scene.Replace(objs)
		e.drag = dragState{}
		for id := range e.selected {
			if !e.scene.Has(id) {
				delete(e.selected, id)
			}
		}
		if e.hovered != "" && !e.scene.Has(e.hovered) {
			e.hovered = ""
		}
		if e.edit != nil && !e.edit.isNew && !e.scene.Has(e.edit.id) {
			e.edit = nil
		}
		return effect{redraw: true}
	})
}

// ExportAsImage returns the current frame encoded as PNG.
func (e *Engine) ExportAsImage() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	var buf bytes.Buffer
	if err := e.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportAsDataURL returns the current frame as a data:image/png;base64 URL.
func (e *Engine) ExportAsDataURL() (string, error) {
	png, err := e.ExportAsImage()
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// Frame returns the last rendered frame. Frames are never modified after they are
// returned.
func (e *Engine) Frame() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dc.Image()
}

// FrameCount returns how many frames have been rendered.
func (e *Engine) FrameCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frames
}

// Background returns the decoded background image, or nil.
func (e *Engine) Background() image.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.background
}

// SetTool switches the active tool. A draw in progress is abandoned.
func (e *Engine) SetTool(t Tool) {
	e.update(func() effect {
		e.tool = t
		if e.drag.mode == dragDraw {
			e.drag = dragState{}
			return effect{redraw: true}
		}
		return effect{}
	})
}

// Tool returns the active tool.
func (e *Engine) Tool() Tool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tool
}

// SetStyle sets the style used for new objects.
func (e *Engine) SetStyle(s state.Style) {
	e.update(func() effect {
		e.style = s
		return effect{redraw: e.drag.mode == dragDraw}
	})
}

// Style returns the style used for new objects.
func (e *Engine) Style() state.Style {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.style
}

// SetFontSize sets the font size used for new text.
func (e *Engine) SetFontSize(size float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fontSize = math.Max(size, state.MinFontSize)
}

// FontSize returns the font size used for new text.
func (e *Engine) FontSize() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fontSize
}

// SetViewOnly switches between editing and display-only mode. Entering view-only commits
// any open text edit and drops selection, hover and drags.
func (e *Engine) SetViewOnly(viewOnly bool) {
	e.update(func() effect {
		if e.viewOnly == viewOnly {
			return effect{}
		}
		var fx effect
		if viewOnly && e.edit != nil {
			fx.merge(e.commitEdit())
		}
		e.viewOnly = viewOnly
		e.selected = make(map[string]bool)
		e.hovered = ""
		e.drag = dragState{}
		e.spaceHeld = false
		fx.redraw = true
		return fx
	})
}

// ViewOnly reports whether editing is disabled.
func (e *Engine) ViewOnly() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewOnly
}

// Selection returns the selected ids in scene order.
func (e *Engine) Selection() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selectionIDs()
}

// Hovered returns the id under the pointer, or "".
func (e *Engine) Hovered() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.hovered
}

// Viewport returns the current zoom and pan.
func (e *Engine) Viewport() geom.Viewport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewport
}

// SetViewport replaces zoom and pan; the zoom is clamped.
func (e *Engine) SetViewport(v geom.Viewport) {
	e.update(func() effect {
		v.Zoom = geom.ClampZoom(v.Zoom)
		e.viewport = v
		return effect{redraw: true}
	})
}

// Resize records a new container size. The background is fitted the first time the
// container has a size.
func (e *Engine) Resize(width, height int) {
	e.update(func() effect {
		if width == e.width && height == e.height {
			return effect{}
		}
		e.width, e.height = width, height
		if e.background != nil && !e.fitted {
			e.fitted = e.fitBackground()
		}
		return effect{redraw: true}
	})
}

// Size returns the container size.
func (e *Engine) Size() (width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.width, e.height
}

// ZoomIn zooms one step about the container centre.
func (e *Engine) ZoomIn() {
	e.zoomAtCentre(geom.ZoomStep)
}

// ZoomOut zooms out one step about the container centre.
func (e *Engine) ZoomOut() {
	e.zoomAtCentre(1 / geom.ZoomStep)
}

func (e *Engine) zoomAtCentre(factor float64) {
	e.update(func() effect {
		w, h := e.frameSize()
		e.viewport = e.viewport.ZoomAt(geom.Pt(float64(w)/2, float64(h)/2), factor)
		return effect{redraw: true}
	})
}

// ZoomAt zooms by factor keeping the scene point under the screen point anchor fixed.
func (e *Engine) ZoomAt(anchor geom.Point, factor float64) {
	e.update(func() effect {
		e.viewport = e.viewport.ZoomAt(anchor, factor)
		return effect{redraw: true}
	})
}

// ResetView returns to zoom 1 with no pan.
func (e *Engine) ResetView() {
	e.SetViewport(geom.Identity())
}

// FitToContainer fits the background, or the drawn objects when there is no background,
// inside the container.
func (e *Engine) FitToContainer() {
	e.update(func() effect {
		if e.background != nil {
			e.fitted = e.fitBackground()
			return effect{redraw: e.fitted}
		}
		r, ok := e.scene.Bounds()
		if !ok {
			return effect{}
		}
		v, ok := geom.Fit(r.W, r.H, float64(e.width), float64(e.height))
		if !ok {
			return effect{}
		}
		v.Pan = v.Pan.Sub(geom.Pt(r.X, r.Y))
		e.viewport = v
		return effect{redraw: true}
	})
}

// Clear removes every object.
func (e *Engine) Clear() {
	e.update(func() effect {
		if e.scene.Len() == 0 {
			return effect{}
		}
		e.scene.Replace(nil)
		e.selected = make(map[string]bool)
		e.hovered = ""
		e.drag = dragState{}
		if e.edit != nil && !e.edit.isNew {
			e.edit = nil
		}
		return effect{changed: true}
	})
}

func (e *Engine) fitBackground() bool {
	b := e.background.Bounds()
	v, ok := geom.Fit(float64(b.Dx()), float64(b.Dy()), float64(e.width), float64(e.height))
	if ok {
		e.viewport = v
	}
	return ok
}

func (e *Engine) frameSize() (int, int) {
	if e.width > 0 && e.height > 0 {
		return e.width, e.height
	}
	if e.background != nil {
		b := e.background.Bounds()
		if b.Dx() > 0 && b.Dy() > 0 {
			return b.Dx(), b.Dy()
		}
	}
	return defaultWidth, defaultHeight
}

func (e *Engine) selectionIDs() []string {
	ids := make([]string, 0, len(e.selected))
	e.scene.Each(func(o *state.Object) {
		if e.selected[o.ID] {
			ids = append(ids, o.ID)
		}
	})
	return ids
}

func (e *Engine) selectOnly(id string) {
	e.selected = map[string]bool{id: true}
}

func (e *Engine) clearSelection() bool {
	if len(e.selected) == 0 {
		return false
	}
	e.selected = make(map[string]bool)
	return true
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
