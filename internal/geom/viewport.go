package geom

import "math"

const (
	MinZoom  = 0.1
	MaxZoom  = 10.0
	ZoomStep = 1.25
)

// Viewport maps scene coordinates to screen pixels as scale(Zoom) then translate(Pan):
// screen = (scene + Pan) * Zoom.
type Viewport struct {
	Zoom float64 `json:"zoom"`
	Pan  Point   `json:"pan"`
}

// Identity returns the unscaled, unpanned viewport.
func Identity() Viewport {
	return Viewport{Zoom: 1}
}

// ScreenToScene converts a container-relative screen point into scene space.
func (v Viewport) ScreenToScene(p Point) Point {
	return Point{X: p.X/v.Zoom - v.Pan.X, Y: p.Y/v.Zoom - v.Pan.Y}
}

// SceneToScreen converts a scene point into container-relative screen space.
func (v Viewport) SceneToScreen(p Point) Point {
	return Point{X: (p.X + v.Pan.X) * v.Zoom, Y: (p.Y + v.Pan.Y) * v.Zoom}
}

// ToScene converts a screen-space length into scene units.
func (v Viewport) ToScene(length float64) float64 {
	return length / v.Zoom
}

// PanBy moves the viewport by a screen-space delta.
func (v Viewport) PanBy(screenDelta Point) Viewport {
	v.Pan = v.Pan.Add(screenDelta.Scale(1 / v.Zoom))
	return v
}

// ZoomAt multiplies the zoom by factor, keeping the scene point under anchor (screen space)
// fixed on screen. The result is clamped to [MinZoom, MaxZoom].
func (v Viewport) ZoomAt(anchor Point, factor float64) Viewport {
	target := ClampZoom(v.Zoom * factor)
	fixed := v.ScreenToScene(anchor)
	return Viewport{
		Zoom: target,
		Pan:  Point{X: anchor.X/target - fixed.X, Y: anchor.Y/target - fixed.Y},
	}
}

// ClampZoom limits z to the supported zoom range.
func ClampZoom(z float64) float64 {
	if math.IsNaN(z) || z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}

// Fit returns the viewport that shows a content box of contentW×contentH scene units
// centred inside a container of containerW×containerH pixels. ok is false when either
// size is degenerate, in which case the caller keeps its current viewport.
func Fit(contentW, contentH, containerW, containerH float64) (v Viewport, ok bool) {
	if contentW <= 0 || contentH <= 0 || containerW <= 0 || containerH <= 0 {
		return Identity(), false
	}
	zoom := math.Min(containerW/contentW, containerH/contentH)
	zoom = ClampZoom(zoom)
	return Viewport{
		Zoom: zoom,
		Pan: Point{
			X: (containerW/zoom - contentW) / 2,
			Y: (containerH/zoom - contentH) / 2,
		},
	}, true
}
