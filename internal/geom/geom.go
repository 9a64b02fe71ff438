// Package geom holds the scene geometry shared by the engine, the exporters and the host
// view: points, axis-aligned rectangles and the viewport transform.
package geom

import "math"

// Epsilon is the tolerance used for inclusive containment tests, in scene units.
const Epsilon = 1e-9

// Point is a position in scene or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both coordinates by f.
func (p Point) Scale(f float64) Point {
	return Point{X: p.X * f, Y: p.Y * f}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned box. W and H are never negative for boxes built by this package.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// RectFromCorners builds the normalized box spanned by two arbitrary corners.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// BoundsOf returns the tightest box enclosing pts. An empty list yields the zero box.
func BoundsOf(pts ...Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Pad grows r by m on every side.
func (r Rect) Pad(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X-Epsilon && p.X <= r.X+r.W+Epsilon &&
		p.Y >= r.Y-Epsilon && p.Y <= r.Y+r.H+Epsilon
}

// ContainsRect reports whether o lies entirely inside r.
func (r Rect) ContainsRect(o Rect) bool {
	return r.Contains(Pt(o.X, o.Y)) && r.Contains(o.BottomRight())
}

// Union returns the smallest box enclosing both r and o.
func (r Rect) Union(o Rect) Rect {
	return BoundsOf(Pt(r.X, r.Y), r.BottomRight(), Pt(o.X, o.Y), o.BottomRight())
}

// BottomRight returns the corner used as the resize handle.
func (r Rect) BottomRight() Point {
	return Point{X: r.X + r.W, Y: r.Y + r.H}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}
