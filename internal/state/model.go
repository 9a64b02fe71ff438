// Package state holds the annotation object model: shapes, styles, bounding boxes and the
// ordered scene the engine edits.
package state

import (
	"math"
	"reflect"

	"SketchBoard/internal/geom"
)

const (
	// BoundsPadding is added around every shape so thin strokes stay selectable.
	BoundsPadding = 10.0
	// TextBoundsPadding replaces BoundsPadding for text, whose extent is estimated.
	TextBoundsPadding = 25.0
	// GlyphWidthRatio estimates the average advance of a glyph as a fraction of font size.
	GlyphWidthRatio = 0.6

	ArrowHeadLength = 12.0
	ArrowHeadSpread = math.Pi / 6

	MinFontSize     = 8.0
	DefaultFontSize = 16.0

	// Transparent is the fill colour meaning "no fill".
	Transparent = "transparent"
)

// Kind is the type tag written alongside every serialized object.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindLine      Kind = "line"
	KindArrow     Kind = "arrow"
	KindFreehand  Kind = "freehand"
	KindText      Kind = "text"
)

// Shape is the geometry of a drawable object. The set of implementations is closed.
type Shape interface {
	Kind() Kind
	// ControlPoints are the points the bounding box must enclose.
	ControlPoints() []geom.Point
	// Translate returns the shape moved by d.
	Translate(d geom.Point) Shape
	clone() Shape
}

type Rectangle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (Rectangle) Kind() Kind { return KindRectangle }

func (r Rectangle) ControlPoints() []geom.Point {
	return []geom.Point{geom.Pt(r.X, r.Y), geom.Pt(r.X+r.Width, r.Y+r.Height)}
}

func (r Rectangle) Translate(d geom.Point) Shape {
	r.X += d.X
	r.Y += d.Y
	return r
}

func (r Rectangle) clone() Shape { return r }

// Circle is centred on X, Y.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

func (Circle) Kind() Kind { return KindCircle }

func (c Circle) ControlPoints() []geom.Point {
	r := math.Abs(c.Radius)
	return []geom.Point{geom.Pt(c.X-r, c.Y-r), geom.Pt(c.X+r, c.Y+r)}
}

func (c Circle) Translate(d geom.Point) Shape {
	c.X += d.X
	c.Y += d.Y
	return c
}

func (c Circle) clone() Shape { return c }

type Line struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (Line) Kind() Kind { return KindLine }

func (l Line) ControlPoints() []geom.Point {
	return []geom.Point{geom.Pt(l.X1, l.Y1), geom.Pt(l.X2, l.Y2)}
}

func (l Line) Translate(d geom.Point) Shape {
	l.X1 += d.X
	l.Y1 += d.Y
	l.X2 += d.X
	l.Y2 += d.Y
	return l
}

func (l Line) clone() Shape { return l }

// Arrow is a line with a head drawn at X2, Y2.
type Arrow struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

func (Arrow) Kind() Kind { return KindArrow }

func (a Arrow) ControlPoints() []geom.Point {
	return []geom.Point{geom.Pt(a.X1, a.Y1), geom.Pt(a.X2, a.Y2)}
}

func (a Arrow) Translate(d geom.Point) Shape {
	a.X1 += d.X
	a.Y1 += d.Y
	a.X2 += d.X
	a.Y2 += d.Y
	return a
}

func (a Arrow) clone() Shape { return a }

// Head returns the far ends of the two head segments, both starting at the tip (X2, Y2).
// A zero-length arrow points along +X.
func (a Arrow) Head() (left, right geom.Point) {
	angle := math.Atan2(a.Y2-a.Y1, a.X2-a.X1)
	left = geom.Pt(
		a.X2-ArrowHeadLength*math.Cos(angle-ArrowHeadSpread),
		a.Y2-ArrowHeadLength*math.Sin(angle-ArrowHeadSpread),
	)
	right = geom.Pt(
		a.X2-ArrowHeadLength*math.Cos(angle+ArrowHeadSpread),
		a.Y2-ArrowHeadLength*math.Sin(angle+ArrowHeadSpread),
	)
	return left, right
}

type Freehand struct {
	Points []geom.Point `json:"points"`
}

func (Freehand) Kind() Kind { return KindFreehand }

func (f Freehand) ControlPoints() []geom.Point {
	return f.Points
}

func (f Freehand) Translate(d geom.Point) Shape {
	moved := make([]geom.Point, len(f.Points))
	for i, p := range f.Points {
		moved[i] = p.Add(d)
	}
	return Freehand{Points: moved}
}

func (f Freehand) clone() Shape {
	if f.Points == nil {
		return f
	}
	pts := make([]geom.Point, len(f.Points))
	copy(pts, f.Points)
	return Freehand{Points: pts}
}

// Text is anchored at its top-left corner.
type Text struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize"`
}

func (Text) Kind() Kind { return KindText }

func (t Text) ControlPoints() []geom.Point {
	return []geom.Point{geom.Pt(t.X, t.Y), geom.Pt(t.X+t.Width(), t.Y+t.FontSize)}
}

func (t Text) Translate(d geom.Point) Shape {
	t.X += d.X
	t.Y += d.Y
	return t
}

func (t Text) clone() Shape { return t }

// Width estimates the rendered width of the text.
func (t Text) Width() float64 {
	return float64(len([]rune(t.Text))) * t.FontSize * GlyphWidthRatio
}

// Style is how an object is stroked and filled.
type Style struct {
	StrokeColor string  `json:"strokeColor"`
	FillColor   string  `json:"fillColor"`
	StrokeWidth float64 `json:"strokeWidth"`
	Dashed      bool    `json:"isDashed"`
}

// DefaultStyle is the style new objects get when the host sets none.
func DefaultStyle() Style {
	return Style{
		StrokeColor: "#ff0000",
		FillColor:   Transparent,
		StrokeWidth: 2,
	}
}

// HasFill reports whether the style paints the interior of closed shapes.
func (s Style) HasFill() bool {
	return s.FillColor != "" && s.FillColor != Transparent
}

// Object is one entry of the scene.
type Object struct {
	ID     string
	Shape  Shape
	Style  Style
	Bounds geom.Rect
}

// NewObject builds an object and computes its bounds.
func NewObject(id string, shape Shape, style Style) Object {
	o := Object{ID: id, Shape: shape, Style: style}
	o.UpdateBounds()
	return o
}

// Kind returns the kind of the object's shape.
func (o Object) Kind() Kind {
	if o.Shape == nil {
		return ""
	}
	return o.Shape.Kind()
}

// SetShape replaces the geometry and recomputes the bounds.
func (o *Object) SetShape(s Shape) {
	o.Shape = s
	o.UpdateBounds()
}

// UpdateBounds recomputes the padded bounding box from the current geometry.
func (o *Object) UpdateBounds() {
	o.Bounds = BoundsFor(o.Shape)
}

// Clone returns a deep copy that shares no memory with o.
func (o Object) Clone() Object {
	if o.Shape != nil {
		o.Shape = o.Shape.clone()
	}
	return o
}

// CloneShape returns a deep copy of s.
func CloneShape(s Shape) Shape {
	if s == nil {
		return nil
	}
	return s.clone()
}

// SameShape reports whether a and b are the same kind with identical geometry.
func SameShape(a, b Shape) bool {
	return reflect.DeepEqual(a, b)
}

// BoundsFor returns the padded bounding box of a shape.
func BoundsFor(s Shape) geom.Rect {
	if s == nil {
		return geom.Rect{}.Pad(BoundsPadding)
	}
	pad := BoundsPadding
	if s.Kind() == KindText {
		pad = TextBoundsPadding
	}
	return geom.BoundsOf(s.ControlPoints()...).Pad(pad)
}
