package state

import (
	"encoding/json"
	"fmt"
	"log"

	"SketchBoard/internal/geom"
)

// wireObject is the stored form of an Object: a type tag plus a per-kind data payload.
type wireObject struct {
	ID          string          `json:"id"`
	Type        Kind            `json:"type"`
	Data        json.RawMessage `json:"data"`
	StrokeColor string          `json:"strokeColor"`
	FillColor   string          `json:"fillColor"`
	StrokeWidth float64         `json:"strokeWidth"`
	Dashed      bool            `json:"isDashed"`
	Bounds      geom.Rect       `json:"bounds"`
}

// MarshalJSON writes the tagged form.
func (o Object) MarshalJSON() ([]byte, error) {
	if o.Shape == nil {
		return nil, fmt.Errorf("object %s has no shape", o.ID)
	}
	shape := o.Shape
	if f, ok := shape.(Freehand); ok && f.Points == nil {
		shape = Freehand{Points: []geom.Point{}}
	}
	data, err := json.Marshal(shape)
	if err != nil {
		return nil, fmt.Errorf("encode %s data: %w", o.Kind(), err)
	}
	return json.Marshal(wireObject{
		ID:          o.ID,
		Type:        o.Kind(),
		Data:        data,
		StrokeColor: o.Style.StrokeColor,
		FillColor:   o.Style.FillColor,
		StrokeWidth: o.Style.StrokeWidth,
		Dashed:      o.Style.Dashed,
		Bounds:      o.Bounds,
	})
}

// UnmarshalJSON reads the tagged form. Stored bounds are ignored and recomputed.
func (o *Object) UnmarshalJSON(b []byte) error {
	var w wireObject
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	shape, err := decodeShape(w.Type, w.Data)
	if err != nil {
		return fmt.Errorf("object %q: %w", w.ID, err)
	}
	*o = NewObject(w.ID, shape, Style{
		StrokeColor: w.StrokeColor,
		FillColor:   w.FillColor,
		StrokeWidth: w.StrokeWidth,
		Dashed:      w.Dashed,
	})
	return nil
}

func decodeShape(kind Kind, data json.RawMessage) (Shape, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: missing data", kind)
	}
	var (
		shape Shape
		err   error
	)
	switch kind {
	case KindRectangle:
		var r Rectangle
		err = json.Unmarshal(data, &r)
		shape = r
	case KindCircle:
		var c Circle
		err = json.Unmarshal(data, &c)
		shape = c
	case KindLine:
		var l Line
		err = json.Unmarshal(data, &l)
		shape = l
	case KindArrow:
		var a Arrow
		err = json.Unmarshal(data, &a)
		shape = a
	case KindFreehand:
		var f Freehand
		err = json.Unmarshal(data, &f)
		shape = f
	case KindText:
		var t Text
		err = json.Unmarshal(data, &t)
		if t.FontSize <= 0 {
			t.FontSize = DefaultFontSize
		}
		shape = t
	default:
		return nil, fmt.Errorf("unknown object type %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s data: %w", kind, err)
	}
	return shape, nil
}

// EncodeObjects serializes a drawing as an indented JSON array.
func EncodeObjects(objs []Object) ([]byte, error) {
	if objs == nil {
		objs = []Object{}
	}
	data, err := json.MarshalIndent(objs, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode drawing: %w", err)
	}
	return data, nil
}

// DecodeObjects parses a JSON array of objects. Entries that cannot be decoded are logged
// and skipped; only a malformed array is an error.
func DecodeObjects(data []byte) ([]Object, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode drawing: %w", err)
	}
	objs := make([]Object, 0, len(raw))
	for i, entry := range raw {
		var o Object
		if err := json.Unmarshal(entry, &o); err != nil {
			log.Printf("[scene] skipping entry %d: %v", i, err)
			continue
		}
		objs = append(objs, o)
	}
	return objs, nil
}
