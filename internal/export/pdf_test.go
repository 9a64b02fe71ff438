package export

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"
)

func sampleObjects() []state.Object {
	st := state.DefaultStyle()
	filled := st
	filled.FillColor = "#00ff00"
	dashed := st
	dashed.Dashed = true
	return []state.Object{
		state.NewObject("r", state.Rectangle{X: 20, Y: 20, Width: 100, Height: 50}, filled),
		state.NewObject("c", state.Circle{X: 200, Y: 100, Radius: 30}, st),
		state.NewObject("l", state.Line{X1: 0, Y1: 0, X2: 50, Y2: 80}, dashed),
		state.NewObject("a", state.Arrow{X1: 10, Y1: 200, X2: 150, Y2: 200}, st),
		state.NewObject("f", state.Freehand{Points: []geom.Point{{X: 5, Y: 5}, {X: 10, Y: 12}, {X: 20, Y: 8}}}, st),
		state.NewObject("dot", state.Freehand{Points: []geom.Point{{X: 60, Y: 60}}}, st),
		state.NewObject("t", state.Text{X: 40, Y: 260, Text: "Seam allowance ±1cm", FontSize: 16}, st),
	}
}

func TestWritePDF(t *testing.T) {
	tests := []struct {
		name       string
		background image.Image
		objects    []state.Object
	}{
		{"background and objects", image.NewRGBA(image.Rect(0, 0, 320, 240)), sampleObjects()},
		{"objects only", nil, sampleObjects()},
		{"empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WritePDF(&buf, tt.background, tt.objects); err != nil {
				t.Fatalf("WritePDF: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
				t.Errorf("output does not start with a PDF header")
			}
		})
	}
}

func TestPageFor(t *testing.T) {
	tests := []struct {
		name       string
		background image.Image
		objects    []state.Object
		wantPage   geom.Rect
		wantOrigin geom.Point
	}{
		{
			"background size",
			image.NewRGBA(image.Rect(0, 0, 640, 480)),
			sampleObjects(),
			geom.Rect{W: 640, H: 480},
			geom.Point{},
		},
		{
			"object bounds",
			nil,
			[]state.Object{state.NewObject("r", state.Rectangle{X: 20, Y: 20, Width: 100, Height: 50}, state.DefaultStyle())},
			geom.Rect{W: 120, H: 70},
			geom.Pt(10, 10),
		},
		{
			"default page",
			nil,
			nil,
			geom.Rect{W: defaultPageW, H: defaultPageH},
			geom.Point{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, origin := pageFor(tt.background, tt.objects)
			if page != tt.wantPage || origin != tt.wantOrigin {
				t.Errorf("pageFor = %v %v, want %v %v", page, origin, tt.wantPage, tt.wantOrigin)
			}
		})
	}
}

func TestSavePDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sketch.pdf")
	if err := SavePDF(path, nil, sampleObjects()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty pdf file")
	}
}
