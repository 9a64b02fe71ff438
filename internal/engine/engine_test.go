package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"
	"time"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.Width == 0 {
		opts.Width, opts.Height = 800, 600
	}
	if opts.SettleDelay == 0 {
		opts.SettleDelay = -1
	}
	e := New(opts)
	t.Cleanup(e.Close)
	return e
}

func drag(e *Engine, from, to geom.Point) {
	e.PointerDown(from)
	e.PointerMove(to)
	e.PointerUp(to)
}

func click(e *Engine, p geom.Point) {
	e.PointerDown(p)
	e.PointerUp(p)
}

func rectObject(id string, x, y, w, h float64) state.Object {
	return state.NewObject(id, state.Rectangle{X: x, Y: y, Width: w, Height: h}, state.DefaultStyle())
}

func TestDrawRectangle(t *testing.T) {
	changes := 0
	e := newTestEngine(t, Options{OnSceneChange: func() { changes++ }})
	e.SetTool(ToolRectangle)

	drag(e, geom.Pt(20, 20), geom.Pt(120, 70))

	objs := e.GetDrawingData()
	if len(objs) != 1 {
		t.Fatalf("scene has %d objects, want 1", len(objs))
	}
	want := state.Rectangle{X: 20, Y: 20, Width: 100, Height: 50}
	if objs[0].Shape != want {
		t.Errorf("shape = %+v, want %+v", objs[0].Shape, want)
	}
	if objs[0].Style != state.DefaultStyle() {
		t.Errorf("style = %+v, want default", objs[0].Style)
	}
	if wantB := (geom.Rect{X: 10, Y: 10, W: 120, H: 70}); objs[0].Bounds != wantB {
		t.Errorf("bounds = %v, want %v", objs[0].Bounds, wantB)
	}
	if changes != 1 {
		t.Errorf("OnSceneChange called %d times, want 1", changes)
	}
}

func TestDrawEachTool(t *testing.T) {
	tests := []struct {
		name string
		tool Tool
		want state.Kind
	}{
		{"circle", ToolCircle, state.KindCircle},
		{"line", ToolLine, state.KindLine},
		{"arrow", ToolArrow, state.KindArrow},
		{"pen", ToolPen, state.KindFreehand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{})
			e.SetTool(tt.tool)
			e.PointerDown(geom.Pt(10, 10))
			e.PointerMove(geom.Pt(30, 40))
			e.PointerMove(geom.Pt(60, 50))
			e.PointerUp(geom.Pt(60, 50))

			objs := e.GetDrawingData()
			if len(objs) != 1 {
				t.Fatalf("scene has %d objects, want 1", len(objs))
			}
			if objs[0].Kind() != tt.want {
				t.Errorf("kind = %s, want %s", objs[0].Kind(), tt.want)
			}
		})
	}
}

func TestPenCollectsPoints(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolPen)
	e.PointerDown(geom.Pt(0, 0))
	e.PointerMove(geom.Pt(5, 5))
	e.PointerMove(geom.Pt(10, 0))
	e.PointerUp(geom.Pt(10, 0))

	f := e.GetDrawingData()[0].Shape.(state.Freehand)
	want := []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 10, Y: 0}}
	if !reflect.DeepEqual(f.Points, want) {
		t.Errorf("points = %v, want %v", f.Points, want)
	}
}

func TestDrawPreviewDoesNotMutateScene(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolRectangle)
	e.PointerDown(geom.Pt(20, 20))
	e.PointerMove(geom.Pt(80, 80))

	if n := len(e.GetDrawingData()); n != 0 {
		t.Fatalf("scene has %d objects mid-drag, want 0", n)
	}
	_, _, _, a := e.Frame().At(50, 20).RGBA()
	if a == 0 {
		t.Error("expected the live preview to be rendered")
	}
}

func TestTextLifecycle(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolText)
	click(e, geom.Pt(40, 40))

	sess, ok := e.EditSession()
	if !ok || !sess.IsNew {
		t.Fatalf("expected a new edit session, got %+v ok=%v", sess, ok)
	}
	if n := len(e.GetDrawingData()); n != 0 {
		t.Fatalf("scene has %d objects before commit, want 0", n)
	}

	e.SetEditText("Hello")
	e.CommitEdit()

	objs := e.GetDrawingData()
	if len(objs) != 1 {
		t.Fatalf("scene has %d objects, want 1", len(objs))
	}
	want := state.Text{X: 40, Y: 40, Text: "Hello", FontSize: 16}
	if objs[0].Shape != want {
		t.Fatalf("shape = %+v, want %+v", objs[0].Shape, want)
	}

	e.DoubleClick(geom.Pt(45, 45))
	sess, ok = e.EditSession()
	if !ok || sess.IsNew || sess.Text != "Hello" || sess.ID != objs[0].ID {
		t.Fatalf("unexpected session %+v ok=%v", sess, ok)
	}
	if len(e.Selection()) != 0 {
		t.Error("selection should be cleared when editing starts")
	}

	e.SetEditText("   ")
	e.CommitEdit()
	if n := len(e.GetDrawingData()); n != 0 {
		t.Errorf("scene has %d objects after empty commit, want 0", n)
	}
	if _, ok := e.EditSession(); ok {
		t.Error("edit session still open")
	}
}

func TestEmptyNewTextCreatesNothing(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolText)
	click(e, geom.Pt(10, 10))
	e.CommitEdit()
	if n := len(e.GetDrawingData()); n != 0 {
		t.Errorf("scene has %d objects, want 0", n)
	}
}

func TestPointerDownCommitsOpenEdit(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolText)
	click(e, geom.Pt(40, 40))
	e.SetEditText("note")

	e.SetTool(ToolSelect)
	e.PointerDown(geom.Pt(600, 500))

	if _, ok := e.EditSession(); ok {
		t.Fatal("edit session should be committed by pointer down")
	}
	objs := e.GetDrawingData()
	if len(objs) != 1 || objs[0].Shape.(state.Text).Text != "note" {
		t.Errorf("unexpected scene %+v", objs)
	}
}

func TestEditSessionFollowsViewport(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolText)
	click(e, geom.Pt(40, 40))
	e.SetViewport(geom.Viewport{Zoom: 2, Pan: geom.Pt(10, 5)})

	sess, _ := e.EditSession()
	if want := geom.Pt(100, 90); sess.Screen != want {
		t.Errorf("screen = %v, want %v", sess.Screen, want)
	}
	if sess.ScreenFontSize != 32 {
		t.Errorf("screen font size = %v, want 32", sess.ScreenFontSize)
	}
}

func TestSelectionReplacesNotAccumulates(t *testing.T) {
	e := newTestEngine(t, Options{InitialObjects: []state.Object{
		rectObject("a", 0, 0, 50, 50),
		rectObject("b", 200, 200, 50, 50),
	}})

	click(e, geom.Pt(25, 25))
	if got := e.Selection(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("selection = %v, want [a]", got)
	}
	click(e, geom.Pt(225, 225))
	if got := e.Selection(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("selection = %v, want [b]", got)
	}
	click(e, geom.Pt(600, 500))
	if got := e.Selection(); len(got) != 0 {
		t.Errorf("background click left selection %v", got)
	}
}

func TestTopmostWinsHitTest(t *testing.T) {
	e := newTestEngine(t, Options{InitialObjects: []state.Object{
		rectObject("under", 0, 0, 100, 100),
		rectObject("over", 20, 20, 40, 40),
	}})
	click(e, geom.Pt(30, 30))
	if got := e.Selection(); !reflect.DeepEqual(got, []string{"over"}) {
		t.Errorf("selection = %v, want [over]", got)
	}
}

func TestDeleteSelected(t *testing.T) {
	tests := []struct {
		name        string
		selected    []string
		inTextInput bool
		want        []string
	}{
		{"two selected", []string{"a", "b"}, false, []string{"c"}},
		{"empty selection", nil, false, []string{"a", "b", "c"}},
		{"focus in text field", []string{"a"}, true, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes := 0
			e := newTestEngine(t, Options{
				InitialObjects: []state.Object{
					rectObject("a", 0, 0, 10, 10),
					rectObject("b", 100, 0, 10, 10),
					rectObject("c", 200, 0, 10, 10),
				},
				OnSceneChange: func() { changes++ },
			})
			for _, id := range tt.selected {
				e.selected[id] = true
			}
			frames := e.FrameCount()

			e.KeyDown(KeyDelete, tt.inTextInput)

			var ids []string
			for _, o := range e.GetDrawingData() {
				ids = append(ids, o.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("scene = %v, want %v", ids, tt.want)
			}
			mutated := len(tt.want) != 3
			if mutated {
				if len(e.Selection()) != 0 {
					t.Errorf("selection = %v, want empty", e.Selection())
				}
				if changes != 1 {
					t.Errorf("OnSceneChange called %d times, want 1", changes)
				}
			} else if e.FrameCount() != frames || changes != 0 {
				t.Errorf("no-op delete redrew or reported a change")
			}
		})
	}
}

func TestBackspaceDeletesAndEditBlocksDelete(t *testing.T) {
	e := newTestEngine(t, Options{InitialObjects: []state.Object{rectObject("a", 0, 0, 10, 10)}})
	click(e, geom.Pt(5, 5))
	e.KeyDown(KeyBackspace, false)
	if n := len(e.GetDrawingData()); n != 0 {
		t.Fatalf("backspace left %d objects", n)
	}

	e.LoadDrawingData([]state.Object{rectObject("a", 0, 0, 10, 10)})
	click(e, geom.Pt(5, 5))
	e.edit = &textEdit{id: "t", isNew: true}
	e.KeyDown(KeyDelete, false)
	if n := len(e.GetDrawingData()); n != 1 {
		t.Errorf("delete during text edit removed objects")
	}
}

func TestMoveZeroDeltaIsIdentity(t *testing.T) {
	orig := state.NewObject("a", state.Rectangle{X: 0.1 + 0.2, Y: 1.0 / 3, Width: 40.7, Height: 12.9}, state.DefaultStyle())
	changes := 0
	e := newTestEngine(t, Options{
		InitialObjects: []state.Object{orig},
		OnSceneChange:  func() { changes++ },
	})
	e.SetViewport(geom.Viewport{Zoom: 1.37, Pan: geom.Pt(13.3, -7.1)})

	start := e.Viewport().SceneToScreen(geom.Pt(10, 5))
	e.PointerDown(start)
	e.PointerMove(start.Add(geom.Pt(17, 9)))
	e.PointerMove(start)
	e.PointerUp(start)

	got := e.GetDrawingData()[0]
	if !state.SameShape(got.Shape, orig.Shape) {
		t.Errorf("shape = %+v, want %+v", got.Shape, orig.Shape)
	}
	if got.Bounds != orig.Bounds {
		t.Errorf("bounds = %v, want %v", got.Bounds, orig.Bounds)
	}
	if changes != 0 {
		t.Errorf("OnSceneChange called %d times for a zero move", changes)
	}
}

func TestMoveTranslatesAndKeepsSelection(t *testing.T) {
	e := newTestEngine(t, Options{InitialObjects: []state.Object{rectObject("a", 0, 0, 40, 40)}})
	drag(e, geom.Pt(10, 10), geom.Pt(30, 50))

	r := e.GetDrawingData()[0].Shape.(state.Rectangle)
	if r.X != 20 || r.Y != 40 {
		t.Errorf("moved to (%v, %v), want (20, 40)", r.X, r.Y)
	}
	if got := e.Selection(); !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("selection = %v, want [a]", got)
	}
}

func TestResizePerType(t *testing.T) {
	style := state.DefaultStyle()
	tests := []struct {
		name     string
		shape    state.Shape
		from, to geom.Point
		want     state.Shape
	}{
		{
			"rectangle",
			state.Rectangle{Width: 100, Height: 50},
			geom.Pt(105, 55), geom.Pt(125, 65),
			state.Rectangle{Width: 120, Height: 60},
		},
		{
			"circle",
			state.Circle{X: 100, Y: 100, Radius: 20},
			geom.Pt(125, 125), geom.Pt(135, 130),
			state.Circle{X: 100, Y: 100, Radius: 30},
		},
		{
			"line",
			state.Line{X2: 50, Y2: 50},
			geom.Pt(55, 55), geom.Pt(65, 75),
			state.Line{X2: 60, Y2: 70},
		},
		{
			"arrow",
			state.Arrow{X2: 50, Y2: 50},
			geom.Pt(55, 55), geom.Pt(45, 50),
			state.Arrow{X2: 40, Y2: 45},
		},
		{
			"text grows",
			state.Text{Text: "Hi", FontSize: 16},
			geom.Pt(40, 38), geom.Pt(60, 38),
			state.Text{Text: "Hi", FontSize: 26},
		},
		{
			"text floor",
			state.Text{Text: "Hi", FontSize: 16},
			geom.Pt(40, 38), geom.Pt(0, 38),
			state.Text{Text: "Hi", FontSize: state.MinFontSize},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{InitialObjects: []state.Object{state.NewObject("a", tt.shape, style)}})
			drag(e, tt.from, tt.to)

			got := e.GetDrawingData()[0]
			if !state.SameShape(got.Shape, tt.want) {
				t.Errorf("shape = %+v, want %+v", got.Shape, tt.want)
			}
			if got.Bounds != state.BoundsFor(tt.want) {
				t.Errorf("bounds %v not recomputed", got.Bounds)
			}
		})
	}
}

func TestPan(t *testing.T) {
	tests := []struct {
		name string
		zoom float64
		want geom.Point
	}{
		{"unzoomed", 1, geom.Pt(50, 20)},
		{"zoomed", 2, geom.Pt(25, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t, Options{})
			e.SetViewport(geom.Viewport{Zoom: tt.zoom})
			e.SetTool(ToolPan)
			drag(e, geom.Pt(100, 100), geom.Pt(150, 120))
			if got := e.Viewport().Pan; got != tt.want {
				t.Errorf("pan = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpaceOverridesTool(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetTool(ToolRectangle)

	e.KeyDown(KeySpace, false)
	drag(e, geom.Pt(100, 100), geom.Pt(130, 110))
	e.KeyUp(KeySpace)

	if n := len(e.GetDrawingData()); n != 0 {
		t.Fatalf("space drag drew %d objects", n)
	}
	if got := e.Viewport().Pan; got != geom.Pt(30, 10) {
		t.Errorf("pan = %v, want (30, 10)", got)
	}

	drag(e, geom.Pt(100, 100), geom.Pt(130, 110))
	if n := len(e.GetDrawingData()); n != 1 {
		t.Errorf("after space release scene has %d objects, want 1", n)
	}
}

func TestHover(t *testing.T) {
	e := newTestEngine(t, Options{InitialObjects: []state.Object{rectObject("a", 0, 0, 50, 50)}})
	e.PointerMove(geom.Pt(20, 20))
	if e.Hovered() != "a" {
		t.Errorf("hovered = %q, want a", e.Hovered())
	}
	e.PointerMove(geom.Pt(400, 400))
	if e.Hovered() != "" {
		t.Errorf("hovered = %q, want none", e.Hovered())
	}
}

func TestViewOnlyIgnoresInput(t *testing.T) {
	e := newTestEngine(t, Options{
		ViewOnly:       true,
		InitialObjects: []state.Object{rectObject("a", 0, 0, 50, 50)},
	})
	frames := e.FrameCount()

	e.SetTool(ToolRectangle)
	drag(e, geom.Pt(100, 100), geom.Pt(200, 200))
	click(e, geom.Pt(20, 20))
	e.DoubleClick(geom.Pt(20, 20))
	e.KeyDown(KeyDelete, false)

	if n := len(e.GetDrawingData()); n != 1 {
		t.Errorf("scene has %d objects, want 1", n)
	}
	if len(e.Selection()) != 0 || e.Hovered() != "" {
		t.Error("view-only engine tracked selection or hover")
	}
	if e.FrameCount() != frames {
		t.Errorf("view-only input redrew %d times", e.FrameCount()-frames)
	}
}

func TestOneRedrawPerTransition(t *testing.T) {
	redraws := 0
	e := newTestEngine(t, Options{OnRedraw: func() { redraws++ }})
	if e.FrameCount() != 1 {
		t.Fatalf("initial frame count = %d, want 1", e.FrameCount())
	}

	e.PointerMove(geom.Pt(10, 10))
	if e.FrameCount() != 1 || redraws != 0 {
		t.Errorf("idle pointer move redrew")
	}

	e.ZoomIn()
	if e.FrameCount() != 2 || redraws != 1 {
		t.Errorf("frames = %d redraws = %d, want 2 and 1", e.FrameCount(), redraws)
	}
}

func TestRoundTrip(t *testing.T) {
	e := newTestEngine(t, Options{})
	e.SetStyle(state.Style{StrokeColor: "#00ff00", FillColor: "#0000ff", StrokeWidth: 3, Dashed: true})
	for i, tool := range []Tool{ToolRectangle, ToolCircle, ToolArrow, ToolPen} {
		x := float64(i) * 150
		e.SetTool(tool)
		drag(e, geom.Pt(x+10, 10), geom.Pt(x+70, 90))
	}
	e.SetTool(ToolText)
	click(e, geom.Pt(200, 400))
	e.SetEditText("label")
	e.CommitEdit()

	before := e.GetDrawingData()
	if len(before) != 5 {
		t.Fatalf("scene has %d objects, want 5", len(before))
	}
	e.LoadDrawingData(before)
	after := e.GetDrawingData()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("round trip changed the scene:\n%+v\n%+v", before, after)
	}

	before[0].Shape = state.Rectangle{}
	if reflect.DeepEqual(before, e.GetDrawingData()) {
		t.Error("GetDrawingData shares memory with the scene")
	}
}

func TestExportAsImage(t *testing.T) {
	e := newTestEngine(t, Options{InitialObjects: []state.Object{rectObject("a", 10, 10, 100, 50)}})
	data, err := e.ExportAsImage()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("export is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 600 {
		t.Errorf("size = %v, want 800x600", b)
	}

	url, err := e.ExportAsDataURL()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix([]byte(url), []byte("data:image/png;base64,")) {
		t.Errorf("unexpected data URL prefix %q", url[:30])
	}
}

func TestArrowHeadRenderedAtEveryZoom(t *testing.T) {
	arrow := state.NewObject("a", state.Arrow{X1: 20, Y1: 50, X2: 120, Y2: 50}, state.Style{StrokeColor: "#000000", StrokeWidth: 2})
	left, _ := arrow.Shape.(state.Arrow).Head()
	onHead := geom.Pt((120+left.X)/2, (50+left.Y)/2)
	offHead := geom.Pt(onHead.X, 80)

	for _, zoom := range []float64{1, 2} {
		e := newTestEngine(t, Options{InitialObjects: []state.Object{arrow}})
		e.SetViewport(geom.Viewport{Zoom: zoom})
		frame := e.Frame()

		p := e.Viewport().SceneToScreen(onHead)
		if _, _, _, a := frame.At(int(p.X), int(p.Y)).RGBA(); a == 0 {
			t.Errorf("zoom %v: no ink on the arrow head at %v", zoom, p)
		}
		q := e.Viewport().SceneToScreen(offHead)
		if _, _, _, a := frame.At(int(q.X), int(q.Y)).RGBA(); a != 0 {
			t.Errorf("zoom %v: unexpected ink at %v", zoom, q)
		}
	}
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func waitLoad(t *testing.T, e *Engine) {
	t.Helper()
	select {
	case <-e.BackgroundDone():
	case <-time.After(5 * time.Second):
		t.Fatal("background load did not finish")
	}
}

func TestBackgroundLoadFitsViewport(t *testing.T) {
	e := newTestEngine(t, Options{
		Background: BytesSource(encodePNG(t, 400, 200)),
		Width:      800,
		Height:     800,
	})
	waitLoad(t, e)

	bg := e.Background()
	if bg == nil {
		t.Fatal("background not loaded")
	}
	if b := bg.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("background size = %v", b)
	}
	want := geom.Viewport{Zoom: 2, Pan: geom.Pt(0, 100)}
	if got := e.Viewport(); got != want {
		t.Errorf("viewport = %+v, want %+v", got, want)
	}
}

func TestBackgroundFailureKeepsRendering(t *testing.T) {
	e := newTestEngine(t, Options{
		Background:     BytesSource("not an image"),
		InitialObjects: []state.Object{rectObject("a", 0, 0, 10, 10)},
	})
	waitLoad(t, e)

	if e.Background() != nil {
		t.Error("garbage decoded into a background")
	}
	if e.Viewport() != geom.Identity() {
		t.Errorf("viewport changed to %+v", e.Viewport())
	}
	if n := len(e.GetDrawingData()); n != 1 {
		t.Errorf("scene has %d objects", n)
	}
}

func TestFitDeferredUntilResize(t *testing.T) {
	e := New(Options{
		BackgroundImage: image.NewRGBA(image.Rect(0, 0, 100, 50)),
		SettleDelay:     -1,
	})
	defer e.Close()
	if e.Viewport() != geom.Identity() {
		t.Fatalf("fitted without a container size: %+v", e.Viewport())
	}
	e.Resize(200, 200)
	if got := e.Viewport().Zoom; got != 2 {
		t.Errorf("zoom after first resize = %v, want 2", got)
	}
}

func TestSourceFor(t *testing.T) {
	tests := []struct {
		ref     string
		want    any
		wantErr bool
	}{
		{"https://example.com/a.png", URLSource{URL: "https://example.com/a.png"}, false},
		{"sketch.jpg", FileSource("sketch.jpg"), false},
		{"data:image/png;base64,aGk=", BytesSource("hi"), false},
		{"data:text/plain,hi", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := SourceFor(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseTool(t *testing.T) {
	for _, tool := range Tools {
		got, err := ParseTool(tool.String())
		if err != nil || got != tool {
			t.Errorf("ParseTool(%q) = %v, %v", tool.String(), got, err)
		}
	}
	if _, err := ParseTool("lasso"); err == nil {
		t.Error("expected error for unknown tool")
	}
}
