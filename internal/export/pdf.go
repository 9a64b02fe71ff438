// Package export writes an annotated sketch to PDF: the background image with every object
// drawn on top as vector graphics.
package export

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"SketchBoard/internal/geom"
	"SketchBoard/internal/state"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
)

const (
	defaultPageW = 800.0
	defaultPageH = 600.0
	// ascent of Helvetica as a fraction of the font size, used to anchor text at its top
	textAscent = 0.8
)

// WritePDF writes a one page PDF of the drawing to w. The page matches the background in
// pixels (1px = 1pt); without a background it is fitted to the objects' bounds.
func WritePDF(w io.Writer, background image.Image, objects []state.Object) error {
	page, origin := pageFor(background, objects)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: page.W, Ht: page.H},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator("SketchBoard", true)
	pdf.AddPage()

	if background != nil {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, background, imaging.PNG); err != nil {
			return fmt.Errorf("encode background: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("background", opts, &buf)
		pdf.ImageOptions("background", 0, 0, page.W, page.H, false, opts, 0, "")
	}

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.TransformBegin()
	pdf.TransformTranslate(-origin.X, -origin.Y)
	for _, o := range objects {
		drawObject(pdf, o, tr)
	}
	pdf.TransformEnd()

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// SavePDF writes the drawing to a file at path.
func SavePDF(path string, background image.Image, objects []state.Object) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePDF(f, background, objects); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func pageFor(background image.Image, objects []state.Object) (page geom.Rect, origin geom.Point) {
	if background != nil {
		b := background.Bounds()
		if b.Dx() > 0 && b.Dy() > 0 {
			return geom.Rect{W: float64(b.Dx()), H: float64(b.Dy())}, geom.Point{}
		}
	}
	if len(objects) == 0 {
		return geom.Rect{W: defaultPageW, H: defaultPageH}, geom.Point{}
	}
	r := objects[0].Bounds
	for _, o := range objects[1:] {
		r = r.Union(o.Bounds)
	}
	if r.Empty() {
		return geom.Rect{W: defaultPageW, H: defaultPageH}, geom.Point{}
	}
	return geom.Rect{W: r.W, H: r.H}, geom.Pt(r.X, r.Y)
}

func drawObject(pdf *gofpdf.Fpdf, o state.Object, tr func(string) string) {
	st := o.Style
	stroke, ok := state.ParseColor(st.StrokeColor)
	if !ok {
		stroke.A = 0xff
	}
	pdf.SetDrawColor(int(stroke.R), int(stroke.G), int(stroke.B))
	pdf.SetLineWidth(math.Max(st.StrokeWidth, 0))
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	if st.Dashed {
		pdf.SetDashPattern([]float64{10, 5}, 0)
	} else {
		pdf.SetDashPattern([]float64{}, 0)
	}

	closedStyle := "D"
	if fill, ok := state.ParseColor(st.FillColor); ok {
		pdf.SetFillColor(int(fill.R), int(fill.G), int(fill.B))
		closedStyle = "FD"
	}

	switch s := o.Shape.(type) {
	case state.Rectangle:
		r := geom.RectFromCorners(geom.Pt(s.X, s.Y), geom.Pt(s.X+s.Width, s.Y+s.Height))
		pdf.Rect(r.X, r.Y, r.W, r.H, closedStyle)
	case state.Circle:
		pdf.Circle(s.X, s.Y, math.Abs(s.Radius), closedStyle)
	case state.Line:
		pdf.Line(s.X1, s.Y1, s.X2, s.Y2)
	case state.Arrow:
		pdf.Line(s.X1, s.Y1, s.X2, s.Y2)
		left, right := s.Head()
		pdf.Line(s.X2, s.Y2, left.X, left.Y)
		pdf.Line(s.X2, s.Y2, right.X, right.Y)
	case state.Freehand:
		if len(s.Points) == 0 {
			return
		}
		if len(s.Points) == 1 {
			pdf.SetFillColor(int(stroke.R), int(stroke.G), int(stroke.B))
			pdf.Circle(s.Points[0].X, s.Points[0].Y, math.Max(st.StrokeWidth, 1)/2, "F")
			return
		}
		pdf.MoveTo(s.Points[0].X, s.Points[0].Y)
		for _, p := range s.Points[1:] {
			pdf.LineTo(p.X, p.Y)
		}
		pdf.DrawPath("D")
	case state.Text:
		pdf.SetTextColor(int(stroke.R), int(stroke.G), int(stroke.B))
		pdf.SetFont("Helvetica", "", s.FontSize)
		pdf.Text(s.X, s.Y+s.FontSize*textAscent, tr(s.Text))
	}
}
