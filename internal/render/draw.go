package render

import (
	"image"
	"image/color"
	"math"

	"landmark-editor/internal/landmark"
	"landmark-editor/pkg/geometry"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

// fillPolygon fills the closed polygon pts (pixel coordinates) over dst and
// returns the pixel bounds touched.
func fillPolygon(dst *image.RGBA, pts []r2.Vec, col color.Color) image.Rectangle {
	if len(pts) < 3 {
		return image.Rectangle{}
	}
	bounds := geometry.PixelRect(geometry.BoundingBox(pts), 1).Intersect(dst.Bounds())
	if bounds.Empty() {
		return image.Rectangle{}
	}

	// Rasterise only the polygon's own box
	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Over
	off := r2.Vec{X: float64(bounds.Min.X), Y: float64(bounds.Min.Y)}
	start := r2.Sub(pts[0], off)
	z.MoveTo(float32(start.X), float32(start.Y))
	for _, p := range pts[1:] {
		q := r2.Sub(p, off)
		z.LineTo(float32(q.X), float32(q.Y))
	}
	z.ClosePath()
	z.Draw(dst, bounds, image.NewUniform(col), image.Point{})
	return bounds
}

// drawSegment strokes s. Degenerate and zero-length segments draw nothing.
func (r *Renderer) drawSegment(dst *image.RGBA, s *landmark.Segment) image.Rectangle {
	if s.Degenerate() {
		return image.Rectangle{}
	}
	a, b := s.Endpoints()
	quad := geometry.StrokeQuad(r.ToPixel(a), r.ToPixel(b), r.style.LineWidth)
	return fillPolygon(dst, quad, r.style.SegmentColor)
}

// drawPoint fills p's marker and draws its text label.
func (r *Renderer) drawPoint(dst *image.RGBA, p *landmark.Point) image.Rectangle {
	center := r.ToPixel(p.Position())
	radius := p.Radius() * r.zoom
	n := int(math.Max(16, math.Ceil(radius*2)))
	bounds := fillPolygon(dst, geometry.CirclePoints(center, radius, n), r.style.MarkerColor)

	if r.style.ShowLabels {
		bounds = bounds.Union(r.drawLabel(dst, p.Name(), center, radius))
	}
	return bounds
}

// drawLabel draws text to the right of a marker and returns its bounds.
func (r *Renderer) drawLabel(dst *image.RGBA, text string, center r2.Vec, radius float64) image.Rectangle {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(r.style.LabelColor),
		Face: r.face,
		Dot: fixed.Point26_6{
			X: fixed.I(int(center.X + radius + 3)),
			Y: fixed.I(int(center.Y + 4)),
		},
	}
	fb, _ := d.BoundString(text)
	d.DrawString(text)
	box := image.Rect(fb.Min.X.Floor(), fb.Min.Y.Floor(), fb.Max.X.Ceil(), fb.Max.Y.Ceil())
	return box.Intersect(dst.Bounds())
}

// rasterize draws the base layer and every element not in exclude.
func (r *Renderer) rasterize(dst *image.RGBA, exclude landmark.LiveSet) {
	draw.Draw(dst, dst.Bounds(), r.base, r.base.Bounds().Min, draw.Src)
	for _, s := range r.reg.Segments() {
		if !exclude.HasSegment(s) {
			r.drawSegment(dst, s)
		}
	}
	for _, p := range r.reg.Points() {
		if !exclude.Has(p) {
			r.drawPoint(dst, p)
		}
	}
}

// drawLive draws live segments then the live point.
func (r *Renderer) drawLive(dst *image.RGBA, live landmark.LiveSet) image.Rectangle {
	var bounds image.Rectangle
	for _, s := range live.Segments {
		bounds = bounds.Union(r.drawSegment(dst, s))
	}
	if live.Point != nil {
		bounds = bounds.Union(r.drawPoint(dst, live.Point))
	}
	return bounds
}
