// Package geometry provides geometric helpers shared by the landmark model and renderer.
package geometry

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// CirclePoints generates n evenly-spaced points around a circle.
func CirclePoints(center r2.Vec, radius float64, n int) []r2.Vec {
	points := make([]r2.Vec, n)
	for i := 0; i < n; i++ {
		angle := float64(i) * 2.0 * math.Pi / float64(n)
		points[i] = r2.Vec{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		}
	}
	return points
}

// StrokeQuad returns the four corners of a segment stroked with the given width.
// A zero-length segment yields nil.
func StrokeQuad(a, b r2.Vec, width float64) []r2.Vec {
	d := r2.Sub(b, a)
	length := r2.Norm(d)
	if length == 0 {
		return nil
	}
	// Unit normal scaled to half the stroke width
	n := r2.Scale(width/(2*length), r2.Vec{X: -d.Y, Y: d.X})
	return []r2.Vec{
		r2.Add(a, n),
		r2.Add(b, n),
		r2.Sub(b, n),
		r2.Sub(a, n),
	}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []r2.Vec) r2.Box {
	if len(points) == 0 {
		return r2.Box{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return r2.Box{Min: r2.Vec{X: minX, Y: minY}, Max: r2.Vec{X: maxX, Y: maxY}}
}

// PixelRect returns the smallest integer rectangle enclosing b, grown by pad
// pixels on every side to cover anti-aliasing.
func PixelRect(b r2.Box, pad int) image.Rectangle {
	return image.Rect(
		int(math.Floor(b.Min.X))-pad,
		int(math.Floor(b.Min.Y))-pad,
		int(math.Ceil(b.Max.X))+pad,
		int(math.Ceil(b.Max.Y))+pad,
	)
}
