package geometry

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func TestCirclePoints(t *testing.T) {
	pts := CirclePoints(vec(10, 10), 5, 16)
	require.Len(t, pts, 16)
	for _, p := range pts {
		assert.InDelta(t, 5, r2.Norm(r2.Sub(p, vec(10, 10))), 1e-9)
	}
}

func TestStrokeQuad(t *testing.T) {
	quad := StrokeQuad(vec(0, 0), vec(10, 0), 2)
	require.Len(t, quad, 4)
	box := BoundingBox(quad)
	assert.Equal(t, vec(0, -1), box.Min)
	assert.Equal(t, vec(10, 1), box.Max)

	assert.Nil(t, StrokeQuad(vec(3, 3), vec(3, 3), 2), "zero-length segment")
}

func TestPixelRect(t *testing.T) {
	r := PixelRect(r2.Box{Min: vec(3.5, 3.5), Max: vec(7.5, 7.5)}, 1)
	assert.Equal(t, image.Rect(2, 2, 9, 9), r)
}

func TestBoundingBoxEmpty(t *testing.T) {
	assert.Equal(t, r2.Box{}, BoundingBox(nil))
	box := BoundingBox([]r2.Vec{vec(1, -2), vec(-3, 4)})
	assert.Equal(t, -3.0, box.Min.X)
	assert.Equal(t, 4.0, box.Max.Y)
	assert.False(t, math.IsNaN(box.Max.X))
}
