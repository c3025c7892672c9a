// Package render provides an incremental raster renderer for landmark chains.
//
// A drag session snapshots everything except the moving (live) elements once,
// then each pointer move restores the snapshot under the previous live
// region, redraws the live elements and pushes only the dirty region to the
// visible image.
package render

import (
	"image"
	"math"

	"landmark-editor/internal/landmark"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"gonum.org/v1/gonum/spatial/r2"
)

// Surface receives the regions pushed to the visible image.
type Surface interface {
	Invalidate(region image.Rectangle)
}

// Stats counts renderer work.
type Stats struct {
	Snapshots        int
	Restores         int
	Composites       int
	CompositedPixels int
	FullRedraws      int
}

// Renderer draws a registry's landmarks over an optional backdrop.
// It is not safe for concurrent use.
type Renderer struct {
	reg      *landmark.Registry
	style    Style
	backdrop image.Image
	zoom     float64
	extent   image.Point // data-space size
	surface  Surface
	face     font.Face

	base    *image.RGBA // background colour plus scaled backdrop
	frame   *image.RGBA // working buffer
	visible *image.RGBA

	lastLive      image.Rectangle // drawn by the last DrawLive, undone by Restore
	lastComposite image.Rectangle // live bounds pushed by the last composite

	stats Stats
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithStyle sets the drawing style.
func WithStyle(s Style) Option {
	return func(r *Renderer) { r.style = s }
}

// WithBackdrop draws img beneath the landmarks. When the extent passed to New
// is empty, the backdrop's size is used.
func WithBackdrop(img image.Image) Option {
	return func(r *Renderer) { r.backdrop = img }
}

// WithZoom sets pixels per data unit.
func WithZoom(zoom float64) Option {
	return func(r *Renderer) { r.zoom = zoom }
}

// WithSurface reports composited regions to s.
func WithSurface(s Surface) Option {
	return func(r *Renderer) { r.surface = s }
}

// New creates a renderer for reg over a data-space extent and draws the
// initial frame.
func New(reg *landmark.Registry, extent image.Point, opts ...Option) *Renderer {
	r := &Renderer{
		reg:    reg,
		style:  DefaultStyle(),
		zoom:   1.0,
		extent: extent,
		face:   basicfont.Face7x13,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.zoom <= 0 {
		r.zoom = 1.0
	}
	if (r.extent.X <= 0 || r.extent.Y <= 0) && r.backdrop != nil {
		r.extent = r.backdrop.Bounds().Size()
	}
	r.allocate()
	r.FullRedraw()
	return r
}

// allocate sizes the buffers for the current extent and zoom and rebuilds
// the base layer.
func (r *Renderer) allocate() {
	w := int(math.Ceil(float64(r.extent.X) * r.zoom))
	h := int(math.Ceil(float64(r.extent.Y) * r.zoom))
	bounds := image.Rect(0, 0, max(w, 1), max(h, 1))

	r.base = image.NewRGBA(bounds)
	draw.Draw(r.base, bounds, image.NewUniform(r.style.Background), image.Point{}, draw.Src)
	if r.backdrop != nil {
		src := r.backdrop.Bounds()
		dst := image.Rect(0, 0,
			int(math.Round(float64(src.Dx())*r.zoom)),
			int(math.Round(float64(src.Dy())*r.zoom)))
		draw.ApproxBiLinear.Scale(r.base, dst, r.backdrop, src, draw.Over, nil)
	}
	r.frame = image.NewRGBA(bounds)
	r.visible = image.NewRGBA(bounds)
	r.lastLive = image.Rectangle{}
	r.lastComposite = image.Rectangle{}
}

// SetZoom changes pixels per data unit, reallocates the buffers and redraws.
// It must not be called during a drag.
func (r *Renderer) SetZoom(zoom float64) {
	if zoom <= 0 || zoom == r.zoom {
		return
	}
	r.zoom = zoom
	r.allocate()
	r.FullRedraw()
}

// SetBackdrop replaces the backdrop and redraws. A nil image clears it.
func (r *Renderer) SetBackdrop(img image.Image) {
	r.backdrop = img
	if img != nil {
		r.extent = img.Bounds().Size()
	}
	r.allocate()
	r.FullRedraw()
}

// Zoom returns pixels per data unit.
func (r *Renderer) Zoom() float64 { return r.zoom }

// Bounds returns the pixel bounds of the drawable surface.
func (r *Renderer) Bounds() image.Rectangle { return r.frame.Bounds() }

// Visible returns the image shown to the user.
func (r *Renderer) Visible() *image.RGBA { return r.visible }

// Stats returns the work counters.
func (r *Renderer) Stats() Stats { return r.stats }

// ToPixel converts a data-space position to surface pixels.
func (r *Renderer) ToPixel(v r2.Vec) r2.Vec { return r2.Scale(r.zoom, v) }

// ToData converts surface pixels to a data-space position.
func (r *Renderer) ToData(x, y float64) r2.Vec {
	return r2.Vec{X: x / r.zoom, Y: y / r.zoom}
}

// InBounds reports whether the pixel position lies on the surface.
func (r *Renderer) InBounds(x, y float64) bool {
	b := r.frame.Bounds()
	return x >= float64(b.Min.X) && y >= float64(b.Min.Y) &&
		x < float64(b.Max.X) && y < float64(b.Max.Y)
}

// SnapshotExcluding rasterises everything but live into a new background,
// copies it to the working frame and returns it.
func (r *Renderer) SnapshotExcluding(live landmark.LiveSet) image.Image {
	bg := image.NewRGBA(r.frame.Bounds())
	r.rasterize(bg, live)
	draw.Draw(r.frame, r.frame.Bounds(), bg, image.Point{}, draw.Src)
	r.lastLive = image.Rectangle{}
	r.lastComposite = image.Rectangle{}
	r.stats.Snapshots++
	return bg
}

// Restore resets the working frame to bg. Only the region drawn since the
// last restore differs from bg, so only that region is copied.
func (r *Renderer) Restore(bg image.Image) {
	if bg == nil {
		return
	}
	region := r.lastLive
	if region.Empty() {
		region = r.frame.Bounds()
	}
	region = region.Intersect(bg.Bounds())
	draw.Draw(r.frame, region, bg, region.Min, draw.Src)
	r.lastLive = image.Rectangle{}
	r.stats.Restores++
}

// DrawLive draws live over the working frame and returns the pixels touched.
func (r *Renderer) DrawLive(live landmark.LiveSet) image.Rectangle {
	bounds := r.drawLive(r.frame, live)
	r.lastLive = r.lastLive.Union(bounds)
	return bounds
}

// CompositeDirtyRegion copies bounds, plus the live bounds of the previous
// composite, from the working frame to the visible image.
func (r *Renderer) CompositeDirtyRegion(bounds image.Rectangle) {
	region := bounds.Union(r.lastComposite).Intersect(r.frame.Bounds())
	r.lastComposite = bounds
	if region.Empty() {
		return
	}
	draw.Draw(r.visible, region, r.frame, region.Min, draw.Src)
	r.stats.Composites++
	r.stats.CompositedPixels += region.Dx() * region.Dy()
	if r.surface != nil {
		r.surface.Invalidate(region)
	}
}

// FullRedraw redraws every element from the registry and pushes the whole
// frame.
func (r *Renderer) FullRedraw() {
	r.rasterize(r.frame, landmark.LiveSet{})
	draw.Draw(r.visible, r.visible.Bounds(), r.frame, image.Point{}, draw.Src)
	r.lastLive = image.Rectangle{}
	r.lastComposite = image.Rectangle{}
	r.stats.FullRedraws++
	if r.surface != nil {
		r.surface.Invalidate(r.visible.Bounds())
	}
}
