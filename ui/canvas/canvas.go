// Package canvas provides the fyne widget that hosts the landmark drag engine.
package canvas

import (
	"image"
	"log"
	"math"
	"sync"

	"landmark-editor/internal/drag"
	"landmark-editor/internal/landmark"
	"landmark-editor/internal/render"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = 0.1
	maxZoom  = 10.0
	zoomStep = 1.25
)

// LandmarkCanvas displays landmarks over a backdrop and lets the user drag
// them. Pointer events are forwarded to a drag.Controller; the raster shows
// the renderer's visible image.
type LandmarkCanvas struct {
	widget.BaseWidget

	mu         sync.Mutex
	reg        *landmark.Registry
	renderer   *render.Renderer
	controller *drag.Controller
	raster     *fynecanvas.Raster
	dirty      bool

	// Callbacks
	onSecondary func(x, y float64) // Secondary click at data coordinates
	onChange    func()             // Drag finished or content replaced
}

// NewLandmarkCanvas creates a canvas over reg. extent is the data-space size
// used when no backdrop option is given.
func NewLandmarkCanvas(reg *landmark.Registry, extent image.Point, opts ...render.Option) *LandmarkCanvas {
	lc := &LandmarkCanvas{}
	lc.raster = fynecanvas.NewRaster(lc.draw)
	lc.raster.ScaleMode = fynecanvas.ImageScalePixels
	lc.reset(reg, extent, opts...)
	lc.ExtendBaseWidget(lc)
	return lc
}

func (lc *LandmarkCanvas) reset(reg *landmark.Registry, extent image.Point, opts ...render.Option) {
	opts = append(opts, render.WithSurface(lc))
	lc.reg = reg
	lc.renderer = render.New(reg, extent, opts...)
	lc.controller = drag.NewController(reg, drag.NewSession(),
		drag.WithRenderer(lc.renderer),
		drag.WithLogger(log.Default()))
	lc.updateMinSize()
}

// Reset swaps in a new registry and renderer options, ending any drag.
func (lc *LandmarkCanvas) Reset(reg *landmark.Registry, extent image.Point, opts ...render.Option) {
	lc.mu.Lock()
	lc.controller.ForceRelease()
	lc.reset(reg, extent, opts...)
	lc.dirty = true
	lc.mu.Unlock()
	lc.flush()
	lc.Refresh()
	lc.changed()
}

// Invalidate implements render.Surface. It runs with mu held.
func (lc *LandmarkCanvas) Invalidate(image.Rectangle) {
	lc.dirty = true
}

// flush refreshes the raster if the renderer pushed anything. Called
// without mu held since the raster may redraw synchronously.
func (lc *LandmarkCanvas) flush() {
	lc.mu.Lock()
	dirty := lc.dirty
	lc.dirty = false
	lc.mu.Unlock()
	if dirty {
		lc.raster.Refresh()
	}
}

func (lc *LandmarkCanvas) changed() {
	if lc.onChange != nil {
		lc.onChange()
	}
}

// OnSecondaryClick sets a callback for secondary clicks at data coordinates.
func (lc *LandmarkCanvas) OnSecondaryClick(callback func(x, y float64)) {
	lc.onSecondary = callback
}

// OnChange sets a callback run after a drag ends or the content changes.
func (lc *LandmarkCanvas) OnChange(callback func()) {
	lc.onChange = callback
}

// Registry returns the landmark registry shown by the canvas.
func (lc *LandmarkCanvas) Registry() *landmark.Registry {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.reg
}

// Dragging returns the point being dragged, or nil.
func (lc *LandmarkCanvas) Dragging() *landmark.Point {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.controller.Holder()
}

// Update runs fn against the registry while no drag is active, then redraws.
func (lc *LandmarkCanvas) Update(fn func(reg *landmark.Registry) error) error {
	lc.mu.Lock()
	lc.controller.ForceRelease()
	err := fn(lc.reg)
	lc.renderer.FullRedraw()
	lc.mu.Unlock()
	lc.flush()
	lc.changed()
	return err
}

// ForceRelease ends any drag in progress. Call it when the window loses focus.
func (lc *LandmarkCanvas) ForceRelease() {
	lc.mu.Lock()
	released := lc.controller.ForceRelease()
	lc.mu.Unlock()
	lc.flush()
	if released {
		lc.changed()
	}
}

// SetBackdrop replaces the backdrop image.
func (lc *LandmarkCanvas) SetBackdrop(img image.Image) {
	lc.mu.Lock()
	lc.controller.ForceRelease()
	lc.renderer.SetBackdrop(img)
	lc.updateMinSize()
	lc.mu.Unlock()
	lc.flush()
	lc.Refresh()
}

// ClampZoom limits zoom to the range the canvas supports. NaN gives 1.
func ClampZoom(zoom float64) float64 {
	switch {
	case math.IsNaN(zoom):
		return 1.0
	case zoom < minZoom:
		return minZoom
	case zoom > maxZoom:
		return maxZoom
	}
	return zoom
}

// SetZoom sets the zoom level.
func (lc *LandmarkCanvas) SetZoom(zoom float64) {
	zoom = ClampZoom(zoom)
	lc.mu.Lock()
	lc.controller.ForceRelease()
	lc.renderer.SetZoom(zoom)
	lc.updateMinSize()
	lc.mu.Unlock()
	lc.flush()
	lc.Refresh()
}

// GetZoom returns the current zoom level.
func (lc *LandmarkCanvas) GetZoom() float64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.renderer.Zoom()
}

// ZoomIn increases the zoom level.
func (lc *LandmarkCanvas) ZoomIn() {
	lc.SetZoom(lc.GetZoom() * zoomStep)
}

// ZoomOut decreases the zoom level.
func (lc *LandmarkCanvas) ZoomOut() {
	lc.SetZoom(lc.GetZoom() / zoomStep)
}

// updateMinSize sizes the raster to the renderer's surface. Runs with mu held.
func (lc *LandmarkCanvas) updateMinSize() {
	b := lc.renderer.Bounds()
	size := fyne.NewSize(float32(b.Dx()), float32(b.Dy()))
	lc.raster.SetMinSize(size)
	lc.raster.Resize(size)
}

// draw is the raster drawing function. It hands fyne a copy so the
// renderer can keep drawing while the frame is displayed.
func (lc *LandmarkCanvas) draw(w, h int) image.Image {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	visible := lc.renderer.Visible()
	out := image.NewRGBA(visible.Bounds())
	copy(out.Pix, visible.Pix)
	return out
}

// event converts a widget-relative position to a drag event.
func (lc *LandmarkCanvas) event(pos fyne.Position, button drag.Button) drag.Event {
	x, y := float64(pos.X), float64(pos.Y)
	return drag.Event{
		Pos:      lc.renderer.ToData(x, y),
		InBounds: lc.renderer.InBounds(x, y),
		Button:   button,
	}
}

func buttonOf(b desktop.MouseButton) drag.Button {
	switch b {
	case desktop.MouseButtonPrimary:
		return drag.ButtonPrimary
	case desktop.MouseButtonSecondary:
		return drag.ButtonSecondary
	case desktop.MouseButtonTertiary:
		return drag.ButtonTertiary
	default:
		return drag.ButtonNone
	}
}

// MouseDown starts a drag on primary press, or reports a secondary click.
func (lc *LandmarkCanvas) MouseDown(ev *desktop.MouseEvent) {
	button := buttonOf(ev.Button)
	lc.mu.Lock()
	e := lc.event(ev.Position, button)
	idle := lc.controller.State() == drag.Idle
	if button == drag.ButtonPrimary {
		lc.controller.Press(e)
	}
	lc.mu.Unlock()
	lc.flush()

	if button == drag.ButtonSecondary && idle && e.InBounds && lc.onSecondary != nil {
		lc.onSecondary(e.Pos.X, e.Pos.Y)
	}
}

// MouseUp releases the drag started by the same button.
func (lc *LandmarkCanvas) MouseUp(ev *desktop.MouseEvent) {
	lc.mu.Lock()
	released := lc.controller.Release(lc.event(ev.Position, buttonOf(ev.Button)))
	lc.mu.Unlock()
	lc.flush()
	if released {
		lc.changed()
	}
}

// Dragged moves the held point. Positions outside the widget are ignored
// by the controller without ending the drag.
func (lc *LandmarkCanvas) Dragged(ev *fyne.DragEvent) {
	lc.mu.Lock()
	lc.controller.Move(lc.event(ev.Position, drag.ButtonPrimary))
	lc.mu.Unlock()
	lc.flush()
}

// DragEnd releases a primary-button drag. MouseUp usually gets there first.
func (lc *LandmarkCanvas) DragEnd() {
	lc.mu.Lock()
	released := lc.controller.Release(drag.Event{Button: drag.ButtonPrimary})
	lc.mu.Unlock()
	lc.flush()
	if released {
		lc.changed()
	}
}

// CreateRenderer implements fyne.Widget.
func (lc *LandmarkCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(lc.raster)
}

var (
	_ desktop.Mouseable = (*LandmarkCanvas)(nil)
	_ fyne.Draggable    = (*LandmarkCanvas)(nil)
	_ render.Surface    = (*LandmarkCanvas)(nil)
)
