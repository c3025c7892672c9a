package drag

import (
	"image"
	"log"

	"landmark-editor/internal/landmark"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is the controller's interaction state.
type State int

const (
	Idle State = iota
	Dragging
)

func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Renderer performs the restore/redraw/composite cycle for a drag.
type Renderer interface {
	// SnapshotExcluding rasterises everything except live and returns an
	// opaque background handle.
	SnapshotExcluding(live landmark.LiveSet) image.Image
	// Restore resets the drawable surface to the background.
	Restore(bg image.Image)
	// DrawLive draws live on top of the surface and returns the pixel bounds drawn.
	DrawLive(live landmark.LiveSet) image.Rectangle
	// CompositeDirtyRegion pushes bounds to the visible output.
	CompositeDirtyRegion(bounds image.Rectangle)
	// FullRedraw redraws everything from authoritative state.
	FullRedraw()
}

// NopRenderer discards every render call.
type NopRenderer struct{}

func (NopRenderer) SnapshotExcluding(landmark.LiveSet) image.Image { return nil }
func (NopRenderer) Restore(image.Image)                            {}
func (NopRenderer) DrawLive(landmark.LiveSet) image.Rectangle      { return image.Rectangle{} }
func (NopRenderer) CompositeDirtyRegion(image.Rectangle)           {}
func (NopRenderer) FullRedraw()                                    {}

// Controller routes pointer events to the point holding the session's lock.
// It is not safe for concurrent use; callers deliver events one at a time.
type Controller struct {
	reg      *landmark.Registry
	session  *Session
	renderer Renderer
	logger   *log.Logger

	background image.Image
}

// Option configures a Controller.
type Option func(*Controller)

// WithRenderer sets the renderer. The default discards all drawing.
func WithRenderer(r Renderer) Option {
	return func(c *Controller) { c.renderer = r }
}

// WithLogger logs lock transitions to l.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// NewController creates a controller over reg using session as its lock.
// A nil session gets a fresh one.
func NewController(reg *landmark.Registry, session *Session, opts ...Option) *Controller {
	if session == nil {
		session = NewSession()
	}
	c := &Controller{
		reg:      reg,
		session:  session,
		renderer: NopRenderer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the controller's session.
func (c *Controller) Session() *Session { return c.session }

// State returns the current state.
func (c *Controller) State() State {
	if c.session.Active() {
		return Dragging
	}
	return Idle
}

// Holder returns the point being dragged, or nil.
func (c *Controller) Holder() *landmark.Point { return c.session.Holder() }

// held returns the session's lock when this controller acquired it. A lock
// taken through another controller sharing the session is never touched.
func (c *Controller) held() (Lock, bool) {
	l, ok := c.session.Lock()
	if !ok || l.owner != c {
		return Lock{}, false
	}
	return l, true
}

func (c *Controller) logf(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}

// Press starts a drag on the topmost point under the pointer. It is a no-op
// when the pointer is off the surface, misses every point, or another drag
// already holds the lock.
func (c *Controller) Press(ev Event) bool {
	if !ev.InBounds || c.session.Active() {
		return false
	}
	p := c.reg.HitTest(ev.Pos)
	if p == nil {
		return false
	}
	live, err := c.reg.Live(p)
	if err != nil {
		c.logf("Drag: press %s: %v", p, err)
		return false
	}
	if !c.session.acquire(Lock{
		Point:  p,
		Origin: p.Position(),
		Press:  ev.Pos,
		Button: ev.Button,
		Live:   live,
		owner:  c,
	}) {
		return false
	}
	c.logf("Drag: acquired %s", p)

	c.background = c.renderer.SnapshotExcluding(live)
	c.renderer.CompositeDirtyRegion(c.renderer.DrawLive(live))
	return true
}

// dragPosition returns the point position for a pointer at pos.
func dragPosition(l Lock, pos r2.Vec) r2.Vec {
	return r2.Add(l.Origin, r2.Sub(pos, l.Press))
}

// Move drags the held point to follow the pointer. Moves with no drag in
// progress or with the pointer off the surface are ignored; the drag stays
// active either way.
func (c *Controller) Move(ev Event) bool {
	l, ok := c.held()
	if !ok || !ev.InBounds {
		return false
	}
	if _, err := c.reg.Move(l.Point, dragPosition(l, ev.Pos)); err != nil {
		c.logf("Drag: move %s: %v", l.Point, err)
		return false
	}

	c.renderer.Restore(c.background)
	c.renderer.CompositeDirtyRegion(c.renderer.DrawLive(l.Live))
	return true
}

// Release ends the drag when ev comes from the button that started it.
func (c *Controller) Release(ev Event) bool {
	l, ok := c.held()
	if !ok || ev.Button != l.Button {
		return false
	}
	c.finish(l)
	return true
}

// ForceRelease ends this controller's drag regardless of event source. The
// surrounding application calls it when a release can no longer arrive,
// e.g. on focus loss.
func (c *Controller) ForceRelease() bool {
	l, ok := c.held()
	if !ok {
		return false
	}
	c.logf("Drag: forced release")
	c.finish(l)
	return true
}

func (c *Controller) finish(l Lock) {
	c.session.release()
	c.background = nil
	c.logf("Drag: released %s", l.Point)
	c.renderer.FullRedraw()
}
