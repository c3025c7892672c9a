// Package drag implements the single-owner drag state machine that routes
// pointer events to one landmark point at a time.
package drag

import (
	"landmark-editor/internal/landmark"

	"gonum.org/v1/gonum/spatial/r2"
)

// Button identifies the pointer button that produced an event.
type Button int

const (
	ButtonNone Button = iota
	ButtonPrimary
	ButtonSecondary
	ButtonTertiary
)

// Event is a pointer event in data coordinates.
type Event struct {
	Pos      r2.Vec
	InBounds bool // pointer lies within the drawable surface
	Button   Button
}

// Lock records the point being dragged and the press-time snapshot.
type Lock struct {
	Point  *landmark.Point
	Origin r2.Vec // point position at press time
	Press  r2.Vec // pointer position at press time
	Button Button
	Live   landmark.LiveSet

	owner *Controller
}

// Session owns the drag lock for one canvas. It is the only shared mutable
// state of the engine; one session per canvas keeps canvases independent.
type Session struct {
	lock *Lock
}

// NewSession returns an idle session.
func NewSession() *Session {
	return &Session{}
}

// Active reports whether a drag is in progress.
func (s *Session) Active() bool { return s.lock != nil }

// Lock returns a copy of the current lock and whether one is held.
func (s *Session) Lock() (Lock, bool) {
	if s.lock == nil {
		return Lock{}, false
	}
	return *s.lock, true
}

// Holder returns the dragged point, or nil.
func (s *Session) Holder() *landmark.Point {
	if s.lock == nil {
		return nil
	}
	return s.lock.Point
}

// acquire takes the lock if it is free. It never blocks.
func (s *Session) acquire(l Lock) bool {
	if s.lock != nil {
		return false
	}
	s.lock = &l
	return true
}

func (s *Session) release() {
	s.lock = nil
}
