package landmark

import "gonum.org/v1/gonum/spatial/r2"

// Segment is a line between two chain points, owned by the later of the two.
// A singleton label owns one degenerate segment with no endpoints.
type Segment struct {
	owner    *Point
	from, to *Point

	// Drawn geometry. Equal to the endpoint positions whenever no drag is
	// between a restore and the following redraw.
	a, b r2.Vec
}

func newSegment(owner, from, to *Point) *Segment {
	s := &Segment{owner: owner, from: from, to: to}
	s.sync()
	return s
}

// Owner returns the point owning the segment.
func (s *Segment) Owner() *Point { return s.owner }

// From returns the earlier chain point, nil for a degenerate segment.
func (s *Segment) From() *Point { return s.from }

// To returns the later chain point, nil for a degenerate segment.
func (s *Segment) To() *Point { return s.to }

// Degenerate reports whether the segment is a singleton placeholder.
func (s *Segment) Degenerate() bool { return s.from == nil || s.to == nil }

// Endpoints returns the cached drawn geometry.
func (s *Segment) Endpoints() (r2.Vec, r2.Vec) { return s.a, s.b }

// sync copies the current endpoint positions into the drawn geometry.
// Degenerate segments keep their origin placeholder.
func (s *Segment) sync() {
	if s.Degenerate() {
		return
	}
	s.a = s.from.pos
	s.b = s.to.pos
}
