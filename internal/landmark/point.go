// Package landmark provides the point, segment and chain model for labeled
// landmark chains.
package landmark

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// PointID identifies a point within a registry. IDs follow creation order,
// so a higher ID is drawn above a lower one.
type PointID int

// Point is a draggable anchor belonging to one label's chain.
type Point struct {
	id        PointID
	label     string
	index     int
	pos       r2.Vec
	radius    float64
	singleton bool

	// segment is the backward segment this point owns (nil for index 0),
	// or the degenerate segment of a singleton label.
	segment *Segment
}

// ID returns the point's creation sequence number.
func (p *Point) ID() PointID { return p.id }

// Label returns the chain label.
func (p *Point) Label() string { return p.label }

// Index returns the position within the chain. It never changes.
func (p *Point) Index() int { return p.index }

// Position returns the current position in data coordinates.
func (p *Point) Position() r2.Vec { return p.pos }

// X returns the current x coordinate.
func (p *Point) X() float64 { return p.pos.X }

// Y returns the current y coordinate.
func (p *Point) Y() float64 { return p.pos.Y }

// Radius returns the marker radius in data units.
func (p *Point) Radius() float64 { return p.radius }

// Singleton reports whether the point belongs to a singleton label.
func (p *Point) Singleton() bool { return p.singleton }

// Segment returns the segment owned by this point, or nil.
func (p *Point) Segment() *Segment { return p.segment }

// Contains reports whether v lies inside or on the marker.
func (p *Point) Contains(v r2.Vec) bool {
	return r2.Norm2(r2.Sub(v, p.pos)) <= p.radius*p.radius
}

// Name returns "label[index]", or just the label for singletons.
func (p *Point) Name() string {
	if p.singleton {
		return p.label
	}
	return fmt.Sprintf("%s[%d]", p.label, p.index)
}

func (p *Point) String() string {
	return fmt.Sprintf("%s(%.2f, %.2f)", p.Name(), p.pos.X, p.pos.Y)
}
