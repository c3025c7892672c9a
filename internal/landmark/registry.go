package landmark

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultMarkerSize is the marker diameter used when Options leaves it unset.
const DefaultMarkerSize = 10.0

// DefaultSingletons lists the labels that hold exactly one point by default.
var DefaultSingletons = []string{"head"}

var (
	// ErrEmptyLabel is returned when a point is created without a label.
	ErrEmptyLabel = errors.New("landmark: empty label")
	// ErrSingletonTaken is returned when a second point is added to a singleton label.
	ErrSingletonTaken = errors.New("landmark: singleton label already has a point")
	// ErrIndexGap is returned when a point would leave a gap in its chain.
	ErrIndexGap = errors.New("landmark: non-contiguous chain index")
	// ErrUnknownPoint is returned when a point does not belong to the registry.
	ErrUnknownPoint = errors.New("landmark: point not in registry")
)

// Options configures a Registry.
type Options struct {
	MarkerSize float64  // Marker diameter in data units (singletons are drawn at twice this)
	Singletons []string // Labels permitted exactly one point
}

// Registry maps each label to its ordered chain of points.
type Registry struct {
	markerSize float64
	singletons map[string]bool

	chains   map[string][]*Point
	labels   []string // first-seen order
	points   []*Point // creation (z) order
	segments []*Segment
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	if opts.MarkerSize <= 0 {
		opts.MarkerSize = DefaultMarkerSize
	}
	r := &Registry{
		markerSize: opts.MarkerSize,
		singletons: make(map[string]bool),
		chains:     make(map[string][]*Point),
	}
	for _, label := range opts.Singletons {
		r.singletons[label] = true
	}
	return r
}

// IsSingleton reports whether label is a singleton label.
func (r *Registry) IsSingleton(label string) bool {
	return r.singletons[label]
}

// MarkerSize returns the configured marker diameter.
func (r *Registry) MarkerSize() float64 { return r.markerSize }

// CreatePoint appends a point to label's chain at the next free index and
// wires its backward segment.
func (r *Registry) CreatePoint(label string, x, y float64) (*Point, error) {
	return r.InsertPoint(label, len(r.chains[label]), x, y)
}

// InsertPoint creates a point at an explicit chain index. The index must be
// exactly the current chain length; anything else is ErrIndexGap.
func (r *Registry) InsertPoint(label string, index int, x, y float64) (*Point, error) {
	if strings.TrimSpace(label) == "" {
		return nil, ErrEmptyLabel
	}
	chain := r.chains[label]
	if index != len(chain) {
		return nil, fmt.Errorf("%w: %s index %d, chain has %d points", ErrIndexGap, label, index, len(chain))
	}
	singleton := r.singletons[label]
	if singleton && len(chain) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrSingletonTaken, label)
	}

	p := &Point{
		id:        PointID(len(r.points)),
		label:     label,
		index:     index,
		pos:       r2.Vec{X: x, Y: y},
		radius:    r.markerSize / 2,
		singleton: singleton,
	}

	switch {
	case singleton:
		p.radius = r.markerSize
		p.segment = newSegment(p, nil, nil)
	case index > 0:
		p.segment = newSegment(p, chain[index-1], p)
	}
	if p.segment != nil {
		r.segments = append(r.segments, p.segment)
	}

	if len(chain) == 0 {
		r.labels = append(r.labels, label)
	}
	r.chains[label] = append(chain, p)
	r.points = append(r.points, p)
	return p, nil
}

// Chain returns a copy of label's points in index order.
func (r *Registry) Chain(label string) []*Point {
	return append([]*Point(nil), r.chains[label]...)
}

// Labels returns the labels in the order their first point was created.
func (r *Registry) Labels() []string {
	return append([]string(nil), r.labels...)
}

// Points returns every point in creation (z) order.
func (r *Registry) Points() []*Point {
	return append([]*Point(nil), r.points...)
}

// Segments returns every segment in creation order.
func (r *Registry) Segments() []*Segment {
	return append([]*Segment(nil), r.segments...)
}

// Len returns the number of points.
func (r *Registry) Len() int { return len(r.points) }

// owns checks that p is the point stored at its own chain slot.
func (r *Registry) owns(p *Point) error {
	if p == nil {
		return fmt.Errorf("%w: nil", ErrUnknownPoint)
	}
	chain := r.chains[p.label]
	if p.index >= len(chain) || chain[p.index] != p {
		return fmt.Errorf("%w: %s", ErrUnknownPoint, p.Name())
	}
	return nil
}

// HitTest returns the topmost point whose marker contains v, or nil.
// Overlapping markers resolve to the most recently created point.
func (r *Registry) HitTest(v r2.Vec) *Point {
	for i := len(r.points) - 1; i >= 0; i-- {
		if r.points[i].Contains(v) {
			return r.points[i]
		}
	}
	return nil
}

// Move places p at pos and resyncs every segment depending on it.
// It returns the resynced segments.
func (r *Registry) Move(p *Point, pos r2.Vec) ([]*Segment, error) {
	affected, err := r.AffectedSegments(p)
	if err != nil {
		return nil, err
	}
	p.pos = pos
	for _, s := range affected {
		s.sync()
	}
	return affected, nil
}

// Landmark is the read-only view of a point handed to persistence.
type Landmark struct {
	Label string  `json:"label" yaml:"label"`
	Index int     `json:"index" yaml:"index"`
	X     float64 `json:"x" yaml:"x"`
	Y     float64 `json:"y" yaml:"y"`
}

// Landmarks returns every point grouped by label (first-seen order) and
// sorted by index within a label.
func (r *Registry) Landmarks() []Landmark {
	out := make([]Landmark, 0, len(r.points))
	for _, label := range r.labels {
		for _, p := range r.chains[label] {
			out = append(out, Landmark{Label: p.label, Index: p.index, X: p.pos.X, Y: p.pos.Y})
		}
	}
	return out
}

// Load seeds the registry from landmarks. Entries may come in any order;
// within a label the indices must form 0..n-1.
func (r *Registry) Load(landmarks []Landmark) error {
	sorted := append([]Landmark(nil), landmarks...)
	order := make(map[string]int)
	for _, lm := range sorted {
		if _, ok := order[lm.Label]; !ok {
			order[lm.Label] = len(order)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Label != sorted[j].Label {
			return order[sorted[i].Label] < order[sorted[j].Label]
		}
		return sorted[i].Index < sorted[j].Index
	})
	for _, lm := range sorted {
		if _, err := r.InsertPoint(lm.Label, lm.Index, lm.X, lm.Y); err != nil {
			return err
		}
	}
	return nil
}
