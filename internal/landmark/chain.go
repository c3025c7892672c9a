package landmark

// Category classifies a point by where it sits in its chain.
type Category int

const (
	First Category = iota
	Middle
	Last
	Singleton
)

func (c Category) String() string {
	switch c {
	case First:
		return "first"
	case Middle:
		return "middle"
	case Last:
		return "last"
	case Singleton:
		return "singleton"
	default:
		return "unknown"
	}
}

// Neighbors holds the chain points adjacent to a point. Either may be nil.
type Neighbors struct {
	Previous *Point
	Next     *Point
}

// Neighbors returns the points at index-1 and index+1 in p's chain.
// Singleton points never have neighbors.
func (r *Registry) Neighbors(p *Point) (Neighbors, error) {
	if err := r.owns(p); err != nil {
		return Neighbors{}, err
	}
	var n Neighbors
	if p.singleton {
		return n, nil
	}
	chain := r.chains[p.label]
	if p.index > 0 {
		n.Previous = chain[p.index-1]
	}
	if p.index+1 < len(chain) {
		n.Next = chain[p.index+1]
	}
	return n, nil
}

// CategoryOf returns p's position category. A chain of one point is First.
func (r *Registry) CategoryOf(p *Point) (Category, error) {
	if err := r.owns(p); err != nil {
		return 0, err
	}
	switch n := len(r.chains[p.label]); {
	case p.singleton:
		return Singleton, nil
	case p.index == 0:
		return First, nil
	case p.index == n-1:
		return Last, nil
	default:
		return Middle, nil
	}
}

// AffectedSegments returns the segments whose geometry depends on p: its own
// segment, then its successor's. A singleton yields its degenerate segment.
func (r *Registry) AffectedSegments(p *Point) ([]*Segment, error) {
	cat, err := r.CategoryOf(p)
	if err != nil {
		return nil, err
	}
	chain := r.chains[p.label]
	var out []*Segment
	switch cat {
	case Singleton, Last:
		if p.segment != nil {
			out = append(out, p.segment)
		}
	case First:
		if p.index+1 < len(chain) {
			out = append(out, chain[p.index+1].segment)
		}
	case Middle:
		out = append(out, p.segment, chain[p.index+1].segment)
	}
	return out, nil
}

// LiveSet is a point together with the segments redrawn while it moves.
type LiveSet struct {
	Point    *Point
	Segments []*Segment
}

// Empty reports whether the set holds nothing.
func (l LiveSet) Empty() bool { return l.Point == nil && len(l.Segments) == 0 }

// Has reports whether the set contains p.
func (l LiveSet) Has(p *Point) bool { return p != nil && l.Point == p }

// HasSegment reports whether the set contains s.
func (l LiveSet) HasSegment(s *Segment) bool {
	for _, ls := range l.Segments {
		if ls == s {
			return true
		}
	}
	return false
}

// Live returns the live set for dragging p.
func (r *Registry) Live(p *Point) (LiveSet, error) {
	segs, err := r.AffectedSegments(p)
	if err != nil {
		return LiveSet{}, err
	}
	return LiveSet{Point: p, Segments: segs}, nil
}
