package landmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func newTestRegistry() *Registry {
	return NewRegistry(Options{MarkerSize: 2, Singletons: DefaultSingletons})
}

// arm builds the three-point "arm" chain at (0,0), (1,0), (2,0).
func arm(t *testing.T, r *Registry) []*Point {
	t.Helper()
	var pts []*Point
	for i := 0; i < 3; i++ {
		p, err := r.CreatePoint("arm", float64(i), 0)
		require.NoError(t, err)
		pts = append(pts, p)
	}
	return pts
}

func TestChainAppend(t *testing.T) {
	r := newTestRegistry()
	pts := arm(t, r)

	chain := r.Chain("arm")
	require.Len(t, chain, 3)
	for i, p := range chain {
		assert.Equal(t, i, p.Index())
	}

	segs := r.Segments()
	require.Len(t, segs, 2)
	assert.Nil(t, pts[0].Segment())

	assert.Same(t, pts[1], segs[0].Owner())
	assert.Same(t, pts[0], segs[0].From())
	assert.Same(t, pts[1], segs[0].To())

	assert.Same(t, pts[2], segs[1].Owner())
	assert.Same(t, pts[1], segs[1].From())
	assert.Same(t, pts[2], segs[1].To())

	a, b := segs[1].Endpoints()
	assert.Equal(t, r2.Vec{X: 1}, a)
	assert.Equal(t, r2.Vec{X: 2}, b)
}

func TestSingleton(t *testing.T) {
	r := newTestRegistry()
	head, err := r.CreatePoint("head", 5, 5)
	require.NoError(t, err)

	assert.True(t, head.Singleton())
	assert.Equal(t, 2.0, head.Radius(), "singleton radius is doubled")
	require.NotNil(t, head.Segment())
	assert.True(t, head.Segment().Degenerate())
	a, b := head.Segment().Endpoints()
	assert.Equal(t, r2.Vec{}, a)
	assert.Equal(t, r2.Vec{}, b)

	_, err = r.CreatePoint("head", 1, 1)
	assert.ErrorIs(t, err, ErrSingletonTaken)

	n, err := r.Neighbors(head)
	require.NoError(t, err)
	assert.Nil(t, n.Previous)
	assert.Nil(t, n.Next)

	affected, err := r.AffectedSegments(head)
	require.NoError(t, err)
	assert.Equal(t, []*Segment{head.Segment()}, affected)

	// Moving a singleton leaves its placeholder segment alone.
	_, err = r.Move(head, r2.Vec{X: 9, Y: 9})
	require.NoError(t, err)
	a, _ = head.Segment().Endpoints()
	assert.Equal(t, r2.Vec{}, a)
}

func TestInsertPointErrors(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertPoint("leg", 1, 0, 0)
	assert.ErrorIs(t, err, ErrIndexGap)

	_, err = r.CreatePoint("  ", 0, 0)
	assert.ErrorIs(t, err, ErrEmptyLabel)

	_, err = r.InsertPoint("leg", 0, 0, 0)
	require.NoError(t, err)
	_, err = r.InsertPoint("leg", 0, 0, 0)
	assert.ErrorIs(t, err, ErrIndexGap, "duplicate (label, index)")
}

func TestUnknownPoint(t *testing.T) {
	r := newTestRegistry()
	other := newTestRegistry()
	p, err := other.CreatePoint("arm", 0, 0)
	require.NoError(t, err)

	_, err = r.Neighbors(p)
	assert.ErrorIs(t, err, ErrUnknownPoint)
	_, err = r.AffectedSegments(nil)
	assert.ErrorIs(t, err, ErrUnknownPoint)
	_, err = r.Move(p, r2.Vec{})
	assert.ErrorIs(t, err, ErrUnknownPoint)
}

func TestCategoriesAndAffected(t *testing.T) {
	r := newTestRegistry()
	pts := arm(t, r)
	p3, err := r.CreatePoint("arm", 3, 0)
	require.NoError(t, err)
	pts = append(pts, p3)

	tests := []struct {
		name string
		p    *Point
		cat  Category
		segs []*Segment
	}{
		{"first", pts[0], First, []*Segment{pts[1].Segment()}},
		{"middle", pts[1], Middle, []*Segment{pts[1].Segment(), pts[2].Segment()}},
		{"last", pts[3], Last, []*Segment{pts[3].Segment()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := r.CategoryOf(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.cat, cat)

			segs, err := r.AffectedSegments(tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.segs, segs)
		})
	}

	n, err := r.Neighbors(pts[1])
	require.NoError(t, err)
	assert.Same(t, pts[0], n.Previous)
	assert.Same(t, pts[2], n.Next)
}

func TestLonePointHasNoAffectedSegments(t *testing.T) {
	r := newTestRegistry()
	p, err := r.CreatePoint("tail", 0, 0)
	require.NoError(t, err)
	segs, err := r.AffectedSegments(p)
	require.NoError(t, err)
	assert.Empty(t, segs)
}

func TestMoveResyncsSegments(t *testing.T) {
	r := newTestRegistry()
	pts := arm(t, r)

	moved, err := r.Move(pts[0], r2.Vec{X: 0, Y: 5})
	require.NoError(t, err)
	require.Equal(t, []*Segment{pts[1].Segment()}, moved)

	a, b := pts[1].Segment().Endpoints()
	assert.Equal(t, r2.Vec{X: 0, Y: 5}, a)
	assert.Equal(t, r2.Vec{X: 1, Y: 0}, b)

	a, b = pts[2].Segment().Endpoints()
	assert.Equal(t, r2.Vec{X: 1, Y: 0}, a, "p1-p2 untouched")
	assert.Equal(t, r2.Vec{X: 2, Y: 0}, b)
}

func TestHitTestPicksTopmost(t *testing.T) {
	r := newTestRegistry()
	a, err := r.CreatePoint("arm", 0, 0)
	require.NoError(t, err)
	b, err := r.CreatePoint("leg", 0.5, 0)
	require.NoError(t, err)

	assert.Same(t, b, r.HitTest(r2.Vec{X: 0.2}))
	assert.Same(t, a, r.HitTest(r2.Vec{X: -0.9}))
	assert.Nil(t, r.HitTest(r2.Vec{X: 10}))
}

func TestLandmarksAndLoad(t *testing.T) {
	r := newTestRegistry()
	arm(t, r)
	_, err := r.CreatePoint("head", 4, 4)
	require.NoError(t, err)

	lms := r.Landmarks()
	require.Len(t, lms, 4)
	assert.Equal(t, Landmark{Label: "head", Index: 0, X: 4, Y: 4}, lms[3])

	// Shuffle and reload.
	shuffled := []Landmark{lms[2], lms[3], lms[0], lms[1]}
	loaded := newTestRegistry()
	require.NoError(t, loaded.Load(shuffled))
	assert.Equal(t, []string{"arm", "head"}, loaded.Labels())
	assert.Len(t, loaded.Segments(), 3)
	assert.ElementsMatch(t, lms, loaded.Landmarks())

	gap := newTestRegistry()
	err = gap.Load([]Landmark{{Label: "arm", Index: 0}, {Label: "arm", Index: 2}})
	assert.ErrorIs(t, err, ErrIndexGap)
}
