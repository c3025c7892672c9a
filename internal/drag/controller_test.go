package drag

import (
	"image"
	"testing"

	"landmark-editor/internal/landmark"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// recorder counts renderer calls.
type recorder struct {
	snapshots  int
	restores   int
	draws      int
	composites int
	fulls      int
	lastLive   landmark.LiveSet
}

func (r *recorder) SnapshotExcluding(live landmark.LiveSet) image.Image {
	r.snapshots++
	r.lastLive = live
	return image.NewRGBA(image.Rect(0, 0, 1, 1))
}
func (r *recorder) Restore(bg image.Image) {
	if bg != nil {
		r.restores++
	}
}
func (r *recorder) DrawLive(landmark.LiveSet) image.Rectangle {
	r.draws++
	return image.Rect(0, 0, 1, 1)
}
func (r *recorder) CompositeDirtyRegion(image.Rectangle) { r.composites++ }
func (r *recorder) FullRedraw()                          { r.fulls++ }

func vec(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func at(x, y float64) Event {
	return Event{Pos: vec(x, y), InBounds: true, Button: ButtonPrimary}
}

type fixture struct {
	reg *landmark.Registry
	arm []*landmark.Point
	rec *recorder
	c   *Controller
}

// newFixture builds the "arm" chain at (0,0), (1,0), (2,0) with marker
// radius 0.25 so neighbouring markers never overlap.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := landmark.NewRegistry(landmark.Options{MarkerSize: 0.5, Singletons: landmark.DefaultSingletons})
	var arm []*landmark.Point
	for i := 0; i < 3; i++ {
		p, err := reg.CreatePoint("arm", float64(i), 0)
		require.NoError(t, err)
		arm = append(arm, p)
	}
	rec := &recorder{}
	return &fixture{reg: reg, arm: arm, rec: rec, c: NewController(reg, nil, WithRenderer(rec))}
}

func TestPressAcquiresLock(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(1, 0)))

	assert.Equal(t, Dragging, f.c.State())
	assert.Same(t, f.arm[1], f.c.Holder())
	l, ok := f.c.Session().Lock()
	require.True(t, ok)
	assert.Equal(t, vec(1, 0), l.Origin)
	assert.Equal(t, vec(1, 0), l.Press)

	assert.Equal(t, 1, f.rec.snapshots)
	assert.Equal(t, 1, f.rec.draws)
	assert.Equal(t, 1, f.rec.composites)
	assert.Same(t, f.arm[1], f.rec.lastLive.Point)
	assert.Equal(t, []*landmark.Segment{f.arm[1].Segment(), f.arm[2].Segment()}, f.rec.lastLive.Segments)
}

func TestPressMissIsNoop(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.c.Press(at(5, 5)))
	assert.Equal(t, Idle, f.c.State())
	assert.Zero(t, f.rec.snapshots)

	ev := at(0, 0)
	ev.InBounds = false
	assert.False(t, f.c.Press(ev))
}

func TestAtMostOneDrag(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(0, 0)))
	assert.False(t, f.c.Press(at(1, 0)))
	assert.False(t, f.c.Press(at(2, 0)))

	assert.Same(t, f.arm[0], f.c.Holder())
	for i, p := range f.arm {
		assert.Equal(t, vec(float64(i), 0), p.Position())
	}
	assert.Equal(t, 1, f.rec.snapshots)
}

func TestDeltaCorrectness(t *testing.T) {
	f := newFixture(t)
	// Press off-centre: the point keeps its offset from the pointer.
	require.True(t, f.c.Press(at(1.1, 0.2)))
	require.True(t, f.c.Move(at(4.1, -2.8)))

	assert.InDelta(t, 1+3.0, f.arm[1].X(), 1e-12)
	assert.InDelta(t, 0-3.0, f.arm[1].Y(), 1e-12)

	// Each move is relative to the press, not to the previous move.
	require.True(t, f.c.Move(at(1.6, 0.7)))
	assert.InDelta(t, 1.5, f.arm[1].X(), 1e-12)
	assert.InDelta(t, 0.5, f.arm[1].Y(), 1e-12)

	assert.Equal(t, 1, f.rec.snapshots, "snapshot captured once per drag")
	assert.Equal(t, 2, f.rec.restores)
}

func TestSegmentFollowsPoint(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(1, 0)))
	require.True(t, f.c.Move(at(1, 3)))
	require.True(t, f.c.Release(at(1, 3)))

	a, b := f.arm[1].Segment().Endpoints()
	assert.Equal(t, f.arm[0].Position(), a)
	assert.Equal(t, f.arm[1].Position(), b)

	a, b = f.arm[2].Segment().Endpoints()
	assert.Equal(t, f.arm[1].Position(), a)
	assert.Equal(t, f.arm[2].Position(), b)
	assert.Equal(t, vec(1, 3), a)
}

func TestBoundaryFirstPoint(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(0, 0)))
	require.True(t, f.c.Move(at(0, 5)))
	require.True(t, f.c.Release(at(0, 5)))

	a, b := f.arm[1].Segment().Endpoints()
	assert.Equal(t, vec(0, 5), a)
	assert.Equal(t, vec(1, 0), b)

	a, b = f.arm[2].Segment().Endpoints()
	assert.Equal(t, vec(1, 0), a, "p1-p2 segment untouched")
	assert.Equal(t, vec(2, 0), b)
}

func TestBoundaryLastPoint(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(2, 0)))
	require.True(t, f.c.Move(at(2, -1)))

	a, b := f.arm[2].Segment().Endpoints()
	assert.Equal(t, vec(1, 0), a)
	assert.Equal(t, vec(2, -1), b)
	assert.Len(t, f.rec.lastLive.Segments, 1)
}

func TestOutOfBoundsMove(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(1, 0)))
	composites := f.rec.composites

	out := at(50, 50)
	out.InBounds = false
	assert.False(t, f.c.Move(out))
	assert.Equal(t, vec(1, 0), f.arm[1].Position())
	assert.Equal(t, composites, f.rec.composites, "no composite off-surface")
	assert.Equal(t, Dragging, f.c.State())

	require.True(t, f.c.Move(at(2, 2)))
	assert.Equal(t, vec(2, 2), f.arm[1].Position())
}

func TestMoveWithoutDragIsIgnored(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.c.Move(at(1, 1)))
	assert.Equal(t, vec(1, 0), f.arm[1].Position())
	assert.Zero(t, f.rec.composites)
}

func TestIdempotentRelease(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.c.Release(at(0, 0)), "release while idle")
	assert.Zero(t, f.rec.fulls)

	require.True(t, f.c.Press(at(0, 0)))
	require.True(t, f.c.Move(at(0, 1)))

	wrong := at(0, 1)
	wrong.Button = ButtonSecondary
	assert.False(t, f.c.Release(wrong), "release from another button")
	assert.Equal(t, Dragging, f.c.State())
	assert.Same(t, f.arm[0], f.c.Holder())
	assert.Zero(t, f.rec.fulls)

	require.True(t, f.c.Release(at(0, 1)))
	assert.Equal(t, Idle, f.c.State())
	assert.Equal(t, 1, f.rec.fulls)
	assert.Equal(t, vec(0, 1), f.arm[0].Position())

	assert.False(t, f.c.Release(at(0, 1)))
	assert.Equal(t, 1, f.rec.fulls)
}

func TestReleaseAllowsNextPress(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.c.Press(at(0, 0)))
	require.True(t, f.c.Release(at(0, 0)))
	require.True(t, f.c.Press(at(2, 0)))
	assert.Same(t, f.arm[2], f.c.Holder())
	assert.Equal(t, 2, f.rec.snapshots)
}

func TestForceRelease(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.c.ForceRelease())

	require.True(t, f.c.Press(at(1, 0)))
	require.True(t, f.c.Move(at(1, 1)))
	require.True(t, f.c.ForceRelease())
	assert.Equal(t, Idle, f.c.State())
	assert.Equal(t, vec(1, 1), f.arm[1].Position())
	assert.Equal(t, 1, f.rec.fulls)

	require.True(t, f.c.Press(at(0, 0)), "lock is free again")
}

func TestSingletonDrag(t *testing.T) {
	f := newFixture(t)
	head, err := f.reg.CreatePoint("head", 10, 10)
	require.NoError(t, err)

	require.True(t, f.c.Press(at(10, 10)))
	assert.Equal(t, []*landmark.Segment{head.Segment()}, f.rec.lastLive.Segments)
	require.True(t, f.c.Move(at(12, 11)))
	assert.Equal(t, vec(12, 11), head.Position())
}

func TestSessionsAreIndependent(t *testing.T) {
	f := newFixture(t)
	other := NewController(f.reg, NewSession())

	require.True(t, f.c.Press(at(0, 0)))
	assert.True(t, other.Press(at(2, 0)), "separate session has its own lock")
}

func TestSharedSessionAcrossRegistries(t *testing.T) {
	f := newFixture(t)
	otherReg := landmark.NewRegistry(landmark.Options{MarkerSize: 0.5})
	_, err := otherReg.CreatePoint("arm", 0, 0)
	require.NoError(t, err)
	other := NewController(otherReg, f.c.Session())

	require.True(t, f.c.Press(at(0, 0)))
	assert.False(t, other.Press(at(0, 0)), "lock is taken")

	assert.NotPanics(t, func() {
		assert.False(t, other.Move(at(1, 1)))
	})
	assert.False(t, other.Release(at(1, 1)))
	assert.False(t, other.ForceRelease())
	assert.Equal(t, vec(0, 0), f.arm[0].Position())
	assert.Same(t, f.arm[0], f.c.Holder())

	require.True(t, f.c.Move(at(1, 1)))
	assert.Equal(t, vec(1, 1), f.arm[0].Position())
	require.True(t, f.c.Release(at(1, 1)))
	assert.True(t, other.Press(at(0, 0)), "lock is free again")
}

func TestSharedSessionSameRegistry(t *testing.T) {
	f := newFixture(t)
	other := NewController(f.reg, f.c.Session(), WithRenderer(&recorder{}))

	require.True(t, f.c.Press(at(0, 0)))
	assert.False(t, other.Move(at(1, 1)))
	assert.False(t, other.Release(at(1, 1)))
	assert.Equal(t, vec(0, 0), f.arm[0].Position())
	assert.Equal(t, Dragging, f.c.State())
	assert.Equal(t, 0, f.rec.fulls)
}

func TestNopRendererDefault(t *testing.T) {
	f := newFixture(t)
	c := NewController(f.reg, nil)
	require.True(t, c.Press(at(0, 0)))
	require.True(t, c.Move(at(0.5, 0.5)))
	require.True(t, c.Release(at(0.5, 0.5)))
	assert.Equal(t, vec(0.5, 0.5), f.arm[0].Position())
}
