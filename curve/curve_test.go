package curve

import (
	"context"
	"errors"
	"math"
	"testing"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knotv"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmpopts.EquateApprox(0, 1e-8)

// a rational cubic with a double interior knot
func bookCurve() *Curve {
	P := []nurbs.Point{
		nurbs.Pt(0, 0, 0),
		nurbs.Homogeneous(r3.Vec{X: 1, Y: 2, Z: 0.5}, 2),
		nurbs.Pt(3, 3, 1),
		nurbs.Homogeneous(r3.Vec{X: 4, Y: 1}, 0.5),
		nurbs.Pt(5, -1, 0),
		nurbs.Homogeneous(r3.Vec{X: 6, Z: 2}, 1.5),
		nurbs.Pt(7, 2, 1),
		nurbs.Pt(8, 0, 0),
	}
	U := []float64{0, 0, 0, 0, 0.2, 0.4, 0.4, 0.7, 1, 1, 1, 1}
	return MustNew(P, WithDegree(3), WithKnots(U))
}

// the unit circle from 4 rational quadratic arcs
func unitCircle() *Curve {
	pts := []r3.Vec{
		{X: 1}, {X: 1, Y: 1}, {Y: 1}, {X: -1, Y: 1}, {X: -1},
		{X: -1, Y: -1}, {Y: -1}, {X: 1, Y: -1}, {X: 1},
	}
	w := math.Sqrt2 / 2
	P := make([]nurbs.Point, len(pts))
	for i, p := range pts {
		P[i] = nurbs.FromVec(p)
	}
	U := []float64{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1, 1, 1}
	return MustNew(P, WithDegree(2), WithKnots(U), WithWeights([]float64{1, w, 1, w, 1, w, 1, w, 1}))
}

func samples(c *Curve) []float64 {
	lo, hi := c.Domain()
	return knotv.Uniform(50, lo, hi)
}

func assertSameShape(t *testing.T, want, got *Curve) {
	t.Helper()
	u := samples(want)
	if diff := cmp.Diff(want.PointsAt(u...), got.PointsAt(u...), approx); diff != "" {
		t.Errorf("curves differ (-want +got):\n%s", diff)
	}
}

func TestStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P := []nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 0, 0), nurbs.Pt(2, 0, 0), nurbs.Pt(3, 0, 0)}
	c, err := New(P, WithDegree(3), WithKnots([]float64{0, 0, 0, 0, 1, 1, 1, 1}))
	require.NoError(t, err)
	assert.Equal(t, 4, c.Order())
	assert.Equal(t, 8, c.NKnots())
	u := []float64{0, 0.1, 0.3, 0.5, 0.77, 1}
	for i, p := range c.PointsAt(u...) {
		if diff := cmp.Diff(r3.Vec{X: 3 * u[i]}, p, approx); diff != "" {
			t.Errorf("u=%g: (-want +got):\n%s", u[i], diff)
		}
	}
	ders := c.Derivs([]float64{0.4}, 2)
	assert.InDelta(t, 3.0, ders[1][0].X, 1e-12)
	assert.InDelta(t, 0.0, ders[2][0].X, 1e-12)
}

func TestDefaultDegree(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := make([]nurbs.Point, 7)
	for i := range pts {
		pts[i] = nurbs.Pt(float64(i), float64(i%2), 0)
	}
	c := MustNew(pts[:4])
	assert.Equal(t, 3, c.Degree())
	c = MustNew(pts, NonBlended())
	assert.Equal(t, 3, c.Degree())
	assert.False(t, c.Blended())
	assert.Equal(t, "KnotVector: 0(4), 1(3), 2(4)", c.KnotVector().String())
	c = MustNew(pts[:5], WithKnots([]float64{0, 0, 0, 0.5, 0.7, 1, 1, 1}))
	assert.Equal(t, 2, c.Degree())
	c = MustNew(pts, WithDegree(2))
	assert.True(t, c.IsClamped())
	assert.Equal(t, 10, c.NKnots())
}

func TestConstructionErrors(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 1, 0), nurbs.Pt(2, 0, 0), nurbs.Pt(3, 1, 0), nurbs.Pt(4, 0, 0), nurbs.Pt(5, 1, 0)}
	_, err := New(pts[:4], WithDegree(3), WithKnots([]float64{0, 0, 0, 0, 1, 1, 1}))
	assert.True(t, errors.Is(err, nurbs.ErrKnotCount), "err = %v", err)
	_, err = New(pts[:3], WithDegree(3))
	assert.ErrorIs(t, err, nurbs.ErrTooFewControlPoints)
	_, err = New(pts, WithDegree(3), NonBlended())
	assert.ErrorIs(t, err, knotv.ErrSegmentCount)
	_, err = New(pts, WithWeights([]float64{1, 2}))
	assert.ErrorIs(t, err, nurbs.ErrDimension)
	_, err = New(nil)
	assert.ErrorIs(t, err, nurbs.ErrTooFewControlPoints)
	_, err = New([]nurbs.Point{nurbs.Pt(math.NaN(), 0, 0), nurbs.Pt(1, 0, 0)})
	assert.ErrorIs(t, err, nurbs.ErrNotFinite)
	assert.Panics(t, func() { MustNew(pts[:2], WithDegree(4)) })
}

func TestWeights(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := unitCircle()
	assert.Equal(t, nurbs.Homogeneous(r3.Vec{X: 1, Y: 1}, math.Sqrt2/2), c.Control()[1])
	for i, p := range c.PointsAt(samples(c)...) {
		assert.InDelta(t, 1.0, r3.Norm(p), 1e-12, "sample %d", i)
	}
}

func TestClosedCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	pts := []nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 0, 0), nurbs.Pt(1, 1, 0), nurbs.Pt(0, 1, 0)}
	c, err := New(pts, WithDegree(3), Closed())
	require.NoError(t, err)
	assert.True(t, c.Closed())
	assert.Equal(t, 7, c.NCtrl())
	assert.Equal(t, 11, c.NKnots())
	ctrl := c.Control()
	assert.Equal(t, pts[2], ctrl[0])
	assert.Equal(t, pts[3], ctrl[1])
	assert.Equal(t, pts[0], ctrl[2])
	assert.Equal(t, pts[0], ctrl[6])
	lo, hi := c.Domain()
	ends := c.PointsAt(lo, hi)
	if diff := cmp.Diff(ends[0], ends[1], approx); diff != "" {
		t.Errorf("closed curve does not close (-start +end):\n%s", diff)
	}
	_, err = c.InsertKnots([]float64{0.5})
	assert.ErrorIs(t, err, nurbs.ErrClosedCurve)
	_, err = c.ElevateDegree(1)
	assert.ErrorIs(t, err, nurbs.ErrClosedCurve)
	_, _, err = c.RemoveKnot(0.5, 1, 1e-5)
	assert.ErrorIs(t, err, nurbs.ErrClosedCurve)
	_, err = c.Decompose()
	assert.ErrorIs(t, err, nurbs.ErrClosedCurve)
}

func TestData(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := bookCurve()
	d, err := FromData(c.Data())
	require.NoError(t, err)
	assert.Equal(t, c.Control(), d.Control())
	assert.Equal(t, c.Knots(), d.Knots())
	assert.True(t, d.Blended())
	pts := []nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 0, 0), nurbs.Pt(1, 1, 0), nurbs.Pt(0, 1, 0)}
	closed := MustNew(pts, WithDegree(2), Closed())
	d, err = FromData(closed.Data())
	require.NoError(t, err)
	assert.True(t, d.Closed())
	assert.Equal(t, closed.NCtrl(), d.NCtrl())
	_, err = FromData(Data{Degree: 3, Control: c.Data().Control, Knots: []float64{0, 0, 1, 1}})
	assert.ErrorIs(t, err, nurbs.ErrKnotCount)
}

func TestApprox(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := bookCurve()
	pts := c.Approx(2)
	require.Len(t, pts, 9) // 4 knot spans
	assert.Equal(t, r3.Vec{}, pts[0])
	assert.InDelta(t, 8.0, pts[8].X, 1e-12)
	line := MustNew([]nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 0, 0), nurbs.Pt(4, 0, 0)}, WithDegree(2))
	seg := line.ApproxSegments(4, 200)
	require.Len(t, seg, 5)
	for i := 1; i < len(seg); i++ {
		assert.InDelta(t, 1.0, seg[i].X-seg[i-1].X, 0.01)
	}
}

func TestPointsAtParallel(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := bookCurve()
	u := knotv.Uniform(1000, 0, 1)
	pts, err := c.PointsAtParallel(context.Background(), u)
	require.NoError(t, err)
	if diff := cmp.Diff(c.PointsAt(u...), pts, approx); diff != "" {
		t.Errorf("parallel evaluation differs (-want +got):\n%s", diff)
	}
}

func TestFrenet(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := unitCircle()
	u := []float64{0.05, 0.3, 0.6, 0.9}
	pts := c.PointsAt(u...)
	for i, f := range c.FrenetAt(u...) {
		assert.InDelta(t, 1.0, f.Curvature, 1e-9, "u=%g", u[i])
		assert.InDelta(t, 0.0, f.Torsion, 1e-9, "u=%g", u[i])
		assert.InDelta(t, 0.0, r3.Dot(f.T, f.N), 1e-12)
		if diff := cmp.Diff(r3.Scale(-1, pts[i]), f.N, approx); diff != "" {
			t.Errorf("u=%g: normal does not point to center:\n%s", u[i], diff)
		}
		assert.InDelta(t, 1.0, f.B.Z, 1e-9)
	}
	f := Frenet(r3.Vec{X: 1}, r3.Vec{}, r3.Vec{})
	assert.Equal(t, r3.Vec{X: 1}, f.T)
	assert.Equal(t, r3.Vec{}, f.N)
}

func TestTransform(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := bookCurve()
	d := r3.Vec{X: 1, Y: -2, Z: 3}
	moved := c.Transform(nurbs.Translation(d))
	u := samples(c)
	want := c.PointsAt(u...)
	for i := range want {
		want[i] = r3.Add(want[i], d)
	}
	if diff := cmp.Diff(want, moved.PointsAt(u...), approx); diff != "" {
		t.Errorf("translated curve (-want +got):\n%s", diff)
	}
}

func TestFromPolyline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c, err := FromPolyline([]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Degree())
	assert.Equal(t, 4, c.NCtrl())
	assert.Equal(t, []r3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {}}, c.KnotPoints(false))
}

func square(x, y, size float64) *Curve {
	c, err := FromPolyline([]r3.Vec{
		{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
	}, true)
	if err != nil {
		panic(err)
	}
	return c
}

func TestOutline(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	sq := square(0, 0, 2)
	poly, err := sq.Outline(1)
	require.NoError(t, err)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 4)
	in, err := sq.Contains(0.5, 1.5, 1)
	require.NoError(t, err)
	assert.True(t, in)
	in, _ = sq.Contains(2.5, 1, 1)
	assert.False(t, in)
	isect, err := Clip(sq, square(1, 1, 2), polyclip.INTERSECTION, 1)
	require.NoError(t, err)
	bb := isect.BoundingBox()
	assert.InDelta(t, 1.0, bb.Min.X, 1e-9)
	assert.InDelta(t, 1.0, bb.Min.Y, 1e-9)
	assert.InDelta(t, 2.0, bb.Max.X, 1e-9)
	assert.InDelta(t, 2.0, bb.Max.Y, 1e-9)
	circle, err := unitCircle().Outline(8)
	require.NoError(t, err)
	assert.Len(t, circle[0], 32)
	_, err = bookCurve().Outline(4)
	assert.ErrorIs(t, err, ErrNotPlanar)
	open, _ := FromPolyline([]r3.Vec{{}, {X: 1}, {X: 1, Y: 1}}, false)
	_, err = open.Outline(1)
	assert.ErrorIs(t, err, nurbs.ErrClosedCurve)
}
