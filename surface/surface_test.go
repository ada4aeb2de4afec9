package surface

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/eval"
	"github.com/npillmayer/nurbs/knotv"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// a plane z = 0 over [0,2]×[0,3], bilinear
func plane() *Surface {
	return MustNew(eval.Grid{
		{nurbs.Pt(0, 0, 0), nurbs.Pt(0, 3, 0)},
		{nurbs.Pt(2, 0, 0), nurbs.Pt(2, 3, 0)},
	})
}

// a quarter cylinder of radius 1 around the z-axis, height 2
func quarterCylinder() *Surface {
	w := math.Sqrt2 / 2
	grid := eval.Grid{
		{nurbs.Pt(1, 0, 0), nurbs.Pt(1, 0, 1), nurbs.Pt(1, 0, 2)},
		{nurbs.Pt(1, 1, 0), nurbs.Pt(1, 1, 1), nurbs.Pt(1, 1, 2)},
		{nurbs.Pt(0, 1, 0), nurbs.Pt(0, 1, 1), nurbs.Pt(0, 1, 2)},
	}
	return MustNew(grid, WithDegrees(2, 1), WithWeights([][]float64{{1, 1, 1}, {w, w, w}, {1, 1, 1}}))
}

func TestPlane(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := plane()
	p, q := s.Degrees()
	assert.Equal(t, 1, p)
	assert.Equal(t, 1, q)
	ou, ov := s.Order()
	assert.Equal(t, 2, ou)
	assert.Equal(t, 2, ov)
	uv := []eval.UV{{U: 0, V: 0}, {U: 0.5, V: 0.5}, {U: 0.25, V: 1}}
	want := []r3.Vec{{}, {X: 1, Y: 1.5}, {X: 0.5, Y: 3}}
	if diff := cmp.Diff(want, s.PointsAt(uv), approx); diff != "" {
		t.Errorf("plane points (-want +got):\n%s", diff)
	}
	ders := s.Derivs(uv[1:2], 1, 1)
	assert.InDelta(t, 2.0, ders[0][1][0].X, 1e-12)
	assert.InDelta(t, 3.0, ders[0][0][1].Y, 1e-12)
	assert.InDelta(t, 0.0, ders[0][1][1].X, 1e-12)
	n := s.Normals(uv[1:2])
	assert.InDelta(t, 1.0, n[0].Z, 1e-12)
	box := s.BBox()
	assert.Equal(t, r3.Vec{X: 2, Y: 3}, box.Max)
}

func TestCylinder(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := quarterCylinder()
	var uv []eval.UV
	for _, u := range knotv.Uniform(10, 0, 1) {
		for _, v := range knotv.Uniform(4, 0, 1) {
			uv = append(uv, eval.UV{U: u, V: v})
		}
	}
	pts := s.PointsAt(uv)
	normals := s.Normals(uv)
	for i, x := range pts {
		assert.InDelta(t, 1.0, math.Hypot(x.X, x.Y), 1e-12, "uv = %v", uv[i])
		assert.InDelta(t, 2*uv[i].V, x.Z, 1e-12)
		// normals are radial
		assert.InDelta(t, 1.0, math.Abs(r3.Dot(normals[i], r3.Vec{X: x.X, Y: x.Y})), 1e-9)
	}
}

func TestGrid(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := quarterCylinder()
	grid, err := s.Grid(context.Background(), 20, 5)
	require.NoError(t, err)
	require.Len(t, grid, 21)
	require.Len(t, grid[0], 6)
	want := s.PointsAt([]eval.UV{{U: 0.35, V: 0.6}})[0]
	if diff := cmp.Diff(want, grid[7][3], approx); diff != "" {
		t.Errorf("grid point (-want +got):\n%s", diff)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Grid(ctx, 100, 100)
	assert.Error(t, err)
}

func TestConstruction(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	row := []nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 0, 0), nurbs.Pt(2, 0, 0), nurbs.Pt(3, 0, 0)}
	grid := eval.Grid{row, row, row}
	s, err := New(grid)
	require.NoError(t, err)
	p, q := s.Degrees()
	assert.Equal(t, 2, p)
	assert.Equal(t, 3, q)
	s, err = New(grid, WithDegrees(1, 1), ClosedV())
	require.NoError(t, err)
	_, V := s.Knots()
	assert.Equal(t, 6, V.NKnots())
	assert.False(t, V.IsClamped(1))
	s, err = New(grid, WithDegrees(2, 3), WithKnots(nil, []float64{0, 0, 0, 0, 1, 1, 1, 1}))
	require.NoError(t, err)
	_, err = New(grid, WithDegrees(0, 2), WithKnots(nil, []float64{0, 0, 0, 1, 1, 1}))
	assert.ErrorIs(t, err, nurbs.ErrKnotCount)
	_, err = New(grid, WithDegrees(3, 1))
	assert.ErrorIs(t, err, nurbs.ErrTooFewControlPoints)
	_, err = New(grid, WithDegrees(2, 2), NonBlendedV())
	assert.ErrorIs(t, err, knotv.ErrSegmentCount)
	_, err = New(eval.Grid{row, row[:2]})
	assert.ErrorIs(t, err, nurbs.ErrDimension)
	_, err = New(grid, WithWeights([][]float64{{1, 1, 1, 1}}))
	assert.ErrorIs(t, err, nurbs.ErrDimension)
	_, err = New(nil)
	assert.ErrorIs(t, err, nurbs.ErrTooFewControlPoints)
}

func TestTransform(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	s := quarterCylinder()
	rot := s.Transform(nurbs.Rotation(math.Pi/2, r3.Vec{Z: 1}))
	uv := []eval.UV{{U: 0, V: 0.5}}
	got := rot.PointsAt(uv)[0]
	if diff := cmp.Diff(r3.Vec{Y: 1, Z: 1}, got, approx); diff != "" {
		t.Errorf("rotated point (-want +got):\n%s", diff)
	}
}
