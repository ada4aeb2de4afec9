package eval

import (
	"context"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r3"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func line() ([]nurbs.Point, int, []float64) {
	P := []nurbs.Point{nurbs.Pt(0, 0, 0), nurbs.Pt(1, 0, 0), nurbs.Pt(2, 0, 0), nurbs.Pt(3, 0, 0)}
	return P, 3, []float64{0, 0, 0, 0, 1, 1, 1, 1}
}

// quarter of the unit circle as a rational quadratic Bezier curve
func quarterCircle() ([]nurbs.Point, int, []float64) {
	w := math.Sqrt2 / 2
	P := []nurbs.Point{
		nurbs.Pt(1, 0, 0),
		nurbs.Homogeneous(r3.Vec{X: 1, Y: 1}, w),
		nurbs.Pt(0, 1, 0),
	}
	return P, 2, []float64{0, 0, 0, 1, 1, 1}
}

func TestStraightLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, U := line()
	for _, u := range []float64{0, 0.1, 0.25, 0.5, 0.9, 1} {
		c := CurvePoint(P, p, U, u).Cartesian()
		if diff := cmp.Diff(r3.Vec{X: 3 * u}, c, approx); diff != "" {
			t.Errorf("u=%g: point mismatch (-want +got):\n%s", u, diff)
		}
		ders := CurveDerivsAt(P, p, U, u, 4)
		assert.InDelta(t, 3.0, ders[1].X, 1e-12)
		assert.InDelta(t, 0.0, ders[1].W, 1e-12)
		assert.InDelta(t, 0.0, ders[2].X, 1e-12)
		assert.Equal(t, nurbs.Point{}, ders[4])
	}
}

func TestCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, U := quarterCircle()
	u := []float64{0, 0.2, 0.5, 0.7, 1}
	for i, c := range nurbs.Cartesians(CurvePoints(P, p, U, u)) {
		assert.InDelta(t, 1.0, r3.Norm(c), 1e-12, "u=%g", u[i])
	}
}

func TestRationalDerivs(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, U := quarterCircle()
	h := 1e-5
	at := func(u float64) r3.Vec { return CurvePoint(P, p, U, u).Cartesian() }
	u := []float64{0.1, 0.4, 0.8}
	ders := RationalCurveDerivs(P, p, U, u, 2)
	for i, ui := range u {
		if diff := cmp.Diff(at(ui), ders[0][i], approx); diff != "" {
			t.Errorf("point mismatch (-want +got):\n%s", diff)
		}
		d1 := r3.Scale(1/(2*h), r3.Sub(at(ui+h), at(ui-h)))
		d2 := r3.Scale(1/(h*h), r3.Add(r3.Sub(at(ui+h), r3.Scale(2, at(ui))), at(ui-h)))
		assert.InDelta(t, 0, r3.Norm(r3.Sub(d1, ders[1][i])), 1e-6, "first derivative at u=%g", ui)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(d2, ders[2][i])), 1e-3, "second derivative at u=%g", ui)
		// on a circle the tangent is orthogonal to the radius
		assert.InDelta(t, 0, r3.Dot(ders[0][i], ders[1][i]), 1e-9)
	}
}

func TestRawDerivsEqualWeights(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, U := line()
	u := []float64{0.3, 0.6}
	raw := CurveDerivs(P, p, U, u, 2)
	rat := RationalCurveDerivs(P, p, U, u, 2)
	for k := range raw {
		for i := range u {
			if diff := cmp.Diff(rat[k][i], raw[k][i].Vec(), approx); diff != "" {
				t.Errorf("k=%d, u=%g (-rational +raw):\n%s", k, u[i], diff)
			}
		}
	}
}

func bilinear() (Grid, int, int, []float64, []float64) {
	P := Grid{
		{nurbs.Pt(0, 0, 0), nurbs.Pt(0, 2, 0)},
		{nurbs.Pt(1, 0, 0), nurbs.Pt(1, 2, 1)},
	}
	return P, 1, 1, []float64{0, 0, 1, 1}, []float64{0, 0, 1, 1}
}

func TestSurfacePoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, q, U, V := bilinear()
	uv := []UV{{0, 0}, {1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}}
	want := []r3.Vec{{}, {X: 1}, {Y: 2}, {X: 1, Y: 2, Z: 1}, {X: 0.5, Y: 1, Z: 0.25}}
	got := nurbs.Cartesians(SurfacePoints(P, p, q, U, V, uv))
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("surface points mismatch (-want +got):\n%s", diff)
	}
}

func TestSurfaceDerivs(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, q, U, V := bilinear()
	ders := SurfaceDerivs(P, p, q, U, V, []UV{{0.25, 0.5}}, 2, 2)
	// S(u,v) = (u, 2v, uv)
	assert.InDelta(t, 1.0, ders[1][0][0].X, 1e-12)
	assert.InDelta(t, 0.5, ders[1][0][0].Z, 1e-12)
	assert.InDelta(t, 2.0, ders[0][1][0].Y, 1e-12)
	assert.InDelta(t, 0.25, ders[0][1][0].Z, 1e-12)
	assert.InDelta(t, 1.0, ders[1][1][0].Z, 1e-12)
	assert.Equal(t, nurbs.Point{}, ders[2][0][0])
}

func TestRationalSurfaceDerivs(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	// extrude the quarter circle along z
	C, p, U := quarterCircle()
	P := make(Grid, len(C))
	for i, c := range C {
		top := nurbs.Point{X: c.X, Y: c.Y, Z: c.W * 2, W: c.W}
		P[i] = []nurbs.Point{c, top}
	}
	V := []float64{0, 0, 1, 1}
	at := func(u, v float64) r3.Vec { return SurfacePoint(P, p, 1, U, V, u, v).Cartesian() }
	h := 1e-5
	for _, uv := range []UV{{0.3, 0.4}, {0.7, 0.9}} {
		SKL := RationalSurfaceDerivsAt(P, p, 1, U, V, uv.U, uv.V, 1, 1)
		du := r3.Scale(1/(2*h), r3.Sub(at(uv.U+h, uv.V), at(uv.U-h, uv.V)))
		dv := r3.Scale(1/(2*h), r3.Sub(at(uv.U, uv.V+h), at(uv.U, uv.V-h)))
		assert.InDelta(t, 0, r3.Norm(r3.Sub(du, SKL[1][0])), 1e-6)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(dv, SKL[0][1])), 1e-6)
		assert.InDelta(t, 2.0, SKL[0][1].Z, 1e-9)
		assert.InDelta(t, 0, r3.Norm(SKL[1][1]), 1e-9)
	}
}

func TestParallel(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	P, p, U := quarterCircle()
	u := make([]float64, 1000)
	for i := range u {
		u[i] = float64(i) / 999
	}
	par, err := CurvePointsParallel(context.Background(), P, p, U, u)
	assert.NoError(t, err)
	assert.Equal(t, CurvePoints(P, p, U, u), par)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := CurvePointsParallel(ctx, P, p, U, u); err == nil {
		t.Errorf("Expected error for cancelled context")
	}
	S, sp, sq, SU, SV := bilinear()
	uv := make([]UV, 300)
	for i := range uv {
		uv[i] = UV{float64(i%10) / 9, float64(i/10) / 29}
	}
	spar, err := SurfacePointsParallel(context.Background(), S, sp, sq, SU, SV, uv)
	assert.NoError(t, err)
	assert.Equal(t, SurfacePoints(S, sp, sq, SU, SV, uv), spar)
}
