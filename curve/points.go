package curve

import (
	"context"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/eval"
	"github.com/npillmayer/nurbs/knotv"
	"gonum.org/v1/gonum/spatial/r3"
)

// PointsAt returns the Cartesian points of the curve at the given
// parameter values. Points with weight 0 yield Inf or NaN coordinates;
// this is traced as an error, but not otherwise treated.
func (c *Curve) PointsAt(u ...float64) []r3.Vec {
	pts := nurbs.Cartesians(eval.CurvePoints(c.control, c.degree, c.knotv.Values(), u))
	checkFinite(pts)
	return pts
}

// PointsAtParallel is like PointsAt, but evaluates large batches of
// parameters concurrently.
func (c *Curve) PointsAtParallel(ctx context.Context, u []float64) ([]r3.Vec, error) {
	hpts, err := eval.CurvePointsParallel(ctx, c.control, c.degree, c.knotv.Values(), u)
	if err != nil {
		return nil, err
	}
	pts := nurbs.Cartesians(hpts)
	checkFinite(pts)
	return pts, nil
}

func checkFinite(pts []r3.Vec) {
	for i, p := range pts {
		if !nurbs.IsFinite(p.X) || !nurbs.IsFinite(p.Y) || !nurbs.IsFinite(p.Z) {
			tracer().Errorf("curve point %d is not finite: %v", i, p)
			return
		}
	}
}

// Derivs returns the Cartesian points and derivatives up to order d at the
// given parameter values, indexed [k][i] for derivative order k at u[i].
// Rational curves are handled by the quotient rule, so the derivatives are
// correct for arbitrary weights.
func (c *Curve) Derivs(u []float64, d int) [][]r3.Vec {
	return eval.RationalCurveDerivs(c.control, c.degree, c.knotv.Values(), u, d)
}

// HomogeneousDerivs returns the derivatives of the curve in homogeneous
// space, without any perspective division, indexed [k][i].
func (c *Curve) HomogeneousDerivs(u []float64, d int) [][]nurbs.Point {
	return eval.CurveDerivs(c.control, c.degree, c.knotv.Values(), u, d)
}

// KnotPoints returns the points at the distinct knot values inside the
// domain. If multiple is true, points are repeated according to the
// multiplicity of their knot.
func (c *Curve) KnotPoints(multiple bool) []r3.Vec {
	lo, hi := c.Domain()
	var u []float64
	for _, k := range c.knotv.Knots() {
		if k.Value < lo || k.Value > hi {
			continue
		}
		n := 1
		if multiple {
			n = k.Mul
		}
		for range n {
			u = append(u, k.Value)
		}
	}
	return c.PointsAt(u...)
}

// Approx returns a polyline approximation of the curve. Each knot span
// inside the domain is divided into ndiv parameter intervals of equal
// length.
func (c *Curve) Approx(ndiv int) []r3.Vec {
	ndiv = max(ndiv, 1)
	lo, hi := c.Domain()
	var u []float64
	for _, v := range c.knotv.Val() {
		if v <= lo || v > hi {
			continue
		}
		if len(u) == 0 {
			u = append(u, lo)
		}
		start := u[len(u)-1]
		u = append(u, knotv.Uniform(ndiv, start, v)[1:]...)
	}
	if len(u) == 0 {
		u = []float64{lo}
	}
	return c.PointsAt(u...)
}

// ApproxSegments returns nseg+1 points of the curve with nearly equal
// Cartesian distance between them. The arc length is estimated from a
// parameter-uniform approximation with ndiv segments.
func (c *Curve) ApproxSegments(nseg, ndiv int) []r3.Vec {
	nseg = max(nseg, 1)
	ndiv = max(ndiv, nseg)
	lo, hi := c.Domain()
	u := knotv.Uniform(ndiv, lo, hi)
	pts := c.PointsAt(u...)
	cum := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		cum[i] = cum[i-1] + r3.Norm(r3.Sub(pts[i], pts[i-1]))
	}
	total := cum[len(cum)-1]
	if total == 0 {
		return c.PointsAt(knotv.Uniform(nseg, lo, hi)...)
	}
	v := make([]float64, nseg+1)
	j := 0
	for k := range v {
		s := total * float64(k) / float64(nseg)
		for j < len(cum)-2 && cum[j+1] < s {
			j++
		}
		seg := cum[j+1] - cum[j]
		f := 0.0
		if seg > 0 {
			f = math.Min(1, math.Max(0, (s-cum[j])/seg))
		}
		v[k] = u[j] + f*(u[j+1]-u[j])
	}
	return c.PointsAt(v...)
}
