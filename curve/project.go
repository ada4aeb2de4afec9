package curve

import (
	"math"

	"github.com/npillmayer/nurbs/knotv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// Projection is the result of projecting a point onto a curve.
type Projection struct {
	U          float64 // parameter of the foot point
	Point      r3.Vec  // foot point on the curve
	Distance   float64 // distance between the point and its foot point
	Converged  bool
	Iterations int
}

// ProjectOption configures ProjectPoint.
type ProjectOption func(*projectOptions)

type projectOptions struct {
	eps1, eps2 float64
	maxit      int
	nseed      int
}

// WithEps1 sets the tolerance for point coincidence and parameter steps
// (default 1e-5).
func WithEps1(eps float64) ProjectOption {
	return func(o *projectOptions) {
		o.eps1 = eps
	}
}

// WithEps2 sets the tolerance for the zero cosine test (default 1e-5).
func WithEps2(eps float64) ProjectOption {
	return func(o *projectOptions) {
		o.eps2 = eps
	}
}

// WithMaxIt sets the maximum number of Newton iterations (default 20).
func WithMaxIt(n int) ProjectOption {
	return func(o *projectOptions) {
		o.maxit = n
	}
}

// WithNSeed sets the number of intervals sampled for the start value
// (default 20).
func WithNSeed(n int) ProjectOption {
	return func(o *projectOptions) {
		o.nseed = n
	}
}

// ProjectPoint finds the parameter of the curve point closest to P.
//
// A start value is taken from nseed+1 uniformly sampled parameters. It is
// then refined by Newton iteration on f(u) = C'(u)·(C(u)-P). Iteration
// stops if either the point coincides with the curve or the residual is
// perpendicular to the tangent, and the parameter step has become small.
// If the iteration does not converge within maxit steps, the best result
// found is returned with Converged = false.
func (c *Curve) ProjectPoint(P r3.Vec, opts ...ProjectOption) Projection {
	o := projectOptions{eps1: 1e-5, eps2: 1e-5, maxit: 20, nseed: 20}
	for _, opt := range opts {
		opt(&o)
	}
	lo, hi := c.Domain()
	seeds := knotv.Uniform(max(o.nseed, 1), lo, hi)
	pts := c.PointsAt(seeds...)
	dist := make([]float64, len(pts))
	for i, x := range pts {
		dist[i] = r3.Norm(r3.Sub(x, P))
	}
	i0 := floats.MinIdx(dist)
	best := Projection{U: seeds[i0], Point: pts[i0], Distance: dist[i0]}
	tracer().Debugf("project %v: seed u = %g, d = %g", P, best.U, best.Distance)
	eps1sq, eps2sq := o.eps1*o.eps1, o.eps2*o.eps2
	u := best.U
	for it := 1; it <= o.maxit; it++ {
		ders := c.Derivs([]float64{u}, 2)
		C, C1, C2 := ders[0][0], ders[1][0], ders[2][0]
		CP := r3.Sub(C, P)
		cp2 := r3.Norm2(CP)
		c1cp := r3.Dot(C1, CP)
		c1c1 := r3.Norm2(C1)
		if d := math.Sqrt(cp2); d < best.Distance {
			best = Projection{U: u, Point: C, Distance: d}
		}
		best.Iterations = it
		chk1 := cp2 <= eps1sq
		chk2 := c1c1*cp2 > 0 && c1cp*c1cp/(c1c1*cp2) <= eps2sq
		den := r3.Dot(C2, CP) + c1c1
		if den == 0 {
			tracer().Errorf("project %v: vanishing Newton denominator at u = %g", P, u)
			return best
		}
		next := c.fitParameter(u - c1cp/den)
		chk4 := (next-u)*(next-u)*c1c1 <= eps1sq
		if (chk1 || chk2) && chk4 {
			best.Converged = true
			tracer().Debugf("project %v: converged to u = %g after %d iterations", P, best.U, it)
			return best
		}
		u = next
	}
	tracer().Errorf("project %v: no convergence after %d iterations, d = %g", P, o.maxit, best.Distance)
	return best
}

// fitParameter clamps u to the domain of an open curve, or wraps it around
// for a closed one.
func (c *Curve) fitParameter(u float64) float64 {
	lo, hi := c.Domain()
	if c.closed {
		if u < lo || u > hi {
			u = lo + math.Mod(u-lo, hi-lo)
			if u < lo {
				u += hi - lo
			}
		}
		return u
	}
	return math.Min(hi, math.Max(lo, u))
}
