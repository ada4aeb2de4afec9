package curve

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
	"github.com/npillmayer/nurbs/knotv"
)

// comb returns a·x + (1-a)·y.
func comb(a float64, x, y nurbs.Point) nurbs.Point {
	return nurbs.Lerp(a, y, x)
}

// InsertKnots inserts the non-decreasing parameter values X into the knot
// vector (knot refinement, A5.4). The returned curve has the same shape and
// len(X) additional control points.
//
// Each value must lie inside the domain, and the total multiplicity of any
// knot value must not exceed degree+1. Knot insertion is not defined for
// closed curves.
func (c *Curve) InsertKnots(X []float64) (*Curve, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: insert knots", nurbs.ErrClosedCurve)
	}
	if len(X) == 0 {
		return c, nil
	}
	if err := c.checkInsertable(X); err != nil {
		return nil, err
	}
	p := c.degree
	U := c.knotv.Values()
	P := c.control
	n := len(P) - 1
	m := n + p + 1
	r := len(X) - 1
	a := basis.FindSpan(n, p, X[0], U)
	b := basis.FindSpan(n, p, X[r], U) + 1
	Q := make([]nurbs.Point, n+r+2)
	Ubar := make([]float64, m+r+2)
	for j := 0; j <= a-p; j++ {
		Q[j] = P[j]
	}
	for j := b - 1; j <= n; j++ {
		Q[j+r+1] = P[j]
	}
	for j := 0; j <= a; j++ {
		Ubar[j] = U[j]
	}
	for j := b + p; j <= m; j++ {
		Ubar[j+r+1] = U[j]
	}
	i := b + p - 1
	k := b + p + r
	for j := r; j >= 0; j-- {
		for X[j] <= U[i] && i > a {
			Q[k-p-1] = P[i-p-1]
			Ubar[k] = U[i]
			k--
			i--
		}
		Q[k-p-1] = Q[k-p]
		for l := 1; l <= p; l++ {
			ind := k - p + l
			alfa := Ubar[k+l] - X[j]
			if alfa == 0 {
				Q[ind-1] = Q[ind]
			} else {
				alfa = alfa / (Ubar[k+l] - U[i-p+l])
				Q[ind-1] = comb(alfa, Q[ind-1], Q[ind])
			}
		}
		Ubar[k] = X[j]
		k--
	}
	kv, err := knotv.New(Ubar)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("inserted %d knots, nctrl %d -> %d", len(X), len(P), len(Q))
	return newCurve(Q, p, kv, c.closed, c.blended)
}

func (c *Curve) checkInsertable(X []float64) error {
	lo, hi := c.Domain()
	count := 0
	for i, x := range X {
		if x < lo || x > hi || !nurbs.IsFinite(x) {
			return fmt.Errorf("%w: knot %g not in [%g,%g]", nurbs.ErrParameterRange, x, lo, hi)
		}
		if i > 0 && x < X[i-1] {
			return fmt.Errorf("%w: %g < %g", knotv.ErrNotIncreasing, x, X[i-1])
		}
		if i > 0 && x == X[i-1] {
			count++
		} else {
			count = 1
		}
		if c.knotv.Multiplicity(x)+count > c.degree+1 {
			return fmt.Errorf("%w: knot %g would exceed multiplicity %d", knotv.ErrMultiplicity, x, c.degree+1)
		}
	}
	return nil
}

// Decompose returns an equivalent curve where every interior knot has
// multiplicity degree, i.e. a chain of Bezier segments. Knots of multiplicity
// degree+1 are kept. The result is flagged non-blended. The curve must be
// clamped and open.
func (c *Curve) Decompose() (*Curve, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: decompose", nurbs.ErrClosedCurve)
	}
	if !c.IsClamped() {
		return nil, fmt.Errorf("%w: decompose", ErrNotClamped)
	}
	var X []float64
	knots := c.knotv.Knots()
	for _, k := range knots[1 : len(knots)-1] {
		for range c.degree - k.Mul {
			X = append(X, k.Value)
		}
	}
	d, err := c.InsertKnots(X)
	if err != nil {
		return nil, err
	}
	return newCurve(d.control, d.degree, d.knotv, false, false)
}

// Segments decomposes the curve and returns the homogeneous control points
// of each Bezier segment. Consecutive segments share their end points,
// except across knots of multiplicity degree+1.
func (c *Curve) Segments() ([][]nurbs.Point, error) {
	d, err := c.Decompose()
	if err != nil {
		return nil, err
	}
	p := d.degree
	mul := d.knotv.Mul()
	segs := make([][]nurbs.Point, 0, len(mul)-1)
	start := 0
	for _, m := range mul[1:] {
		segs = append(segs, append([]nurbs.Point(nil), d.control[start:start+p+1]...))
		start += m
	}
	return segs, nil
}
