package bezier

import (
	"fmt"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
)

// DegreeReduce reduces a Bezier segment of degree p = len(Q)-1 to degree
// p-1. The new control points are computed inward from both ends; where the
// two recurrences meet at index r = (p-1)/2 the two estimates are merged and
// their discrepancy becomes the base error.
//
// maxErr estimates the maximal (homogeneous) distance between the
// original and the reduced segment over [0,1]. Callers decide whether the
// error is acceptable. p must be at least 2.
func DegreeReduce(Q []nurbs.Point) (P []nurbs.Point, maxErr float64, err error) {
	p := len(Q) - 1
	if p < 2 {
		return nil, 0, fmt.Errorf("%w: cannot reduce Bezier segment of degree %d", nurbs.ErrDegree, p)
	}
	r := (p - 1) / 2
	alfs := make([]float64, p)
	for i := range alfs {
		alfs[i] = float64(i) / float64(p)
	}
	P = make([]nurbs.Point, p)
	P[0] = Q[0]
	for i := 1; i <= r; i++ {
		P[i] = Q[i].Sub(P[i-1].Scaled(alfs[i])).Scaled(1 / (1 - alfs[i]))
	}
	P[p-1] = Q[p]
	for i := p - 2; i > r; i-- {
		P[i] = Q[i+1].Sub(P[i+1].Scaled(1 - alfs[i+1])).Scaled(1 / alfs[i+1])
	}
	var base float64
	if p%2 == 1 {
		PrR := Q[r+1].Sub(P[r+1].Scaled(1 - alfs[r+1])).Scaled(1 / alfs[r+1])
		base = 0.5 * (1 - alfs[r]) * nurbs.Dist4(P[r], PrR)
		P[r] = nurbs.Lerp(0.5, P[r], PrR)
		e1 := base * math.Abs(basis.Bernstein(p, r, float64(r)/float64(p))-basis.Bernstein(p, r+1, float64(r)/float64(p)))
		e2 := base * math.Abs(basis.Bernstein(p, r, float64(r+1)/float64(p))-basis.Bernstein(p, r+1, float64(r+1)/float64(p)))
		maxErr = math.Max(e1, e2)
	} else {
		base = nurbs.Dist4(Q[r+1], nurbs.Lerp(0.5, P[r], P[r+1]))
		maxErr = base * basis.Bernstein(p, r+1, float64(r+1)/float64(p))
	}
	tracer().Debugf("reduced Bezier segment from degree %d, error bound %g", p, maxErr)
	return P, maxErr, nil
}
