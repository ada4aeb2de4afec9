package knotv

import (
	"fmt"

	"github.com/npillmayer/nurbs"
)

// Uniform returns n+1 equally spaced parameter values from lo to hi, both
// inclusive. For n = 0, only lo is returned.
func Uniform(n int, lo, hi float64) []float64 {
	if n <= 0 {
		return []float64{lo}
	}
	u := make([]float64, n+1)
	d := (hi - lo) / float64(n)
	for i := range n {
		u[i] = lo + float64(i)*d
	}
	u[n] = hi
	return u
}

// Generate computes a sensible default knot vector for a curve with nctrl
// control points of the given degree. nctrl must already include any
// control points wrapped around for closed curves.
//
// For a closed or blended curve the knot values are equally spread over
// [0,1], all with multiplicity 1; an open blended curve is clamped by giving
// the end values multiplicity degree+1.
//
// For an open non-blended curve all interior knots get multiplicity degree,
// i.e. the curve is a chain of Bezier segments. The values are the segment
// indices 0..nparts. This requires nctrl-1 to be a multiple of degree.
//
//	Generate(7, 3, true, false)  => KnotVector: 0(4), 0.25(1), 0.5(1), 0.75(1), 1(4)
//	Generate(7, 3, false, false) => KnotVector: 0(4), 1(3), 2(4)
//	Generate(3, 2, true, true)   => KnotVector: 0(1), 0.2(1), 0.4(1), 0.6(1), 0.8(1), 1(1)
func Generate(nctrl, degree int, blended, closed bool) (*KnotVector, error) {
	if degree < 1 {
		return nil, fmt.Errorf("%w: degree %d < 1", nurbs.ErrDegree, degree)
	}
	if nctrl < degree+1 {
		return nil, fmt.Errorf("%w: %d control points for degree %d", nurbs.ErrTooFewControlPoints, nctrl, degree)
	}
	nknots := nctrl + degree + 1
	if closed || blended {
		nval := nknots
		if !closed {
			nval -= 2 * degree
		}
		val := Uniform(nval-1, 0, 1)
		mul := make([]int, nval)
		for i := range mul {
			mul[i] = 1
		}
		if !closed {
			mul[0] = degree + 1
			mul[nval-1] = degree + 1
		}
		tracer().Debugf("generated %d knot values for %d control points", nval, nctrl)
		return NewFromMul(val, mul)
	}
	nparts := (nctrl - 1) / degree
	if nparts*degree+1 != nctrl {
		return nil, fmt.Errorf("%w: nctrl=%d, degree=%d", ErrSegmentCount, nctrl, degree)
	}
	val := make([]float64, nparts+1)
	mul := make([]int, nparts+1)
	for i := range val {
		val[i] = float64(i)
		mul[i] = degree
	}
	mul[0]++
	mul[nparts]++
	return NewFromMul(val, mul)
}
