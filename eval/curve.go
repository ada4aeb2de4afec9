/*
Package eval evaluates points and derivatives of NURBS curves and
tensor-product surfaces.

Control points are homogeneous (see nurbs.Point). The plain evaluation
functions return homogeneous results; perspective division is left to the
caller, except for the Rational… functions, which apply the quotient rule
and return Cartesian vectors.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package eval

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'nurbs.eval'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.eval")
}

// CurvePoint evaluates a B-spline curve with homogeneous control points P,
// degree p and knots U at parameter u (A3.1 in homogeneous space, A4.1).
func CurvePoint(P []nurbs.Point, p int, U []float64, u float64) nurbs.Point {
	n := len(P) - 1
	span := basis.FindSpan(n, p, u, U)
	N := basis.BasisFuns(span, u, p, U)
	var C nurbs.Point
	for j := 0; j <= p; j++ {
		C = C.Add(P[span-p+j].Scaled(N[j]))
	}
	return C
}

// CurvePoints evaluates a curve at each parameter in u. Results are
// homogeneous; use nurbs.Cartesians for perspective division.
func CurvePoints(P []nurbs.Point, p int, U []float64, u []float64) []nurbs.Point {
	pts := make([]nurbs.Point, len(u))
	for i, ui := range u {
		pts[i] = CurvePoint(P, p, U, ui)
	}
	return pts
}

// CurveDerivsAt computes the homogeneous curve point and its derivatives up
// to order d at parameter u (A3.2). CK[k] is the k-th derivative; all
// derivatives beyond the degree are zero.
func CurveDerivsAt(P []nurbs.Point, p int, U []float64, u float64, d int) []nurbs.Point {
	n := len(P) - 1
	CK := make([]nurbs.Point, d+1)
	du := min(d, p)
	span := basis.FindSpan(n, p, u, U)
	nders := basis.DersBasisFuns(span, u, p, du, U)
	for k := 0; k <= du; k++ {
		for j := 0; j <= p; j++ {
			CK[k] = CK[k].Add(P[span-p+j].Scaled(nders[k][j]))
		}
	}
	return CK
}

// CurveDerivs computes homogeneous points and derivatives up to order d for
// each parameter in u. The result is indexed [k][i]: derivative order k at
// parameter u[i]. No perspective division is performed, not even for k=0.
// For curves with equal weights the Cartesian derivatives are simply the
// (x,y,z) parts divided by the common weight; for general rational curves
// use RationalCurveDerivs.
func CurveDerivs(P []nurbs.Point, p int, U []float64, u []float64, d int) [][]nurbs.Point {
	ders := make([][]nurbs.Point, d+1)
	for k := range ders {
		ders[k] = make([]nurbs.Point, len(u))
	}
	for i, ui := range u {
		CK := CurveDerivsAt(P, p, U, ui, d)
		for k := 0; k <= d; k++ {
			ders[k][i] = CK[k]
		}
	}
	return ders
}

// RationalCurveDerivsAt computes the Cartesian point and derivatives up to
// order d of a rational curve at u, using the quotient rule recursion of A4.2:
//
//	C⁽ᵏ⁾ = (A⁽ᵏ⁾ - Σᵢ₌₁ᵏ C(k,i)·w⁽ⁱ⁾·C⁽ᵏ⁻ⁱ⁾) / w
func RationalCurveDerivsAt(P []nurbs.Point, p int, U []float64, u float64, d int) []r3.Vec {
	ders := CurveDerivsAt(P, p, U, u, d)
	return rationalize(ders)
}

func rationalize(ders []nurbs.Point) []r3.Vec {
	d := len(ders) - 1
	CK := make([]r3.Vec, d+1)
	w0 := ders[0].W
	for k := 0; k <= d; k++ {
		v := ders[k].Vec()
		bin := basis.BinomialRow(k)
		for i := 1; i <= k; i++ {
			v = r3.Sub(v, r3.Scale(bin[i]*ders[i].W, CK[k-i]))
		}
		CK[k] = r3.Scale(1/w0, v)
	}
	return CK
}

// RationalCurveDerivs computes Cartesian points and derivatives up to order
// d for each parameter in u, indexed [k][i].
func RationalCurveDerivs(P []nurbs.Point, p int, U []float64, u []float64, d int) [][]r3.Vec {
	ders := make([][]r3.Vec, d+1)
	for k := range ders {
		ders[k] = make([]r3.Vec, len(u))
	}
	for i, ui := range u {
		CK := RationalCurveDerivsAt(P, p, U, ui, d)
		for k := 0; k <= d; k++ {
			ders[k][i] = CK[k]
		}
	}
	return ders
}
