/*
Package bezier implements operations on single Bezier segments given by
their homogeneous control points: evaluation, de Casteljau subdivision,
degree elevation and degree reduction, and conversion to power basis.

NURBS curves are decomposed into chains of Bezier segments for degree
changes; package curve uses these helpers for every segment.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package bezier

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/mat"
)

// tracer writes to trace with key 'nurbs.bezier'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.bezier")
}

// Points evaluates a Bezier segment with control points P at each parameter
// in u ∈ [0,1]. Results are homogeneous.
func Points(P []nurbs.Point, u []float64) []nurbs.Point {
	p := len(P) - 1
	pts := make([]nurbs.Point, len(u))
	for i, ui := range u {
		B := basis.AllBernstein(p, ui)
		var C nurbs.Point
		for k := 0; k <= p; k++ {
			C = C.Add(P[k].Scaled(B[k]))
		}
		pts[i] = C
	}
	return pts
}

// DeCasteljau computes all intermediate points of the de Casteljau scheme
// at u. Level k of the result holds len(P)-k points; level 0 is a copy of P,
// and the single point of the last level is the curve point at u.
func DeCasteljau(P []nurbs.Point, u float64) [][]nurbs.Point {
	n := len(P)
	levels := make([][]nurbs.Point, n)
	levels[0] = append([]nurbs.Point(nil), P...)
	for k := 1; k < n; k++ {
		prev := levels[k-1]
		cur := make([]nurbs.Point, n-k)
		for i := range cur {
			cur[i] = nurbs.Lerp(u, prev[i], prev[i+1])
		}
		levels[k] = cur
	}
	return levels
}

// Split subdivides a Bezier segment at u into two segments of the same
// degree, covering [0,u] and [u,1] of the original parameter range.
func Split(P []nurbs.Point, u float64) (left, right []nurbs.Point) {
	levels := DeCasteljau(P, u)
	n := len(P)
	left = make([]nurbs.Point, n)
	right = make([]nurbs.Point, n)
	for k := range n {
		left[k] = levels[k][0]
		right[n-1-k] = levels[k][len(levels[k])-1]
	}
	return left, right
}

// ElevationMatrix computes the (p+t+1)×(p+1) coefficients for raising the
// degree of a Bezier segment from p to p+t:
//
//	bezalfs[i][j] = C(p,j)·C(t,i-j) / C(p+t,i)
//
// Only the upper half is computed; the lower half follows from the
// symmetry bezalfs[ph-i][p-j] = bezalfs[i][j].
func ElevationMatrix(p, t int) [][]float64 {
	ph := p + t
	ph2 := ph / 2
	bezalfs := make([][]float64, ph+1)
	for i := range bezalfs {
		bezalfs[i] = make([]float64, p+1)
	}
	bezalfs[0][0] = 1.0
	bezalfs[ph][p] = 1.0
	for i := 1; i <= ph2; i++ {
		inv := 1.0 / basis.Binomial(ph, i)
		for j := max(0, i-t); j <= min(p, i); j++ {
			bezalfs[i][j] = inv * basis.Binomial(p, j) * basis.Binomial(t, i-j)
		}
	}
	for i := ph2 + 1; i <= ph-1; i++ {
		for j := max(0, i-t); j <= min(p, i); j++ {
			bezalfs[i][j] = bezalfs[ph-i][p-j]
		}
	}
	return bezalfs
}

// Elevate raises the degree of a Bezier segment by t, returning p+t+1
// control points describing the identical curve.
func Elevate(P []nurbs.Point, t int) []nurbs.Point {
	p := len(P) - 1
	bezalfs := ElevationMatrix(p, t)
	Q := make([]nurbs.Point, p+t+1)
	for i := range Q {
		for j := max(0, i-t); j <= min(p, i); j++ {
			Q[i] = Q[i].Add(P[j].Scaled(bezalfs[i][j]))
		}
	}
	return Q
}

// PowerCoefficients converts a Bezier segment into power basis form, i.e.
// returns a[0..p] with C(u) = Σ a[i]·u^i (homogeneous). M is the power
// matrix for the degree of P, see basis.PowerMatrix.
func PowerCoefficients(M mat.Matrix, P []nurbs.Point) []nurbs.Point {
	p := len(P) - 1
	B := mat.NewDense(p+1, 4, nil)
	for i, pt := range P {
		B.SetRow(i, []float64{pt.X, pt.Y, pt.Z, pt.W})
	}
	var A mat.Dense
	A.Mul(M, B)
	a := make([]nurbs.Point, p+1)
	for i := range a {
		a[i] = nurbs.Point{X: A.At(i, 0), Y: A.At(i, 1), Z: A.At(i, 2), W: A.At(i, 3)}
	}
	return a
}
