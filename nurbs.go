/*
Package nurbs implements homogeneous points, affine transformations
and numeric helpers for a NURBS curve and surface engine.

The engine itself is split into sub-packages, leaf to root:

	knotv    knot vectors with multiplicities
	basis    B-spline and Bernstein basis functions, binomial caches
	eval     point and derivative evaluation for curves and surfaces
	bezier   single-segment Bezier helpers, including degree reduction
	curve    NURBS curves and their knot and degree transforms
	surface  tensor-product NURBS surfaces
	interp   global interpolation of point sets

All objects are immutable values. Transforms return new instances.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package nurbs

import (
	"errors"
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs'
func tracer() tracing.Trace {
	return tracing.Select("nurbs")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = 0.01745329251

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 0.0000001

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// IsFinite is a predicate: is n neither NaN nor ±Inf?
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// === Errors ================================================================

// Errors shared by the curve and surface packages. Callers should test for
// them with errors.Is, as they usually are wrapped with context information.
var (
	// ErrKnotCount flags a knot vector whose length is not nctrl+degree+1.
	ErrKnotCount = errors.New("knot vector length must equal number of control points plus order")
	// ErrTooFewControlPoints flags fewer control points than the order of a curve.
	ErrTooFewControlPoints = errors.New("number of control points must not be smaller than order")
	// ErrDegree flags a degree that is out of range for an operation.
	ErrDegree = errors.New("invalid degree")
	// ErrClosedCurve flags an operation which is not defined for closed curves.
	ErrClosedCurve = errors.New("operation not defined on closed curve")
	// ErrParameterRange flags a parameter value outside of a curve's domain.
	ErrParameterRange = errors.New("parameter value out of range")
	// ErrDimension flags mismatched array shapes, e.g. weights vs. control points.
	ErrDimension = errors.New("dimension mismatch")
	// ErrNotFinite flags NaN or Inf in input data.
	ErrNotFinite = errors.New("value is NaN or Inf")
)
