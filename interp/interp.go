/*
Package interp fits NURBS curves through given points.

GlobalInterpolationCurve builds a non-rational curve which passes exactly
through an ordered set of points (global interpolation). Each point is
assigned a parameter value, a knot vector is derived from these values by
averaging, and the control points are found by solving the linear system
of basis function values.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package interp

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
	"github.com/npillmayer/nurbs/curve"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'nurbs.interp'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.interp")
}

var (
	// ErrCoincidentPoints flags input points without any distance between them.
	ErrCoincidentPoints = errors.New("interpolation points coincide")
	// ErrSingularSystem flags a collocation matrix which cannot be solved.
	ErrSingularSystem = errors.New("interpolation system is singular")
	// ErrTooFewPoints flags fewer points than the order of the curve.
	ErrTooFewPoints = errors.New("too few interpolation points for degree")
)

// Parametrization strategies, used as the exponent for chord lengths.
const (
	Uniform     = 0.0
	Centripetal = 0.5
	ChordLength = 1.0
)

// Option configures the interpolation.
type Option func(*options)

type options struct {
	strategy float64
}

// WithStrategy sets the exponent applied to chord lengths when assigning
// parameters to points. Default is Centripetal.
func WithStrategy(s float64) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// GlobalInterpolationCurve creates a curve of the given degree passing
// through all points of Q (A9.1). The curve has as many control points as
// there are (distinct) points, and Q[k] is located at the k-th value
// returned by Parametrize.
//
// Consecutive coincident points are dropped, as they would render the
// system singular. If nothing but a single point remains,
// ErrCoincidentPoints is returned.
func GlobalInterpolationCurve(Q []r3.Vec, degree int, opts ...Option) (*curve.Curve, error) {
	o := options{strategy: Centripetal}
	for _, opt := range opts {
		opt(&o)
	}
	if degree < 1 {
		return nil, fmt.Errorf("%w: degree %d < 1", nurbs.ErrDegree, degree)
	}
	Q = dropCoincident(Q)
	if len(Q) == 1 {
		return nil, fmt.Errorf("%w: all points are equal to %v", ErrCoincidentPoints, Q[0])
	}
	if len(Q) < degree+1 {
		return nil, fmt.Errorf("%w: %d points for degree %d", ErrTooFewPoints, len(Q), degree)
	}
	u, err := Parametrize(Q, o.strategy)
	if err != nil {
		return nil, err
	}
	U := AveragedKnots(u, degree)
	A := CollocationMatrix(u, degree, U)
	B := mat.NewDense(len(Q), 3, nil)
	for i, q := range Q {
		B.SetRow(i, []float64{q.X, q.Y, q.Z})
	}
	var X mat.Dense
	if err := X.Solve(A, B); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
		}
		tracer().Infof("interpolation system is ill-conditioned: %v", err)
	}
	ctrl := make([]nurbs.Point, len(Q))
	for i := range ctrl {
		ctrl[i] = nurbs.Pt(X.At(i, 0), X.At(i, 1), X.At(i, 2))
	}
	tracer().Debugf("interpolated %d points with degree %d", len(Q), degree)
	return curve.New(ctrl, curve.WithDegree(degree), curve.WithKnots(U))
}

// dropCoincident removes each point which is equal to its successor.
func dropCoincident(Q []r3.Vec) []r3.Vec {
	if len(Q) == 0 {
		return Q
	}
	clean := make([]r3.Vec, 0, len(Q))
	for i, q := range Q[:len(Q)-1] {
		if q == Q[i+1] {
			tracer().Infof("interpolation: dropping double point %d = %v", i, q)
			continue
		}
		clean = append(clean, q)
	}
	return append(clean, Q[len(Q)-1])
}

// Parametrize assigns parameter values 0 = u[0] < … < u[n] = 1 to the
// points Q. Consecutive parameters differ proportional to the chord length
// between the points raised to the power strategy.
func Parametrize(Q []r3.Vec, strategy float64) ([]float64, error) {
	if len(Q) < 2 {
		return nil, fmt.Errorf("%w: cannot parametrize %d points", ErrTooFewPoints, len(Q))
	}
	d := make([]float64, len(Q)-1)
	for i := range d {
		a, b := Q[i], Q[i+1]
		d[i] = floats.Distance([]float64{a.X, a.Y, a.Z}, []float64{b.X, b.Y, b.Z}, 2)
		if d[i] == 0 {
			return nil, fmt.Errorf("%w: points %d and %d", ErrCoincidentPoints, i, i+1)
		}
		d[i] = math.Pow(d[i], strategy)
	}
	u := make([]float64, len(Q))
	floats.CumSum(u[1:], d)
	floats.Scale(1/u[len(u)-1], u)
	u[len(u)-1] = 1
	return u, nil
}

// AveragedKnots computes a clamped knot vector for interpolation with
// degree p at parameters u by averaging p consecutive parameters (NURBS
// Book eq. 9.8).
func AveragedKnots(u []float64, p int) []float64 {
	n := len(u) - 1
	m := n + p + 1
	U := make([]float64, m+1)
	for j := m - p; j <= m; j++ {
		U[j] = 1
	}
	for j := 1; j <= n-p; j++ {
		U[j+p] = floats.Sum(u[j:j+p]) / float64(p)
	}
	return U
}

// CollocationMatrix returns the matrix A[k][i] = N(i,p)(u[k]) of basis
// function values at the parameters u.
func CollocationMatrix(u []float64, p int, U []float64) *mat.Dense {
	n := len(u) - 1
	A := mat.NewDense(n+1, n+1, nil)
	for k, uk := range u {
		span := basis.FindSpan(n, p, uk, U)
		for j, N := range basis.BasisFuns(span, uk, p, U) {
			A.Set(k, span-p+j, N)
		}
	}
	return A
}
