/*
Package curve implements NURBS curves.

A Curve is an immutable value composed of homogeneous control points, a
degree and a knot vector. Transforms (knot insertion and removal, degree
elevation and reduction, Bezier decomposition, reversal) never modify a
curve but return a new, fully consistent instance.

Construction follows the conventions of pyFormex-like modelling tools:
knot vectors are generated if not given, closed curves wrap degree extra
control points around, and weights may be given separately from the
control points.

	c, err := curve.New(points, curve.WithDegree(3))
	pts := c.PointsAt(0, 0.25, 0.5)

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knotv"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'nurbs.curve'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.curve")
}

var (
	// ErrNotClamped flags an operation which requires a clamped knot vector.
	ErrNotClamped = errors.New("operation requires a clamped curve")
	// ErrNotReducible flags a degree reduction exceeding the error tolerance.
	ErrNotReducible = errors.New("curve is not degree reducible within tolerance")
	// ErrNotPlanar flags a curve which does not lie in the xy-plane.
	ErrNotPlanar = errors.New("curve is not planar in the xy-plane")
)

// Curve is a NURBS curve. The zero value is not a valid curve; create
// curves with New, FromData or FromPolyline.
type Curve struct {
	control []nurbs.Point     // homogeneous control points
	degree  int               // polynomial degree p ≥ 1
	knotv   *knotv.KnotVector // nknots == len(control)+degree+1
	closed  bool
	blended bool
}

// --- Options ---------------------------------------------------------------

// Option configures the construction of a curve.
type Option func(*options)

type options struct {
	degree  int
	weights []float64
	knots   []float64
	closed  bool
	blended bool
}

func defaultOptions() options {
	return options{blended: true}
}

// WithDegree sets the degree of a curve. Degree 0 selects a default: the
// degree is derived from the knot vector, if given, or else is nctrl-1
// (limited to 3 for non-blended curves).
func WithDegree(p int) Option {
	return func(o *options) {
		o.degree = p
	}
}

// WithWeights sets a weight for each control point. Control points are
// multiplied by their weight, i.e. a Cartesian point given with w=1 ends
// up as (wx,wy,wz,w).
func WithWeights(w []float64) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithKnots sets the full knot sequence of a curve.
func WithKnots(U []float64) Option {
	return func(o *options) {
		o.knots = U
	}
}

// Closed creates a closed curve. Degree extra control points are wrapped
// around: ⌈p/2⌉ points from the end are prepended and ⌊p/2⌋ points from
// the start are appended, and an unclamped uniform knot vector is used.
func Closed() Option {
	return func(o *options) {
		o.closed = true
	}
}

// NonBlended creates an open curve of independent Bezier segments, joining
// with C⁰ continuity. nctrl-1 must be a multiple of the degree.
func NonBlended() Option {
	return func(o *options) {
		o.blended = false
	}
}

// --- Construction ----------------------------------------------------------

// New creates a NURBS curve from control points.
// Control points may be homogeneous; if weights are given in addition, all
// four coordinates are multiplied by the weight.
func New(control []nurbs.Point, opts ...Option) (*Curve, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	nctrl := len(control)
	if nctrl == 0 {
		return nil, fmt.Errorf("%w: no control points", nurbs.ErrTooFewControlPoints)
	}
	var kv *knotv.KnotVector
	nknots := 0
	if o.knots != nil {
		var err error
		if kv, err = knotv.New(o.knots); err != nil {
			return nil, err
		}
		nknots = kv.NKnots()
	}
	degree := o.degree
	if degree == 0 {
		if kv == nil {
			degree = nctrl - 1
			if !o.blended {
				degree = min(degree, 3)
			}
		} else {
			degree = nknots - nctrl - 1
			if degree <= 0 {
				return nil, fmt.Errorf("%w: %d knots for %d control points", nurbs.ErrKnotCount, nknots, nctrl)
			}
		}
	}
	if degree < 1 {
		return nil, fmt.Errorf("%w: degree %d < 1", nurbs.ErrDegree, degree)
	}
	order := degree + 1
	ctrl := append([]nurbs.Point(nil), control...)
	if o.weights != nil {
		if len(o.weights) != nctrl {
			return nil, fmt.Errorf("%w: %d weights for %d control points", nurbs.ErrDimension, len(o.weights), nctrl)
		}
		for i, w := range o.weights {
			ctrl[i] = ctrl[i].Scaled(w)
		}
	}
	for i, p := range ctrl {
		if !p.IsFinite() {
			return nil, fmt.Errorf("%w: control point %d", nurbs.ErrNotFinite, i)
		}
	}
	if o.closed {
		nextra := degree
		if kv != nil {
			nextra = nknots - nctrl - order
		}
		nextra1 := (nextra + 1) / 2
		nextra2 := nextra - nextra1
		if nextra < 0 || nextra1 > nctrl {
			return nil, fmt.Errorf("%w: cannot wrap %d points around %d control points", nurbs.ErrKnotCount, nextra, nctrl)
		}
		tracer().Debugf("closed curve: wrapping %d + %d control points", nextra1, nextra2)
		wrapped := make([]nurbs.Point, 0, nctrl+nextra)
		wrapped = append(wrapped, ctrl[nctrl-nextra1:]...)
		wrapped = append(wrapped, ctrl...)
		wrapped = append(wrapped, ctrl[:nextra2]...)
		ctrl = wrapped
	}
	nctrl = len(ctrl)
	if nctrl < order {
		return nil, fmt.Errorf("%w: %d control points for order %d", nurbs.ErrTooFewControlPoints, nctrl, order)
	}
	if kv == nil {
		var err error
		if kv, err = knotv.Generate(nctrl, degree, o.blended, o.closed); err != nil {
			return nil, err
		}
	}
	return newCurve(ctrl, degree, kv, o.closed, o.blended)
}

// MustNew is like New, but panics on invalid arguments.
func MustNew(control []nurbs.Point, opts ...Option) *Curve {
	c, err := New(control, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// newCurve checks the length equation and assembles a curve. It does not
// copy ctrl and does not wrap control points for closed curves.
func newCurve(ctrl []nurbs.Point, degree int, kv *knotv.KnotVector, closed, blended bool) (*Curve, error) {
	if len(ctrl) < degree+1 {
		return nil, fmt.Errorf("%w: %d control points for order %d", nurbs.ErrTooFewControlPoints, len(ctrl), degree+1)
	}
	if kv.NKnots() != len(ctrl)+degree+1 {
		return nil, fmt.Errorf("%w: %d knots, %d control points, order %d",
			nurbs.ErrKnotCount, kv.NKnots(), len(ctrl), degree+1)
	}
	return &Curve{
		control: ctrl,
		degree:  degree,
		knotv:   kv,
		closed:  closed,
		blended: blended,
	}, nil
}

// FromPolyline creates a degree 1 curve through the given points. If closed
// is true, the last point is connected to the first one.
func FromPolyline(points []r3.Vec, closed bool) (*Curve, error) {
	ctrl := make([]nurbs.Point, len(points), len(points)+1)
	for i, v := range points {
		ctrl[i] = nurbs.FromVec(v)
	}
	if closed && len(points) > 0 {
		ctrl = append(ctrl, ctrl[0])
	}
	return New(ctrl, WithDegree(1), NonBlended())
}

// --- Queries ---------------------------------------------------------------

// Degree returns the polynomial degree p.
func (c *Curve) Degree() int {
	return c.degree
}

// Order returns the order p+1.
func (c *Curve) Order() int {
	return c.knotv.NKnots() - len(c.control)
}

// NCtrl returns the number of control points, including wrapped ones.
func (c *Curve) NCtrl() int {
	return len(c.control)
}

// NKnots returns the number of knots.
func (c *Curve) NKnots() int {
	return c.knotv.NKnots()
}

// KnotVector returns the knot vector.
func (c *Curve) KnotVector() *knotv.KnotVector {
	return c.knotv
}

// Knots returns the full knot sequence.
func (c *Curve) Knots() []float64 {
	return c.knotv.Values()
}

// Control returns a copy of the homogeneous control points.
func (c *Curve) Control() []nurbs.Point {
	return append([]nurbs.Point(nil), c.control...)
}

// Closed is a predicate: is this a closed curve?
func (c *Curve) Closed() bool {
	return c.closed
}

// Blended is a predicate: has this curve maximal continuity, as opposed to
// being a chain of Bezier segments?
func (c *Curve) Blended() bool {
	return c.blended
}

// IsClamped is a predicate: do both ends of the knot vector have
// multiplicity degree+1?
func (c *Curve) IsClamped() bool {
	return c.knotv.IsClamped(c.degree)
}

// Domain returns the parameter range [U[p], U[n+1]] of the curve.
func (c *Curve) Domain() (float64, float64) {
	return c.knotv.Domain(c.degree)
}

// BBox returns the bounding box of the Cartesian control points, which
// contains the curve.
func (c *Curve) BBox() r3.Box {
	return nurbs.BBox(nurbs.Cartesians(c.control))
}

// charLength is a characteristic length of the curve, used to scale
// tolerances.
func (c *Curve) charLength() float64 {
	if d := nurbs.Diagonal(c.BBox()); d > 0 && nurbs.IsFinite(d) {
		return d
	}
	return 1
}

// String returns a multi-line description of the curve.
func (c *Curve) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NURBS Curve, degree = %d, nctrl = %d, nknots = %d", c.degree, len(c.control), c.NKnots())
	if c.closed {
		b.WriteString(", closed")
	}
	b.WriteString("\n  Control points:\n")
	for _, p := range c.control {
		fmt.Fprintf(&b, "    %v\n", p)
	}
	fmt.Fprintf(&b, "  %v\n", c.knotv)
	return b.String()
}

// --- Persisted form --------------------------------------------------------

// Data is the flat numeric representation of a curve, as stored by
// geometry file writers.
type Data struct {
	Degree  int
	Closed  bool
	Control [][4]float64 // homogeneous control points, incl. wrapped ones
	Knots   []float64    // full knot sequence
}

// Data returns the flat representation of c.
func (c *Curve) Data() Data {
	d := Data{
		Degree:  c.degree,
		Closed:  c.closed,
		Control: make([][4]float64, len(c.control)),
		Knots:   c.knotv.Values(),
	}
	for i, p := range c.control {
		d.Control[i] = [4]float64{p.X, p.Y, p.Z, p.W}
	}
	return d
}

// FromData recreates a curve from its flat representation, exactly as it
// was stored: control points are neither wrapped nor re-weighted.
func FromData(d Data) (*Curve, error) {
	kv, err := knotv.New(d.Knots)
	if err != nil {
		return nil, err
	}
	if d.Degree < 1 {
		return nil, fmt.Errorf("%w: degree %d < 1", nurbs.ErrDegree, d.Degree)
	}
	ctrl := make([]nurbs.Point, len(d.Control))
	for i, p := range d.Control {
		ctrl[i] = nurbs.Point{X: p[0], Y: p[1], Z: p[2], W: p[3]}
	}
	return newCurve(ctrl, d.Degree, kv, d.Closed, isBlended(kv, d.Degree))
}

// isBlended reports false if there are interior knots and every one of
// them has multiplicity ≥ p.
func isBlended(kv *knotv.KnotVector, p int) bool {
	mul := kv.Mul()
	if len(mul) <= 2 {
		return true
	}
	for _, m := range mul[1 : len(mul)-1] {
		if m < p {
			return true
		}
	}
	return false
}

// Transform applies an affine transformation to the control points,
// returning a new curve.
func (c *Curve) Transform(m nurbs.AT) *Curve {
	return &Curve{
		control: m.TransformAll(c.control),
		degree:  c.degree,
		knotv:   c.knotv,
		closed:  c.closed,
		blended: c.blended,
	}
}
