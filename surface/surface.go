/*
Package surface implements tensor product NURBS surfaces.

A Surface is spanned by a rectangular grid of homogeneous control points.
Each of the two parameter directions u and v has its own degree and knot
vector, which are set up exactly like those of a NURBS curve.

	s, err := surface.New(grid, surface.WithDegrees(2, 3))
	pts := s.PointsAt([]eval.UV{{U: 0.5, V: 0.5}})

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package surface

import (
	"context"
	"fmt"
	"strings"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/eval"
	"github.com/npillmayer/nurbs/knotv"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/spatial/r3"
)

// tracer writes to trace with key 'nurbs.surface'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.surface")
}

// Surface is a NURBS surface. Direction 0 is u, direction 1 is v.
type Surface struct {
	control eval.Grid
	degree  [2]int
	knots   [2]*knotv.KnotVector
	closed  [2]bool
}

// Option configures the construction of a surface.
type Option func(*options)

type options struct {
	degree  [2]int
	weights [][]float64
	knots   [2][]float64
	closed  [2]bool
	blended [2]bool
}

// WithDegrees sets the degrees in u and v. A degree of 0 selects the
// default, as for curves.
func WithDegrees(p, q int) Option {
	return func(o *options) {
		o.degree = [2]int{p, q}
	}
}

// WithWeights sets a weight per control point, indexed like the grid.
func WithWeights(w [][]float64) Option {
	return func(o *options) {
		o.weights = w
	}
}

// WithKnots sets the full knot sequences for u and v. Either may be nil to
// have it generated.
func WithKnots(U, V []float64) Option {
	return func(o *options) {
		o.knots = [2][]float64{U, V}
	}
}

// ClosedU generates a closed knot vector in u. No control points are
// wrapped around; the grid must already contain them.
func ClosedU() Option {
	return func(o *options) {
		o.closed[0] = true
	}
}

// ClosedV generates a closed knot vector in v.
func ClosedV() Option {
	return func(o *options) {
		o.closed[1] = true
	}
}

// NonBlendedU generates a knot vector of Bezier patches in u.
func NonBlendedU() Option {
	return func(o *options) {
		o.blended[0] = false
	}
}

// NonBlendedV generates a knot vector of Bezier patches in v.
func NonBlendedV() Option {
	return func(o *options) {
		o.blended[1] = false
	}
}

// New creates a NURBS surface from a grid of control points, where
// control[i][j] has index i in u and j in v.
func New(control eval.Grid, opts ...Option) (*Surface, error) {
	o := options{blended: [2]bool{true, true}}
	for _, opt := range opts {
		opt(&o)
	}
	if len(control) == 0 || len(control[0]) == 0 {
		return nil, fmt.Errorf("%w: empty control grid", nurbs.ErrTooFewControlPoints)
	}
	nctrl := [2]int{len(control), len(control[0])}
	grid := make(eval.Grid, nctrl[0])
	for i, row := range control {
		if len(row) != nctrl[1] {
			return nil, fmt.Errorf("%w: control row %d has %d points, expected %d", nurbs.ErrDimension, i, len(row), nctrl[1])
		}
		grid[i] = append([]nurbs.Point(nil), row...)
		if o.weights == nil {
			continue
		}
		if i >= len(o.weights) || len(o.weights[i]) != nctrl[1] {
			return nil, fmt.Errorf("%w: weights do not match control grid", nurbs.ErrDimension)
		}
		for j, w := range o.weights[i] {
			grid[i][j] = grid[i][j].Scaled(w)
		}
	}
	if o.weights != nil && len(o.weights) != nctrl[0] {
		return nil, fmt.Errorf("%w: weights do not match control grid", nurbs.ErrDimension)
	}
	s := &Surface{control: grid, closed: o.closed}
	for d := range 2 {
		kv, deg, err := setupDirection(nctrl[d], o.degree[d], o.knots[d], o.blended[d], o.closed[d])
		if err != nil {
			return nil, fmt.Errorf("direction %c: %w", "uv"[d], err)
		}
		s.knots[d], s.degree[d] = kv, deg
	}
	tracer().Debugf("surface with %d×%d control points, degrees %v", nctrl[0], nctrl[1], s.degree)
	return s, nil
}

// setupDirection determines degree and knot vector for one direction, with
// the same defaults as curve.New.
func setupDirection(nctrl, degree int, knots []float64, blended, closed bool) (*knotv.KnotVector, int, error) {
	if degree == 0 {
		if knots == nil {
			degree = nctrl - 1
			if !blended {
				degree = min(degree, 3)
			}
		} else {
			degree = len(knots) - nctrl - 1
		}
	}
	if degree < 1 {
		return nil, 0, fmt.Errorf("%w: degree %d < 1", nurbs.ErrDegree, degree)
	}
	if nctrl < degree+1 {
		return nil, 0, fmt.Errorf("%w: %d control points for order %d", nurbs.ErrTooFewControlPoints, nctrl, degree+1)
	}
	var kv *knotv.KnotVector
	var err error
	if knots == nil {
		kv, err = knotv.Generate(nctrl, degree, blended, closed)
	} else {
		kv, err = knotv.New(knots)
	}
	if err != nil {
		return nil, 0, err
	}
	if kv.NKnots() != nctrl+degree+1 {
		return nil, 0, fmt.Errorf("%w: %d knots, %d control points, order %d",
			nurbs.ErrKnotCount, kv.NKnots(), nctrl, degree+1)
	}
	return kv, degree, nil
}

// MustNew is like New, but panics on invalid arguments.
func MustNew(control eval.Grid, opts ...Option) *Surface {
	s, err := New(control, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Degrees returns the degrees in u and v.
func (s *Surface) Degrees() (int, int) {
	return s.degree[0], s.degree[1]
}

// Order returns the orders in u and v.
func (s *Surface) Order() (int, int) {
	return s.knots[0].NKnots() - len(s.control), s.knots[1].NKnots() - len(s.control[0])
}

// NCtrl returns the dimensions of the control grid.
func (s *Surface) NCtrl() (int, int) {
	return len(s.control), len(s.control[0])
}

// Knots returns the knot vectors in u and v.
func (s *Surface) Knots() (*knotv.KnotVector, *knotv.KnotVector) {
	return s.knots[0], s.knots[1]
}

// Closed returns the closed flags in u and v.
func (s *Surface) Closed() (bool, bool) {
	return s.closed[0], s.closed[1]
}

// Control returns a copy of the control grid.
func (s *Surface) Control() eval.Grid {
	g := make(eval.Grid, len(s.control))
	for i, row := range s.control {
		g[i] = append([]nurbs.Point(nil), row...)
	}
	return g
}

// Domain returns the parameter domain of the surface.
func (s *Surface) Domain() (u0, u1, v0, v1 float64) {
	u0, u1 = s.knots[0].Domain(s.degree[0])
	v0, v1 = s.knots[1].Domain(s.degree[1])
	return
}

// BBox returns the bounding box of the Cartesian control points.
func (s *Surface) BBox() r3.Box {
	var pts []r3.Vec
	for _, row := range s.control {
		pts = append(pts, nurbs.Cartesians(row)...)
	}
	return nurbs.BBox(pts)
}

func (s *Surface) kernelArgs() (eval.Grid, int, int, []float64, []float64) {
	return s.control, s.degree[0], s.degree[1], s.knots[0].Values(), s.knots[1].Values()
}

// PointsAt returns the Cartesian surface points at the given parameters.
func (s *Surface) PointsAt(uv []eval.UV) []r3.Vec {
	P, p, q, U, V := s.kernelArgs()
	pts := nurbs.Cartesians(eval.SurfacePoints(P, p, q, U, V, uv))
	for i, x := range pts {
		if !nurbs.IsFinite(x.X) || !nurbs.IsFinite(x.Y) || !nurbs.IsFinite(x.Z) {
			tracer().Errorf("surface point %d is not finite: %v", i, x)
			break
		}
	}
	return pts
}

// Derivs returns the Cartesian partial derivatives at each parameter pair.
// The result is indexed [i][k][l] for the derivative k times in u and l
// times in v at uv[i]; [i][0][0] is the surface point itself.
func (s *Surface) Derivs(uv []eval.UV, du, dv int) [][][]r3.Vec {
	P, p, q, U, V := s.kernelArgs()
	ders := make([][][]r3.Vec, len(uv))
	for i, t := range uv {
		ders[i] = eval.RationalSurfaceDerivsAt(P, p, q, U, V, t.U, t.V, du, dv)
	}
	return ders
}

// Normals returns unit surface normals Su×Sv at the given parameters. Where
// the surface is degenerate the normal is zero.
func (s *Surface) Normals(uv []eval.UV) []r3.Vec {
	ders := s.Derivs(uv, 1, 1)
	normals := make([]r3.Vec, len(uv))
	for i, d := range ders {
		n := r3.Cross(d[1][0], d[0][1])
		if l := r3.Norm(n); l > 0 {
			normals[i] = r3.Scale(1/l, n)
		}
	}
	return normals
}

// Grid evaluates the surface on a regular grid of (nu+1)×(nv+1) parameter
// pairs spanning the domain. Points are evaluated concurrently; the result
// is indexed [i][j] like the control grid.
func (s *Surface) Grid(ctx context.Context, nu, nv int) ([][]r3.Vec, error) {
	u0, u1, v0, v1 := s.Domain()
	us := knotv.Uniform(max(nu, 1), u0, u1)
	vs := knotv.Uniform(max(nv, 1), v0, v1)
	uv := make([]eval.UV, 0, len(us)*len(vs))
	for _, u := range us {
		for _, v := range vs {
			uv = append(uv, eval.UV{U: u, V: v})
		}
	}
	P, p, q, U, V := s.kernelArgs()
	hpts, err := eval.SurfacePointsParallel(ctx, P, p, q, U, V, uv)
	if err != nil {
		return nil, err
	}
	pts := nurbs.Cartesians(hpts)
	grid := make([][]r3.Vec, len(us))
	for i := range grid {
		grid[i] = pts[i*len(vs) : (i+1)*len(vs)]
	}
	return grid, nil
}

// Transform applies an affine transformation to the control points,
// returning a new surface.
func (s *Surface) Transform(m nurbs.AT) *Surface {
	g := make(eval.Grid, len(s.control))
	for i, row := range s.control {
		g[i] = m.TransformAll(row)
	}
	return &Surface{control: g, degree: s.degree, knots: s.knots, closed: s.closed}
}

// String returns a short description of the surface.
func (s *Surface) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NURBS Surface, degrees = %v, nctrl = %d×%d\n", s.degree, len(s.control), len(s.control[0]))
	fmt.Fprintf(&b, "  u: %v\n  v: %v\n", s.knots[0], s.knots[1])
	return b.String()
}
