package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// === Homogeneous Point Data Type ===========================================

// Point is a point in homogeneous coordinates (x,y,z,w). The Cartesian
// point it represents is (x/w,y/w,z/w). Control points of rational curves
// and surfaces are stored in this form, i.e. with coordinates already
// multiplied by their weight.
//
// A point with w = 0 is a point at infinity (a direction). Cartesian() will
// not guard against this; derivatives of homogeneous curves have w = 0 as
// soon as all weights are equal.
type Point struct {
	X, Y, Z, W float64
}

// Origin represents the frequently used constant (0,0,0,1).
var Origin = Pt(0, 0, 0)

// Pt is a quick notation for constructing a point with weight 1.
func Pt(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z, W: 1}
}

// Homogeneous creates a homogeneous point from Cartesian coordinates v and
// weight w. The coordinates are multiplied by w.
func Homogeneous(v r3.Vec, w float64) Point {
	return Point{X: v.X * w, Y: v.Y * w, Z: v.Z * w, W: w}
}

// FromVec creates a point of weight 1 from a Cartesian vector.
func FromVec(v r3.Vec) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z, W: 1}
}

// Pretty Stringer for homogeneous points.
func (p Point) String() string {
	return fmt.Sprintf("(%g,%g,%g;%g)", p.X, p.Y, p.Z, p.W)
}

// Cartesian performs the perspective division and returns the Cartesian
// point. For w = 0 the result will contain Inf or NaN components.
func (p Point) Cartesian() r3.Vec {
	return r3.Vec{X: p.X / p.W, Y: p.Y / p.W, Z: p.Z / p.W}
}

// Vec returns the (x,y,z) part of p without dividing by w.
func (p Point) Vec() r3.Vec {
	return r3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}

// Add returns p+q, adding all four components.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y, p.Z + q.Z, p.W + q.W}
}

// Sub returns p-q, subtracting all four components.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y, p.Z - q.Z, p.W - q.W}
}

// Scaled returns a·p for all four components.
func (p Point) Scaled(a float64) Point {
	return Point{p.X * a, p.Y * a, p.Z * a, p.W * a}
}

// Lerp returns the affine combination (1-a)·p + a·q.
func Lerp(a float64, p, q Point) Point {
	b := 1.0 - a
	return Point{b*p.X + a*q.X, b*p.Y + a*q.Y, b*p.Z + a*q.Z, b*p.W + a*q.W}
}

// Norm is the 4D Euclidean length of p, treating w as an ordinary coordinate.
func (p Point) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z + p.W*p.W)
}

// Dist4 is the 4D Euclidean distance between p and q. This is the distance
// measure used for knot removal tolerances on homogeneous control points.
func Dist4(p, q Point) float64 {
	return p.Sub(q).Norm()
}

// Equal compares two points component-wise within Epsilon.
func (p Point) Equal(q Point) bool {
	return Is0(p.X-q.X) && Is0(p.Y-q.Y) && Is0(p.Z-q.Z) && Is0(p.W-q.W)
}

// IsFinite is a predicate: are all components of p finite?
func (p Point) IsFinite() bool {
	return IsFinite(p.X) && IsFinite(p.Y) && IsFinite(p.Z) && IsFinite(p.W)
}

// Zap rounds all components to Epsilon.
func (p Point) Zap() Point {
	return Point{Zap(p.X), Zap(p.Y), Zap(p.Z), Zap(p.W)}
}

// Normalized returns p with weight 1, i.e. the Cartesian point in
// homogeneous form.
func (p Point) Normalized() Point {
	return FromVec(p.Cartesian())
}

// Homogenize creates homogeneous points from Cartesian vectors and weights.
// If weights is nil, all weights are 1.
func Homogenize(vs []r3.Vec, weights []float64) ([]Point, error) {
	if weights != nil && len(weights) != len(vs) {
		return nil, fmt.Errorf("%w: %d weights for %d points", ErrDimension, len(weights), len(vs))
	}
	pts := make([]Point, len(vs))
	for i, v := range vs {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		pts[i] = Homogeneous(v, w)
	}
	return pts, nil
}

// Cartesians performs perspective division for a slice of points.
func Cartesians(pts []Point) []r3.Vec {
	vs := make([]r3.Vec, len(pts))
	for i, p := range pts {
		vs[i] = p.Cartesian()
	}
	return vs
}

// BBox returns the axis-aligned bounding box of a set of Cartesian points.
// For an empty set the zero box is returned.
func BBox(vs []r3.Vec) r3.Box {
	if len(vs) == 0 {
		return r3.Box{}
	}
	box := r3.Box{Min: vs[0], Max: vs[0]}
	for _, v := range vs[1:] {
		box.Min.X = math.Min(box.Min.X, v.X)
		box.Min.Y = math.Min(box.Min.Y, v.Y)
		box.Min.Z = math.Min(box.Min.Z, v.Z)
		box.Max.X = math.Max(box.Max.X, v.X)
		box.Max.Y = math.Max(box.Max.Y, v.Y)
		box.Max.Z = math.Max(box.Max.Z, v.Z)
	}
	return box
}

// Diagonal is the length of the diagonal of a box.
func Diagonal(box r3.Box) float64 {
	return r3.Norm(r3.Sub(box.Max, box.Min))
}
