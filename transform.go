package nurbs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// === Affine Transformations ================================================

// AT is an affine transform in 3D space, a 4x4 matrix type used for
// transforming homogeneous points. The last row is always (0,0,0,1).
type AT []float64 // a 4x4 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 16)
	return m
}

func (m AT) get(row, col int) float64 {
	return m[row*4+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*4+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*4 : (row+1)*4]
}

func (m AT) col(col int) []float64 {
	c := make([]float64, 4)
	for i := range 4 {
		c[i] = m[i*4+col]
	}
	return c
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	for i := range 4 {
		m.set(i, i, 1.0)
	}
	return m
}

// Translation transform. Translate a point by v.
func Translation(v r3.Vec) AT {
	m := Identity()
	m.set(0, 3, v.X)
	m.set(1, 3, v.Y)
	m.set(2, 3, v.Z)
	return m
}

// Scaling transform. Scale a point relative to the origin, with
// separate factors per axis.
func Scaling(s r3.Vec) AT {
	m := Identity()
	m.set(0, 0, s.X)
	m.set(1, 1, s.Y)
	m.set(2, 2, s.Z)
	return m
}

// Rotation transform. Rotate a point counter-clockwise around an axis
// through the origin (right-hand rule). Argument theta is in radians.
func Rotation(theta float64, axis r3.Vec) AT {
	m := Identity()
	a := r3.Unit(axis)
	sin, cos := math.Sincos(theta)
	t := 1 - cos
	m.set(0, 0, t*a.X*a.X+cos)
	m.set(0, 1, t*a.X*a.Y-sin*a.Z)
	m.set(0, 2, t*a.X*a.Z+sin*a.Y)
	m.set(1, 0, t*a.X*a.Y+sin*a.Z)
	m.set(1, 1, t*a.Y*a.Y+cos)
	m.set(1, 2, t*a.Y*a.Z-sin*a.X)
	m.set(2, 0, t*a.X*a.Z-sin*a.Y)
	m.set(2, 1, t*a.Y*a.Z+sin*a.X)
	m.set(2, 2, t*a.Z*a.Z+cos)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	return fmt.Sprintf("[%g,%g,%g,%g|%g,%g,%g,%g|%g,%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8], m[9], m[10], m[11])
}

func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2] + vec1[3]*vec2[3]
}

// Combine 2 affine transformation to a new one. The result first applies m,
// then n. Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := range 4 {
		for col := range 4 {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

// Transform a homogeneous point. The weight of p is kept: the translational
// part is scaled by w, so that the Cartesian point is transformed correctly.
func (m AT) Transform(p Point) Point {
	c := []float64{p.X, p.Y, p.Z, p.W}
	return Point{
		X: dotProd(m.row(0), c),
		Y: dotProd(m.row(1), c),
		Z: dotProd(m.row(2), c),
		W: dotProd(m.row(3), c),
	}
}

// TransformAll transforms a slice of points, returning a new slice.
func (m AT) TransformAll(pts []Point) []Point {
	r := make([]Point, len(pts))
	for i, p := range pts {
		r[i] = m.Transform(p)
	}
	return r
}

// TransformVec transforms a Cartesian point.
func (m AT) TransformVec(v r3.Vec) r3.Vec {
	return m.Transform(FromVec(v)).Cartesian()
}

// IsIdentity is a predicate: does m leave every point unchanged?
func (m AT) IsIdentity() bool {
	id := Identity()
	for i := range m {
		if !Is0(m[i] - id[i]) {
			tracer().Debugf("transform %s is not identity at %d", m, i)
			return false
		}
	}
	return true
}
