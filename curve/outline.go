package curve

import (
	"fmt"
	"math"

	polyclip "github.com/akavel/polyclip-go"
	"github.com/npillmayer/nurbs"
	"gonum.org/v1/gonum/spatial/r3"
)

// Outline approximates a closed curve in the xy-plane by a polygon, with
// ndiv divisions per knot span. The curve must either be closed or start
// and end at the same point.
func (c *Curve) Outline(ndiv int) (polyclip.Polygon, error) {
	pts := c.Approx(ndiv)
	tol := nurbs.Epsilon * c.charLength()
	for _, p := range pts {
		if math.Abs(p.Z) > tol {
			return nil, fmt.Errorf("%w: z = %g", ErrNotPlanar, p.Z)
		}
	}
	n := len(pts)
	if n > 1 && r3.Norm(r3.Sub(pts[0], pts[n-1])) <= tol {
		n--
	} else if !c.closed {
		return nil, fmt.Errorf("%w: outline of an open curve", nurbs.ErrClosedCurve)
	}
	if n < 3 {
		return nil, fmt.Errorf("%w: outline needs 3 distinct points", nurbs.ErrTooFewControlPoints)
	}
	cont := make(polyclip.Contour, n)
	for i, p := range pts[:n] {
		cont[i] = polyclip.Point{X: p.X, Y: p.Y}
	}
	return polyclip.Polygon{cont}, nil
}

// Clip applies a boolean operation (polyclip.UNION, INTERSECTION, DIFFERENCE
// or XOR) to the regions bounded by two closed planar curves.
func Clip(a, b *Curve, op polyclip.Op, ndiv int) (polyclip.Polygon, error) {
	pa, err := a.Outline(ndiv)
	if err != nil {
		return nil, err
	}
	pb, err := b.Outline(ndiv)
	if err != nil {
		return nil, err
	}
	return pa.Construct(op, pb), nil
}

// Contains reports whether the point (x,y) lies inside the region bounded by
// a closed planar curve.
func (c *Curve) Contains(x, y float64, ndiv int) (bool, error) {
	poly, err := c.Outline(ndiv)
	if err != nil {
		return false, err
	}
	return poly[0].Contains(polyclip.Point{X: x, Y: y}), nil
}
