package curve

import (
	"fmt"
	"slices"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knotv"
)

// Reverse returns the same curve traversed in the opposite direction. The
// control points are reversed and the knot vector is mirrored.
func (c *Curve) Reverse() *Curve {
	ctrl := append([]nurbs.Point(nil), c.control...)
	slices.Reverse(ctrl)
	return &Curve{
		control: ctrl,
		degree:  c.degree,
		knotv:   c.knotv.Reverse(),
		closed:  c.closed,
		blended: c.blended,
	}
}

// Unclamp returns an equivalent curve with an unclamped knot vector (A12.1).
// The end knots are extended periodically from the inner knot spans and the
// end control points are recomputed, leaving the shape over the domain
// unchanged.
func (c *Curve) Unclamp() (*Curve, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: unclamp", nurbs.ErrClosedCurve)
	}
	if !c.IsClamped() {
		return nil, fmt.Errorf("%w: unclamp", ErrNotClamped)
	}
	p := c.degree
	P := append([]nurbs.Point(nil), c.control...)
	U := c.knotv.Values()
	n := len(P) - 1
	for i := range p { // left end
		U[p-i-1] = U[p-i] - (U[n-i+1] - U[n-i])
		if i == p-1 {
			break
		}
		k := p - 1
		for j := i; j >= 0; j-- {
			alfa := (U[p] - U[k]) / (U[p+j+1] - U[k])
			P[j] = P[j].Sub(P[j+1].Scaled(alfa)).Scaled(1 / (1 - alfa))
			k--
		}
	}
	for i := range p { // right end
		U[n+i+2] = U[n+i+1] + (U[p+i+1] - U[p+i])
		if i == p-1 {
			break
		}
		for j := i; j >= 0; j-- {
			alfa := (U[n+1] - U[n-j]) / (U[n-j+i+2] - U[n-j])
			P[n-j] = P[n-j].Sub(P[n-j-1].Scaled(1 - alfa)).Scaled(1 / alfa)
		}
	}
	kv, err := knotv.New(U)
	if err != nil {
		return nil, err
	}
	return newCurve(P, p, kv, false, c.blended)
}
