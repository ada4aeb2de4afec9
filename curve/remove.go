package curve

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knotv"
)

// RemoveKnot tries to remove the knot value u num times (A5.8). If num is
// negative or exceeds the multiplicity of u, the knot is removed as many
// times as possible. A removal is accepted if the deviation of the
// recomputed control points stays within tol·L, where L is the diagonal of
// the control point bounding box.
//
// RemoveKnot returns the new curve together with the number of removals.
// If no removal is possible, or u is not an interior knot, the receiver
// itself is returned with count 0. This is not an error.
func (c *Curve) RemoveKnot(u float64, num int, tol float64) (*Curve, int, error) {
	if c.closed {
		return nil, 0, fmt.Errorf("%w: remove knot", nurbs.ErrClosedCurve)
	}
	idx := c.knotv.Index(u)
	lo, hi := c.Domain()
	if idx < 0 {
		tracer().Infof("remove knot: no knot value %g", u)
		return c, 0, nil
	}
	mul := c.knotv.Mul()
	u = c.knotv.Val()[idx]
	if u <= lo || u >= hi {
		tracer().Infof("remove knot: %g is not an interior knot", u)
		return c, 0, nil
	}
	s := mul[idx]
	if num < 0 || num > s {
		num = s
	}
	r := -1 // last index of u in U
	for _, m := range mul[:idx+1] {
		r += m
	}
	p := c.degree
	U := c.knotv.Values()
	P := append([]nurbs.Point(nil), c.control...)
	n := len(P) - 1
	m := n + p + 1
	TOL := tol * c.charLength()
	ord := p + 1
	fout := (2*r - s - p) / 2
	last := r - s
	first := r - p
	temp := make([]nurbs.Point, p+s+1) // s may be p+1
	t := 0
	for ; t < num; t++ {
		off := first - 1
		temp[0] = P[off]
		temp[last+1-off] = P[last+1]
		i, j := first, last
		ii, jj := 1, last-off
		for j-i > t {
			alfi := (u - U[i]) / (U[i+ord+t] - U[i])
			alfj := (u - U[j-t]) / (U[j+ord] - U[j-t])
			temp[ii] = P[i].Sub(temp[ii-1].Scaled(1 - alfi)).Scaled(1 / alfi)
			temp[jj] = P[j].Sub(temp[jj+1].Scaled(alfj)).Scaled(1 / (1 - alfj))
			i++
			ii++
			j--
			jj--
		}
		var dist float64
		if j-i < t {
			dist = nurbs.Dist4(temp[ii-1], temp[jj+1])
		} else {
			alfi := (u - U[i]) / (U[i+ord+t] - U[i])
			dist = nurbs.Dist4(P[i], comb(alfi, temp[ii+t+1], temp[ii-1]))
		}
		if dist > TOL {
			tracer().Debugf("remove knot %g: deviation %g > %g after %d removals", u, dist, TOL, t)
			break
		}
		i, j = first, last
		for j-i > t {
			P[i] = temp[i-off]
			P[j] = temp[j-off]
			i++
			j--
		}
		first--
		last++
	}
	if t == 0 {
		return c, 0, nil
	}
	for k := r + 1; k <= m; k++ {
		U[k-t] = U[k]
	}
	j := fout
	i := j
	for k := 1; k < t; k++ {
		if k%2 == 1 {
			i++
		} else {
			j--
		}
	}
	for k := i + 1; k <= n; k++ {
		P[j] = P[k]
		j++
	}
	kv, err := knotv.New(U[:m+1-t])
	if err != nil {
		return nil, 0, err
	}
	tracer().Debugf("removed knot %g %d times", u, t)
	d, err := newCurve(P[:n+1-t], p, kv, false, c.blended)
	if err != nil {
		return nil, 0, err
	}
	return d, t, nil
}

// RemoveAllKnots repeatedly removes interior knots as often as possible
// within tolerance, until no more knots can be removed. It returns the
// resulting curve and the total number of removals.
func (c *Curve) RemoveAllKnots(tol float64) (*Curve, int, error) {
	total := 0
	maxPasses := len(c.control)
	for pass := 0; ; pass++ {
		if pass >= maxPasses {
			tracer().Errorf("remove all knots: giving up after %d passes", pass)
			return c, total, nil
		}
		removed := 0
		for _, u := range c.knotv.Val() {
			d, n, err := c.RemoveKnot(u, -1, tol)
			if err != nil {
				return nil, total, err
			}
			if n > 0 {
				c, removed = d, n
				break
			}
		}
		if removed == 0 {
			return c, total, nil
		}
		total += removed
	}
}
