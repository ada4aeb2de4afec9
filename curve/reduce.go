package curve

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/bezier"
	"github.com/npillmayer/nurbs/knotv"
)

// ReduceDegree lowers the degree of the curve by t, repeating ReduceDegreeOnce
// t times. It returns the reduced curve together with the sum of the maximum
// span errors of all passes, which bounds the deviation from the original
// curve. With tol > 0 the reduction fails with ErrNotReducible if any pass
// exceeds tol.
func (c *Curve) ReduceDegree(t int, tol float64) (*Curve, float64, error) {
	if t < 0 || t >= c.degree {
		return nil, 0, fmt.Errorf("%w: cannot reduce degree %d by %d", nurbs.ErrDegree, c.degree, t)
	}
	total := 0.0
	for range t {
		d, errs, err := c.ReduceDegreeOnce(tol)
		if err != nil {
			return nil, total, err
		}
		e := 0.0
		for _, x := range errs {
			e = max(e, x)
		}
		total += e
		c = d
	}
	return c, total, nil
}

// ReduceDegreeOnce lowers the degree of a clamped open curve by one (A5.11).
// The curve is processed span by span: each span is extracted as a Bezier
// segment, reduced with bezier.DegreeReduce and merged with the previous
// span by knot removal.
//
// The returned error vector holds, for each knot span, the accumulated
// deviation bound from segment reduction and knot removal. If tol > 0 and
// any bound exceeds tol, ErrNotReducible is returned; tol ≤ 0 accepts any
// result and leaves the check to the caller. A curve with interior knots of
// multiplicity degree+1 is reduced piece by piece.
func (c *Curve) ReduceDegreeOnce(tol float64) (*Curve, []float64, error) {
	if c.closed {
		return nil, nil, fmt.Errorf("%w: reduce degree", nurbs.ErrClosedCurve)
	}
	p := c.degree
	if p < 2 {
		return nil, nil, fmt.Errorf("%w: cannot reduce degree %d", nurbs.ErrDegree, p)
	}
	if !c.IsClamped() {
		return nil, nil, fmt.Errorf("%w: reduce degree", ErrNotClamped)
	}
	if c.hasBreaks() {
		return c.reducePieces(tol)
	}
	Qw := c.control
	U := c.knotv.Values()
	n := len(Qw) - 1
	m := n + p + 1
	ph := p - 1
	Uh := make([]float64, 2*m+1)
	Pw := make([]nurbs.Point, 2*n+3)
	bpts := make([]nurbs.Point, p+1)
	Nextbpts := make([]nurbs.Point, p-1)
	alfs := make([]float64, p-1)
	e := make([]float64, m)
	exceeds := func(x float64) bool {
		return tol > 0 && x > tol
	}
	kind := ph + 1
	r := -1
	a := p
	b := p + 1
	cind := 1
	Pw[0] = Qw[0]
	for i := 0; i <= ph; i++ {
		Uh[i] = U[0]
	}
	copy(bpts, Qw[:p+1])
	for b < m {
		i := b
		for b < m && U[b] == U[b+1] {
			b++
		}
		mult := b - i + 1
		oldr := r
		r = p - mult
		lbz := 1
		if oldr > 0 {
			lbz = (oldr + 2) / 2
		}
		if r > 0 { // insert knot U[b] r times
			numer := U[b] - U[a]
			for k := p; k > mult; k-- {
				alfs[k-mult-1] = numer / (U[a+k] - U[a])
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mult + j
				for k := p; k >= s; k-- {
					bpts[k] = comb(alfs[k-s], bpts[k], bpts[k-1])
				}
				Nextbpts[save] = bpts[p]
			}
		}
		rbpts, maxErr, err := bezier.DegreeReduce(bpts)
		if err != nil {
			return nil, nil, err
		}
		e[a] += maxErr
		if exceeds(e[a]) {
			return nil, e, fmt.Errorf("%w: span error %g > %g", ErrNotReducible, e[a], tol)
		}
		if oldr > 0 { // remove knot U[a] oldr times
			first, last := kind, kind
			for k := range oldr {
				i, j := first, last
				kj := j - kind
				for j-i > k {
					alfa := (U[a] - Uh[i-1]) / (U[b] - Uh[i-1])
					beta := (U[a] - Uh[j-k-1]) / (U[b] - Uh[j-k-1])
					Pw[i-1] = Pw[i-1].Sub(Pw[i-2].Scaled(1 - alfa)).Scaled(1 / alfa)
					rbpts[kj] = rbpts[kj].Sub(rbpts[kj+1].Scaled(beta)).Scaled(1 / (1 - beta))
					i++
					j--
					kj--
				}
				var Br float64
				if j-i < k {
					Br = nurbs.Dist4(Pw[i-2], rbpts[kj+1])
				} else {
					delta := (U[a] - Uh[i-1]) / (U[b] - Uh[i-1])
					Br = nurbs.Dist4(Pw[i-1], comb(delta, rbpts[kj+1], Pw[i-2]))
				}
				K := a + oldr - k
				q := (2*p - k + 1) / 2
				for ii := max(K-q, 0); ii <= a; ii++ { // affected knot spans
					e[ii] += Br
					if exceeds(e[ii]) {
						return nil, e, fmt.Errorf("%w: knot removal error %g > %g", ErrNotReducible, e[ii], tol)
					}
				}
				first--
				last++
				cind = i - 1
			}
		}
		if a != p { // load the knot U[a]
			for range ph - oldr {
				Uh[kind] = U[a]
				kind++
			}
		}
		for j := lbz; j <= ph; j++ { // load control points
			Pw[cind] = rbpts[j]
			cind++
		}
		if b < m { // set up for next pass
			for j := 0; j < r; j++ {
				bpts[j] = Nextbpts[j]
			}
			for j := max(r, 0); j <= p; j++ {
				bpts[j] = Qw[b-p+j]
			}
			a = b
			b++
		} else {
			for range ph + 1 {
				Uh[kind] = U[b]
				kind++
			}
		}
	}
	mh := kind - 1
	nh := mh - ph - 1
	tracer().Debugf("reduced degree %d -> %d, nctrl %d -> %d", p, ph, n+1, nh+1)
	kv, err := knotv.New(Uh[:mh+1])
	if err != nil {
		return nil, e, err
	}
	d, err := newCurve(Pw[:nh+1], ph, kv, false, c.blended)
	return d, e, err
}

func (c *Curve) reducePieces(tol float64) (*Curve, []float64, error) {
	pieces, offsets, err := c.breakPieces()
	if err != nil {
		return nil, nil, err
	}
	e := make([]float64, c.knotv.NKnots()-1)
	for i, d := range pieces {
		r, pe, err := d.ReduceDegreeOnce(tol)
		for k, x := range pe {
			e[offsets[i]+k] += x
		}
		if err != nil {
			return nil, e, err
		}
		pieces[i] = r
	}
	d, err := joinPieces(pieces, c.blended)
	return d, e, err
}
