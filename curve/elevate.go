package curve

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/bezier"
	"github.com/npillmayer/nurbs/knotv"
)

// ElevateDegree raises the degree of the curve by t ≥ 0 without changing
// its shape (A5.9). Every distinct knot value gains t in multiplicity.
// Degree elevation is not defined for closed curves. A curve with interior
// knots of multiplicity degree+1 is elevated piece by piece.
//
// The curve is processed span by span: each span is extracted as a Bezier
// segment by knot insertion, degree elevated, and merged with the previous
// elevated segment by removing the knots inserted before.
func (c *Curve) ElevateDegree(t int) (*Curve, error) {
	if c.closed {
		return nil, fmt.Errorf("%w: elevate degree", nurbs.ErrClosedCurve)
	}
	if t < 0 {
		return nil, fmt.Errorf("%w: cannot elevate by %d", nurbs.ErrDegree, t)
	}
	if t == 0 {
		return c, nil
	}
	if !c.IsClamped() {
		return nil, fmt.Errorf("%w: elevate degree", ErrNotClamped)
	}
	if c.hasBreaks() {
		pieces, _, err := c.breakPieces()
		if err != nil {
			return nil, err
		}
		for i, d := range pieces {
			if pieces[i], err = d.ElevateDegree(t); err != nil {
				return nil, err
			}
		}
		return joinPieces(pieces, c.blended)
	}
	p := c.degree
	Pw := c.control
	U := c.knotv.Values()
	n := len(Pw) - 1
	m := n + p + 1
	ph := p + t
	bezalfs := bezier.ElevationMatrix(p, t)
	ninner := c.knotv.Len() - 2
	Uh := make([]float64, m+1+(ninner+2)*t)
	Qw := make([]nurbs.Point, n+1+(ninner+1)*t)
	bpts := make([]nurbs.Point, p+1)
	ebpts := make([]nurbs.Point, ph+1)
	Nextbpts := make([]nurbs.Point, max(p-1, 0))
	alfs := make([]float64, max(p-1, 0))
	mh := ph
	kind := ph + 1
	r := -1
	a := p
	b := p + 1
	cind := 1
	ua := U[0]
	Qw[0] = Pw[0]
	for i := 0; i <= ph; i++ {
		Uh[i] = ua
	}
	copy(bpts, Pw[:p+1])
	for b < m {
		i := b
		for b < m && U[b] == U[b+1] {
			b++
		}
		mul := b - i + 1
		mh += mul + t
		ub := U[b]
		oldr := r
		r = p - mul
		lbz, rbz := 1, ph
		if oldr > 0 {
			lbz = (oldr + 2) / 2
		}
		if r > 0 {
			rbz = ph - (r+1)/2
		}
		if r > 0 { // insert knot ub r times
			numer := ub - ua
			for k := p; k > mul; k-- {
				alfs[k-mul-1] = numer / (U[a+k] - ua)
			}
			for j := 1; j <= r; j++ {
				save := r - j
				s := mul + j
				for k := p; k >= s; k-- {
					bpts[k] = comb(alfs[k-s], bpts[k], bpts[k-1])
				}
				Nextbpts[save] = bpts[p]
			}
		}
		for i := lbz; i <= ph; i++ { // degree elevate Bezier segment
			ebpts[i] = nurbs.Point{}
			for j := max(0, i-t); j <= min(p, i); j++ {
				ebpts[i] = ebpts[i].Add(bpts[j].Scaled(bezalfs[i][j]))
			}
		}
		if oldr > 1 { // remove knot ua oldr-1 times
			first := kind - 2
			last := kind
			den := ub - ua
			bet := (ub - Uh[kind-1]) / den
			for tr := 1; tr < oldr; tr++ {
				i, j := first, last
				kj := j - kind + 1
				for j-i > tr {
					if i < cind {
						alf := (ub - Uh[i]) / (ua - Uh[i])
						Qw[i] = comb(alf, Qw[i], Qw[i-1])
					}
					if j >= lbz {
						if j-tr <= kind-ph+oldr {
							gam := (ub - Uh[j-tr]) / den
							ebpts[kj] = comb(gam, ebpts[kj], ebpts[kj+1])
						} else {
							ebpts[kj] = comb(bet, ebpts[kj], ebpts[kj+1])
						}
					}
					i++
					j--
					kj--
				}
				first--
				last++
			}
		}
		if a != p { // load the knot ua
			for range ph - oldr {
				Uh[kind] = ua
				kind++
			}
		}
		for j := lbz; j <= rbz; j++ { // load control points
			Qw[cind] = ebpts[j]
			cind++
		}
		if b < m { // set up for next pass
			for j := 0; j < r; j++ {
				bpts[j] = Nextbpts[j]
			}
			for j := max(r, 0); j <= p; j++ {
				bpts[j] = Pw[b-p+j]
			}
			a = b
			b++
			ua = ub
		} else {
			for i := 0; i <= ph; i++ {
				Uh[kind+i] = ub
			}
		}
	}
	nh := mh - ph - 1
	tracer().Debugf("elevated degree %d -> %d, nctrl %d -> %d", p, ph, n+1, nh+1)
	kv, err := knotv.New(Uh[:mh+1])
	if err != nil {
		return nil, err
	}
	return newCurve(Qw[:nh+1], ph, kv, false, c.blended)
}
