package curve

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knotv"
)

// hasBreaks reports whether an interior knot has multiplicity degree+1,
// where the curve may be discontinuous.
func (c *Curve) hasBreaks() bool {
	mul := c.knotv.Mul()
	for _, m := range mul[1 : len(mul)-1] {
		if m > c.degree {
			return true
		}
	}
	return false
}

// breakPieces splits a clamped curve at its break knots into clamped pieces
// without breaks. It also returns the index in U of the first knot of each
// piece.
func (c *Curve) breakPieces() ([]*Curve, []int, error) {
	p := c.degree
	U := c.knotv.Values()
	val, mul := c.knotv.Val(), c.knotv.Mul()
	var pieces []*Curve
	var offsets []int
	ks := 0 // first knot of the current piece
	r := mul[0] - 1
	for k := 1; k < len(val); k++ {
		r += mul[k]
		if k < len(val)-1 && mul[k] <= p {
			continue
		}
		kv, err := knotv.New(U[ks : r+1])
		if err != nil {
			return nil, nil, err
		}
		ctrl := append([]nurbs.Point(nil), c.control[ks:r-p]...)
		d, err := newCurve(ctrl, p, kv, false, c.blended)
		if err != nil {
			return nil, nil, err
		}
		pieces = append(pieces, d)
		offsets = append(offsets, ks)
		ks = r - p
	}
	tracer().Debugf("split curve at breaks into %d pieces", len(pieces))
	return pieces, offsets, nil
}

// joinPieces concatenates clamped curves of equal degree, where each piece
// starts at the parameter value the previous one ends with. Joints become
// knots of multiplicity degree+1.
func joinPieces(pieces []*Curve, blended bool) (*Curve, error) {
	p := pieces[0].degree
	var ctrl []nurbs.Point
	var U []float64
	for k, d := range pieces {
		ctrl = append(ctrl, d.control...)
		if k == 0 {
			U = append(U, d.knotv.Values()...)
		} else {
			U = append(U, d.knotv.Values()[p+1:]...)
		}
	}
	kv, err := knotv.New(U)
	if err != nil {
		return nil, err
	}
	return newCurve(ctrl, p, kv, false, blended)
}
