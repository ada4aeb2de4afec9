package curve

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
	"github.com/npillmayer/nurbs/bezier"
)

// PowerBasis returns the power basis form of each Bezier segment of the
// curve: for segment k, C(t) = Σ a[k][i]·tⁱ (homogeneous) with the local
// parameter t ∈ [0,1]. The power matrix is taken from cache, which may be
// nil.
func (c *Curve) PowerBasis(cache *basis.Cache) ([][]nurbs.Point, error) {
	segs, err := c.Segments()
	if err != nil {
		return nil, err
	}
	M := cache.PowerMatrix(c.degree)
	a := make([][]nurbs.Point, len(segs))
	for k, seg := range segs {
		a[k] = bezier.PowerCoefficients(M, seg)
	}
	return a, nil
}
