package eval

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/basis"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a rectangular array of homogeneous control points. Grid[i][j] is
// the control point with index i in u-direction and j in v-direction.
type Grid [][]nurbs.Point

// UV is a parameter pair on a surface.
type UV struct {
	U, V float64
}

// SurfacePoint evaluates a tensor-product surface with control grid P,
// degrees (p,q) and knots (U,V) at (u,v) (A3.5, A4.3).
func SurfacePoint(P Grid, p, q int, U, V []float64, u, v float64) nurbs.Point {
	n, m := len(P)-1, len(P[0])-1
	uspan := basis.FindSpan(n, p, u, U)
	Nu := basis.BasisFuns(uspan, u, p, U)
	vspan := basis.FindSpan(m, q, v, V)
	Nv := basis.BasisFuns(vspan, v, q, V)
	uind := uspan - p
	var S nurbs.Point
	for l := 0; l <= q; l++ {
		var temp nurbs.Point
		vind := vspan - q + l
		for k := 0; k <= p; k++ {
			temp = temp.Add(P[uind+k][vind].Scaled(Nu[k]))
		}
		S = S.Add(temp.Scaled(Nv[l]))
	}
	return S
}

// SurfacePoints evaluates a surface at each parameter pair. Results are
// homogeneous.
func SurfacePoints(P Grid, p, q int, U, V []float64, uv []UV) []nurbs.Point {
	pts := make([]nurbs.Point, len(uv))
	for i, t := range uv {
		pts[i] = SurfacePoint(P, p, q, U, V, t.U, t.V)
	}
	return pts
}

// SurfaceDerivsAt computes homogeneous partial derivatives of a surface at
// (u,v) (A3.6). SKL[k][l] is the derivative k times with respect to u and
// l times with respect to v, for k <= du and l <= dv. Derivatives beyond the
// respective degree are zero.
func SurfaceDerivsAt(P Grid, p, q int, U, V []float64, u, v float64, du, dv int) [][]nurbs.Point {
	n, m := len(P)-1, len(P[0])-1
	SKL := make([][]nurbs.Point, du+1)
	for k := range SKL {
		SKL[k] = make([]nurbs.Point, dv+1)
	}
	ddu, ddv := min(du, p), min(dv, q)
	uspan := basis.FindSpan(n, p, u, U)
	Nu := basis.DersBasisFuns(uspan, u, p, ddu, U)
	vspan := basis.FindSpan(m, q, v, V)
	Nv := basis.DersBasisFuns(vspan, v, q, ddv, V)
	temp := make([]nurbs.Point, q+1)
	for k := 0; k <= ddu; k++ {
		for s := 0; s <= q; s++ {
			temp[s] = nurbs.Point{}
			for r := 0; r <= p; r++ {
				temp[s] = temp[s].Add(P[uspan-p+r][vspan-q+s].Scaled(Nu[k][r]))
			}
		}
		for l := 0; l <= ddv; l++ {
			for s := 0; s <= q; s++ {
				SKL[k][l] = SKL[k][l].Add(temp[s].Scaled(Nv[l][s]))
			}
		}
	}
	return SKL
}

// SurfaceDerivs computes homogeneous partial derivatives for each parameter
// pair. The result is indexed [k][l][i], with i the index into uv.
func SurfaceDerivs(P Grid, p, q int, U, V []float64, uv []UV, du, dv int) [][][]nurbs.Point {
	ders := make([][][]nurbs.Point, du+1)
	for k := range ders {
		ders[k] = make([][]nurbs.Point, dv+1)
		for l := range ders[k] {
			ders[k][l] = make([]nurbs.Point, len(uv))
		}
	}
	for i, t := range uv {
		SKL := SurfaceDerivsAt(P, p, q, U, V, t.U, t.V, du, dv)
		for k := 0; k <= du; k++ {
			for l := 0; l <= dv; l++ {
				ders[k][l][i] = SKL[k][l]
			}
		}
	}
	return ders
}

// RationalSurfaceDerivsAt computes Cartesian partial derivatives of a
// rational surface at (u,v), applying the quotient rule of A4.4.
func RationalSurfaceDerivsAt(P Grid, p, q int, U, V []float64, u, v float64, du, dv int) [][]r3.Vec {
	ders := SurfaceDerivsAt(P, p, q, U, V, u, v, du, dv)
	SKL := make([][]r3.Vec, du+1)
	for k := range SKL {
		SKL[k] = make([]r3.Vec, dv+1)
	}
	w00 := ders[0][0].W
	for k := 0; k <= du; k++ {
		bink := basis.BinomialRow(k)
		for l := 0; l <= dv; l++ {
			binl := basis.BinomialRow(l)
			a := ders[k][l].Vec()
			for j := 1; j <= l; j++ {
				a = r3.Sub(a, r3.Scale(binl[j]*ders[0][j].W, SKL[k][l-j]))
			}
			for i := 1; i <= k; i++ {
				a = r3.Sub(a, r3.Scale(bink[i]*ders[i][0].W, SKL[k-i][l]))
				var v2 r3.Vec
				for j := 1; j <= l; j++ {
					v2 = r3.Add(v2, r3.Scale(binl[j]*ders[i][j].W, SKL[k-i][l-j]))
				}
				a = r3.Sub(a, r3.Scale(bink[i], v2))
			}
			SKL[k][l] = r3.Scale(1/w00, a)
		}
	}
	return SKL
}
