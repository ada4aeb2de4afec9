package curve

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// Frame is the Frenet frame of a curve at a point, together with curvature
// and torsion.
type Frame struct {
	T, N, B   r3.Vec // unit tangent, normal and binormal
	Curvature float64
	Torsion   float64
}

// Frenet computes the Frenet frame from the first three derivatives of a
// curve at a point. Where the curvature vanishes, N and B are left zero.
func Frenet(d1, d2, d3 r3.Vec) Frame {
	var f Frame
	l := r3.Norm(d1)
	if l == 0 {
		tracer().Infof("Frenet frame: tangent vanishes")
		return f
	}
	f.T = r3.Scale(1/l, d1)
	e2 := r3.Sub(d2, r3.Scale(r3.Dot(d2, f.T), f.T))
	k := r3.Norm(e2)
	cr := r3.Cross(d1, d2)
	cr2 := r3.Norm2(cr)
	if k == 0 || cr2 == 0 {
		return f
	}
	f.N = r3.Scale(1/k, e2)
	f.B = r3.Cross(f.T, f.N)
	f.Curvature = r3.Dot(cr, f.B) / (l * l * l)
	f.Torsion = r3.Dot(cr, d3) / cr2
	return f
}

// FrenetAt computes Frenet frames at parameter values u.
func (c *Curve) FrenetAt(u ...float64) []Frame {
	ders := c.Derivs(u, 3)
	frames := make([]Frame, len(u))
	for i := range u {
		frames[i] = Frenet(ders[1][i], ders[2][i], ders[3][i])
	}
	return frames
}
