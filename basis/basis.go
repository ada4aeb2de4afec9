/*
Package basis implements B-spline basis functions and their derivatives
(Cox-de Boor recursion), Bernstein polynomials and binomial coefficients.

Algorithms and numbering follow "The NURBS Book" by Piegl and Tiller:
FindSpan is A2.1, BasisFuns is A2.2 and DersBasisFuns is A2.3.
All functions take the full (expanded) knot sequence U[0..m].

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package basis

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs.basis'
func tracer() tracing.Trace {
	return tracing.Select("nurbs.basis")
}

// FindSpan determines the knot span index i with U[i] <= u < U[i+1], for a
// curve with control points P[0..n] and degree p. Values at or beyond the
// end of the domain are mapped to the last non-empty span, values before
// the domain to the first one.
func FindSpan(n, p int, u float64, U []float64) int {
	if u >= U[n+1] {
		return n
	}
	if u <= U[p] {
		return p
	}
	low, high := p, n+1
	mid := (low + high) / 2
	for u < U[mid] || u >= U[mid+1] {
		if u < U[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// BasisFuns computes the p+1 non-vanishing basis functions
// N[i-p,p](u) … N[i,p](u) in knot span i.
func BasisFuns(i int, u float64, p int, U []float64) []float64 {
	N := make([]float64, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	N[0] = 1.0
	for j := 1; j <= p; j++ {
		left[j] = u - U[i+1-j]
		right[j] = U[i+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := N[r] / (right[r+1] + left[j-r])
			N[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		N[j] = saved
	}
	return N
}

// DersBasisFuns computes the non-vanishing basis functions and their
// derivatives up to order n in knot span i. ders[k][j] is the k-th
// derivative of N[i-p+j,p] at u. Derivatives of order greater than p are 0.
func DersBasisFuns(i int, u float64, p, n int, U []float64) [][]float64 {
	ndu := make2D(p+1, p+1)
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	ndu[0][0] = 1.0
	for j := 1; j <= p; j++ {
		left[j] = u - U[i+1-j]
		right[j] = U[i+j] - u
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r] // lower triangle: knot differences
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp // upper triangle: basis functions
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	ders := make2D(n+1, p+1)
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}
	a := make2D(2, p+1)
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1
		a[0][0] = 1.0
		for k := 1; k <= n && k <= p; k++ {
			d := 0.0
			rk, pk := r-k, p-k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1, j2 := 1, k-1
			if rk < -1 {
				j1 = -rk
			}
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	r := float64(p)
	for k := 1; k <= n && k <= p; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= r
		}
		r *= float64(p - k)
	}
	return ders
}

// OneBasisFun computes the single basis function N[i,p](u) (A2.4).
func OneBasisFun(p int, U []float64, i int, u float64) float64 {
	m := len(U) - 1
	if (i == 0 && u == U[0]) || (i == m-p-1 && u == U[m]) {
		return 1.0
	}
	if u < U[i] || u >= U[i+p+1] {
		return 0.0
	}
	N := make([]float64, p+1)
	for j := 0; j <= p; j++ {
		if u >= U[i+j] && u < U[i+j+1] {
			N[j] = 1.0
		}
	}
	for k := 1; k <= p; k++ {
		saved := 0.0
		if N[0] != 0.0 {
			saved = ((u - U[i]) * N[0]) / (U[i+k] - U[i])
		}
		for j := 0; j < p-k+1; j++ {
			uleft, uright := U[i+j+1], U[i+j+k+1]
			if N[j+1] == 0.0 {
				N[j] = saved
				saved = 0.0
			} else {
				temp := N[j+1] / (uright - uleft)
				N[j] = saved + (uright-u)*temp
				saved = (u - uleft) * temp
			}
		}
	}
	return N[0]
}

func make2D(rows, cols int) [][]float64 {
	data := make([]float64, rows*cols)
	m := make([][]float64, rows)
	for i := range m {
		m[i] = data[i*cols : (i+1)*cols]
	}
	return m
}
