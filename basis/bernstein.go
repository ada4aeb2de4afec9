package basis

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Binomial returns the binomial coefficient C(n,k). It is 0 for k < 0 or
// k > n.
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	c := 1.0
	for i := 1; i <= k; i++ {
		c = c * float64(n-k+i) / float64(i)
	}
	return math.Round(c)
}

// BinomialRow returns C(n,0) … C(n,n), i.e. row n of Pascal's triangle.
func BinomialRow(n int) []float64 {
	row := make([]float64, n+1)
	row[0] = 1
	for i := 1; i <= n; i++ {
		row[i] = row[i-1] * float64(n-i+1) / float64(i)
	}
	return row
}

// Bernstein computes the value of the Bernstein polynomial B[i,n] at u
// (A1.2).
func Bernstein(n, i int, u float64) float64 {
	if i < 0 || i > n {
		return 0
	}
	temp := make([]float64, n+1)
	temp[n-i] = 1.0
	u1 := 1.0 - u
	for k := 1; k <= n; k++ {
		for j := n; j >= k; j-- {
			temp[j] = u1*temp[j] + u*temp[j-1]
		}
	}
	return temp[n]
}

// AllBernstein computes all n+1 Bernstein polynomials of degree n at u
// (A1.3).
func AllBernstein(n int, u float64) []float64 {
	B := make([]float64, n+1)
	B[0] = 1.0
	u1 := 1.0 - u
	for j := 1; j <= n; j++ {
		saved := 0.0
		for k := 0; k < j; k++ {
			temp := B[k]
			B[k] = saved + u1*temp
			saved = u * temp
		}
		B[j] = saved
	}
	return B
}

// PowerMatrix computes the (p+1)×(p+1) matrix M converting the control
// points of a degree p Bezier segment into power basis coefficients:
// a = M·P with C(u) = Σ a[i]·u^i. M is lower triangular with
// M[i][j] = (-1)^(i-j)·C(p,i)·C(i,j).
func PowerMatrix(p int) *mat.Dense {
	M := mat.NewDense(p+1, p+1, nil)
	for i := 0; i <= p; i++ {
		bpi := Binomial(p, i)
		for j := 0; j <= i; j++ {
			v := bpi * Binomial(i, j)
			if (i-j)%2 == 1 {
				v = -v
			}
			M.Set(i, j, v)
		}
	}
	return M
}
