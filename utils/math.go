package utils

import "gonum.org/v1/gonum/mat"

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// NewSymTriDiagonal builds a symmetric matrix with main diagonal d0 and
// first super/sub diagonal d1.
func NewSymTriDiagonal(d0, d1 []float64) (Tri *mat.SymDense) {
	var (
		n  = len(d0)
		dd = make([]float64, n*n)
	)
	for i := 0; i < n; i++ {
		dd[i+i*n] = d0[i]
		if i != n-1 {
			dd[i+1+i*n] = d1[i]
		}
	}
	Tri = mat.NewSymDense(n, dd)
	return
}
