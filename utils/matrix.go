package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Matrix wraps a gonum dense matrix with chainable operations and direct
// access to the backing slice. Field data is stored as (Np x K) with
// ind = k + i*K for node i of element k.
type Matrix struct {
	M     *mat.Dense
	DataP []float64
}

func NewMatrix(nr, nc int, dataO ...[]float64) (R Matrix) {
	var m *mat.Dense
	if len(dataO) != 0 {
		if len(dataO[0]) != nr*nc {
			err := fmt.Errorf("mismatch in allocation: NewMatrix nr,nc = %v,%v, len(data[0]) = %v",
				nr, nc, len(dataO[0]))
			panic(err)
		}
		m = mat.NewDense(nr, nc, dataO[0])
	} else {
		m = mat.NewDense(nr, nc, make([]float64, nr*nc))
	}
	R = Matrix{M: m, DataP: m.RawMatrix().Data}
	return
}

func (m Matrix) IsEmpty() bool       { return m.M == nil }
func (m Matrix) Dims() (r, c int)    { return m.M.Dims() }
func (m Matrix) At(i, j int) float64 { return m.M.At(i, j) }

func (m Matrix) Set(i, j int, val float64) Matrix {
	m.M.Set(i, j, val)
	return m
}

func (m Matrix) Copy() (R Matrix) {
	nr, nc := m.Dims()
	R = NewMatrix(nr, nc)
	copy(R.DataP, m.DataP)
	return
}

func (m Matrix) Transpose() (R Matrix) {
	nr, nc := m.Dims()
	R = NewMatrix(nc, nr)
	for i := 0; i < nr; i++ {
		for j := 0; j < nc; j++ {
			R.M.Set(j, i, m.M.At(i, j))
		}
	}
	return
}

func (m Matrix) Mul(A Matrix) (R Matrix) {
	nrM, _ := m.Dims()
	_, ncA := A.Dims()
	R = NewMatrix(nrM, ncA)
	R.M.Mul(m.M, A.M)
	return
}

// LUSolve solves m * X = B using LU decomposition.
func (m Matrix) LUSolve(B Matrix) (X Matrix) {
	var lu mat.LU
	lu.Factorize(m.M)
	nr, nc := B.Dims()
	X = NewMatrix(nr, nc)
	if err := lu.SolveTo(X.M, false, B.M); err != nil {
		panic(err)
	}
	return
}

func (m Matrix) Inverse() (R Matrix, err error) {
	nr, nc := m.Dims()
	R = NewMatrix(nr, nc)
	err = R.M.Inverse(m.M)
	return
}

// Chainable methods below change the receiver.

func (m Matrix) Scale(a float64) Matrix {
	for i := range m.DataP {
		m.DataP[i] *= a
	}
	return m
}

func (m Matrix) AddScalar(a float64) Matrix {
	for i := range m.DataP {
		m.DataP[i] += a
	}
	return m
}

func (m Matrix) Add(A Matrix) Matrix {
	for i, val := range A.DataP {
		m.DataP[i] += val
	}
	return m
}

func (m Matrix) Subtract(A Matrix) Matrix {
	for i, val := range A.DataP {
		m.DataP[i] -= val
	}
	return m
}

func (m Matrix) ElMul(A Matrix) Matrix {
	for i, val := range A.DataP {
		m.DataP[i] *= val
	}
	return m
}

func (m Matrix) ElDiv(A Matrix) Matrix {
	for i, val := range A.DataP {
		m.DataP[i] /= val
	}
	return m
}

func (m Matrix) POW(p int) Matrix {
	for i, val := range m.DataP {
		m.DataP[i] = POW(val, p)
	}
	return m
}

func (m Matrix) Apply(f func(float64) float64) Matrix {
	for i, val := range m.DataP {
		m.DataP[i] = f(val)
	}
	return m
}

func (m Matrix) Apply2(A Matrix, f func(float64, float64) float64) Matrix {
	for i, val := range m.DataP {
		m.DataP[i] = f(val, A.DataP[i])
	}
	return m
}

func (m Matrix) SetCol(j int, data []float64) Matrix {
	m.M.SetCol(j, data)
	return m
}

func (m Matrix) SetRow(i int, data []float64) Matrix {
	m.M.SetRow(i, data)
	return m
}

func (m Matrix) Row(i int) Vector {
	_, nc := m.Dims()
	vals := make([]float64, nc)
	for j := 0; j < nc; j++ {
		vals[j] = m.At(i, j)
	}
	return NewVector(nc, vals)
}

func (m Matrix) Col(j int) Vector {
	nr, _ := m.Dims()
	vals := make([]float64, nr)
	for i := 0; i < nr; i++ {
		vals[i] = m.At(i, j)
	}
	return NewVector(nr, vals)
}

func (m Matrix) Min() (min float64) {
	min = m.DataP[0]
	for _, val := range m.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (m Matrix) Max() (max float64) {
	max = m.DataP[0]
	for _, val := range m.DataP {
		if val > max {
			max = val
		}
	}
	return
}
