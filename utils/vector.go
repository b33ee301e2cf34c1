package utils

import (
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{V: v, DataP: v.RawVector().Data}
	return
}

func NewVectorConstant(n int, val float64) (R Vector) {
	data := make([]float64, n)
	for i := range data {
		data[i] = val
	}
	R = NewVector(n, data)
	return
}

func (v Vector) Len() int             { return v.V.Len() }
func (v Vector) AtVec(i int) float64  { return v.V.AtVec(i) }
func (v Vector) SetVec(i int, val float64) Vector {
	v.V.SetVec(i, val)
	return v
}

func (v Vector) Copy() (R Vector) {
	R = NewVector(v.Len())
	copy(R.DataP, v.DataP)
	return
}

// Set fills the vector with a constant.
func (v Vector) Set(val float64) Vector {
	for i := range v.DataP {
		v.DataP[i] = val
	}
	return v
}

// Linspace fills the vector with evenly spaced values spanning [xmin, xmax].
func (v Vector) Linspace(xmin, xmax float64) Vector {
	var (
		n  = v.Len()
		dx = (xmax - xmin) / float64(n-1)
	)
	for i := range v.DataP {
		v.DataP[i] = xmin + float64(i)*dx
	}
	return v
}

func (v Vector) Add(A Vector) Vector {
	for i, val := range A.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(A Vector) Vector {
	for i, val := range A.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) ElMul(A Vector) Vector {
	for i, val := range A.DataP {
		v.DataP[i] *= val
	}
	return v
}

func (v Vector) ElDiv(A Vector) Vector {
	for i, val := range A.DataP {
		v.DataP[i] /= val
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

// ToMatrix returns a single column matrix backed by the vector's data.
func (v Vector) ToMatrix() Matrix {
	return NewMatrix(v.Len(), 1, v.DataP)
}

func (v Vector) Scale(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

// POW is an integer power, cheaper than math.Pow for the small exponents
// used in the flux and basis kernels.
func POW(x float64, p int) (r float64) {
	switch {
	case p == 0:
		r = 1
	case p < 0:
		r = 1. / POW(x, -p)
	default:
		r = x
		for i := 1; i < p; i++ {
			r *= x
		}
	}
	return
}
