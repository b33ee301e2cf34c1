package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrix(t *testing.T) {
	{ // Test basic arithmetic and the flat storage layout
		A := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		nr, nc := A.Dims()
		assert.Equal(t, 2, nr)
		assert.Equal(t, 3, nc)
		// ind = k + i*K
		assert.True(t, near(A.DataP[1+1*3], 5))
		assert.True(t, near(A.At(1, 2), 6))

		B := A.Copy().Scale(2)
		assert.True(t, nearVec([]float64{2, 4, 6, 8, 10, 12}, B.DataP, 1.e-10))
		// Copy detached from the original
		assert.True(t, near(A.At(0, 0), 1))

		C := A.Copy().Add(A)
		assert.True(t, nearVec(B.DataP, C.DataP, 1.e-10))
		C.Subtract(A)
		assert.True(t, nearVec(A.DataP, C.DataP, 1.e-10))

		D := A.Copy().ElMul(A)
		assert.True(t, nearVec([]float64{1, 4, 9, 16, 25, 36}, D.DataP, 1.e-10))
		D.ElDiv(A)
		assert.True(t, nearVec(A.DataP, D.DataP, 1.e-10))

		E := A.Copy().POW(2)
		assert.True(t, nearVec([]float64{1, 4, 9, 16, 25, 36}, E.DataP, 1.e-10))

		assert.True(t, near(A.Min(), 1))
		assert.True(t, near(A.Max(), 6))
	}
	{ // Test matrix multiply and transpose
		A := NewMatrix(2, 2, []float64{
			1, 2,
			3, 4,
		})
		B := NewMatrix(2, 2, []float64{
			5, 6,
			7, 8,
		})
		C := A.Mul(B)
		assert.True(t, nearVec([]float64{19, 22, 43, 50}, C.DataP, 1.e-10))
		AT := A.Transpose()
		assert.True(t, nearVec([]float64{1, 3, 2, 4}, AT.DataP, 1.e-10))
	}
	{ // Test inverse and LU solve against a known system
		A := NewMatrix(2, 2, []float64{
			4, 7,
			2, 6,
		})
		Ainv, err := A.Inverse()
		assert.NoError(t, err)
		I := A.Mul(Ainv)
		assert.True(t, nearVec([]float64{1, 0, 0, 1}, I.DataP, 1.e-10))

		B := NewMatrix(2, 1, []float64{1, 1})
		X := A.LUSolve(B)
		// 4x + 7y = 1, 2x + 6y = 1
		assert.True(t, near(X.At(0, 0), -0.1))
		assert.True(t, near(X.At(1, 0), 0.2))
	}
	{ // Test row/column access and Apply
		A := NewMatrix(2, 3, []float64{
			1, 2, 3,
			4, 5, 6,
		})
		assert.True(t, nearVec([]float64{4, 5, 6}, A.Row(1).DataP, 1.e-10))
		assert.True(t, nearVec([]float64{2, 5}, A.Col(1).DataP, 1.e-10))
		A.Apply(func(v float64) float64 { return -v })
		assert.True(t, near(A.At(1, 2), -6))
	}
}

func TestVector(t *testing.T) {
	{ // Test construction and element ops
		v := NewVector(3, []float64{1, 2, 3})
		assert.Equal(t, 3, v.Len())
		assert.True(t, near(v.AtVec(2), 3))

		w := v.Copy().Scale(3)
		assert.True(t, nearVec([]float64{3, 6, 9}, w.DataP, 1.e-10))
		assert.True(t, near(v.AtVec(0), 1))

		w = v.Copy().Add(v)
		assert.True(t, nearVec([]float64{2, 4, 6}, w.DataP, 1.e-10))
		w.Subtract(v)
		assert.True(t, nearVec(v.DataP, w.DataP, 1.e-10))

		u := v.Copy().ElMul(v)
		assert.True(t, nearVec([]float64{1, 4, 9}, u.DataP, 1.e-10))
		u.ElDiv(v)
		assert.True(t, nearVec(v.DataP, u.DataP, 1.e-10))

		assert.True(t, near(v.Min(), 1))
		assert.True(t, near(v.Max(), 3))
	}
	{ // Test Linspace endpoints and spacing
		v := NewVector(5).Linspace(-1, 1)
		assert.True(t, nearVec([]float64{-1, -0.5, 0, 0.5, 1}, v.DataP, 1.e-10))
	}
	{ // Test conversion to a column matrix shares storage
		v := NewVector(3, []float64{1, 2, 3})
		m := v.ToMatrix()
		nr, nc := m.Dims()
		assert.Equal(t, 3, nr)
		assert.Equal(t, 1, nc)
		m.DataP[0] = 42
		assert.True(t, near(v.AtVec(0), 42))
	}
	{ // Test POW helper used in the basis kernels
		assert.True(t, near(POW(2, 10), 1024))
		assert.True(t, near(POW(-1.5, 2), 2.25))
		assert.True(t, near(POW(3, 0), 1))
	}
}

func TestPartitionMap(t *testing.T) {
	{ // Test even split
		pm := NewPartitionMap(4, 100)
		total := 0
		for n := 0; n < 4; n++ {
			total += pm.GetBucketDimension(n)
		}
		assert.Equal(t, 100, total)
		kmin, kmax := pm.GetBucketRange(0)
		assert.Equal(t, 0, kmin)
		assert.Equal(t, 25, kmax)
	}
	{ // Test remainder distribution keeps buckets within one of each other
		pm := NewPartitionMap(3, 10)
		total, minDim, maxDim := 0, math.MaxInt64, 0
		for n := 0; n < 3; n++ {
			d := pm.GetBucketDimension(n)
			total += d
			if d < minDim {
				minDim = d
			}
			if d > maxDim {
				maxDim = d
			}
		}
		assert.Equal(t, 10, total)
		assert.True(t, maxDim-minDim <= 1)
	}
	{ // Test buckets tile the index range contiguously
		pm := NewPartitionMap(4, 10)
		next := 0
		for n := 0; n < 4; n++ {
			kmin, kmax := pm.GetBucketRange(n)
			assert.Equal(t, next, kmin)
			assert.Equal(t, kmax-kmin, pm.GetBucketDimension(n))
			next = kmax
		}
		assert.Equal(t, 10, next)
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
