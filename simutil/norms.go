package simutil

import (
	"math"

	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/utils"
)

// NodalMin returns the smallest nodal value of a field.
func NodalMin(f utils.Matrix) float64 { return f.Min() }

// NodalMax returns the largest nodal value of a field.
func NodalMax(f utils.Matrix) float64 { return f.Max() }

// NormInf is the largest absolute nodal value of a field.
func NormInf(f utils.Matrix) (norm float64) {
	for _, val := range f.DataP {
		if a := math.Abs(val); a > norm {
			norm = a
		}
	}
	return
}

// NormL2 computes the continuous L2 norm of a field using the reference
// element mass matrix. The affine map Jacobian is constant per element, so
// the elemental integral is J_k * f_k^T M f_k, exactly.
func NormL2(dsc *dg.Discretization, f utils.Matrix) (norm float64) {
	var (
		el    = dsc.El
		Np, K = el.Np, dsc.K
		Mf    = el.MassMatrix.Mul(f)
	)
	for k := 0; k < K; k++ {
		var elemental float64
		for i := 0; i < Np; i++ {
			ind := k + i*K
			elemental += f.DataP[ind] * Mf.DataP[ind]
		}
		norm += dsc.J.DataP[k] * elemental
	}
	norm = math.Sqrt(norm)
	return
}

// FieldDelta is the infinity norm of the difference of two fields, used
// for residual reporting between checkpoints.
func FieldDelta(a, b utils.Matrix) (norm float64) {
	for ind, val := range a.DataP {
		if d := math.Abs(val - b.DataP[ind]); d > norm {
			norm = d
		}
	}
	return
}
