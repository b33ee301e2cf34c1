// Package simutil carries the supporting pieces of a simulation driver:
// timestep selection, step scheduling, restart snapshots, solution norms
// and visualization output.
package simutil

import (
	"math"

	"github.com/cfdlabs/gofluid/dg"
)

// CharacteristicLength is the smallest element length scale of the mesh,
// twice the minimum inradius estimate J/sJ over the face points.
func CharacteristicLength(dsc *dg.Discretization) (h float64) {
	var (
		K, Nfp = dsc.K, dsc.El.Nfp
	)
	h = math.MaxFloat64
	for k := 0; k < K; k++ {
		for fp := 0; fp < 3*Nfp; fp++ {
			find := k + fp*K
			vind := dsc.VmapM[find]
			if r := dsc.J.DataP[vind] / dsc.SJ.DataP[find]; r < h {
				h = r
			}
		}
	}
	h *= 2
	return
}

// StableDtGuess estimates the largest stable explicit timestep for an
// order N discretization with the given maximum wave speed.
func StableDtGuess(dsc *dg.Discretization, cfl, maxWaveSpeed float64) (dt float64) {
	var (
		N = dsc.El.N
	)
	dt = cfl * CharacteristicLength(dsc) / (float64(N*N) * maxWaveSpeed)
	return
}

// SimTimestep returns the step size for the coming step: the configured
// dt, or a CFL-limited one when constantCFL is set, truncated so the run
// lands on tFinal.
func SimTimestep(dsc *dg.Discretization, t, tFinal, dt, cfl, maxWaveSpeed float64,
	constantCFL bool) float64 {
	if constantCFL {
		dt = StableDtGuess(dsc, cfl, maxWaveSpeed)
	}
	if t+dt > tFinal {
		dt = tFinal - t
	}
	return dt
}

// CheckStep reports whether an interval-gated action fires on this step.
// Interval 0 disables the action.
func CheckStep(step, interval int) bool {
	if interval <= 0 {
		return false
	}
	return step%interval == 0
}
