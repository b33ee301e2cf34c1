package euler

import (
	"math"

	"github.com/cfdlabs/gofluid/eos"
)

// FluxCalcP computes the inviscid flux vectors at one node from the
// conserved state q = [rho, rhoE, rhoU, rhoV].
func FluxCalcP(gas eos.IdealSingleGas, q [4]float64) (Fx, Fy [4]float64) {
	var (
		rho, rhoE  = q[0], q[1]
		rhoU, rhoV = q[2], q[3]
		oorho      = 1. / rho
		u, v       = rhoU * oorho, rhoV * oorho
		p          = gas.PressureP(q)
	)
	Fx = [4]float64{
		rhoU,
		u * (rhoE + p),
		rhoU*u + p,
		rhoV * u,
	}
	Fy = [4]float64{
		rhoV,
		v * (rhoE + p),
		rhoU * v,
		rhoV*v + p,
	}
	return
}

// NormalFluxP projects the inviscid flux onto the face normal.
func NormalFluxP(gas eos.IdealSingleGas, q [4]float64, nx, ny float64) (fn [4]float64) {
	Fx, Fy := FluxCalcP(gas, q)
	for n := 0; n < 4; n++ {
		fn[n] = nx*Fx[n] + ny*Fy[n]
	}
	return
}

// WaveSpeedP is |v| + c, the largest characteristic speed at one node.
func WaveSpeedP(gas eos.IdealSingleGas, q [4]float64) (s float64) {
	var (
		oorho = 1. / q[0]
		u, v  = q[2] * oorho, q[3] * oorho
	)
	s = math.Sqrt(u*u+v*v) + gas.SoundSpeedP(q)
	return
}

// LaxFriedrichsFlux computes the numerical face flux from the interior
// state qM and exterior state qP,
//
//	F* = 1/2 ((F(qM)+F(qP)) . n + lambda (qM - qP))
//
// with lambda the largest wave speed of the two states.
func LaxFriedrichsFlux(gas eos.IdealSingleGas, qM, qP [4]float64, nx, ny float64) (fn [4]float64) {
	var (
		fnM    = NormalFluxP(gas, qM, nx, ny)
		fnP    = NormalFluxP(gas, qP, nx, ny)
		lambda = math.Max(WaveSpeedP(gas, qM), WaveSpeedP(gas, qP))
	)
	for n := 0; n < 4; n++ {
		fn[n] = 0.5 * (fnM[n] + fnP[n] + lambda*(qM[n]-qP[n]))
	}
	return
}
