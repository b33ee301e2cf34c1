// Package initializers provides analytic flow states used to set initial
// conditions, drive prescribed boundaries, and measure solution error
// against known exact solutions.
package initializers

import (
	"math"

	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/eos"
	"github.com/cfdlabs/gofluid/utils"
)

// Initializer evaluates a conserved flow state [rho, rhoE, rhoU, rhoV] at
// a point and time. Time dependence makes these usable as exact solutions.
type Initializer interface {
	StateAt(x, y, t float64, gas eos.IdealSingleGas) [4]float64
}

// Project evaluates an initializer at every solution node, producing the
// conserved field array for a discretization.
func Project(ini Initializer, dsc *dg.Discretization, t float64, gas eos.IdealSingleGas) (Q []utils.Matrix) {
	var (
		Np, K = dsc.El.Np, dsc.K
	)
	Q = make([]utils.Matrix, 4)
	for n := range Q {
		Q[n] = utils.NewMatrix(Np, K)
	}
	for ind, x := range dsc.X.DataP {
		q := ini.StateAt(x, dsc.Y.DataP[ind], t, gas)
		for n := 0; n < 4; n++ {
			Q[n].DataP[ind] = q[n]
		}
	}
	return
}

// Uniform is a constant flow state everywhere.
type Uniform struct {
	Rho, P   float64
	Velocity [2]float64
}

func (ini Uniform) StateAt(x, y, t float64, gas eos.IdealSingleGas) (q [4]float64) {
	var (
		u, v = ini.Velocity[0], ini.Velocity[1]
	)
	q[0] = ini.Rho
	q[1] = gas.TotalEnergy(ini.Rho, u, v, ini.P)
	q[2] = ini.Rho * u
	q[3] = ini.Rho * v
	return
}

// Lump is a Gaussian density lump advected by a constant velocity field at
// uniform pressure. It is an exact solution of the Euler equations, the
// lump simply translates.
type Lump struct {
	Rho0, RhoAmp float64
	P0           float64
	Center       [2]float64
	Velocity     [2]float64
}

func (ini Lump) StateAt(x, y, t float64, gas eos.IdealSingleGas) (q [4]float64) {
	var (
		u, v   = ini.Velocity[0], ini.Velocity[1]
		xr     = x - ini.Center[0] - u*t
		yr     = y - ini.Center[1] - v*t
		r2     = xr*xr + yr*yr
		rho    = ini.Rho0 + ini.RhoAmp*math.Exp(1.-r2)
	)
	q[0] = rho
	q[1] = gas.TotalEnergy(rho, u, v, ini.P0)
	q[2] = rho * u
	q[3] = rho * v
	return
}

// Vortex is the isentropic Euler vortex of strength Beta advected by a
// constant background velocity. Pressure satisfies p = rho^gamma, making
// it a sharp accuracy benchmark.
type Vortex struct {
	Beta     float64
	Center   [2]float64
	Velocity [2]float64
}

func (ini Vortex) StateAt(x, y, t float64, gas eos.IdealSingleGas) (q [4]float64) {
	var (
		gamma   = gas.Gamma
		xr      = x - ini.Center[0] - ini.Velocity[0]*t
		yr      = y - ini.Center[1] - ini.Velocity[1]*t
		r2      = xr*xr + yr*yr
		expTerm = ini.Beta * math.Exp(1.-r2)
		u       = ini.Velocity[0] - expTerm*yr/(2.*math.Pi)
		v       = ini.Velocity[1] + expTerm*xr/(2.*math.Pi)
		rho     = math.Pow(1.-(gamma-1.)*expTerm*expTerm/(16.*gamma*math.Pi*math.Pi), 1./(gamma-1.))
		p       = math.Pow(rho, gamma)
	)
	q[0] = rho
	q[1] = gas.TotalEnergy(rho, u, v, p)
	q[2] = rho * u
	q[3] = rho * v
	return
}

// SodShock1D is the classic shock tube Riemann initial condition, varying
// in x only: (rho, p) = (1, 1) left of XSplit and (0.125, 0.1) right.
type SodShock1D struct {
	XSplit float64
}

func (ini SodShock1D) StateAt(x, y, t float64, gas eos.IdealSingleGas) (q [4]float64) {
	var (
		rho, p = 1.0, 1.0
	)
	if x >= ini.XSplit {
		rho, p = 0.125, 0.1
	}
	q[0] = rho
	q[1] = gas.TotalEnergy(rho, 0, 0, p)
	return
}

// AcousticPulse is a quiescent background with a Gaussian pressure bump,
// rho = Rho0, p = P0 + Amplitude exp(-r^2 / Width^2).
type AcousticPulse struct {
	Rho0, P0  float64
	Amplitude float64
	Width     float64
	Center    [2]float64
}

func (ini AcousticPulse) StateAt(x, y, t float64, gas eos.IdealSingleGas) (q [4]float64) {
	var (
		xr = x - ini.Center[0]
		yr = y - ini.Center[1]
		r2 = xr*xr + yr*yr
		p  = ini.P0 + ini.Amplitude*math.Exp(-r2/(ini.Width*ini.Width))
	)
	q[0] = ini.Rho0
	q[1] = gas.TotalEnergy(ini.Rho0, 0, 0, p)
	return
}
