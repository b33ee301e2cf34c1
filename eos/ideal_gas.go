// Package eos provides the gas equation of state closing the Euler system:
// pressure, temperature and sound speed as functions of the conserved
// variables [rho, rhoE, rhoU, rhoV].
package eos

import (
	"math"

	"github.com/cfdlabs/gofluid/utils"
)

// IdealSingleGas is a single-species calorically perfect ideal gas,
// p = rho R T = (gamma-1) (rhoE - rho |v|^2 / 2).
type IdealSingleGas struct {
	Gamma    float64
	GasConst float64
}

func NewIdealSingleGas() IdealSingleGas {
	return IdealSingleGas{
		Gamma:    1.4,
		GasConst: 287.1,
	}
}

// PressureP computes pressure from one conserved state.
func (g IdealSingleGas) PressureP(q [4]float64) (p float64) {
	var (
		rho, rhoE    = q[0], q[1]
		rhoU, rhoV   = q[2], q[3]
		kineticDense = 0.5 * (rhoU*rhoU + rhoV*rhoV) / rho
	)
	p = (g.Gamma - 1.) * (rhoE - kineticDense)
	return
}

// SoundSpeedP computes the speed of sound from one conserved state.
func (g IdealSingleGas) SoundSpeedP(q [4]float64) (c float64) {
	c = math.Sqrt(g.Gamma * g.PressureP(q) / q[0])
	return
}

// TemperatureP computes temperature from one conserved state.
func (g IdealSingleGas) TemperatureP(q [4]float64) (temp float64) {
	temp = g.PressureP(q) / (q[0] * g.GasConst)
	return
}

// InternalEnergyP is the internal energy density rhoE - rho |v|^2 / 2.
func (g IdealSingleGas) InternalEnergyP(q [4]float64) float64 {
	return q[1] - 0.5*(q[2]*q[2]+q[3]*q[3])/q[0]
}

// TotalEnergy assembles the conserved energy density from pressure and
// velocity: rhoE = p/(gamma-1) + rho |v|^2 / 2.
func (g IdealSingleGas) TotalEnergy(rho, u, v, p float64) (rhoE float64) {
	rhoE = p/(g.Gamma-1.) + 0.5*rho*(u*u+v*v)
	return
}

// DependentVars holds the derived fields for a full solution array.
type DependentVars struct {
	Temperature utils.Matrix
	Pressure    utils.Matrix
	SoundSpeed  utils.Matrix
}

// Pressure computes the pressure field for conserved fields Q ordered
// [rho, rhoE, rhoU, rhoV].
func (g IdealSingleGas) Pressure(Q []utils.Matrix) (p utils.Matrix) {
	var (
		nr, nc = Q[0].Dims()
	)
	p = utils.NewMatrix(nr, nc)
	for ind := range p.DataP {
		p.DataP[ind] = g.PressureP(stateAt(Q, ind))
	}
	return
}

// SoundSpeed computes the sound speed field.
func (g IdealSingleGas) SoundSpeed(Q []utils.Matrix) (c utils.Matrix) {
	var (
		nr, nc = Q[0].Dims()
	)
	c = utils.NewMatrix(nr, nc)
	for ind := range c.DataP {
		c.DataP[ind] = g.SoundSpeedP(stateAt(Q, ind))
	}
	return
}

// Temperature computes the temperature field.
func (g IdealSingleGas) Temperature(Q []utils.Matrix) (temp utils.Matrix) {
	var (
		nr, nc = Q[0].Dims()
	)
	temp = utils.NewMatrix(nr, nc)
	for ind := range temp.DataP {
		temp.DataP[ind] = g.TemperatureP(stateAt(Q, ind))
	}
	return
}

// GetDependentVars computes temperature, pressure and sound speed in one
// pass over the solution.
func (g IdealSingleGas) GetDependentVars(Q []utils.Matrix) (dv DependentVars) {
	var (
		nr, nc = Q[0].Dims()
	)
	dv = DependentVars{
		Temperature: utils.NewMatrix(nr, nc),
		Pressure:    utils.NewMatrix(nr, nc),
		SoundSpeed:  utils.NewMatrix(nr, nc),
	}
	for ind := range dv.Pressure.DataP {
		q := stateAt(Q, ind)
		p := g.PressureP(q)
		dv.Pressure.DataP[ind] = p
		dv.Temperature.DataP[ind] = p / (q[0] * g.GasConst)
		dv.SoundSpeed.DataP[ind] = math.Sqrt(g.Gamma * p / q[0])
	}
	return
}

func stateAt(Q []utils.Matrix, ind int) (q [4]float64) {
	q[0] = Q[0].DataP[ind]
	q[1] = Q[1].DataP[ind]
	q[2] = Q[2].DataP[ind]
	q[3] = Q[3].DataP[ind]
	return
}
