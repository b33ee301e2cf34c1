// Package integrators provides explicit time integration over solution
// field arrays.
package integrators

import (
	"github.com/cfdlabs/gofluid/utils"
)

// RHSFunc evaluates the semi-discrete right hand side at time t.
type RHSFunc func(Q []utils.Matrix, t float64) []utils.Matrix

// Stepper advances a solution one step of size dt.
type Stepper func(Q []utils.Matrix, t, dt float64) []utils.Matrix

// RK4Step advances one step of the classical fourth order Runge-Kutta
// scheme. The input fields are not modified.
func RK4Step(Q []utils.Matrix, t, dt float64, rhs RHSFunc) (Qnew []utils.Matrix) {
	var (
		k1 = rhs(Q, t)
		k2 = rhs(axpy(Q, 0.5*dt, k1), t+0.5*dt)
		k3 = rhs(axpy(Q, 0.5*dt, k2), t+0.5*dt)
		k4 = rhs(axpy(Q, dt, k3), t+dt)
	)
	Qnew = make([]utils.Matrix, len(Q))
	for n := range Q {
		Qnew[n] = Q[n].Copy()
		for ind := range Qnew[n].DataP {
			Qnew[n].DataP[ind] += dt / 6. * (k1[n].DataP[ind] +
				2.*k2[n].DataP[ind] + 2.*k3[n].DataP[ind] + k4[n].DataP[ind])
		}
	}
	return
}

// CompileStepper binds an RHS into a reusable RK4 stepper. The stage
// combination buffers are allocated once on first use and recycled on
// every following step, so the per-step cost is the four RHS calls.
func CompileStepper(rhs RHSFunc) Stepper {
	var qs, qnew []utils.Matrix
	ensure := func(Q []utils.Matrix) {
		if qs != nil {
			return
		}
		qs = make([]utils.Matrix, len(Q))
		qnew = make([]utils.Matrix, len(Q))
		nr, nc := Q[0].Dims()
		for n := range Q {
			qs[n] = utils.NewMatrix(nr, nc)
			qnew[n] = utils.NewMatrix(nr, nc)
		}
	}
	stage := func(Q []utils.Matrix, a float64, k []utils.Matrix) []utils.Matrix {
		for n := range Q {
			for ind := range qs[n].DataP {
				qs[n].DataP[ind] = Q[n].DataP[ind] + a*k[n].DataP[ind]
			}
		}
		return qs
	}
	return func(Q []utils.Matrix, t, dt float64) []utils.Matrix {
		ensure(Q)
		k1 := rhs(Q, t)
		k2 := rhs(stage(Q, 0.5*dt, k1), t+0.5*dt)
		k3 := rhs(stage(Q, 0.5*dt, k2), t+0.5*dt)
		k4 := rhs(stage(Q, dt, k3), t+dt)
		for n := range Q {
			for ind := range qnew[n].DataP {
				qnew[n].DataP[ind] = Q[n].DataP[ind] + dt/6.*(k1[n].DataP[ind]+
					2.*k2[n].DataP[ind]+2.*k3[n].DataP[ind]+k4[n].DataP[ind])
			}
		}
		out := make([]utils.Matrix, len(Q))
		for n := range Q {
			out[n] = qnew[n].Copy()
		}
		return out
	}
}

func axpy(Q []utils.Matrix, a float64, K []utils.Matrix) (R []utils.Matrix) {
	R = make([]utils.Matrix, len(Q))
	for n := range Q {
		R[n] = Q[n].Copy()
		for ind := range R[n].DataP {
			R[n].DataP[ind] += a * K[n].DataP[ind]
		}
	}
	return
}
