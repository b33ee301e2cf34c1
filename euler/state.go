// Package euler implements the compressible Euler equations in conservation
// form on a nodal DG discretization,
//
//	dQ/dt = - div F(Q)
//
// with Q = [rho, rhoE, rhoU, rhoV] and F the inviscid flux.
package euler

import (
	"fmt"

	"github.com/cfdlabs/gofluid/utils"
)

// ConservedVars is a by-name view over the conserved solution fields. The
// matrices share storage with the flat Q array they were split from.
type ConservedVars struct {
	Mass     utils.Matrix
	Energy   utils.Matrix
	Momentum []utils.Matrix
}

// SplitConserved wraps the flat solution array [rho, rhoE, rhoU, rhoV...]
// into its named components for a dim dimensional flow.
func SplitConserved(dim int, Q []utils.Matrix) (cv ConservedVars) {
	if len(Q) != dim+2 {
		panic(fmt.Errorf("conserved state has %d fields, need %d for dim %d", len(Q), dim+2, dim))
	}
	cv = ConservedVars{
		Mass:     Q[0],
		Energy:   Q[1],
		Momentum: Q[2:],
	}
	return
}

// JoinConserved flattens named components back into the solution array.
func JoinConserved(cv ConservedVars) (Q []utils.Matrix) {
	Q = make([]utils.Matrix, 0, 2+len(cv.Momentum))
	Q = append(Q, cv.Mass, cv.Energy)
	Q = append(Q, cv.Momentum...)
	return
}

// Dim returns the spatial dimension of the state.
func (cv ConservedVars) Dim() int { return len(cv.Momentum) }

// Velocity computes the velocity fields m/rho.
func (cv ConservedVars) Velocity() (vel []utils.Matrix) {
	vel = make([]utils.Matrix, cv.Dim())
	for d := range vel {
		vel[d] = cv.Momentum[d].Copy().ElDiv(cv.Mass)
	}
	return
}
