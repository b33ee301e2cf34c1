// Package boundary supplies exterior (ghost) states at domain boundary
// faces. The flux kernel treats boundary face points exactly like interior
// ones, the conditions here only decide what sits on the far side.
package boundary

import (
	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/eos"
)

// Condition fills the exterior trace qP at the face points of one boundary
// group. qM and qP are full face point arrays, one slice per conserved
// field, and conditions write only the indices listed in the group.
type Condition interface {
	GhostState(bg *dg.BoundaryGroup, gas eos.IdealSingleGas, t float64, qM, qP [4][]float64)
}

// StateProvider evaluates a flow state at one point, typically an analytic
// solution used to drive a boundary.
type StateProvider interface {
	StateAt(x, y, t float64, gas eos.IdealSingleGas) [4]float64
}

// Prescribed sets the exterior state from an analytic solution evaluated
// at the face point coordinates.
type Prescribed struct {
	Provider StateProvider
}

func (b Prescribed) GhostState(bg *dg.BoundaryGroup, gas eos.IdealSingleGas, t float64, qM, qP [4][]float64) {
	for i, find := range bg.MapB {
		q := b.Provider.StateAt(bg.X[i], bg.Y[i], t, gas)
		for n := 0; n < 4; n++ {
			qP[n][find] = q[n]
		}
	}
}

// Dummy copies the interior state to the exterior, a do-nothing boundary
// useful for testing and for outflow where the flow should leave freely.
type Dummy struct{}

func (b Dummy) GhostState(bg *dg.BoundaryGroup, gas eos.IdealSingleGas, t float64, qM, qP [4][]float64) {
	for _, find := range bg.MapB {
		for n := 0; n < 4; n++ {
			qP[n][find] = qM[n][find]
		}
	}
}

// AdiabaticSlipWall reflects the normal momentum component, so the
// average of interior and ghost momentum has zero normal flow. Density
// and energy pass through unchanged, keeping the wall adiabatic.
type AdiabaticSlipWall struct{}

func (b AdiabaticSlipWall) GhostState(bg *dg.BoundaryGroup, gas eos.IdealSingleGas, t float64, qM, qP [4][]float64) {
	for i, find := range bg.MapB {
		var (
			nx, ny     = bg.Nx[i], bg.Ny[i]
			rhoU, rhoV = qM[2][find], qM[3][find]
			mDotN      = rhoU*nx + rhoV*ny
		)
		qP[0][find] = qM[0][find]
		qP[1][find] = qM[1][find]
		qP[2][find] = rhoU - 2.*mDotN*nx
		qP[3][find] = rhoV - 2.*mDotN*ny
	}
}
