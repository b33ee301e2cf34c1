// Package steppers runs the outer time advancement loop, delegating the
// per-step work to an integrator and the bookkeeping to caller supplied
// hooks.
package steppers

import (
	"fmt"

	"github.com/cfdlabs/gofluid/integrators"
	"github.com/cfdlabs/gofluid/utils"
)

// Params configures AdvanceState. Stepper and TFinal are required,
// GetTimestep and Checkpoint are optional hooks.
type Params struct {
	Stepper integrators.Stepper

	// GetTimestep returns the step size for the coming step. A negative
	// value ends the run cleanly. When nil, the fixed DT is used.
	GetTimestep func(Q []utils.Matrix, t float64, step int) float64
	DT          float64

	// Checkpoint runs before each step with the current solution. An
	// error aborts the advancement.
	Checkpoint func(Q []utils.Matrix, step int, t, dt float64) error

	TFinal float64
}

// AdvanceState integrates from (t, step) until TFinal, returning the final
// step count, time and solution. The last step is truncated to land on
// TFinal exactly.
func AdvanceState(Q []utils.Matrix, t float64, step int, p Params) (int, float64, []utils.Matrix, error) {
	if p.Stepper == nil {
		return step, t, Q, fmt.Errorf("advance: no stepper configured")
	}
	if p.GetTimestep == nil && p.DT <= 0 {
		return step, t, Q, fmt.Errorf("advance: need either GetTimestep or a positive DT")
	}
	for t < p.TFinal {
		dt := p.DT
		if p.GetTimestep != nil {
			dt = p.GetTimestep(Q, t, step)
		}
		if dt < 0 {
			break
		}
		if t+dt > p.TFinal {
			dt = p.TFinal - t
		}
		if p.Checkpoint != nil {
			if err := p.Checkpoint(Q, step, t, dt); err != nil {
				return step, t, Q, err
			}
		}
		Q = p.Stepper(Q, t, dt)
		t += dt
		step++
	}
	return step, t, Q, nil
}
