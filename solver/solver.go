// Package solver wires the discretization, physics operators, time
// advancement and run bookkeeping into a complete simulation.
package solver

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/cfdlabs/gofluid/InputParameters"
	"github.com/cfdlabs/gofluid/boundary"
	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/eos"
	"github.com/cfdlabs/gofluid/euler"
	"github.com/cfdlabs/gofluid/initializers"
	"github.com/cfdlabs/gofluid/integrators"
	"github.com/cfdlabs/gofluid/logmgr"
	"github.com/cfdlabs/gofluid/simutil"
	"github.com/cfdlabs/gofluid/steppers"
	"github.com/cfdlabs/gofluid/utils"
	"github.com/cfdlabs/gofluid/wave"
)

// Simulation holds one configured run.
type Simulation struct {
	IP  *InputParameters.Parameters
	Dsc *dg.Discretization
	Gas eos.IdealSingleGas

	EulerOp *euler.Operator
	WaveOp  *wave.Operator

	LM *logmgr.Manager
	PM *utils.PartitionMap // element partitioning for restart files

	Q    []utils.Matrix
	Time float64
	Step int

	// Exact is the analytic solution when the initializer provides one,
	// used for error reporting and prescribed boundaries.
	Exact initializers.Initializer

	// ktRHS profiles the operator evaluations of the run.
	ktRHS *logmgr.KernelTimer

	chart *chartState
}

func New(ip *InputParameters.Parameters) (sim *Simulation, err error) {
	msh := dg.NewBoxMesh(ip.Nx, ip.Ny, ip.Xmin, ip.Xmax, ip.Ymin, ip.Ymax)
	dsc := dg.NewDiscretization(ip.PolynomialOrder, msh)
	gas := eos.IdealSingleGas{Gamma: ip.Gamma, GasConst: ip.GasConst}

	sim = &Simulation{
		IP:  ip,
		Dsc: dsc,
		Gas: gas,
		LM:  logmgr.NewManager(os.Stdout),
		PM:  utils.NewPartitionMap(ip.NumParts, dsc.K),
	}
	switch ip.Equation {
	case "euler":
		if err = sim.setupEuler(); err != nil {
			return nil, err
		}
	case "wave":
		sim.WaveOp = wave.NewOperator(dsc, ip.WaveSpeed)
		sim.Q = wave.GaussianBump(dsc, [2]float64{ip.InitCenter[0], ip.InitCenter[1]},
			ip.InitWidth, ip.SourceOmega, 0)
	default:
		return nil, fmt.Errorf("unknown equation %q, want euler or wave", ip.Equation)
	}
	if sim.WaveOp != nil {
		flops, bytes := sim.WaveOp.Work()
		sim.ktRHS = sim.LM.NewKernelTimer("rhs", flops, bytes)
	} else {
		flops, bytes := sim.EulerOp.Work()
		sim.ktRHS = sim.LM.NewKernelTimer("rhs", flops, bytes)
	}
	if ip.RestartStep > 0 {
		if err = sim.restore(ip.RestartStep); err != nil {
			return nil, err
		}
	}
	return sim, nil
}

func (sim *Simulation) setupEuler() (err error) {
	var (
		ip  = sim.IP
		ini initializers.Initializer
	)
	switch ip.InitType {
	case "vortex":
		ini = initializers.Vortex{
			Beta:     ip.VortexBeta,
			Center:   ip.InitCenter,
			Velocity: ip.InitVelocity,
		}
		sim.Exact = ini
	case "lump":
		ini = initializers.Lump{
			Rho0: ip.Rho0, RhoAmp: ip.RhoAmp, P0: ip.P0,
			Center:   ip.InitCenter,
			Velocity: ip.InitVelocity,
		}
		sim.Exact = ini
	case "sod":
		ini = initializers.SodShock1D{XSplit: ip.XSplit}
	case "pulse":
		ini = initializers.AcousticPulse{
			Rho0: ip.Rho0, P0: ip.P0,
			Amplitude: ip.PulseAmplitude, Width: ip.InitWidth,
			Center: ip.InitCenter,
		}
	case "uniform":
		ini = initializers.Uniform{Rho: ip.Rho0, P: ip.P0, Velocity: ip.InitVelocity}
		sim.Exact = ini
	default:
		return fmt.Errorf("unknown initialization %q", ip.InitType)
	}

	bcs := make(map[string]boundary.Condition)
	for tag, kind := range ip.BCs {
		switch kind {
		case "prescribed":
			if sim.Exact == nil {
				return fmt.Errorf("boundary %q is prescribed but initialization %q has no analytic solution",
					tag, ip.InitType)
			}
			bcs[tag] = boundary.Prescribed{Provider: sim.Exact}
		case "slip":
			bcs[tag] = boundary.AdiabaticSlipWall{}
		case "dummy":
			bcs[tag] = boundary.Dummy{}
		default:
			return fmt.Errorf("unknown boundary condition %q for tag %q", kind, tag)
		}
	}
	sim.EulerOp = euler.NewOperator(sim.Dsc, sim.Gas, bcs, ip.NumParts)
	sim.Q = initializers.Project(ini, sim.Dsc, 0, sim.Gas)
	return nil
}

// rhs adapts the configured operator to the integrator signature, under
// the kernel timer.
func (sim *Simulation) rhs() integrators.RHSFunc {
	if sim.WaveOp != nil {
		return func(Q []utils.Matrix, t float64) []utils.Matrix {
			sim.ktRHS.Start()
			defer sim.ktRHS.Stop()
			return sim.WaveOp.RHS(Q)
		}
	}
	return func(Q []utils.Matrix, t float64) []utils.Matrix {
		sim.ktRHS.Start()
		defer sim.ktRHS.Stop()
		return sim.EulerOp.RHS(Q, t)
	}
}

func (sim *Simulation) maxWaveSpeed(Q []utils.Matrix) float64 {
	if sim.WaveOp != nil {
		return sim.WaveOp.C
	}
	return sim.EulerOp.MaxWaveSpeed(Q)
}

// Run advances the simulation to the configured final time, printing a
// status table and writing restart and visualization files on their
// intervals. A solution health failure aborts the run with an error.
func (sim *Simulation) Run() (err error) {
	var (
		ip      = sim.IP
		start   = time.Now()
		stepper = integrators.CompileStepper(sim.rhs())
	)
	sim.printInitialization()
	sim.LM.AddQuantity("dt", "min_rho", "min_p", "max_v", "rss_mb")
	if sim.Exact != nil && sim.WaveOp == nil {
		sim.LM.AddQuantity("err_rho")
	}

	finalStep, finalTime, finalQ, err := steppers.AdvanceState(sim.Q, sim.Time, sim.Step, steppers.Params{
		Stepper: stepper,
		TFinal:  ip.FinalTime,
		GetTimestep: func(Q []utils.Matrix, t float64, step int) float64 {
			if ip.MaxIterations > 0 && step-sim.Step >= ip.MaxIterations {
				return -1
			}
			return simutil.SimTimestep(sim.Dsc, t, ip.FinalTime, ip.DT, ip.CFL,
				sim.maxWaveSpeed(Q), ip.ConstantCFL)
		},
		Checkpoint: sim.checkpoint,
	})
	sim.Step, sim.Time, sim.Q = finalStep, finalTime, finalQ
	if err != nil {
		return fmt.Errorf("simulation exited abnormally: %w", err)
	}
	// Final state gets the same scrutiny as the per-step checkpoints
	if err = sim.checkHealth(sim.Q); err != nil {
		return fmt.Errorf("simulation exited abnormally: %w", err)
	}
	// A loop that stops short of the final time is a failed run, whether
	// the timestep policy gave up or the iteration cap cut it off
	if sim.Time < ip.FinalTime {
		return fmt.Errorf("simulation exited abnormally: stopped at t = %v of %v",
			sim.Time, ip.FinalTime)
	}
	sim.printFinal(time.Since(start))
	return nil
}

func (sim *Simulation) printInitialization() {
	ip := sim.IP
	ip.Print()
	fmt.Printf("mesh: %d elements (%d x %d cells), order %d, %d nodes/element\n",
		sim.Dsc.K, ip.Nx, ip.Ny, ip.PolynomialOrder, sim.Dsc.El.Np)
	fmt.Printf("solving until final time = %8.5f\n", ip.FinalTime)
}

func (sim *Simulation) printFinal(elapsed time.Duration) {
	steps := sim.Step
	if steps == 0 {
		steps = 1
	}
	rate := float64(elapsed.Microseconds()) / (float64(sim.Dsc.K) * float64(steps))
	fmt.Printf("\nrate of execution = %8.5f us/(element*step) over %d steps\n", rate, sim.Step)
}

// checkHealth fails on non-finite or non-physical solution values.
func (sim *Simulation) checkHealth(Q []utils.Matrix) error {
	for n := range Q {
		for _, val := range Q[n].DataP {
			if math.IsNaN(val) || math.IsInf(val, 0) {
				return fmt.Errorf("non-finite value in solution field %d", n)
			}
		}
	}
	if sim.WaveOp != nil {
		return nil
	}
	if minRho := simutil.NodalMin(Q[0]); minRho <= 0 {
		return fmt.Errorf("non-positive density %v", minRho)
	}
	if minP := simutil.NodalMin(sim.Gas.Pressure(Q)); minP <= 0 {
		return fmt.Errorf("non-positive pressure %v", minP)
	}
	return nil
}
