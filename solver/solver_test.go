package solver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cfdlabs/gofluid/InputParameters"
	"github.com/cfdlabs/gofluid/initializers"
	"github.com/cfdlabs/gofluid/simutil"
)

func vortexParams(dir string) *InputParameters.Parameters {
	ip := InputParameters.NewParameters()
	ip.Title = "vortex test"
	ip.Equation = "euler"
	ip.InitType = "vortex"
	ip.VortexBeta = 5
	ip.InitCenter = [2]float64{5, 0}
	ip.InitVelocity = [2]float64{1, 0}
	ip.Xmin, ip.Xmax, ip.Ymin, ip.Ymax = 0, 10, -5, 5
	ip.Nx, ip.Ny = 8, 8
	ip.PolynomialOrder = 3
	ip.CFL = 0.3
	ip.ConstantCFL = true
	ip.FinalTime = 0.1
	ip.BCs = map[string]string{"all": "prescribed"}
	ip.LogInterval = 0
	ip.OutputDir = dir
	ip.CaseName = "vortex"
	return ip
}

func TestSimulation(t *testing.T) {
	{ // Test the vortex run tracks the analytic solution
		sim, err := New(vortexParams(t.TempDir()))
		assert.NoError(t, err)
		assert.NoError(t, sim.Run())
		assert.True(t, sim.Time >= 0.1-1.e-12)

		Qex := initializers.Project(sim.Exact, sim.Dsc, sim.Time, sim.Gas)
		diff := sim.Q[0].Copy().Subtract(Qex[0])
		errL2 := simutil.NormL2(sim.Dsc, diff)
		ref := simutil.NormL2(sim.Dsc, Qex[0])
		assert.True(t, errL2/ref < 0.05)
	}
	{ // Test uniform flow stays uniform through the full driver
		ip := vortexParams(t.TempDir())
		ip.InitType = "uniform"
		ip.Rho0, ip.P0 = 1, 1
		ip.InitVelocity = [2]float64{1, 0.5}
		ip.BCs = map[string]string{"all": "dummy"}
		sim, err := New(ip)
		assert.NoError(t, err)
		assert.NoError(t, sim.Run())
		for _, val := range sim.Q[0].DataP {
			assert.True(t, math.Abs(val-1) < 1.e-08)
		}
	}
	{ // Test a run cut off before the final time reports failure
		ip := vortexParams(t.TempDir())
		ip.FinalTime = 1
		ip.MaxIterations = 2
		sim, err := New(ip)
		assert.NoError(t, err)
		err = sim.Run()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "simulation exited abnormally")
		assert.True(t, sim.Time < ip.FinalTime)
	}
	{ // Test checkpoint snapshots restart an interrupted run
		dir := t.TempDir()
		ip := vortexParams(dir)
		ip.FinalTime = 10 // far away, MaxIterations cuts the run
		ip.MaxIterations = 4
		ip.RestartInterval = 2
		sim, err := New(ip)
		assert.NoError(t, err)
		// the cut-off run itself counts as abnormal
		assert.Error(t, sim.Run())
		assert.Equal(t, 4, sim.Step)

		// snapshots exist for steps 0 and 2; resume from 2
		ip2 := vortexParams(dir)
		ip2.FinalTime = 10
		ip2.RestartStep = 2
		sim2, err := New(ip2)
		assert.NoError(t, err)
		assert.Equal(t, 2, sim2.Step)
		assert.True(t, sim2.Time > 0)
	}
	{ // Test restart with a different partition count is refused
		dir := t.TempDir()
		ip := vortexParams(dir)
		ip.FinalTime = 10
		ip.MaxIterations = 2
		ip.RestartInterval = 1
		ip.NumParts = 2
		sim, err := New(ip)
		assert.NoError(t, err)
		assert.Error(t, sim.Run()) // MaxIterations cut-off

		ip2 := vortexParams(dir)
		ip2.RestartStep = 1
		ip2.NumParts = 4
		_, err = New(ip2)
		assert.Error(t, err)
	}
	{ // Test restart onto a different domain is refused
		dir := t.TempDir()
		ip := vortexParams(dir)
		ip.FinalTime = 10
		ip.MaxIterations = 2
		ip.RestartInterval = 1
		sim, err := New(ip)
		assert.NoError(t, err)
		assert.Error(t, sim.Run()) // MaxIterations cut-off

		// same element count and order, different box
		ip2 := vortexParams(dir)
		ip2.Xmin, ip2.Xmax, ip2.Ymin, ip2.Ymax = 0, 1, 0, 1
		ip2.RestartStep = 1
		_, err = New(ip2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "mesh")
	}
	{ // Test visualization output lands in the output directory
		dir := t.TempDir()
		ip := vortexParams(dir)
		ip.FinalTime = 10
		ip.MaxIterations = 1
		ip.VizInterval = 1
		sim, err := New(ip)
		assert.NoError(t, err)
		assert.Error(t, sim.Run()) // MaxIterations cut-off
		_, err = simutil.ReadSnapshot(dir, "vortex", 0, 0, 1)
		assert.Error(t, err) // no restart files requested
	}
	{ // Test the wave equation path end to end
		ip := vortexParams(t.TempDir())
		ip.Equation = "wave"
		ip.WaveSpeed = 1
		ip.InitCenter = [2]float64{5, 0}
		ip.InitWidth = 1
		ip.FinalTime = 0.05
		sim, err := New(ip)
		assert.NoError(t, err)
		assert.NotNil(t, sim.WaveOp)
		assert.NoError(t, sim.Run())
		assert.Equal(t, 3, len(sim.Q))
	}
	{ // Test a corrupted state fails the health check
		sim, err := New(vortexParams(t.TempDir()))
		assert.NoError(t, err)
		sim.Q[0].DataP[0] = -1 // negative density
		err = sim.Run()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "simulation exited abnormally")
	}
	{ // Test configuration errors surface from New
		ip := vortexParams(t.TempDir())
		ip.Equation = "magnetohydro"
		_, err := New(ip)
		assert.Error(t, err)

		ip = vortexParams(t.TempDir())
		ip.InitType = "unknown"
		_, err = New(ip)
		assert.Error(t, err)

		ip = vortexParams(t.TempDir())
		ip.InitType = "sod" // no analytic solution
		ip.BCs = map[string]string{"all": "prescribed"}
		_, err = New(ip)
		assert.Error(t, err)
	}
}
