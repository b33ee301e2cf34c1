package initializers

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/eos"
)

func TestInitializers(t *testing.T) {
	gas := eos.NewIdealSingleGas()
	{ // Test uniform state is uniform and consistent with the EOS
		ini := Uniform{Rho: 2, P: 5, Velocity: [2]float64{1, -1}}
		q := ini.StateAt(3, -7, 12, gas)
		assert.True(t, near(q[0], 2))
		assert.True(t, near(q[2], 2))
		assert.True(t, near(q[3], -2))
		assert.True(t, near(gas.PressureP(q), 5))
	}
	{ // Test the vortex satisfies the isentropic relation p = rho^gamma
		ini := Vortex{Beta: 5, Center: [2]float64{0, 0}, Velocity: [2]float64{1, 0}}
		pts := [][2]float64{{0, 0}, {0.5, 0.5}, {-1, 0.3}, {2, -2}}
		for _, pt := range pts {
			q := ini.StateAt(pt[0], pt[1], 0, gas)
			p := gas.PressureP(q)
			assert.True(t, near(p, math.Pow(q[0], gas.Gamma), 1.e-15))
		}
	}
	{ // Test the vortex center state and its translation
		ini := Vortex{Beta: 5, Center: [2]float64{0, 0}, Velocity: [2]float64{1, 0}}
		q0 := ini.StateAt(0, 0, 0, gas)
		// at the center the swirl vanishes, velocity is the background
		assert.True(t, near(q0[2]/q0[0], 1))
		assert.True(t, near(q0[3]/q0[0], 0, 1.e-12))
		// the whole field translates with the background velocity
		q1 := ini.StateAt(1, 0, 1, gas)
		for n := 0; n < 4; n++ {
			assert.True(t, near(q0[n], q1[n], 1.e-12))
		}
		// density dips below ambient inside the core
		assert.True(t, q0[0] < 1)
	}
	{ // Test the lump translates at uniform pressure
		ini := Lump{Rho0: 1, RhoAmp: 1, P0: 1,
			Center: [2]float64{0, 0}, Velocity: [2]float64{1, 1}}
		q0 := ini.StateAt(0, 0, 0, gas)
		assert.True(t, near(q0[0], 1+math.E))
		assert.True(t, near(gas.PressureP(q0), 1))
		q1 := ini.StateAt(2, 2, 2, gas)
		for n := 0; n < 4; n++ {
			assert.True(t, near(q0[n], q1[n], 1.e-12))
		}
		// far from the lump pressure stays P0
		qFar := ini.StateAt(100, 100, 0, gas)
		assert.True(t, near(gas.PressureP(qFar), 1))
		assert.True(t, near(qFar[0], 1, 1.e-10))
	}
	{ // Test the Sod states either side of the diaphragm
		ini := SodShock1D{XSplit: 0.5}
		qL := ini.StateAt(0.25, 0, 0, gas)
		qR := ini.StateAt(0.75, 0, 0, gas)
		assert.True(t, near(qL[0], 1))
		assert.True(t, near(gas.PressureP(qL), 1))
		assert.True(t, near(qR[0], 0.125))
		assert.True(t, near(gas.PressureP(qR), 0.1))
		// the split point itself belongs to the right state
		qS := ini.StateAt(0.5, 0, 0, gas)
		assert.True(t, near(qS[0], 0.125))
		// momenta vanish
		assert.True(t, near(qL[2], 0, 1.e-15))
		assert.True(t, near(qR[3], 0, 1.e-15))
	}
	{ // Test the acoustic pulse peaks at the center and decays
		ini := AcousticPulse{Rho0: 1, P0: 1, Amplitude: 0.1, Width: 0.1,
			Center: [2]float64{0.5, 0}}
		qC := ini.StateAt(0.5, 0, 0, gas)
		assert.True(t, near(gas.PressureP(qC), 1.1))
		qOff := ini.StateAt(0.6, 0, 0, gas)
		assert.True(t, near(gas.PressureP(qOff), 1+0.1*math.Exp(-1)))
		assert.True(t, near(qC[0], 1))
	}
	{ // Test projection fills every node of a discretization
		dsc := dg.NewDiscretization(2, dg.NewBoxMesh(2, 2, 0, 1, 0, 1))
		ini := Uniform{Rho: 1.5, P: 2, Velocity: [2]float64{0.5, 0}}
		Q := Project(ini, dsc, 0, gas)
		assert.Equal(t, 4, len(Q))
		nr, nc := Q[0].Dims()
		assert.Equal(t, dsc.El.Np, nr)
		assert.Equal(t, dsc.K, nc)
		for ind := range Q[0].DataP {
			assert.True(t, near(Q[0].DataP[ind], 1.5))
			assert.True(t, near(Q[2].DataP[ind], 0.75))
		}
	}
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
