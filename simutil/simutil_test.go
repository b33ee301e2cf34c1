package simutil

import (
	"math"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/utils"
)

func TestSnapshots(t *testing.T) {
	dir := t.TempDir()
	{ // Test write / read round trip preserves the record
		Q := []utils.Matrix{
			utils.NewMatrix(2, 3, []float64{1, 2, 3, 4, 5, 6}),
			utils.NewMatrix(2, 3, []float64{-1, -2, -3, -4, -5, -6}),
		}
		mesh := MeshRecord{Nx: 3, Ny: 1, Xmin: 0, Xmax: 3, Ymin: 0, Ymax: 1}
		snap := Snapshot{
			Step: 100, Time: 0.25, Order: 3, Mesh: mesh,
			GlobalNelements: 3, NumParts: 1, PartID: 0,
			Fields: PackFields(Q),
		}
		path, err := WriteSnapshot(dir, "vortex", snap)
		assert.NoError(t, err)
		assert.Contains(t, path, "vortex-0100-0000.gob")

		got, err := ReadSnapshot(dir, "vortex", 100, 0, 1)
		assert.NoError(t, err)
		assert.Equal(t, snap.Step, got.Step)
		assert.Equal(t, mesh, got.Mesh)
		assert.True(t, near(got.Time, 0.25))
		R := UnpackFields(got.Fields)
		for n := range Q {
			assert.True(t, nearVec(Q[n].DataP, R[n].DataP, 1.e-15))
		}
	}
	{ // Test pack deep copies, later writes don't leak into the snapshot
		Q := []utils.Matrix{utils.NewMatrix(1, 2, []float64{1, 2})}
		fields := PackFields(Q)
		Q[0].DataP[0] = 99
		assert.True(t, near(fields[0].Data[0], 1))
	}
	{ // Test a partition count mismatch is rejected
		snap := Snapshot{
			Step: 7, NumParts: 4, PartID: 0,
			Fields: PackFields([]utils.Matrix{utils.NewMatrix(1, 1)}),
		}
		_, err := WriteSnapshot(dir, "case", snap)
		assert.NoError(t, err)
		_, err = ReadSnapshot(dir, "case", 7, 0, 2)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "partitions")
	}
	{ // Test a missing snapshot reports the path
		_, err := ReadSnapshot(dir, "nosuch", 1, 0, 1)
		assert.Error(t, err)
	}
}

func TestCheckStep(t *testing.T) {
	assert.False(t, CheckStep(5, 0))
	assert.False(t, CheckStep(5, -1))
	assert.True(t, CheckStep(0, 10))
	assert.True(t, CheckStep(10, 10))
	assert.False(t, CheckStep(11, 10))
	assert.True(t, CheckStep(7, 1))
}

func TestNorms(t *testing.T) {
	{ // Test the pointwise norms
		f := utils.NewMatrix(2, 2, []float64{-3, 1, 2, -0.5})
		assert.True(t, near(NodalMin(f), -3))
		assert.True(t, near(NodalMax(f), 2))
		assert.True(t, near(NormInf(f), 3))
		g := utils.NewMatrix(2, 2, []float64{-3, 1, 2.5, -0.5})
		assert.True(t, near(FieldDelta(f, g), 0.5))
	}
	{ // Test NormL2 of a constant: sqrt(c^2 * domain area)
		dsc := dg.NewDiscretization(3, dg.NewBoxMesh(3, 3, 0, 2, 0, 1))
		f := utils.NewMatrix(dsc.El.Np, dsc.K)
		for ind := range f.DataP {
			f.DataP[ind] = 2.
		}
		assert.True(t, near(NormL2(dsc, f), math.Sqrt(4.*2.), 1.e-09))
	}
	{ // Test NormL2 integrates a linear field exactly
		// int over [0,1]^2 of x^2 = 1/3
		dsc := dg.NewDiscretization(2, dg.NewBoxMesh(2, 2, 0, 1, 0, 1))
		f := utils.NewMatrix(dsc.El.Np, dsc.K)
		copy(f.DataP, dsc.X.DataP)
		assert.True(t, near(NormL2(dsc, f), math.Sqrt(1./3.), 1.e-09))
	}
}

func TestTimestep(t *testing.T) {
	{ // Test the characteristic length scales with the mesh spacing
		h1 := CharacteristicLength(dg.NewDiscretization(2, dg.NewBoxMesh(2, 2, 0, 1, 0, 1)))
		h2 := CharacteristicLength(dg.NewDiscretization(2, dg.NewBoxMesh(4, 4, 0, 1, 0, 1)))
		assert.True(t, near(h1, 2*h2, 1.e-10))
		assert.True(t, h1 > 0)
	}
	{ // Test the CFL guess shrinks with order and wave speed
		dsc := dg.NewDiscretization(2, dg.NewBoxMesh(2, 2, 0, 1, 0, 1))
		dt1 := StableDtGuess(dsc, 0.5, 1)
		dt2 := StableDtGuess(dsc, 0.5, 2)
		assert.True(t, near(dt1, 2*dt2))
		dsc4 := dg.NewDiscretization(4, dg.NewBoxMesh(2, 2, 0, 1, 0, 1))
		assert.True(t, StableDtGuess(dsc4, 0.5, 1) < dt1)
	}
	{ // Test SimTimestep truncates to land on tFinal
		dsc := dg.NewDiscretization(1, dg.NewBoxMesh(2, 2, 0, 1, 0, 1))
		dt := SimTimestep(dsc, 0.9, 1.0, 0.25, 0, 0, false)
		assert.True(t, near(dt, 0.1))
		// fixed dt passes through untouched away from the end
		dt = SimTimestep(dsc, 0, 1.0, 0.25, 0, 0, false)
		assert.True(t, near(dt, 0.25))
		// constant CFL recomputes from the wave speed
		dt = SimTimestep(dsc, 0, 100, 0, 0.5, 2, true)
		assert.True(t, near(dt, StableDtGuess(dsc, 0.5, 2)))
	}
}

func TestVTK(t *testing.T) {
	{ // Test the writer produces a parseable legacy header
		dir := t.TempDir()
		dsc := dg.NewDiscretization(2, dg.NewBoxMesh(2, 2, 0, 1, 0, 1))
		f := utils.NewMatrix(dsc.El.Np, dsc.K)
		copy(f.DataP, dsc.X.DataP)
		path := dir + "/out.vtk"
		err := WriteVTK(path, dsc, []VizField{{Name: "x", F: f}})
		assert.NoError(t, err)
		buf, err := os.ReadFile(path)
		assert.NoError(t, err)
		data := string(buf)
		assert.Contains(t, data, "# vtk DataFile Version 3.0")
		assert.Contains(t, data, "DATASET UNSTRUCTURED_GRID")
		assert.Contains(t, data, "SCALARS x double")
	}
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			return false
		}
	}
	return true
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
