package solver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cfdlabs/gofluid/euler"
	"github.com/cfdlabs/gofluid/logmgr"
	"github.com/cfdlabs/gofluid/simutil"
	"github.com/cfdlabs/gofluid/utils"
)

// checkpoint runs before every step: solution health, status logging,
// restart snapshots and visualization output, each on its own interval.
func (sim *Simulation) checkpoint(Q []utils.Matrix, step int, t, dt float64) (err error) {
	var (
		ip = sim.IP
	)
	if err = sim.checkHealth(Q); err != nil {
		return err
	}
	if step == 0 || simutil.CheckStep(step, ip.LogInterval) {
		sim.logStatus(Q, step, t, dt)
	}
	if simutil.CheckStep(step, ip.RestartInterval) {
		if err = sim.writeRestart(Q, step, t); err != nil {
			return err
		}
	}
	if simutil.CheckStep(step, ip.VizInterval) {
		if err = sim.writeViz(Q, step); err != nil {
			return err
		}
		if ip.Graph {
			sim.plotLive(Q)
		}
	}
	return nil
}

func (sim *Simulation) logStatus(Q []utils.Matrix, step int, t, dt float64) {
	var (
		lm = sim.LM
	)
	lm.Set("dt", dt)
	lm.Set("rss_mb", float64(logmgr.RSSBytes())/1.e6)
	if sim.WaveOp != nil {
		lm.Set("min_rho", simutil.NodalMin(Q[0]))
		lm.Set("min_p", 0)
		lm.Set("max_v", simutil.NormInf(Q[0]))
	} else {
		dv := sim.Gas.GetDependentVars(Q)
		cv := euler.SplitConserved(2, Q)
		lm.Set("min_rho", simutil.NodalMin(cv.Mass))
		lm.Set("min_p", simutil.NodalMin(dv.Pressure))
		var maxV float64
		for _, vel := range cv.Velocity() {
			if m := simutil.NormInf(vel); m > maxV {
				maxV = m
			}
		}
		lm.Set("max_v", maxV)
		if sim.Exact != nil {
			lm.Set("err_rho", sim.densityError(Q, t))
		}
	}
	lm.Emit(step, t)
}

// densityError is the L2 norm of the density error against the analytic
// solution at time t.
func (sim *Simulation) densityError(Q []utils.Matrix, t float64) float64 {
	var (
		dsc  = sim.Dsc
		diff = Q[0].Copy()
	)
	for ind, x := range dsc.X.DataP {
		q := sim.Exact.StateAt(x, dsc.Y.DataP[ind], t, sim.Gas)
		diff.DataP[ind] -= q[0]
	}
	return simutil.NormL2(dsc, diff)
}

// meshRecord captures the box mesh parameters of the configured run for
// snapshot validation.
func (sim *Simulation) meshRecord() simutil.MeshRecord {
	ip := sim.IP
	return simutil.MeshRecord{
		Nx: ip.Nx, Ny: ip.Ny,
		Xmin: ip.Xmin, Xmax: ip.Xmax, Ymin: ip.Ymin, Ymax: ip.Ymax,
	}
}

func (sim *Simulation) writeRestart(Q []utils.Matrix, step int, t float64) (err error) {
	var (
		ip = sim.IP
		pm = sim.PM
	)
	if err = os.MkdirAll(ip.OutputDir, 0o755); err != nil {
		return fmt.Errorf("restart: %w", err)
	}
	for part := 0; part < pm.ParallelDegree; part++ {
		kmin, kmax := pm.GetBucketRange(part)
		snap := simutil.Snapshot{
			Step:            step,
			Time:            t,
			Order:           ip.PolynomialOrder,
			Mesh:            sim.meshRecord(),
			GlobalNelements: sim.Dsc.K,
			NumParts:        pm.ParallelDegree,
			PartID:          part,
			Fields:          simutil.PackFields(extractColumns(Q, kmin, kmax)),
		}
		if _, err = simutil.WriteSnapshot(ip.OutputDir, ip.CaseName, snap); err != nil {
			return err
		}
	}
	return nil
}

// restore loads a full state from the per-partition snapshots of a step.
func (sim *Simulation) restore(step int) (err error) {
	var (
		ip = sim.IP
		pm = sim.PM
	)
	for part := 0; part < pm.ParallelDegree; part++ {
		snap, err := simutil.ReadSnapshot(ip.OutputDir, ip.CaseName, step, part, pm.ParallelDegree)
		if err != nil {
			return err
		}
		if snap.Mesh != sim.meshRecord() {
			return fmt.Errorf("restart: snapshot mesh %+v does not match configured mesh %+v",
				snap.Mesh, sim.meshRecord())
		}
		if snap.GlobalNelements != sim.Dsc.K {
			return fmt.Errorf("restart: snapshot has %d global elements, mesh has %d",
				snap.GlobalNelements, sim.Dsc.K)
		}
		if snap.Order != ip.PolynomialOrder {
			return fmt.Errorf("restart: snapshot order %d, configured order %d",
				snap.Order, ip.PolynomialOrder)
		}
		R := simutil.UnpackFields(snap.Fields)
		if _, kn := R[0].Dims(); kn != pm.GetBucketDimension(part) {
			return fmt.Errorf("restart: partition %d carries %d elements, bucket holds %d",
				part, kn, pm.GetBucketDimension(part))
		}
		kmin, _ := pm.GetBucketRange(part)
		injectColumns(sim.Q, R, kmin)
		sim.Time, sim.Step = snap.Time, snap.Step
	}
	fmt.Printf("restored %q at step %d, t = %8.5f from %d snapshot parts\n",
		ip.CaseName, sim.Step, sim.Time, pm.ParallelDegree)
	return nil
}

func (sim *Simulation) writeViz(Q []utils.Matrix, step int) (err error) {
	var (
		ip   = sim.IP
		path = filepath.Join(ip.OutputDir, fmt.Sprintf("%s-%07d.vtk", ip.CaseName, step))
	)
	if err = os.MkdirAll(ip.OutputDir, 0o755); err != nil {
		return fmt.Errorf("viz: %w", err)
	}
	var fields []simutil.VizField
	if sim.WaveOp != nil {
		fields = []simutil.VizField{
			{Name: "u", F: Q[0]},
			{Name: "vx", F: Q[1]},
			{Name: "vy", F: Q[2]},
		}
	} else {
		dv := sim.Gas.GetDependentVars(Q)
		fields = []simutil.VizField{
			{Name: "rho", F: Q[0]},
			{Name: "rhoE", F: Q[1]},
			{Name: "rhoU", F: Q[2]},
			{Name: "rhoV", F: Q[3]},
			{Name: "pressure", F: dv.Pressure},
			{Name: "temperature", F: dv.Temperature},
		}
	}
	return simutil.WriteVTK(path, sim.Dsc, fields)
}

// extractColumns copies the element range [kmin,kmax) out of each field.
func extractColumns(Q []utils.Matrix, kmin, kmax int) (R []utils.Matrix) {
	var (
		nr, nc = Q[0].Dims()
		kn     = kmax - kmin
	)
	R = make([]utils.Matrix, len(Q))
	for n := range Q {
		R[n] = utils.NewMatrix(nr, kn)
		for i := 0; i < nr; i++ {
			for k := 0; k < kn; k++ {
				R[n].DataP[k+i*kn] = Q[n].DataP[kmin+k+i*nc]
			}
		}
	}
	return
}

// injectColumns writes partition fields back into the global arrays
// starting at element kmin.
func injectColumns(Q, R []utils.Matrix, kmin int) {
	var (
		nr, nc = Q[0].Dims()
	)
	for n := range R {
		_, kn := R[n].Dims()
		for i := 0; i < nr; i++ {
			for k := 0; k < kn; k++ {
				Q[n].DataP[kmin+k+i*nc] = R[n].DataP[k+i*kn]
			}
		}
	}
}
