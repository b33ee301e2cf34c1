package euler

import (
	"fmt"
	"sync"

	"github.com/cfdlabs/gofluid/boundary"
	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/eos"
	"github.com/cfdlabs/gofluid/utils"
)

// Operator evaluates the strong-form DG right hand side of the Euler
// equations. Boundary face points are handled by the same flux kernel as
// interior ones, after the configured conditions fill in exterior states.
type Operator struct {
	Dsc *dg.Discretization
	Gas eos.IdealSingleGas
	BCs map[string]boundary.Condition
	PM  *utils.PartitionMap // shards the pointwise kernels across goroutines
}

func NewOperator(dsc *dg.Discretization, gas eos.IdealSingleGas,
	bcs map[string]boundary.Condition, parallelDegree int) (op *Operator) {
	if parallelDegree < 1 {
		parallelDegree = 1
	}
	op = &Operator{
		Dsc: dsc,
		Gas: gas,
		BCs: bcs,
		PM:  utils.NewPartitionMap(parallelDegree, dsc.El.Np*dsc.K),
	}
	// Fail configuration errors here, not mid-run
	for tag := range dsc.BCGroups {
		op.resolveBC(tag)
	}
	return
}

func (op *Operator) resolveBC(tag string) boundary.Condition {
	if bc, ok := op.BCs[tag]; ok {
		return bc
	}
	if bc, ok := op.BCs["all"]; ok {
		return bc
	}
	panic(fmt.Errorf("no boundary condition for tag %q and no \"all\" fallback", tag))
}

// RHS computes dQ/dt = -div F(Q) + surface corrections at time t.
func (op *Operator) RHS(Q []utils.Matrix, t float64) (rhs []utils.Matrix) {
	var (
		dsc      = op.Dsc
		el       = dsc.El
		Np, K    = el.Np, dsc.K
		NFacePts = 3 * el.Nfp
		gas      = op.Gas
	)
	// Volume flux at every solution node
	var Fx, Fy [4]utils.Matrix
	for n := 0; n < 4; n++ {
		Fx[n], Fy[n] = utils.NewMatrix(Np, K), utils.NewMatrix(Np, K)
	}
	op.parallelRange(Np*K, func(imin, imax int) {
		for ind := imin; ind < imax; ind++ {
			fx, fy := FluxCalcP(gas, stateAt(Q, ind))
			for n := 0; n < 4; n++ {
				Fx[n].DataP[ind] = fx[n]
				Fy[n].DataP[ind] = fy[n]
			}
		}
	})
	// Flux divergence via the chain rule metric terms
	rhs = make([]utils.Matrix, 4)
	for n := 0; n < 4; n++ {
		var (
			DrFx, DsFx = el.Dr.Mul(Fx[n]), el.Ds.Mul(Fx[n])
			DrFy, DsFy = el.Dr.Mul(Fy[n]), el.Ds.Mul(Fy[n])
			R          = utils.NewMatrix(Np, K)
		)
		rhs[n] = R
		op.parallelRange(Np*K, func(imin, imax int) {
			for ind := imin; ind < imax; ind++ {
				R.DataP[ind] = -(dsc.Rx.DataP[ind]*DrFx.DataP[ind] +
					dsc.Sx.DataP[ind]*DsFx.DataP[ind] +
					dsc.Ry.DataP[ind]*DrFy.DataP[ind] +
					dsc.Sy.DataP[ind]*DsFy.DataP[ind])
			}
		})
	}
	// Interior and exterior traces at the face points
	var qM, qP [4][]float64
	for n := 0; n < 4; n++ {
		qM[n] = make([]float64, NFacePts*K)
		qP[n] = make([]float64, NFacePts*K)
	}
	op.parallelRange(NFacePts*K, func(imin, imax int) {
		for find := imin; find < imax; find++ {
			for n := 0; n < 4; n++ {
				qM[n][find] = Q[n].DataP[dsc.VmapM[find]]
				qP[n][find] = Q[n].DataP[dsc.VmapP[find]]
			}
		}
	})
	for tag, bg := range dsc.BCGroups {
		op.resolveBC(tag).GhostState(bg, gas, t, qM, qP)
	}
	// Surface correction: Fscale (F(qM).n - F*)
	var faceRes [4]utils.Matrix
	for n := 0; n < 4; n++ {
		faceRes[n] = utils.NewMatrix(NFacePts, K)
	}
	op.parallelRange(NFacePts*K, func(imin, imax int) {
		for find := imin; find < imax; find++ {
			var (
				nx, ny = dsc.NX.DataP[find], dsc.NY.DataP[find]
				sM     = faceStateAt(qM, find)
				sP     = faceStateAt(qP, find)
				fM     = NormalFluxP(gas, sM, nx, ny)
				fStar  = LaxFriedrichsFlux(gas, sM, sP, nx, ny)
				fs     = dsc.Fscale.DataP[find]
			)
			for n := 0; n < 4; n++ {
				faceRes[n].DataP[find] = fs * (fM[n] - fStar[n])
			}
		}
	})
	for n := 0; n < 4; n++ {
		rhs[n].Add(el.LIFT.Mul(faceRes[n]))
	}
	return
}

// Work estimates the floating point operations and bytes moved by one
// RHS evaluation, dominated by the derivative and lifting products: four
// fields see Dr and Ds applied to both flux components plus one LIFT.
func (op *Operator) Work() (flops, bytes float64) {
	var (
		el       = op.Dsc.El
		Np, K    = el.Np, op.Dsc.K
		NFacePts = 3 * el.Nfp
	)
	flops = 16.*2.*float64(Np*Np*K) + 4.*2.*float64(Np*NFacePts*K)
	bytes = 8. * float64(16*Np*K+12*NFacePts*K)
	return
}

// MaxWaveSpeed returns the largest |v| + c over the solution nodes.
func (op *Operator) MaxWaveSpeed(Q []utils.Matrix) (s float64) {
	for ind := range Q[0].DataP {
		if ws := WaveSpeedP(op.Gas, stateAt(Q, ind)); ws > s {
			s = ws
		}
	}
	return
}

// parallelRange runs f over [0,total) split into the operator's partition
// count. The partition map is sized for the volume nodes, face arrays
// reuse the same degree with their own split.
func (op *Operator) parallelRange(total int, f func(imin, imax int)) {
	var (
		pm = utils.NewPartitionMap(op.PM.ParallelDegree, total)
		wg sync.WaitGroup
	)
	for n := 0; n < pm.ParallelDegree; n++ {
		imin, imax := pm.GetBucketRange(n)
		wg.Add(1)
		go func(imin, imax int) {
			defer wg.Done()
			f(imin, imax)
		}(imin, imax)
	}
	wg.Wait()
}

func stateAt(Q []utils.Matrix, ind int) (q [4]float64) {
	q[0] = Q[0].DataP[ind]
	q[1] = Q[1].DataP[ind]
	q[2] = Q[2].DataP[ind]
	q[3] = Q[3].DataP[ind]
	return
}

func faceStateAt(q [4][]float64, find int) (s [4]float64) {
	s[0] = q[0][find]
	s[1] = q[1][find]
	s[2] = q[2][find]
	s[3] = q[3][find]
	return
}
