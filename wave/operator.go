// Package wave implements the scalar wave equation as a first order
// system,
//
//	du/dt = -c div v,  dv/dt = -c grad u
//
// which recovers d2u/dt2 = c^2 laplacian u. The three fields are stored
// as W = [u, vx, vy].
package wave

import (
	"math"

	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/utils"
)

type Operator struct {
	Dsc *dg.Discretization
	C   float64 // wave speed
}

func NewOperator(dsc *dg.Discretization, c float64) *Operator {
	return &Operator{Dsc: dsc, C: c}
}

// GaussianBump produces the standard test state at time t, a Gaussian
// displacement modulated in time and at rest:
//
//	u = cos(omega t) exp(-r^2/width^2),  v = 0.
func GaussianBump(dsc *dg.Discretization, center [2]float64, width, omega, t float64) (W []utils.Matrix) {
	var (
		Np, K = dsc.El.Np, dsc.K
		amp   = math.Cos(omega * t)
	)
	W = make([]utils.Matrix, 3)
	for n := range W {
		W[n] = utils.NewMatrix(Np, K)
	}
	for ind, x := range dsc.X.DataP {
		var (
			xr = x - center[0]
			yr = dsc.Y.DataP[ind] - center[1]
		)
		W[0].DataP[ind] = amp * math.Exp(-(xr*xr+yr*yr)/(width*width))
	}
	return
}

// Work estimates the floating point operations and bytes moved by one
// RHS evaluation: six derivative products and three LIFT applications
// over the three fields.
func (op *Operator) Work() (flops, bytes float64) {
	var (
		el       = op.Dsc.El
		Np, K    = el.Np, op.Dsc.K
		NFacePts = 3 * el.Nfp
	)
	flops = 6.*2.*float64(Np*Np*K) + 3.*2.*float64(Np*NFacePts*K)
	bytes = 8. * float64(12*Np*K+9*NFacePts*K)
	return
}

// RHS evaluates the semi-discrete right hand side. All boundaries are
// rigid (u = 0): the exterior trace carries -u and the unchanged v, which
// reflects the wave.
func (op *Operator) RHS(W []utils.Matrix) (rhs []utils.Matrix) {
	var (
		dsc      = op.Dsc
		el       = dsc.El
		Np, K    = el.Np, dsc.K
		NFacePts = 3 * el.Nfp
		c        = op.C
		u, vx, vy = W[0], W[1], W[2]
	)
	// Volume terms: -c div v and -c grad u via the metric chain rule
	var (
		DrU, DsU   = el.Dr.Mul(u), el.Ds.Mul(u)
		DrVx, DsVx = el.Dr.Mul(vx), el.Ds.Mul(vx)
		DrVy, DsVy = el.Dr.Mul(vy), el.Ds.Mul(vy)
	)
	rhs = make([]utils.Matrix, 3)
	for n := range rhs {
		rhs[n] = utils.NewMatrix(Np, K)
	}
	for ind := 0; ind < Np*K; ind++ {
		var (
			rx, sx = dsc.Rx.DataP[ind], dsc.Sx.DataP[ind]
			ry, sy = dsc.Ry.DataP[ind], dsc.Sy.DataP[ind]
			dudx   = rx*DrU.DataP[ind] + sx*DsU.DataP[ind]
			dudy   = ry*DrU.DataP[ind] + sy*DsU.DataP[ind]
			dvxdx  = rx*DrVx.DataP[ind] + sx*DsVx.DataP[ind]
			dvydy  = ry*DrVy.DataP[ind] + sy*DsVy.DataP[ind]
		)
		rhs[0].DataP[ind] = -c * (dvxdx + dvydy)
		rhs[1].DataP[ind] = -c * dudx
		rhs[2].DataP[ind] = -c * dudy
	}
	// Face traces
	var wM, wP [3][]float64
	for n := 0; n < 3; n++ {
		wM[n] = make([]float64, NFacePts*K)
		wP[n] = make([]float64, NFacePts*K)
	}
	for find := 0; find < NFacePts*K; find++ {
		for n := 0; n < 3; n++ {
			wM[n][find] = W[n].DataP[dsc.VmapM[find]]
			wP[n][find] = W[n].DataP[dsc.VmapP[find]]
		}
	}
	for _, bg := range dsc.BCGroups {
		for _, find := range bg.MapB {
			wP[0][find] = -wM[0][find]
		}
	}
	// Surface correction with an upwind penalty on the jumps
	var faceRes [3]utils.Matrix
	for n := range faceRes {
		faceRes[n] = utils.NewMatrix(NFacePts, K)
	}
	for find := 0; find < NFacePts*K; find++ {
		var (
			nx, ny = dsc.NX.DataP[find], dsc.NY.DataP[find]
			fs     = dsc.Fscale.DataP[find]

			uM, vxM, vyM = wM[0][find], wM[1][find], wM[2][find]
			uP, vxP, vyP = wP[0][find], wP[1][find], wP[2][find]

			// physical normal flux of the interior state
			fnuM  = c * (vxM*nx + vyM*ny)
			fnvxM = c * uM * nx
			fnvyM = c * uM * ny

			// central flux plus jump penalties, v jump along the normal
			vnJump = nx*(vxM-vxP) + ny*(vyM-vyP)
			fnu    = c * (0.5*((vxM+vxP)*nx+(vyM+vyP)*ny) + 0.5*(uM-uP))
			fnvx   = c * (0.5*(uM+uP)*nx + 0.5*vnJump*nx)
			fnvy   = c * (0.5*(uM+uP)*ny + 0.5*vnJump*ny)
		)
		faceRes[0].DataP[find] = fs * (fnuM - fnu)
		faceRes[1].DataP[find] = fs * (fnvxM - fnvx)
		faceRes[2].DataP[find] = fs * (fnvyM - fnvy)
	}
	for n := range rhs {
		rhs[n].Add(el.LIFT.Mul(faceRes[n]))
	}
	return
}
