package dg

import (
	"fmt"
	"math"

	"github.com/james-bowman/sparse"

	"github.com/cfdlabs/gofluid/utils"
)

// BoundaryGroup collects the face points of one named boundary, with the
// geometry needed to form exterior states there.
type BoundaryGroup struct {
	Tag    string
	MapB   []int // indices into the face point arrays, ind = k + fp*K
	VmapB  []int // indices into the volume node arrays, ind = k + i*K
	X, Y   []float64
	Nx, Ny []float64
}

// Discretization assembles the global nodal DG operators for a triangle
// mesh: node coordinates, metric terms, face normals, element connectivity
// and the interior/exterior trace maps.
//
// Volume fields are stored (Np x K), face fields (3*Nfp x K), both indexed
// ind = k + i*K.
type Discretization struct {
	El  *Element2D
	Msh *Mesh
	K   int

	X, Y           utils.Matrix // Np x K node coordinates
	Rx, Sx, Ry, Sy utils.Matrix // Np x K metric terms
	J              utils.Matrix // Np x K transformation Jacobian

	NX, NY utils.Matrix // 3*Nfp x K outward unit normals at face points
	SJ     utils.Matrix // 3*Nfp x K surface Jacobian
	Fscale utils.Matrix // 3*Nfp x K ratio sJ / J at face points

	EToE, EToF [][]int
	VmapM      []int // face point -> interior volume node
	VmapP      []int // face point -> exterior volume node
	BCGroups   map[string]*BoundaryGroup

	xr, xs, yr, ys utils.Matrix // retained for the normals pass
}

func NewDiscretization(N int, msh *Mesh) (dsc *Discretization) {
	dsc = &Discretization{
		El:  NewElement2D(N),
		Msh: msh,
		K:   msh.K,
	}
	dsc.buildCoordinates()
	dsc.geometricFactors()
	dsc.normals()
	dsc.connect()
	dsc.buildMaps()
	dsc.buildBoundaryGroups()
	return
}

// buildCoordinates maps the reference nodes into each element using the
// affine blend of the triangle's vertices.
func (dsc *Discretization) buildCoordinates() {
	var (
		el       = dsc.El
		msh      = dsc.Msh
		K, Np    = dsc.K, el.Np
		rd, sd   = el.R.DataP, el.S.DataP
		vxd, vyd = msh.VX.DataP, msh.VY.DataP
	)
	dsc.X, dsc.Y = utils.NewMatrix(Np, K), utils.NewMatrix(Np, K)
	for k := 0; k < K; k++ {
		va := int(msh.EToV.At(k, 0))
		vb := int(msh.EToV.At(k, 1))
		vc := int(msh.EToV.At(k, 2))
		for i := 0; i < Np; i++ {
			ind := k + i*K
			r, s := rd[i], sd[i]
			dsc.X.DataP[ind] = 0.5 * (-(r+s)*vxd[va] + (1+r)*vxd[vb] + (1+s)*vxd[vc])
			dsc.Y.DataP[ind] = 0.5 * (-(r+s)*vyd[va] + (1+r)*vyd[vb] + (1+s)*vyd[vc])
		}
	}
}

func (dsc *Discretization) geometricFactors() {
	var (
		el = dsc.El
	)
	xr, xs := el.Dr.Mul(dsc.X), el.Ds.Mul(dsc.X)
	yr, ys := el.Dr.Mul(dsc.Y), el.Ds.Mul(dsc.Y)
	dsc.J = xr.Copy().ElMul(ys).Subtract(xs.Copy().ElMul(yr))
	dsc.Rx = ys.Copy().ElDiv(dsc.J)
	dsc.Sx = yr.Copy().ElDiv(dsc.J).Scale(-1)
	dsc.Ry = xs.Copy().ElDiv(dsc.J).Scale(-1)
	dsc.Sy = xr.Copy().ElDiv(dsc.J)
	for _, jac := range dsc.J.DataP {
		if jac <= 0 {
			panic(fmt.Errorf("non-positive element Jacobian %v, mesh is inverted or degenerate", jac))
		}
	}
	dsc.xr, dsc.xs, dsc.yr, dsc.ys = xr, xs, yr, ys
}

// normals builds outward unit normals and the surface Jacobian at the
// face points, then Fscale = sJ/J.
func (dsc *Discretization) normals() {
	var (
		el       = dsc.El
		K, Nfp   = dsc.K, el.Nfp
		NFacePts = 3 * Nfp
	)
	dsc.NX, dsc.NY = utils.NewMatrix(NFacePts, K), utils.NewMatrix(NFacePts, K)
	dsc.SJ = utils.NewMatrix(NFacePts, K)
	dsc.Fscale = utils.NewMatrix(NFacePts, K)
	for k := 0; k < K; k++ {
		for face := 0; face < 3; face++ {
			for fp := 0; fp < Nfp; fp++ {
				vind := k + el.FMask[face][fp]*K // volume node under this face point
				find := k + (fp+face*Nfp)*K
				fxr, fxs := dsc.xr.DataP[vind], dsc.xs.DataP[vind]
				fyr, fys := dsc.yr.DataP[vind], dsc.ys.DataP[vind]
				var nx, ny float64
				switch face {
				case 0: // s = -1
					nx, ny = fyr, -fxr
				case 1: // r + s = 0
					nx, ny = fys-fyr, fxr-fxs
				case 2: // r = -1
					nx, ny = -fys, fxs
				}
				sJ := math.Sqrt(nx*nx + ny*ny)
				dsc.NX.DataP[find] = nx / sJ
				dsc.NY.DataP[find] = ny / sJ
				dsc.SJ.DataP[find] = sJ
				dsc.Fscale.DataP[find] = sJ / dsc.J.DataP[vind]
			}
		}
	}
}

// connect builds element to element connectivity from the sparse
// face-to-vertex incidence product. A shared face produces an entry of
// exactly two in FToF.
func (dsc *Discretization) connect() {
	var (
		msh        = dsc.Msh
		K          = dsc.K
		Nv         = msh.VX.Len()
		TotalFaces = 3 * K
		faceVerts  = [3][2]int{{0, 1}, {1, 2}, {0, 2}}
	)
	FToV := sparse.NewDOK(TotalFaces, Nv)
	for k := 0; k < K; k++ {
		for face := 0; face < 3; face++ {
			gf := face + k*3
			FToV.Set(gf, int(msh.EToV.At(k, faceVerts[face][0])), 1)
			FToV.Set(gf, int(msh.EToV.At(k, faceVerts[face][1])), 1)
		}
	}
	SpFToV := FToV.ToCSR()
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToF.Mul(SpFToV, SpFToV.T())

	// Default each face to its own element (boundary faces stay that way)
	dsc.EToE = make([][]int, K)
	dsc.EToF = make([][]int, K)
	for k := 0; k < K; k++ {
		dsc.EToE[k] = []int{k, k, k}
		dsc.EToF[k] = []int{0, 1, 2}
	}
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i != j && v == 2 {
			k1, f1 := i/3, i%3
			k2, f2 := j/3, j%3
			dsc.EToE[k1][f1] = k2
			dsc.EToF[k1][f1] = f2
		}
	})
}

// buildMaps matches interior and exterior trace nodes across each face by
// physical distance.
func (dsc *Discretization) buildMaps() {
	var (
		el       = dsc.El
		K, Nfp   = dsc.K, el.Nfp
		NFacePts = 3 * Nfp
		xd, yd   = dsc.X.DataP, dsc.Y.DataP
	)
	dsc.VmapM = make([]int, NFacePts*K)
	dsc.VmapP = make([]int, NFacePts*K)
	for k := 0; k < K; k++ {
		for face := 0; face < 3; face++ {
			for fp := 0; fp < Nfp; fp++ {
				find := k + (fp+face*Nfp)*K
				dsc.VmapM[find] = k + el.FMask[face][fp]*K
			}
		}
	}
	// scale the matching tolerance to the face size
	refd := dsc.SJ.Max()
	for k := 0; k < K; k++ {
		for face := 0; face < 3; face++ {
			k2, f2 := dsc.EToE[k][face], dsc.EToF[k][face]
			for fp := 0; fp < Nfp; fp++ {
				find := k + (fp+face*Nfp)*K
				vM := dsc.VmapM[find]
				dsc.VmapP[find] = vM // boundary default: exterior = interior
				if k2 == k && f2 == face {
					continue
				}
				best, bestD := -1, math.MaxFloat64
				for fp2 := 0; fp2 < Nfp; fp2++ {
					vP := dsc.VmapM[k2+(fp2+f2*Nfp)*K]
					dx, dy := xd[vM]-xd[vP], yd[vM]-yd[vP]
					if d := dx*dx + dy*dy; d < bestD {
						best, bestD = vP, d
					}
				}
				if math.Sqrt(bestD) > 1.e-7*refd {
					panic(fmt.Errorf("unable to match face point %d of face %d, element %d", fp, face, k))
				}
				dsc.VmapP[find] = best
			}
		}
	}
}

func (dsc *Discretization) buildBoundaryGroups() {
	var (
		el     = dsc.El
		K, Nfp = dsc.K, el.Nfp
	)
	dsc.BCGroups = make(map[string]*BoundaryGroup)
	for tag, faces := range dsc.Msh.BCFaces {
		bg := &BoundaryGroup{Tag: tag}
		for _, ef := range faces {
			for fp := 0; fp < Nfp; fp++ {
				find := ef.K + (fp+ef.Face*Nfp)*K
				vM := dsc.VmapM[find]
				bg.MapB = append(bg.MapB, find)
				bg.VmapB = append(bg.VmapB, vM)
				bg.X = append(bg.X, dsc.X.DataP[vM])
				bg.Y = append(bg.Y, dsc.Y.DataP[vM])
				bg.Nx = append(bg.Nx, dsc.NX.DataP[find])
				bg.Ny = append(bg.Ny, dsc.NY.DataP[find])
			}
		}
		dsc.BCGroups[tag] = bg
	}
}
