package dg

import (
	"fmt"
	"math"

	"github.com/cfdlabs/gofluid/utils"
)

const NODETOL = 1.e-12

// Element2D is the reference triangle machinery for a nodal element of
// order N: node locations, Vandermonde and differentiation matrices, and
// the surface lift operator.
type Element2D struct {
	N, Np, Nfp, Nfaces  int
	R, S                utils.Vector
	V, Vinv, MassMatrix utils.Matrix
	Dr, Ds              utils.Matrix
	LIFT                utils.Matrix
	FMask               [3][]int // node indices lying on each face
}

func NewElement2D(N int) (el *Element2D) {
	el = &Element2D{
		N:      N,
		Np:     (N + 1) * (N + 2) / 2,
		Nfp:    N + 1,
		Nfaces: 3,
	}
	if N < 1 {
		panic(fmt.Errorf("polynomial order must be >= 1, have %d", N))
	}
	el.R, el.S = XYtoRS(Nodes2D(N))
	var err error
	el.V = Vandermonde2D(N, el.R, el.S)
	if el.Vinv, err = el.V.Inverse(); err != nil {
		panic(err)
	}
	el.MassMatrix = el.Vinv.Transpose().Mul(el.Vinv)
	Vr, Vs := GradVandermonde2D(N, el.R, el.S)
	el.Dr = Vr.Mul(el.Vinv)
	el.Ds = Vs.Mul(el.Vinv)
	// Face masks: face 1 is s=-1, face 2 the hypotenuse r+s=0, face 3 r=-1
	for i := 0; i < el.Np; i++ {
		r, s := el.R.AtVec(i), el.S.AtVec(i)
		if math.Abs(s+1) < NODETOL {
			el.FMask[0] = append(el.FMask[0], i)
		}
		if math.Abs(r+s) < NODETOL {
			el.FMask[1] = append(el.FMask[1], i)
		}
		if math.Abs(r+1) < NODETOL {
			el.FMask[2] = append(el.FMask[2], i)
		}
	}
	for face := 0; face < 3; face++ {
		if len(el.FMask[face]) != el.Nfp {
			panic(fmt.Errorf("face %d has %d nodes, need %d", face+1, len(el.FMask[face]), el.Nfp))
		}
	}
	el.Lift2D()
	return
}

// Lift2D builds the surface integral lift: inv(M) * Emat, where Emat
// assembles the edge mass matrices of the three faces.
func (el *Element2D) Lift2D() {
	var (
		Emat = utils.NewMatrix(el.Np, el.Nfaces*el.Nfp)
	)
	faceMass := func(basis utils.Vector, face int) {
		faceR := utils.NewVector(el.Nfp)
		for i, ind := range el.FMask[face] {
			faceR.DataP[i] = basis.AtVec(ind)
		}
		V1D := Vandermonde1D(el.N, faceR)
		massEdge, err := V1D.Mul(V1D.Transpose()).Inverse()
		if err != nil {
			panic(err)
		}
		for i, ind := range el.FMask[face] {
			for j := 0; j < el.Nfp; j++ {
				Emat.Set(ind, face*el.Nfp+j, massEdge.At(i, j))
			}
		}
	}
	faceMass(el.R, 0)
	faceMass(el.R, 1)
	faceMass(el.S, 2)
	el.LIFT = el.V.Mul(el.V.Transpose().Mul(Emat))
}

// Nodes2D computes (x,y) interpolation nodes in the equilateral triangle
// for a polynomial of order N, using the warp and blend construction.
func Nodes2D(N int) (x, y utils.Vector) {
	var (
		alpha                                                               float64
		Np                                                                  = (N + 1) * (N + 2) / 2
		L1, L2, L3                                                          utils.Vector
		blend1, blend2, blend3, warp1, warp2, warp3, warpf1, warpf2, warpf3 []float64
	)
	L1, L2, L3, x, y =
		utils.NewVector(Np), utils.NewVector(Np), utils.NewVector(Np), utils.NewVector(Np), utils.NewVector(Np)
	l1d, l2d, l3d, xd, yd := L1.DataP, L2.DataP, L3.DataP, x.DataP, y.DataP
	blend1, blend2, blend3, warp1, warp2, warp3 =
		make([]float64, Np), make([]float64, Np), make([]float64, Np), make([]float64, Np), make([]float64, Np), make([]float64, Np)

	alpopt := []float64{
		0.0000, 0.0000, 1.4152, 0.1001, 0.2751,
		0.9800, 1.0999, 1.2832, 1.3648, 1.4773,
		1.4959, 1.5743, 1.5770, 1.6223, 1.6258,
	}
	if N < 16 {
		alpha = alpopt[N-1]
	} else {
		alpha = 5. / 3.
	}
	// Create equidistributed nodes on the equilateral triangle
	fn := 1. / float64(N)
	var sk int
	for n := 0; n < N+1; n++ {
		for m := 0; m < (N + 1 - n); m++ {
			l1d[sk] = float64(n) * fn
			l3d[sk] = float64(m) * fn
			sk++
		}
	}
	for i := range xd {
		l2d[i] = 1 - l1d[i] - l3d[i]
		xd[i] = l3d[i] - l2d[i]
		yd[i] = (2*l1d[i] - l3d[i] - l2d[i]) / math.Sqrt(3)
		// Blending function at each node for each edge
		blend1[i] = 4 * l2d[i] * l3d[i]
		blend2[i] = 4 * l1d[i] * l3d[i]
		blend3[i] = 4 * l1d[i] * l2d[i]
	}
	// Amount of warp for each node, for each edge
	warpf1 = Warpfactor(N, L3.Copy().Subtract(L2))
	warpf2 = Warpfactor(N, L1.Copy().Subtract(L3))
	warpf3 = Warpfactor(N, L2.Copy().Subtract(L1))
	// Combine blend & warp
	for i := range warpf1 {
		warp1[i] = blend1[i] * warpf1[i] * (1 + utils.POW(alpha*l1d[i], 2))
		warp2[i] = blend2[i] * warpf2[i] * (1 + utils.POW(alpha*l2d[i], 2))
		warp3[i] = blend3[i] * warpf3[i] * (1 + utils.POW(alpha*l3d[i], 2))
	}
	// Accumulate deformations associated with each edge
	for i := range xd {
		xd[i] += warp1[i] + math.Cos(2*math.Pi/3)*warp2[i] + math.Cos(4*math.Pi/3)*warp3[i]
		yd[i] += math.Sin(2*math.Pi/3)*warp2[i] + math.Sin(4*math.Pi/3)*warp3[i]
	}
	return
}

// Warpfactor computes the 1D warp factor moving equidistant face nodes to
// the Gauss-Lobatto distribution.
func Warpfactor(N int, rout utils.Vector) (warpF []float64) {
	var (
		Nr   = rout.Len()
		Pmat = utils.NewMatrix(N+1, Nr)
	)
	// LGL and equidistant node distributions
	LGLr := JacobiGL(0, 0, N)
	req := utils.NewVector(N + 1).Linspace(-1, 1)
	Veq := Vandermonde1D(N, req)
	// Evaluate Lagrange polynomial at rout
	for i := 0; i < (N + 1); i++ {
		Pmat.SetRow(i, JacobiP(rout, 0, 0, i))
	}
	Lmat := Veq.Transpose().LUSolve(Pmat)
	warp := Lmat.Transpose().Mul(LGLr.Subtract(req).ToMatrix())
	// Scale factor zeroing the warp at the face endpoints
	zerof := rout.Copy().Apply(func(val float64) (res float64) {
		if math.Abs(val) < (1.0 - (1e-10)) {
			res = 1.
		}
		return
	})
	sf := zerof.Copy().ElMul(rout).Apply(func(val float64) (res float64) {
		res = 1 - val*val
		return
	})
	w2 := warp.Copy()
	warp.ElDiv(sf.ToMatrix()).Add(w2.ElMul(zerof.AddScalar(-1).ToMatrix()))
	warpF = warp.DataP
	return
}

func Vandermonde2D(N int, R, S utils.Vector) (V2D utils.Matrix) {
	V2D = utils.NewMatrix(R.Len(), (N+1)*(N+2)/2)
	var sk int
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			V2D.SetCol(sk, Simplex2DP(R, S, i, j))
			sk++
		}
	}
	return
}

func GradVandermonde2D(N int, R, S utils.Vector) (V2Dr, V2Ds utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) / 2
		Nr = R.Len()
	)
	V2Dr, V2Ds = utils.NewMatrix(Nr, Np), utils.NewMatrix(Nr, Np)
	var sk int
	for i := 0; i <= N; i++ {
		for j := 0; j <= (N - i); j++ {
			ddr, dds := GradSimplex2DP(R, S, i, j)
			V2Dr.SetCol(sk, ddr)
			V2Ds.SetCol(sk, dds)
			sk++
		}
	}
	return
}

// Simplex2DP evaluates the orthonormal polynomial of order (i,j) on the
// simplex at (R,S).
func Simplex2DP(R, S utils.Vector, i, j int) (P []float64) {
	var (
		A, B = RStoAB(R, S)
		Np   = A.Len()
		bd   = B.DataP
	)
	h1 := JacobiP(A, 0, 0, i)
	h2 := JacobiP(B, float64(2*i+1), 0, j)
	P = make([]float64, Np)
	sq2 := math.Sqrt(2)
	for ii := range h1 {
		tv1 := sq2 * h1[ii] * h2[ii]
		tv2 := utils.POW(1-bd[ii], i)
		P[ii] = tv1 * tv2
	}
	return
}

func GradSimplex2DP(R, S utils.Vector, id, jd int) (ddr, dds []float64) {
	var (
		A, B   = RStoAB(R, S)
		ad, bd = A.DataP, B.DataP
	)
	fa := JacobiP(A, 0, 0, id)
	dfa := GradJacobiP(A, 0, 0, id)
	gb := JacobiP(B, 2*float64(id)+1, 0, jd)
	dgb := GradJacobiP(B, 2*float64(id)+1, 0, jd)
	// r-derivative
	// d/dr = da/dr d/da + db/dr d/db = (2/(1-s)) d/da = (2/(1-B)) d/da
	ddr = make([]float64, len(gb))
	for i := range ddr {
		ddr[i] = dfa[i] * gb[i]
		if id > 0 {
			ddr[i] *= utils.POW(0.5*(1-bd[i]), id-1)
		}
		ddr[i] *= math.Pow(2, float64(id)+0.5)
	}
	// s-derivative
	// d/ds = ((1+A)/2)/((1-B)/2) d/da + d/db
	dds = make([]float64, len(gb))
	for i := range dds {
		dds[i] = 0.5 * dfa[i] * gb[i] * (1 + ad[i])
		if id > 0 {
			dds[i] *= utils.POW(0.5*(1-bd[i]), id-1)
		}
		tmp := dgb[i] * utils.POW(0.5*(1-bd[i]), id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[i] * utils.POW(0.5*(1-bd[i]), id-1)
		}
		dds[i] += fa[i] * tmp
		dds[i] *= math.Pow(2, float64(id)+0.5)
	}
	return
}

func RStoAB(R, S utils.Vector) (a, b utils.Vector) {
	var (
		Np     = R.Len()
		rd, sd = R.DataP, S.DataP
	)
	ad, bd := make([]float64, Np), make([]float64, Np)
	for n, sval := range sd {
		if sval != 1 {
			ad[n] = 2*(1+rd[n])/(1-sval) - 1
		} else {
			ad[n] = -1
		}
		bd[n] = sval
	}
	a, b = utils.NewVector(Np, ad), utils.NewVector(Np, bd)
	return
}

// XYtoRS transfers from (x,y) in the equilateral triangle to (r,s)
// coordinates in the standard triangle.
func XYtoRS(x, y utils.Vector) (r, s utils.Vector) {
	r, s = utils.NewVector(x.Len()), utils.NewVector(x.Len())
	var (
		xd, yd = x.DataP, y.DataP
		rd, sd = r.DataP, s.DataP
	)
	sr3 := math.Sqrt(3)
	for i := range xd {
		l1 := (sr3*yd[i] + 1) / 3
		l2 := (-3*xd[i] - sr3*yd[i] + 2) / 6
		l3 := (3*xd[i] - sr3*yd[i] + 2) / 6
		rd[i] = -l2 + l3 - l1
		sd[i] = -l2 - l3 + l1
	}
	return
}
