package solver

import (
	"math"

	"github.com/notargets/avs/chart2d"
	"github.com/notargets/avs/geometry"
	avsUtils "github.com/notargets/avs/utils"

	"github.com/cfdlabs/gofluid/utils"
)

// chartState is the live plotting window, created on first use. The
// density field (or wave amplitude) is rendered as a shaded scalar on
// the vertex mesh.
type chartState struct {
	ch      *chart2d.Chart2D
	gm      geometry.TriMesh
	vs      geometry.VertexScalar
	corners [3]int // reference element corner node indices
	counts  []float64
}

func (sim *Simulation) newChartState() (cs *chartState) {
	var (
		ip  = sim.IP
		msh = sim.Dsc.Msh
	)
	cs = &chartState{
		gm: geometry.TriMesh{
			XY:       make([]float32, 2*msh.VX.Len()),
			TriVerts: make([][3]int64, msh.K),
		},
		corners: cornerNodes(sim.Dsc.El.R, sim.Dsc.El.S),
	}
	for i, x := range msh.VX.DataP {
		cs.gm.XY[2*i] = float32(x)
		cs.gm.XY[2*i+1] = float32(msh.VY.DataP[i])
	}
	for k := 0; k < msh.K; k++ {
		for n := 0; n < 3; n++ {
			cs.gm.TriVerts[k][n] = int64(msh.EToV.At(k, n))
		}
	}
	cs.vs = geometry.VertexScalar{
		TMesh:       &cs.gm,
		FieldValues: make([]float32, msh.VX.Len()),
	}
	cs.counts = make([]float64, msh.VX.Len())
	xMin, xMax, yMin, yMax := squareBoundingBox(
		float32(ip.Xmin), float32(ip.Xmax), float32(ip.Ymin), float32(ip.Ymax))
	cs.ch = chart2d.NewChart2D(xMin, xMax, yMin, yMax, 1920, 1080,
		avsUtils.WHITE, avsUtils.BLACK, 0.9)
	cs.ch.AddTriMesh(cs.gm)
	return
}

// plotLive renders the leading solution field. Vertex values are the
// average of the element corner node values sharing each vertex.
func (sim *Simulation) plotLive(Q []utils.Matrix) {
	if sim.chart == nil {
		sim.chart = sim.newChartState()
	}
	var (
		cs     = sim.chart
		msh    = sim.Dsc.Msh
		f      = Q[0]
		_, nc  = f.Dims()
		vertex = make([]float64, msh.VX.Len())
	)
	for i := range cs.counts {
		cs.counts[i] = 0
	}
	for k := 0; k < msh.K; k++ {
		for n, i := range cs.corners {
			v := int(msh.EToV.At(k, n))
			vertex[v] += f.DataP[k+i*nc]
			cs.counts[v]++
		}
	}
	fMin, fMax := math.MaxFloat64, -math.MaxFloat64
	for i, val := range vertex {
		if cs.counts[i] > 0 {
			val /= cs.counts[i]
		}
		cs.vs.FieldValues[i] = float32(val)
		if val < fMin {
			fMin = val
		}
		if val > fMax {
			fMax = val
		}
	}
	if fMax-fMin < 1.e-10 {
		fMax = fMin + 1.e-10
	}
	cs.ch.AddShadedVertexScalar(&cs.vs, float32(fMin), float32(fMax))
}

// cornerNodes locates the nodes at the reference triangle vertices.
func cornerNodes(R, S utils.Vector) (corners [3]int) {
	refs := [3][2]float64{{-1, -1}, {1, -1}, {-1, 1}}
	for n, ref := range refs {
		best := math.MaxFloat64
		for i := 0; i < R.Len(); i++ {
			d := math.Hypot(R.DataP[i]-ref[0], S.DataP[i]-ref[1])
			if d < best {
				best, corners[n] = d, i
			}
		}
	}
	return
}

func squareBoundingBox(xMin, xMax, yMin, yMax float32) (xBMin,
	xBMax, yBMin, yBMax float32) {
	xRange := xMax - xMin
	yRange := yMax - yMin
	if yRange > xRange {
		yBMin, yBMax = yMin, yMax
		xCent := xRange/2. + xMin
		xBMin = xCent - yRange/2.
		xBMax = xCent + yRange/2.
	} else {
		xBMin, xBMax = xMin, xMax
		yCent := yRange/2. + yMin
		yBMin = yCent - xRange/2.
		yBMax = yCent + xRange/2.
	}
	return
}
