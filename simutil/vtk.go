package simutil

import (
	"bufio"
	"fmt"
	"math"
	"os"

	"github.com/cfdlabs/gofluid/dg"
	"github.com/cfdlabs/gofluid/utils"
)

// VizField pairs a name with a solution field for output.
type VizField struct {
	Name string
	F    utils.Matrix
}

// WriteVTK dumps the mesh and nodal fields sampled at the element corners
// as a legacy ASCII VTK unstructured grid, one linear triangle per
// element. Writers elsewhere key on the step number in the file name.
func WriteVTK(path string, dsc *dg.Discretization, fields []VizField) (err error) {
	var (
		K       = dsc.K
		corners = cornerNodes(dsc.El)
	)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vtk %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	fmt.Fprintf(w, "# vtk DataFile Version 3.0\nsolution\nASCII\nDATASET UNSTRUCTURED_GRID\n")
	fmt.Fprintf(w, "POINTS %d double\n", 3*K)
	for k := 0; k < K; k++ {
		for _, c := range corners {
			ind := k + c*K
			fmt.Fprintf(w, "%.12g %.12g 0\n", dsc.X.DataP[ind], dsc.Y.DataP[ind])
		}
	}
	fmt.Fprintf(w, "CELLS %d %d\n", K, 4*K)
	for k := 0; k < K; k++ {
		fmt.Fprintf(w, "3 %d %d %d\n", 3*k, 3*k+1, 3*k+2)
	}
	fmt.Fprintf(w, "CELL_TYPES %d\n", K)
	for k := 0; k < K; k++ {
		fmt.Fprintf(w, "5\n") // VTK_TRIANGLE
	}
	fmt.Fprintf(w, "POINT_DATA %d\n", 3*K)
	for _, vf := range fields {
		fmt.Fprintf(w, "SCALARS %s double 1\nLOOKUP_TABLE default\n", vf.Name)
		for k := 0; k < K; k++ {
			for _, c := range corners {
				fmt.Fprintf(w, "%.12g\n", vf.F.DataP[k+c*K])
			}
		}
	}
	return nil
}

// cornerNodes locates the three vertex nodes of the reference triangle.
func cornerNodes(el *dg.Element2D) (corners [3]int) {
	targets := [3][2]float64{{-1, -1}, {1, -1}, {-1, 1}}
	for c, tgt := range targets {
		best, bestD := -1, math.MaxFloat64
		for i := 0; i < el.Np; i++ {
			dr := el.R.AtVec(i) - tgt[0]
			ds := el.S.AtVec(i) - tgt[1]
			if d := dr*dr + ds*ds; d < bestD {
				best, bestD = i, d
			}
		}
		corners[c] = best
	}
	return
}
