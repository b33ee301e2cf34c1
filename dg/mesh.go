package dg

import (
	"fmt"

	"github.com/cfdlabs/gofluid/utils"
)

// ElementFace names one face of one element.
type ElementFace struct {
	K, Face int
}

// Mesh is an unstructured triangle mesh with named boundary face groups.
// Faces not covered by a named group fall under the "all" tag.
type Mesh struct {
	K       int
	VX, VY  utils.Vector
	EToV    utils.Matrix // K x 3 vertex indices, CCW
	BCFaces map[string][]ElementFace
}

// NewBoxMesh generates a regular triangle mesh of the rectangle
// [xmin,xmax] x [ymin,ymax] with nx by ny cells, two triangles per cell.
// Boundary faces are tagged "west", "east", "south", "north".
func NewBoxMesh(nx, ny int, xmin, xmax, ymin, ymax float64) (msh *Mesh) {
	if nx < 1 || ny < 1 {
		panic(fmt.Errorf("box mesh needs at least one cell per direction, have %d x %d", nx, ny))
	}
	var (
		nvx = nx + 1
		nvy = ny + 1
		K   = 2 * nx * ny
	)
	msh = &Mesh{
		K:       K,
		VX:      utils.NewVector(nvx * nvy),
		VY:      utils.NewVector(nvx * nvy),
		EToV:    utils.NewMatrix(K, 3),
		BCFaces: make(map[string][]ElementFace),
	}
	dx := (xmax - xmin) / float64(nx)
	dy := (ymax - ymin) / float64(ny)
	for j := 0; j < nvy; j++ {
		for i := 0; i < nvx; i++ {
			v := i + j*nvx
			msh.VX.DataP[v] = xmin + float64(i)*dx
			msh.VY.DataP[v] = ymin + float64(j)*dy
		}
	}
	var k int
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			v00 := i + j*nvx
			v10 := v00 + 1
			v01 := v00 + nvx
			v11 := v01 + 1
			// Lower right triangle: local faces are (0-1) bottom,
			// (1-2) right, (0-2) diagonal
			msh.EToV.Set(k, 0, float64(v00))
			msh.EToV.Set(k, 1, float64(v10))
			msh.EToV.Set(k, 2, float64(v11))
			if j == 0 {
				msh.tagFace("south", k, 0)
			}
			if i == nx-1 {
				msh.tagFace("east", k, 1)
			}
			k++
			// Upper left triangle: (0-1) diagonal, (1-2) top, (0-2) left
			msh.EToV.Set(k, 0, float64(v00))
			msh.EToV.Set(k, 1, float64(v11))
			msh.EToV.Set(k, 2, float64(v01))
			if j == ny-1 {
				msh.tagFace("north", k, 1)
			}
			if i == 0 {
				msh.tagFace("west", k, 2)
			}
			k++
		}
	}
	return
}

func (msh *Mesh) tagFace(tag string, k, face int) {
	msh.BCFaces[tag] = append(msh.BCFaces[tag], ElementFace{K: k, Face: face})
}

// BoundaryTags lists the tags present in the mesh.
func (msh *Mesh) BoundaryTags() (tags []string) {
	for tag := range msh.BCFaces {
		tags = append(tags, tag)
	}
	return
}

// NumBoundaryFaces counts all tagged boundary faces.
func (msh *Mesh) NumBoundaryFaces() (nbf int) {
	for _, faces := range msh.BCFaces {
		nbf += len(faces)
	}
	return
}
