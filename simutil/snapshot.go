package simutil

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cfdlabs/gofluid/utils"
)

// Field is the serialized form of one solution matrix.
type Field struct {
	Nr, Nc int
	Data   []float64
}

// MeshRecord identifies the box mesh a snapshot was written on. A
// snapshot only restores onto the mesh it came from.
type MeshRecord struct {
	Nx, Ny                 int
	Xmin, Xmax, Ymin, Ymax float64
}

// Snapshot is the restart record for one partition of a run. Restarting
// requires the same mesh and partition count the snapshot was written
// with.
type Snapshot struct {
	Step            int
	Time            float64
	Order           int
	Mesh            MeshRecord
	GlobalNelements int
	NumParts        int
	PartID          int
	Fields          []Field
}

// SnapshotName returns the per-step, per-partition restart file name,
// e.g. "vortex-0100-0003.gob".
func SnapshotName(caseName string, step, part int) string {
	return fmt.Sprintf("%s-%04d-%04d.gob", caseName, step, part)
}

// PackFields captures solution matrices into serializable fields.
func PackFields(Q []utils.Matrix) (fields []Field) {
	fields = make([]Field, len(Q))
	for n, q := range Q {
		nr, nc := q.Dims()
		fields[n] = Field{Nr: nr, Nc: nc, Data: append([]float64(nil), q.DataP...)}
	}
	return
}

// UnpackFields rebuilds solution matrices from snapshot fields.
func UnpackFields(fields []Field) (Q []utils.Matrix) {
	Q = make([]utils.Matrix, len(fields))
	for n, f := range fields {
		Q[n] = utils.NewMatrix(f.Nr, f.Nc, append([]float64(nil), f.Data...))
	}
	return
}

// WriteSnapshot writes the record to dir under the canonical name. The
// write goes through a temp file and rename, so a crash mid-write never
// corrupts an existing snapshot.
func WriteSnapshot(dir, caseName string, snap Snapshot) (path string, err error) {
	path = filepath.Join(dir, SnapshotName(caseName, snap.Step, snap.PartID))
	tmp, err := os.CreateTemp(dir, SnapshotName(caseName, snap.Step, snap.PartID)+".tmp*")
	if err != nil {
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())
	if err = gob.NewEncoder(tmp).Encode(snap); err != nil {
		tmp.Close()
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("snapshot %s: %w", path, err)
	}
	return path, nil
}

// ReadSnapshot loads the restart record for one partition of a step and
// checks it against the current run layout.
func ReadSnapshot(dir, caseName string, step, part, expectParts int) (snap Snapshot, err error) {
	path := filepath.Join(dir, SnapshotName(caseName, step, part))
	f, err := os.Open(path)
	if err != nil {
		return snap, fmt.Errorf("restart %s: %w", path, err)
	}
	defer f.Close()
	if err = gob.NewDecoder(f).Decode(&snap); err != nil {
		return snap, fmt.Errorf("restart %s: %w", path, err)
	}
	if snap.NumParts != expectParts {
		return snap, fmt.Errorf("restart %s: snapshot was written with %d partitions, running with %d",
			path, snap.NumParts, expectParts)
	}
	if snap.PartID != part {
		return snap, fmt.Errorf("restart %s: partition id %d does not match requested %d",
			path, snap.PartID, part)
	}
	return snap, nil
}
