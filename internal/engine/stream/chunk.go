// Package stream keeps the set of realized chunks in step with a moving viewpoint.
package stream

import (
	"github.com/Faultbox/voxelfield/internal/engine/mesh"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// State is a chunk's lifecycle stage. Unrequested and evicted chunks have no record.
type State int

const (
	StateQueued State = iota
	StateRealized
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateRealized:
		return "realized"
	default:
		return "unknown"
	}
}

// Chunk is the streamer's record for one chunk coordinate.
type Chunk struct {
	Coord     voxel.ChunkCoord
	State     State
	Generated int        // Voxels written by terrain population
	Mesh      *mesh.Mesh // Current mesh, nil until realized
	Builds    int        // Number of mesh builds, including re-meshes
}

// MeshSink receives meshes for rendering. Upload replaces any mesh previously
// uploaded for the coordinate.
type MeshSink interface {
	Upload(c voxel.ChunkCoord, m *mesh.Mesh)
	Dispose(c voxel.ChunkCoord)
}

// NopSink discards meshes.
type NopSink struct{}

func (NopSink) Upload(voxel.ChunkCoord, *mesh.Mesh) {}
func (NopSink) Dispose(voxel.ChunkCoord)            {}

// Populator writes terrain into a chunk. *terrain.Generator satisfies it.
type Populator interface {
	Populate(c voxel.ChunkCoord) (int, error)
}

// Mesher builds chunk geometry. *mesh.Builder satisfies it.
type Mesher interface {
	Build(c voxel.ChunkCoord) *mesh.Mesh
}
