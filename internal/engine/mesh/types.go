// Package mesh converts voxel chunks into face-culled triangle geometry.
package mesh

import (
	"errors"

	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// ErrEmptyGeometry is returned when bounds are requested for a mesh with no vertices.
var ErrEmptyGeometry = errors.New("mesh has no geometry")

// Mesh holds chunk geometry ready for upload. Positions are chunk-local;
// the renderer places the mesh at Origin.
type Mesh struct {
	Coord  voxel.ChunkCoord
	Origin voxel.Pos

	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	UVs       []float32 // uv per vertex
	Indices   []uint32

	Bounds    Bounds
	HasBounds bool
}

// Bounds holds the axis-aligned bounding box of a mesh in chunk-local space.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount returns the number of emitted quads.
func (m *Mesh) FaceCount() int {
	return len(m.Indices) / 6
}

// Empty reports whether the mesh has no faces.
func (m *Mesh) Empty() bool {
	return len(m.Indices) == 0
}

// ComputeBounds fills Bounds from the vertex positions.
func (m *Mesh) ComputeBounds() error {
	if m.VertexCount() == 0 {
		m.HasBounds = false
		return ErrEmptyGeometry
	}

	b := Bounds{
		Min: [3]float32{1e10, 1e10, 1e10},
		Max: [3]float32{-1e10, -1e10, -1e10},
	}
	for i := 0; i+2 < len(m.Positions); i += 3 {
		updateBounds(&b, [3]float32{m.Positions[i], m.Positions[i+1], m.Positions[i+2]})
	}
	m.Bounds = b
	m.HasBounds = true
	return nil
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
