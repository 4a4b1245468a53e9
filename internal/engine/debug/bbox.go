// Package debug builds line geometry for debug overlays.
package debug

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelfield/internal/engine/mesh"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// WireframeVertexCount is the number of vertices in a box wireframe (12 edges x 2).
const WireframeVertexCount = 24

// DefaultOutlinePadding keeps a voxel outline from z-fighting with its faces.
const DefaultOutlinePadding = 0.002

// Wireframe returns line-list vertices, xyz per vertex, for the box min..max.
func Wireframe(lo, hi mgl32.Vec3) []float32 {
	x0, y0, z0 := lo.Elem()
	x1, y1, z1 := hi.Elem()
	return []float32{
		// Bottom
		x0, y0, z0, x1, y0, z0,
		x1, y0, z0, x1, y0, z1,
		x1, y0, z1, x0, y0, z1,
		x0, y0, z1, x0, y0, z0,
		// Top
		x0, y1, z0, x1, y1, z0,
		x1, y1, z0, x1, y1, z1,
		x1, y1, z1, x0, y1, z1,
		x0, y1, z1, x0, y1, z0,
		// Verticals
		x0, y0, z0, x0, y1, z0,
		x1, y0, z0, x1, y1, z0,
		x1, y0, z1, x1, y1, z1,
		x0, y0, z1, x0, y1, z1,
	}
}

// VoxelOutline returns the wireframe of one voxel cell grown by padding on every side.
func VoxelOutline(cell voxel.Pos, padding float32) []float32 {
	lo := mgl32.Vec3{float32(cell.X), float32(cell.Y), float32(cell.Z)}
	hi := lo.Add(mgl32.Vec3{1, 1, 1})
	pad := mgl32.Vec3{padding, padding, padding}
	return Wireframe(lo.Sub(pad), hi.Add(pad))
}

// MeshBounds returns the world-space wireframe of a chunk mesh's bounds.
func MeshBounds(m *mesh.Mesh) ([]float32, error) {
	if !m.HasBounds {
		if err := m.ComputeBounds(); err != nil {
			return nil, err
		}
	}
	o := mgl32.Vec3{float32(m.Origin.X), float32(m.Origin.Y), float32(m.Origin.Z)}
	return Wireframe(o.Add(m.Bounds.Min), o.Add(m.Bounds.Max)), nil
}
