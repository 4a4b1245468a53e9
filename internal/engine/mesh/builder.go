package mesh

import "github.com/Faultbox/voxelfield/internal/engine/voxel"

// VoxelSource is read access to voxels by absolute coordinate.
// *voxel.Field satisfies it.
type VoxelSource interface {
	Get(x, y, z int) voxel.ID
	Dims() voxel.Dims
}

// Builder turns chunks of a voxel source into meshes.
type Builder struct {
	src   VoxelSource
	atlas Atlas
}

// NewBuilder creates a builder reading from src.
func NewBuilder(src VoxelSource, atlas Atlas) *Builder {
	return &Builder{src: src, atlas: atlas}
}

// Atlas returns the atlas used for UVs.
func (b *Builder) Atlas() Atlas {
	return b.atlas
}

// Build emits one quad for every solid voxel face whose neighbour is Air.
// Neighbours are read by absolute coordinate, so faces on a chunk border are
// culled against the adjacent chunk. An absent chunk reads as Air.
func (b *Builder) Build(c voxel.ChunkCoord) *Mesh {
	dims := b.src.Dims()
	origin := dims.Origin(c)
	m := &Mesh{Coord: c, Origin: origin}

	for ly := range dims.Y {
		for lz := range dims.Z {
			for lx := range dims.X {
				x, y, z := origin.X+lx, origin.Y+ly, origin.Z+lz
				id := b.src.Get(x, y, z)
				if !id.Solid() {
					continue
				}
				for i := range Faces {
					f := &Faces[i]
					if b.src.Get(x+f.Dir[0], y+f.Dir[1], z+f.Dir[2]).Solid() {
						continue
					}
					b.emitFace(m, f, id, float32(lx), float32(ly), float32(lz))
				}
			}
		}
	}
	return m
}

func (b *Builder) emitFace(m *Mesh, f *Face, id voxel.ID, x, y, z float32) {
	n := uint32(m.VertexCount())
	for _, corner := range f.Corners {
		m.Positions = append(m.Positions, x+corner.Pos[0], y+corner.Pos[1], z+corner.Pos[2])
		m.Normals = append(m.Normals, float32(f.Dir[0]), float32(f.Dir[1]), float32(f.Dir[2]))
		uv := b.atlas.UV(id, f.UVRow, corner.UV)
		m.UVs = append(m.UVs, uv[0], uv[1])
	}
	m.Indices = append(m.Indices, n, n+1, n+2, n+2, n+1, n+3)
}
