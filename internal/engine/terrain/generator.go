package terrain

import (
	"fmt"

	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// Generator fills chunks with terrain columns. Generation never overwrites a
// nonzero voxel or a user edit, so running it again over a generated chunk is a no-op.
type Generator struct {
	field  *voxel.Field
	edits  *voxel.EditSet
	noise  Noise
	cache  *NoiseCache
	params Params
}

// NewGenerator creates a generator writing into field. edits and cache may be nil.
func NewGenerator(field *voxel.Field, edits *voxel.EditSet, noise Noise, cache *NoiseCache, params Params) *Generator {
	if params.MinHeight < 1 {
		params.MinHeight = 1
	}
	if params.Solid == voxel.Air {
		params.Solid = DefaultParams().Solid
	}
	return &Generator{
		field:  field,
		edits:  edits,
		noise:  noise,
		cache:  cache,
		params: params,
	}
}

// Params returns the generator's tuning.
func (g *Generator) Params() Params {
	return g.params
}

// Populate writes terrain into chunk c and returns the number of voxels written.
// Columns are clipped to the chunk's vertical range and never go below y=0.
func (g *Generator) Populate(c voxel.ChunkCoord) (int, error) {
	dims := g.field.Dims()
	origin := dims.Origin(c)
	yMin := max(origin.Y, 0)
	yTop := origin.Y + dims.Y

	written := 0
	for lx := range dims.X {
		for lz := range dims.Z {
			x := origin.X + lx
			z := origin.Z + lz
			yEnd := min(g.Height(x, z), yTop)
			for y := yMin; y < yEnd; y++ {
				if g.field.Get(x, y, z) != voxel.Air || g.edits.Contains(voxel.Pos{X: x, Y: y, Z: z}) {
					continue
				}
				if err := g.field.Set(x, y, z, g.params.Solid); err != nil {
					return written, fmt.Errorf("populating chunk %v: %w", c, err)
				}
				written++
			}
		}
	}
	return written, nil
}
