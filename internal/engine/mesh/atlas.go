package mesh

import "github.com/Faultbox/voxelfield/internal/engine/voxel"

// Atlas describes the block texture atlas: one column per voxel id
// (id 1 in column 0), one row per face group.
type Atlas struct {
	TileSize int // Tile edge in pixels
	Width    int // Atlas width in pixels
	Height   int // Atlas height in pixels
}

// DefaultAtlas returns the 16px tile, 256x64 atlas layout.
func DefaultAtlas() Atlas {
	return Atlas{TileSize: 16, Width: 256, Height: 64}
}

// UV maps a face corner's unit UV into atlas space for a voxel id and row.
// V is flipped so row 0 sits at the top of the image.
func (a Atlas) UV(id voxel.ID, row int, corner [2]float32) [2]float32 {
	tile := float32(a.TileSize)
	u := (float32(int(id)-1) + corner[0]) * tile / float32(a.Width)
	v := 1 - (float32(row+1)-corner[1])*tile/float32(a.Height)
	return [2]float32{u, v}
}
