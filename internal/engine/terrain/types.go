// Package terrain populates voxel chunks from a fractal height function.
package terrain

import "github.com/Faultbox/voxelfield/internal/engine/voxel"

// Noise is a 2-D coherent noise source returning values in roughly [-1, 1].
// *perlin.Perlin satisfies it.
type Noise interface {
	Noise2D(x, y float64) float64
}

// Params holds the height function tuning.
type Params struct {
	Octaves      int     // Number of noise octaves summed per sample
	Persistence  float64 // Amplitude decay per octave
	Scale        float64 // Base frequency
	HeightScale  float64 // Multiplier applied to the normalized sample
	HeightOffset float64 // Added after scaling
	MinHeight    int     // Lowest column height, keeps columns from going empty
	Solid        voxel.ID
}

// DefaultParams returns the world-tuned generation constants.
func DefaultParams() Params {
	return Params{
		Octaves:      4,
		Persistence:  0.5,
		Scale:        0.02,
		HeightScale:  50,
		HeightOffset: 10,
		MinHeight:    1,
		Solid:        14,
	}
}
