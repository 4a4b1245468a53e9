package terrain

import "math"

// FractalNoise returns the normalized multi-octave sample at a world column.
// Frequency doubles and amplitude decays by Persistence each octave.
func (g *Generator) FractalNoise(x, z int) float64 {
	p := g.params
	key := noiseKey(x, z, p.Octaves, p.Persistence, p.Scale)
	if v, ok := g.cache.get(key); ok {
		return v
	}

	total := 0.0
	maxValue := 0.0
	frequency := p.Scale
	amplitude := 1.0
	for range p.Octaves {
		total += g.noise.Noise2D(float64(x)*frequency, float64(z)*frequency) * amplitude
		maxValue += amplitude
		amplitude *= p.Persistence
		frequency *= 2
	}

	result := 0.0
	if maxValue > 0 {
		result = total / maxValue
	}
	g.cache.put(key, result)
	return result
}

// Height returns the number of solid voxels in the column at (x, z).
func (g *Generator) Height(x, z int) int {
	p := g.params
	h := int(math.Floor(g.FractalNoise(x, z)*p.HeightScale + p.HeightOffset))
	if h < p.MinHeight {
		return p.MinHeight
	}
	return h
}
