package terrain

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/dgraph-io/ristretto"
)

// Perlin noise settings for a single octave; octave summing is done by the generator.
const (
	perlinAlpha   = 2.0
	perlinBeta    = 2.0
	perlinOctaves = 1
)

// NewPerlin returns a seeded single-octave Perlin source.
func NewPerlin(seed int64) Noise {
	return perlin.NewPerlin(perlinAlpha, perlinBeta, perlinOctaves, seed)
}

// NoiseCache memoizes fractal samples. Samples are pure, so an evicted or
// dropped entry only costs a recomputation. A nil cache is valid and caches nothing.
type NoiseCache struct {
	cache *ristretto.Cache
}

// NewNoiseCache creates a cache holding roughly size samples.
// A non-positive size returns a nil (disabled) cache.
func NewNoiseCache(size int64) (*NoiseCache, error) {
	if size <= 0 {
		return nil, nil
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: size * 10,
		MaxCost:     size,
		BufferItems: 64,
		// Every entry costs 1, so MaxCost is an entry count.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating noise cache: %w", err)
	}
	return &NoiseCache{cache: c}, nil
}

// noiseKey encodes a sample's full input. Byte keys keep ristretto's
// conflict hash, so distinct inputs never share an entry.
func noiseKey(x, z, octaves int, persistence, scale float64) []byte {
	var k [40]byte
	binary.LittleEndian.PutUint64(k[0:], uint64(int64(x)))
	binary.LittleEndian.PutUint64(k[8:], uint64(int64(z)))
	binary.LittleEndian.PutUint64(k[16:], uint64(int64(octaves)))
	binary.LittleEndian.PutUint64(k[24:], math.Float64bits(persistence))
	binary.LittleEndian.PutUint64(k[32:], math.Float64bits(scale))
	return k[:]
}

func (c *NoiseCache) get(key []byte) (float64, bool) {
	if c == nil {
		return 0, false
	}
	v, ok := c.cache.Get(key)
	if !ok {
		return 0, false
	}
	f, ok := v.(float64)
	return f, ok
}

func (c *NoiseCache) put(key []byte, v float64) {
	if c == nil {
		return
	}
	c.cache.Set(key, v, 1)
}

// Wait blocks until buffered writes are applied.
func (c *NoiseCache) Wait() {
	if c != nil {
		c.cache.Wait()
	}
}

// Close stops the cache's background goroutines.
func (c *NoiseCache) Close() {
	if c != nil {
		c.cache.Close()
	}
}
