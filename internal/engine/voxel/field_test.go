package voxel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDims = Dims{X: 32, Y: 64, Z: 16}

func TestCoordinateMapping(t *testing.T) {
	for _, size := range []int{1, 7, 16, 32, 64} {
		for x := -10000; x < 10000; x++ {
			wantLocal := ((x % size) + size) % size
			if got := FloorDiv(x, size); got*size+wantLocal != x {
				t.Fatalf("FloorDiv(%d, %d) = %d, want floor", x, size, got)
			}
			if got := Mod(x, size); got != wantLocal {
				t.Fatalf("Mod(%d, %d) = %d, want %d", x, size, got, wantLocal)
			}
		}
	}
}

func TestNegativeCoordinates(t *testing.T) {
	c := testDims.ChunkOf(-1, -1, -1)
	assert.Equal(t, ChunkCoord{-1, -1, -1}, c)

	lx, ly, lz := testDims.LocalOf(-1, -1, -1)
	assert.Equal(t, 31, lx)
	assert.Equal(t, 63, ly)
	assert.Equal(t, 15, lz)

	c = testDims.ChunkOf(-32, -65, 16)
	assert.Equal(t, ChunkCoord{-1, -2, 1}, c)
}

func TestIndexLayout(t *testing.T) {
	assert.Equal(t, 0, testDims.Index(0, 0, 0))
	assert.Equal(t, 1, testDims.Index(1, 0, 0))
	assert.Equal(t, testDims.X, testDims.Index(0, 0, 1))
	assert.Equal(t, testDims.X*testDims.Z, testDims.Index(0, 1, 0))
	assert.Equal(t, testDims.Volume()-1, testDims.Index(testDims.X-1, testDims.Y-1, testDims.Z-1))
}

func TestReadAfterWrite(t *testing.T) {
	f := NewField(testDims)
	coords := []Pos{
		{0, 0, 0}, {31, 63, 15}, {32, 64, 16}, {-1, -1, -1},
		{-33, 5, -17}, {1000, -200, 77},
	}
	for _, p := range coords {
		for id := 0; id <= 255; id += 17 {
			require.NoError(t, f.Set(p.X, p.Y, p.Z, ID(id)))
			require.Equal(t, ID(id), f.Get(p.X, p.Y, p.Z), "voxel %v", p)
		}
	}
}

func TestEmptyChunkReadsAir(t *testing.T) {
	f := NewField(testDims)
	require.NoError(t, f.Set(0, 0, 0, 5))

	for _, p := range []Pos{{64, 0, 0}, {-1, 0, 0}, {5, 500, 5}} {
		assert.Equal(t, Air, f.Get(p.X, p.Y, p.Z))
	}
	assert.Equal(t, 1, f.Len())
}

func TestLazyAllocation(t *testing.T) {
	f := NewField(testDims)
	c := ChunkCoord{2, 0, -3}
	origin := testDims.Origin(c)

	_, ok := f.TryGet(c)
	assert.False(t, ok)
	assert.Equal(t, Air, f.Get(origin.X, origin.Y, origin.Z))
	assert.False(t, f.Has(c), "reads must not allocate")

	assert.False(t, f.SetIfLoaded(origin.X, origin.Y, origin.Z, 3))
	assert.False(t, f.Has(c))

	require.NoError(t, f.Set(origin.X, origin.Y, origin.Z, 3))
	assert.True(t, f.Has(c))
	assert.True(t, f.SetIfLoaded(origin.X+1, origin.Y, origin.Z, 4))
	assert.Equal(t, ID(4), f.Get(origin.X+1, origin.Y, origin.Z))

	data, ok := f.TryGet(c)
	require.True(t, ok)
	assert.Len(t, data, testDims.Volume())

	f.Delete(c)
	assert.Equal(t, Air, f.Get(origin.X, origin.Y, origin.Z))
}

func TestFieldCapacity(t *testing.T) {
	f := NewField(testDims, WithMaxChunks(1))
	require.NoError(t, f.Set(0, 0, 0, 1))
	require.NoError(t, f.Set(1, 1, 1, 1), "same chunk needs no allocation")

	err := f.Set(100, 0, 0, 1)
	assert.True(t, errors.Is(err, ErrFieldFull))
	assert.Equal(t, 1, f.Len())
}

func TestChunksSorted(t *testing.T) {
	f := NewField(testDims)
	for _, p := range []Pos{{40, 0, 0}, {-40, 0, 0}, {0, 70, 0}, {0, 0, 0}} {
		require.NoError(t, f.Set(p.X, p.Y, p.Z, 1))
	}
	assert.Equal(t, []ChunkCoord{{-2, 0, 0}, {0, 0, 0}, {0, 1, 0}, {1, 0, 0}}, f.Chunks())
}

func TestDigest(t *testing.T) {
	f := NewField(testDims)
	c := ChunkCoord{}
	assert.Zero(t, f.Digest(c))

	require.NoError(t, f.Set(1, 2, 3, 9))
	d1 := f.Digest(c)
	assert.Equal(t, d1, f.Digest(c))

	require.NoError(t, f.Set(1, 2, 3, 8))
	assert.NotEqual(t, d1, f.Digest(c))
}

func TestEditSet(t *testing.T) {
	s := NewEditSet()
	p := Pos{5, 3, 5}
	assert.False(t, s.Contains(p))
	s.Mark(p)
	s.Mark(p)
	assert.True(t, s.Contains(p))
	assert.Equal(t, 1, s.Len())

	var nilSet *EditSet
	assert.False(t, nilSet.Contains(p))
}

func TestNeighbors(t *testing.T) {
	n := ChunkCoord{1, 2, 3}.Neighbors()
	assert.Equal(t, ChunkCoord{0, 2, 3}, n[0])
	assert.Equal(t, ChunkCoord{1, 2, 4}, n[5])
}
