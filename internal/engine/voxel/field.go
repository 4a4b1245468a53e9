package voxel

import (
	"errors"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// ErrFieldFull is returned when a write needs a new chunk and the field is at capacity.
var ErrFieldFull = errors.New("voxel field at chunk capacity")

// Field maps chunk coordinates to dense id arrays. A chunk exists only after
// something was written into it; absent chunks read as Air.
//
// Field is not safe for concurrent use.
type Field struct {
	dims      Dims
	maxChunks int
	chunks    map[ChunkCoord][]ID
}

// Option configures a Field.
type Option func(*Field)

// WithMaxChunks caps the number of allocated chunks. Zero means unlimited.
func WithMaxChunks(n int) Option {
	return func(f *Field) {
		f.maxChunks = n
	}
}

// NewField creates an empty field with the given chunk dimensions.
func NewField(dims Dims, opts ...Option) *Field {
	f := &Field{
		dims:   dims,
		chunks: make(map[ChunkCoord][]ID),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Dims returns the chunk dimensions.
func (f *Field) Dims() Dims {
	return f.dims
}

// TryGet returns the chunk array without allocating.
func (f *Field) TryGet(c ChunkCoord) ([]ID, bool) {
	data, ok := f.chunks[c]
	return data, ok
}

// GetOrCreate returns the chunk array, allocating a zero-filled one if absent.
func (f *Field) GetOrCreate(c ChunkCoord) ([]ID, error) {
	if data, ok := f.chunks[c]; ok {
		return data, nil
	}
	if f.maxChunks > 0 && len(f.chunks) >= f.maxChunks {
		return nil, ErrFieldFull
	}
	data := make([]ID, f.dims.Volume())
	f.chunks[c] = data
	return data, nil
}

// Get returns the voxel at an absolute coordinate.
func (f *Field) Get(x, y, z int) ID {
	data, ok := f.chunks[f.dims.ChunkOf(x, y, z)]
	if !ok {
		return Air
	}
	lx, ly, lz := f.dims.LocalOf(x, y, z)
	return data[f.dims.Index(lx, ly, lz)]
}

// Set writes a voxel, allocating its chunk on first write.
func (f *Field) Set(x, y, z int, id ID) error {
	data, err := f.GetOrCreate(f.dims.ChunkOf(x, y, z))
	if err != nil {
		return err
	}
	lx, ly, lz := f.dims.LocalOf(x, y, z)
	data[f.dims.Index(lx, ly, lz)] = id
	return nil
}

// SetIfLoaded writes a voxel only if its chunk is already allocated.
func (f *Field) SetIfLoaded(x, y, z int, id ID) bool {
	data, ok := f.chunks[f.dims.ChunkOf(x, y, z)]
	if !ok {
		return false
	}
	lx, ly, lz := f.dims.LocalOf(x, y, z)
	data[f.dims.Index(lx, ly, lz)] = id
	return true
}

// Has reports whether the chunk has been allocated.
func (f *Field) Has(c ChunkCoord) bool {
	_, ok := f.chunks[c]
	return ok
}

// Delete frees a chunk's voxel data.
func (f *Field) Delete(c ChunkCoord) {
	delete(f.chunks, c)
}

// Len returns the number of allocated chunks.
func (f *Field) Len() int {
	return len(f.chunks)
}

// Chunks returns the allocated chunk coordinates in x, y, z order.
func (f *Field) Chunks() []ChunkCoord {
	keys := make([]ChunkCoord, 0, len(f.chunks))
	for k := range f.chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].X != keys[j].X {
			return keys[i].X < keys[j].X
		}
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].Z < keys[j].Z
	})
	return keys
}

// Digest hashes a chunk's raw contents. Absent chunks hash to 0.
func (f *Field) Digest(c ChunkCoord) uint64 {
	data, ok := f.chunks[c]
	if !ok {
		return 0
	}
	buf := make([]byte, len(data))
	for i, v := range data {
		buf[i] = byte(v)
	}
	return xxhash.Sum64(buf)
}
