// Package voxel provides sparse chunked voxel storage addressed by absolute
// world coordinates.
package voxel

import "fmt"

// ID is an opaque 8-bit material id. Air (0) is empty; every other id is solid.
type ID uint8

// Air is the empty voxel.
const Air ID = 0

// Solid reports whether the id blocks culling, picking and collision.
func (id ID) Solid() bool {
	return id != Air
}

// Pos is an absolute voxel coordinate.
type Pos struct {
	X, Y, Z int
}

// Add returns p offset by (dx, dy, dz).
func (p Pos) Add(dx, dy, dz int) Pos {
	return Pos{p.X + dx, p.Y + dy, p.Z + dz}
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d,%d,%d)", p.X, p.Y, p.Z)
}

// ChunkCoord identifies a chunk in chunk units.
type ChunkCoord struct {
	X, Y, Z int
}

func (c ChunkCoord) String() string {
	return fmt.Sprintf("[%d,%d,%d]", c.X, c.Y, c.Z)
}

// Neighbors returns the 6 orthogonally adjacent chunk coordinates
// in -x, +x, -y, +y, -z, +z order.
func (c ChunkCoord) Neighbors() [6]ChunkCoord {
	return [6]ChunkCoord{
		{c.X - 1, c.Y, c.Z}, {c.X + 1, c.Y, c.Z},
		{c.X, c.Y - 1, c.Z}, {c.X, c.Y + 1, c.Z},
		{c.X, c.Y, c.Z - 1}, {c.X, c.Y, c.Z + 1},
	}
}

// Dims holds the per-axis chunk size in voxels.
type Dims struct {
	X, Y, Z int
}

// Valid reports whether every axis is positive.
func (d Dims) Valid() bool {
	return d.X > 0 && d.Y > 0 && d.Z > 0
}

func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}

// Volume returns the number of voxels in one chunk.
func (d Dims) Volume() int {
	return d.X * d.Y * d.Z
}

// ChunkOf returns the chunk containing the voxel.
func (d Dims) ChunkOf(x, y, z int) ChunkCoord {
	return ChunkCoord{FloorDiv(x, d.X), FloorDiv(y, d.Y), FloorDiv(z, d.Z)}
}

// LocalOf returns the voxel offset inside its chunk. Never negative.
func (d Dims) LocalOf(x, y, z int) (lx, ly, lz int) {
	return Mod(x, d.X), Mod(y, d.Y), Mod(z, d.Z)
}

// Index returns the array index of a local offset: y-major, then z, then x.
func (d Dims) Index(lx, ly, lz int) int {
	return ly*(d.X*d.Z) + lz*d.X + lx
}

// Origin returns the absolute coordinate of the chunk's minimum corner.
func (d Dims) Origin(c ChunkCoord) Pos {
	return Pos{c.X * d.X, c.Y * d.Y, c.Z * d.Z}
}

// FloorDiv divides rounding toward negative infinity. b must be positive.
func FloorDiv(a, b int) int {
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// Mod is the Euclidean modulo: the result is in [0, b) for positive b.
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
