package picking

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

type cells map[voxel.Pos]voxel.ID

func (c cells) Get(x, y, z int) voxel.ID {
	return c[voxel.Pos{X: x, Y: y, Z: z}]
}

func TestIntersectFromAbove(t *testing.T) {
	q := cells{{X: 0, Y: 0, Z: 0}: 7}

	hit, ok := Intersect(q, mgl32.Vec3{0.5, 10.5, 0.5}, mgl32.Vec3{0.5, -10, 0.5})
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{}, hit.Cell)
	assert.Equal(t, voxel.ID(7), hit.Voxel)
	assert.Equal(t, [3]int{0, 1, 0}, hit.Normal)
	assert.InDelta(t, 1.0, hit.Position.Y(), 1e-6)
	assert.InDelta(t, 0.5, hit.Position.X(), 1e-6)

	assert.Equal(t, voxel.Pos{X: 0, Y: 1, Z: 0}, hit.PlaceTarget())
	assert.Equal(t, voxel.Pos{}, hit.RemoveTarget())
}

func TestIntersectSideFace(t *testing.T) {
	q := cells{{X: 2, Y: 0, Z: 0}: 1}

	hit, ok := Intersect(q, mgl32.Vec3{-5.5, 0.5, 0.5}, mgl32.Vec3{5, 0.5, 0.5})
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{X: 2}, hit.Cell)
	assert.Equal(t, [3]int{-1, 0, 0}, hit.Normal)
	assert.InDelta(t, 2.0, hit.Position.X(), 1e-6)
	assert.Equal(t, voxel.Pos{X: 1}, hit.PlaceTarget())
	assert.Equal(t, voxel.Pos{X: 2}, hit.RemoveTarget())
}

func TestIntersectNegativeZ(t *testing.T) {
	q := cells{{X: 0, Y: 0, Z: -3}: 2}

	hit, ok := Intersect(q, mgl32.Vec3{0.5, 0.5, 5.5}, mgl32.Vec3{0.5, 0.5, -5})
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{Z: -3}, hit.Cell)
	assert.Equal(t, [3]int{0, 0, 1}, hit.Normal)
	assert.Equal(t, voxel.Pos{Z: -2}, hit.PlaceTarget())
}

func TestIntersectZeroLength(t *testing.T) {
	q := cells{{}: 1}
	p := mgl32.Vec3{0.5, 0.5, 0.5}

	_, ok := Intersect(q, p, p)
	assert.False(t, ok)
}

func TestIntersectStartInsideSolid(t *testing.T) {
	q := cells{{X: 1, Y: 1, Z: 1}: 4}

	hit, ok := Intersect(q, mgl32.Vec3{1.25, 1.5, 1.75}, mgl32.Vec3{9, 9, 9})
	require.True(t, ok)
	assert.Equal(t, [3]int{}, hit.Normal)
	assert.Equal(t, mgl32.Vec3{1.25, 1.5, 1.75}, hit.Position)
	assert.Equal(t, voxel.Pos{X: 1, Y: 1, Z: 1}, hit.RemoveTarget())
}

func TestIntersectBoundedBySegment(t *testing.T) {
	q := cells{{}: 1}

	// The voxel's top face is 9.5 units away; the segment is 8.5 long.
	_, ok := Intersect(q, mgl32.Vec3{0.5, 10.5, 0.5}, mgl32.Vec3{0.5, 2, 0.5})
	assert.False(t, ok)

	_, ok = Intersect(q, mgl32.Vec3{0.5, 10.5, 0.5}, mgl32.Vec3{0.5, 1, 0.5})
	assert.True(t, ok, "a segment ending exactly on the face still hits")
}

func TestIntersectEmptyWorld(t *testing.T) {
	_, ok := Intersect(cells{}, mgl32.Vec3{-3.2, 4.1, 7.7}, mgl32.Vec3{40, -20, -33})
	assert.False(t, ok)
}

func TestIntersectDiagonalTies(t *testing.T) {
	q := cells{{X: 3, Y: 3, Z: 0}: 1}

	// On exact ties y steps before x, so the path staircases through
	// (0,1), (1,1), (1,2), (2,2), (2,3) and enters (3,3) along x.
	hit, ok := Intersect(q, mgl32.Vec3{0.5, 0.5, 0.5}, mgl32.Vec3{10.5, 10.5, 0.5})
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{X: 3, Y: 3}, hit.Cell)
	assert.Equal(t, [3]int{-1, 0, 0}, hit.Normal)
	assert.InDelta(t, 3.0, hit.Position.X(), 1e-5)
}

func TestIntersectField(t *testing.T) {
	field := voxel.NewField(voxel.Dims{X: 8, Y: 8, Z: 8})
	require.NoError(t, field.Set(-9, 3, 12, 5))

	hit, ok := Intersect(field, mgl32.Vec3{-7.5, 3.5, 12.5}, mgl32.Vec3{-20, 3.5, 12.5})
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{X: -9, Y: 3, Z: 12}, hit.Cell)
	assert.Equal(t, [3]int{1, 0, 0}, hit.Normal)
	assert.Equal(t, voxel.Pos{X: -8, Y: 3, Z: 12}, hit.PlaceTarget())
}
