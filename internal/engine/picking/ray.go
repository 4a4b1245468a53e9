// Package picking casts segments through the voxel grid.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// VoxelQuery reads voxels by absolute coordinate. *voxel.Field satisfies it.
type VoxelQuery interface {
	Get(x, y, z int) voxel.ID
}

// Hit describes the first solid voxel along a segment.
type Hit struct {
	Position mgl32.Vec3 // Point where the segment enters the voxel
	Normal   [3]int     // Face entered through; zero when the start cell is solid
	Voxel    voxel.ID
	Cell     voxel.Pos
}

// PlaceTarget returns the empty cell in front of the hit face.
func (h Hit) PlaceTarget() voxel.Pos {
	return h.offsetCell(0.5)
}

// RemoveTarget returns the hit voxel's cell.
func (h Hit) RemoveTarget() voxel.Pos {
	return h.offsetCell(-0.5)
}

func (h Hit) offsetCell(k float64) voxel.Pos {
	return voxel.Pos{
		X: int(math.Floor(float64(h.Position.X()) + k*float64(h.Normal[0]))),
		Y: int(math.Floor(float64(h.Position.Y()) + k*float64(h.Normal[1]))),
		Z: int(math.Floor(float64(h.Position.Z()) + k*float64(h.Normal[2]))),
	}
}

// axis holds the DDA state along one axis.
type axis struct {
	cell  int
	step  int
	delta float64 // t to cross one cell
	next  float64 // t of the next boundary
}

func newAxis(start, dir float64) axis {
	a := axis{cell: int(math.Floor(start)), step: -1}
	if dir > 0 {
		a.step = 1
	}
	if dir == 0 {
		a.delta = math.Inf(1)
		a.next = math.Inf(1)
		return a
	}
	a.delta = math.Abs(1 / dir)
	if a.step > 0 {
		a.next = a.delta * (float64(a.cell) + 1 - start)
	} else {
		a.next = a.delta * (start - float64(a.cell))
	}
	return a
}

// Intersect walks the cells crossed by the segment start->end and returns the
// first solid one. Arithmetic runs in float64. A zero-length segment never hits.
func Intersect(q VoxelQuery, start, end mgl32.Vec3) (Hit, bool) {
	sx, sy, sz := float64(start.X()), float64(start.Y()), float64(start.Z())
	dx, dy, dz := float64(end.X())-sx, float64(end.Y())-sy, float64(end.Z())-sz
	length := math.Sqrt(dx*dx + dy*dy + dz*dz)
	if length == 0 || math.IsNaN(length) {
		return Hit{}, false
	}
	dx /= length
	dy /= length
	dz /= length

	axes := [3]axis{newAxis(sx, dx), newAxis(sy, dy), newAxis(sz, dz)}
	x, y, z := &axes[0], &axes[1], &axes[2]

	t := 0.0
	stepped := -1
	for t <= length {
		if id := q.Get(x.cell, y.cell, z.cell); id.Solid() {
			hit := Hit{
				Position: mgl32.Vec3{float32(sx + t*dx), float32(sy + t*dy), float32(sz + t*dz)},
				Voxel:    id,
				Cell:     voxel.Pos{X: x.cell, Y: y.cell, Z: z.cell},
			}
			if stepped >= 0 {
				hit.Normal[stepped] = -axes[stepped].step
			}
			return hit, true
		}

		// x wins only when strictly nearest, y when strictly before z.
		switch {
		case x.next < y.next && x.next < z.next:
			stepped = 0
		case x.next >= y.next && y.next < z.next:
			stepped = 1
		default:
			stepped = 2
		}
		a := &axes[stepped]
		a.cell += a.step
		t = a.next
		a.next += a.delta
	}
	return Hit{}, false
}
