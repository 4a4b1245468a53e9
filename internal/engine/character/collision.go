package character

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelfield/internal/engine/picking"
)

// groundProbes are the XZ offsets tried when the centre ray finds no ground.
var groundProbes = [9][2]float32{
	{0, 0},
	{0.5, 0}, {0, 0.5}, {-0.5, 0}, {0, -0.5},
	{0.5, 0.5}, {-0.5, 0.5}, {0.5, -0.5}, {-0.5, -0.5},
}

// Resolver answers collision and ground queries for a Body.
type Resolver struct {
	q          VoxelQuery
	body       Body
	probeDepth float32
}

// NewResolver creates a resolver over q.
func NewResolver(q VoxelQuery, body Body) *Resolver {
	return &Resolver{q: q, body: body, probeDepth: DefaultProbeDepth}
}

// Body returns the collision volume.
func (r *Resolver) Body() Body {
	return r.body
}

// Collides reports whether the body with its eye at pos overlaps a solid voxel.
// It samples the four bottom and four top corners of the footprint plus the
// bottom and top centres.
func (r *Resolver) Collides(pos mgl32.Vec3) bool {
	b := r.body
	bottom := pos.Y() - b.EyeHeight
	top := bottom + b.Height
	x0, x1 := pos.X()-b.Radius, pos.X()+b.Radius
	z0, z1 := pos.Z()-b.Radius, pos.Z()+b.Radius

	points := [10]mgl32.Vec3{
		{x0, bottom, z0}, {x1, bottom, z0}, {x0, bottom, z1}, {x1, bottom, z1},
		{x0, top, z0}, {x1, top, z0}, {x0, top, z1}, {x1, top, z1},
		{pos.X(), bottom, pos.Z()}, {pos.X(), top, pos.Z()},
	}
	for _, p := range points {
		if r.solidAt(p) {
			return true
		}
	}
	return false
}

func (r *Resolver) solidAt(p mgl32.Vec3) bool {
	x := int(math.Floor(float64(p.X())))
	y := int(math.Floor(float64(p.Y())))
	z := int(math.Floor(float64(p.Z())))
	return r.q.Get(x, y, z).Solid()
}

// GroundHeight returns the y of the first solid surface below pos. When the
// ray straight down misses, the highest hit among offset probes around the
// footprint is used; 0 when every probe misses.
func (r *Resolver) GroundHeight(pos mgl32.Vec3) float32 {
	found := false
	ground := float32(0)
	for i, off := range groundProbes {
		start := mgl32.Vec3{pos.X() + off[0], pos.Y(), pos.Z() + off[1]}
		end := start.Sub(mgl32.Vec3{0, r.probeDepth, 0})
		hit, ok := picking.Intersect(r.q, start, end)
		if !ok {
			continue
		}
		if i == 0 {
			return hit.Position.Y()
		}
		if !found || hit.Position.Y() > ground {
			ground = hit.Position.Y()
			found = true
		}
	}
	return ground
}
