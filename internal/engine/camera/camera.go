// Package camera provides the first-person view used for looking, steering
// and picking.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Look limits
const (
	MaxPitch = math.Pi / 2

	DefaultSensitivity = 0.002 // Radians per pixel of mouse motion
	DefaultFOV         = 75.0  // Vertical field of view, degrees
	DefaultNear        = 0.1
	DefaultFar         = 1000.0
)

// FirstPerson is a yaw/pitch camera. At zero yaw and pitch it looks down -Z;
// yaw turns about +Y and is applied before pitch.
type FirstPerson struct {
	Yaw   float32 // Radians, positive turns left
	Pitch float32 // Radians, clamped to [-MaxPitch, MaxPitch]

	Sensitivity float32

	// Projection
	FOV    float32 // Degrees
	Aspect float32
	Near   float32
	Far    float32
}

// NewFirstPerson creates a camera with default look and projection settings.
func NewFirstPerson(aspect float32) *FirstPerson {
	return &FirstPerson{
		Sensitivity: DefaultSensitivity,
		FOV:         DefaultFOV,
		Aspect:      aspect,
		Near:        DefaultNear,
		Far:         DefaultFar,
	}
}

// HandleLook applies a mouse motion delta in pixels.
func (c *FirstPerson) HandleLook(dx, dy float32) {
	c.Yaw -= dx * c.Sensitivity
	c.Pitch -= dy * c.Sensitivity
	c.Pitch = mgl32.Clamp(c.Pitch, -MaxPitch, MaxPitch)
}

// Forward returns the unit view direction.
func (c *FirstPerson) Forward() mgl32.Vec3 {
	sy, cy := sincos(c.Yaw)
	sp, cp := sincos(c.Pitch)
	return mgl32.Vec3{-sy * cp, sp, -cy * cp}
}

// FlatForward returns the view direction projected onto the XZ plane.
// It is independent of pitch, so it stays valid when looking straight up or down.
func (c *FirstPerson) FlatForward() mgl32.Vec2 {
	sy, cy := sincos(c.Yaw)
	return mgl32.Vec2{-sy, -cy}
}

// Steer converts key state into a world-space XZ move direction.
// The result is not normalized; opposite keys cancel.
func (c *FirstPerson) Steer(forward, backward, left, right bool) mgl32.Vec2 {
	f := c.FlatForward()
	var move mgl32.Vec2
	if forward {
		move = move.Add(f)
	}
	if backward {
		move = move.Sub(f)
	}
	if left {
		move = move.Add(mgl32.Vec2{f.Y(), -f.X()})
	}
	if right {
		move = move.Add(mgl32.Vec2{-f.Y(), f.X()})
	}
	return move
}

// Ray returns the picking segment from eye to the far plane through the
// centre of the view.
func (c *FirstPerson) Ray(eye mgl32.Vec3) (start, end mgl32.Vec3) {
	return eye, eye.Add(c.Forward().Mul(c.Far))
}

// ViewMatrix returns the world-to-view transform for an eye position.
func (c *FirstPerson) ViewMatrix(eye mgl32.Vec3) mgl32.Mat4 {
	return mgl32.HomogRotate3DX(-c.Pitch).
		Mul4(mgl32.HomogRotate3DY(-c.Yaw)).
		Mul4(mgl32.Translate3D(-eye.X(), -eye.Y(), -eye.Z()))
}

// ProjectionMatrix returns the perspective projection.
func (c *FirstPerson) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.FOV), c.Aspect, c.Near, c.Far)
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}
