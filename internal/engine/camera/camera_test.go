package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-5

func assertVec3(t *testing.T, want, got mgl32.Vec3) {
	t.Helper()
	assert.True(t, want.ApproxEqualThreshold(got, eps), "want %v, got %v", want, got)
}

func TestForwardDefault(t *testing.T) {
	c := NewFirstPerson(16.0 / 9.0)
	assertVec3(t, mgl32.Vec3{0, 0, -1}, c.Forward())
}

func TestForwardYawTurnsLeft(t *testing.T) {
	c := NewFirstPerson(1)
	c.Yaw = math.Pi / 2
	assertVec3(t, mgl32.Vec3{-1, 0, 0}, c.Forward())
}

func TestHandleLook(t *testing.T) {
	c := NewFirstPerson(1)

	c.HandleLook(100, 0)
	assert.InDelta(t, -0.2, c.Yaw, eps, "moving right turns right")

	c.HandleLook(0, -1e6)
	assert.Equal(t, float32(MaxPitch), c.Pitch)
	assertVec3(t, mgl32.Vec3{0, 1, 0}, c.Forward())

	c.HandleLook(0, 1e7)
	assert.Equal(t, float32(-MaxPitch), c.Pitch)
}

func TestFlatForwardIgnoresPitch(t *testing.T) {
	c := NewFirstPerson(1)
	c.Yaw = 0.4
	flat := c.FlatForward()

	c.Pitch = -MaxPitch
	assert.Equal(t, flat, c.FlatForward())
	assert.InDelta(t, 1, flat.Len(), eps)
}

func TestSteer(t *testing.T) {
	c := NewFirstPerson(1)

	tests := []struct {
		name                    string
		forward, back, lft, rgt bool
		want                    mgl32.Vec2
	}{
		{"none", false, false, false, false, mgl32.Vec2{0, 0}},
		{"forward", true, false, false, false, mgl32.Vec2{0, -1}},
		{"backward", false, true, false, false, mgl32.Vec2{0, 1}},
		{"left", false, false, true, false, mgl32.Vec2{-1, 0}},
		{"right", false, false, false, true, mgl32.Vec2{1, 0}},
		{"forward left", true, false, true, false, mgl32.Vec2{-1, -1}},
		{"cancel", true, true, false, false, mgl32.Vec2{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Steer(tt.forward, tt.back, tt.lft, tt.rgt)
			assert.True(t, tt.want.ApproxEqualThreshold(got, eps), "want %v, got %v", tt.want, got)
		})
	}
}

func TestRay(t *testing.T) {
	c := NewFirstPerson(1)
	c.Pitch = -MaxPitch
	eye := mgl32.Vec3{3, 40, 3}

	start, end := c.Ray(eye)
	assert.Equal(t, eye, start)
	assert.InDelta(t, DefaultFar, end.Sub(start).Len(), 1e-2)
	assert.InDelta(t, 40-DefaultFar, end.Y(), 1e-2)
}

func TestViewMatrixLooksForward(t *testing.T) {
	c := NewFirstPerson(1)
	c.Yaw, c.Pitch = 0.7, -0.3
	eye := mgl32.Vec3{10, 20, -5}

	view := c.ViewMatrix(eye)
	assert.True(t, view.Mul4x1(eye.Vec4(1)).ApproxEqualThreshold(mgl32.Vec4{0, 0, 0, 1}, 1e-4))

	ahead := view.Mul4x1(eye.Add(c.Forward()).Vec4(1))
	assert.True(t, ahead.ApproxEqualThreshold(mgl32.Vec4{0, 0, -1, 1}, 1e-4), "got %v", ahead)
}

func TestProjectionNearPlane(t *testing.T) {
	c := NewFirstPerson(4.0 / 3.0)
	p := c.ProjectionMatrix().Mul4x1(mgl32.Vec4{0, 0, -c.Near, 1})
	assert.InDelta(t, -1, p.Z()/p.W(), 1e-4)
}
