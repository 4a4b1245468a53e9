// Package character resolves player collision against the voxel grid and
// integrates walking and flying movement.
package character

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// VoxelQuery reads voxels by absolute coordinate. *voxel.Field satisfies it.
type VoxelQuery interface {
	Get(x, y, z int) voxel.ID
}

// Body is the player's collision volume. Positions handled by this package
// are eye positions; the feet are EyeHeight below.
type Body struct {
	EyeHeight float32 // Feet to eye
	Radius    float32 // Half-width of the square footprint
	Height    float32 // Feet to head
}

// DefaultBody returns the standard player volume.
func DefaultBody() Body {
	return Body{
		EyeHeight: 1.8,
		Radius:    0.3,
		Height:    2.0,
	}
}

// Movement constants
const (
	DefaultWalkSpeed           = 8.0
	DefaultFlySpeed            = 12.0
	DefaultJumpSpeed           = 10.0
	DefaultGravity             = -30.0
	DefaultTerminalVelocity    = -50.0
	DefaultDamping             = 0.8 // Horizontal velocity factor per update without input
	DefaultGroundCheckDistance = 0.3
	DefaultAutoLandDistance    = 2.0
	DefaultProbeDepth          = 100.0
)

// MoveParams tunes the controller.
type MoveParams struct {
	WalkSpeed           float32
	FlySpeed            float32
	JumpSpeed           float32
	Gravity             float32
	TerminalVelocity    float32
	Damping             float32
	GroundCheckDistance float32 // Snap to ground within this distance while not rising
	AutoLandDistance    float32 // Land when descending in flight within this distance
}

// DefaultMoveParams returns the standard movement tuning.
func DefaultMoveParams() MoveParams {
	return MoveParams{
		WalkSpeed:           DefaultWalkSpeed,
		FlySpeed:            DefaultFlySpeed,
		JumpSpeed:           DefaultJumpSpeed,
		Gravity:             DefaultGravity,
		TerminalVelocity:    DefaultTerminalVelocity,
		Damping:             DefaultDamping,
		GroundCheckDistance: DefaultGroundCheckDistance,
		AutoLandDistance:    DefaultAutoLandDistance,
	}
}

// Intent is one update's worth of player input.
type Intent struct {
	Move mgl32.Vec2 // World-space XZ direction; zero to stand still
	Jump bool       // Jump when walking and grounded
	Up   bool       // Ascend while flying
	Down bool       // Descend while flying
}
