// Package input turns key, mouse and wheel events into per-frame player commands.
package input

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/voxelfield/internal/engine/character"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// Key is a logical key, independent of any keyboard layout.
type Key int

const (
	KeyNone Key = iota
	KeyForward
	KeyBackward
	KeyLeft
	KeyRight
	KeySpace   // Jump, ascend, double tap toggles flight
	KeyDescend // Descend while flying
)

// Button is a mouse button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventWheel
)

// Event is one input event.
type Event struct {
	Type   EventType
	Key    Key
	Button Button
	X, Y   float32 // Pointer position
	DX, DY float32 // Pointer motion, for EventMouseMove
	Wheel  float32 // Scroll delta, positive scrolls down
	At     time.Time
}

// Input tuning
const (
	DoubleTapWindow = 300 * time.Millisecond
	ClickSlop       = 5 // Max pointer travel in pixels for a click
	MaxVoxel        = voxel.ID(16)
)

// Frame is the input gathered since the previous Poll.
type Frame struct {
	LookX, LookY float32

	Forward, Backward, Left, Right bool

	Jump      bool // Space tapped
	Up        bool // Space held
	Down      bool // Descend held
	ToggleFly bool // Space double tapped

	// Picks holds one voxel id per click: 0 removes, anything else places.
	Picks []voxel.ID
}

// Intent builds controller input from the frame and a world-space move direction.
func (f Frame) Intent(move mgl32.Vec2) character.Intent {
	return character.Intent{
		Move: move,
		Jump: f.Jump,
		Up:   f.Up,
		Down: f.Down,
	}
}

// Input accumulates events between frames. It is not safe for concurrent use.
type Input struct {
	held     map[Key]bool
	selected voxel.ID
	lastTap  time.Time

	spaceDown   bool
	pressed     bool
	pressX      float32
	pressY      float32
	maxTravelX  float32
	maxTravelY  float32
	lookX       float32
	lookY       float32
	jump        bool
	toggleFly   bool
	pendingPick []voxel.ID
}

// New creates an input handler with voxel 1 selected.
func New() *Input {
	return &Input{
		held:     make(map[Key]bool),
		selected: 1,
	}
}

// Handle records one event.
func (i *Input) Handle(e Event) {
	switch e.Type {
	case EventKeyDown:
		if e.Key == KeySpace {
			if !i.spaceDown {
				i.spaceDown = true
				i.tapSpace(e.At)
			}
			return
		}
		i.held[e.Key] = true

	case EventKeyUp:
		if e.Key == KeySpace {
			i.spaceDown = false
		}
		i.held[e.Key] = false

	case EventMouseMove:
		i.lookX += e.DX
		i.lookY += e.DY
		if i.pressed {
			i.maxTravelX = max(i.maxTravelX, abs(e.X-i.pressX))
			i.maxTravelY = max(i.maxTravelY, abs(e.Y-i.pressY))
		}

	case EventMouseDown:
		i.pressed = true
		i.pressX, i.pressY = e.X, e.Y
		i.maxTravelX, i.maxTravelY = 0, 0

	case EventMouseUp:
		if !i.pressed {
			return
		}
		i.pressed = false
		if i.maxTravelX >= ClickSlop || i.maxTravelY >= ClickSlop {
			return
		}
		switch e.Button {
		case ButtonLeft:
			i.pendingPick = append(i.pendingPick, voxel.Air)
		case ButtonRight:
			i.pendingPick = append(i.pendingPick, i.selected)
		}

	case EventWheel:
		if e.Wheel > 0 {
			i.Cycle(1)
		} else if e.Wheel < 0 {
			i.Cycle(-1)
		}
	}
}

// tapSpace separates a double tap, which toggles flight, from a single tap
// that jumps or starts ascending.
func (i *Input) tapSpace(at time.Time) {
	if !i.lastTap.IsZero() && at.Sub(i.lastTap) < DoubleTapWindow {
		i.toggleFly = true
	} else {
		i.jump = true
		i.held[KeySpace] = true
	}
	i.lastTap = at
}

// Poll returns the frame gathered so far and clears one-shot state.
// Held keys carry over to the next frame.
func (i *Input) Poll() Frame {
	f := Frame{
		LookX:     i.lookX,
		LookY:     i.lookY,
		Forward:   i.held[KeyForward],
		Backward:  i.held[KeyBackward],
		Left:      i.held[KeyLeft],
		Right:     i.held[KeyRight],
		Jump:      i.jump,
		Up:        i.held[KeySpace],
		Down:      i.held[KeyDescend],
		ToggleFly: i.toggleFly,
		Picks:     i.pendingPick,
	}
	i.lookX, i.lookY = 0, 0
	i.jump = false
	i.toggleFly = false
	i.pendingPick = nil
	return f
}

// Selected returns the voxel id placed by a right click.
func (i *Input) Selected() voxel.ID {
	return i.selected
}

// Select sets the voxel id placed by a right click. Air turns placing into removing.
func (i *Input) Select(id voxel.ID) {
	i.selected = id
}

// Cycle moves the selection by dir, wrapping within 1..MaxVoxel.
func (i *Input) Cycle(dir int) {
	next := int(i.selected) + dir
	switch {
	case next > int(MaxVoxel):
		next = 1
	case next < 1:
		next = int(MaxVoxel)
	}
	i.selected = voxel.ID(next)
}

func abs(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}
