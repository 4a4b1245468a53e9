package world

import (
	"errors"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelfield/internal/engine/camera"
	"github.com/Faultbox/voxelfield/internal/engine/character"
	"github.com/Faultbox/voxelfield/internal/engine/debug"
	"github.com/Faultbox/voxelfield/internal/engine/input"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// Player couples a movement controller with its view and input state.
type Player struct {
	Body   *character.Controller
	Camera *camera.FirstPerson
	Input  *input.Input
}

// FrameResult reports what one Frame did.
type FrameResult struct {
	Realized  int         // Chunks realized by streaming
	Edits     []voxel.Pos // Voxels changed by clicks
	Targeting bool        // The view centre rests on a voxel
	Outline   []float32   // Line vertices around the targeted voxel, nil when not targeting
}

// Spawn creates a player at the configured spawn point.
func (w *World) Spawn(aspect float32) *Player {
	return &Player{
		Body:   w.NewPlayer(),
		Camera: camera.NewFirstPerson(aspect),
		Input:  input.New(),
	}
}

// Frame runs one frame for p: look, movement, streaming around the eye,
// then clicks against the updated view.
func (w *World) Frame(p *Player, dt float32) (FrameResult, error) {
	f := p.Input.Poll()

	p.Camera.HandleLook(f.LookX, f.LookY)
	if f.ToggleFly {
		p.Body.SetFlying(!p.Body.Flying())
		w.log.Debug("flight toggled", zap.Bool("flying", p.Body.Flying()))
	}

	move := p.Camera.Steer(f.Forward, f.Backward, f.Left, f.Right)
	p.Body.Update(dt, f.Intent(move))

	res := FrameResult{Realized: w.Tick(p.Body.Position)}

	start, end := p.Camera.Ray(p.Body.Position)
	var errs []error
	for _, id := range f.Picks {
		pos, ok, err := w.ApplyPick(start, end, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			res.Edits = append(res.Edits, pos)
		}
	}
	if hit, ok := w.Pick(start, end); ok {
		res.Targeting = true
		res.Outline = debug.VoxelOutline(hit.Cell, debug.DefaultOutlinePadding)
	}
	return res, errors.Join(errs...)
}
