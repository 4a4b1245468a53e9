// Package world ties voxel storage, terrain, meshing, streaming and player
// collision together behind one facade.
package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfield/internal/config"
	"github.com/Faultbox/voxelfield/internal/engine/character"
	"github.com/Faultbox/voxelfield/internal/engine/mesh"
	"github.com/Faultbox/voxelfield/internal/engine/picking"
	"github.com/Faultbox/voxelfield/internal/engine/stream"
	"github.com/Faultbox/voxelfield/internal/engine/terrain"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
	"github.com/Faultbox/voxelfield/internal/logger"
)

// World owns every subsystem of a running voxel world.
// It is not safe for concurrent use.
type World struct {
	cfg *config.Config
	log *zap.Logger

	field    *voxel.Field
	edits    *voxel.EditSet
	cache    *terrain.NoiseCache
	gen      *terrain.Generator
	builder  *mesh.Builder
	streamer *stream.Streamer
	resolver *character.Resolver
}

// New builds a world from cfg. Meshes are handed to sink (nil discards them)
// and streaming metrics are registered with reg (nil skips registration).
func New(cfg *config.Config, sink stream.MeshSink, reg prometheus.Registerer) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cs := cfg.World.ChunkSize
	dims := voxel.Dims{X: cs.X, Y: cs.Y, Z: cs.Z}
	field := voxel.NewField(dims, voxel.WithMaxChunks(cfg.World.MaxChunks))
	edits := voxel.NewEditSet()

	cache, err := terrain.NewNoiseCache(cfg.Terrain.NoiseCacheSize)
	if err != nil {
		return nil, err
	}
	gen := terrain.NewGenerator(field, edits, terrain.NewPerlin(cfg.Terrain.Seed), cache, terrainParams(cfg.Terrain))

	builder := mesh.NewBuilder(field, mesh.Atlas{
		TileSize: cfg.Atlas.TileSize,
		Width:    cfg.Atlas.Width,
		Height:   cfg.Atlas.Height,
	})

	streamer, err := stream.New(field, gen, builder, sink, stream.Options{
		RemeshNeighbors: cfg.World.RemeshNeighbors,
		EvictVoxels:     cfg.World.EvictVoxels,
		Logger:          logger.Named("stream"),
		Registerer:      reg,
	})
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("creating streamer: %w", err)
	}

	w := &World{
		cfg:      cfg,
		log:      logger.Named("world"),
		field:    field,
		edits:    edits,
		cache:    cache,
		gen:      gen,
		builder:  builder,
		streamer: streamer,
		resolver: character.NewResolver(field, character.Body{
			EyeHeight: cfg.Player.EyeHeight,
			Radius:    cfg.Player.Radius,
			Height:    cfg.Player.Height,
		}),
	}

	w.log.Info("world created",
		zap.Int64("seed", cfg.Terrain.Seed),
		zap.Stringer("chunk_size", dims),
		zap.Int("render_distance", cfg.World.RenderDistance))
	return w, nil
}

func terrainParams(tc config.TerrainConfig) terrain.Params {
	return terrain.Params{
		Octaves:      tc.Octaves,
		Persistence:  tc.Persistence,
		Scale:        tc.Scale,
		HeightScale:  tc.HeightScale,
		HeightOffset: tc.HeightOffset,
		MinHeight:    tc.MinHeight,
		Solid:        voxel.ID(tc.SolidBlock),
	}
}

// Tick advances streaming for one frame: the active set follows viewpoint,
// chunks outside it are evicted when it moved, then up to the configured
// budget of queued chunks is realized. It returns the number realized.
func (w *World) Tick(viewpoint mgl32.Vec3) int {
	if w.streamer.UpdateViewpoint(viewpoint, w.cfg.World.RenderDistance) {
		w.streamer.EvictOutsideActiveSet()
	}
	return w.streamer.Step(w.cfg.World.StepBudget)
}

// Voxel returns the voxel at an absolute coordinate; unloaded space is Air.
func (w *World) Voxel(x, y, z int) voxel.ID {
	return w.field.Get(x, y, z)
}

// Edit sets a voxel. The owning chunk is realized first so terrain cannot
// later overwrite the edit, and every mesh that shows the voxel is rebuilt.
//
// The voxel is written before it is marked as edited, so a write rejected
// with voxel.ErrFieldFull leaves no mark behind. Generation for the chunk has
// already run at that point and cannot observe the unmarked write.
func (w *World) Edit(x, y, z int, id voxel.ID) error {
	pos := voxel.Pos{X: x, Y: y, Z: z}
	c := w.field.Dims().ChunkOf(x, y, z)

	if _, err := w.streamer.ForceRealize(c); err != nil {
		return fmt.Errorf("editing %v: %w", pos, err)
	}
	if err := w.field.Set(x, y, z, id); err != nil {
		return fmt.Errorf("editing %v: %w", pos, err)
	}
	w.edits.Mark(pos)
	rebuilt := w.streamer.RemeshAround(pos)

	w.log.Debug("voxel edited",
		zap.Stringer("pos", pos),
		zap.Uint8("id", uint8(id)),
		zap.Int("rebuilt", rebuilt))
	return nil
}

// Edited reports whether the voxel at pos was ever edited.
func (w *World) Edited(pos voxel.Pos) bool {
	return w.edits.Contains(pos)
}

// Pick casts the segment start->end and returns the first solid voxel hit.
func (w *World) Pick(start, end mgl32.Vec3) (picking.Hit, bool) {
	return picking.Intersect(w.field, start, end)
}

// Targeting reports whether the segment hits anything, e.g. for a crosshair.
func (w *World) Targeting(start, end mgl32.Vec3) bool {
	_, ok := w.Pick(start, end)
	return ok
}

// ApplyPick edits the voxel selected by the segment start->end. Id 0 removes
// the hit voxel; any other id is placed in the empty cell in front of the hit
// face. It returns the edited position and false when nothing was hit.
func (w *World) ApplyPick(start, end mgl32.Vec3, id voxel.ID) (voxel.Pos, bool, error) {
	hit, ok := w.Pick(start, end)
	if !ok {
		return voxel.Pos{}, false, nil
	}

	target := hit.PlaceTarget()
	if id == voxel.Air {
		target = hit.RemoveTarget()
	}
	if err := w.Edit(target.X, target.Y, target.Z, id); err != nil {
		return target, true, err
	}
	return target, true, nil
}

// NewPlayer returns a controller at the configured spawn point using the
// configured movement tuning.
func (w *World) NewPlayer() *character.Controller {
	p := w.cfg.Player
	params := character.DefaultMoveParams()
	params.WalkSpeed = p.WalkSpeed
	params.FlySpeed = p.FlySpeed
	params.JumpSpeed = p.JumpSpeed
	params.Gravity = p.Gravity
	params.TerminalVelocity = p.TerminalVelocity
	return character.NewController(w.resolver, params, mgl32.Vec3{p.SpawnX, p.SpawnY, p.SpawnZ})
}

// Field returns the voxel storage.
func (w *World) Field() *voxel.Field {
	return w.field
}

// Generator returns the terrain generator.
func (w *World) Generator() *terrain.Generator {
	return w.gen
}

// Builder returns the chunk mesher.
func (w *World) Builder() *mesh.Builder {
	return w.builder
}

// Streamer returns the chunk streamer.
func (w *World) Streamer() *stream.Streamer {
	return w.streamer
}

// Resolver returns the player collision resolver.
func (w *World) Resolver() *character.Resolver {
	return w.resolver
}

// Close releases the noise cache.
func (w *World) Close() {
	w.cache.Close()
	w.log.Debug("world closed", zap.Int("edits", w.edits.Len()))
}
