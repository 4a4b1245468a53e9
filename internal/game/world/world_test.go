package world

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/voxelfield/internal/config"
	"github.com/Faultbox/voxelfield/internal/engine/character"
	"github.com/Faultbox/voxelfield/internal/engine/mesh"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

const solid = voxel.ID(14)

// flatConfig yields 8^3 chunks over flat terrain: voxels y 0..3 are solid
// in every column, so the walking surface is y=4.
func flatConfig() *config.Config {
	cfg := config.Default()
	cfg.World.ChunkSize = config.ChunkSize{X: 8, Y: 8, Z: 8}
	cfg.World.RenderDistance = 1
	cfg.Terrain.HeightScale = 0
	cfg.Terrain.HeightOffset = 4
	cfg.Terrain.NoiseCacheSize = 0
	cfg.Player.SpawnX = 4.5
	cfg.Player.SpawnY = 10
	cfg.Player.SpawnZ = 4.5
	return cfg
}

type countingSink struct {
	uploads  map[voxel.ChunkCoord]int
	disposed int
}

func (s *countingSink) Upload(c voxel.ChunkCoord, _ *mesh.Mesh) { s.uploads[c]++ }
func (s *countingSink) Dispose(voxel.ChunkCoord)                { s.disposed++ }

func newTestWorld(t *testing.T, cfg *config.Config) (*World, *countingSink) {
	t.Helper()
	sink := &countingSink{uploads: make(map[voxel.ChunkCoord]int)}
	w, err := New(cfg, sink, nil)
	require.NoError(t, err)
	t.Cleanup(w.Close)
	return w, sink
}

var origin = voxel.ChunkCoord{}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := flatConfig()
	cfg.World.StepBudget = 0

	_, err := New(cfg, nil, nil)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestNewDuplicateMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()

	w, err := New(flatConfig(), nil, reg)
	require.NoError(t, err)
	defer w.Close()

	_, err = New(flatConfig(), nil, reg)
	assert.Error(t, err)
}

func TestTickStreamsOnePerFrame(t *testing.T) {
	w, sink := newTestWorld(t, flatConfig())
	eye := mgl32.Vec3{4, 20, 4}

	for i := range 9 {
		assert.Equal(t, 1, w.Tick(eye), "tick %d", i)
	}
	assert.Zero(t, w.Tick(eye))
	assert.Len(t, w.Streamer().Realized(), 9)
	assert.Zero(t, w.Streamer().QueueLen())
	assert.Len(t, sink.uploads, 9)

	assert.Equal(t, solid, w.Voxel(0, 3, 0))
	assert.Equal(t, voxel.Air, w.Voxel(0, 4, 0))
	assert.Equal(t, solid, w.Voxel(-8, 0, 15))
}

func TestTickEvictsWhenViewpointMoves(t *testing.T) {
	cfg := flatConfig()
	cfg.World.StepBudget = 9
	w, sink := newTestWorld(t, cfg)

	w.Tick(mgl32.Vec3{4, 20, 4})
	require.Len(t, w.Streamer().Realized(), 9)

	// One chunk east: the west column of three leaves the active set.
	w.Tick(mgl32.Vec3{12, 20, 4})
	assert.Equal(t, 3, sink.disposed)
	assert.Len(t, w.Streamer().Realized(), 9)
	_, ok := w.Streamer().Chunk(voxel.ChunkCoord{X: -1, Y: 0, Z: 0})
	assert.False(t, ok)
}

func TestEditRemovalSurvivesRegeneration(t *testing.T) {
	cfg := flatConfig()
	cfg.World.StepBudget = 9
	cfg.World.EvictVoxels = true
	w, _ := newTestWorld(t, cfg)

	require.NoError(t, w.Edit(1, 3, 1, voxel.Air))
	assert.True(t, w.Edited(voxel.Pos{X: 1, Y: 3, Z: 1}))

	w.Tick(mgl32.Vec3{4, 20, 4})
	w.Tick(mgl32.Vec3{400, 20, 400})
	require.False(t, w.Field().Has(origin), "voxel data evicted")
	assert.Equal(t, voxel.Air, w.Voxel(2, 3, 2))

	w.Tick(mgl32.Vec3{4, 20, 4})
	assert.Equal(t, solid, w.Voxel(2, 3, 2), "terrain regenerated")
	assert.Equal(t, voxel.Air, w.Voxel(1, 3, 1), "edit kept")
}

func TestEditPlacementSurvivesEviction(t *testing.T) {
	cfg := flatConfig()
	cfg.World.StepBudget = 9
	w, _ := newTestWorld(t, cfg)

	require.NoError(t, w.Edit(1, 4, 1, 3))
	w.Tick(mgl32.Vec3{4, 20, 4})
	w.Tick(mgl32.Vec3{400, 20, 400})
	_, ok := w.Streamer().Chunk(origin)
	require.False(t, ok, "mesh evicted")

	w.Tick(mgl32.Vec3{4, 20, 4})
	assert.Equal(t, voxel.ID(3), w.Voxel(1, 4, 1))
}

func TestEditAboveGroundLayerKeepsMesh(t *testing.T) {
	cfg := flatConfig()
	cfg.World.StepBudget = 9
	w, sink := newTestWorld(t, cfg)
	upper := voxel.ChunkCoord{X: 0, Y: 1, Z: 0}

	w.Tick(mgl32.Vec3{4, 20, 4})
	require.NoError(t, w.Edit(4, 8, 4, 3))
	ch, ok := w.Streamer().Chunk(upper)
	require.True(t, ok)
	require.Equal(t, 6, ch.Mesh.FaceCount())

	// Column (0,0) stays active after moving one chunk east.
	w.Tick(mgl32.Vec3{12, 20, 4})
	assert.Equal(t, 3, sink.disposed)
	ch, ok = w.Streamer().Chunk(upper)
	require.True(t, ok, "upper layer of an active column evicted")
	assert.Equal(t, 6, ch.Mesh.FaceCount())
	assert.Equal(t, voxel.ID(3), w.Voxel(4, 8, 4))

	w.Tick(mgl32.Vec3{400, 20, 400})
	_, ok = w.Streamer().Chunk(upper)
	assert.False(t, ok)
}

func TestEditRealizesOwningChunk(t *testing.T) {
	w, _ := newTestWorld(t, flatConfig())

	require.NoError(t, w.Edit(100, 3, 100, voxel.Air))

	ch, ok := w.Streamer().Chunk(voxel.ChunkCoord{X: 12, Y: 0, Z: 12})
	require.True(t, ok)
	assert.Positive(t, ch.Generated)
	assert.Equal(t, voxel.Air, w.Voxel(100, 3, 100))
	assert.Equal(t, solid, w.Voxel(100, 2, 100))
}

func TestEditRemeshes(t *testing.T) {
	w, sink := newTestWorld(t, flatConfig())
	ch, err := w.Streamer().ForceRealize(origin)
	require.NoError(t, err)
	before := ch.Mesh.FaceCount()

	require.NoError(t, w.Edit(3, 4, 3, 5))

	// Five new faces, one buried top face.
	assert.Equal(t, before+4, ch.Mesh.FaceCount())
	assert.Equal(t, 2, ch.Builds)
	assert.Equal(t, 2, sink.uploads[origin])
}

func TestEditFieldFull(t *testing.T) {
	cfg := flatConfig()
	cfg.World.MaxChunks = 1
	w, _ := newTestWorld(t, cfg)
	_, err := w.Streamer().ForceRealize(origin)
	require.NoError(t, err)

	err = w.Edit(100, 3, 100, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, voxel.ErrFieldFull))
	assert.False(t, w.Edited(voxel.Pos{X: 100, Y: 3, Z: 100}), "failed edit left a mark")
	_, ok := w.Streamer().State(voxel.ChunkCoord{X: 12, Y: 0, Z: 12})
	assert.False(t, ok)
}

func TestPickAndApply(t *testing.T) {
	w, _ := newTestWorld(t, flatConfig())
	_, err := w.Streamer().ForceRealize(origin)
	require.NoError(t, err)

	eye := mgl32.Vec3{2.5, 10, 2.5}
	down := mgl32.Vec3{2.5, -1, 2.5}

	hit, ok := w.Pick(eye, down)
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{X: 2, Y: 3, Z: 2}, hit.Cell)
	assert.Equal(t, [3]int{0, 1, 0}, hit.Normal)
	assert.Equal(t, solid, hit.Voxel)
	assert.True(t, w.Targeting(eye, down))

	pos, ok, err := w.ApplyPick(eye, down, 7)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{X: 2, Y: 4, Z: 2}, pos)
	assert.Equal(t, voxel.ID(7), w.Voxel(2, 4, 2))

	pos, ok, err = w.ApplyPick(eye, down, voxel.Air)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, voxel.Pos{X: 2, Y: 4, Z: 2}, pos)
	assert.Equal(t, voxel.Air, w.Voxel(2, 4, 2))

	pos, _, err = w.ApplyPick(eye, down, voxel.Air)
	require.NoError(t, err)
	assert.Equal(t, voxel.Pos{X: 2, Y: 3, Z: 2}, pos)
	assert.Equal(t, voxel.Air, w.Voxel(2, 3, 2))
	assert.True(t, w.Edited(pos))
}

func TestApplyPickMiss(t *testing.T) {
	w, _ := newTestWorld(t, flatConfig())
	_, err := w.Streamer().ForceRealize(origin)
	require.NoError(t, err)

	up := mgl32.Vec3{2.5, 30, 2.5}
	assert.False(t, w.Targeting(mgl32.Vec3{2.5, 10, 2.5}, up))

	_, ok, err := w.ApplyPick(mgl32.Vec3{2.5, 10, 2.5}, up, 7)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestPlayerLandsOnTerrain(t *testing.T) {
	w, _ := newTestWorld(t, flatConfig())
	_, err := w.Streamer().ForceRealize(origin)
	require.NoError(t, err)

	p := w.NewPlayer()
	assert.Equal(t, mgl32.Vec3{4.5, 10, 4.5}, p.Position)

	for range 120 {
		p.Update(1.0/60.0, character.Intent{})
	}
	assert.True(t, p.Grounded())
	assert.InDelta(t, 5.8, p.Position.Y(), 1e-4)
	assert.InDelta(t, 4.0, w.Resolver().GroundHeight(p.Position), 1e-4)
}

func TestSeededTerrainWithCache(t *testing.T) {
	cfg := config.Default()
	cfg.World.ChunkSize = config.ChunkSize{X: 8, Y: 64, Z: 8}
	a, _ := newTestWorld(t, cfg)
	b, _ := newTestWorld(t, cfg)

	_, err := a.Streamer().ForceRealize(origin)
	require.NoError(t, err)
	_, err = b.Streamer().ForceRealize(origin)
	require.NoError(t, err)

	assert.Equal(t, a.Field().Digest(origin), b.Field().Digest(origin))
	for x := range 8 {
		h := a.Generator().Height(x, 0)
		assert.GreaterOrEqual(t, h, cfg.Terrain.MinHeight)
		if h < 64 {
			assert.Equal(t, voxel.Air, a.Voxel(x, h, 0))
		}
		assert.Equal(t, solid, a.Voxel(x, h-1, 0))
	}
}
