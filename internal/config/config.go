// Package config handles voxelfield configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"math"
)

// Config holds all world settings.
type Config struct {
	World   WorldConfig   `yaml:"world"`
	Terrain TerrainConfig `yaml:"terrain"`
	Atlas   AtlasConfig   `yaml:"atlas"`
	Player  PlayerConfig  `yaml:"player"`
	Metrics MetricsConfig `yaml:"metrics"`
	Logging LoggingConfig `yaml:"logging"`
}

// ChunkSize holds chunk dimensions in voxels.
type ChunkSize struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// WorldConfig holds chunk storage and streaming settings.
type WorldConfig struct {
	ChunkSize       ChunkSize `yaml:"chunk_size"`
	RenderDistance  int       `yaml:"render_distance"`  // Active set radius in chunks
	StepBudget      int       `yaml:"step_budget"`      // Chunks realized per tick
	MaxChunks       int       `yaml:"max_chunks"`       // Allocated chunk cap, 0 = unlimited
	RemeshNeighbors bool      `yaml:"remesh_neighbors"` // Re-mesh realized neighbours of a new chunk
	EvictVoxels     bool      `yaml:"evict_voxels"`     // Drop voxel data with evicted meshes
}

// TerrainConfig holds height function settings. Only the y=0 chunk layer is
// streamed, so the tallest column, HeightOffset+|HeightScale| or MinHeight,
// must fit in World.ChunkSize.Y.
type TerrainConfig struct {
	Seed           int64   `yaml:"seed"`
	Octaves        int     `yaml:"octaves"`
	Persistence    float64 `yaml:"persistence"`
	Scale          float64 `yaml:"scale"`
	HeightScale    float64 `yaml:"height_scale"`
	HeightOffset   float64 `yaml:"height_offset"`
	MinHeight      int     `yaml:"min_height"`
	SolidBlock     int     `yaml:"solid_block"`
	NoiseCacheSize int64   `yaml:"noise_cache_size"` // Cached samples, 0 disables the cache
}

// AtlasConfig holds texture atlas layout.
type AtlasConfig struct {
	TileSize int `yaml:"tile_size"`
	Width    int `yaml:"width"`
	Height   int `yaml:"height"`
}

// PlayerConfig holds player body and movement settings.
type PlayerConfig struct {
	SpawnX float32 `yaml:"spawn_x"`
	SpawnY float32 `yaml:"spawn_y"`
	SpawnZ float32 `yaml:"spawn_z"`

	EyeHeight float32 `yaml:"eye_height"`
	Radius    float32 `yaml:"radius"`
	Height    float32 `yaml:"height"`

	WalkSpeed        float32 `yaml:"walk_speed"`
	FlySpeed         float32 `yaml:"fly_speed"`
	JumpSpeed        float32 `yaml:"jump_speed"`
	Gravity          float32 `yaml:"gravity"`
	TerminalVelocity float32 `yaml:"terminal_velocity"`
}

// MetricsConfig holds the Prometheus endpoint settings.
type MetricsConfig struct {
	ListenAddr string `yaml:"listen_addr"` // Empty disables the endpoint
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		World: WorldConfig{
			ChunkSize:       ChunkSize{X: 32, Y: 64, Z: 32},
			RenderDistance:  3,
			StepBudget:      1,
			MaxChunks:       0,
			RemeshNeighbors: true,
			EvictVoxels:     false,
		},
		Terrain: TerrainConfig{
			Seed:           1,
			Octaves:        4,
			Persistence:    0.5,
			Scale:          0.02,
			HeightScale:    50,
			HeightOffset:   10,
			MinHeight:      1,
			SolidBlock:     14,
			NoiseCacheSize: 1 << 16,
		},
		Atlas: AtlasConfig{
			TileSize: 16,
			Width:    256,
			Height:   64,
		},
		Player: PlayerConfig{
			SpawnX:           32,
			SpawnY:           128,
			SpawnZ:           32,
			EyeHeight:        1.8,
			Radius:           0.3,
			Height:           2.0,
			WalkSpeed:        8,
			FlySpeed:         12,
			JumpSpeed:        10,
			Gravity:          -30,
			TerminalVelocity: -50,
		},
		Metrics: MetricsConfig{
			ListenAddr: "",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// MaxHeight returns the tallest column the height function can produce.
func (t TerrainConfig) MaxHeight() float64 {
	return max(float64(t.MinHeight), t.HeightOffset+math.Abs(t.HeightScale))
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate rejects settings the world cannot run with.
func (c *Config) Validate() error {
	cs := c.World.ChunkSize
	switch {
	case cs.X <= 0 || cs.Y <= 0 || cs.Z <= 0:
		return fmt.Errorf("%w: chunk size %dx%dx%d must be positive", ErrInvalid, cs.X, cs.Y, cs.Z)
	case c.World.RenderDistance < 0:
		return fmt.Errorf("%w: render distance %d is negative", ErrInvalid, c.World.RenderDistance)
	case c.World.StepBudget <= 0:
		return fmt.Errorf("%w: step budget %d must be positive", ErrInvalid, c.World.StepBudget)
	case c.World.MaxChunks < 0:
		return fmt.Errorf("%w: max chunks %d is negative", ErrInvalid, c.World.MaxChunks)
	case c.Terrain.Octaves <= 0:
		return fmt.Errorf("%w: octaves %d must be positive", ErrInvalid, c.Terrain.Octaves)
	case c.Terrain.Scale <= 0:
		return fmt.Errorf("%w: noise scale %g must be positive", ErrInvalid, c.Terrain.Scale)
	case c.Terrain.MaxHeight() > float64(cs.Y):
		return fmt.Errorf("%w: terrain up to %g voxels tall does not fit chunk height %d",
			ErrInvalid, c.Terrain.MaxHeight(), cs.Y)
	case c.Terrain.SolidBlock < 1 || c.Terrain.SolidBlock > 255:
		return fmt.Errorf("%w: solid block %d outside 1..255", ErrInvalid, c.Terrain.SolidBlock)
	case c.Terrain.NoiseCacheSize < 0:
		return fmt.Errorf("%w: noise cache size %d is negative", ErrInvalid, c.Terrain.NoiseCacheSize)
	case c.Atlas.TileSize <= 0 || c.Atlas.Width <= 0 || c.Atlas.Height <= 0:
		return fmt.Errorf("%w: atlas dimensions must be positive", ErrInvalid)
	case c.Player.EyeHeight <= 0 || c.Player.Radius <= 0 || c.Player.Height <= 0:
		return fmt.Errorf("%w: player body dimensions must be positive", ErrInvalid)
	}
	return nil
}
