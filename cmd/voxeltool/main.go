// voxeltool is a CLI utility for inspecting generated voxel worlds.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfield/internal/config"
	"github.com/Faultbox/voxelfield/internal/engine/character"
	"github.com/Faultbox/voxelfield/internal/engine/debug"
	"github.com/Faultbox/voxelfield/internal/engine/mesh"
	"github.com/Faultbox/voxelfield/internal/engine/voxel"
	"github.com/Faultbox/voxelfield/internal/game/world"
	"github.com/Faultbox/voxelfield/internal/logger"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	if command == "help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if command == "config" {
		cmdConfig(cfg)
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if cfg.Metrics.ListenAddr != "" {
		serveMetrics(cfg.Metrics.ListenAddr, reg)
	}

	sink := &statsSink{}
	w, err := world.New(cfg, sink, reg)
	if err != nil {
		logger.Error("failed to create world", zap.Error(err))
		os.Exit(1)
	}
	defer w.Close()

	switch command {
	case "mesh":
		err = cmdMesh(w, args)
	case "height":
		err = cmdHeight(w, args)
	case "stream":
		err = cmdStream(w, sink, cfg, args)
	case "pick":
		err = cmdPick(w, args)
	case "walk":
		err = cmdWalk(w, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`voxeltool - voxel world inspection utility

Usage:
  voxeltool [flags] <command> [args]

Commands:
  config                          Print the effective configuration as YAML
  height <x> <z>                  Show the terrain column height at (x, z)
  mesh [-wire] <cx> <cz> [cy]     Realize a chunk and show its mesh statistics
  stream [-interval d] <ticks> [x,z ...]
                                  Tick streaming at each viewpoint in turn
  pick [-id n] <x y z> <dx dy dz> Cast a ray; with -id, remove (0) or place
  walk <frames>                   Drop the player at spawn and simulate

Flags:
  -config <path>        Config file (default ./config.yaml, then user config dir)
  -seed <n>             Terrain seed
  -radius <n>           Render distance in chunks
  -metrics-addr <addr>  Serve Prometheus metrics, e.g. :2112
  -debug                Enable debug logging

Examples:
  voxeltool -seed 42 height 10 -3
  voxeltool mesh 0 0
  voxeltool -radius 2 stream 25 16,16 80,16
  voxeltool pick -id 0 32 90 32 0 -1 0`)
}

// statsSink counts mesh traffic in place of a GPU upload path.
type statsSink struct {
	uploads  int
	disposes int
	vertices int
}

func (s *statsSink) Upload(c voxel.ChunkCoord, m *mesh.Mesh) {
	s.uploads++
	s.vertices += m.VertexCount()
	logger.Debug("mesh uploaded",
		zap.Stringer("chunk", c),
		zap.Int("vertices", m.VertexCount()))
}

func (s *statsSink) Dispose(c voxel.ChunkCoord) {
	s.disposes++
	logger.Debug("mesh disposed", zap.Stringer("chunk", c))
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.String("addr", addr), zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
}

func cmdConfig(cfg *config.Config) {
	data, err := cfg.YAML()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(data)
}

func cmdHeight(w *world.World, args []string) error {
	ints, err := parseInts(args, 2, "height <x> <z>")
	if err != nil {
		return err
	}
	x, z := ints[0], ints[1]
	gen := w.Generator()

	fmt.Printf("Column: (%d, %d)\n", x, z)
	fmt.Printf("Noise:  %.6f\n", gen.FractalNoise(x, z))
	fmt.Printf("Height: %d\n", gen.Height(x, z))
	return nil
}

func cmdMesh(w *world.World, args []string) error {
	fs := flag.NewFlagSet("mesh", flag.ExitOnError)
	wire := fs.Bool("wire", false, "Print the bounds wireframe")
	fs.Parse(args)

	ints, err := parseInts(fs.Args(), 2, "mesh [-wire] <cx> <cz> [cy]")
	if err != nil {
		return err
	}
	c := voxel.ChunkCoord{X: ints[0], Z: ints[1]}
	if len(ints) > 2 {
		c.Y = ints[2]
	}

	start := time.Now()
	ch, err := w.Streamer().ForceRealize(c)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	m := ch.Mesh
	fmt.Printf("Chunk:     %v\n", c)
	fmt.Printf("Generated: %d voxels\n", ch.Generated)
	fmt.Printf("Faces:     %d\n", m.FaceCount())
	fmt.Printf("Vertices:  %d\n", m.VertexCount())
	fmt.Printf("Indices:   %d\n", len(m.Indices))
	if m.HasBounds {
		fmt.Printf("Bounds:    %v - %v\n", m.Bounds.Min, m.Bounds.Max)
	}
	fmt.Printf("Digest:    %016x\n", w.Field().Digest(c))
	fmt.Printf("Time:      %v\n", elapsed)

	if *wire {
		lines, err := debug.MeshBounds(m)
		if err != nil {
			return err
		}
		for i := 0; i < len(lines); i += 6 {
			fmt.Printf("  %v -> %v\n", lines[i:i+3], lines[i+3:i+6])
		}
	}
	return nil
}

func cmdStream(w *world.World, sink *statsSink, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("stream", flag.ExitOnError)
	interval := fs.Duration("interval", 0, "Delay between ticks")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: voxeltool stream [-interval d] <ticks> [x,z ...]")
	}
	ticks, err := strconv.Atoi(fs.Arg(0))
	if err != nil || ticks < 0 {
		return fmt.Errorf("invalid tick count %q", fs.Arg(0))
	}

	views := []mgl32.Vec3{{cfg.Player.SpawnX, cfg.Player.SpawnY, cfg.Player.SpawnZ}}
	if fs.NArg() > 1 {
		views = views[:0]
		for _, arg := range fs.Args()[1:] {
			v, err := parseViewpoint(arg, cfg.Player.SpawnY)
			if err != nil {
				return err
			}
			views = append(views, v)
		}
	}

	s := w.Streamer()
	for _, v := range views {
		realized := 0
		for range ticks {
			realized += w.Tick(v)
			if *interval > 0 {
				time.Sleep(*interval)
			}
		}
		center, radius := s.Center()
		fmt.Printf("View %.1f,%.1f  centre %v r=%d  realized %d  queued %d  resident %d\n",
			v.X(), v.Z(), center, radius, realized, s.QueueLen(), s.Resident())
	}

	fmt.Println()
	fmt.Printf("Uploads:  %d\n", sink.uploads)
	fmt.Printf("Disposed: %d\n", sink.disposes)
	fmt.Printf("Vertices: %d uploaded\n", sink.vertices)
	fmt.Printf("Chunks:   %d allocated\n", w.Field().Len())
	return nil
}

func cmdPick(w *world.World, args []string) error {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	id := fs.Int("id", -1, "Voxel to write at the hit: 0 removes, 1-255 places")
	reach := fs.Float64("reach", 100, "Ray length")
	fs.Parse(args)

	if fs.NArg() < 6 {
		return errors.New("usage: voxeltool pick [-id n] [-reach r] <x y z> <dx dy dz>")
	}
	vals := make([]float32, 6)
	for i := range vals {
		f, err := strconv.ParseFloat(fs.Arg(i), 32)
		if err != nil {
			return fmt.Errorf("invalid number %q", fs.Arg(i))
		}
		vals[i] = float32(f)
	}
	start := mgl32.Vec3{vals[0], vals[1], vals[2]}
	dir := mgl32.Vec3{vals[3], vals[4], vals[5]}
	if dir.Len() == 0 {
		return errors.New("direction must be non-zero")
	}
	end := start.Add(dir.Normalize().Mul(float32(*reach)))

	realizeAlong(w, start, end)

	hit, ok := w.Pick(start, end)
	if !ok {
		fmt.Println("No hit")
		return nil
	}
	fmt.Printf("Hit:    %v (voxel %d)\n", hit.Cell, hit.Voxel)
	fmt.Printf("Point:  %.3f %.3f %.3f\n", hit.Position.X(), hit.Position.Y(), hit.Position.Z())
	fmt.Printf("Normal: %v\n", hit.Normal)
	fmt.Printf("Place:  %v\n", hit.PlaceTarget())

	if *id < 0 {
		return nil
	}
	if *id > 255 {
		return fmt.Errorf("voxel id %d outside 0..255", *id)
	}
	pos, _, err := w.ApplyPick(start, end, voxel.ID(*id))
	if err != nil {
		return err
	}
	fmt.Printf("Wrote:  %d at %v\n", *id, pos)
	return nil
}

// realizeAlong realizes every chunk the segment passes through so the
// ray sees generated terrain.
func realizeAlong(w *world.World, start, end mgl32.Vec3) {
	dims := w.Field().Dims()
	seg := end.Sub(start)
	steps := int(seg.Len()) + 1
	for i := 0; i <= steps; i++ {
		p := start.Add(seg.Mul(float32(i) / float32(steps)))
		c := dims.ChunkOf(floor(p.X()), floor(p.Y()), floor(p.Z()))
		if _, err := w.Streamer().ForceRealize(c); err != nil {
			logger.Warn("chunk not realized", zap.Stringer("chunk", c), zap.Error(err))
		}
	}
}

func cmdWalk(w *world.World, args []string) error {
	ints, err := parseInts(args, 1, "walk <frames>")
	if err != nil {
		return err
	}
	const dt = float32(1.0 / 60.0)

	p := w.NewPlayer()
	realizeAlong(w, p.Position, p.Position.Sub(mgl32.Vec3{0, character.DefaultProbeDepth, 0}))

	for i := range ints[0] {
		p.Update(dt, character.Intent{})
		if i%30 == 0 {
			logger.Debug("player",
				zap.Int("frame", i),
				zap.Float32("y", p.Position.Y()),
				zap.Float32("vy", p.Velocity.Y()),
				zap.Bool("grounded", p.Grounded()))
		}
	}

	fmt.Printf("Position: %.3f %.3f %.3f\n", p.Position.X(), p.Position.Y(), p.Position.Z())
	fmt.Printf("Feet:     %.3f\n", p.Feet())
	fmt.Printf("Grounded: %v\n", p.Grounded())
	fmt.Printf("Ground:   %.3f\n", w.Resolver().GroundHeight(p.Position))
	return nil
}

func parseInts(args []string, n int, usage string) ([]int, error) {
	if len(args) < n {
		return nil, fmt.Errorf("usage: voxeltool %s", usage)
	}
	out := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q", a)
		}
		out[i] = v
	}
	return out, nil
}

func parseViewpoint(arg string, y float32) (mgl32.Vec3, error) {
	xs, zs, ok := strings.Cut(arg, ",")
	if !ok {
		return mgl32.Vec3{}, fmt.Errorf("viewpoint %q: want x,z", arg)
	}
	x, err := strconv.ParseFloat(xs, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("viewpoint %q: %w", arg, err)
	}
	z, err := strconv.ParseFloat(zs, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("viewpoint %q: %w", arg, err)
	}
	return mgl32.Vec3{float32(x), y, float32(z)}, nil
}

func floor(f float32) int {
	i := int(f)
	if float32(i) > f {
		i--
	}
	return i
}
