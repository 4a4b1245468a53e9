package stream

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelfield/internal/engine/voxel"
)

// Options configures a Streamer.
type Options struct {
	// RemeshNeighbors rebuilds realized orthogonal neighbours after a chunk is
	// realized, so border faces drawn against a missing chunk are removed.
	RemeshNeighbors bool

	// EvictVoxels deletes voxel data along with the mesh on eviction.
	// Off by default so edits outside the view survive.
	EvictVoxels bool

	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

// DefaultOptions returns the default streamer options.
func DefaultOptions() Options {
	return Options{RemeshNeighbors: true}
}

// Streamer schedules chunk realization around a viewpoint. Requests are
// served in FIFO order; each ProcessQueue call realizes at most one chunk.
//
// Streamer is not safe for concurrent use.
type Streamer struct {
	field  *voxel.Field
	gen    Populator
	mesher Mesher
	sink   MeshSink
	opts   Options
	log    *zap.Logger
	m      *metrics

	chunks map[voxel.ChunkCoord]*Chunk
	queue  []voxel.ChunkCoord
	active map[voxel.ChunkCoord]struct{}

	center    voxel.ChunkCoord
	radius    int
	hasCenter bool
}

// New creates a streamer over field. A nil sink discards meshes.
func New(field *voxel.Field, gen Populator, mesher Mesher, sink MeshSink, opts Options) (*Streamer, error) {
	if sink == nil {
		sink = NopSink{}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := newMetrics()
	if err := m.register(opts.Registerer); err != nil {
		return nil, err
	}

	return &Streamer{
		field:  field,
		gen:    gen,
		mesher: mesher,
		sink:   sink,
		opts:   opts,
		log:    log,
		m:      m,
		chunks: make(map[voxel.ChunkCoord]*Chunk),
		active: make(map[voxel.ChunkCoord]struct{}),
	}, nil
}

// UpdateActiveSet makes the (2r+1)^2 columns around (cx, cz) on layer y=0
// the active set and enqueues every member without a record. It returns
// false without doing anything when neither centre nor radius changed.
func (s *Streamer) UpdateActiveSet(cx, cz, radius int) bool {
	if radius < 0 {
		radius = 0
	}
	center := voxel.ChunkCoord{X: cx, Z: cz}
	if s.hasCenter && center == s.center && radius == s.radius {
		return false
	}
	s.center = center
	s.radius = radius
	s.hasCenter = true

	s.active = make(map[voxel.ChunkCoord]struct{}, (2*radius+1)*(2*radius+1))
	enqueued := 0
	for x := cx - radius; x <= cx+radius; x++ {
		for z := cz - radius; z <= cz+radius; z++ {
			c := voxel.ChunkCoord{X: x, Z: z}
			s.active[c] = struct{}{}
			if _, ok := s.chunks[c]; ok {
				continue
			}
			s.chunks[c] = &Chunk{Coord: c, State: StateQueued}
			s.queue = append(s.queue, c)
			enqueued++
		}
	}
	s.updateGauges()

	s.log.Debug("active set updated",
		zap.Stringer("center", center),
		zap.Int("radius", radius),
		zap.Int("enqueued", enqueued),
		zap.Int("queue", len(s.queue)))
	return true
}

// UpdateViewpoint updates the active set around the chunk column containing pos.
func (s *Streamer) UpdateViewpoint(pos mgl32.Vec3, radius int) bool {
	dims := s.field.Dims()
	x := int(math.Floor(float64(pos.X())))
	z := int(math.Floor(float64(pos.Z())))
	return s.UpdateActiveSet(voxel.FloorDiv(x, dims.X), voxel.FloorDiv(z, dims.Z), radius)
}

// ProcessQueue realizes the oldest pending request. It returns the coordinate
// and true when a chunk was realized; false when the queue was empty or
// population failed.
func (s *Streamer) ProcessQueue() (voxel.ChunkCoord, bool) {
	if len(s.queue) == 0 {
		return voxel.ChunkCoord{}, false
	}
	c := s.queue[0]
	s.queue = s.queue[1:]

	ch, ok := s.chunks[c]
	if !ok || ch.State != StateQueued {
		s.updateGauges()
		return c, false
	}
	if err := s.realize(ch); err != nil {
		return c, false
	}
	return c, true
}

// Step processes up to budget requests and returns how many were realized.
func (s *Streamer) Step(budget int) int {
	realized := 0
	for range budget {
		if len(s.queue) == 0 {
			break
		}
		if _, ok := s.ProcessQueue(); ok {
			realized++
		}
	}
	return realized
}

// EvictOutsideActiveSet drops every record whose column is outside the
// active set. Layers above or below y=0 stay while their column is active.
// Realized chunks have their mesh disposed; queued requests are cancelled.
// It returns the number of records removed.
func (s *Streamer) EvictOutsideActiveSet() int {
	var cancelled, evicted []voxel.ChunkCoord
	for c, ch := range s.chunks {
		if _, ok := s.active[voxel.ChunkCoord{X: c.X, Z: c.Z}]; ok {
			continue
		}
		if ch.State == StateQueued {
			cancelled = append(cancelled, c)
		} else {
			evicted = append(evicted, c)
		}
	}
	if len(cancelled) == 0 && len(evicted) == 0 {
		return 0
	}
	sortCoords(evicted)

	if len(cancelled) > 0 {
		drop := make(map[voxel.ChunkCoord]struct{}, len(cancelled))
		for _, c := range cancelled {
			drop[c] = struct{}{}
			delete(s.chunks, c)
		}
		s.removeQueued(drop)
		s.m.cancelled.Add(float64(len(cancelled)))
	}

	for _, c := range evicted {
		s.sink.Dispose(c)
		delete(s.chunks, c)
		if s.opts.EvictVoxels {
			s.field.Delete(c)
		}
	}
	s.m.evicted.Add(float64(len(evicted)))
	s.updateGauges()

	s.log.Debug("chunks evicted",
		zap.Int("evicted", len(evicted)),
		zap.Int("cancelled", len(cancelled)),
		zap.Int("resident", s.Resident()))
	return len(evicted) + len(cancelled)
}

// ForceRealize realizes c immediately, ignoring the throttle. A pending
// request for c is removed from the queue. Realizing an already realized
// chunk returns its record unchanged.
func (s *Streamer) ForceRealize(c voxel.ChunkCoord) (*Chunk, error) {
	ch, ok := s.chunks[c]
	if ok && ch.State == StateRealized {
		return ch, nil
	}
	if ok {
		s.removeQueued(map[voxel.ChunkCoord]struct{}{c: {}})
	} else {
		ch = &Chunk{Coord: c, State: StateQueued}
		s.chunks[c] = ch
	}
	if err := s.realize(ch); err != nil {
		return nil, err
	}
	return ch, nil
}

// Remesh rebuilds the mesh of a realized chunk from current voxel data.
// Terrain is never regenerated. It returns false when c is not realized.
func (s *Streamer) Remesh(c voxel.ChunkCoord) bool {
	ch, ok := s.chunks[c]
	if !ok || ch.State != StateRealized {
		return false
	}
	s.build(ch)
	s.m.remeshed.Inc()
	return true
}

// RemeshAround rebuilds the chunk holding pos and the chunks holding its six
// neighbours, each at most once. It returns the number of chunks rebuilt.
func (s *Streamer) RemeshAround(pos voxel.Pos) int {
	dims := s.field.Dims()
	seen := make(map[voxel.ChunkCoord]struct{}, 7)
	order := make([]voxel.ChunkCoord, 0, 7)
	add := func(p voxel.Pos) {
		c := dims.ChunkOf(p.X, p.Y, p.Z)
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		order = append(order, c)
	}

	add(pos)
	add(pos.Add(-1, 0, 0))
	add(pos.Add(1, 0, 0))
	add(pos.Add(0, -1, 0))
	add(pos.Add(0, 1, 0))
	add(pos.Add(0, 0, -1))
	add(pos.Add(0, 0, 1))

	rebuilt := 0
	for _, c := range order {
		if s.Remesh(c) {
			rebuilt++
		}
	}
	return rebuilt
}

// Chunk returns the record for a realized chunk.
func (s *Streamer) Chunk(c voxel.ChunkCoord) (*Chunk, bool) {
	ch, ok := s.chunks[c]
	if !ok || ch.State != StateRealized {
		return nil, false
	}
	return ch, true
}

// State returns the lifecycle state of c; ok is false when c has no record.
func (s *Streamer) State(c voxel.ChunkCoord) (State, bool) {
	ch, ok := s.chunks[c]
	if !ok {
		return 0, false
	}
	return ch.State, true
}

// Realized returns the realized chunk coordinates sorted by x, y, z.
func (s *Streamer) Realized() []voxel.ChunkCoord {
	out := make([]voxel.ChunkCoord, 0, len(s.chunks))
	for c, ch := range s.chunks {
		if ch.State == StateRealized {
			out = append(out, c)
		}
	}
	sortCoords(out)
	return out
}

// Queue returns a copy of the pending requests in service order.
func (s *Streamer) Queue() []voxel.ChunkCoord {
	return append([]voxel.ChunkCoord(nil), s.queue...)
}

// QueueLen returns the number of pending requests.
func (s *Streamer) QueueLen() int {
	return len(s.queue)
}

// Resident returns the number of realized chunks.
func (s *Streamer) Resident() int {
	n := 0
	for _, ch := range s.chunks {
		if ch.State == StateRealized {
			n++
		}
	}
	return n
}

// InActiveSet reports whether c is in the current active set.
func (s *Streamer) InActiveSet(c voxel.ChunkCoord) bool {
	_, ok := s.active[c]
	return ok
}

// Center returns the centre column and radius of the active set.
func (s *Streamer) Center() (voxel.ChunkCoord, int) {
	return s.center, s.radius
}

// realize populates then meshes ch. On failure the record is dropped so the
// coordinate can be requested again.
func (s *Streamer) realize(ch *Chunk) error {
	n, err := s.gen.Populate(ch.Coord)
	if err != nil {
		delete(s.chunks, ch.Coord)
		s.m.failed.Inc()
		s.updateGauges()
		s.log.Error("chunk population failed",
			zap.Stringer("chunk", ch.Coord),
			zap.Error(err))
		return fmt.Errorf("realizing chunk %v: %w", ch.Coord, err)
	}
	ch.Generated = n
	ch.State = StateRealized
	s.build(ch)
	s.m.realized.Inc()
	s.updateGauges()

	s.log.Debug("chunk realized",
		zap.Stringer("chunk", ch.Coord),
		zap.Int("generated", n),
		zap.Int("faces", ch.Mesh.FaceCount()))

	if s.opts.RemeshNeighbors {
		for _, nb := range ch.Coord.Neighbors() {
			s.Remesh(nb)
		}
	}
	return nil
}

func (s *Streamer) build(ch *Chunk) {
	start := time.Now()
	m := s.mesher.Build(ch.Coord)
	s.m.buildSeconds.Observe(time.Since(start).Seconds())

	if err := m.ComputeBounds(); err != nil {
		s.log.Debug("chunk mesh has no bounds",
			zap.Stringer("chunk", ch.Coord),
			zap.Error(err))
	}
	ch.Mesh = m
	ch.Builds++
	s.sink.Upload(ch.Coord, m)
}

func (s *Streamer) removeQueued(drop map[voxel.ChunkCoord]struct{}) {
	kept := s.queue[:0]
	for _, c := range s.queue {
		if _, ok := drop[c]; !ok {
			kept = append(kept, c)
		}
	}
	s.queue = kept
}

func (s *Streamer) updateGauges() {
	s.m.queueDepth.Set(float64(len(s.queue)))
	s.m.resident.Set(float64(s.Resident()))
}

func sortCoords(cs []voxel.ChunkCoord) {
	sort.Slice(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
}
