// Package game runs the rain simulation: it owns the droplet world and the
// fog field and advances them one tick at a time.
package game

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rainglass/components"
	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/renderer"
	"github.com/pthm-cable/rainglass/systems"
	"github.com/pthm-cable/rainglass/telemetry"
)

// Options configures a Simulation beyond its config.
type Options struct {
	Seed     int64 // 0 = time-based
	LogStats bool  // log window stats via slog
	Logger   *slog.Logger

	// Output receives CSV telemetry; nil disables file output.
	Output *telemetry.OutputManager
	// StatsCallback, when set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Simulation is one rain-on-glass run. It is not safe for concurrent use;
// the host drives it from a single goroutine.
type Simulation struct {
	cfg           *config.Config
	width, height float64

	// ECS
	world      *ecs.World
	dropMapper *ecs.Map2[components.Position, components.Droplet]
	dropFilter *ecs.Filter2[components.Position, components.Droplet]

	// Systems
	fog       *systems.FogField
	grid      *systems.SpatialGrid
	drops     *systems.DropletSystem
	particles *systems.ParticleSystem
	rng       *rand.Rand
	seed      int64

	// State
	running  bool
	lastStep time.Time
	tick     int32
	active   int
	maxSize  float64 // largest indexed droplet this tick

	// Telemetry
	logger        *slog.Logger
	logStats      bool
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	lifetimes     *telemetry.LifetimeTracker
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)

	// Reused per-tick buffers
	nearby  []ecs.Entity
	removed []ecs.Entity
	sizes   []float64
}

// New creates a stopped simulation on a width x height surface. Invalid
// configuration or surface sizes are rejected here.
func New(cfg *config.Config, width, height int, opts Options) (*Simulation, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", config.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fog, err := systems.NewFogField(float64(width), float64(height), cfg.Fog.CellSize)
	if err != nil {
		return nil, fmt.Errorf("creating fog field: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	world := ecs.NewWorld()
	s := &Simulation{
		cfg:    cfg,
		width:  float64(width),
		height: float64(height),

		world:      world,
		dropMapper: ecs.NewMap2[components.Position, components.Droplet](world),
		dropFilter: ecs.NewFilter2[components.Position, components.Droplet](world),

		fog:       fog,
		grid:      systems.NewSpatialGrid(float64(width), float64(height), cfg.Simulation.BucketSize),
		drops:     systems.NewDropletSystem(cfg, fog, rng),
		particles: systems.NewParticleSystem(rng),
		rng:       rng,
		seed:      seed,

		logger:        logger,
		logStats:      opts.LogStats,
		collector:     telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.TickInterval.Seconds()),
		perf:          telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		lifetimes:     telemetry.NewLifetimeTracker(),
		bookmarks:     telemetry.NewBookmarkDetector(10, cfg.Drops.MaxCount),
		output:        opts.Output,
		statsCallback: opts.StatsCallback,
	}
	return s, nil
}

// Start enables ticking. The next Frame steps immediately.
func (s *Simulation) Start() {
	s.running = true
	s.lastStep = time.Time{}
}

// Stop makes subsequent Frame calls no-ops.
func (s *Simulation) Stop() {
	s.running = false
}

// Running reports whether the simulation is started.
func (s *Simulation) Running() bool {
	return s.running
}

// Reset discards every droplet and refogs the glass. The tick counter and
// the running flag are kept.
func (s *Simulation) Reset() error {
	if err := s.fog.Init(s.width, s.height, s.cfg.Fog.CellSize); err != nil {
		return fmt.Errorf("resetting fog field: %w", err)
	}
	s.removed = s.removed[:0]
	query := s.dropFilter.Query()
	for query.Next() {
		s.removed = append(s.removed, query.Entity())
	}
	for _, e := range s.removed {
		s.world.RemoveEntity(e)
	}
	s.active = 0
	s.grid.Clear()
	s.particles.Clear()
	s.lifetimes.Clear()
	s.logger.Info("simulation reset", "tick", s.tick, "removed", len(s.removed))
	return nil
}

// Resize reinitialises the fog field and spatial grid for a new surface.
// Droplets keep their positions.
func (s *Simulation) Resize(width, height int) error {
	if err := s.fog.Init(float64(width), float64(height), s.cfg.Fog.CellSize); err != nil {
		return fmt.Errorf("resizing to %dx%d: %w", width, height, err)
	}
	s.width, s.height = float64(width), float64(height)
	s.grid = systems.NewSpatialGrid(s.width, s.height, s.cfg.Simulation.BucketSize)
	s.logger.Info("surface resized", "width", width, "height", height)
	return nil
}

// Frame is the per-frame host callback. When running and at least one tick
// interval has passed since the last step, it steps once and draws to c.
// Reports whether a step ran; when it did not, c is untouched.
func (s *Simulation) Frame(now time.Time, c renderer.Canvas) (bool, error) {
	if !s.running {
		return false, nil
	}
	if !s.lastStep.IsZero() && now.Sub(s.lastStep) < s.cfg.Derived.TickInterval {
		return false, nil
	}
	s.lastStep = now

	s.perf.StartTick()
	s.step()
	s.perf.StartPhase(telemetry.PhaseDraw)
	err := s.Draw(c)
	s.perf.EndTick()
	return true, err
}

// Step advances the simulation by one tick without drawing or throttling.
func (s *Simulation) Step() {
	s.perf.StartTick()
	s.step()
	s.perf.EndTick()
}

func (s *Simulation) step() {
	s.perf.StartPhase(telemetry.PhaseRegenerate)
	s.fog.Regenerate(s.cfg.Fog.RegenRate)

	s.perf.StartPhase(telemetry.PhaseSpawn)
	s.spawnRain()

	s.perf.StartPhase(telemetry.PhaseUpdate)
	s.updateDroplets()

	s.perf.StartPhase(telemetry.PhaseIndex)
	s.rebuildIndex()

	s.perf.StartPhase(telemetry.PhaseCollide)
	s.resolveCollisions()

	s.perf.StartPhase(telemetry.PhaseCompact)
	s.compact()

	s.perf.StartPhase(telemetry.PhaseTelemetry)
	s.particles.Update()
	s.tick++
	s.flushTelemetry()
}

// spawnRain runs the two-stage spawner: a per-tick chance gate, then a
// whole batch.
func (s *Simulation) spawnRain() {
	dc := &s.cfg.Drops
	if s.active >= dc.MaxCount || s.rng.Float64() >= dc.SpawnChance {
		return
	}
	for i := 0; i < dc.SpawnRate; i++ {
		pos, d := s.drops.NewDroplet(s.rng.Float64()*s.width, 0, 0)
		d.Speed = d.BaseSpeed * (1 + s.rng.Float64()*s.cfg.Droplet.SpawnSpeedJitter)
		s.add(&pos, &d, false)
	}
	s.collector.RecordSpawn(dc.SpawnRate)
}

// Click drops a burst of large droplets around (x, y) and wipes the fog
// there. The population cap does not apply.
func (s *Simulation) Click(x, y float64) {
	in := &s.cfg.Input
	for i := 0; i < in.ClickCount; i++ {
		size := in.ClickSizeMin + s.rng.Float64()*(in.ClickSizeMax-in.ClickSizeMin)
		pos, d := s.drops.NewDroplet(
			x+(s.rng.Float64()-0.5)*in.ClickSpread,
			y+(s.rng.Float64()-0.5)*in.ClickSpread,
			size,
		)
		s.add(&pos, &d, true)
	}
	s.fog.ClearAt(x, y, in.ClickClearRadius, in.ClickClearAmount)
	s.collector.RecordClick()
	if s.cfg.Visual.BackgroundFlourish {
		s.particles.EmitClick(x, y)
	}
}

// Spawn adds a Moving droplet at (x, y). A non-positive size draws one from
// the configured range.
func (s *Simulation) Spawn(x, y, size float64) ecs.Entity {
	pos, d := s.drops.NewDroplet(x, y, size)
	return s.add(&pos, &d, false)
}

func (s *Simulation) add(pos *components.Position, d *components.Droplet, fromClick bool) ecs.Entity {
	e := s.dropMapper.NewEntity(pos, d)
	s.active++
	s.lifetimes.Register(e.ID(), s.tick, d.Size, fromClick)
	return e
}

func (s *Simulation) updateDroplets() {
	query := s.dropFilter.Query()
	for query.Next() {
		e := query.Entity()
		pos, d := query.Get()
		if !d.Active {
			continue
		}

		before := *pos
		s.recordEvent(e, s.drops.Update(pos, d))

		if d.Active && !d.IsFading() && s.outOfBounds(pos) {
			s.drops.EnterFading(d)
			s.collector.RecordBoundaryExit()
			s.collector.RecordFading()
		}
		if dx, dy := pos.X-before.X, pos.Y-before.Y; dx != 0 || dy != 0 {
			s.lifetimes.RecordMove(e.ID(), math.Hypot(dx, dy), d.Size)
		}
	}
}

// outOfBounds reports whether a droplet has left the glass. Droplets spawn
// on the top edge, so only the sides and bottom count.
func (s *Simulation) outOfBounds(pos *components.Position) bool {
	return pos.X < 0 || pos.X > s.width || pos.Y > s.height
}

func (s *Simulation) recordEvent(e ecs.Entity, ev systems.Event) {
	if ev == 0 {
		return
	}
	if ev.Has(systems.EventStopped) {
		s.collector.RecordStopped()
	}
	if ev.Has(systems.EventStarted) {
		s.collector.RecordStarted()
	}
	if ev.Has(systems.EventStuck) {
		s.collector.RecordStuck()
		s.lifetimes.RecordStuck(e.ID())
	}
	if ev.Has(systems.EventFading) {
		s.collector.RecordFading()
	}
}

// rebuildIndex inserts every active, non-fading droplet into the grid.
func (s *Simulation) rebuildIndex() {
	s.grid.Clear()
	s.maxSize = 0
	query := s.dropFilter.Query()
	for query.Next() {
		pos, d := query.Get()
		if !d.Active || d.IsFading() {
			continue
		}
		s.grid.Insert(query.Entity(), pos.X, pos.Y)
		s.maxSize = math.Max(s.maxSize, d.Size)
	}
}

// resolveCollisions merges overlapping droplets. Each pair is examined once,
// from its lower entity ID. A droplet that absorbs a neighbour is checked
// again from its new centroid and size, so chains merge within one tick.
func (s *Simulation) resolveCollisions() {
	query := s.dropFilter.Query()
	for query.Next() {
		e := query.Entity()
		pa, a := query.Get()
		for a.Active && !a.IsFading() {
			if !s.mergeNext(e, pa, a) {
				break
			}
		}
	}
}

// mergeNext merges a with the first colliding later neighbour and reports
// whether a survived a merge and should be checked again.
func (s *Simulation) mergeNext(e ecs.Entity, pa *components.Position, a *components.Droplet) bool {
	factor := s.cfg.Drops.CollisionDistanceFactor
	s.nearby = s.grid.QueryInto(s.nearby[:0], pa.X, pa.Y, (a.Size+s.maxSize)*factor)
	for _, other := range s.nearby {
		if other.ID() <= e.ID() || !s.world.Alive(other) {
			continue
		}
		pb, b := s.dropMapper.Get(other)
		if !b.Active || b.IsFading() || !systems.Collides(pa, a, pb, b, factor) {
			continue
		}

		aSurvives := s.drops.Merge(pa, a, pb, b)
		s.collector.RecordMerge()
		survivor, sp, sd := e, pa, a
		if !aSurvives {
			survivor, sp, sd = other, pb, b
		}
		s.lifetimes.RecordMerge(survivor.ID(), sd.Size)
		if s.cfg.Visual.BackgroundFlourish {
			s.particles.EmitMerge(sp.X, sp.Y, sd.Size)
		}

		// The survivor moved and grew; index it where it is now.
		s.grid.Insert(survivor, sp.X, sp.Y)
		s.maxSize = math.Max(s.maxSize, sd.Size)
		return aSurvives
	}
	return false
}

// compact removes inactive droplets from the world. Removal happens after
// the query completes.
func (s *Simulation) compact() {
	s.removed = s.removed[:0]
	query := s.dropFilter.Query()
	for query.Next() {
		_, d := query.Get()
		if !d.Active {
			s.removed = append(s.removed, query.Entity())
		}
	}

	for _, e := range s.removed {
		s.collector.RecordExpired(s.lifetimes.Age(e.ID(), s.tick))
		s.lifetimes.Remove(e.ID())
		s.world.RemoveEntity(e)
		s.active--
	}
}

// Tick returns the number of steps taken.
func (s *Simulation) Tick() int32 {
	return s.tick
}

// Seed returns the RNG seed in use.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// ActiveCount returns the number of live droplets, fading ones included.
func (s *Simulation) ActiveCount() int {
	return s.active
}

// Size returns the surface size.
func (s *Simulation) Size() (width, height float64) {
	return s.width, s.height
}

// Fog returns the fog field.
func (s *Simulation) Fog() *systems.FogField {
	return s.fog
}

// Config returns the live configuration.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Perf returns the performance collector.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}

// Lifetimes returns the per-droplet lifetime tracker.
func (s *Simulation) Lifetimes() *telemetry.LifetimeTracker {
	return s.lifetimes
}

// Droplet returns the components of a live droplet entity.
func (s *Simulation) Droplet(e ecs.Entity) (*components.Position, *components.Droplet, bool) {
	if !s.world.Alive(e) {
		return nil, nil, false
	}
	pos, d := s.dropMapper.Get(e)
	return pos, d, true
}

// Each calls fn for every droplet entity, in storage order. fn must not
// add or remove droplets.
func (s *Simulation) Each(fn func(e ecs.Entity, pos *components.Position, d *components.Droplet)) {
	query := s.dropFilter.Query()
	for query.Next() {
		pos, d := query.Get()
		fn(query.Entity(), pos, d)
	}
}

// Counts returns the live population split by phase.
func (s *Simulation) Counts() telemetry.PhaseCounts {
	var c telemetry.PhaseCounts
	s.Each(func(_ ecs.Entity, _ *components.Position, d *components.Droplet) {
		if !d.Active {
			return
		}
		switch d.Phase.(type) {
		case components.Moving:
			c.Moving++
		case components.Stopped:
			c.Stopped++
		case components.Stuck:
			c.Stuck++
		case components.Fading:
			c.Fading++
		}
	})
	return c
}
