package telemetry

// Collector accumulates droplet events within tick windows and produces
// WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	spawns        int
	clicks        int
	merges        int
	stickings     int
	restarts      int
	stops         int
	fades         int
	boundaryExits int
	expired       int
	lifetimeSum   int
}

// PhaseCounts is the population at window end, split by lifecycle phase.
type PhaseCounts struct {
	Moving, Stopped, Stuck, Fading int
}

// Total returns the number of active droplets.
func (p PhaseCounts) Total() int {
	return p.Moving + p.Stopped + p.Stuck + p.Fading
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each stats window spans
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowTicks int, dt float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowDurationTicks: int32(windowTicks),
		dt:                  dt,
	}
}

// RecordSpawn records n droplets created by the rain spawner.
func (c *Collector) RecordSpawn(n int) { c.spawns += n }

// RecordClick records a pointer burst.
func (c *Collector) RecordClick() { c.clicks++ }

// RecordMerge records two droplets combining.
func (c *Collector) RecordMerge() { c.merges++ }

// RecordStuck records a droplet catching on the glass.
func (c *Collector) RecordStuck() { c.stickings++ }

// RecordStarted records a resting droplet starting to run again.
func (c *Collector) RecordStarted() { c.restarts++ }

// RecordStopped records a moving droplet coming to rest.
func (c *Collector) RecordStopped() { c.stops++ }

// RecordFading records a droplet entering the fading phase.
func (c *Collector) RecordFading() { c.fades++ }

// RecordBoundaryExit records a droplet leaving the surface.
func (c *Collector) RecordBoundaryExit() { c.boundaryExits++ }

// RecordExpired records a droplet being culled after lifetimeTicks ticks.
func (c *Collector) RecordExpired(lifetimeTicks int) {
	c.expired++
	c.lifetimeSum += lifetimeTicks
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets counters for the next window.
// The caller provides the current population by phase, the sizes of all
// active droplets and the field's mean fog value.
func (c *Collector) Flush(currentTick int32, counts PhaseCounts, sizes []float64, coverage float64) WindowStats {
	mean, p10, p50, p90, max := ComputeSizeStats(sizes)

	var meanLifetime float64
	if c.expired > 0 {
		meanLifetime = float64(c.lifetimeSum) / float64(c.expired)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Active:  counts.Total(),
		Moving:  counts.Moving,
		Stopped: counts.Stopped,
		Stuck:   counts.Stuck,
		Fading:  counts.Fading,

		Spawns:        c.spawns,
		Clicks:        c.clicks,
		Merges:        c.merges,
		Stickings:     c.stickings,
		Restarts:      c.restarts,
		Stops:         c.stops,
		Fades:         c.fades,
		BoundaryExits: c.boundaryExits,
		Expired:       c.expired,

		SizeMean: mean,
		SizeP10:  p10,
		SizeP50:  p50,
		SizeP90:  p90,
		SizeMax:  max,

		MeanLifetime: meanLifetime,
		FogCoverage:  coverage,
	}

	c.reset(currentTick)
	return stats
}

func (c *Collector) reset(tick int32) {
	*c = Collector{
		windowDurationTicks: c.windowDurationTicks,
		dt:                  c.dt,
		windowStartTick:     tick,
	}
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
