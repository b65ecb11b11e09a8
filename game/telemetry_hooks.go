package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rainglass/components"
	"github.com/pthm-cable/rainglass/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (s *Simulation) flushTelemetry() {
	if !s.collector.ShouldFlush(s.tick) {
		return
	}

	counts, sizes := s.sampleSizes()
	stats := s.collector.Flush(s.tick, counts, sizes, s.fog.Coverage())
	perfStats := s.perf.Stats()

	if s.statsCallback != nil {
		s.statsCallback(stats)
	}

	if s.logStats {
		stats.LogStats(s.logger)
		perfStats.LogStats(s.logger)
	}

	if err := s.output.WriteTelemetry(stats); err != nil {
		s.logger.Error("failed to write telemetry", "error", err)
	}
	if err := s.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		s.logger.Error("failed to write perf", "error", err)
	}

	for _, bm := range s.bookmarks.Check(stats) {
		if s.logStats {
			bm.LogBookmark(s.logger)
		}
		if err := s.output.WriteBookmark(bm); err != nil {
			s.logger.Error("failed to write bookmark", "error", err)
		}
	}
}

// sampleSizes returns the population by phase and the sizes of all active
// droplets. The size slice is reused between windows.
func (s *Simulation) sampleSizes() (telemetry.PhaseCounts, []float64) {
	s.sizes = s.sizes[:0]
	s.Each(func(_ ecs.Entity, _ *components.Position, d *components.Droplet) {
		if !d.Active {
			return
		}
		s.sizes = append(s.sizes, d.Size)
	})
	return s.Counts(), s.sizes
}
