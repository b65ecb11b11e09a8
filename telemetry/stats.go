// Package telemetry provides window statistics, bookmarks, performance timing
// and CSV output for the rain simulation.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of ticks.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end, by phase
	Active  int `csv:"active"`
	Moving  int `csv:"moving"`
	Stopped int `csv:"stopped"`
	Stuck   int `csv:"stuck"`
	Fading  int `csv:"fading"`

	// Events during window
	Spawns        int `csv:"spawns"`
	Clicks        int `csv:"clicks"`
	Merges        int `csv:"merges"`
	Stickings     int `csv:"stickings"`
	Restarts      int `csv:"restarts"`
	Stops         int `csv:"stops"`
	Fades         int `csv:"fades"`
	BoundaryExits int `csv:"boundary_exits"`
	Expired       int `csv:"expired"`

	// Size distribution (sampled at window end)
	SizeMean float64 `csv:"size_mean"`
	SizeP10  float64 `csv:"size_p10"`
	SizeP50  float64 `csv:"size_p50"`
	SizeP90  float64 `csv:"size_p90"`
	SizeMax  float64 `csv:"size_max"`

	// Mean lifetime in ticks of droplets expired during the window
	MeanLifetime float64 `csv:"mean_lifetime"`

	// Mean fog value over the whole field
	FogCoverage float64 `csv:"fog_coverage"`
}

// ComputeSizeStats returns the mean, percentiles and maximum of the given
// droplet sizes. The input slice is not modified.
func ComputeSizeStats(values []float64) (mean, p10, p50, p90, max float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	p50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return mean, p10, p50, p90, sorted[n-1]
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("active", s.Active),
		slog.Int("moving", s.Moving),
		slog.Int("stopped", s.Stopped),
		slog.Int("stuck", s.Stuck),
		slog.Int("fading", s.Fading),
		slog.Int("spawns", s.Spawns),
		slog.Int("clicks", s.Clicks),
		slog.Int("merges", s.Merges),
		slog.Int("stickings", s.Stickings),
		slog.Int("restarts", s.Restarts),
		slog.Int("stops", s.Stops),
		slog.Int("fades", s.Fades),
		slog.Int("boundary_exits", s.BoundaryExits),
		slog.Int("expired", s.Expired),
		slog.Float64("size_mean", s.SizeMean),
		slog.Float64("size_p50", s.SizeP50),
		slog.Float64("size_p90", s.SizeP90),
		slog.Float64("size_max", s.SizeMax),
		slog.Float64("mean_lifetime", s.MeanLifetime),
		slog.Float64("fog_coverage", s.FogCoverage),
	)
}

// LogStats logs the window stats through logger.
func (s WindowStats) LogStats(logger *slog.Logger) {
	logger.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"active", s.Active,
		"moving", s.Moving,
		"stuck", s.Stuck,
		"fading", s.Fading,
		"spawns", s.Spawns,
		"merges", s.Merges,
		"stickings", s.Stickings,
		"boundary_exits", s.BoundaryExits,
		"expired", s.Expired,
		"size_mean", s.SizeMean,
		"size_p90", s.SizeP90,
		"mean_lifetime", s.MeanLifetime,
		"fog_coverage", s.FogCoverage,
	)
}
