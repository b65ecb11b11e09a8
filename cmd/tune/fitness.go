package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/game"
	"github.com/pthm-cable/rainglass/telemetry"
)

// Targets describes the look the tuner steers towards.
type Targets struct {
	Coverage float64 // Mean fog value [0, 1]
	Drops    float64 // Live droplets
}

// Score weights.
const (
	weightCoverage  = 1.0
	weightDrops     = 0.5
	weightStability = 0.25

	warmupWindows = 2 // skip the first N windows while the glass settles
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int32
	seeds      []int64
	baseConfig *config.Config
	targets    Targets
	logger     *slog.Logger

	mu        sync.Mutex
	lastScore Score
}

// Score breaks a fitness value into its parts.
type Score struct {
	CoverageErr float64
	DropsErr    float64
	Instability float64
}

// Fitness combines the parts (lower = better).
func (s Score) Fitness() float64 {
	return weightCoverage*s.CoverageErr + weightDrops*s.DropsErr + weightStability*s.Instability
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config, targets Targets, logger *slog.Logger) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
		targets:    targets,
		logger:     logger,
	}
}

// LastScore returns the averaged score of the most recent evaluation.
func (fe *FitnessEvaluator) LastScore() Score {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastScore
}

// Evaluate computes fitness for a parameter vector (lower = better),
// averaged over all seeds. Seeds run in parallel; each run owns its
// simulation and config copy.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]Score, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.scoreWindows(fe.runSimulation(x, s))
		}(i, seed)
	}
	wg.Wait()

	var avg Score
	for _, r := range results {
		avg.CoverageErr += r.CoverageErr
		avg.DropsErr += r.DropsErr
		avg.Instability += r.Instability
	}
	n := float64(len(results))
	avg.CoverageErr /= n
	avg.DropsErr /= n
	avg.Instability /= n

	fe.mu.Lock()
	fe.lastScore = avg
	fe.mu.Unlock()

	return avg.Fitness()
}

// runSimulation executes a single headless run and returns its windows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) []telemetry.WindowStats {
	cfg := fe.baseConfig.Clone()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		fe.logger.Error("applying parameters", "error", err)
		return nil
	}

	var windows []telemetry.WindowStats
	sim, err := game.New(cfg, cfg.Screen.Width, cfg.Screen.Height, game.Options{
		Seed:   seed,
		Logger: fe.logger,
		StatsCallback: func(stats telemetry.WindowStats) {
			windows = append(windows, stats)
		},
	})
	if err != nil {
		fe.logger.Error("creating simulation", "error", err)
		return nil
	}

	for sim.Tick() < fe.maxTicks {
		sim.Step()
	}
	return windows
}

// scoreWindows compares the settled windows against the targets. Runs
// that never settle get the worst score.
func (fe *FitnessEvaluator) scoreWindows(windows []telemetry.WindowStats) Score {
	if len(windows) <= warmupWindows {
		return Score{CoverageErr: 1, DropsErr: 1, Instability: 1}
	}
	settled := windows[warmupWindows:]

	coverage := make([]float64, len(settled))
	drops := make([]float64, len(settled))
	for i, w := range settled {
		coverage[i] = w.FogCoverage
		drops[i] = float64(w.Active)
	}

	s := Score{CoverageErr: math.Abs(stat.Mean(coverage, nil) - fe.targets.Coverage)}

	meanDrops, stdDrops := stat.MeanStdDev(drops, nil)
	if fe.targets.Drops > 0 {
		s.DropsErr = math.Min(1, math.Abs(meanDrops-fe.targets.Drops)/fe.targets.Drops)
	}
	if meanDrops > 0 && len(drops) > 1 {
		s.Instability = math.Min(1, stdDrops/meanDrops)
	} else {
		s.Instability = 1
	}
	return s
}
