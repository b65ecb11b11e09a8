package main

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := config.Default()
	pv, err := NewParamVector(DefaultKeys, cfg)
	if err != nil {
		t.Fatalf("NewParamVector: %v", err)
	}
	if pv.Dim() != len(DefaultKeys) {
		t.Fatalf("Dim = %d", pv.Dim())
	}

	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-12 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}

	got := pv.ExtractFromConfig(cfg)
	for i := range def {
		if got[i] != def[i] {
			t.Errorf("%s: extracted %v, default %v", pv.Specs[i].Name, got[i], def[i])
		}
	}
}

func TestNewParamVectorRejectsUnknownKey(t *testing.T) {
	_, err := NewParamVector([]string{"fog.nope"}, config.Default())
	if !errors.Is(err, config.ErrUnknownParam) {
		t.Errorf("err = %v, want ErrUnknownParam", err)
	}
}

func TestApplyToConfigClampsAndRounds(t *testing.T) {
	cfg := config.Default()
	pv, err := NewParamVector([]string{"drops.max_count", "drops.spawn_chance"}, cfg)
	if err != nil {
		t.Fatalf("NewParamVector: %v", err)
	}
	if err := pv.ApplyToConfig(cfg, []float64{41.6, 3}); err != nil {
		t.Fatalf("ApplyToConfig: %v", err)
	}
	if cfg.Drops.MaxCount != 42 {
		t.Errorf("MaxCount = %d, want 42", cfg.Drops.MaxCount)
	}
	if cfg.Drops.SpawnChance != pv.Specs[1].Max {
		t.Errorf("SpawnChance = %v, want clamped to %v", cfg.Drops.SpawnChance, pv.Specs[1].Max)
	}
}

func TestScoreWindows(t *testing.T) {
	fe := &FitnessEvaluator{targets: Targets{Coverage: 0.5, Drops: 20}}

	if s := fe.scoreWindows(nil); s.Fitness() != weightCoverage+weightDrops+weightStability {
		t.Errorf("empty run fitness = %v, want worst", s.Fitness())
	}

	windows := []telemetry.WindowStats{
		{FogCoverage: 1, Active: 0}, // warmup
		{FogCoverage: 1, Active: 0},
		{FogCoverage: 0.6, Active: 20},
		{FogCoverage: 0.6, Active: 20},
	}
	s := fe.scoreWindows(windows)
	if math.Abs(s.CoverageErr-0.1) > 1e-9 {
		t.Errorf("CoverageErr = %v, want 0.1", s.CoverageErr)
	}
	if s.DropsErr != 0 || s.Instability != 0 {
		t.Errorf("on-target steady run scored %+v", s)
	}
}

func TestEvaluateShortRun(t *testing.T) {
	cfg := config.Default()
	cfg.Screen.Width, cfg.Screen.Height = 200, 150
	cfg.Telemetry.StatsWindow = 50

	pv, err := NewParamVector(DefaultKeys, cfg)
	if err != nil {
		t.Fatalf("NewParamVector: %v", err)
	}
	fe := NewFitnessEvaluator(pv, 300, []int64{1, 2}, cfg, Targets{Coverage: 0.6, Drops: 10},
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	fitness := fe.Evaluate(pv.DefaultVector())
	if math.IsNaN(fitness) || fitness < 0 {
		t.Fatalf("fitness = %v", fitness)
	}
	if got := fe.LastScore().Fitness(); math.Abs(got-fitness) > 1e-12 {
		t.Errorf("LastScore fitness %v != %v", got, fitness)
	}
	if float64(cfg.Drops.MaxCount) != pv.Specs[3].Default {
		t.Error("Evaluate mutated the base config")
	}
}
