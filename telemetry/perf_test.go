package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseIndex)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseUpdate)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.PhaseAvg[PhaseIndex] <= 0 {
		t.Error("expected index phase to be tracked")
	}
	if stats.PhaseAvg[PhaseUpdate] <= 0 {
		t.Error("expected update phase to be tracked")
	}
	if stats.PhaseAvg[PhaseCollide] != 0 {
		t.Error("untimed phase has a duration")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseRegenerate)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("min %v > max %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSpawn)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseCollide)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseCollide] <= stats.PhasePct[PhaseSpawn] {
		t.Errorf("expected collide (%v%%) > spawn (%v%%)", stats.PhasePct[PhaseCollide], stats.PhasePct[PhaseSpawn])
	}
	if csv := stats.ToCSV(42); csv.WindowEnd != 42 || csv.CollidePct != stats.PhasePct[PhaseCollide] {
		t.Errorf("ToCSV = %+v", csv)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgTickDuration != 0 || stats.TicksPerSecond != 0 {
		t.Errorf("empty collector stats = %+v", stats)
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want (0, 70]", stats.FPS)
	}
}

func TestPhaseNames(t *testing.T) {
	phases := Phases()
	if len(phases) != int(numPhases) {
		t.Fatalf("len(Phases()) = %d", len(phases))
	}
	if PhaseRegenerate.String() != "regenerate" || PhaseDraw.String() != "draw" {
		t.Error("phase names out of order")
	}
	if Phase(200).String() != "unknown" {
		t.Error("out of range phase should be unknown")
	}
}
