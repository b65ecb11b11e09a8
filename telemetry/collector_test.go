package telemetry

import (
	"math"
	"testing"
)

func TestCollectorWindow(t *testing.T) {
	c := NewCollector(10, 1.0/60)
	if c.ShouldFlush(9) {
		t.Fatal("flushed before window elapsed")
	}
	if !c.ShouldFlush(10) {
		t.Fatal("did not flush at window end")
	}

	c.RecordSpawn(3)
	c.RecordClick()
	c.RecordMerge()
	c.RecordMerge()
	c.RecordStuck()
	c.RecordBoundaryExit()
	c.RecordExpired(30)
	c.RecordExpired(10)

	counts := PhaseCounts{Moving: 2, Stopped: 1, Stuck: 1, Fading: 3}
	stats := c.Flush(10, counts, []float64{2, 4}, 0.75)

	if stats.Active != 7 {
		t.Errorf("Active = %d, want 7", stats.Active)
	}
	if stats.Spawns != 3 || stats.Clicks != 1 || stats.Merges != 2 || stats.Stickings != 1 {
		t.Errorf("event counters = %+v", stats)
	}
	if stats.Expired != 2 || stats.MeanLifetime != 20 {
		t.Errorf("expired = %d, mean lifetime = %v", stats.Expired, stats.MeanLifetime)
	}
	if stats.SizeMean != 3 || stats.SizeMax != 4 {
		t.Errorf("size mean/max = %v/%v", stats.SizeMean, stats.SizeMax)
	}
	if math.Abs(stats.SimTimeSec-10.0/60) > 1e-9 {
		t.Errorf("SimTimeSec = %v", stats.SimTimeSec)
	}

	// Counters reset and the next window starts at the flush tick
	if c.ShouldFlush(15) {
		t.Error("window did not restart at flush tick")
	}
	next := c.Flush(20, PhaseCounts{}, nil, 1)
	if next.WindowStartTick != 10 || next.Merges != 0 || next.MeanLifetime != 0 {
		t.Errorf("next window = %+v", next)
	}
}

func TestCollectorMinimumWindow(t *testing.T) {
	c := NewCollector(0, 1)
	if c.WindowDurationTicks() != 1 {
		t.Errorf("WindowDurationTicks = %d, want 1", c.WindowDurationTicks())
	}
}
