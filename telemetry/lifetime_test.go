package telemetry

import "testing"

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(7, 100, 3, false)
	lt.Register(8, 110, 2, true)

	lt.RecordMove(7, 1.5, 3.2)
	lt.RecordMove(7, 0.5, 3.1)
	lt.RecordMerge(7, 4)
	lt.RecordStuck(7)
	lt.RecordStuck(99) // unknown IDs are ignored

	s := lt.Get(7)
	if s == nil {
		t.Fatal("stats missing")
	}
	if s.Distance != 2 || s.Merges != 1 || s.Stickings != 1 || s.PeakSize != 4 {
		t.Errorf("stats = %+v", s)
	}
	if got := lt.Age(7, 160); got != 60 {
		t.Errorf("Age = %d, want 60", got)
	}
	if !lt.Get(8).FromClick {
		t.Error("click origin lost")
	}

	if removed := lt.Remove(7); removed != s {
		t.Error("Remove returned wrong stats")
	}
	if lt.Count() != 1 || lt.Age(7, 200) != 0 {
		t.Error("removed droplet still tracked")
	}

	lt.Clear()
	if lt.Count() != 0 {
		t.Error("Clear kept entries")
	}
}
