package systems

import (
	"math/rand"
	"testing"
)

func TestParticleSystemLifecycle(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(1)))

	ps.EmitClick(100, 100)
	ps.EmitMerge(50, 50, 4)
	if ps.Count() < 13 {
		t.Fatalf("count = %d, want at least 13", ps.Count())
	}

	// Max life is 44 ticks
	for i := 0; i < 45; i++ {
		ps.Update()
	}
	if ps.Count() != 0 {
		t.Errorf("count after expiry = %d, want 0", ps.Count())
	}
}

func TestParticleSystemCap(t *testing.T) {
	ps := NewParticleSystem(rand.New(rand.NewSource(2)))
	for i := 0; i < 100; i++ {
		ps.EmitClick(0, 0)
	}
	if ps.Count() > ps.maxParticles {
		t.Errorf("count %d exceeds cap %d", ps.Count(), ps.maxParticles)
	}
	ps.Clear()
	if ps.Count() != 0 {
		t.Error("Clear left particles")
	}
}

func TestSystemRegistryOrder(t *testing.T) {
	reg := NewSystemRegistry()
	ids := reg.IDs()
	want := []string{"regenerate", "spawn", "update", "index", "collide", "compact", "telemetry", "draw"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %q, want %q", i, ids[i], want[i])
		}
	}
	if reg.GetName("collide") != "Collide" || reg.GetName("unknown") != "unknown" {
		t.Error("GetName fallback broken")
	}
}
