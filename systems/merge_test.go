package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/rainglass/components"
)

func TestCollides(t *testing.T) {
	a := components.Droplet{Size: 3}
	b := components.Droplet{Size: 2}

	tests := []struct {
		name   string
		dx     float64
		factor float64
		want   bool
	}{
		{"overlapping", 4, 1, true},
		{"touching is not colliding", 5, 1, false},
		{"apart", 6, 1, false},
		{"apart but wide reach", 6, 1.5, true},
		{"overlapping but narrow reach", 4, 0.5, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa := components.Position{X: 10, Y: 10}
			pb := components.Position{X: 10 + tt.dx, Y: 10}
			if got := Collides(&pa, &a, &pb, &b, tt.factor); got != tt.want {
				t.Errorf("Collides = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeConservesMass(t *testing.T) {
	s, _, _ := newTestSystem(t, 11)

	pa, a := s.NewDroplet(0, 0, 3)
	pb, b := s.NewDroplet(5, 1, 4)
	a.Speed, a.Momentum = 1, 0.2
	b.Speed, b.Momentum = 2, -0.1
	b.Phase = components.Stopped{}

	ma, mb := a.Mass, b.Mass
	total := ma + mb

	if s.Merge(&pa, &a, &pb, &b) {
		t.Fatal("smaller droplet survived")
	}

	if a.Active {
		t.Error("absorbed droplet still active")
	}
	if !b.Active || !b.IsMoving() {
		t.Errorf("survivor active=%v phase=%v, want active and moving", b.Active, b.Phase)
	}
	if math.Abs(b.Mass-total) > 1e-9 {
		t.Errorf("mass %v, want %v", b.Mass, total)
	}
	if math.Abs(b.Size-math.Sqrt(total/math.Pi)) > 1e-9 {
		t.Errorf("size %v, want %v", b.Size, math.Sqrt(total/math.Pi))
	}

	wantX := (0*ma + 5*mb) / total
	wantY := (0*ma + 1*mb) / total
	if math.Abs(pb.X-wantX) > 1e-9 || math.Abs(pb.Y-wantY) > 1e-9 {
		t.Errorf("centroid (%v, %v), want (%v, %v)", pb.X, pb.Y, wantX, wantY)
	}

	wantSpeed := (1*ma + 2*mb) / total
	if math.Abs(b.Speed-wantSpeed) > 1e-9 {
		t.Errorf("speed %v, want %v", b.Speed, wantSpeed)
	}
	wantMomentum := (0.2*ma - 0.1*mb) / total
	if math.Abs(b.Momentum-wantMomentum) > 1e-9 {
		t.Errorf("momentum %v, want %v", b.Momentum, wantMomentum)
	}
	if b.MaxSpeed != 2+b.Size*0.5 {
		t.Errorf("max speed %v not recomputed", b.MaxSpeed)
	}
}

func TestMergeTieGoesToFirst(t *testing.T) {
	s, _, _ := newTestSystem(t, 12)
	pa, a := s.NewDroplet(0, 0, 3)
	pb, b := s.NewDroplet(2, 0, 3)

	if !s.Merge(&pa, &a, &pb, &b) {
		t.Fatal("equal mass: first operand should survive")
	}
	if !a.Active || b.Active {
		t.Errorf("a.Active=%v b.Active=%v", a.Active, b.Active)
	}
	if pa.X != 1 {
		t.Errorf("centroid x = %v, want 1", pa.X)
	}
}
