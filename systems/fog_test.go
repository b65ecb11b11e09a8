package systems

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func TestNewFogFieldRejectsBadInput(t *testing.T) {
	tests := []struct {
		name     string
		w, h, cs float64
		want     error
	}{
		{"zero cell size", 100, 100, 0, ErrInvalidCellSize},
		{"negative cell size", 100, 100, -3, ErrInvalidCellSize},
		{"nan cell size", 100, 100, math.NaN(), ErrInvalidCellSize},
		{"infinite cell size", 100, 100, math.Inf(1), ErrInvalidCellSize},
		{"zero width", 0, 100, 3, ErrInvalidSurface},
		{"negative height", 100, -1, 3, ErrInvalidSurface},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFogField(tt.w, tt.h, tt.cs)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if f != nil {
				t.Error("expected nil field on error")
			}
		})
	}
}

func TestFogFieldInitFullyFogged(t *testing.T) {
	f, err := NewFogField(10, 7, 3)
	if err != nil {
		t.Fatal(err)
	}

	cols, rows := f.Size()
	if cols != 4 || rows != 3 {
		t.Errorf("grid = %dx%d, want 4x3", cols, rows)
	}
	for i, v := range f.Cells() {
		if v != 1 {
			t.Fatalf("cell %d = %v, want 1", i, v)
		}
	}
	if f.Coverage() != 1 {
		t.Errorf("coverage = %v, want 1", f.Coverage())
	}
}

func TestClearAtFalloff(t *testing.T) {
	f, err := NewFogField(30, 30, 1)
	if err != nil {
		t.Fatal(err)
	}

	f.ClearAt(15.5, 15.5, 3, 0.5)

	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"centre", 15.5, 15.5, 0.5},
		{"one cell out", 15.5, 16.5, 1 - 0.5*(2.0/3.0)},
		{"rim", 15.5, 18.5, 1},
		{"diagonal", 17.5, 17.5, 1 - 0.5*(1-math.Sqrt(8)/3)},
		{"beyond rim", 19.5, 15.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := f.DensityAt(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DensityAt(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestClearAtNonPositiveRadiusIsNoop(t *testing.T) {
	f, _ := NewFogField(20, 20, 2)
	f.ClearAt(10, 10, 0, 1)
	f.ClearAt(10, 10, -5, 1)
	if f.Coverage() != 1 {
		t.Errorf("coverage = %v, want untouched 1", f.Coverage())
	}
}

func TestClearAtOffGridSkipsCells(t *testing.T) {
	f, _ := NewFogField(20, 20, 2)
	// Centre outside the grid; the overlapping part of the disc still clears.
	f.ClearAt(-1, -1, 4, 1)
	if got := f.DensityAt(0.5, 0.5); got >= 1 {
		t.Errorf("corner cell = %v, want cleared below 1", got)
	}
	// Far away: nothing in range.
	f.Fill(1)
	f.ClearAt(1000, 1000, 4, 1)
	if f.Coverage() != 1 {
		t.Errorf("coverage = %v, want 1", f.Coverage())
	}
}

func TestDensityAtOutsideGrid(t *testing.T) {
	f, _ := NewFogField(30, 30, 3)
	for _, p := range [][2]float64{{-0.1, 5}, {5, -0.1}, {30, 5}, {5, 30}, {math.NaN(), 1}} {
		if got := f.DensityAt(p[0], p[1]); got != 0 {
			t.Errorf("DensityAt(%v, %v) = %v, want 0", p[0], p[1], got)
		}
	}
}

func TestFogFieldStaysInBounds(t *testing.T) {
	f, _ := NewFogField(120, 80, 3)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 2000; i++ {
		x := rng.Float64()*160 - 20
		y := rng.Float64()*120 - 20
		r := rng.Float64() * 25
		amt := rng.Float64() * 2
		switch rng.Intn(3) {
		case 0:
			f.ClearAt(x, y, r, amt)
		case 1:
			f.AddFog(x, y, r, amt)
		default:
			f.Regenerate(rng.Float64() * 0.2)
		}
	}

	for i, v := range f.Cells() {
		if v < 0 || v > 1 {
			t.Fatalf("cell %d = %v outside [0, 1]", i, v)
		}
	}
}

func TestRegenerateRestoresAfterCeilSteps(t *testing.T) {
	for _, rate := range []float64{0.1, 0.3, 0.0006, 1.0 / 3.0} {
		f, _ := NewFogField(9, 9, 3)
		f.Fill(0)

		steps := int(math.Ceil(1 / rate))
		for i := 0; i < steps-1; i++ {
			f.Regenerate(rate)
		}
		if got := f.DensityAt(1, 1); got >= 1 {
			t.Errorf("rate %v: cell reached 1 after %d steps, want < 1", rate, steps-1)
		}

		f.Regenerate(rate)
		for i, v := range f.Cells() {
			if v != 1 {
				t.Fatalf("rate %v: cell %d = %v after %d steps, want exactly 1", rate, i, v, steps)
			}
		}
	}
}

func TestAddFogClampsAtOne(t *testing.T) {
	f, _ := NewFogField(30, 30, 3)
	f.Fill(0.9)
	f.AddFog(15, 15, 9, 5)
	if got := f.DensityAt(15, 15); got != 1 {
		t.Errorf("centre = %v, want 1", got)
	}
}

func TestInitReallocates(t *testing.T) {
	f, _ := NewFogField(30, 30, 3)
	f.Fill(0.2)
	if err := f.Init(60, 15, 5); err != nil {
		t.Fatal(err)
	}
	cols, rows := f.Size()
	if cols != 12 || rows != 3 || len(f.Cells()) != 36 {
		t.Errorf("grid = %dx%d (%d cells), want 12x3", cols, rows, len(f.Cells()))
	}
	if f.Coverage() != 1 {
		t.Errorf("coverage after Init = %v, want 1", f.Coverage())
	}
	if err := f.Init(60, 15, 0); !errors.Is(err, ErrInvalidCellSize) {
		t.Errorf("Init with zero cell size = %v", err)
	}
}
