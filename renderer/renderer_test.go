package renderer

import (
	"errors"
	"testing"

	"github.com/pthm-cable/rainglass/config"
)

func TestFromHSV(t *testing.T) {
	tests := []struct {
		name string
		in   config.HSV
		want Color
	}{
		{"red", config.HSV{Hue: 0, Saturation: 1, Value: 1}, Color{R: 255, A: 1}},
		{"black", config.HSV{Hue: 120, Saturation: 1, Value: 0}, Color{A: 1}},
		{"white", config.HSV{Hue: 0, Saturation: 0, Value: 1}, Color{R: 255, G: 255, B: 255, A: 1}},
		{"wrapped hue", config.HSV{Hue: 360, Saturation: 1, Value: 1}, Color{R: 255, A: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromHSV(tt.in); got != tt.want {
				t.Errorf("FromHSV(%+v) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultPaletteIsBluishWhite(t *testing.T) {
	p := NewPalette(config.Default())
	if p.Fog.B <= p.Fog.R || p.Fog.R < 180 {
		t.Errorf("fog tint %+v, want pale blue", p.Fog)
	}
	if p.Highlight.R < p.Drop.R || p.Highlight.B < p.Drop.B {
		t.Errorf("highlight %+v not lighter than drop %+v", p.Highlight, p.Drop)
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder(40, 30)
	if w, h := r.Size(); w != 40 || h != 30 {
		t.Fatalf("Size = %dx%d", w, h)
	}

	values := []float64{0.5, 1}
	r.Clear()
	r.Field(values, 2, 1, 20, White, 0.2)
	r.Segment(0, 0, 1, 1, 2, White)
	r.Disc(5, 5, 3, White)
	r.RadialGradient(5, 5, 3, White, White.WithAlpha(0))

	values[0] = 0 // recorder keeps its own copy
	if r.Ops[1].Values[0] != 0.5 {
		t.Error("field values aliased caller slice")
	}
	for kind, want := range map[OpKind]int{OpClear: 1, OpField: 1, OpSegment: 1, OpDisc: 1, OpGradient: 1} {
		if got := r.Count(kind); got != want {
			t.Errorf("Count(%v) = %d, want %d", kind, got, want)
		}
	}

	r.Clear()
	if len(r.Ops) != 1 {
		t.Errorf("Clear kept %d ops", len(r.Ops))
	}

	r.Err = errors.New("boom")
	if err := r.Flush(); err == nil {
		t.Error("Flush should surface Err")
	}
	if err := r.Flush(); err != nil {
		t.Errorf("second Flush = %v, want nil", err)
	}
}
