package telemetry

import (
	"math"
	"testing"
)

func TestComputeSizeStats(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		mean     float64
		p50, max float64
	}{
		{"empty", nil, 0, 0, 0},
		{"single", []float64{4}, 4, 4, 4},
		{"odd", []float64{5, 1, 3, 2, 4}, 3, 3, 5},
		{"ten", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 5.5, 5, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, p10, p50, p90, max := ComputeSizeStats(tt.values)
			if math.Abs(mean-tt.mean) > 1e-9 {
				t.Errorf("mean = %v, want %v", mean, tt.mean)
			}
			if p50 != tt.p50 {
				t.Errorf("p50 = %v, want %v", p50, tt.p50)
			}
			if max != tt.max {
				t.Errorf("max = %v, want %v", max, tt.max)
			}
			if p10 > p50 || p50 > p90 || p90 > max {
				t.Errorf("percentiles out of order: %v %v %v %v", p10, p50, p90, max)
			}
		})
	}
}

func TestComputeSizeStatsLeavesInput(t *testing.T) {
	values := []float64{3, 1, 2}
	ComputeSizeStats(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("input reordered: %v", values)
	}
}
