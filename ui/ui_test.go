package ui

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/components"
	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/telemetry"
)

func TestOverlayToggleAndExclusive(t *testing.T) {
	reg := NewOverlayRegistry()

	if !reg.Toggle(OverlayInspector) || !reg.IsEnabled(OverlayInspector) {
		t.Fatal("inspector should be on after toggle")
	}
	reg.Toggle(OverlayPerf)
	if !reg.Toggle(OverlayHistory) {
		t.Fatal("history should be on after toggle")
	}
	if reg.IsEnabled(OverlayInspector) {
		t.Error("enabling history should close the inspector")
	}
	if !reg.IsEnabled(OverlayPerf) {
		t.Error("perf is not exclusive with history")
	}
	reg.SetEnabled(OverlayInspector, true)
	if reg.IsEnabled(OverlayHistory) {
		t.Error("enabling the inspector should close history")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay toggled on")
	}
}

func TestOverlayKeyPress(t *testing.T) {
	reg := NewOverlayRegistry()
	id, on, ok := reg.HandleKeyPress(rl.KeyTwo)
	if !ok || id != OverlayDynamicShape || !on {
		t.Fatalf("HandleKeyPress(2) = %q, %v, %v", id, on, ok)
	}
	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key handled")
	}
}

func TestOverlayVisualSync(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.SyncFromVisual(config.VisualConfig{Refraction: true, BackgroundFlourish: true})

	got := reg.EnabledOverlays()
	if len(got) != 2 || got[0] != OverlayRefraction || got[1] != OverlayFlourish {
		t.Fatalf("EnabledOverlays = %v", got)
	}

	reg.Toggle(OverlayRefraction)
	reg.Toggle(OverlayDynamicShape)
	var v config.VisualConfig
	reg.ApplyToVisual(&v)
	want := config.VisualConfig{DynamicShape: true, BackgroundFlourish: true}
	if v != want {
		t.Errorf("ApplyToVisual = %+v, want %+v", v, want)
	}
}

func TestOverlayCategories(t *testing.T) {
	reg := NewOverlayRegistry()
	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "visual" || cats[1] != "debug" {
		t.Fatalf("Categories = %v", cats)
	}
	if n := len(reg.ByCategory("visual")); n != 3 {
		t.Errorf("visual overlays = %d, want 3", n)
	}
}

func TestFieldRangeNormalize(t *testing.T) {
	tests := []struct {
		rng  FieldRange
		v    float64
		want float64
	}{
		{DefaultRange(), 0.25, 0.25},
		{DefaultRange(), -1, 0},
		{DefaultRange(), 2, 1},
		{FieldRange{Min: 2, Max: 6}, 3, 0.25},
		{FieldRange{Min: 1, Max: 1}, 5, 0},
	}
	for _, tt := range tests {
		if got := tt.rng.Normalize(tt.v); got != tt.want {
			t.Errorf("%+v.Normalize(%v) = %v, want %v", tt.rng, tt.v, got, tt.want)
		}
	}
}

func TestQuantize(t *testing.T) {
	p, ok := config.Lookup("drops.max_count")
	if !ok {
		t.Fatal("drops.max_count not registered")
	}
	if got := Quantize(p, 12.6); got != 13 {
		t.Errorf("Quantize(12.6) = %v, want 13", got)
	}
	if got := Quantize(p, -4); got != p.Min {
		t.Errorf("Quantize below range = %v, want %v", got, p.Min)
	}

	p, _ = config.Lookup("fog.opacity")
	if got := Quantize(p, 0.456); math.Abs(got-0.46) > 1e-9 {
		t.Errorf("Quantize(0.456) = %v, want 0.46", got)
	}
	if got := Quantize(p, 7); got != p.Max {
		t.Errorf("Quantize above range = %v, want %v", got, p.Max)
	}
}

func TestInspectorFields(t *testing.T) {
	data := InspectorData{
		Droplet: components.Droplet{Phase: components.Stuck{Remaining: 12}, Size: 3},
		SizeMax: 6,
	}
	sections := sizedSections(data.SizeMax)

	phase := sections[0].Fields[0]
	if got := fieldText(phase, data); got != "stuck (12)" {
		t.Errorf("phase text = %q", got)
	}
	for _, fd := range sections[0].Fields {
		if fd.ID == "size" && fd.Range.Normalize(fd.Getter(data)) != 0.5 {
			t.Errorf("size bar = %v, want 0.5", fd.Range.Normalize(fd.Getter(data)))
		}
	}
	if inspectorSections[0].Fields[2].Range.Max != 0 {
		t.Error("sizedSections mutated the shared layout")
	}

	r := NewRenderer()
	history := sections[2]
	if h := r.sectionHeight(history, data); h != 0 {
		t.Errorf("history without lifetime has height %d", h)
	}
	data.HasLife = true
	if h := r.sectionHeight(history, data); h <= r.Theme.LineHeight {
		t.Errorf("history height %d too small", h)
	}
}

func TestHistoryRingBuffer(t *testing.T) {
	p := NewHistoryPanel(0, 0, 400, 200)
	for i := 0; i < historySize+5; i++ {
		p.Record(telemetry.WindowStats{Active: i, FogCoverage: 0.5})
	}
	if p.Len() != historySize {
		t.Fatalf("Len = %d, want %d", p.Len(), historySize)
	}
	if got := p.value(seriesActive, 0); got != 5 {
		t.Errorf("oldest active = %v, want 5", got)
	}
	if got := p.value(seriesActive, historySize-1); got != historySize+4 {
		t.Errorf("newest active = %v, want %d", got, historySize+4)
	}

	lo, hi := p.seriesRange(seriesCoverage)
	if lo != 0 || hi != 1 {
		t.Errorf("coverage range = [%v, %v], want [0, 1]", lo, hi)
	}
	lo, hi = p.seriesRange(seriesActive)
	if lo >= 5 || hi <= historySize+4 {
		t.Errorf("active range [%v, %v] does not pad the data", lo, hi)
	}

	p.Clear()
	if p.Len() != 0 {
		t.Errorf("Len after Clear = %d", p.Len())
	}
}

func TestHistoryFlatSeriesRange(t *testing.T) {
	p := NewHistoryPanel(0, 0, 400, 200)
	p.Record(telemetry.WindowStats{Merges: 3})
	p.Record(telemetry.WindowStats{Merges: 3})
	if lo, hi := p.seriesRange(seriesMerges); lo != 0 || hi != 3 {
		t.Errorf("flat range = [%v, %v], want [0, 3]", lo, hi)
	}
}

func TestHistoryLegendClick(t *testing.T) {
	p := NewHistoryPanel(100, 50, 400, 200)
	legendY := int32(50 + 200 - 24 + 5)

	if !p.HandleClick(100+10+legendItemWidth+3, legendY) {
		t.Fatal("click on second legend item missed")
	}
	if p.seriesVisible[seriesActive] {
		t.Error("series still visible after toggle")
	}
	if p.HandleClick(100+10, 60) {
		t.Error("click above the legend toggled a series")
	}
	if !p.Contains(150, 100) || p.Contains(50, 100) {
		t.Error("Contains mismatch")
	}
}

func TestKeyRows(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.SetEnabled(OverlayInspector, true)

	rows := keyRows(reg, true)
	want := 1 + len(runKeys) + 2 + len(reg.All())
	if len(rows) != want {
		t.Fatalf("rows = %d, want %d", len(rows), want)
	}
	if !rows[1].on || rows[1].key != "Space" {
		t.Errorf("pause row = %+v, want on while paused", rows[1])
	}

	byLabel := map[string]keyRow{}
	for _, r := range rows {
		byLabel[r.label] = r
	}
	if r := byLabel["Inspector"]; !r.on || r.closes {
		t.Errorf("inspector row = %+v", r)
	}
	if r := byLabel["History"]; r.on || !r.closes {
		t.Errorf("history row = %+v, want marked as closing the inspector", r)
	}
	if r := byLabel["Buckets"]; r.closes {
		t.Errorf("buckets row = %+v, not exclusive with anything", r)
	}
}
