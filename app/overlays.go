package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/ui"
)

var (
	bucketLine   = rl.Color{R: 255, G: 255, B: 255, A: 30}
	selectedRing = rl.Color{R: 255, G: 220, B: 120, A: 220}
)

// drawOverlays draws the debug layers on top of the glass.
func (a *App) drawOverlays() {
	if a.overlays.IsEnabled(ui.OverlayBuckets) {
		a.drawBuckets()
	}
	if a.overlays.IsEnabled(ui.OverlayInspector) && a.hasSelected {
		if pos, d, ok := a.sim.Droplet(a.selected); ok && d.Active {
			rl.DrawCircleLines(int32(pos.X), int32(pos.Y), float32(d.Size+4), selectedRing)
		}
	}
}

func (a *App) drawBuckets() {
	step := a.cfg.Simulation.BucketSize
	w, h := a.sim.Size()
	for x := step; x < w; x += step {
		rl.DrawLine(int32(x), 0, int32(x), int32(h), bucketLine)
	}
	for y := step; y < h; y += step {
		rl.DrawLine(0, int32(y), int32(w), int32(y), bucketLine)
	}
}
