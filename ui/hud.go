package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/systems"
	"github.com/pthm-cable/rainglass/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title    string
	Counts   telemetry.PhaseCounts
	Tick     int32
	FPS      int32
	Coverage float64 // Fog coverage [0, 1]
	Paused   bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	c := data.Counts
	rl.DrawText(
		fmt.Sprintf("Drops: %d | Moving: %d | Stopped: %d | Stuck: %d | Fading: %d",
			c.Total(), c.Moving, c.Stopped, c.Stuck, c.Fading),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Fog: %.0f%%", data.Tick, data.FPS, data.Coverage*100),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase timing breakdown.
type PerfPanel struct {
	renderer *Renderer
	registry *systems.SystemRegistry
	x, y     int32
}

// NewPerfPanel creates a new performance panel. Phase names are resolved
// through registry.
func NewPerfPanel(x, y int32, registry *systems.SystemRegistry) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		registry: registry,
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Tick Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(
		fmt.Sprintf("Avg: %s | Max: %s | %.0f tps",
			stats.AvgTickDuration.Round(time.Microsecond),
			stats.MaxTickDuration.Round(time.Microsecond),
			stats.TicksPerSecond),
		x, y, 14, rl.Yellow,
	)
	y += 16

	for _, phase := range telemetry.Phases() {
		pct := stats.PhasePct[phase]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-12s %8s %5.1f%%", p.registry.GetName(phase.String()),
				stats.PhaseAvg[phase].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
