package app

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/ui"
)

func (a *App) handleInput() {
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		a.handleClick(rl.GetMousePosition())
	}

	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if a.sim.Running() {
			a.sim.Stop()
		} else {
			a.sim.Start()
		}
	case rl.IsKeyPressed(rl.KeyR):
		if err := a.sim.Reset(); err != nil {
			a.logger.Error("reset failed", "error", err)
		}
		a.hasSelected = false
		a.history.Clear()
	case rl.IsKeyPressed(rl.KeyN):
		if err := a.restart(); err != nil {
			a.logger.Error("restart failed", "error", err)
		}
	case rl.IsKeyPressed(rl.KeyS):
		a.export()
	case rl.IsKeyPressed(rl.KeyTab):
		a.settings.Toggle()
	case rl.IsKeyPressed(rl.KeyF1):
		a.controls.Toggle()
	case rl.IsKeyPressed(rl.KeyF11):
		rl.ToggleFullscreen()
	}

	if key := rl.GetKeyPressed(); key != 0 {
		if id, on, ok := a.overlays.HandleKeyPress(key); ok {
			a.overlays.ApplyToVisual(&a.cfg.Visual)
			a.logger.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}
}

// handleClick selects a droplet when the inspector is open and one is under
// the pointer; otherwise the click rains on the glass.
func (a *App) handleClick(p rl.Vector2) {
	x, y := float64(p.X), float64(p.Y)
	if a.settings.Contains(x, y) {
		return
	}
	if a.overlays.IsEnabled(ui.OverlayHistory) && a.history.Contains(x, y) {
		a.history.HandleClick(int32(p.X), int32(p.Y))
		return
	}
	if a.overlays.IsEnabled(ui.OverlayInspector) {
		if e, ok := a.sim.DropletAt(x, y); ok {
			a.selected, a.hasSelected = e, true
			return
		}
	}
	a.sim.Click(x, y)
}
