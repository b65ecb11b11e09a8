// Package app hosts the simulation in a raylib window: it owns the
// current run, the UI panels and the frame loop.
package app

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/game"
	"github.com/pthm-cable/rainglass/gfx"
	"github.com/pthm-cable/rainglass/systems"
	"github.com/pthm-cable/rainglass/telemetry"
	"github.com/pthm-cable/rainglass/ui"
)

// DefaultExportPath is where the export action writes the live settings.
const DefaultExportPath = "rainglass-settings.yaml"

const controlsLegend = "Click: rain | Space: pause | R: reset | N: restart | S: export | Tab: settings | F1: keys | 1-3: visuals | P/I/B/H: debug"

// Options configures the window host.
type Options struct {
	Sim        game.Options
	MaxTicks   int    // Close the window after N ticks (0 = unlimited)
	ExportPath string // Settings export target (empty = DefaultExportPath)
}

// App is the window host. Create it after rl.InitWindow.
type App struct {
	cfg    *config.Config
	sim    *game.Simulation
	opts   Options
	logger *slog.Logger
	canvas *gfx.Canvas

	// UI
	registry  *systems.SystemRegistry
	overlays  *ui.OverlayRegistry
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	controls  *ui.ControlsPanel
	quick     *ui.QuickStatsPanel
	settings  *ui.SettingsPanel
	inspector *ui.Inspector
	history   *ui.HistoryPanel

	selected    ecs.Entity
	hasSelected bool
	lastStats   telemetry.WindowStats
	hasStats    bool
}

const (
	historyWidth  = 520
	historyHeight = 180
)

// New creates the host and starts the first run on the current window.
func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.ExportPath == "" {
		opts.ExportPath = DefaultExportPath
	}
	logger := opts.Sim.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := systems.NewSystemRegistry()
	a := &App{
		cfg:    cfg,
		opts:   opts,
		logger: logger,
		canvas: gfx.NewCanvas(),

		registry:  registry,
		overlays:  ui.NewOverlayRegistry(),
		hud:       ui.NewHUD(),
		perfPanel: ui.NewPerfPanel(10, 100, registry),
		controls:  ui.NewControlsPanel(10, 100, 220),
		quick:     ui.NewQuickStatsPanel(10, 0, 220),
		settings:  ui.NewSettingsPanel(0, 10, 260),
		inspector: ui.NewInspector(0, 10, 240),
		history:   ui.NewHistoryPanel(0, 0, historyWidth, historyHeight),
	}
	a.overlays.SyncFromVisual(cfg.Visual)

	// Keep the caller's callback and record the latest window for the HUD.
	userCallback := opts.Sim.StatsCallback
	a.opts.Sim.StatsCallback = func(s telemetry.WindowStats) {
		a.lastStats, a.hasStats = s, true
		a.history.Record(s)
		if userCallback != nil {
			userCallback(s)
		}
	}

	if err := a.restart(); err != nil {
		a.canvas.Unload()
		return nil, err
	}
	return a, nil
}

// restart replaces the current run with a freshly constructed one on the
// current window size.
func (a *App) restart() error {
	sim, err := game.New(a.cfg, rl.GetScreenWidth(), rl.GetScreenHeight(), a.opts.Sim)
	if err != nil {
		return fmt.Errorf("starting simulation: %w", err)
	}
	sim.Start()
	a.sim = sim
	a.hasSelected = false
	a.hasStats = false
	a.history.Clear()
	a.logger.Info("simulation started", "seed", sim.Seed(),
		"width", rl.GetScreenWidth(), "height", rl.GetScreenHeight())
	return nil
}

// Run drives the frame loop until the window closes or MaxTicks is reached.
func (a *App) Run() error {
	for !rl.WindowShouldClose() {
		if err := a.frame(time.Now()); err != nil {
			return err
		}
		if a.opts.MaxTicks > 0 && int(a.sim.Tick()) >= a.opts.MaxTicks {
			a.logger.Info("max ticks reached", "tick", a.sim.Tick())
			return nil
		}
	}
	return nil
}

func (a *App) frame(now time.Time) error {
	a.handleResize()
	a.handleInput()

	rl.BeginDrawing()
	defer rl.EndDrawing()

	// The back buffer is not preserved, so frames without a step redraw.
	stepped, err := a.sim.Frame(now, a.canvas)
	if err != nil {
		return err
	}
	if !stepped {
		if err := a.sim.Draw(a.canvas); err != nil {
			return err
		}
	}
	a.sim.Perf().RecordFrame()

	a.drawOverlays()
	return a.drawUI()
}

// Unload frees GPU resources. Call before rl.CloseWindow.
func (a *App) Unload() {
	a.canvas.Unload()
}

// Simulation returns the current run.
func (a *App) Simulation() *game.Simulation {
	return a.sim
}

func (a *App) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if err := a.sim.Resize(w, h); err != nil {
		// Minimised windows report 0x0; keep the old surface.
		a.logger.Warn("resize rejected", "error", err)
	}
}

func (a *App) drawUI() error {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	a.hud.Draw(ui.HUDData{
		Title:    "Rain on Glass",
		Counts:   a.sim.Counts(),
		Tick:     a.sim.Tick(),
		FPS:      rl.GetFPS(),
		Coverage: a.sim.Fog().Coverage(),
		Paused:   !a.sim.Running(),
	})

	leftY := int32(100)
	if a.overlays.IsEnabled(ui.OverlayPerf) {
		a.perfPanel.SetPosition(10, leftY)
		a.perfPanel.Draw(a.sim.Perf().Stats())
		leftY += 40 + int32(len(telemetry.Phases()))*14
	}
	a.controls.SetPosition(10, leftY)
	leftY = a.controls.Draw(a.overlays, !a.sim.Running()) + 8
	if a.hasStats {
		a.quick.SetPosition(10, leftY)
		a.quick.Draw(a.lastStats)
	}

	rightY := int32(10)
	if a.settings.IsVisible() {
		a.settings.SetPosition(screenW-270, rightY)
		action := a.settings.Draw(a.cfg, a.overlays)
		rightY += a.settings.Height() + 10
		if err := a.applySettings(action); err != nil {
			return err
		}
	}
	if a.overlays.IsEnabled(ui.OverlayInspector) {
		a.inspector.SetPosition(screenW-250, rightY)
		a.inspector.Draw(a.inspection())
	}

	if a.overlays.IsEnabled(ui.OverlayHistory) {
		a.history.SetBounds((screenW-historyWidth)/2, screenH-historyHeight-40, historyWidth, historyHeight)
		a.history.Draw()
	}

	a.hud.DrawControls(screenH, controlsLegend)
	return nil
}

// applySettings carries out panel button presses.
func (a *App) applySettings(action ui.SettingsAction) error {
	for _, key := range action.Changed {
		v, _ := a.cfg.Get(key)
		a.logger.Debug("parameter changed", "key", key, "value", v)
	}
	if action.Export {
		a.export()
	}
	if action.Defaults {
		a.cfg = config.Default()
		a.overlays.SyncFromVisual(a.cfg.Visual)
		a.logger.Info("settings reset to defaults")
		return a.restart()
	}
	if action.Restart || action.NeedsRestart {
		return a.restart()
	}
	return nil
}

func (a *App) export() {
	if err := a.cfg.WriteYAML(a.opts.ExportPath); err != nil {
		a.logger.Error("failed to export settings", "path", a.opts.ExportPath, "error", err)
		return
	}
	a.logger.Info("settings exported", "path", a.opts.ExportPath)
}

// inspection snapshots the selected droplet, dropping the selection once
// the droplet is gone.
func (a *App) inspection() ui.InspectorData {
	if !a.hasSelected {
		return ui.InspectorData{}
	}
	pos, d, ok := a.sim.Droplet(a.selected)
	if !ok || !d.Active {
		a.hasSelected = false
		return ui.InspectorData{}
	}
	data := ui.InspectorData{
		ID:       a.selected.ID(),
		Pos:      *pos,
		Droplet:  *d,
		SizeMax:  a.cfg.Drops.SizeMax * 2,
		Selected: true,
	}
	if life := a.sim.Lifetimes().Get(a.selected.ID()); life != nil {
		data.Life = *life
		data.HasLife = true
		data.Age = a.sim.Lifetimes().Age(a.selected.ID(), a.sim.Tick())
	}
	return data
}
