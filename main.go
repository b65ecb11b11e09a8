package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/app"
	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/game"
	"github.com/pthm-cable/rainglass/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Int("stats-window", 0, "Stats window size in ticks (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	exportPath := flag.String("export", app.DefaultExportPath, "Settings export path")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	output, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer output.Close()
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	opts := game.Options{
		Seed:     *seed, // 0 draws a fresh seed per run
		LogStats: *logStats,
		Logger:   logger,
		Output:   output,
	}

	if *headless {
		if err := runHeadless(cfg, opts, *maxTicks); err != nil {
			slog.Error("headless run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Rain on Glass")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	a, err := app.New(cfg, app.Options{Sim: opts, MaxTicks: *maxTicks, ExportPath: *exportPath})
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Unload()

	if err := a.Run(); err != nil {
		slog.Error("frame failed", "error", err)
	}
}

// runHeadless steps the simulation as fast as possible on the configured
// screen size. Without max ticks it runs until killed.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int) error {
	sim, err := game.New(cfg, cfg.Screen.Width, cfg.Screen.Height, opts)
	if err != nil {
		return err
	}

	slog.Info("starting headless simulation",
		"seed", sim.Seed(),
		"stats_window", cfg.Telemetry.StatsWindow,
		"max_ticks", maxTicks,
	)

	for maxTicks <= 0 || int(sim.Tick()) < maxTicks {
		sim.Step()
	}
	slog.Info("max ticks reached", "tick", sim.Tick(), "active", sim.ActiveCount(),
		"fog_coverage", sim.Fog().Coverage())
	return nil
}
