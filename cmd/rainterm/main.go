// Command rainterm runs the rain simulation in a terminal.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/game"
	"github.com/pthm-cable/rainglass/term"
)

const exportPath = "rainglass-settings.yaml"

type host struct {
	screen tcell.Screen
	canvas *term.Canvas
	cfg    *config.Config
	opts   game.Options
	sim    *game.Simulation
	logger *slog.Logger

	mouseDown bool
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	scale := flag.Float64("scale", 4, "Surface units per terminal pixel")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	logPath := flag.String("log", "rainterm.log", "Log file (stdout is the screen)")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewJSONHandler(logFile, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()

	h := &host{
		screen: screen,
		canvas: term.NewCanvas(screen, *scale),
		cfg:    cfg,
		opts:   game.Options{Seed: *seed, Logger: logger},
		logger: logger,
	}
	if err := h.restart(); err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	err = h.run()
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func (h *host) restart() error {
	w, ht := h.canvas.Size()
	sim, err := game.New(h.cfg, w, ht, h.opts)
	if err != nil {
		return fmt.Errorf("starting simulation: %w", err)
	}
	sim.Start()
	h.sim = sim
	h.logger.Info("simulation started", "seed", sim.Seed(), "width", w, "height", ht)
	return nil
}

// run multiplexes terminal events and frame ticks on the main goroutine;
// only this goroutine touches the simulation.
func (h *host) run() error {
	interval := h.cfg.Derived.TickInterval
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	// Tick faster than the simulation; Frame throttles.
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := h.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok || !h.handleEvent(ev) {
				return nil
			}

		case now := <-ticker.C:
			if _, err := h.sim.Frame(now, h.canvas); err != nil {
				return err
			}
		}
	}
}

// handleEvent reports false when the user asked to quit.
func (h *host) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			if h.sim.Running() {
				h.sim.Stop()
			} else {
				h.sim.Start()
			}
		case 'r':
			if err := h.sim.Reset(); err != nil {
				h.logger.Error("reset failed", "error", err)
			}
		case 'n':
			if err := h.restart(); err != nil {
				h.logger.Error("restart failed", "error", err)
			}
		case 's':
			if err := h.cfg.WriteYAML(exportPath); err != nil {
				h.logger.Error("failed to export settings", "error", err)
			} else {
				h.logger.Info("settings exported", "path", exportPath)
			}
		}

	case *tcell.EventMouse:
		// Drags report Button1 on every motion; rain once per press.
		down := ev.Buttons()&tcell.Button1 != 0
		if down && !h.mouseDown {
			col, row := ev.Position()
			h.sim.Click(h.canvas.ToSurface(col, row))
		}
		h.mouseDown = down

	case *tcell.EventResize:
		h.screen.Sync()
		h.canvas.Sync()
		w, ht := h.canvas.Size()
		if err := h.sim.Resize(w, ht); err != nil {
			h.logger.Warn("resize rejected", "error", err)
		}
	}
	return true
}
