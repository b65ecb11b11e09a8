package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/rainglass/config"
	"github.com/pthm-cable/rainglass/game"
	"github.com/pthm-cable/rainglass/renderer"
)

func newTestScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func TestCanvasSize(t *testing.T) {
	c := NewCanvas(newTestScreen(t, 20, 10), 4)
	if w, h := c.Size(); w != 80 || h != 80 {
		t.Errorf("Size = %dx%d, want 80x80", w, h)
	}
	if x, y := c.ToSurface(2, 3); x != 10 || y != 28 {
		t.Errorf("ToSurface(2, 3) = %v, %v, want 10, 28", x, y)
	}
}

func TestCanvasDisc(t *testing.T) {
	c := NewCanvas(newTestScreen(t, 20, 10), 4)
	c.Clear()
	if got := c.Pixel(5, 5); got != Glass {
		t.Fatalf("cleared pixel = %+v, want %+v", got, Glass)
	}

	red := renderer.Color{R: 255, A: 1}
	c.Disc(22, 22, 6, red)

	if got := c.Pixel(5, 5); got != red {
		t.Errorf("centre pixel = %+v, want %+v", got, red)
	}
	if got := c.Pixel(0, 0); got != Glass {
		t.Errorf("far pixel = %+v, want glass", got)
	}

	// Sub-pixel discs still mark the pixel under them.
	c.Disc(70, 70, 0.1, red)
	if got := c.Pixel(17, 17); got != red {
		t.Errorf("tiny disc pixel = %+v, want %+v", got, red)
	}

	// Off-surface shapes are clipped.
	c.Disc(-50, -50, 3, red)
}

func TestCanvasBlendsAlpha(t *testing.T) {
	c := NewCanvas(newTestScreen(t, 4, 2), 1)
	c.Clear()
	white := renderer.Color{R: 255, G: 255, B: 255, A: 0.5}
	c.Disc(0.5, 0.5, 0.1, white)

	got := c.Pixel(0, 0)
	want := renderer.Color{R: 137, G: 140, B: 145, A: 1}
	if got != want {
		t.Errorf("blended pixel = %+v, want %+v", got, want)
	}
}

func TestCanvasField(t *testing.T) {
	c := NewCanvas(newTestScreen(t, 4, 2), 1)
	c.Clear()
	white := renderer.Color{R: 255, G: 255, B: 255, A: 1}

	// 2x2 field of 2-unit cells: only the top-left cell is fogged.
	c.Field([]float64{1, 0, 0, 0}, 2, 2, 2, white, 1)

	if got := c.Pixel(1, 1); got != white {
		t.Errorf("fogged pixel = %+v, want white", got)
	}
	if got := c.Pixel(2, 1); got != Glass {
		t.Errorf("clear pixel = %+v, want glass", got)
	}
}

func TestCanvasFlush(t *testing.T) {
	screen := newTestScreen(t, 4, 2)
	c := NewCanvas(screen, 1)
	c.Clear()
	c.Disc(0.5, 0.5, 0.1, renderer.Color{R: 255, A: 1})

	if err := c.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	r, _, style, _ := screen.GetContent(0, 0)
	if r != halfBlock {
		t.Errorf("rune = %q, want %q", r, halfBlock)
	}
	if style != c.cellStyle(0, 0) {
		t.Error("cell style does not match the rasterised pixels")
	}
}

func TestSimulationDrawsToTerminal(t *testing.T) {
	screen := newTestScreen(t, 40, 20)
	c := NewCanvas(screen, 4)
	w, h := c.Size()

	cfg := config.Default()
	cfg.Drops.SpawnChance = 0
	sim, err := game.New(cfg, w, h, game.Options{Seed: 3})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sim.Spawn(80, 40, 6)
	sim.Step()
	if err := sim.Draw(c); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	r, _, _, _ := screen.GetContent(20, 5)
	if r != halfBlock {
		t.Errorf("rune = %q, want %q", r, halfBlock)
	}
	if c.Pixel(20, 10) == c.Pixel(0, 39) {
		t.Error("droplet pixel indistinguishable from untouched fog")
	}
}
