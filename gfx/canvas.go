// Package gfx implements the draw-command surface on raylib.
package gfx

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/renderer"
)

// Glass is the backdrop behind the fog.
var Glass = color.RGBA{R: 18, G: 24, B: 34, A: 255}

// Canvas draws into the current raylib frame. The caller owns
// BeginDrawing/EndDrawing and the window.
type Canvas struct {
	fog *FogLayer
}

// NewCanvas creates a canvas. Call after the window is open.
func NewCanvas() *Canvas {
	return &Canvas{fog: NewFogLayer()}
}

// Size returns the current render size.
func (c *Canvas) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (c *Canvas) Clear() {
	rl.ClearBackground(Glass)
}

func (c *Canvas) Field(values []float64, cols, rows int, cellSize float64, tint renderer.Color, alpha float64) {
	c.fog.Update(values, cols, rows, tint, alpha)
	c.fog.Draw(cellSize)
}

func (c *Canvas) Segment(x1, y1, x2, y2, width float64, col renderer.Color) {
	rl.DrawLineEx(
		rl.NewVector2(float32(x1), float32(y1)),
		rl.NewVector2(float32(x2), float32(y2)),
		float32(width), toRL(col))
}

func (c *Canvas) Disc(x, y, r float64, col renderer.Color) {
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(r), toRL(col))
}

func (c *Canvas) RadialGradient(x, y, r float64, inner, outer renderer.Color) {
	rl.DrawCircleGradient(int32(x), int32(y), float32(r), toRL(inner), toRL(outer))
}

// Unload frees GPU resources.
func (c *Canvas) Unload() {
	c.fog.Unload()
}

func toRL(c renderer.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: unit8(c.A)}
}
