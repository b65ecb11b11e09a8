package gfx

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/renderer"
)

// FogLayer draws the fog field as one texture, one texel per cell, scaled
// up with bilinear filtering so the cell grid reads as a soft haze.
type FogLayer struct {
	tex         rl.Texture2D
	texW, texH  int
	pixels      []color.RGBA
	initialized bool
}

// NewFogLayer creates an empty fog layer. The texture is created lazily
// on first upload, after the window exists.
func NewFogLayer() *FogLayer {
	return &FogLayer{}
}

// init (re)creates the texture for a cols x rows field.
func (l *FogLayer) init(cols, rows int) {
	if l.initialized {
		if l.texW == cols && l.texH == rows {
			return
		}
		rl.UnloadTexture(l.tex)
	}

	l.texW, l.texH = cols, rows
	img := rl.GenImageColor(cols, rows, rl.Blank)
	l.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(l.tex, rl.FilterBilinear)
	rl.SetTextureWrap(l.tex, rl.WrapClamp)
	rl.UnloadImage(img)

	l.pixels = make([]color.RGBA, cols*rows)
	l.initialized = true
}

// Update uploads field values as tinted texels whose alpha is value·alpha.
func (l *FogLayer) Update(values []float64, cols, rows int, tint renderer.Color, alpha float64) {
	if cols <= 0 || rows <= 0 || len(values) != cols*rows {
		return
	}
	l.init(cols, rows)

	for i, v := range values {
		l.pixels[i] = color.RGBA{R: tint.R, G: tint.G, B: tint.B, A: unit8(v * alpha)}
	}
	rl.UpdateTexture(l.tex, l.pixels)
}

// Draw stretches the texture over the field's extent in screen units.
func (l *FogLayer) Draw(cellSize float64) {
	if !l.initialized {
		return
	}
	src := rl.Rectangle{Width: float32(l.texW), Height: float32(l.texH)}
	dst := rl.Rectangle{
		Width:  float32(float64(l.texW) * cellSize),
		Height: float32(float64(l.texH) * cellSize),
	}
	rl.DrawTexturePro(l.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (l *FogLayer) Unload() {
	if !l.initialized {
		return
	}
	rl.UnloadTexture(l.tex)
	l.initialized = false
}

// unit8 maps [0, 1] to [0, 255], clamping.
func unit8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
