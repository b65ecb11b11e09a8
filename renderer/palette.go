package renderer

import (
	"math"

	"github.com/crazy3lf/colorconv"

	"github.com/pthm-cable/rainglass/config"
)

// Palette holds the resolved colours for one frame.
type Palette struct {
	Fog       Color
	Drop      Color
	Highlight Color // refraction glint
}

// White is the fallback for unconvertible tints.
var White = Color{R: 255, G: 255, B: 255, A: 1}

// FromHSV converts a configured tint to an opaque Color. Hue wraps into
// [0, 360); saturation and value are clamped to [0, 1].
func FromHSV(c config.HSV) Color {
	h := math.Mod(c.Hue, 360)
	if h < 0 {
		h += 360
	}
	s := math.Max(0, math.Min(1, c.Saturation))
	v := math.Max(0, math.Min(1, c.Value))

	r, g, b, err := colorconv.HSVToRGB(h, s, v)
	if err != nil {
		return White
	}
	return Color{R: r, G: g, B: b, A: 1}
}

// NewPalette resolves the configured tints.
func NewPalette(cfg *config.Config) Palette {
	drop := FromHSV(cfg.Drops.Tint)
	return Palette{
		Fog:       FromHSV(cfg.Fog.Tint),
		Drop:      drop,
		Highlight: Lighten(drop, 0.6),
	}
}

// Lighten blends c towards white by t in [0, 1].
func Lighten(c Color, t float64) Color {
	mix := func(v uint8) uint8 {
		return uint8(math.Round(float64(v) + (255-float64(v))*t))
	}
	return Color{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
