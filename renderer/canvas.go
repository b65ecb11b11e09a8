// Package renderer defines the draw-command surface the simulation paints on.
// Hosts implement Canvas on top of a real backend.
package renderer

// Color is an 8-bit RGB colour with a [0, 1] alpha.
type Color struct {
	R, G, B uint8
	A       float64
}

// WithAlpha returns c with alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Canvas receives draw commands for one frame.
type Canvas interface {
	// Size returns the surface size in surface units.
	Size() (w, h int)
	// Clear starts a new frame.
	Clear()
	// Field paints a cols x rows grid of [0, 1] values, each cell cellSize
	// units wide, tinted with alpha·value. Backends may smooth it.
	Field(values []float64, cols, rows int, cellSize float64, tint Color, alpha float64)
	// Segment draws a line of the given width.
	Segment(x1, y1, x2, y2, width float64, c Color)
	// Disc draws a filled circle.
	Disc(x, y, r float64, c Color)
	// RadialGradient draws a circle fading from inner at the centre to outer at the rim.
	RadialGradient(x, y, r float64, inner, outer Color)
}

// Flusher is implemented by canvases that buffer commands and can fail
// when presenting them.
type Flusher interface {
	Flush() error
}
