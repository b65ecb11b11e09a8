// Package term implements the draw-command surface on a tcell screen.
//
// Each terminal cell shows two vertically stacked pixels using the upper
// half block: the foreground colour is the top pixel, the background the
// bottom one. Pixels are square, scale surface units on a side.
package term

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/rainglass/renderer"
)

const halfBlock = '▀'

// Glass is the backdrop behind the fog.
var Glass = renderer.Color{R: 18, G: 24, B: 34, A: 1}

type rgb struct{ r, g, b float64 }

// Canvas rasterises draw commands into a pixel buffer and presents it on
// Flush.
type Canvas struct {
	screen tcell.Screen
	scale  float64

	cols, rows int // terminal cells
	px         []rgb
}

// NewCanvas creates a canvas over screen. scale is the number of surface
// units per pixel; values below 1 are raised to 1.
func NewCanvas(screen tcell.Screen, scale float64) *Canvas {
	c := &Canvas{screen: screen, scale: math.Max(1, scale)}
	c.Sync()
	return c
}

// Sync resizes the pixel buffer to the current screen size. Call after a
// resize event.
func (c *Canvas) Sync() {
	c.cols, c.rows = c.screen.Size()
	n := c.cols * c.rows * 2
	if cap(c.px) < n {
		c.px = make([]rgb, n)
	}
	c.px = c.px[:n]
}

// Size returns the surface size in surface units.
func (c *Canvas) Size() (int, int) {
	return int(float64(c.cols) * c.scale), int(float64(c.rows*2) * c.scale)
}

// ToSurface maps a terminal cell to the surface point at its centre.
func (c *Canvas) ToSurface(col, row int) (float64, float64) {
	return (float64(col) + 0.5) * c.scale, (float64(row) + 0.5) * 2 * c.scale
}

func (c *Canvas) Clear() {
	g := rgb{float64(Glass.R), float64(Glass.G), float64(Glass.B)}
	for i := range c.px {
		c.px[i] = g
	}
}

func (c *Canvas) Field(values []float64, cols, rows int, cellSize float64, tint renderer.Color, alpha float64) {
	if cols <= 0 || rows <= 0 || cellSize <= 0 {
		return
	}
	h := c.rows * 2
	for py := 0; py < h; py++ {
		fy := int((float64(py) + 0.5) * c.scale / cellSize)
		if fy >= rows {
			fy = rows - 1
		}
		for px := 0; px < c.cols; px++ {
			fx := int((float64(px) + 0.5) * c.scale / cellSize)
			if fx >= cols {
				fx = cols - 1
			}
			c.blend(px, py, tint, values[fy*cols+fx]*alpha)
		}
	}
}

func (c *Canvas) Segment(x1, y1, x2, y2, width float64, col renderer.Color) {
	length := math.Hypot(x2-x1, y2-y1)
	steps := int(math.Ceil(length/c.scale)) + 1
	r := math.Max(width/2, c.scale/2)
	for i := 0; i < steps; i++ {
		t := 0.0
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		c.stamp(x1+(x2-x1)*t, y1+(y2-y1)*t, r, func(float64) renderer.Color { return col })
	}
}

func (c *Canvas) Disc(x, y, r float64, col renderer.Color) {
	c.stamp(x, y, r, func(float64) renderer.Color { return col })
}

func (c *Canvas) RadialGradient(x, y, r float64, inner, outer renderer.Color) {
	c.stamp(x, y, r, func(d float64) renderer.Color {
		t := 0.0
		if r > 0 {
			t = math.Min(1, d/r)
		}
		return lerp(inner, outer, t)
	})
}

// stamp blends every pixel whose centre lies within r of (x, y). The pixel
// under the centre is always touched so sub-pixel shapes stay visible.
func (c *Canvas) stamp(x, y, r float64, colorAt func(dist float64) renderer.Color) {
	cx, cy := int(math.Floor(x/c.scale)), int(math.Floor(y/c.scale))
	c.blend(cx, cy, colorAt(0))

	reach := int(math.Ceil(r/c.scale)) + 1
	for py := cy - reach; py <= cy+reach; py++ {
		for px := cx - reach; px <= cx+reach; px++ {
			if px == cx && py == cy {
				continue
			}
			sx, sy := (float64(px)+0.5)*c.scale, (float64(py)+0.5)*c.scale
			d := math.Hypot(sx-x, sy-y)
			if d <= r {
				c.blend(px, py, colorAt(d))
			}
		}
	}
}

// blend composites col at the given alpha multiplier over pixel (px, py).
// Out-of-range pixels are ignored.
func (c *Canvas) blend(px, py int, col renderer.Color, alpha ...float64) {
	if px < 0 || py < 0 || px >= c.cols || py >= c.rows*2 {
		return
	}
	a := col.A
	for _, m := range alpha {
		a *= m
	}
	a = math.Max(0, math.Min(1, a))
	p := &c.px[py*c.cols+px]
	p.r += (float64(col.R) - p.r) * a
	p.g += (float64(col.G) - p.g) * a
	p.b += (float64(col.B) - p.b) * a
}

// Pixel returns the rasterised colour of pixel (px, py).
func (c *Canvas) Pixel(px, py int) renderer.Color {
	p := c.px[py*c.cols+px]
	return renderer.Color{R: channel(p.r), G: channel(p.g), B: channel(p.b), A: 1}
}

// Flush presents the buffer on the screen.
func (c *Canvas) Flush() error {
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			c.screen.SetContent(col, row, halfBlock, nil, c.cellStyle(col, row))
		}
	}
	c.screen.Show()
	return nil
}

func (c *Canvas) cellStyle(col, row int) tcell.Style {
	return tcell.StyleDefault.
		Foreground(toTcell(c.Pixel(col, row*2))).
		Background(toTcell(c.Pixel(col, row*2+1)))
}

func toTcell(c renderer.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func lerp(a, b renderer.Color, t float64) renderer.Color {
	mix := func(x, y uint8) uint8 {
		return channel(float64(x) + (float64(y)-float64(x))*t)
	}
	return renderer.Color{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: a.A + (b.A-a.A)*t,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}
