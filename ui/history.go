package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/telemetry"
)

const (
	// History buffer size (number of stats windows to keep)
	historySize = 120

	seriesCoverage = 0
	seriesActive   = 1
	seriesMerges   = 2
	seriesSizeP50  = 3
	numSeries      = 4

	legendItemWidth  = 90
	legendItemHeight = 18
)

var (
	seriesNames  = [numSeries]string{"Fog", "Drops", "Merges", "Size p50"}
	seriesColors = [numSeries]rl.Color{
		{R: 180, G: 200, B: 230, A: 255}, // Pale blue
		{R: 100, G: 149, B: 237, A: 255}, // Cornflower blue
		{R: 255, G: 200, B: 100, A: 255}, // Amber
		{R: 150, G: 255, B: 150, A: 255}, // Light green
	}

	colorGraphBg   = rl.Color{R: 10, G: 14, B: 20, A: 255}
	colorGraphGrid = rl.Color{R: 40, G: 45, B: 55, A: 255}
	colorTextDim   = rl.Color{R: 120, G: 120, B: 130, A: 255}
)

// HistoryPanel graphs recent stats windows. Each series is scaled to its
// own range; fog coverage is always drawn on [0, 1].
type HistoryPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32

	// Ring buffers, one per series
	history      [numSeries][]float64
	historyIndex int
	historyCount int

	seriesVisible [numSeries]bool
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel(x, y, width, height int32) *HistoryPanel {
	p := &HistoryPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
	for i := range p.history {
		p.history[i] = make([]float64, historySize)
		p.seriesVisible[i] = true
	}
	return p
}

// SetBounds moves and resizes the panel.
func (p *HistoryPanel) SetBounds(x, y, width, height int32) {
	p.x, p.y, p.width, p.height = x, y, width, height
}

// Record appends one stats window.
func (p *HistoryPanel) Record(stats telemetry.WindowStats) {
	idx := p.historyIndex
	p.history[seriesCoverage][idx] = stats.FogCoverage
	p.history[seriesActive][idx] = float64(stats.Active)
	p.history[seriesMerges][idx] = float64(stats.Merges)
	p.history[seriesSizeP50][idx] = stats.SizeP50

	p.historyIndex = (p.historyIndex + 1) % historySize
	if p.historyCount < historySize {
		p.historyCount++
	}
}

// Clear drops all recorded windows.
func (p *HistoryPanel) Clear() {
	p.historyIndex = 0
	p.historyCount = 0
}

// Len returns the number of recorded windows.
func (p *HistoryPanel) Len() int {
	return p.historyCount
}

// value returns the i-th oldest recorded value of a series.
func (p *HistoryPanel) value(series, i int) float64 {
	idx := (p.historyIndex - p.historyCount + i + historySize) % historySize
	return p.history[series][idx]
}

// seriesRange returns the padded value range of a series.
func (p *HistoryPanel) seriesRange(series int) (lo, hi float64) {
	if series == seriesCoverage {
		return 0, 1
	}
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for i := 0; i < p.historyCount; i++ {
		v := p.value(series, i)
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if p.historyCount == 0 || lo >= hi {
		return 0, math.Max(1, hi)
	}
	pad := (hi - lo) * 0.1
	return lo - pad, hi + pad
}

// HandleClick toggles a series when (mx, my) hits its legend entry and
// reports whether it did.
func (p *HistoryPanel) HandleClick(mx, my int32) bool {
	legendX, legendY := p.x+10, p.y+p.height-24
	for i := 0; i < numSeries; i++ {
		itemX := legendX + int32(i)*legendItemWidth
		if mx >= itemX && mx < itemX+legendItemWidth-5 && my >= legendY && my < legendY+legendItemHeight {
			p.seriesVisible[i] = !p.seriesVisible[i]
			return true
		}
	}
	return false
}

// Contains reports whether (x, y) falls on the panel.
func (p *HistoryPanel) Contains(x, y float64) bool {
	return x >= float64(p.x) && x < float64(p.x+p.width) &&
		y >= float64(p.y) && y < float64(p.y+p.height)
}

// Draw renders the panel.
func (p *HistoryPanel) Draw() {
	p.renderer.DrawPanel(p.x, p.y, p.width, p.height)
	rl.DrawText("HISTORY", p.x+10, p.y+6, 14, rl.White)

	if p.historyCount == 0 {
		rl.DrawText("Waiting for the first stats window...", p.x+100, p.y+p.height/2-7, 14, colorTextDim)
		return
	}

	graphX := p.x + 10
	graphY := p.y + 24
	graphW := p.width - 20
	graphH := p.height - 54
	p.drawGraph(graphX, graphY, graphW, graphH)
	p.drawLegend(p.x+10, p.y+p.height-24)
}

func (p *HistoryPanel) drawGraph(x, y, w, h int32) {
	rl.DrawRectangle(x, y, w, h, colorGraphBg)
	rl.DrawRectangleLines(x, y, w, h, p.renderer.Theme.PanelBorder)

	for i := int32(1); i < 4; i++ {
		gridY := y + (h * i / 4)
		rl.DrawLine(x, gridY, x+w, gridY, colorGraphGrid)
	}

	if p.historyCount < 2 {
		return
	}
	for s := 0; s < numSeries; s++ {
		if p.seriesVisible[s] {
			p.drawSeriesLine(x, y, w, h, s)
		}
	}
}

func (p *HistoryPanel) drawSeriesLine(x, y, w, h int32, series int) {
	lo, hi := p.seriesRange(series)
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	var prevX, prevY int32
	for i := 0; i < p.historyCount; i++ {
		v := p.value(series, i)
		px := x + int32(float64(i)*float64(w)/float64(p.historyCount-1))
		py := y + h - int32((v-lo)/span*float64(h))
		if py < y {
			py = y
		}
		if py > y+h {
			py = y + h
		}
		if i > 0 {
			rl.DrawLine(prevX, prevY, px, py, seriesColors[series])
		}
		prevX, prevY = px, py
	}

	// Latest value at the right edge
	label := fmt.Sprintf("%.2f", p.value(series, p.historyCount-1))
	rl.DrawText(label, x+w-rl.MeasureText(label, 9)-2, prevY-10, 9, seriesColors[series])
}

func (p *HistoryPanel) drawLegend(x, y int32) {
	for i := 0; i < numSeries; i++ {
		itemX := x + int32(i)*legendItemWidth
		color := seriesColors[i]
		textColor := p.renderer.Theme.LabelColor
		if !p.seriesVisible[i] {
			color.A = 80
			textColor = colorTextDim
		}
		rl.DrawRectangle(itemX, y+2, 10, 10, color)
		rl.DrawText(seriesNames[i], itemX+14, y, 11, textColor)
	}
	rl.DrawText("(click to toggle)", x+numSeries*legendItemWidth+10, y, 10, colorTextDim)
}
