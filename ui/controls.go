package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/telemetry"
)

// runKeys are the host key bindings listed above the overlays.
var runKeys = []struct{ label, key string }{
	{"Pause", "Space"},
	{"Reset glass", "R"},
	{"New run", "N"},
	{"Export settings", "S"},
	{"Settings panel", "Tab"},
}

// keyRow is one line of the key panel.
type keyRow struct {
	label  string
	key    string
	header bool
	on     bool // toggle currently active
	closes bool // enabling it would close an active overlay
}

// keyRows lays out the run keys, then the overlays grouped by category.
func keyRows(overlays *OverlayRegistry, paused bool) []keyRow {
	rows := []keyRow{{label: "Run", header: true}}
	for _, k := range runKeys {
		rows = append(rows, keyRow{label: k.label, key: k.key, on: k.key == "Space" && paused})
	}
	for _, cat := range overlays.Categories() {
		title := "Debug"
		if cat == "visual" {
			title = "Visual"
		}
		rows = append(rows, keyRow{label: title, header: true})
		for _, desc := range overlays.ByCategory(cat) {
			row := keyRow{label: desc.Name, key: desc.KeyLabel, on: overlays.IsEnabled(desc.ID)}
			for _, other := range desc.Exclusive {
				row.closes = row.closes || (!row.on && overlays.IsEnabled(other))
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// ControlsPanel lists key bindings and which toggles are on. F1 shows it.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	visible  bool
}

// NewControlsPanel creates a hidden key panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x, c.y = x, y
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Draw renders the panel and returns the Y below it.
func (c *ControlsPanel) Draw(overlays *OverlayRegistry, paused bool) int32 {
	if !c.visible {
		return c.y
	}

	t := c.renderer.Theme
	rows := keyRows(overlays, paused)
	height := t.Padding*2 + int32(len(rows))*t.LineHeight
	c.renderer.DrawPanel(c.x, c.y, c.width, height)

	x := c.x + t.Padding
	inner := c.width - t.Padding*2
	y := c.y + t.Padding
	for _, row := range rows {
		if row.header {
			rl.DrawText(row.label, x, y, t.HeaderFontSize, t.SectionHeader)
			y += t.LineHeight
			continue
		}

		dot, text := rl.Color{R: 70, G: 80, B: 90, A: 255}, t.LabelColor
		switch {
		case row.on:
			dot, text = t.BarFill, rl.White
		case row.closes:
			text = rl.Color{R: 120, G: 120, B: 130, A: 255}
		}
		rl.DrawCircle(x+4, y+6, 3, dot)
		rl.DrawText(row.label, x+14, y, t.FontSize, text)

		key := "[" + row.key + "]"
		rl.DrawText(key, x+inner-rl.MeasureText(key, t.FontSize), y, t.FontSize, t.ValueColor)
		y += t.LineHeight
	}
	return y
}

// QuickStatsPanel renders the most recent stats window.
type QuickStatsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewQuickStatsPanel creates a new quick stats panel.
func NewQuickStatsPanel(x, y, width int32) *QuickStatsPanel {
	return &QuickStatsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (q *QuickStatsPanel) SetPosition(x, y int32) {
	q.x = x
	q.y = y
}

// Draw renders the quick stats panel and returns the Y below it.
func (q *QuickStatsPanel) Draw(stats telemetry.WindowStats) int32 {
	r := q.renderer
	padding := r.Theme.Padding
	lineHeight := r.Theme.LineHeight

	panelHeight := lineHeight*6 + padding*2
	r.DrawPanel(q.x, q.y, q.width, panelHeight)

	y := q.y + padding
	rl.DrawText(fmt.Sprintf("Window @ %.0fs", stats.SimTimeSec), q.x+padding, y, 14, rl.White)
	y += lineHeight + 2

	x := q.x + padding
	y = r.DrawLabelValue(x, y, "Spawns", fmt.Sprintf("%d (+%d click)", stats.Spawns, stats.Clicks))
	y = r.DrawLabelValue(x, y, "Merges", fmt.Sprintf("%d", stats.Merges))
	y = r.DrawLabelValue(x, y, "Size p50/p90", fmt.Sprintf("%.1f / %.1f", stats.SizeP50, stats.SizeP90))
	y = r.DrawLabelValue(x, y, "Lifetime", fmt.Sprintf("%.0f ticks", stats.MeanLifetime))

	return y
}
