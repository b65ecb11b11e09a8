package ui

import (
	"fmt"
	"math"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/config"
)

// SettingsAction reports what the user asked for on the last Draw.
type SettingsAction struct {
	Changed      []string // Keys of parameters changed this frame
	NeedsRestart bool     // A changed parameter only applies to a new run
	Restart      bool
	Defaults     bool
	Export       bool
}

// SettingsPanel draws a slider per tunable parameter plus the visual
// toggles and run buttons.
type SettingsPanel struct {
	renderer *Renderer
	params   []config.Param
	x, y     int32
	width    int32
	visible  bool
}

const (
	sliderHeight = 14
	buttonHeight = 24
)

// NewSettingsPanel creates a hidden settings panel.
func NewSettingsPanel(x, y, width int32) *SettingsPanel {
	return &SettingsPanel{
		renderer: NewRenderer(),
		params:   config.Params(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (s *SettingsPanel) SetPosition(x, y int32) {
	s.x = x
	s.y = y
}

// Toggle switches panel visibility.
func (s *SettingsPanel) Toggle() bool {
	s.visible = !s.visible
	return s.visible
}

// IsVisible returns whether the panel is shown.
func (s *SettingsPanel) IsVisible() bool {
	return s.visible
}

// Height returns the panel height for the current parameter table.
func (s *SettingsPanel) Height() int32 {
	t := s.renderer.Theme
	rows := int32(len(s.params))
	return t.Padding*2 + t.LineHeight + 4 + // title
		rows*(t.LineHeight+sliderHeight+4) +
		3*t.LineHeight + 8 + // toggles
		buttonHeight
}

// Contains reports whether (x, y) falls on the visible panel. The host
// uses it to keep clicks on the panel from reaching the glass.
func (s *SettingsPanel) Contains(x, y float64) bool {
	if !s.visible {
		return false
	}
	return x >= float64(s.x) && x < float64(s.x+s.width) &&
		y >= float64(s.y) && y < float64(s.y+s.Height())
}

// Draw renders the panel, applies slider and toggle changes to cfg and
// overlays, and returns the requested actions.
func (s *SettingsPanel) Draw(cfg *config.Config, overlays *OverlayRegistry) SettingsAction {
	var action SettingsAction
	if !s.visible {
		return action
	}

	r := s.renderer
	t := r.Theme
	r.DrawPanel(s.x, s.y, s.width, s.Height())

	x := s.x + t.Padding
	y := s.y + t.Padding
	inner := float32(s.width - t.Padding*2)

	rl.DrawText("Settings", x, y, 16, rl.White)
	y += t.LineHeight + 4

	for _, p := range s.params {
		cur := p.Value(cfg)
		label := p.Label
		if p.Restart {
			label += " *"
		}
		rl.DrawText(label, x, y, t.FontSize, t.LabelColor)
		rl.DrawText(formatParam(p, cur), x+int32(inner)-60, y, t.FontSize, t.ValueColor)
		y += t.LineHeight

		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: inner, Height: sliderHeight}
		raw := gui.SliderBar(bounds, "", "", float32(cur), float32(p.Min), float32(p.Max))
		// float32 slider round-trips must not register as edits
		if next := Quantize(p, float64(raw)); math.Abs(next-cur) >= p.Step/2 {
			if err := cfg.Set(p.Key, next); err == nil {
				action.Changed = append(action.Changed, p.Key)
				action.NeedsRestart = action.NeedsRestart || p.Restart
			}
		}
		y += sliderHeight + 4
	}

	y += 4
	for _, desc := range overlays.ByCategory("visual") {
		bounds := rl.Rectangle{X: float32(x), Y: float32(y), Width: 12, Height: 12}
		on := overlays.IsEnabled(desc.ID)
		if gui.CheckBox(bounds, fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel), on) != on {
			overlays.Toggle(desc.ID)
		}
		y += t.LineHeight
	}
	overlays.ApplyToVisual(&cfg.Visual)
	y += 4

	third := (inner - 8) / 3
	row := func(i int) rl.Rectangle {
		return rl.Rectangle{X: float32(x) + float32(i)*(third+4), Y: float32(y), Width: third, Height: buttonHeight}
	}
	action.Restart = gui.Button(row(0), "Restart")
	action.Defaults = gui.Button(row(1), "Defaults")
	action.Export = gui.Button(row(2), "Export")

	return action
}

// Quantize snaps v to the parameter's step and clamps it to its bounds.
func Quantize(p config.Param, v float64) float64 {
	if p.Step > 0 {
		v = p.Min + math.Round((v-p.Min)/p.Step)*p.Step
	}
	return math.Max(p.Min, math.Min(p.Max, v))
}

func formatParam(p config.Param, v float64) string {
	switch {
	case p.Step >= 1:
		return fmt.Sprintf("%.0f", v)
	case p.Step >= 0.01:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.5f", v)
	}
}
