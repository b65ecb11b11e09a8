package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/rainglass/components"
	"github.com/pthm-cable/rainglass/telemetry"
)

// InspectorData holds the snapshot of a selected droplet.
type InspectorData struct {
	ID       uint32
	Pos      components.Position
	Droplet  components.Droplet
	Life     telemetry.LifetimeStats
	HasLife  bool
	Age      int     // Ticks since birth
	SizeMax  float64 // Bar range for size
	Selected bool
}

func inspected(data any) InspectorData {
	d, _ := data.(InspectorData)
	return d
}

// inspectorSections describes the inspector layout.
var inspectorSections = []SectionDescriptor{
	{
		ID:    "state",
		Title: "State",
		Fields: []FieldDescriptor{
			{ID: "phase", Label: "Phase", Widget: WidgetText, TextGetter: func(v any) string {
				d := inspected(v).Droplet
				if s, ok := d.Phase.(components.Stuck); ok {
					return fmt.Sprintf("stuck (%d)", s.Remaining)
				}
				if d.Phase == nil {
					return "-"
				}
				return d.Phase.String()
			}},
			{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(v any) string {
				p := inspected(v).Pos
				return fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
			}},
			{ID: "size", Label: "Size", Widget: WidgetBar, Format: "%.2f", Getter: func(v any) float64 {
				return inspected(v).Droplet.Size
			}},
			{ID: "opacity", Label: "Opacity", Widget: WidgetBar, Range: DefaultRange(), Getter: func(v any) float64 {
				return inspected(v).Droplet.Opacity
			}},
		},
	},
	{
		ID:    "motion",
		Title: "Motion",
		Fields: []FieldDescriptor{
			{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.3f", Getter: func(v any) float64 {
				return inspected(v).Droplet.Speed
			}},
			{ID: "momentum", Label: "Momentum", Widget: WidgetText, Format: "%+.3f", Getter: func(v any) float64 {
				return inspected(v).Droplet.Momentum
			}},
			{ID: "trail", Label: "Trail", Widget: WidgetText, Format: "%.0f pts", Getter: func(v any) float64 {
				return float64(len(inspected(v).Droplet.Trail))
			}},
			{ID: "sticky", Label: "Sticky", Widget: WidgetText, TextGetter: func(v any) string {
				if inspected(v).Droplet.CanStick {
					return "yes"
				}
				return "no"
			}},
		},
	},
	{
		ID:      "history",
		Title:   "History",
		Visible: func(v any) bool { return inspected(v).HasLife },
		Fields: []FieldDescriptor{
			{ID: "age", Label: "Age", Widget: WidgetText, Format: "%.0f ticks", Getter: func(v any) float64 {
				return float64(inspected(v).Age)
			}},
			{ID: "origin", Label: "Origin", Widget: WidgetText, TextGetter: func(v any) string {
				if inspected(v).Life.FromClick {
					return "click"
				}
				return "rain"
			}},
			{ID: "merges", Label: "Merges", Widget: WidgetText, Format: "%.0f", Getter: func(v any) float64 {
				return float64(inspected(v).Life.Merges)
			}},
			{ID: "stickings", Label: "Stickings", Widget: WidgetText, Format: "%.0f", Getter: func(v any) float64 {
				return float64(inspected(v).Life.Stickings)
			}},
			{ID: "peak", Label: "Peak size", Widget: WidgetText, Format: "%.2f", Getter: func(v any) float64 {
				return inspected(v).Life.PeakSize
			}},
			{ID: "distance", Label: "Distance", Widget: WidgetText, Format: "%.0f px", Getter: func(v any) float64 {
				return inspected(v).Life.Distance
			}},
		},
	},
}

// Inspector renders details for the selected droplet.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector and returns the Y below it.
func (ins *Inspector) Draw(data InspectorData) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	if !data.Selected {
		r.DrawPanel(ins.x, ins.y, ins.width, r.Theme.LineHeight+padding*2)
		rl.DrawText("Click a droplet to inspect", ins.x+padding, ins.y+padding, r.Theme.FontSize, r.Theme.LabelColor)
		return ins.y + r.Theme.LineHeight + padding*2
	}

	sections := sizedSections(data.SizeMax)
	height := r.Theme.LineHeight + 4 + padding*2
	for _, sd := range sections {
		height += r.sectionHeight(sd, data)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + padding
	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Droplet #%d", data.ID), x, y, 16, rl.White)
	y += r.Theme.LineHeight + 4

	for _, sd := range sections {
		y = r.DrawSection(x, y, sd, data, ins.width-padding*2)
	}
	return y
}

// sizedSections returns the layout with the size bar ranged to sizeMax.
func sizedSections(sizeMax float64) []SectionDescriptor {
	out := make([]SectionDescriptor, len(inspectorSections))
	copy(out, inspectorSections)
	state := out[0]
	state.Fields = append([]FieldDescriptor(nil), state.Fields...)
	for i := range state.Fields {
		if state.Fields[i].ID == "size" {
			state.Fields[i].Range = FieldRange{Min: 0, Max: sizeMax}
		}
	}
	out[0] = state
	return out
}
