package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/neural"
)

// Inspector renders the selected blip's state.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
	sections []SectionDescriptor
}

// NewInspector creates an inspector panel. Bar ranges come from cfg.
func NewInspector(x, y, width int32, cfg config.BlipConfig) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		sections: blipSections(cfg),
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for the blip at handle h.
func (ins *Inspector) Draw(h int, b *blip.Blip) {
	r := ins.renderer
	padding := r.Theme.Padding
	content := ins.width - padding*2

	rows := int32(2)
	for _, sd := range ins.sections {
		rows += int32(len(sd.Fields)) + 1
	}
	r.DrawPanel(ins.x, ins.y, ins.width, rows*(r.Theme.LineHeight+2)+padding*2)

	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Blip #%d", h), ins.x+padding, y, 16, rl.White)
	y += r.Theme.LineHeight + 6
	for _, sd := range ins.sections {
		y = r.DrawSection(ins.x+padding, y, sd, b, content)
	}
}

func blipSections(cfg config.BlipConfig) []SectionDescriptor {
	spike := neural.OutputDescriptors()[0]
	layout := fmt.Sprintf("%d in / %d out", len(neural.InputDescriptors()), len(neural.OutputDescriptors()))
	return []SectionDescriptor{
		{
			Title: "Lineage",
			Fields: []FieldDescriptor{
				{Label: "Gen", Widget: WidgetText, Format: "%.0f", Value: func(b *blip.Blip) float64 { return float64(b.Generation) }},
				{Label: "Parent", Widget: WidgetText, Text: func(b *blip.Blip) string {
					switch b.Parent {
					case components.NoParent:
						return "founder"
					case components.ParentGone:
						return "dead"
					}
					return fmt.Sprintf("#%d", b.Parent)
				}},
				{Label: "Children", Widget: WidgetText, Format: "%.0f", Value: func(b *blip.Blip) float64 { return float64(b.Children) }},
				{Label: "Age", Widget: WidgetText, Format: "%.1fs", Value: func(b *blip.Blip) float64 { return b.Age }},
			},
		},
		{
			Title: "State",
			Fields: []FieldDescriptor{
				{Label: "HP", Widget: WidgetBar, Range: FieldRange{Max: cfg.ReproThreshold}, Value: func(b *blip.Blip) float64 { return b.HP }},
				{Label: "Speed", Widget: WidgetBar, Range: FieldRange{Max: cfg.MaxSpeed * math.E}, Value: func(b *blip.Blip) float64 { return b.Speed }},
				{Label: "Eaten", Widget: WidgetText, Format: "%.3f", Value: func(b *blip.Blip) float64 { return b.Eaten.Float() }},
			},
		},
		{
			Title: "Outputs",
			Fields: []FieldDescriptor{
				{Label: spike.Label, Widget: WidgetCenteredBar, Range: FieldRange{Min: spike.Min, Max: spike.Max}, Value: func(b *blip.Blip) float64 { return b.Spike }},
				{Label: "Colour", Widget: WidgetColorSwatch, Color: func(b *blip.Blip) rl.Color {
					c := b.Color.Clamped()
					return rl.Color{R: uint8(c.R * 255), G: uint8(c.G * 255), B: uint8(c.B * 255), A: 255}
				}},
			},
		},
		{
			Title: "Brain",
			Fields: []FieldDescriptor{
				{Label: "Kind", Widget: WidgetText, Text: func(b *blip.Blip) string { return b.Brain.Kind().String() }},
				{Label: "Layout", Widget: WidgetText, Text: func(*blip.Blip) string { return layout }},
				{Label: "|w| mean", Widget: WidgetText, Format: "%.4f", Value: func(b *blip.Blip) float64 {
					w := b.Brain.Weights().Weights
					if len(w) == 0 {
						return 0
					}
					var sum float64
					for _, v := range w {
						sum += math.Abs(v)
					}
					return sum / float64(len(w))
				}},
			},
		},
	}
}
