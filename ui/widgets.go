package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/blip"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	return y + r.Theme.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawBar draws a progress bar for value within rng.
func (r *Renderer) DrawBar(x, y int32, label string, value float64, rng FieldRange, width int32) int32 {
	ratio := (value - rng.Min) / (rng.Max - rng.Min)
	ratio = min(max(ratio, 0), 1)

	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*ratio), r.Theme.BarHeight, r.Theme.BarFill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawCenteredBar draws a bar that grows left or right from zero, scaled
// by the larger magnitude of the range ends.
func (r *Renderer) DrawCenteredBar(x, y int32, label string, value float64, rng FieldRange, width int32) int32 {
	barX := x + r.Theme.LabelWidth
	barWidth := width - r.Theme.LabelWidth - 50
	centerX := barX + barWidth/2

	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Theme.BarHeight, r.Theme.BarBg)
	rl.DrawLine(centerX, y+2, centerX, y+2+r.Theme.BarHeight, rl.Color{R: 80, G: 80, B: 80, A: 255})

	extent := max(math.Abs(rng.Min), math.Abs(rng.Max))
	frac := 0.0
	if extent > 0 {
		frac = min(math.Abs(value)/extent, 1)
	}
	fillWidth := int32(float64(barWidth/2) * frac)
	fillX, barColor := centerX, r.Theme.BarFillPositive
	if value < 0 {
		fillX, barColor = centerX-fillWidth, r.Theme.BarFillNegative
	}
	rl.DrawRectangle(fillX, y+2, fillWidth, r.Theme.BarHeight, barColor)
	rl.DrawText(fmt.Sprintf("%+.2f", value), barX+barWidth+5, y, r.Theme.FontSize, r.Theme.ValueColor)

	return y + r.Theme.LineHeight + 2
}

// DrawColorSwatch draws a color swatch.
func (r *Renderer) DrawColorSwatch(x, y int32, label string, color rl.Color) int32 {
	rl.DrawText(label+":", x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawRectangle(x+r.Theme.LabelWidth, y+1, 12, 12, color)
	return y + r.Theme.LineHeight
}

// DrawField renders one field of b.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, b *blip.Blip, width int32) int32 {
	switch fd.Widget {
	case WidgetText:
		var text string
		if fd.Text != nil {
			text = fd.Text(b)
		} else if fd.Value != nil {
			text = fmt.Sprintf(fd.Format, fd.Value(b))
		}
		return r.DrawLabelValue(x, y, fd.Label, text)
	case WidgetBar:
		return r.DrawBar(x, y, fd.Label, fd.Value(b), fd.Range, width)
	case WidgetCenteredBar:
		return r.DrawCenteredBar(x, y, fd.Label, fd.Value(b), fd.Range, width)
	case WidgetColorSwatch:
		return r.DrawColorSwatch(x, y, fd.Label, fd.Color(b))
	case WidgetSpacer:
		return y + 6
	}
	return y
}

// DrawSection renders a section with header and fields.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, b *blip.Blip, width int32) int32 {
	if sd.Title != "" {
		y = r.DrawSectionHeader(x, y, sd.Title)
	}
	for _, fd := range sd.Fields {
		y = r.DrawField(x, y, fd, b, width)
	}
	return y + 4
}
