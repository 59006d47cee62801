// Package ui draws the viewer's panels: HUD, controls and the blip
// inspector. Inspector rows are described by field descriptors so the
// layout can change alongside the blip's data.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/blip"
)

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText        WidgetType = iota // Plain text with format string
	WidgetBar                           // Progress bar over Range
	WidgetCenteredBar                   // Bar growing from zero
	WidgetColorSwatch                   // Colour preview square
	WidgetSpacer                        // Vertical spacing
)

// FieldRange defines the value range for bar widgets.
type FieldRange struct {
	Min float64
	Max float64
}

// FieldDescriptor defines how to display a single value of a blip.
type FieldDescriptor struct {
	Label  string
	Widget WidgetType
	Format string // for WidgetText with Value
	Range  FieldRange

	Value func(*blip.Blip) float64
	Text  func(*blip.Blip) string   // overrides Value for WidgetText
	Color func(*blip.Blip) rl.Color // for WidgetColorSwatch
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title  string
	Fields []FieldDescriptor
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg         rl.Color
	PanelBorder     rl.Color
	SectionHeader   rl.Color
	LabelColor      rl.Color
	ValueColor      rl.Color
	BarBg           rl.Color
	BarFill         rl.Color
	BarFillNegative rl.Color
	BarFillPositive rl.Color
	Padding         int32
	LineHeight      int32
	LabelWidth      int32
	BarHeight       int32
	FontSize        int32
	HeaderFontSize  int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:         rl.Color{R: 20, G: 25, B: 30, A: 240},
		PanelBorder:     rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader:   rl.Yellow,
		LabelColor:      rl.LightGray,
		ValueColor:      rl.LightGray,
		BarBg:           rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:         rl.Color{R: 100, G: 150, B: 200, A: 255},
		BarFillNegative: rl.Color{R: 200, G: 100, B: 100, A: 255},
		BarFillPositive: rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:         10,
		LineHeight:      16,
		LabelWidth:      70,
		BarHeight:       12,
		FontSize:        12,
		HeaderFontSize:  14,
	}
}
