package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/telemetry"
)

// MaxSpeed is the highest ticks-per-frame the speed slider offers.
const MaxSpeed = 20

// ControlsState is what the driver feeds the panel each frame.
type ControlsState struct {
	Paused bool
	Speed  int
}

// ControlsAction is what the user asked for this frame.
type ControlsAction struct {
	TogglePause bool
	Step        bool                // advance one tick while paused
	Speed       int                 // requested ticks per frame
	Select      telemetry.Selection // SelectNone if no selection button was hit
}

// ControlsPanel renders raygui controls for the simulation and overlays.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and returns the user's requests.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsAction {
	r := c.renderer
	pad := float32(r.Theme.Padding)
	x := float32(c.x) + pad
	w := float32(c.width) - 2*pad
	half := (w - pad) / 2

	r.DrawPanel(c.x, c.y, c.width, panelHeight(overlays))

	act := ControlsAction{Speed: state.Speed}
	y := float32(c.y) + pad

	rl.DrawText("Controls", int32(x), int32(y), 16, rl.White)
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 26}, toggleText(state.Paused, "Resume", "Pause")) {
		act.TogglePause = true
	}
	if state.Paused && gui.Button(rl.Rectangle{X: x + half + pad, Y: y, Width: half, Height: 26}, "Step") {
		act.Step = true
	}
	y += 36

	rl.DrawText(fmt.Sprintf("Speed: %dx", state.Speed), int32(x), int32(y), 14, rl.LightGray)
	y += 18
	speed := gui.SliderBar(
		rl.Rectangle{X: x + 12, Y: y, Width: w - 36, Height: 18},
		"1", fmt.Sprint(MaxSpeed),
		float32(state.Speed), 1, MaxSpeed,
	)
	act.Speed = int(speed + 0.5)
	y += 30

	rl.DrawText("Select", int32(x), int32(y), 14, rl.LightGray)
	y += 18
	for i, sel := range []telemetry.Selection{telemetry.SelectAge, telemetry.SelectGeneration, telemetry.SelectSpawns} {
		col := float32(i%2) * (half + pad)
		row := float32(i/2) * 32
		if gui.Button(rl.Rectangle{X: x + col, Y: y + row, Width: half, Height: 26}, sel.String()) {
			act.Select = sel
		}
	}
	y += 72

	rl.DrawText("Overlays", int32(x), int32(y), 14, rl.LightGray)
	y += 20
	for _, desc := range overlays.All() {
		label := fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
		checked := gui.CheckBox(rl.Rectangle{X: x, Y: y, Width: 14, Height: 14}, label, overlays.IsEnabled(desc.ID))
		overlays.SetEnabled(desc.ID, checked)
		y += 22
	}

	return act
}

// Contains reports whether a screen point lies on the panel, so clicks on
// it are not treated as world clicks.
func (c *ControlsPanel) Contains(sx, sy float32, overlays *OverlayRegistry) bool {
	return sx >= float32(c.x) && sx <= float32(c.x+c.width) &&
		sy >= float32(c.y) && sy <= float32(c.y+panelHeight(overlays))
}

func panelHeight(overlays *OverlayRegistry) int32 {
	return int32(240 + 22*len(overlays.All()))
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
