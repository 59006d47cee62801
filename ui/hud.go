package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Report  telemetry.Report
	Speed   int
	FPS     float64
	TPS     float64
	Workers int
	Paused  bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	r := data.Report
	rl.DrawText("Blips", 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | Time: %.1fs | Speed: %dx | FPS: %.0f | TPS: %.0f | Workers: %d",
			r.Tick, r.SimTime, data.Speed, data.FPS, data.TPS, data.Workers),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Blips: %d | Oldest: %.1fs | Gen: %d | Most children: %d",
			r.Blips, r.OldestAge, r.HighestGeneration, r.MostChildren),
		10, 55, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Food: %.0f (%.2f per cell)", r.TotalFood, r.AvgFood),
		10, 75, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 95, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase tick timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the timings of each phase, hot phases in red.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x, y := p.x, p.y
	rows := int32(len(stats.PhaseAvg) + 2)
	p.renderer.DrawPanel(x-6, y-6, 230, rows*16+12)

	rl.DrawText("Tick phases", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s",
		stats.AvgTickDuration.Round(time.Microsecond), stats.MaxTickDuration.Round(time.Microsecond)),
		x, y, 12, rl.Yellow)
	y += 16

	for i, avg := range stats.PhaseAvg {
		pct := stats.PhasePct[i]
		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 15 {
			color = rl.Orange
		}
		rl.DrawText(fmt.Sprintf("%-10s %8s %5.1f%%", telemetry.Phase(i), avg.Round(time.Microsecond), pct),
			x, y, 12, color)
		y += 14
	}
}
