package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/camera"
	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/game"
	"github.com/pthm-cable/blips/renderer"
	"github.com/pthm-cable/blips/systems"
	"github.com/pthm-cable/blips/telemetry"
	"github.com/pthm-cable/blips/ui"
)

const (
	blipRadius = 4.0  // world units
	pickRadius = 12.0 // screen pixels for click selection

	inspectorWidth = 240
	controlsWidth  = 220

	controlsHelp = "Space pause | N step | < > speed | arrows pan | wheel zoom | Home reset | click select | C clear | F11 fullscreen"
)

// viewer draws a game with raylib and maps input onto it.
type viewer struct {
	g   *game.Game
	cfg *config.Config
	cam *camera.Camera

	food  *renderer.FoodRenderer
	blips *renderer.BlipRenderer

	hud       *ui.HUD
	perf      *ui.PerfPanel
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	overlays  *ui.OverlayRegistry

	selected     int
	hasSelection bool
	follow       bool // keep the camera on the selection

	screenW, screenH float32
}

func newViewer(g *game.Game) *viewer {
	cfg := g.Config()
	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	v := &viewer{
		g:         g,
		cfg:       cfg,
		cam:       camera.New(w, h, float32(cfg.Derived.WorldW), float32(cfg.Derived.WorldH)),
		food:      renderer.NewFoodRenderer(),
		blips:     renderer.NewBlipRenderer(blipRadius, cfg.Blip.ReproThreshold),
		hud:       ui.NewHUD(),
		perf:      ui.NewPerfPanel(int32(w)-230, int32(h)-200),
		controls:  ui.NewControlsPanel(10, 120, controlsWidth),
		inspector: ui.NewInspector(int32(w)-inspectorWidth-10, 10, inspectorWidth, cfg.Blip),
		overlays:  ui.NewOverlayRegistry(),
		screenW:   w,
		screenH:   h,
	}
	v.food.Init(cfg.World.FoodWidth, cfg.World.FoodHeight)
	return v
}

func (v *viewer) unload() {
	v.food.Unload()
}

// update handles input and advances the game by one frame. The selected
// handle is carried across every tick's compaction.
func (v *viewer) update() {
	v.handleInput()
	v.g.Frame(v.followSelection)

	if v.follow && v.hasSelection {
		if b, ok := v.g.Blip(v.selected); ok {
			v.cam.CenterOn(float32(b.Pos.X), float32(b.Pos.Y))
		}
	}
}

func (v *viewer) followSelection() {
	if !v.hasSelection {
		return
	}
	v.selected, v.hasSelection = v.g.Follow(v.selected)
}

func (v *viewer) step() {
	v.g.Update(v.cfg.Physics.DT)
	v.followSelection()
}

func (v *viewer) selectBy(sel telemetry.Selection, x, y float64) {
	v.selected, v.hasSelection = v.g.Select(sel, x, y)
	v.follow = v.hasSelection && sel != telemetry.SelectNearest
}

// handleInput processes keyboard and mouse input.
func (v *viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.g.SetPaused(!v.g.Paused())
	}
	if rl.IsKeyPressed(rl.KeyN) && v.g.Paused() {
		v.step()
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) {
		v.g.SetSpeed(v.g.Speed() - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && v.g.Speed() < ui.MaxSpeed {
		v.g.SetSpeed(v.g.Speed() + 1)
	}

	if rl.IsKeyPressed(rl.KeyC) {
		v.hasSelection = false
		v.follow = false
	}
	v.overlays.HandleKeys()
	v.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		mouse := rl.GetMousePosition()
		if !v.controls.Contains(mouse.X, mouse.Y, v.overlays) {
			v.pick(mouse.X, mouse.Y)
		}
	}
}

// pick selects the blip nearest the cursor if it is close on screen.
func (v *viewer) pick(sx, sy float32) {
	wx, wy := v.cam.ScreenToWorld(sx, sy)
	h, ok := v.g.Select(telemetry.SelectNearest, float64(wx), float64(wy))
	if !ok {
		return
	}
	b, _ := v.g.Blip(h)
	dx, dy := systems.ToroidalDelta(float64(wx), float64(wy), b.Pos.X, b.Pos.Y, v.cfg.Derived.WorldW, v.cfg.Derived.WorldH)
	if math.Hypot(dx, dy)*float64(v.cam.Zoom) > pickRadius {
		return
	}
	v.selected, v.hasSelection = h, true
	v.follow = false
}

// handleResize checks for window resize and propagates new dimensions.
func (v *viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.cam.Resize(w, h)
	v.inspector.SetPosition(int32(w)-inspectorWidth-10, 10)
	v.perf.SetPosition(int32(w)-230, int32(h)-200)
}

// handleCameraInput processes camera pan/zoom controls.
func (v *viewer) handleCameraInput() {
	panSpeed := float32(8)

	moved := false
	if rl.IsKeyDown(rl.KeyRight) {
		v.cam.Pan(panSpeed, 0)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		v.cam.Pan(-panSpeed, 0)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyDown) {
		v.cam.Pan(0, panSpeed)
		moved = true
	}
	if rl.IsKeyDown(rl.KeyUp) {
		v.cam.Pan(0, -panSpeed)
		moved = true
	}
	if moved {
		v.follow = false
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.cam.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.cam.ZoomBy(0.8)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.cam.Reset()
		v.follow = false
	}
}

// draw renders the world and the UI.
func (v *viewer) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if v.overlays.IsEnabled(ui.OverlayFood) {
		v.food.Update(v.g.Food(), v.cfg.Food.ClampMax)
		v.food.Draw(v.cam, float32(v.cfg.World.CellSize))
	}
	v.blips.Draw(v.cam, v.g.Blips())

	selected, _ := v.g.Blip(v.selected)
	if v.hasSelection && selected != nil {
		if v.overlays.IsEnabled(ui.OverlayRanges) {
			v.blips.DrawSelection(v.cam, selected, v.cfg.Blip)
		}
		if v.overlays.IsEnabled(ui.OverlayInspector) {
			v.inspector.Draw(v.selected, selected)
		}
	}

	perf := v.g.Perf()
	v.hud.Draw(ui.HUDData{
		Report:  v.g.Report(),
		Speed:   v.g.Speed(),
		FPS:     perf.FPS,
		TPS:     perf.TicksPerSecond,
		Workers: v.g.Workers(),
		Paused:  v.g.Paused(),
	})
	if v.overlays.IsEnabled(ui.OverlayPerf) {
		v.perf.Draw(perf)
	}

	act := v.controls.Draw(ui.ControlsState{Paused: v.g.Paused(), Speed: v.g.Speed()}, v.overlays)
	if act.TogglePause {
		v.g.SetPaused(!v.g.Paused())
	}
	if act.Step {
		v.step()
	}
	v.g.SetSpeed(act.Speed)
	if act.Select != telemetry.SelectNone {
		v.selectBy(act.Select, 0, 0)
	}

	v.hud.DrawControls(int32(v.screenH), controlsHelp)
	rl.EndDrawing()
}
