package renderer

import (
	"iter"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/camera"
	"github.com/pthm-cable/blips/config"
)

// BlipRenderer draws blips as triangles pointing along their heading.
type BlipRenderer struct {
	Radius float32 // world units
	MaxHP  float64 // hp at full opacity
}

// NewBlipRenderer creates a renderer for blips of the given size.
func NewBlipRenderer(radius float32, maxHP float64) *BlipRenderer {
	return &BlipRenderer{Radius: radius, MaxHP: maxHP}
}

// Draw renders every visible blip, coloured by its r/g/b outputs and faded
// by health.
func (r *BlipRenderer) Draw(cam *camera.Camera, blips iter.Seq2[int, *blip.Blip]) {
	for _, b := range blips {
		x, y := float32(b.Pos.X), float32(b.Pos.Y)
		if !cam.IsVisible(x, y, r.Radius*1.5) {
			continue
		}
		sx, sy := cam.WorldToScreen(x, y)
		drawOrientedTriangle(sx, sy, float32(b.Heading), r.Radius*cam.Zoom, r.color(b))
	}
}

// DrawSelection outlines the selected blip and its hearing and spike ranges.
func (r *BlipRenderer) DrawSelection(cam *camera.Camera, b *blip.Blip, cfg config.BlipConfig) {
	sx, sy := cam.WorldToScreen(float32(b.Pos.X), float32(b.Pos.Y))
	center := rl.Vector2{X: sx, Y: sy}
	rl.DrawCircleLinesV(center, float32(cfg.HearingRange)*cam.Zoom, rl.Color{R: 120, G: 160, B: 255, A: 160})
	spikeColor := rl.Color{R: 255, G: 90, B: 90, A: 160}
	if b.Spike > cfg.SpikeThreshold {
		spikeColor.A = 255
	}
	rl.DrawCircleLinesV(center, float32(cfg.SpikeRange)*cam.Zoom, spikeColor)
	rl.DrawCircleLinesV(center, r.Radius*cam.Zoom*2, rl.Yellow)
}

func (r *BlipRenderer) color(b *blip.Blip) rl.Color {
	c := b.Color.Clamped()
	health := min(max(b.HP/r.MaxHP, 0), 1)
	return rl.Color{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: uint8(100 + health*155),
	}
}

// drawOrientedTriangle draws a triangle pointing in the heading direction.
func drawOrientedTriangle(x, y, heading, radius float32, color rl.Color) {
	cos := float32(math.Cos(float64(heading)))
	sin := float32(math.Sin(float64(heading)))

	front := rl.Vector2{X: x + cos*radius*1.5, Y: y + sin*radius*1.5}

	backAngle := float64(heading) + math.Pi*0.8
	backLeft := rl.Vector2{
		X: x + float32(math.Cos(backAngle))*radius,
		Y: y + float32(math.Sin(backAngle))*radius,
	}
	backAngle = float64(heading) - math.Pi*0.8
	backRight := rl.Vector2{
		X: x + float32(math.Cos(backAngle))*radius,
		Y: y + float32(math.Sin(backAngle))*radius,
	}

	// DrawTriangle requires counter-clockwise winding
	rl.DrawTriangle(front, backRight, backLeft, color)
	rl.DrawTriangleLines(front, backLeft, backRight, rl.Black)
}
