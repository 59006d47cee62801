// Package renderer draws the world with raylib.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/camera"
	"github.com/pthm-cable/blips/systems"
)

// FoodRenderer draws the food grid as a heatmap texture, one texel per cell.
type FoodRenderer struct {
	tex         rl.Texture2D
	w, h        int
	pixels      []color.RGBA
	initialized bool
}

// NewFoodRenderer creates a food renderer. Init must run after the window
// exists.
func NewFoodRenderer() *FoodRenderer {
	return &FoodRenderer{}
}

// Init allocates the grid texture.
func (r *FoodRenderer) Init(gridW, gridH int) {
	if r.initialized {
		return
	}
	r.w, r.h = gridW, gridH
	r.pixels = make([]color.RGBA, gridW*gridH)

	img := rl.GenImageColor(gridW, gridH, rl.Black)
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterPoint)
	rl.SetTextureWrap(r.tex, rl.WrapRepeat)
	rl.UnloadImage(img)

	r.initialized = true
}

// Update uploads the grid. maxFood maps to the hottest colour.
func (r *FoodRenderer) Update(food *systems.FoodGrid, maxFood float64) {
	if !r.initialized {
		r.Init(food.W, food.H)
	}
	for i, v := range food.Cells() {
		r.pixels[i] = FoodColor(v.Float(), maxFood)
	}
	rl.UpdateTexture(r.tex, r.pixels)
}

// Draw fills the viewport with the part of the grid under the camera. The
// texture repeats, so views across a seam show the opposite edge.
func (r *FoodRenderer) Draw(cam *camera.Camera, cellSize float32) {
	if !r.initialized {
		return
	}
	minX, minY, maxX, maxY := cam.VisibleWorldBounds()
	src := rl.Rectangle{
		X:      minX / cellSize,
		Y:      minY / cellSize,
		Width:  (maxX - minX) / cellSize,
		Height: (maxY - minY) / cellSize,
	}
	dst := rl.Rectangle{Width: cam.ViewportW, Height: cam.ViewportH}
	rl.DrawTexturePro(r.tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *FoodRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}

// FoodColor maps a food value to the heatmap: black through dark and
// bright green to yellow. Negative food shows as dark red.
func FoodColor(v, maxFood float64) color.RGBA {
	if v < 0 {
		return color.RGBA{R: 60, A: 255}
	}
	t := v / maxFood
	switch {
	case t < 0.3:
		return color.RGBA{G: uint8(50 * t / 0.3), A: 255}
	case t < 0.6:
		return color.RGBA{G: uint8(50 + 150*(t-0.3)/0.3), A: 255}
	case t < 1:
		return color.RGBA{R: uint8(255 * (t - 0.6) / 0.4), G: 200, A: 255}
	default:
		return color.RGBA{R: 255, G: 200, A: 255}
	}
}
