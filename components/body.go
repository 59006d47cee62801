package components

// Color is the blip's display colour, driven by brain outputs. Channels are
// in [0, 1].
type Color struct {
	R, G, B float64
}

// Clamped returns c with every channel limited to [0, 1].
func (c Color) Clamped() Color {
	return Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
