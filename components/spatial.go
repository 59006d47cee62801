// Package components defines plain data carried by each blip.
package components

import "math"

// Position represents a blip's world position.
type Position struct {
	X, Y float64
}

// Finite reports whether both coordinates are finite numbers.
func (p Position) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Velocity represents a blip's velocity in world units per second.
type Velocity struct {
	X, Y float64
}

// Speed returns the velocity magnitude.
func (v Velocity) Speed() float64 {
	return math.Hypot(v.X, v.Y)
}
