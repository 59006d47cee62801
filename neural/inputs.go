package neural

import "math"

// Brain dimensions.
const (
	NumInputs  = 4 // sound, smell, clock1, clock2
	NumOutputs = 6 // spike, steering, speed, r, g, b
)

// Inputs is the sensed vector fed to a brain. Stored as an array for
// network access, written through named setters.
type Inputs struct {
	data [NumInputs]float64
}

// SetSound sets the loudness of nearby movement.
func (in *Inputs) SetSound(v float64) { in.data[0] = v }

// SetSmell sets the food value at the blip's cell.
func (in *Inputs) SetSmell(v float64) { in.data[1] = v }

// SetClock1 sets the first internal oscillator.
func (in *Inputs) SetClock1(v float64) { in.data[2] = v }

// SetClock2 sets the second internal oscillator.
func (in *Inputs) SetClock2(v float64) { in.data[3] = v }

// Slice returns the raw input values.
func (in *Inputs) Slice() []float64 { return in.data[:] }

// Outputs is a brain's decision. Every raw value is a sigmoid re-centred
// to (-0.5, 0.5), so channels read as signed deltas.
type Outputs struct {
	data [NumOutputs]float64
}

// Spike is the attack intent.
func (o Outputs) Spike() float64 { return o.data[0] }

// Steering is the signed turn request.
func (o Outputs) Steering() float64 { return o.data[1] }

// Speed is the requested speed factor in (exp(-0.5), exp(0.5)).
func (o Outputs) Speed() float64 { return math.Exp(o.data[2]) }

// R is the red display channel in (0, 1).
func (o Outputs) R() float64 { return o.data[3] + 0.5 }

// G is the green display channel in (0, 1).
func (o Outputs) G() float64 { return o.data[4] + 0.5 }

// B is the blue display channel in (0, 1).
func (o Outputs) B() float64 { return o.data[5] + 0.5 }

// Raw returns the centred output values.
func (o Outputs) Raw() [NumOutputs]float64 { return o.data }
