package neural

import (
	"math"
	"math/rand/v2"
)

// NumHidden is the hidden layer width of BigBrain.
const NumHidden = (NumInputs + NumOutputs) / 2

// Initial parameter ranges.
const (
	initWeightRange = 0.1
	initBiasRange   = 0.01
)

// SimpleBrain is a single-layer network: every output is a weighted sum of
// all inputs plus a bias.
type SimpleBrain struct {
	W [NumOutputs][NumInputs]float64
	B [NumOutputs]float64
}

// NewSimpleBrain creates a randomly initialized single-layer network.
func NewSimpleBrain(rng *rand.Rand) *SimpleBrain {
	nn := &SimpleBrain{}
	for i := range nn.W {
		for j := range nn.W[i] {
			nn.W[i][j] = uniform(rng, initWeightRange)
		}
	}
	for i := range nn.B {
		nn.B[i] = uniform(rng, initBiasRange)
	}
	return nn
}

// Think computes the network output.
func (nn *SimpleBrain) Think(in *Inputs) Outputs {
	var o Outputs
	for i := range nn.W {
		sum := nn.B[i]
		for j, x := range in.data {
			sum += nn.W[i][j] * x
		}
		o.data[i] = centredSigmoid(sum)
	}
	return o
}

// Mutate perturbs weights and biases.
func (nn *SimpleBrain) Mutate(rng *rand.Rand, m Mutation) {
	for i := range nn.W {
		for j := range nn.W[i] {
			m.perturbWeight(rng, &nn.W[i][j])
		}
	}
	for i := range nn.B {
		m.perturbBias(rng, &nn.B[i])
	}
}

// Clone creates a deep copy of the network.
func (nn *SimpleBrain) Clone() Brain {
	clone := *nn
	return &clone
}

func (nn *SimpleBrain) Kind() Kind { return KindSimple }

// Equal reports whether other is a SimpleBrain with identical parameters.
func (nn *SimpleBrain) Equal(other Brain) bool {
	o, ok := other.(*SimpleBrain)
	return ok && *nn == *o
}

// Weights flattens the network parameters.
func (nn *SimpleBrain) Weights() BrainWeights {
	bw := BrainWeights{
		Kind:    KindSimple.String(),
		Weights: make([]float64, 0, NumOutputs*NumInputs),
		Biases:  append([]float64(nil), nn.B[:]...),
	}
	for i := range nn.W {
		bw.Weights = append(bw.Weights, nn.W[i][:]...)
	}
	return bw
}

// BigBrain is a two-layer feedforward network with one hidden layer.
type BigBrain struct {
	W1 [NumHidden][NumInputs]float64  // input -> hidden weights
	B1 [NumHidden]float64             // hidden biases
	W2 [NumOutputs][NumHidden]float64 // hidden -> output weights
	B2 [NumOutputs]float64            // output biases
}

// NewBigBrain creates a randomly initialized two-layer network.
func NewBigBrain(rng *rand.Rand) *BigBrain {
	nn := &BigBrain{}
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = uniform(rng, initWeightRange)
		}
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = uniform(rng, initWeightRange)
		}
	}
	for i := range nn.B1 {
		nn.B1[i] = uniform(rng, initBiasRange)
	}
	for i := range nn.B2 {
		nn.B2[i] = uniform(rng, initBiasRange)
	}
	return nn
}

// Think computes the network output.
func (nn *BigBrain) Think(in *Inputs) Outputs {
	var hidden [NumHidden]float64
	for i := range nn.W1 {
		sum := nn.B1[i]
		for j, x := range in.data {
			sum += nn.W1[i][j] * x
		}
		hidden[i] = centredSigmoid(sum)
	}

	var o Outputs
	for i := range nn.W2 {
		sum := nn.B2[i]
		for j, h := range hidden {
			sum += nn.W2[i][j] * h
		}
		o.data[i] = centredSigmoid(sum)
	}
	return o
}

// Mutate perturbs both layers. Weights first, then biases.
func (nn *BigBrain) Mutate(rng *rand.Rand, m Mutation) {
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			m.perturbWeight(rng, &nn.W1[i][j])
		}
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			m.perturbWeight(rng, &nn.W2[i][j])
		}
	}
	for i := range nn.B1 {
		m.perturbBias(rng, &nn.B1[i])
	}
	for i := range nn.B2 {
		m.perturbBias(rng, &nn.B2[i])
	}
}

// Clone creates a deep copy of the network.
func (nn *BigBrain) Clone() Brain {
	clone := *nn
	return &clone
}

func (nn *BigBrain) Kind() Kind { return KindBig }

// Equal reports whether other is a BigBrain with identical parameters.
func (nn *BigBrain) Equal(other Brain) bool {
	o, ok := other.(*BigBrain)
	return ok && *nn == *o
}

// Weights flattens the network parameters, W1 then W2, B1 then B2.
func (nn *BigBrain) Weights() BrainWeights {
	bw := BrainWeights{
		Kind:    KindBig.String(),
		Weights: make([]float64, 0, NumHidden*NumInputs+NumOutputs*NumHidden),
		Biases:  make([]float64, 0, NumHidden+NumOutputs),
	}
	for i := range nn.W1 {
		bw.Weights = append(bw.Weights, nn.W1[i][:]...)
	}
	for i := range nn.W2 {
		bw.Weights = append(bw.Weights, nn.W2[i][:]...)
	}
	bw.Biases = append(bw.Biases, nn.B1[:]...)
	bw.Biases = append(bw.Biases, nn.B2[:]...)
	return bw
}

// centredSigmoid squashes x into (-0.5, 0.5). The input is clamped to
// [-20, 20] so exp never overflows.
func centredSigmoid(x float64) float64 {
	x = max(-20, min(20, x))
	return 1/(1+math.Exp(-x)) - 0.5
}

// uniform returns a sample from U(-r, r).
func uniform(rng *rand.Rand, r float64) float64 {
	return (rng.Float64()*2 - 1) * r
}
