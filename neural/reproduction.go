package neural

import (
	"fmt"
	"math/rand/v2"
)

// Distribution selects how mutation perturbations are drawn.
type Distribution uint8

const (
	DistUniform  Distribution = iota // symmetric uniform
	DistGaussian                     // zero-mean normal
)

// ParseDistribution converts a config name to a Distribution.
func ParseDistribution(s string) (Distribution, error) {
	switch s {
	case "uniform", "":
		return DistUniform, nil
	case "gaussian":
		return DistGaussian, nil
	}
	return 0, fmt.Errorf("unknown mutation distribution %q", s)
}

func (d Distribution) String() string {
	if d == DistGaussian {
		return "gaussian"
	}
	return "uniform"
}

// Mutation configures how offspring brains are perturbed.
// Each parameter receives an absolute perturbation plus one proportional to
// its current value, both scaled by Rate times the parameter class scale.
type Mutation struct {
	Rate         float64
	WeightScale  float64 // typically 0.1
	BiasScale    float64 // typically 0.01, an order of magnitude below weights
	Distribution Distribution
}

// DefaultMutation returns the standard two-tier policy.
func DefaultMutation() Mutation {
	return Mutation{Rate: 1, WeightScale: 0.1, BiasScale: 0.01, Distribution: DistUniform}
}

// perturbWeight mutates a weight-like parameter.
func (m Mutation) perturbWeight(rng *rand.Rand, x *float64) {
	m.perturb(rng, m.WeightScale, x)
}

// perturbBias mutates a bias-like parameter.
func (m Mutation) perturbBias(rng *rand.Rand, x *float64) {
	m.perturb(rng, m.BiasScale, x)
}

func (m Mutation) perturb(rng *rand.Rand, scale float64, x *float64) {
	width := m.Rate * scale
	if width == 0 {
		return
	}
	abs := m.draw(rng) * width
	rel := m.draw(rng) * width
	*x += abs + *x*rel
}

// draw returns a unit-scale sample: U(-1,1) or N(0,1).
func (m Mutation) draw(rng *rand.Rand) float64 {
	if m.Distribution == DistGaussian {
		return rng.NormFloat64()
	}
	return rng.Float64()*2 - 1
}

// Offspring returns a mutated clone of parent.
func Offspring(parent Brain, rng *rand.Rand, m Mutation) Brain {
	child := parent.Clone()
	child.Mutate(rng, m)
	return child
}
