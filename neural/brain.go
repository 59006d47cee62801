// Package neural provides the pluggable decision strategies ("brains") that
// drive blips.
package neural

import (
	"fmt"
	"math/rand/v2"
)

// Brain maps sensed inputs to action outputs. A brain is a parameter blob:
// Think must not mutate it, so one instance can be read from many
// goroutines at once. Mutate is only called on a fresh Clone.
type Brain interface {
	// Think evaluates the network. Pure.
	Think(in *Inputs) Outputs
	// Mutate perturbs the parameters in place.
	Mutate(rng *rand.Rand, m Mutation)
	// Clone returns an independent deep copy.
	Clone() Brain
	// Kind identifies the concrete variant.
	Kind() Kind
	// Weights returns the parameters flattened in a fixed order.
	Weights() BrainWeights
	// Equal reports whether other is the same variant with identical parameters.
	Equal(other Brain) bool
}

// Kind selects a concrete brain variant.
type Kind uint8

const (
	KindSimple Kind = iota // single layer, inputs straight to outputs
	KindBig                // one hidden layer
)

func (k Kind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindBig:
		return "big"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind converts a config name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "simple", "":
		return KindSimple, nil
	case "big":
		return KindBig, nil
	}
	return 0, fmt.Errorf("unknown brain kind %q", s)
}

// New builds a freshly initialized brain of the given kind from rng.
func New(kind Kind, rng *rand.Rand) Brain {
	switch kind {
	case KindBig:
		return NewBigBrain(rng)
	default:
		return NewSimpleBrain(rng)
	}
}

// BrainWeights holds flattened network parameters for serialization.
type BrainWeights struct {
	Kind    string    `json:"kind"`
	Weights []float64 `json:"weights"`
	Biases  []float64 `json:"biases"`
}
