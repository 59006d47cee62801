package neural

import (
	"math"
	"math/rand/v2"
	"testing"
)

// Bias perturbations must be an order of magnitude smaller than weight
// perturbations.
func TestMutationTwoTier(t *testing.T) {
	for _, dist := range []Distribution{DistUniform, DistGaussian} {
		t.Run(dist.String(), func(t *testing.T) {
			m := Mutation{Rate: 1, WeightScale: 0.1, BiasScale: 0.01, Distribution: dist}
			rng := rand.New(rand.NewPCG(1, 1))

			var wSum, bSum float64
			var wN, bN int
			for trial := 0; trial < 200; trial++ {
				parent := &BigBrain{}
				child := Offspring(parent, rng, m).(*BigBrain)
				for i := range child.W1 {
					for j := range child.W1[i] {
						wSum += math.Abs(child.W1[i][j])
						wN++
					}
					bSum += math.Abs(child.B1[i])
					bN++
				}
			}

			ratio := (wSum / float64(wN)) / (bSum / float64(bN))
			if ratio < 5 || ratio > 20 {
				t.Errorf("weight/bias perturbation ratio = %.2f, want about 10", ratio)
			}
		})
	}
}

func TestMutationRateScales(t *testing.T) {
	spread := func(rate float64) float64 {
		rng := rand.New(rand.NewPCG(5, 5))
		m := DefaultMutation()
		m.Rate = rate
		var sum float64
		for trial := 0; trial < 500; trial++ {
			child := Offspring(&SimpleBrain{}, rng, m).(*SimpleBrain)
			sum += math.Abs(child.W[0][0])
		}
		return sum
	}

	if spread(2) <= spread(0.5) {
		t.Error("higher rate should perturb more")
	}
}

func TestMutationZeroRate(t *testing.T) {
	parent := NewBigBrain(newRNG())
	m := DefaultMutation()
	m.Rate = 0
	child := Offspring(parent, newRNG(), m)
	if !child.Equal(parent) {
		t.Error("zero rate must leave parameters untouched")
	}
}

func TestOffspringLeavesParent(t *testing.T) {
	parent := NewSimpleBrain(newRNG())
	snapshot := parent.Clone()
	Offspring(parent, newRNG(), DefaultMutation())
	if !parent.Equal(snapshot) {
		t.Error("Offspring mutated the parent")
	}
}

func TestMutationDeterministic(t *testing.T) {
	a := Offspring(NewBigBrain(newRNG()), rand.New(rand.NewPCG(8, 8)), DefaultMutation())
	b := Offspring(NewBigBrain(newRNG()), rand.New(rand.NewPCG(8, 8)), DefaultMutation())
	if !a.Equal(b) {
		t.Error("same stream must produce the same child")
	}
}

func TestParseDistribution(t *testing.T) {
	if d, err := ParseDistribution("gaussian"); err != nil || d != DistGaussian {
		t.Errorf("ParseDistribution(gaussian) = %v, %v", d, err)
	}
	if _, err := ParseDistribution("cauchy"); err == nil {
		t.Error("expected error for unknown distribution")
	}
}
