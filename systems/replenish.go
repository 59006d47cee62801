package systems

import (
	"math/rand/v2"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/blips/fixed"
)

// ReplenishParams configures stochastic food regrowth.
type ReplenishParams struct {
	Rate     float64 // expected food added per second
	Min, Max float64 // bounds of a single deposit
}

// Mean returns the expected size of a single deposit.
func (p ReplenishParams) Mean() float64 {
	return (p.Min + p.Max) / 2
}

// Replenish drops food into random cells. The expected number of deposits
// is Rate*dt/Mean; whole trials always fire and the fractional remainder
// fires with matching probability. Returns the total amount added.
// Serial: every draw comes from rng in a fixed order.
func Replenish(g *FoodGrid, rng *rand.Rand, dt float64, p ReplenishParams) fixed.Rat {
	var added fixed.Rat
	mean := p.Mean()
	if mean <= 0 || p.Rate <= 0 {
		return added
	}

	for chance := p.Rate * dt / mean; chance > 0; chance-- {
		if rng.Float64() >= min(chance, 1) {
			continue
		}
		x := rng.IntN(g.W)
		y := rng.IntN(g.H)
		amount := fixed.FromFloat(p.Min + rng.Float64()*(p.Max-p.Min))
		g.Add(x, y, amount)
		added = added.Add(amount)
	}
	return added
}

// SeedParams configures the initial food layout.
type SeedParams struct {
	Chance     float64 // probability a cell starts with food
	Max        float64 // initial amount is drawn from [0, Max)
	NoiseScale float64 // >0 modulates amounts with simplex noise for patchy food
}

// SeedFood fills the grid in row-major order from rng. With a positive
// NoiseScale each amount is multiplied by normalized simplex noise sampled
// at the cell, seeded from rng.
func SeedFood(g *FoodGrid, rng *rand.Rand, p SeedParams) {
	var noise opensimplex.Noise
	if p.NoiseScale > 0 {
		noise = opensimplex.NewNormalized(rng.Int64())
	}

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if rng.Float64() >= p.Chance {
				continue
			}
			v := rng.Float64() * p.Max
			if noise != nil {
				v *= noise.Eval2(float64(x)*p.NoiseScale, float64(y)*p.NoiseScale)
			}
			g.Set(x, y, fixed.FromFloat(v))
		}
	}
}
