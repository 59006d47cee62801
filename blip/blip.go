// Package blip implements a single simulated organism: how it is created,
// how it decides each tick and how it moves.
package blip

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/neural"
	"github.com/pthm-cable/blips/store"
	"github.com/pthm-cable/blips/systems"
)

// Params holds the tunables a blip reads while deciding and moving.
type Params struct {
	InitialHP      float64
	MaxSpeed       float64 // world units per second at speed factor 1
	TurnRate       float64 // radians per second at full steering
	BaseCost       float64 // hp per second
	MoveCost       float64 // hp per second per speed factor
	EatRate        float64 // food per second
	ReproThreshold float64 // hp needed to spawn
	ReproAge       float64 // seconds before the first spawn
	HearingRange   float64
	SpikeRange     float64
	SpikeThreshold float64 // spike output above this is an attack
	SpikeDamage    float64 // hp per second dealt to each victim
	SpikeCost      float64 // hp per second paid by the attacker
	SpawnOffset    float64 // max distance of a child from its parent
	Clock1Period   float64
	Clock2Period   float64

	WorldW, WorldH float64
	CellSize       float64 // food cell size

	Brain    neural.Kind
	Mutation neural.Mutation
}

// Blip is one organism. A Blip value is copied wholesale into the next
// tick's buffer; the brain is shared between copies because Think never
// mutates it.
type Blip struct {
	components.Status
	Color components.Color
	Brain neural.Brain
}

// New creates a founder at a random position with a fresh brain. Draws
// position, heading and then the brain parameters from rng.
func New(rng *rand.Rand, p *Params) Blip {
	x := rng.Float64() * p.WorldW
	y := rng.Float64() * p.WorldH
	heading := rng.Float64() * 2 * math.Pi

	return Blip{
		Status: components.Status{
			Pos:     components.Position{X: x, Y: y},
			Heading: heading,
			HP:      p.InitialHP,
			Parent:  components.NoParent,
		},
		Color: components.Color{R: 0.5, G: 0.5, B: 0.5},
		Brain: neural.New(p.Brain, rng),
	}
}

// Motion integrates the position from the velocity chosen in the last
// decision and wraps it onto the torus. Panics on a non-finite position.
func (b *Blip) Motion(dt float64, p *Params) {
	next := components.Position{
		X: b.Pos.X + b.Vel.X*dt,
		Y: b.Pos.Y + b.Vel.Y*dt,
	}
	if !next.Finite() {
		panic(fmt.Sprintf("blip: non-finite position %v (vel %v)", next, b.Vel))
	}
	b.Pos = components.Position{
		X: systems.Wrap(next.X, p.WorldW),
		Y: systems.Wrap(next.Y, p.WorldH),
	}
}

// Alive reports whether the blip still has health.
func (b *Blip) Alive() bool { return b.HP > 0 }

// Equal reports whether two blips are identical, brain included.
func Equal(a, b *Blip) bool {
	if a.Status != b.Status || a.Color != b.Color {
		return false
	}
	if a.Brain == nil || b.Brain == nil {
		return a.Brain == nil && b.Brain == nil
	}
	return a.Brain.Equal(b.Brain)
}

// Positions yields (handle, position) for every live blip, for index builds.
func Positions(v *store.StableVec[Blip]) iter.Seq2[int, components.Position] {
	return func(yield func(int, components.Position) bool) {
		for h, b := range v.All() {
			if !yield(h, b.Pos) {
				return
			}
		}
	}
}
