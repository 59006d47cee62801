package blip

import (
	"math"
	"math/rand/v2"
	"sync/atomic"

	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/fixed"
	"github.com/pthm-cable/blips/neural"
	"github.com/pthm-cable/blips/store"
	"github.com/pthm-cable/blips/systems"
)

// Env is everything a decision may read or accumulate into. All fields
// except Food and Consumed are read-only for the whole decision phase.
type Env struct {
	Params   *Params
	Old      *store.StableVec[Blip]
	Index    *systems.SpatialIndex
	Snapshot *systems.FoodSnapshot
	Food     *systems.FoodGrid
	Consumed *atomic.Int64 // fixed.Rat total eaten this tick
	Time     float64
	DT       float64
}

// Scratch holds per-worker reusable buffers.
type Scratch struct {
	Neighbors []systems.Neighbor
}

// NewScratch allocates buffers sized for a full spatial query.
func NewScratch() *Scratch {
	return &Scratch{Neighbors: make([]systems.Neighbor, 0, systems.MaxQueryResults)}
}

// Decide advances the blip at handle h by one tick. old is the blip's state
// at the start of the tick and next its exclusive slot in the new buffer,
// which starts as a copy of old. Neighbours are read from env.Old only.
// Returns the spawned child, or nil.
func Decide(h int, old, next *Blip, env *Env, rng *rand.Rand, scratch *Scratch) *Blip {
	p := env.Params
	dt := env.DT

	// Senses
	var in neural.Inputs
	sound, damage := sense(h, old, env, scratch)
	in.SetSound(sound)

	cx, cy := systems.CellAt(old.Pos, p.CellSize, env.Snapshot.W, env.Snapshot.H)
	food := env.Snapshot.At(cx, cy)
	in.SetSmell(food.Float())
	in.SetClock1(clock(old.Age, p.Clock1Period))
	in.SetClock2(clock(old.Age, p.Clock2Period))

	out := old.Brain.Think(&in)

	// Steering and speed
	next.Age = old.Age + dt
	next.Heading = systems.Wrap(old.Heading+out.Steering()*p.TurnRate*dt, 2*math.Pi)
	factor := out.Speed()
	next.Speed = factor * p.MaxSpeed
	next.Vel = components.Velocity{
		X: math.Cos(next.Heading) * next.Speed,
		Y: math.Sin(next.Heading) * next.Speed,
	}
	next.Spike = out.Spike()
	next.Color = components.Color{R: out.R(), G: out.G(), B: out.B()}

	// Eating: a negative add on the live grid, sized from the snapshot.
	eaten := min(max(food, fixed.Zero), fixed.FromFloat(p.EatRate*dt))
	if eaten > fixed.Zero {
		env.Food.Add(cx, cy, eaten.Neg())
		env.Consumed.Add(int64(eaten))
	}
	next.Eaten = eaten

	hp := old.HP + eaten.Float()
	hp -= (p.BaseCost + p.MoveCost*factor) * dt
	hp -= damage
	if next.Spike > p.SpikeThreshold {
		hp -= p.SpikeCost * dt
	}
	next.HP = max(hp, 0)

	if next.HP <= 0 || next.HP < p.ReproThreshold || next.Age < p.ReproAge {
		return nil
	}
	return spawn(h, next, rng, p)
}

// sense sums the sound of moving neighbours and the spike damage they deal.
// Both read only the neighbours' old state.
func sense(h int, old *Blip, env *Env, scratch *Scratch) (sound, damage float64) {
	p := env.Params
	radius := max(p.HearingRange, p.SpikeRange)
	scratch.Neighbors = env.Index.QueryRadiusInto(scratch.Neighbors[:0], old.Pos.X, old.Pos.Y, radius, h)

	hearSq := p.HearingRange * p.HearingRange
	spikeSq := p.SpikeRange * p.SpikeRange
	for _, n := range scratch.Neighbors {
		other, ok := env.Old.Get(n.Handle)
		if !ok {
			continue
		}
		if n.DistSq <= hearSq {
			sound += other.Speed / (1 + math.Sqrt(n.DistSq))
		}
		if n.DistSq <= spikeSq && other.Spike > p.SpikeThreshold {
			damage += p.SpikeDamage * env.DT
		}
	}
	return sound, damage
}

// spawn splits the parent's health with a new child placed near it.
func spawn(h int, parent *Blip, rng *rand.Rand, p *Params) *Blip {
	half := parent.HP / 2
	parent.HP = half
	parent.Children++

	angle := rng.Float64() * 2 * math.Pi
	dist := rng.Float64() * p.SpawnOffset
	heading := rng.Float64() * 2 * math.Pi

	return &Blip{
		Status: components.Status{
			Pos: components.Position{
				X: systems.Wrap(parent.Pos.X+math.Cos(angle)*dist, p.WorldW),
				Y: systems.Wrap(parent.Pos.Y+math.Sin(angle)*dist, p.WorldH),
			},
			Heading:    heading,
			HP:         half,
			Generation: parent.Generation + 1,
			Parent:     h,
		},
		Color: parent.Color,
		Brain: neural.Offspring(parent.Brain, rng, p.Mutation),
	}
}

// clock is a sine oscillator over the blip's age.
func clock(age, period float64) float64 {
	if period <= 0 {
		return 0
	}
	return math.Sin(2 * math.Pi * age / period)
}
