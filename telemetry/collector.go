package telemetry

import (
	"iter"
	"math"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/fixed"
)

// TickStats records what one tick changed. Food amounts are exact.
type TickStats struct {
	Born   int // children merged
	Died   int // removed by the cull
	Forced int // appended by floor correction

	Consumed    fixed.Rat // eaten during the decision phase
	Replenished fixed.Rat // added by replenishment
	FoodBefore  fixed.Rat // grid total before the decision phase
	FoodAfter   fixed.Rat // grid total after replenishment
}

// Balanced reports whether the grid total moved by exactly the replenished
// amount minus the consumed amount.
func (s TickStats) Balanced() bool {
	return s.FoodBefore.Add(s.Replenished).Sub(s.Consumed) == s.FoodAfter
}

// Collector accumulates tick events within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int64
	dt                  float64

	// Current window tracking
	windowStartTick int64

	// Event counters for current window
	births      int
	deaths      int
	forced      int
	consumed    fixed.Rat
	replenished fixed.Rat
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int64(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record adds one tick's events to the current window.
func (c *Collector) Record(s TickStats) {
	c.births += s.Born
	c.deaths += s.Died
	c.forced += s.Forced
	c.consumed = c.consumed.Add(s.Consumed)
	c.replenished = c.replenished.Add(s.Replenished)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int64) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the window counters and the current
// population, then resets the counters for the next window.
func (c *Collector) Flush(currentTick int64, blips iter.Seq2[int, *blip.Blip], totalFood fixed.Rat) WindowStats {
	var hp, age, gen []float64
	mostChildren := 0
	for _, b := range blips {
		hp = append(hp, b.HP)
		age = append(age, b.Age)
		gen = append(gen, float64(b.Generation))
		mostChildren = max(mostChildren, b.Children)
	}
	hpDist := ComputeDistribution(hp)
	ageDist := ComputeDistribution(age)
	genDist := ComputeDistribution(gen)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Blips:  len(hp),
		Births: c.births,
		Deaths: c.deaths,
		Forced: c.forced,

		Consumed:    c.consumed.Float(),
		Replenished: c.replenished.Float(),
		TotalFood:   totalFood.Float(),

		HPMean:  hpDist.Mean,
		HPStd:   hpDist.Std,
		HPP10:   hpDist.P10,
		HPP50:   hpDist.P50,
		HPP90:   hpDist.P90,
		AgeMean: ageDist.Mean,
		AgeP50:  ageDist.P50,
		AgeMax:  ageDist.Max,
		GenMean: genDist.Mean,
		GenMax:  int(genDist.Max),

		MostChildren: mostChildren,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.births = 0
	c.deaths = 0
	c.forced = 0
	c.consumed = fixed.Zero
	c.replenished = fixed.Zero

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int64 {
	return c.windowDurationTicks
}
