package telemetry

import (
	"math"
	"slices"
	"testing"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/components"
	"github.com/pthm-cable/blips/fixed"
	"github.com/pthm-cable/blips/store"
)

func TestComputeDistribution(t *testing.T) {
	values := []float64{10, 3, 7, 1, 5, 9, 2, 8, 4, 6}
	orig := slices.Clone(values)
	d := ComputeDistribution(values)

	if !slices.Equal(values, orig) {
		t.Error("input was reordered")
	}
	if math.Abs(d.Mean-5.5) > 1e-9 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	if math.Abs(d.Std-math.Sqrt(8.25)) > 1e-9 {
		t.Errorf("std = %v, want %v", d.Std, math.Sqrt(8.25))
	}
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"p10", d.P10, 1},
		{"p50", d.P50, 5},
		{"p90", d.P90, 9},
		{"max", d.Max, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestComputeDistributionSmall(t *testing.T) {
	if d := ComputeDistribution(nil); d != (Distribution{}) {
		t.Errorf("empty sample gave %+v", d)
	}
	d := ComputeDistribution([]float64{4})
	if d.Mean != 4 || d.Std != 0 || d.P10 != 4 || d.P90 != 4 || d.Max != 4 {
		t.Errorf("single sample gave %+v", d)
	}
}

// population builds a store of blips with the given hp, age, generation and
// children, in handle order.
func population(rows ...[4]float64) *store.StableVec[blip.Blip] {
	v := store.New[blip.Blip](len(rows))
	for _, r := range rows {
		v.Push(blip.Blip{Status: components.Status{
			HP:         r[0],
			Age:        r[1],
			Generation: int(r[2]),
			Children:   int(r[3]),
			Parent:     -1,
		}})
	}
	return v
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1, 0.1)
	if c.WindowDurationTicks() != 10 {
		t.Fatalf("WindowDurationTicks = %d, want 10", c.WindowDurationTicks())
	}

	c.Record(TickStats{Born: 2, Died: 1, Consumed: fixed.FromInt(3), Replenished: fixed.FromInt(4)})
	c.Record(TickStats{Born: 1, Forced: 1, Consumed: fixed.FromFloat(0.5)})

	if c.ShouldFlush(9) {
		t.Error("flushed before the window ended")
	}
	if !c.ShouldFlush(10) {
		t.Error("window did not end at 10 ticks")
	}

	pop := population(
		[4]float64{2, 5, 0, 1},
		[4]float64{6, 1, 3, 0},
		[4]float64{4, 9, 1, 4},
	)
	s := c.Flush(10, pop.All(), fixed.FromInt(100))

	if s.Blips != 3 || s.Births != 3 || s.Deaths != 1 || s.Forced != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.Consumed != 3.5 || s.Replenished != 4 || s.TotalFood != 100 {
		t.Errorf("food = consumed %v replenished %v total %v", s.Consumed, s.Replenished, s.TotalFood)
	}
	if s.HPMean != 4 || s.AgeMax != 9 || s.GenMax != 3 || s.MostChildren != 4 {
		t.Errorf("distributions = %+v", s)
	}
	if math.Abs(s.SimTimeSec-1) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 1", s.SimTimeSec)
	}

	next := c.Flush(20, pop.All(), fixed.Zero)
	if next.Births != 0 || next.Consumed != 0 || next.WindowStartTick != 10 {
		t.Errorf("counters not reset: %+v", next)
	}
}

func TestTickStatsBalanced(t *testing.T) {
	s := TickStats{
		FoodBefore:  fixed.FromInt(10),
		Consumed:    fixed.FromFloat(0.25),
		Replenished: fixed.FromInt(3),
		FoodAfter:   fixed.FromFloat(12.75),
	}
	if !s.Balanced() {
		t.Error("balanced tick reported unbalanced")
	}
	s.FoodAfter++
	if s.Balanced() {
		t.Error("off-by-one-ulp tick reported balanced")
	}
}

func TestNewReport(t *testing.T) {
	pop := population(
		[4]float64{1, 3.5, 2, 1},
		[4]float64{1, 7.25, 1, 5},
	)
	r := NewReport(50, 1, pop.All(), fixed.FromInt(20), 8)
	if r.Blips != 2 || r.OldestAge != 7.25 || r.HighestGeneration != 2 || r.MostChildren != 5 {
		t.Errorf("report = %+v", r)
	}
	if r.TotalFood != 20 || r.AvgFood != 2.5 {
		t.Errorf("food = %v avg %v", r.TotalFood, r.AvgFood)
	}
}
