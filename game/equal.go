package game

import (
	"fmt"
	"math"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/store"
	"github.com/pthm-cable/blips/telemetry"
)

// Equal reports whether two games hold bit-identical committed state: the
// blip store, the food cells, the spatial index and the elapsed time.
func Equal(a, b *Game) bool {
	return Diff(a, b) == ""
}

// Diff describes the first difference between two games, or returns "" if
// they are equal.
func Diff(a, b *Game) string {
	if math.Float64bits(a.time) != math.Float64bits(b.time) {
		return fmt.Sprintf("time %v != %v", a.time, b.time)
	}
	if a.tick != b.tick {
		return fmt.Sprintf("tick %d != %d", a.tick, b.tick)
	}
	if !store.Equal(a.blips, b.blips, blip.Equal) {
		return diffBlips(a, b)
	}
	if !a.food.Equal(b.food) {
		ac, bc := a.food.Cells(), b.food.Cells()
		for i := range ac {
			if ac[i] != bc[i] {
				return fmt.Sprintf("food cell %d: %v != %v", i, ac[i], bc[i])
			}
		}
		return "food grid size differs"
	}
	if !a.index.Equal(b.index) {
		return "spatial index differs"
	}
	return ""
}

func diffBlips(a, b *Game) string {
	if a.blips.Len() != b.blips.Len() {
		return fmt.Sprintf("population %d != %d", a.blips.Len(), b.blips.Len())
	}
	for h, x := range a.blips.All() {
		y, ok := b.blips.Get(h)
		if !ok {
			return fmt.Sprintf("blip %d missing from second game", h)
		}
		if x.Status != y.Status {
			return fmt.Sprintf("blip %d status %+v != %+v", h, x.Status, y.Status)
		}
		if !blip.Equal(x, y) {
			return fmt.Sprintf("blip %d brain or colour differs", h)
		}
	}
	return "blip handles differ"
}

// Snapshot captures the committed state for offline comparison.
func (g *Game) Snapshot() *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:    telemetry.SnapshotVersion,
		Seed:       g.seed,
		Salt:       g.salt,
		Tick:       g.tick,
		Time:       g.time,
		FoodWidth:  g.food.W,
		FoodHeight: g.food.H,
		Blips:      make([]telemetry.BlipState, 0, g.blips.Len()),
	}
	for _, c := range g.food.Cells() {
		s.Food = append(s.Food, int64(c))
	}
	for h, b := range g.blips.All() {
		s.Blips = append(s.Blips, telemetry.NewBlipState(h, b))
	}
	return s
}

// DumpJSON writes the committed state to path.
func (g *Game) DumpJSON(path string) error {
	return telemetry.WriteSnapshot(g.Snapshot(), path)
}
