package telemetry

import (
	"testing"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/systems"
)

func TestSelect(t *testing.T) {
	pop := population(
		[4]float64{1, 2, 5, 0}, // 0
		[4]float64{1, 9, 1, 3}, // 1
		[4]float64{1, 9, 5, 3}, // 2
		[4]float64{1, 1, 0, 7}, // 3
	)
	pop.Remove(3)

	tests := []struct {
		sel  Selection
		want int
	}{
		{SelectAge, 1},
		{SelectGeneration, 0},
		{SelectSpawns, 1},
	}
	for _, tt := range tests {
		t.Run(tt.sel.String(), func(t *testing.T) {
			got, ok := Select(tt.sel, pop.All(), nil, 0, 0)
			if !ok || got != tt.want {
				t.Errorf("Select(%v) = %d, %v; want %d", tt.sel, got, ok, tt.want)
			}
		})
	}
}

func TestSelectNearest(t *testing.T) {
	pop := population([4]float64{1}, [4]float64{1}, [4]float64{1})
	for i, x := range []float64{10, 50, 80} {
		b, _ := pop.Get(i)
		b.Pos.X, b.Pos.Y = x, 10
	}
	index := systems.NewSpatialIndex(100, 100, 20)
	index.Rebuild(blip.Positions(pop))

	tests := []struct {
		name string
		x, y float64
		want int
	}{
		{"middle", 48, 12, 1},
		{"left", 5, 10, 0},
		{"across seam", 98, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(SelectNearest, pop.All(), index, tt.x, tt.y)
			if !ok || got != tt.want {
				t.Errorf("nearest to (%v,%v) = %d, %v; want %d", tt.x, tt.y, got, ok, tt.want)
			}
		})
	}
}

func TestSelectEmpty(t *testing.T) {
	pop := population()
	for _, sel := range []Selection{SelectNone, SelectAge, SelectGeneration, SelectSpawns, SelectNearest} {
		if _, ok := Select(sel, pop.All(), systems.NewSpatialIndex(10, 10, 5), 0, 0); ok {
			t.Errorf("Select(%v) found a blip in an empty world", sel)
		}
	}
}
