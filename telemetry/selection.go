package telemetry

import (
	"fmt"
	"iter"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/systems"
)

// Selection picks one blip out of the population for display.
type Selection uint8

const (
	SelectNone Selection = iota
	SelectAge
	SelectGeneration
	SelectSpawns
	SelectNearest
)

func (s Selection) String() string {
	switch s {
	case SelectNone:
		return "none"
	case SelectAge:
		return "oldest"
	case SelectGeneration:
		return "generation"
	case SelectSpawns:
		return "spawns"
	case SelectNearest:
		return "nearest"
	}
	return fmt.Sprintf("Selection(%d)", uint8(s))
}

// Select returns the handle chosen by sel. The maximum selections break ties
// towards the lower handle. SelectNearest asks index for the blip closest to
// (x, y). Select only reads its arguments.
func Select(sel Selection, blips iter.Seq2[int, *blip.Blip], index *systems.SpatialIndex, x, y float64) (int, bool) {
	switch sel {
	case SelectAge:
		return maxBy(blips, func(b *blip.Blip) float64 { return b.Age })
	case SelectGeneration:
		return maxBy(blips, func(b *blip.Blip) float64 { return float64(b.Generation) })
	case SelectSpawns:
		return maxBy(blips, func(b *blip.Blip) float64 { return float64(b.Children) })
	case SelectNearest:
		if index == nil {
			return 0, false
		}
		n, ok := index.Nearest(x, y, -1)
		return n.Handle, ok
	}
	return 0, false
}

func maxBy(blips iter.Seq2[int, *blip.Blip], key func(*blip.Blip) float64) (int, bool) {
	best, found := 0, false
	var bestKey float64
	for h, b := range blips {
		k := key(b)
		if !found || k > bestKey || (k == bestKey && h < best) {
			best, bestKey, found = h, k, true
		}
	}
	return best, found
}
