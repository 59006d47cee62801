package game

import "github.com/pthm-cable/blips/telemetry"

// Select picks a blip by the given criterion; SelectNearest uses the
// world position (x, y).
func (g *Game) Select(sel telemetry.Selection, x, y float64) (int, bool) {
	return telemetry.Select(sel, g.blips.All(), g.index, x, y)
}

// Follow maps a handle held from before the last tick to the same blip's
// current handle. Returns false if the blip has died.
func (g *Game) Follow(h int) (int, bool) {
	if g.lastRemap != nil {
		if h < 0 || h >= len(g.lastRemap) || g.lastRemap[h] < 0 {
			return 0, false
		}
		h = g.lastRemap[h]
	}
	return h, g.blips.Live(h)
}
