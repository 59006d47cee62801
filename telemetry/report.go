package telemetry

import (
	"iter"
	"log/slog"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/fixed"
)

// Report is a one-line summary of the world at the end of a tick.
type Report struct {
	Tick              int64
	SimTime           float64
	Blips             int
	OldestAge         float64
	HighestGeneration int
	MostChildren      int
	TotalFood         float64
	AvgFood           float64 // per cell
}

// NewReport summarizes the blips and the food grid total over cells cells.
func NewReport(tick int64, simTime float64, blips iter.Seq2[int, *blip.Blip], totalFood fixed.Rat, cells int) Report {
	r := Report{Tick: tick, SimTime: simTime, TotalFood: totalFood.Float()}
	if cells > 0 {
		r.AvgFood = r.TotalFood / float64(cells)
	}
	for _, b := range blips {
		r.Blips++
		r.OldestAge = max(r.OldestAge, b.Age)
		r.HighestGeneration = max(r.HighestGeneration, b.Generation)
		r.MostChildren = max(r.MostChildren, b.Children)
	}
	return r
}

// LogValue implements slog.LogValuer for structured logging.
func (r Report) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("tick", r.Tick),
		slog.Float64("sim_time", r.SimTime),
		slog.Int("blips", r.Blips),
		slog.Float64("oldest_age", r.OldestAge),
		slog.Int("highest_generation", r.HighestGeneration),
		slog.Int("most_children", r.MostChildren),
		slog.Float64("total_food", r.TotalFood),
		slog.Float64("avg_food", r.AvgFood),
	)
}
