package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int64   `csv:"-"`
	WindowEndTick   int64   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Blips int `csv:"blips"`

	// Events during window
	Births int `csv:"births"`
	Deaths int `csv:"deaths"`
	Forced int `csv:"forced"`

	// Food flow during window, and the grid total at window end
	Consumed    float64 `csv:"consumed"`
	Replenished float64 `csv:"replenished"`
	TotalFood   float64 `csv:"total_food"`

	// Distributions sampled at window end
	HPMean  float64 `csv:"hp_mean"`
	HPStd   float64 `csv:"hp_std"`
	HPP10   float64 `csv:"hp_p10"`
	HPP50   float64 `csv:"hp_p50"`
	HPP90   float64 `csv:"hp_p90"`
	AgeMean float64 `csv:"age_mean"`
	AgeP50  float64 `csv:"age_p50"`
	AgeMax  float64 `csv:"age_max"`
	GenMean float64 `csv:"gen_mean"`
	GenMax  int     `csv:"gen_max"`

	MostChildren int `csv:"most_children"`
}

// Distribution summarizes a sample.
type Distribution struct {
	Mean, Std     float64
	P10, P50, P90 float64
	Max           float64
}

// ComputeDistribution returns the population mean, standard deviation,
// empirical quantiles and maximum of values. values is not modified.
// Returns the zero Distribution for an empty sample.
func ComputeDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	var d Distribution
	d.Mean, d.Std = stat.PopMeanStdDev(sorted, nil)
	d.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	d.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	d.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	d.Max = sorted[len(sorted)-1]
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("blips", s.Blips),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Int("forced", s.Forced),
		slog.Float64("consumed", s.Consumed),
		slog.Float64("replenished", s.Replenished),
		slog.Float64("total_food", s.TotalFood),
		slog.Float64("hp_mean", s.HPMean),
		slog.Float64("hp_p50", s.HPP50),
		slog.Float64("age_p50", s.AgeP50),
		slog.Float64("age_max", s.AgeMax),
		slog.Int("gen_max", s.GenMax),
		slog.Int("most_children", s.MostChildren),
	)
}
