// Package main provides CMA-ES optimization for blip simulation parameters.
package main

import (
	"github.com/pthm-cable/blips/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Metabolism
			{Name: "base_cost", Path: "blip.base_cost", Min: 0.1, Max: 1.5, Default: 0.4},
			{Name: "move_cost", Path: "blip.move_cost", Min: 0.05, Max: 1.0, Default: 0.3},
			{Name: "eat_rate", Path: "blip.eat_rate", Min: 0.5, Max: 8.0, Default: 3},
			// Reproduction
			{Name: "repro_threshold", Path: "blip.repro_threshold", Min: 12, Max: 40, Default: 18},
			{Name: "repro_age", Path: "blip.repro_age", Min: 1, Max: 20, Default: 4},
			// Spikes
			{Name: "spike_damage", Path: "blip.spike_damage", Min: 0, Max: 20, Default: 6},
			{Name: "spike_cost", Path: "blip.spike_cost", Min: 0, Max: 3, Default: 0.5},
			// Food
			{Name: "replenish_rate", Path: "food.replenish_rate", Min: 40, Max: 400, Default: 160},
			// Mutation
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.1, Max: 3.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct and recomputes
// its derived values.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	fields := []*float64{
		&cfg.Blip.BaseCost,
		&cfg.Blip.MoveCost,
		&cfg.Blip.EatRate,
		&cfg.Blip.ReproThreshold,
		&cfg.Blip.ReproAge,
		&cfg.Blip.SpikeDamage,
		&cfg.Blip.SpikeCost,
		&cfg.Food.ReplenishRate,
		&cfg.Mutation.Rate,
	}
	for i, f := range fields {
		*f = clamped[i]
	}
	return cfg.Finalize()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Blip.BaseCost,
		cfg.Blip.MoveCost,
		cfg.Blip.EatRate,
		cfg.Blip.ReproThreshold,
		cfg.Blip.ReproAge,
		cfg.Blip.SpikeDamage,
		cfg.Blip.SpikeCost,
		cfg.Food.ReplenishRate,
		cfg.Mutation.Rate,
	}
}
