package game

import (
	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/neural"
	"github.com/pthm-cable/blips/systems"
)

// blipParams flattens the blip-facing parts of cfg.
func blipParams(cfg *config.Config) blip.Params {
	b := cfg.Blip
	return blip.Params{
		InitialHP:      b.InitialHP,
		MaxSpeed:       b.MaxSpeed,
		TurnRate:       b.TurnRate,
		BaseCost:       b.BaseCost,
		MoveCost:       b.MoveCost,
		EatRate:        b.EatRate,
		ReproThreshold: b.ReproThreshold,
		ReproAge:       b.ReproAge,
		HearingRange:   b.HearingRange,
		SpikeRange:     b.SpikeRange,
		SpikeThreshold: b.SpikeThreshold,
		SpikeDamage:    b.SpikeDamage,
		SpikeCost:      b.SpikeCost,
		SpawnOffset:    b.SpawnOffset,
		Clock1Period:   b.Clock1Period,
		Clock2Period:   b.Clock2Period,

		WorldW:   cfg.Derived.WorldW,
		WorldH:   cfg.Derived.WorldH,
		CellSize: cfg.World.CellSize,

		Brain: cfg.Derived.BrainKind,
		Mutation: neural.Mutation{
			Rate:         cfg.Mutation.Rate,
			WeightScale:  cfg.Mutation.WeightScale,
			BiasScale:    cfg.Mutation.BiasScale,
			Distribution: cfg.Derived.Distribution,
		},
	}
}

func replenishParams(cfg *config.Config) systems.ReplenishParams {
	return systems.ReplenishParams{
		Rate: cfg.Food.ReplenishRate,
		Min:  cfg.Food.ReplenishMin,
		Max:  cfg.Food.ReplenishMax,
	}
}

func seedParams(cfg *config.Config) systems.SeedParams {
	return systems.SeedParams{
		Chance:     cfg.Food.InitialChance,
		Max:        cfg.Food.InitialMax,
		NoiseScale: cfg.Food.NoiseScale,
	}
}
