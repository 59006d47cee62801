package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/game"
	"github.com/pthm-cable/blips/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int64
	seeds       []uint64
	baseConfig  *config.Config
	statsWindow float64
	target      int // population the ecosystem should hold by itself

	// Best run tracking
	mu          sync.Mutex
	bestFitness float64
	bestReport  *telemetry.Report
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []uint64, baseCfg *config.Config, target int) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0, // 10 seconds per window
		target:      target,
		bestFitness: math.Inf(1),
	}
}

// BestReport returns the final report of the best seed from the best
// evaluation.
func (fe *FitnessEvaluator) BestReport() *telemetry.Report {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestReport
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// A run counts as collapsed once floor correction has been keeping the
// population alive for collapseGraceSec.
const (
	warmupSec        = 20.0
	collapseGraceSec = 30.0
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int64                   // ticks before collapse (or maxTicks if sustained)
	windowStats   []telemetry.WindowStats // collected via StatsCallback each window
	report        telemetry.Report

	reproThreshold float64 // the candidate's own spawn threshold
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	report  telemetry.Report
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative self-sustained ticks scaled by quality.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint64) {
			defer wg.Done()
			result, err := fe.runSimulation(x, s)
			if err != nil {
				results[idx] = seedResult{fitness: 0}
				return
			}
			results[idx] = seedResult{
				fitness: fe.computeFitness(result),
				quality: fe.computeQuality(result.windowStats, result.reproThreshold),
				report:  result.report,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	best := 0
	for i, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.fitness < results[best].fitness {
			best = i
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		report := results[best].report
		fe.bestReport = &report
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless simulation run.
// Runs until collapse or maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed uint64) (*runResult, error) {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		return nil, err
	}

	result := &runResult{reproThreshold: cfg.Blip.ReproThreshold}

	// Seeds already run in parallel, so each game stays on one worker.
	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		Workers:        1,
		StatsWindowSec: fe.statsWindow,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		return nil, err
	}
	defer g.Close()

	dt := cfg.Physics.DT
	warmupTicks := int64(warmupSec / dt)
	graceTicks := int64(collapseGraceSec / dt)
	var propped int64 // consecutive ticks with forced spawns

	for g.Tick() < fe.maxTicks {
		g.Update(dt)
		if g.Tick() < warmupTicks {
			continue
		}

		if g.LastTick().Forced > 0 {
			propped++
		} else {
			propped = 0
		}
		if propped >= graceTicks {
			result.survivalTicks = g.Tick() - propped
			result.report = g.Report()
			return result, nil
		}
	}

	result.survivalTicks = fe.maxTicks
	result.report = g.Report()
	return result, nil
}

// copyConfig returns an independent copy of the base config. Config holds
// only values, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalTicks × (1.0 + 0.2 × quality))
// Survival dominates; quality adds up to 20% bonus to differentiate
// configs with similar survival.
func (fe *FitnessEvaluator) computeFitness(r *runResult) float64 {
	survival := float64(r.survivalTicks)
	quality := fe.computeQuality(r.windowStats, r.reproThreshold)
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightSize      = 0.35
	qualityWeightStability = 0.25
	qualityWeightHealth    = 0.20
	qualityWeightEvolution = 0.20

	qualityWarmupWindows = 3 // skip first N windows (warmup)
)

// computeQuality computes ecosystem quality ∈ [0, 1] from window stats.
// Health is judged against reproThreshold, the threshold the run used.
func (fe *FitnessEvaluator) computeQuality(windows []telemetry.WindowStats, reproThreshold float64) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	var sizeSum, healthSum, forced float64
	counts := make([]float64, 0, len(valid))
	for _, w := range valid {
		counts = append(counts, float64(w.Blips))

		// 1. Population near target, on a log scale
		logErr := math.Log(float64(max(w.Blips, 1)) / float64(fe.target))
		sizeSum += math.Exp(-logErr * logErr)

		// 3. Median hp between starvation and the spawn threshold
		healthSum += 1 - math.Abs(w.HPP50/reproThreshold-0.5)*2

		forced += float64(w.Forced)
	}
	n := float64(len(valid))
	sizeScore := sizeSum / n

	// 2. Population stability
	stabilityScore := 0.0
	if len(counts) >= 2 {
		mean, std := stat.MeanStdDev(counts, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	healthScore := clamp01(healthSum / n)

	// 4. Lineages that keep breeding reach high generations; forced spawns
	// reset that progress.
	last := valid[len(valid)-1]
	evolutionScore := (1 - math.Exp(-last.GenMean/20)) * math.Exp(-forced/n)

	quality := qualityWeightSize*sizeScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHealth*healthScore +
		qualityWeightEvolution*evolutionScore

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
