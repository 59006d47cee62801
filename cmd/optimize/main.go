// Command optimize searches for blip parameters under which the population
// sustains itself near a target size without floor correction.
//
// Each candidate runs headless on several seeds; CMA-ES minimises the
// negated self-sustained tick count scaled by an ecosystem quality bonus.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int64("max-ticks", 100000, "Tick cap per run")
	seeds := flag.Int("seeds", 3, "Seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Evaluation budget")
	population := flag.Int("population", 0, "CMA-ES population size (0 = 4 + floor(3 ln dim))")
	outputDir := flag.String("output", "", "Output directory for results")
	target := flag.Int("target", 200, "Population the ecosystem should hold by itself")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(*configPath, *outputDir, *maxTicks, *seeds, *maxEvals, *population, *target); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks int64, seeds, maxEvals, population, target int) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	params := NewParamVector()
	evaluator := NewFitnessEvaluator(params, maxTicks, evalSeeds(seeds), baseCfg, target)

	logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("creating eval log: %w", err)
	}
	defer logFile.Close()

	evals, err := newEvalLog(logFile, params, maxEvals, baseCfg.Physics.DT, time.Now)
	if err != nil {
		return fmt.Errorf("writing eval log header: %w", err)
	}

	// CMA-ES works in the unit cube; the evaluator sees raw values.
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			p, err := evals.record(raw, fitness, evaluator.LastQuality())
			if err != nil {
				slog.Error("failed to write eval log", "error", err)
			}
			slog.Info("eval", "progress", p)
			return fitness
		},
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize(population, params.Dim()),
	}
	settings := &optimize.Settings{FuncEvaluations: maxEvals}

	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", method.Population,
		"max_evals", maxEvals,
		"seeds", seeds,
		"max_ticks", maxTicks,
	)

	result, err := optimize.Minimize(problem, params.Normalize(params.DefaultVector()), settings, method)
	if err != nil {
		slog.Warn("optimization ended", "error", err)
	}

	best, bestFitness := evals.best()
	if best == nil {
		if result == nil {
			return fmt.Errorf("no evaluations completed")
		}
		best = params.Clamp(params.Denormalize(result.X))
	}

	attrs := []any{"evals", evals.count, "best_fitness", bestFitness}
	for i, spec := range params.Specs {
		attrs = append(attrs, spec.Name, best[i])
	}
	slog.Info("optimization complete", attrs...)

	return writeResults(outputDir, params, baseCfg, best, evaluator.BestReport())
}

// writeResults saves the base config with best applied, and the final
// report of the best run when there is one.
func writeResults(dir string, params *ParamVector, baseCfg *config.Config, best []float64, report *telemetry.Report) error {
	bestCfg := *baseCfg
	if err := params.ApplyToConfig(&bestCfg, best); err != nil {
		return fmt.Errorf("best parameters give an invalid config: %w", err)
	}
	cfgPath := filepath.Join(dir, "best_config.yaml")
	if err := bestCfg.WriteYAML(cfgPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	slog.Info("best config saved", "path", cfgPath)

	if report == nil {
		return nil
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	reportPath := filepath.Join(dir, "best_report.json")
	if err := os.WriteFile(reportPath, data, 0644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	slog.Info("best report saved", "path", reportPath)
	return nil
}

// evalSeeds returns n fixed seeds so every candidate faces the same worlds.
func evalSeeds(n int) []uint64 {
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = uint64(i*1000 + 42)
	}
	return seeds
}

// popSize returns requested, or the CMA-ES default 4 + floor(3 ln dim).
func popSize(requested, dim int) int {
	if requested > 0 {
		return requested
	}
	return 4 + int(math.Floor(3*math.Log(float64(dim))))
}
