package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	debug := flag.Bool("debug", false, "Enable debug logging")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	workers := flag.Int("workers", 0, "Worker goroutines (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = uint64(time.Now().UnixNano())
	}

	opts := game.Options{
		Seed:           rngSeed,
		Workers:        *workers,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
	}

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	defer g.Close()

	if *headless {
		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"workers", g.Workers(),
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for *maxTicks <= 0 || g.Tick() < *maxTicks {
			g.Frame(nil)
		}
		slog.Info("max ticks reached", "tick", g.Tick(), "report", g.Report())
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Blips")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	v := newViewer(g)
	defer v.unload()

	for !rl.WindowShouldClose() {
		v.update()
		v.draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
}
