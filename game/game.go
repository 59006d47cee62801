// Package game drives the simulation: it owns the blips, the food grid and
// the spatial index, and advances them one deterministic tick at a time.
package game

import (
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/pthm-cable/blips/blip"
	"github.com/pthm-cable/blips/config"
	"github.com/pthm-cable/blips/store"
	"github.com/pthm-cable/blips/systems"
	"github.com/pthm-cable/blips/telemetry"
)

// Options configures a game beyond the simulation config.
type Options struct {
	Seed           uint64
	Workers        int     // overrides parallel.workers when > 0
	LogStats       bool    // log window stats via slog
	StatsWindowSec float64 // overrides telemetry.stats_window when > 0
	SnapshotDir    string  // save a snapshot on every bookmark when set
	OutputDir      string  // CSV telemetry and config copy when set
	StepsPerUpdate int     // ticks per Frame call

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg       *config.Config
	params    blip.Params
	replenish systems.ReplenishParams

	// Committed state, read-only between ticks.
	blips *store.StableVec[blip.Blip]
	food  *systems.FoodGrid
	index *systems.SpatialIndex
	time  float64
	tick  int64

	// spare is the next tick's blip buffer, recycled every tick.
	spare *store.StableVec[blip.Blip]

	// Root stream for world construction, floor correction and replenishment.
	rng  *rand.Rand
	seed uint64
	salt uint64

	pool     *workerPool
	spawns   spawnQueue
	consumed atomic.Int64 // fixed.Rat eaten during the current decision phase

	last      telemetry.TickStats
	lastRemap []int // handle remap from the last compaction, nil if none

	// Telemetry
	perf          *telemetry.PerfCollector
	collector     *telemetry.Collector
	bookmarks     *telemetry.BookmarkDetector
	output        *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	logStats      bool
	snapshotDir   string

	// Driver state
	paused         bool
	stepsPerUpdate int
}

// NewGame builds the initial world from cfg and opts.Seed. The root stream
// first draws the run salt, then the food layout, then the founders.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	workers := cfg.Parallel.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		output.Close()
		return nil, fmt.Errorf("writing config copy: %w", err)
	}

	g := &Game{
		cfg:            cfg,
		params:         blipParams(cfg),
		replenish:      replenishParams(cfg),
		food:           systems.NewFoodGrid(cfg.World.FoodWidth, cfg.World.FoodHeight),
		index:          systems.NewSpatialIndex(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Derived.IndexCellSize),
		blips:          store.New[blip.Blip](cfg.Population.Initial),
		spare:          store.New[blip.Blip](cfg.Population.Initial),
		rng:            systems.NewRootStream(opts.Seed),
		seed:           opts.Seed,
		pool:           newWorkerPool(workers, cfg.Parallel.Threshold),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:      telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		bookmarks:      telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory),
		output:         output,
		statsCallback:  opts.StatsCallback,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		stepsPerUpdate: opts.StepsPerUpdate,
	}

	g.salt = g.rng.Uint64()
	systems.SeedFood(g.food, g.rng, seedParams(cfg))
	for range cfg.Population.Initial {
		g.blips.Push(blip.New(g.rng, &g.params))
	}
	g.index.Rebuild(blip.Positions(g.blips))

	slog.Debug("world created",
		"seed", g.seed,
		"blips", g.blips.Len(),
		"food", g.food.Total().Float(),
		"workers", g.pool.numWorkers,
	)
	return g, nil
}

// Close stops the worker pool and flushes output files.
func (g *Game) Close() error {
	g.pool.stopWorkers()
	return g.output.Close()
}

// Frame advances the configured number of ticks at the configured dt,
// unless paused. Drivers call it once per displayed frame. onTick, if not
// nil, runs after every tick, so handle remaps from compaction can be
// applied one at a time.
func (g *Game) Frame(onTick func()) {
	g.perf.RecordFrame()
	if g.paused {
		return
	}
	for range g.stepsPerUpdate {
		g.Update(g.cfg.Physics.DT)
		if onTick != nil {
			onTick()
		}
	}
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config { return g.cfg }

// Seed returns the seed of the root stream.
func (g *Game) Seed() uint64 { return g.seed }

// Tick returns the number of completed ticks.
func (g *Game) Tick() int64 { return g.tick }

// Time returns the elapsed simulation time in seconds.
func (g *Game) Time() float64 { return g.time }

// Population returns the number of live blips.
func (g *Game) Population() int { return g.blips.Len() }

// Blips yields (handle, blip) for every live blip in handle order. The
// blips must not be modified.
func (g *Game) Blips() iter.Seq2[int, *blip.Blip] { return g.blips.All() }

// Blip returns the blip at handle h.
func (g *Game) Blip(h int) (*blip.Blip, bool) { return g.blips.Get(h) }

// Food returns the live food grid. Callers must only read it.
func (g *Game) Food() *systems.FoodGrid { return g.food }

// Index returns the spatial index built at the end of the last tick.
func (g *Game) Index() *systems.SpatialIndex { return g.index }

// LastTick returns what the last tick changed.
func (g *Game) LastTick() telemetry.TickStats { return g.last }

// Perf returns the rolling performance statistics.
func (g *Game) Perf() telemetry.PerfStats { return g.perf.Stats() }

// Workers returns the size of the worker pool.
func (g *Game) Workers() int { return g.pool.numWorkers }

// Paused reports whether Frame is currently a no-op.
func (g *Game) Paused() bool { return g.paused }

// SetPaused pauses or resumes Frame.
func (g *Game) SetPaused(p bool) { g.paused = p }

// Speed returns the number of ticks per Frame.
func (g *Game) Speed() int { return g.stepsPerUpdate }

// SetSpeed sets the number of ticks per Frame, at least one.
func (g *Game) SetSpeed(steps int) { g.stepsPerUpdate = max(steps, 1) }

// Report summarizes the committed state.
func (g *Game) Report() telemetry.Report {
	return telemetry.NewReport(g.tick, g.time, g.blips.All(), g.food.Total(), g.cfg.Derived.Cells)
}
