// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/blips/fixed"
	"github.com/pthm-cable/blips/neural"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Physics    PhysicsConfig    `yaml:"physics"`
	World      WorldConfig      `yaml:"world"`
	Food       FoodConfig       `yaml:"food"`
	Population PopulationConfig `yaml:"population"`
	Blip       BlipConfig       `yaml:"blip"`
	Neural     NeuralConfig     `yaml:"neural"`
	Mutation   MutationConfig   `yaml:"mutation"`
	Parallel   ParallelConfig   `yaml:"parallel"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// PhysicsConfig holds the fixed timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"` // seconds per tick
}

// WorldConfig holds the food grid geometry. The world is a torus of
// FoodWidth*CellSize by FoodHeight*CellSize.
type WorldConfig struct {
	FoodWidth  int     `yaml:"food_width"`
	FoodHeight int     `yaml:"food_height"`
	CellSize   float64 `yaml:"cell_size"`
}

// FoodConfig holds food clamping, seeding and regrowth parameters.
type FoodConfig struct {
	ClampMin      float64 `yaml:"clamp_min"`      // lowest value blips can sense
	ClampMax      float64 `yaml:"clamp_max"`      // highest value blips can sense
	InitialChance float64 `yaml:"initial_chance"` // probability a cell starts with food
	InitialMax    float64 `yaml:"initial_max"`    // initial amount drawn from [0, this)
	NoiseScale    float64 `yaml:"noise_scale"`    // >0 for patchy simplex-modulated seeding
	ReplenishRate float64 `yaml:"replenish_rate"` // expected food added per second
	ReplenishMin  float64 `yaml:"replenish_min"`  // smallest single deposit
	ReplenishMax  float64 `yaml:"replenish_max"`  // largest single deposit
}

// PopulationConfig holds population bounds.
type PopulationConfig struct {
	Initial      int     `yaml:"initial"`
	Floor        int     `yaml:"floor"`         // never fewer blips than this after a tick
	CompactRatio float64 `yaml:"compact_ratio"` // compact store when holes exceed live*this
}

// BlipConfig holds per-blip physiology and sensing parameters.
type BlipConfig struct {
	InitialHP      float64 `yaml:"initial_hp"`
	MaxSpeed       float64 `yaml:"max_speed"`
	TurnRate       float64 `yaml:"turn_rate"`
	BaseCost       float64 `yaml:"base_cost"`       // hp per second
	MoveCost       float64 `yaml:"move_cost"`       // hp per second per speed factor
	EatRate        float64 `yaml:"eat_rate"`        // food per second
	ReproThreshold float64 `yaml:"repro_threshold"` // hp needed to spawn
	ReproAge       float64 `yaml:"repro_age"`       // seconds
	HearingRange   float64 `yaml:"hearing_range"`
	SpikeRange     float64 `yaml:"spike_range"`
	SpikeThreshold float64 `yaml:"spike_threshold"`
	SpikeDamage    float64 `yaml:"spike_damage"` // hp per second per attacker
	SpikeCost      float64 `yaml:"spike_cost"`   // hp per second while spiking
	SpawnOffset    float64 `yaml:"spawn_offset"`
	Clock1Period   float64 `yaml:"clock1_period"`
	Clock2Period   float64 `yaml:"clock2_period"`
}

// NeuralConfig selects the brain variant.
type NeuralConfig struct {
	Brain string `yaml:"brain"` // simple | big
}

// MutationConfig holds offspring mutation parameters.
type MutationConfig struct {
	Rate         float64 `yaml:"rate"`
	WeightScale  float64 `yaml:"weight_scale"`
	BiasScale    float64 `yaml:"bias_scale"`
	Distribution string  `yaml:"distribution"` // uniform | gaussian
}

// ParallelConfig holds worker pool settings.
type ParallelConfig struct {
	Workers   int `yaml:"workers"`   // 0 = GOMAXPROCS
	Threshold int `yaml:"threshold"` // minimum blips before fanning out
}

// TelemetryConfig holds reporting settings.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // seconds per stats window
	PerfWindow  int     `yaml:"perf_window"`  // ticks per perf window

	BookmarkHistory int `yaml:"bookmark_history"` // windows kept for bookmark detection
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW        float64
	WorldH        float64
	Cells         int       // FoodWidth * FoodHeight
	IndexCellSize float64   // spatial index cell, covers the widest sensing range
	ClampMin      fixed.Rat // Food.ClampMin
	ClampMax      fixed.Rat // Food.ClampMax
	BrainKind     neural.Kind
	Distribution  neural.Distribution
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the configuration and recomputes derived values.
// Call it after changing fields programmatically.
func (c *Config) Finalize() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return c.computeDerived()
}

func (c *Config) validate() error {
	var errs []error
	if c.Physics.DT <= 0 {
		errs = append(errs, fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT))
	}
	if c.World.FoodWidth <= 0 || c.World.FoodHeight <= 0 {
		errs = append(errs, fmt.Errorf("world food grid must be positive, got %dx%d", c.World.FoodWidth, c.World.FoodHeight))
	}
	if c.World.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("world.cell_size must be positive, got %v", c.World.CellSize))
	}
	if c.Food.ClampMin >= c.Food.ClampMax {
		errs = append(errs, fmt.Errorf("food.clamp_min %v must be below clamp_max %v", c.Food.ClampMin, c.Food.ClampMax))
	}
	if c.Food.ReplenishMin > c.Food.ReplenishMax {
		errs = append(errs, fmt.Errorf("food.replenish_min %v exceeds replenish_max %v", c.Food.ReplenishMin, c.Food.ReplenishMax))
	}
	if c.Population.Floor < 0 || c.Population.Initial < 0 {
		errs = append(errs, errors.New("population sizes must not be negative"))
	}
	if c.Blip.HearingRange <= 0 && c.Blip.SpikeRange <= 0 {
		errs = append(errs, errors.New("blip needs a positive hearing_range or spike_range"))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	kind, err := neural.ParseKind(c.Neural.Brain)
	if err != nil {
		return fmt.Errorf("neural.brain: %w", err)
	}
	dist, err := neural.ParseDistribution(c.Mutation.Distribution)
	if err != nil {
		return fmt.Errorf("mutation.distribution: %w", err)
	}

	c.Derived.WorldW = float64(c.World.FoodWidth) * c.World.CellSize
	c.Derived.WorldH = float64(c.World.FoodHeight) * c.World.CellSize
	c.Derived.Cells = c.World.FoodWidth * c.World.FoodHeight
	c.Derived.IndexCellSize = max(c.Blip.HearingRange, c.Blip.SpikeRange)
	c.Derived.ClampMin = fixed.FromFloat(c.Food.ClampMin)
	c.Derived.ClampMax = fixed.FromFloat(c.Food.ClampMax)
	c.Derived.BrainKind = kind
	c.Derived.Distribution = dist
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
