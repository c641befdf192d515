// Package config provides configuration loading and access for the particle fountain.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned (wrapped) by Validate for any out-of-range setting.
var ErrInvalid = errors.New("invalid configuration")

// Store backends for shard particle storage.
const (
	StoreSlice = "slice"
	StoreECS   = "ecs"
)

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Headless  HeadlessConfig  `yaml:"headless"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	TargetFPS int    `yaml:"target_fps"` // 0 = uncapped
}

// ParticlesConfig holds the particle budgets and shard layout.
type ParticlesConfig struct {
	Max       int    `yaml:"max"`        // Global live particle budget (also the batch capacity)
	SpawnRate int    `yaml:"spawn_rate"` // Global per-frame spawn budget
	Shards    int    `yaml:"shards"`     // Number of independently updated partitions
	Workers   int    `yaml:"workers"`    // Worker goroutines (0 = one per shard)
	Parallel  bool   `yaml:"parallel"`   // false = update shards sequentially on the caller
	Store     string `yaml:"store"`      // "slice" or "ecs"
}

// HeadlessConfig holds settings for runs without a window.
type HeadlessConfig struct {
	DT float64 `yaml:"dt"` // Fixed seconds per frame
}

// TelemetryConfig holds diagnostics parameters.
type TelemetryConfig struct {
	FrameSamples int     `yaml:"frame_samples"` // Frame durations collected before the write-once CSV
	FrameLog     string  `yaml:"frame_log"`     // CSV file name for the frame-time log
	StatsWindow  float64 `yaml:"stats_window"`  // Seconds between perf log lines
	PerfWindow   int     `yaml:"perf_window"`   // Frames in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32  float32 // Screen.Width as float32
	ScreenH32  float32 // Screen.Height as float32
	HeadlessDT float32 // Headless.DT as float32
	Workers    int     // Effective worker count
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

// Defaults returns a fresh copy of the embedded defaults.
func Defaults() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

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

// Finalize validates the config and recomputes derived values.
// Call it again after overriding fields (e.g. from CLI flags).
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate rejects settings the simulation cannot start with.
func (c *Config) Validate() error {
	switch {
	case c.Screen.Width <= 0 || c.Screen.Height <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Screen.Width, c.Screen.Height)
	case c.Screen.TargetFPS < 0:
		return fmt.Errorf("%w: target_fps %d", ErrInvalid, c.Screen.TargetFPS)
	case c.Particles.Max <= 0:
		return fmt.Errorf("%w: particles.max must be positive, got %d", ErrInvalid, c.Particles.Max)
	case c.Particles.SpawnRate <= 0:
		return fmt.Errorf("%w: particles.spawn_rate must be positive, got %d", ErrInvalid, c.Particles.SpawnRate)
	case c.Particles.Shards <= 0:
		return fmt.Errorf("%w: particles.shards must be positive, got %d", ErrInvalid, c.Particles.Shards)
	case c.Particles.Shards > c.Particles.Max:
		return fmt.Errorf("%w: %d shards cannot split a budget of %d particles", ErrInvalid, c.Particles.Shards, c.Particles.Max)
	case c.Particles.Workers < 0:
		return fmt.Errorf("%w: particles.workers %d", ErrInvalid, c.Particles.Workers)
	case c.Particles.Store != StoreSlice && c.Particles.Store != StoreECS:
		return fmt.Errorf("%w: unknown particles.store %q", ErrInvalid, c.Particles.Store)
	case c.Headless.DT <= 0:
		return fmt.Errorf("%w: headless.dt must be positive, got %v", ErrInvalid, c.Headless.DT)
	case c.Telemetry.FrameSamples < 0:
		return fmt.Errorf("%w: telemetry.frame_samples %d", ErrInvalid, c.Telemetry.FrameSamples)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.HeadlessDT = float32(c.Headless.DT)

	workers := c.Particles.Workers
	if workers == 0 || workers > c.Particles.Shards {
		workers = c.Particles.Shards
	}
	if !c.Particles.Parallel {
		workers = 1
	}
	c.Derived.Workers = workers
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
