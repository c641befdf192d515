// Package game drives the per-frame loop: step the world, batch the
// particles and hand them to a frame host.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/fountain/batch"
	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/sim"
	"github.com/pthm-cable/fountain/telemetry"
)

// Host is a frame host: a window, a terminal or a headless driver.
type Host interface {
	// ProcessEvents pumps host events and returns false once shutdown is requested.
	ProcessEvents() bool
	// FrameTime returns the seconds elapsed since the previous frame.
	FrameTime() float32
	// Paused reports whether the user has paused the simulation.
	Paused() bool
	BeginFrame() error
	EndFrame(hud HUD) error
}

// HUD carries the counters an overlay may draw.
type HUD struct {
	Frame     int64
	Particles int
	Capacity  int
	Spawned   int
	Removed   int
	Shards    int
	Parallel  bool
	FrameTime float32 // seconds
	Paused    bool
}

// Options configures a game beyond the loaded config.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string

	// StatsCallback is called with each perf window as it closes.
	StatsCallback func(stats telemetry.PerfStats)
}

// Game holds the simulation and its diagnostics.
type Game struct {
	cfg   *config.Config
	world *sim.World
	batch *batch.Batch

	// Telemetry
	perfCollector  *telemetry.PerfCollector
	frameRecorder  *telemetry.FrameRecorder // nil when frame logging is off
	outputManager  *telemetry.OutputManager
	logStats       bool
	statsWindowSec float64
	statsCallback  func(stats telemetry.PerfStats)

	// State
	frame       int64
	elapsed     float64 // seconds of frame time seen
	windowStart float64
	last        sim.StepStats
}

// NewGame builds the world, the batch and the telemetry from cfg.
// sink receives one draw per frame; nil discards.
func NewGame(cfg *config.Config, opts Options, sink batch.Sink) (*Game, error) {
	if cfg == nil {
		cfg = config.Cfg()
	}

	world, err := sim.New(sim.OptionsFromConfig(cfg, opts.Seed))
	if err != nil {
		return nil, fmt.Errorf("creating world: %w", err)
	}

	b, err := batch.New(cfg.Particles.Max, sink)
	if err != nil {
		world.Close()
		return nil, fmt.Errorf("creating batch: %w", err)
	}

	outputManager, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		world.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}
	if err := outputManager.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	statsWindowSec := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindowSec = opts.StatsWindowSec
	}

	g := &Game{
		cfg:            cfg,
		world:          world,
		batch:          b,
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		outputManager:  outputManager,
		logStats:       opts.LogStats,
		statsWindowSec: statsWindowSec,
		statsCallback:  opts.StatsCallback,
	}

	if cfg.Telemetry.FrameSamples > 0 && cfg.Telemetry.FrameLog != "" {
		g.frameRecorder = telemetry.NewFrameRecorder(
			outputManager.Path(cfg.Telemetry.FrameLog),
			cfg.Telemetry.FrameSamples,
		)
	}

	slog.Info("game_created",
		"seed", opts.Seed,
		"max_particles", cfg.Particles.Max,
		"spawn_rate", cfg.Particles.SpawnRate,
		"shards", world.Shards(),
		"parallel", world.Parallel(),
		"store", cfg.Particles.Store,
	)

	return g, nil
}

// Run drives frames until the host asks to stop or fails.
func (g *Game) Run(host Host) error {
	for host.ProcessEvents() {
		if err := g.Frame(host); err != nil {
			return err
		}
	}
	slog.Info("game_stopped", "frames", g.frame, "particles", g.world.Count())
	return nil
}

// Frame runs one frame: simulate, then draw.
func (g *Game) Frame(host Host) error {
	if g.frameRecorder != nil {
		g.frameRecorder.Start()
	}
	g.perfCollector.StartFrame()

	dt := host.FrameTime()
	if dt < 0 {
		dt = 0
	}
	paused := host.Paused()

	g.perfCollector.StartPhase(telemetry.PhaseSimulate)
	if !paused {
		g.last = g.world.Step(dt)
	} else {
		g.last = sim.StepStats{Live: g.world.Count()}
	}

	g.perfCollector.StartPhase(telemetry.PhaseRender)
	if err := host.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	if err := g.drawParticles(); err != nil {
		return err
	}
	if err := host.EndFrame(g.hud(dt, paused)); err != nil {
		return fmt.Errorf("end frame: %w", err)
	}

	g.perfCollector.EndFrame(g.last.Live)
	if g.frameRecorder != nil {
		g.frameRecorder.Stop()
		g.frameRecorder.Flush()
	}

	g.frame++
	g.elapsed += float64(dt)
	g.flushTelemetry()
	return nil
}

// drawParticles submits every live particle and flushes the batch once.
func (g *Game) drawParticles() error {
	g.batch.Begin()

	dropped := 0
	g.world.Each(func(p *components.Particle) {
		c := p.Colour
		err := g.batch.Submit(p.Position.X, p.Position.Y, c.R, c.G, c.B, c.A)
		if errors.Is(err, batch.ErrCapacity) {
			dropped++
		}
	})
	if dropped > 0 {
		slog.Warn("particles_not_drawn", "dropped", dropped, "capacity", g.batch.Cap())
	}

	if err := g.batch.Flush(); err != nil {
		return fmt.Errorf("draw particles: %w", err)
	}
	return nil
}

func (g *Game) hud(dt float32, paused bool) HUD {
	return HUD{
		Frame:     g.frame,
		Particles: g.last.Live,
		Capacity:  g.cfg.Particles.Max,
		Spawned:   g.last.Spawned,
		Removed:   g.last.Removed,
		Shards:    g.world.Shards(),
		Parallel:  g.world.Parallel(),
		FrameTime: dt,
		Paused:    paused,
	}
}

// flushTelemetry closes the perf window once it spans the stats window.
func (g *Game) flushTelemetry() {
	if g.statsWindowSec <= 0 || g.elapsed-g.windowStart < g.statsWindowSec {
		return
	}
	g.windowStart = g.elapsed

	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(perfStats)
	}

	if g.logStats {
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WritePerf(perfStats, g.frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// Unload stops the workers and closes output files.
func (g *Game) Unload() {
	g.world.Close()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// FrameCount returns the number of frames run.
func (g *Game) FrameCount() int64 {
	return g.frame
}

// World returns the particle world.
func (g *Game) World() *sim.World {
	return g.world
}

// LastStep returns the stats of the most recent frame.
func (g *Game) LastStep() sim.StepStats {
	return g.last
}

// FrameRecorder returns the frame-time recorder, or nil when disabled.
func (g *Game) FrameRecorder() *telemetry.FrameRecorder {
	return g.frameRecorder
}
