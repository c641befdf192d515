// Package sim owns the sharded particle population and its per-frame update.
package sim

import (
	"fmt"
	"math/rand"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
)

// seedStride separates the random streams of neighbouring shards.
const seedStride = 1_000_003

// Options configures a World.
type Options struct {
	MaxParticles int    // global live particle budget
	SpawnRate    int    // global per-frame spawn budget
	Shards       int    // number of partitions
	Workers      int    // worker goroutines; <= 1 runs shards on the caller
	Store        string // config.StoreSlice or config.StoreECS
	Seed         int64
	Profiles     systems.Profiles
}

// OptionsFromConfig builds world options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config, seed int64) Options {
	return Options{
		MaxParticles: cfg.Particles.Max,
		SpawnRate:    cfg.Particles.SpawnRate,
		Shards:       cfg.Particles.Shards,
		Workers:      cfg.Derived.Workers,
		Store:        cfg.Particles.Store,
		Seed:         seed,
		Profiles:     systems.DefaultProfiles(cfg.Derived.ScreenW32, cfg.Derived.ScreenH32),
	}
}

// ShardStats is the outcome of one shard's frame.
type ShardStats struct {
	Removed    int
	Spawned    int
	AtCapacity bool
}

// StepStats aggregates one frame over all shards.
type StepStats struct {
	Removed        int
	Spawned        int
	Live           int
	CapacityShards int // shards that hit their capacity while emitting
}

// shard bundles one partition with everything it owns exclusively.
type shard struct {
	store   systems.Shard
	emitter *systems.Emitter
	limits  systems.Limits
	last    ShardStats
}

// World is the sharded particle store.
type World struct {
	profiles systems.Profiles
	shards   []shard
	parallel *parallelState // nil when shards run sequentially
}

// New validates opts, splits the budgets across shards and starts the worker pool.
func New(opts Options) (*World, error) {
	switch {
	case opts.MaxParticles <= 0:
		return nil, fmt.Errorf("%w: max particles must be positive, got %d", config.ErrInvalid, opts.MaxParticles)
	case opts.SpawnRate <= 0:
		return nil, fmt.Errorf("%w: spawn rate must be positive, got %d", config.ErrInvalid, opts.SpawnRate)
	case opts.Shards <= 0 || opts.Shards > opts.MaxParticles:
		return nil, fmt.Errorf("%w: %d shards for %d particles", config.ErrInvalid, opts.Shards, opts.MaxParticles)
	}
	if err := opts.Profiles.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}

	w := &World{
		profiles: opts.Profiles,
		shards:   make([]shard, opts.Shards),
	}

	for i := range w.shards {
		capacity := splitBudget(opts.MaxParticles, opts.Shards, i)

		var store systems.Shard
		switch opts.Store {
		case config.StoreECS:
			store = systems.NewECSShard(capacity)
		case config.StoreSlice, "":
			store = systems.NewParticleShard(capacity)
		default:
			return nil, fmt.Errorf("%w: unknown store %q", config.ErrInvalid, opts.Store)
		}

		rng := rand.New(rand.NewSource(opts.Seed + int64(i)*seedStride))
		w.shards[i] = shard{
			store:   store,
			emitter: systems.NewEmitter(&w.profiles, rng, i),
			limits: systems.Limits{
				Capacity:      capacity,
				SpawnRate:     splitBudget(opts.SpawnRate, opts.Shards, i),
				Opportunities: 2 * opts.MaxParticles,
			},
		}
	}

	workers := min(opts.Workers, opts.Shards)
	if workers > 1 {
		w.parallel = newParallelState(workers, opts.Shards)
		w.parallel.startWorkers(w)
	}

	return w, nil
}

// splitBudget returns shard i's share of total. The remainder goes to the
// lowest indices so the shares always sum to total.
func splitBudget(total, shards, i int) int {
	share := total / shards
	if i < total%shards {
		share++
	}
	return share
}

// Step advances every shard by dt: simulate, then emit. It returns only
// after all shards have finished.
func (w *World) Step(dt float32) StepStats {
	if w.parallel != nil {
		w.parallel.run(len(w.shards), dt)
	} else {
		for i := range w.shards {
			w.stepShard(i, dt)
		}
	}

	var stats StepStats
	for i := range w.shards {
		s := &w.shards[i]
		stats.Removed += s.last.Removed
		stats.Spawned += s.last.Spawned
		stats.Live += s.store.Len()
		if s.last.AtCapacity {
			stats.CapacityShards++
		}
	}
	return stats
}

// stepShard runs one shard's frame. Safe to call concurrently for distinct i.
func (w *World) stepShard(i int, dt float32) {
	s := &w.shards[i]
	removed := s.store.Simulate(dt)
	emitted := s.emitter.Emit(s.store, s.limits)
	s.last = ShardStats{
		Removed:    removed,
		Spawned:    emitted.Spawned,
		AtCapacity: emitted.AtCapacity,
	}
}

// Each visits every live particle, shard by shard. Call only between steps.
func (w *World) Each(fn func(p *components.Particle)) {
	for i := range w.shards {
		w.shards[i].store.Each(fn)
	}
}

// Count returns the number of live particles across all shards.
func (w *World) Count() int {
	n := 0
	for i := range w.shards {
		n += w.shards[i].store.Len()
	}
	return n
}

// Shards returns the number of shards.
func (w *World) Shards() int {
	return len(w.shards)
}

// ShardLimits returns shard i's budgets.
func (w *World) ShardLimits(i int) systems.Limits {
	return w.shards[i].limits
}

// ShardStats returns the outcome of shard i's last frame.
func (w *World) ShardStats(i int) ShardStats {
	return w.shards[i].last
}

// Parallel reports whether shards run on the worker pool.
func (w *World) Parallel() bool {
	return w.parallel != nil
}

// Close stops the worker pool.
func (w *World) Close() {
	if w.parallel != nil {
		w.parallel.stopWorkers()
	}
}
