package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fountain/batch"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
)

// Layout is one shard/store combination to measure.
type Layout struct {
	Shards   int
	Store    string
	Parallel bool
}

// Result is one row of the benchmark CSV.
type Result struct {
	Shards        int     `csv:"shards"`
	Workers       int     `csv:"workers"`
	Store         string  `csv:"store"`
	Frames        int     `csv:"frames"`
	MeanMS        float64 `csv:"mean_ms"`
	StdDevMS      float64 `csv:"stddev_ms"`
	MinMS         float64 `csv:"min_ms"`
	MaxMS         float64 `csv:"max_ms"`
	P95MS         float64 `csv:"p95_ms"`
	Particles     int     `csv:"particles"`
	NsPerParticle float64 `csv:"ns_per_particle"`
}

// parseInts parses a comma-separated list of positive integers.
func parseInts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", field, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%d must be positive", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}

// layouts expands the sweep. One shard always runs sequentially, so it is
// measured once per store.
func layouts(shards []int, stores []string) []Layout {
	var out []Layout
	for _, store := range stores {
		for _, n := range shards {
			out = append(out, Layout{Shards: n, Store: store, Parallel: n > 1})
		}
	}
	return out
}

// runLayout runs frames headless frames on a copy of base and reports the
// timings of the frames after warmup.
func runLayout(base *config.Config, l Layout, frames, warmup int, seed int64) (Result, error) {
	cfg := *base
	cfg.Particles.Shards = l.Shards
	cfg.Particles.Store = l.Store
	cfg.Particles.Parallel = l.Parallel
	cfg.Particles.Workers = 0
	cfg.Telemetry.FrameSamples = 0
	cfg.Telemetry.StatsWindow = 0
	if err := cfg.Finalize(); err != nil {
		return Result{}, err
	}

	g, err := game.NewGame(&cfg, game.Options{Seed: seed}, batch.Discard)
	if err != nil {
		return Result{}, err
	}
	defer g.Unload()

	host := game.NewHeadless(cfg.Derived.HeadlessDT, warmup+frames, false)
	ms := make([]float64, 0, frames)
	particles := 0

	for host.ProcessEvents() {
		start := time.Now()
		if err := g.Frame(host); err != nil {
			return Result{}, err
		}
		elapsed := time.Since(start)

		if host.Frames() > warmup {
			ms = append(ms, float64(elapsed)/float64(time.Millisecond))
			particles += g.LastStep().Live
		}
	}

	return summarize(l, cfg.Derived.Workers, ms, particles), nil
}

func summarize(l Layout, workers int, ms []float64, particles int) Result {
	r := Result{
		Shards:  l.Shards,
		Workers: workers,
		Store:   l.Store,
		Frames:  len(ms),
	}
	if len(ms) == 0 {
		return r
	}

	r.MeanMS, r.StdDevMS = stat.MeanStdDev(ms, nil)
	if len(ms) < 2 {
		r.StdDevMS = 0
	}
	r.MinMS = floats.Min(ms)
	r.MaxMS = floats.Max(ms)

	sorted := slices.Clone(ms)
	slices.Sort(sorted)
	r.P95MS = stat.Quantile(0.95, stat.Empirical, sorted, nil)

	r.Particles = particles / len(ms)
	if particles > 0 {
		r.NsPerParticle = floats.Sum(ms) * float64(time.Millisecond) / float64(particles)
	}
	return r
}
