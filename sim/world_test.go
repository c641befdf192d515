package sim

import (
	"errors"
	"testing"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/systems"
)

func testOptions() Options {
	return Options{
		MaxParticles: 1000,
		SpawnRate:    50,
		Shards:       4,
		Workers:      4,
		Store:        config.StoreSlice,
		Seed:         99,
		Profiles:     systems.DefaultProfiles(1280, 720),
	}
}

func newTestWorld(t *testing.T, opts Options) *World {
	t.Helper()
	w, err := New(opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(w.Close)
	return w
}

func snapshot(w *World) []components.Particle {
	var out []components.Particle
	w.Each(func(p *components.Particle) {
		out = append(out, *p)
	})
	return out
}

func TestBudgetsSplitAcrossShards(t *testing.T) {
	tests := []struct {
		total, shards int
		want          []int
	}{
		{40000, 4, []int{10000, 10000, 10000, 10000}},
		{10, 4, []int{3, 3, 2, 2}},
		{3, 4, []int{1, 1, 1, 0}},
		{7, 1, []int{7}},
	}

	for _, tt := range tests {
		sum := 0
		for i := 0; i < tt.shards; i++ {
			got := splitBudget(tt.total, tt.shards, i)
			if got != tt.want[i] {
				t.Errorf("splitBudget(%d, %d, %d) = %d, want %d", tt.total, tt.shards, i, got, tt.want[i])
			}
			sum += got
		}
		if sum != tt.total {
			t.Errorf("shares of %d across %d shards sum to %d", tt.total, tt.shards, sum)
		}
	}
}

func TestNewAssignsShardLimits(t *testing.T) {
	opts := testOptions()
	opts.MaxParticles = 1001
	opts.SpawnRate = 6
	w := newTestWorld(t, opts)

	capSum, rateSum := 0, 0
	for i := 0; i < w.Shards(); i++ {
		lim := w.ShardLimits(i)
		capSum += lim.Capacity
		rateSum += lim.SpawnRate
		if lim.Opportunities != 2*opts.MaxParticles {
			t.Errorf("shard %d: expected %d opportunities, got %d", i, 2*opts.MaxParticles, lim.Opportunities)
		}
	}
	if capSum != 1001 || rateSum != 6 {
		t.Errorf("expected budgets 1001/6, got %d/%d", capSum, rateSum)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		modify func(o *Options)
	}{
		{"zero max", func(o *Options) { o.MaxParticles = 0 }},
		{"zero rate", func(o *Options) { o.SpawnRate = 0 }},
		{"zero shards", func(o *Options) { o.Shards = 0 }},
		{"more shards than particles", func(o *Options) { o.MaxParticles = 2; o.Shards = 3 }},
		{"unknown store", func(o *Options) { o.Store = "btree" }},
		{"bad profile", func(o *Options) { o.Profiles[components.KindC].Life = systems.Range{Min: 0, Max: 0} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.modify(&opts)
			w, err := New(opts)
			if !errors.Is(err, config.ErrInvalid) {
				if w != nil {
					w.Close()
				}
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestStepRespectsGlobalBudgets(t *testing.T) {
	opts := testOptions()
	opts.MaxParticles = 120
	opts.SpawnRate = 40
	w := newTestWorld(t, opts)

	for frame := 0; frame < 20; frame++ {
		stats := w.Step(0.016)
		if stats.Spawned > opts.SpawnRate {
			t.Fatalf("frame %d: spawned %d past rate %d", frame, stats.Spawned, opts.SpawnRate)
		}
		if stats.Live != w.Count() {
			t.Fatalf("frame %d: stats live %d != count %d", frame, stats.Live, w.Count())
		}
		if w.Count() > opts.MaxParticles {
			t.Fatalf("frame %d: %d live past max %d", frame, w.Count(), opts.MaxParticles)
		}
		for i := 0; i < w.Shards(); i++ {
			n := 0
			w.shards[i].store.Each(func(*components.Particle) { n++ })
			if n > w.ShardLimits(i).Capacity {
				t.Fatalf("frame %d: shard %d holds %d past capacity", frame, i, n)
			}
		}
	}

	// 40 per frame fills 120 within three frames of short dt
	if w.Count() != opts.MaxParticles {
		t.Errorf("expected the world to saturate at %d, got %d", opts.MaxParticles, w.Count())
	}
	if stats := w.Step(0.016); stats.CapacityShards != opts.Shards {
		t.Errorf("expected every shard at capacity, got %d", stats.CapacityShards)
	}
}

func TestFirstStepOnlyEmits(t *testing.T) {
	w := newTestWorld(t, testOptions())

	stats := w.Step(0.016)
	if stats.Removed != 0 || stats.Spawned != 50 || stats.Live != 50 {
		t.Errorf("unexpected first frame stats %+v", stats)
	}
	w.Each(func(p *components.Particle) {
		if p.LifeRemaining != p.LifeTime {
			t.Errorf("fresh particle already aged: %f/%f", p.LifeRemaining, p.LifeTime)
		}
	})
}

func TestParallelMatchesSequential(t *testing.T) {
	for _, store := range []string{config.StoreSlice, config.StoreECS} {
		t.Run(store, func(t *testing.T) {
			seqOpts := testOptions()
			seqOpts.Store = store
			seqOpts.Workers = 1
			parOpts := seqOpts
			parOpts.Workers = 4

			seq := newTestWorld(t, seqOpts)
			par := newTestWorld(t, parOpts)
			if seq.Parallel() || !par.Parallel() {
				t.Fatalf("unexpected pool state seq=%v par=%v", seq.Parallel(), par.Parallel())
			}

			for frame := 0; frame < 120; frame++ {
				dt := float32(0.05)
				a, b := seq.Step(dt), par.Step(dt)
				if a != b {
					t.Fatalf("frame %d: stats diverged %+v vs %+v", frame, a, b)
				}
			}

			sa, sb := snapshot(seq), snapshot(par)
			if len(sa) != len(sb) {
				t.Fatalf("particle counts diverged: %d vs %d", len(sa), len(sb))
			}
			for i := range sa {
				if sa[i] != sb[i] {
					t.Fatalf("particle %d diverged", i)
				}
			}
		})
	}
}

func TestSeedChangesStream(t *testing.T) {
	a := newTestWorld(t, testOptions())
	opts := testOptions()
	opts.Seed++
	b := newTestWorld(t, opts)

	a.Step(0.016)
	b.Step(0.016)

	sa, sb := snapshot(a), snapshot(b)
	same := true
	for i := range sa {
		if sa[i] != sb[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different seeds produced identical particles")
	}
}

func TestParticlesEventuallyExpire(t *testing.T) {
	opts := testOptions()
	opts.MaxParticles = 200
	opts.SpawnRate = 200
	w := newTestWorld(t, opts)

	w.Step(0.016)
	if w.Count() != 200 {
		t.Fatalf("expected 200 live, got %d", w.Count())
	}

	// the longest lifetime is 13s; one big step retires every particle
	stats := w.Step(14)
	if stats.Removed != 200 {
		t.Errorf("expected all 200 removed, got %d", stats.Removed)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, err := New(testOptions())
	if err != nil {
		t.Fatal(err)
	}
	w.Close()
	w.Close()
}

func BenchmarkWorldStep(b *testing.B) {
	for _, workers := range []int{1, 4} {
		opts := testOptions()
		opts.MaxParticles = 40000
		opts.SpawnRate = 400
		opts.Workers = workers
		w, err := New(opts)
		if err != nil {
			b.Fatal(err)
		}
		name := "sequential"
		if workers > 1 {
			name = "parallel"
		}
		b.Run(name, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				w.Step(0.016)
			}
		})
		w.Close()
	}
}
