package systems

import (
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/fountain/components"
)

// Limits bounds a single emission call on one shard.
type Limits struct {
	Capacity      int // shard's slice of the global particle budget
	SpawnRate     int // shard's slice of the global per-frame spawn budget
	Opportunities int // loose loop bound, 2 × the global particle budget
}

// EmitStats reports what one emission call did.
type EmitStats struct {
	Spawned    int
	AtCapacity bool
}

// Emitter spawns particles into one shard. It owns the shard's random stream
// and must not be shared between goroutines.
type Emitter struct {
	profiles *Profiles
	rng      *rand.Rand
	shardID  int
}

// NewEmitter creates an emitter with a private random stream.
func NewEmitter(profiles *Profiles, rng *rand.Rand, shardID int) *Emitter {
	return &Emitter{
		profiles: profiles,
		rng:      rng,
		shardID:  shardID,
	}
}

// Emit spawns up to lim.SpawnRate particles into s without growing it past
// lim.Capacity. Kinds cycle A, B, C starting from A on every call.
func (e *Emitter) Emit(s Shard, lim Limits) EmitStats {
	var stats EmitStats
	kind := components.KindA

	for i := 0; i < lim.Opportunities; i++ {
		// Both limits only tighten during a call, so once either is hit
		// every remaining opportunity would be skipped too.
		if s.Len() >= lim.Capacity {
			stats.AtCapacity = true
			break
		}
		if stats.Spawned >= lim.SpawnRate {
			break
		}

		s.Add(e.profiles[kind].Spawn(e.rng))
		stats.Spawned++

		kind = (kind + 1) % components.NumKinds
	}

	if stats.AtCapacity {
		slog.Debug("shard_at_capacity",
			"shard", e.shardID,
			"capacity", lim.Capacity,
			"spawned", stats.Spawned,
		)
	}
	return stats
}
