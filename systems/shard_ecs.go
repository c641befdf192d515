package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fountain/components"
)

// ECSShard stores each particle as an entity in its own ark world.
// Each shard owns a private world, so shards never contend on ECS locks.
type ECSShard struct {
	world  *ecs.World
	mapper *ecs.Map1[components.Particle]
	filter *ecs.Filter1[components.Particle]

	expired []ecs.Entity // reused between frames
	count   int
}

// NewECSShard creates an empty ECS-backed shard.
func NewECSShard(capacity int) *ECSShard {
	world := ecs.NewWorld()
	return &ECSShard{
		world:   world,
		mapper:  ecs.NewMap1[components.Particle](world),
		filter:  ecs.NewFilter1[components.Particle](world),
		expired: make([]ecs.Entity, 0, capacity/4+1),
	}
}

// Len returns the current number of live particles.
func (s *ECSShard) Len() int {
	return s.count
}

// Add creates a new particle entity.
func (s *ECSShard) Add(p components.Particle) {
	s.mapper.NewEntity(&p)
	s.count++
}

// Simulate advances every entity and removes the expired ones.
// The world is locked while a query is open, so removal happens after it.
func (s *ECSShard) Simulate(dt float32) int {
	s.expired = s.expired[:0]

	query := s.filter.Query()
	for query.Next() {
		if Advance(query.Get(), dt) {
			s.expired = append(s.expired, query.Entity())
		}
	}

	for _, e := range s.expired {
		s.world.RemoveEntity(e)
	}
	s.count -= len(s.expired)
	return len(s.expired)
}

// Each visits every live particle.
func (s *ECSShard) Each(fn func(p *components.Particle)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}
