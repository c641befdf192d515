package systems

import "github.com/pthm-cable/fountain/components"

// Shard is one independently owned partition of the particle population.
// A shard is touched by at most one goroutine at a time.
type Shard interface {
	// Len returns the number of live particles.
	Len() int
	// Add appends a particle. Capacity is enforced by the emitter, not here.
	Add(p components.Particle)
	// Simulate advances every particle by dt and removes the expired ones.
	Simulate(dt float32) (removed int)
	// Each visits every live particle. fn must not add or remove particles.
	Each(fn func(p *components.Particle))
}

// Simulate advances every particle by dt and compacts the survivors to the
// front of the slice. Every particle is visited exactly once; survivor order
// is preserved but callers must not rely on it.
func Simulate(particles []components.Particle, dt float32) []components.Particle {
	alive := 0
	for i := range particles {
		p := &particles[i]
		if Advance(p, dt) {
			continue
		}
		if alive != i {
			particles[alive] = *p
		}
		alive++
	}
	clear(particles[alive:])
	return particles[:alive]
}

// ParticleShard stores its particles contiguously in one slice.
type ParticleShard struct {
	Particles []components.Particle
}

// NewParticleShard creates a shard with room for capacity particles.
func NewParticleShard(capacity int) *ParticleShard {
	return &ParticleShard{
		Particles: make([]components.Particle, 0, capacity),
	}
}

// Len returns the current number of live particles.
func (s *ParticleShard) Len() int {
	return len(s.Particles)
}

// Add appends a particle.
func (s *ParticleShard) Add(p components.Particle) {
	s.Particles = append(s.Particles, p)
}

// Simulate processes all particles and drops the expired ones.
func (s *ParticleShard) Simulate(dt float32) int {
	before := len(s.Particles)
	s.Particles = Simulate(s.Particles, dt)
	return before - len(s.Particles)
}

// Each visits every live particle.
func (s *ParticleShard) Each(fn func(p *components.Particle)) {
	for i := range s.Particles {
		fn(&s.Particles[i])
	}
}
