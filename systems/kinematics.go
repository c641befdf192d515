package systems

import "github.com/pthm-cable/fountain/components"

// Advance moves p forward by dt seconds and reports whether it expired.
//
// Position is integrated with the velocity from the start of the frame, then
// velocity with the fixed acceleration (semi-implicit Euler). Colour uses the
// life ratio before this frame's countdown.
func Advance(p *components.Particle, dt float32) (expired bool) {
	p.Position.X += p.Velocity.X * dt
	p.Position.Y += p.Velocity.Y * dt

	p.Velocity.X += p.Acceleration.X * dt
	p.Velocity.Y += p.Acceleration.Y * dt

	p.Colour = components.LerpColour(p.EndColour, p.StartColour, p.LifeRatio())

	p.LifeRemaining -= dt

	return p.LifeRemaining <= 0 || p.Position.Y < p.KillY
}
