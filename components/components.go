// Package components defines the particle value types shared by the
// simulation, the storage backends and the renderers.
package components

// Vec2 is a 2D vector in screen space (origin at centre, +y up).
type Vec2 struct {
	X, Y float32
}

// Colour is an RGBA colour with channels in [0, 1].
type Colour struct {
	R, G, B, A float32
}

// Lerp returns a linear interpolation between v0 (t=0) and v1 (t=1).
func Lerp(v0, v1, t float32) float32 {
	return (1-t)*v0 + t*v1
}

// LerpColour interpolates every channel between c0 and c1.
func LerpColour(c0, c1 Colour, t float32) Colour {
	return Colour{
		R: Lerp(c0.R, c1.R, t),
		G: Lerp(c0.G, c1.G, t),
		B: Lerp(c0.B, c1.B, t),
		A: Lerp(c0.A, c1.A, t),
	}
}

// Kind identifies the emission profile a particle was created from.
type Kind uint8

const (
	KindA Kind = iota // left emitter
	KindB             // top-middle emitter
	KindC             // right emitter
)

// NumKinds is the number of emission profiles.
const NumKinds = 3

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindA:
		return "A"
	case KindB:
		return "B"
	case KindC:
		return "C"
	default:
		return "unknown"
	}
}

// Particle holds the kinematic and lifetime state of one particle.
// Colour is derived from the life ratio every update and never set directly.
type Particle struct {
	Position     Vec2
	Velocity     Vec2
	Acceleration Vec2 // fixed per kind

	LifeTime      float32 // total lifespan in seconds, > 0
	LifeRemaining float32 // counts down to 0
	KillY         float32 // fixed per kind; expired once Position.Y < KillY

	Colour      Colour
	StartColour Colour
	EndColour   Colour

	Kind Kind
}

// Alive reports whether the particle still has life left and is above its kill line.
func (p *Particle) Alive() bool {
	return p.LifeRemaining > 0 && p.Position.Y >= p.KillY
}

// LifeRatio returns LifeRemaining / LifeTime.
func (p *Particle) LifeRatio() float32 {
	return p.LifeRemaining / p.LifeTime
}
