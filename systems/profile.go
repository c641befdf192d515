package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/fountain/components"
)

// ErrInvalidRange is returned when a sampling range has Max < Min.
var ErrInvalidRange = errors.New("invalid random range")

// Range is an inclusive [Min, Max] interval sampled uniformly.
// Min == Max yields the constant.
type Range struct {
	Min, Max float32
}

// Fixed returns a degenerate range that always samples v.
func Fixed(v float32) Range {
	return Range{Min: v, Max: v}
}

// Sample draws a uniform value from the range.
func (r Range) Sample(rng *rand.Rand) float32 {
	if r.Max == r.Min {
		return r.Min
	}
	v := r.Min + rng.Float32()*(r.Max-r.Min)
	if v > r.Max {
		v = r.Max // rounding
	}
	return v
}

// Validate checks Max >= Min.
func (r Range) Validate() error {
	if r.Max < r.Min {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

// Profile is the constant parameter table of one emission kind.
type Profile struct {
	Kind components.Kind

	PosX, PosY Range
	VelX, VelY Range
	Accel      components.Vec2
	Life       Range
	KillY      float32

	Start, End components.Colour
}

// Validate checks every range of the profile. Life must be strictly positive.
func (p *Profile) Validate() error {
	ranges := []struct {
		name string
		r    Range
	}{
		{"pos_x", p.PosX}, {"pos_y", p.PosY},
		{"vel_x", p.VelX}, {"vel_y", p.VelY},
		{"life", p.Life},
	}
	for _, nr := range ranges {
		if err := nr.r.Validate(); err != nil {
			return fmt.Errorf("profile %s %s: %w", p.Kind, nr.name, err)
		}
	}
	if p.Life.Min <= 0 {
		return fmt.Errorf("profile %s life: %w: lifetime must be positive, got min %v", p.Kind, ErrInvalidRange, p.Life.Min)
	}
	return nil
}

// Spawn builds a freshly sampled particle of this profile.
func (p *Profile) Spawn(rng *rand.Rand) components.Particle {
	life := p.Life.Sample(rng)
	pos := components.Vec2{X: p.PosX.Sample(rng), Y: p.PosY.Sample(rng)}
	vel := components.Vec2{X: p.VelX.Sample(rng), Y: p.VelY.Sample(rng)}

	return components.Particle{
		Position:      pos,
		Velocity:      vel,
		Acceleration:  p.Accel,
		LifeTime:      life,
		LifeRemaining: life,
		KillY:         p.KillY,
		Colour:        p.Start,
		StartColour:   p.Start,
		EndColour:     p.End,
		Kind:          p.Kind,
	}
}

// Profiles is the closed set of emission profiles, indexed by Kind.
type Profiles [components.NumKinds]Profile

// Validate checks all profiles.
func (ps *Profiles) Validate() error {
	for i := range ps {
		if err := ps[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultProfiles returns the three emitters laid out for a w×h screen.
// Screen origin is at the centre with +y up.
func DefaultProfiles(w, h float32) Profiles {
	halfW, halfH := w/2, h/2
	return Profiles{
		components.KindA: {
			// left hand side of screen, arcing up and right
			Kind:  components.KindA,
			PosX:  Range{Min: -halfW, Max: -halfW + 200},
			PosY:  Range{Min: -halfH, Max: -halfH + 100},
			VelX:  Range{Min: cosDeg(89) * 200, Max: cosDeg(75) * 200},
			VelY:  Range{Min: sinDeg(75) * 200, Max: sinDeg(89) * 200},
			Accel: components.Vec2{X: 2.0, Y: -26.5},
			Life:  Range{Min: 7.5, Max: 13.0},
			KillY: -halfH,
			Start: components.Colour{R: 1.0, G: 0.2, B: 0.2, A: 1.0}, // red
			End:   components.Colour{R: 0.2, G: 1.0, B: 1.0, A: 1.0}, // inverse red
		},
		components.KindB: {
			// top middle, drifting down and left
			Kind:  components.KindB,
			PosX:  Range{Min: 0, Max: w / 3},
			PosY:  Fixed(halfH),
			VelX:  Fixed(-50),
			VelY:  Range{Min: -100, Max: -60},
			Life:  Range{Min: 9.0, Max: 10.0},
			KillY: -halfH + 50,
			Start: components.Colour{R: 0.2, G: 1.0, B: 0.2, A: 1.0}, // green
			End:   components.Colour{R: 1.0, G: 0.2, B: 1.0, A: 1.0}, // inverse green
		},
		components.KindC: {
			// right hand side, a point burst in every direction
			Kind:  components.KindC,
			PosX:  Fixed(halfW - 300),
			PosY:  Fixed(-halfH + 400),
			VelX:  Range{Min: -50, Max: 50},
			VelY:  Range{Min: -50, Max: 50},
			Life:  Range{Min: 3.5, Max: 6.0},
			KillY: -halfH + 15,
			Start: components.Colour{R: 0.2, G: 0.2, B: 1.0, A: 1.0}, // blue
			End:   components.Colour{R: 1.0, G: 1.0, B: 0.2, A: 1.0}, // inverse blue
		},
	}
}

func cosDeg(deg float64) float32 {
	return float32(math.Cos(deg * math.Pi / 180))
}

func sinDeg(deg float64) float32 {
	return float32(math.Sin(deg * math.Pi / 180))
}
