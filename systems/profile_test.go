package systems

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/pthm-cable/fountain/components"
)

func TestDefaultProfilesValid(t *testing.T) {
	profiles := DefaultProfiles(1280, 720)
	if err := profiles.Validate(); err != nil {
		t.Fatalf("default profiles invalid: %v", err)
	}
	for i := range profiles {
		if profiles[i].Kind != components.Kind(i) {
			t.Errorf("profile %d has kind %s", i, profiles[i].Kind)
		}
	}
}

func TestRangeValidate(t *testing.T) {
	if err := (Range{Min: 2, Max: 1}).Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
	if err := Fixed(3).Validate(); err != nil {
		t.Errorf("fixed range should be valid, got %v", err)
	}
}

func TestProfileValidateRejectsNonPositiveLife(t *testing.T) {
	profiles := DefaultProfiles(1280, 720)
	profiles[components.KindB].Life = Range{Min: 0, Max: 1}
	if err := profiles.Validate(); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange for zero lifetime, got %v", err)
	}
}

func TestSpawnWithinRanges(t *testing.T) {
	profiles := DefaultProfiles(1280, 720)
	rng := rand.New(rand.NewSource(7))

	in := func(v float32, r Range) bool { return v >= r.Min && v <= r.Max }

	for k := range profiles {
		prof := &profiles[k]
		for i := 0; i < 200; i++ {
			p := prof.Spawn(rng)
			if !in(p.Position.X, prof.PosX) || !in(p.Position.Y, prof.PosY) {
				t.Fatalf("kind %s: position %+v outside ranges", prof.Kind, p.Position)
			}
			if !in(p.Velocity.X, prof.VelX) || !in(p.Velocity.Y, prof.VelY) {
				t.Fatalf("kind %s: velocity %+v outside ranges", prof.Kind, p.Velocity)
			}
			if !in(p.LifeTime, prof.Life) || p.LifeRemaining != p.LifeTime {
				t.Fatalf("kind %s: bad lifetime %f/%f", prof.Kind, p.LifeRemaining, p.LifeTime)
			}
			if p.Acceleration != prof.Accel {
				t.Fatalf("kind %s: acceleration %+v, want %+v", prof.Kind, p.Acceleration, prof.Accel)
			}
			if !p.Alive() {
				t.Fatalf("kind %s: freshly spawned particle is not alive", prof.Kind)
			}
		}
	}
}

func TestProfileALaunchesUpward(t *testing.T) {
	prof := DefaultProfiles(1280, 720)[components.KindA]
	// 75..89 degrees at speed 200
	if prof.VelY.Min < 190 || prof.VelY.Max > 200 {
		t.Errorf("unexpected vertical launch range [%f, %f]", prof.VelY.Min, prof.VelY.Max)
	}
	if prof.VelX.Min < 0 || prof.VelX.Max > 60 {
		t.Errorf("unexpected horizontal launch range [%f, %f]", prof.VelX.Min, prof.VelX.Max)
	}
}
