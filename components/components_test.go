package components

import "testing"

func TestLerpEndpoints(t *testing.T) {
	if got := Lerp(2, 10, 0); got != 2 {
		t.Errorf("Lerp at t=0: expected 2, got %f", got)
	}
	if got := Lerp(2, 10, 1); got != 10 {
		t.Errorf("Lerp at t=1: expected 10, got %f", got)
	}
	if got := Lerp(2, 10, 0.5); got != 6 {
		t.Errorf("Lerp at t=0.5: expected 6, got %f", got)
	}
}

func TestParticleAlive(t *testing.T) {
	tests := []struct {
		name  string
		life  float32
		y     float32
		alive bool
	}{
		{"fresh", 1, 0, true},
		{"on kill line", 1, -10, true},
		{"below kill line", 1, -10.5, false},
		{"no life", 0, 0, false},
		{"negative life", -0.01, 0, false},
	}

	for _, tc := range tests {
		p := Particle{LifeTime: 1, LifeRemaining: tc.life, KillY: -10, Position: Vec2{Y: tc.y}}
		if got := p.Alive(); got != tc.alive {
			t.Errorf("%s: expected alive=%v, got %v", tc.name, tc.alive, got)
		}
	}
}

func TestKindString(t *testing.T) {
	names := map[Kind]string{KindA: "A", KindB: "B", KindC: "C", Kind(9): "unknown"}
	for k, want := range names {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
