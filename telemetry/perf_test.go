package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSimulate)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseRender)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame(1000)
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}

	if _, ok := stats.PhaseAvg[PhaseSimulate]; !ok {
		t.Error("expected simulate phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseRender]; !ok {
		t.Error("expected render phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSimulate)
		pc.EndFrame(i)
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration after window filled")
	}

	if stats.FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}

	// only the last five frames (5..9) remain in the window
	if stats.AvgParticles != 7 {
		t.Errorf("expected average of 7 particles over the window, got %v", stats.AvgParticles)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndFrame(0)
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_NsPerParticle(t *testing.T) {
	pc := NewPerfCollector(4)

	for i := 0; i < 4; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSimulate)
		time.Sleep(time.Millisecond)
		pc.EndFrame(100)
	}

	stats := pc.Stats()

	// at least 1ms over 100 particles
	if stats.NsPerParticle < 10_000 {
		t.Errorf("expected >= 10000 ns per particle, got %v", stats.NsPerParticle)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}

	if stats.NsPerParticle != 0 {
		t.Error("expected zero ns per particle for empty collector")
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgFrameDuration: 2 * time.Millisecond,
		PhasePct:         map[string]float64{PhaseSimulate: 60, PhaseRender: 35},
		AvgParticles:     400,
	}

	row := stats.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgFrameUS != 2000 {
		t.Errorf("unexpected row %+v", row)
	}
	if row.SimulatePct != 60 || row.RenderPct != 35 || row.Particles != 400 {
		t.Errorf("unexpected phase columns %+v", row)
	}
}
