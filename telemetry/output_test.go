package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/fountain/config"
)

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v, %v", om, err)
	}
	// nil manager is safe to use
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Error(err)
	}
	if om.Path("Frame Times.csv") != "Frame Times.csv" {
		t.Error("expected Path to pass through when disabled")
	}
	if err := om.Close(); err != nil {
		t.Error(err)
	}
}

func TestOutputManagerWritesPerfAndConfig(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	stats := PerfStats{AvgFrameDuration: time.Millisecond, PhasePct: map[string]float64{}}
	for _, end := range []int64{120, 240} {
		if err := om.WritePerf(stats, end); err != nil {
			t.Fatal(err)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,avg_frame_us") {
		t.Errorf("unexpected header %q", lines[0])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config.yaml: %v", err)
	}
	if got := om.Path("Frame Times.csv"); got != filepath.Join(dir, "Frame Times.csv") {
		t.Errorf("unexpected path %q", got)
	}
}
