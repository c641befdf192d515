package telemetry

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Millis is a duration in milliseconds, written with two decimals.
type Millis float64

// MarshalCSV implements gocsv.TypeMarshaller.
func (m Millis) MarshalCSV() (string, error) {
	return fmt.Sprintf("%.2f", float64(m)), nil
}

// FrameTime is one row of the frame-time log.
type FrameTime struct {
	Frame int    `csv:"frame"`
	Time  Millis `csv:"time(ms)"`
}

// FrameSummary holds statistics over the recorded frames, in milliseconds.
type FrameSummary struct {
	Frames int
	Mean   float64
	Min    float64
	Max    float64
	StdDev float64
	P95    float64
}

// LogValue implements slog.LogValuer.
func (s FrameSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frames", s.Frames),
		slog.Float64("mean_ms", s.Mean),
		slog.Float64("min_ms", s.Min),
		slog.Float64("max_ms", s.Max),
		slog.Float64("stddev_ms", s.StdDev),
		slog.Float64("p95_ms", s.P95),
	)
}

// FrameRecorder collects the first N frame durations and writes them once.
type FrameRecorder struct {
	path    string
	limit   int
	times   []FrameTime
	start   time.Time
	written bool
}

// NewFrameRecorder records up to samples frames into a CSV at path.
func NewFrameRecorder(path string, samples int) *FrameRecorder {
	if samples < 1 {
		samples = 100
	}
	return &FrameRecorder{
		path:  path,
		limit: samples,
		times: make([]FrameTime, 0, samples),
	}
}

// Start begins timing a frame.
func (r *FrameRecorder) Start() {
	r.start = time.Now()
}

// Stop ends timing the current frame and records it.
func (r *FrameRecorder) Stop() {
	r.Record(time.Since(r.start))
}

// Record adds a frame duration. Samples past the limit are ignored.
func (r *FrameRecorder) Record(d time.Duration) {
	if len(r.times) >= r.limit {
		return
	}
	r.times = append(r.times, FrameTime{
		Frame: len(r.times),
		Time:  Millis(float64(d) / float64(time.Millisecond)),
	})
}

// Complete reports whether every sample has been collected.
func (r *FrameRecorder) Complete() bool {
	return len(r.times) == r.limit
}

// Written reports whether the log has been written.
func (r *FrameRecorder) Written() bool {
	return r.written
}

// Summary computes statistics over the samples collected so far.
func (r *FrameRecorder) Summary() FrameSummary {
	if len(r.times) == 0 {
		return FrameSummary{}
	}

	ms := make([]float64, len(r.times))
	for i, ft := range r.times {
		ms[i] = float64(ft.Time)
	}
	mean, std := stat.MeanStdDev(ms, nil)
	if len(ms) < 2 {
		std = 0
	}

	sorted := slices.Clone(ms)
	slices.Sort(sorted)

	return FrameSummary{
		Frames: len(ms),
		Mean:   mean,
		Min:    floats.Min(ms),
		Max:    floats.Max(ms),
		StdDev: std,
		P95:    stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
}

// Flush writes the log once all samples are in. It is a no-op before that
// and after the first successful write. Failures are logged, not returned.
func (r *FrameRecorder) Flush() {
	if r.written || !r.Complete() {
		return
	}

	if err := r.write(); err != nil {
		slog.Error("frame_times_write_failed", "path", r.path, "error", err)
		r.written = true
		return
	}
	r.written = true

	slog.Info("frame_times_written", "path", r.path, "summary", r.Summary())
}

func (r *FrameRecorder) write() error {
	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", r.path, err)
	}
	defer f.Close()

	if err := gocsv.Marshal(r.times, f); err != nil {
		return fmt.Errorf("writing frame times: %w", err)
	}
	return f.Close()
}
