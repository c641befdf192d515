package main

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/fountain/batch"
	"github.com/pthm-cable/fountain/config"
	"github.com/pthm-cable/fountain/game"
	"github.com/pthm-cable/fountain/renderer"
	"github.com/pthm-cable/fountain/terminal"
)

func main() {
	os.Exit(run())
}

func run() int {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	useTerminal := flag.Bool("terminal", false, "Render into the terminal instead of a window")
	logStats := flag.Bool("log-stats", false, "Output perf stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	logFile := flag.String("log-file", "", "Log destination in terminal mode (empty = discard)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")
	shards := flag.Int("shards", 0, "Number of shards (0 = use config)")
	store := flag.String("store", "", "Shard storage: slice or ecs (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	var logOut io.Writer = os.Stdout
	if *useTerminal {
		// the screen owns stdout
		logOut = io.Discard
		if *logFile != "" {
			f, err := os.Create(*logFile)
			if err != nil {
				slog.Error("failed to open log file", "error", err)
				return 1
			}
			defer f.Close()
			logOut = f
		}
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(logOut, nil)))

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	cfg := config.Cfg()

	if *shards > 0 {
		cfg.Particles.Shards = *shards
	}
	if *store != "" {
		cfg.Particles.Store = *store
	}
	if err := cfg.Finalize(); err != nil {
		slog.Error("invalid config", "error", err)
		return 1
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	var (
		host    game.Host
		sink    batch.Sink
		cleanup func()
	)

	switch {
	case *headless:
		h := game.NewHeadless(cfg.Derived.HeadlessDT, *maxFrames, game.StderrIsTerminal())
		host, sink, cleanup = h, batch.Discard, h.Close

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"max_frames", *maxFrames,
			"dt", cfg.Derived.HeadlessDT,
		)

	case *useTerminal:
		s, err := terminal.New(cfg)
		if err != nil {
			slog.Error("failed to open terminal", "error", err)
			return 1
		}
		host, sink, cleanup = s, s, s.Close

	default:
		w := renderer.NewWindow(cfg)
		host, sink, cleanup = w, w.Sink(), w.Close
	}
	defer cleanup()

	if *maxFrames > 0 && !*headless {
		host = &frameCap{Host: host, max: *maxFrames}
	}

	g, err := game.NewGame(cfg, opts, sink)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		return 1
	}
	defer g.Unload()

	if err := g.Run(host); err != nil {
		slog.Error("frame host failed", "error", err, "frame", g.FrameCount())
		return 1
	}
	return 0
}

// frameCap stops an interactive host after a fixed number of frames.
type frameCap struct {
	game.Host
	max, frames int
}

func (f *frameCap) ProcessEvents() bool {
	if f.frames >= f.max {
		slog.Info("max frames reached", "frames", f.frames)
		return false
	}
	f.frames++
	return f.Host.ProcessEvents()
}
