// Package main runs the fountain headless across shard counts and storage
// backends and writes the frame timings to a CSV.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/schollz/progressbar/v3"

	"github.com/pthm-cable/fountain/config"
)

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	frames := flag.Int("frames", 600, "Measured frames per layout")
	warmup := flag.Int("warmup", 120, "Unmeasured frames before measuring")
	shardList := flag.String("shards", "1,2,4,8", "Comma-separated shard counts")
	storeList := flag.String("stores", "slice,ecs", "Comma-separated storage backends")
	seed := flag.Int64("seed", 42, "RNG seed")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *frames <= 0 || *warmup < 0 {
		log.Fatal("--frames must be positive and --warmup non-negative")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	shards, err := parseInts(*shardList)
	if err != nil {
		log.Fatalf("invalid --shards: %v", err)
	}
	stores := strings.Split(*storeList, ",")

	runs := layouts(shards, stores)
	fmt.Printf("Benchmarking %d layouts, %d frames each (+%d warmup), %d particles max\n",
		len(runs), *frames, *warmup, baseCfg.Particles.Max)

	startTime := time.Now()
	pb := progressbar.Default(int64(len(runs)), "layouts")

	results := make([]Result, 0, len(runs))
	for _, l := range runs {
		r, err := runLayout(baseCfg, l, *frames, *warmup, *seed)
		if err != nil {
			pb.Close()
			log.Fatalf("layout %d shards/%s failed: %v", l.Shards, l.Store, err)
		}
		results = append(results, r)
		pb.Add(1)
	}
	pb.Close()

	resultsPath := filepath.Join(*outputDir, "bench.csv")
	f, err := os.Create(resultsPath)
	if err != nil {
		log.Fatalf("failed to create results file: %v", err)
	}
	if err := gocsv.Marshal(results, f); err != nil {
		f.Close()
		log.Fatalf("failed to write results: %v", err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("failed to close results: %v", err)
	}

	if err := baseCfg.WriteYAML(filepath.Join(*outputDir, "config.yaml")); err != nil {
		log.Printf("failed to write config snapshot: %v", err)
	}

	fmt.Printf("\nBenchmark complete in %s\n", formatDuration(time.Since(startTime)))
	for _, r := range results {
		fmt.Printf("  %2d shards %-5s  mean %7.3fms  p95 %7.3fms  %6.1f ns/particle\n",
			r.Shards, r.Store, r.MeanMS, r.P95MS, r.NsPerParticle)
	}
	fmt.Printf("\nResults saved to: %s\n", resultsPath)
}
