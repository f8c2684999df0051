package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/freadblangks/WoWee/internal/batch"
	"github.com/freadblangks/WoWee/internal/config"
	"github.com/freadblangks/WoWee/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config.json file")
	testN := flag.Int("test", 0, "Render only first N files for testing")
	match := flag.String("match", "", "Render only files whose path contains this substring")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Path to base directory (default: auto-detect)")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")
	size := flag.Int("size", 0, "Output image size in pixels (default: 256)")
	sequence := flag.Int("seq", 0, "Animation sequence to pose models in (default: 0)")
	poseTime := flag.Float64("time", 0, "Pose time within the sequence, in milliseconds")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		OutputDir: *outputDir,
		Quality:   *quality,
		Workers:   *workers,
		Size:      *size,
	})
	if *sequence > 0 {
		cfg.Sequence = *sequence
	}
	if *poseTime > 0 {
		cfg.PoseTimeMs = *poseTime
	}

	if cfg.BaseDir == "" {
		fmt.Fprintln(os.Stderr, "Error: cannot find Data directory. Use -data flag or config.json.")
		os.Exit(1)
	}

	// Scan the assets tree for model and object files
	jobs := batch.Scan(cfg.AssetsDir)

	// Filter by path substring
	if *match != "" {
		needle := strings.ToLower(*match)
		var filtered []batch.Job
		for _, j := range jobs {
			if strings.Contains(strings.ToLower(j.Rel), needle) {
				filtered = append(filtered, j)
			}
		}
		jobs = filtered
	}

	// Limit for testing
	if *testN > 0 && *testN < len(jobs) {
		jobs = jobs[:*testN]
	}

	if len(jobs) == 0 {
		fmt.Println("No files to render.")
		os.Exit(0)
	}

	// Build texture index
	texIndex := texture.BuildIndex(cfg.AssetsDir)
	texCache := texture.NewCache(texIndex)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	// Print summary
	mode := ""
	if *match != "" {
		mode = fmt.Sprintf(" (match %q)", *match)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}

	fmt.Printf("Model Snapshot Renderer → WebP%s\n", mode)
	fmt.Printf("Files: %d, Workers: %d\n", len(jobs), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	// Run batch
	batchCfg := batch.Config{
		AssetsDir:   cfg.AssetsDir,
		OutputDir:   cfg.OutputDir,
		TexResolver: texCache,
		RenderSize:  cfg.RenderSize,
		WebPQuality: cfg.WebPQuality,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Sequence:    cfg.Sequence,
		PoseTimeMs:  cfg.PoseTimeMs,
	}

	results := batch.Run(batchCfg, jobs)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	// Count results
	success, failed := 0, 0
	var errors []Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(jobs))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  %s: %s\n", e.Rel, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	os.MkdirAll(cfg.OutputDir, 0755)
	if err := batch.WriteManifest(manifestPath, jobs, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

type Result = batch.Result
