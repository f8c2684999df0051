package batch

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/freadblangks/WoWee/internal/anim"
	"github.com/freadblangks/WoWee/internal/assets"
	"github.com/freadblangks/WoWee/internal/raster"
	"github.com/freadblangks/WoWee/internal/texture"
)

// Config holds all shared resources for a batch run.
type Config struct {
	AssetsDir   string
	OutputDir   string
	TexResolver texture.Resolver
	RenderSize  int
	WebPQuality int
	Supersample int
	Workers     int
	Sequence    int
	PoseTimeMs  float64
}

// Result holds the outcome of processing one job.
type Result struct {
	Rel     string
	Image   string
	Success bool
	Error   string
}

// Run processes all jobs using a worker pool.
func Run(cfg Config, jobs []Job) []Result {
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f models/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Rel: job.Rel, Image: OutputName(job.Rel)}

	var img *image.NRGBA
	var err error
	switch job.Kind {
	case KindModel:
		img, err = renderModelJob(cfg, job)
	case KindObject:
		img, err = renderObjectJob(cfg, job)
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	if cfg.Supersample > 1 {
		img = raster.Downsample(img, cfg.RenderSize)
	}

	outPath := filepath.Join(cfg.OutputDir, res.Image)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}

	res.Success = true
	return res
}

func renderModelJob(cfg Config, job Job) (*image.NRGBA, error) {
	model, skin, err := assets.LoadModel(job.Path)
	if err != nil {
		return nil, err
	}

	// Pose the model when it can animate; rest pose otherwise.
	var positions []mgl32.Vec3
	if len(model.Bones) > 0 && len(model.Sequences) > 0 {
		state := anim.NewState(model)
		state.SetSequence(cfg.Sequence)
		state.SetTime(cfg.PoseTimeMs)
		world := state.Evaluate()
		positions = anim.NewSkinner(model).Apply(world)
	}

	return raster.RenderModel(model, skin, positions, cfg.TexResolver, cfg.RenderSize, cfg.Supersample), nil
}

func renderObjectJob(cfg Config, job Job) (*image.NRGBA, error) {
	root, groups, err := assets.LoadObject(job.Path)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("batch: %s has no group files", job.Rel)
	}
	return raster.RenderWMO(root, groups, cfg.TexResolver, cfg.RenderSize, cfg.Supersample), nil
}

// OutputName maps a source-relative path to its render path, keeping the
// tree layout so renders mirror the assets.
func OutputName(rel string) string {
	ext := filepath.Ext(rel)
	return filepath.ToSlash(strings.TrimSuffix(rel, ext)) + ".webp"
}
