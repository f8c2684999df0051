package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings. The assets
// tree is an extracted client archive: model files next to their
// companion skin/anim files, textures converted to common rasters.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir"`
	AssetsDir string `json:"assets_dir"`
	OutputDir string `json:"output_dir"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	WebPQuality int     `json:"webp_quality"`
	Workers     int     `json:"workers"`
	Sequence    int     `json:"sequence"`
	PoseTimeMs  float64 `json:"pose_time_ms"`

	// Viewer server
	ListenAddr string `json:"listen_addr"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Resolve fills in any empty fields with auto-detected defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	if flags.DataDir != "" {
		c.BaseDir = flags.DataDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.RenderSize = flags.Size
	}
	if flags.ListenAddr != "" {
		c.ListenAddr = flags.ListenAddr
	}

	if c.BaseDir == "" {
		c.BaseDir = detectBaseDir()
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		if c.AssetsDir == "" {
			c.AssetsDir = filepath.Join(c.BaseDir, "Data")
		} else if !filepath.IsAbs(c.AssetsDir) {
			c.AssetsDir = filepath.Join(c.BaseDir, c.AssetsDir)
		}

		if c.OutputDir == "" {
			c.OutputDir = filepath.Join(c.BaseDir, "renders")
		} else if !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
	}

	// Defaults for render settings
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir    string
	OutputDir  string
	Quality    int
	Workers    int
	Size       int
	ListenAddr string
}

func detectBaseDir() string {
	// Try relative to executable
	exe, _ := os.Executable()
	if exe != "" {
		dir := filepath.Dir(exe)
		for _, base := range []string{dir, filepath.Dir(dir), filepath.Join(dir, "..", "..")} {
			if hasAssets(base) {
				return base
			}
		}
	}

	// Try current working directory, then its parent
	cwd, _ := os.Getwd()
	if hasAssets(cwd) {
		return cwd
	}
	if parent := filepath.Dir(cwd); hasAssets(parent) {
		return parent
	}

	return ""
}

func hasAssets(base string) bool {
	info, err := os.Stat(filepath.Join(base, "Data"))
	return err == nil && info.IsDir()
}
