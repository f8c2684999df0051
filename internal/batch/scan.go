package batch

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Kind says which decoder a job needs.
type Kind int

const (
	KindModel  Kind = iota // skeletal model (.m2)
	KindObject             // world object root (.wmo)
)

// Job is one model file to snapshot.
type Job struct {
	Path string // absolute path
	Rel  string // relative to the assets root, used for output naming
	Kind Kind
}

// Scan walks the assets tree and collects renderable model files. WMO
// group files ("_000.wmo" suffixes) belong to their root and are not
// jobs themselves.
func Scan(root string) []Job {
	var jobs []Job
	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = d.Name()
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".m2":
			jobs = append(jobs, Job{Path: path, Rel: rel, Kind: KindModel})
		case ".wmo":
			if !isGroupFile(path) {
				jobs = append(jobs, Job{Path: path, Rel: rel, Kind: KindObject})
			}
		}
		return nil
	})
	return jobs
}

// isGroupFile reports whether a .wmo path names a numbered group file
// rather than a root ("Fortress_012.wmo" vs "Fortress.wmo").
func isGroupFile(path string) bool {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(stem) < 4 || stem[len(stem)-4] != '_' {
		return false
	}
	for _, c := range stem[len(stem)-3:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
