package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one rendered model in the output manifest.
type ManifestEntry struct {
	Source  string `json:"source"`
	Kind    string `json:"kind"`
	Image   string `json:"image"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// WriteManifest writes manifest.json to the output directory, pairing
// each job with its result.
func WriteManifest(path string, jobs []Job, results []Result) error {
	entries := make([]ManifestEntry, len(jobs))
	for i, job := range jobs {
		kind := "m2"
		if job.Kind == KindObject {
			kind = "wmo"
		}
		entries[i] = ManifestEntry{
			Source:  job.Rel,
			Kind:    kind,
			Image:   results[i].Image,
			Success: results[i].Success,
			Error:   results[i].Error,
		}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
