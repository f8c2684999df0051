package texture

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Index maps lowercase texture stems to filesystem paths. Model files
// reference textures by client path with a .blp extension; extraction
// tools convert those to PNG, TGA, or JPEG rasters scattered through the
// assets tree, so lookup goes by stem alone. PNG wins over TGA wins over
// JPEG for the same stem (alpha fidelity).
type Index struct {
	entries map[string]string // stem → full path
}

var extRank = map[string]int{
	".jpg":  1,
	".jpeg": 1,
	".tga":  2,
	".png":  3,
}

// BuildIndex walks the assets tree once and records every convertible
// raster. Unreadable directories are skipped.
func BuildIndex(root string) *Index {
	idx := &Index{entries: make(map[string]string)}

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		rank, ok := extRank[ext]
		if !ok {
			return nil
		}
		stem := pathStem(filepath.Base(path))

		existing, exists := idx.entries[stem]
		if !exists || rank > extRank[strings.ToLower(filepath.Ext(existing))] {
			idx.entries[stem] = path
		}
		return nil
	})

	return idx
}

// ResolvePath returns the filesystem path for a client texture reference
// like "Creature\\Wolf\\WolfSkin.blp", or ("", false).
func (idx *Index) ResolvePath(texName string) (string, bool) {
	texName = strings.ReplaceAll(texName, "\\", "/")
	path, ok := idx.entries[pathStem(filepath.Base(texName))]
	return path, ok
}

// pathStem lowercases a file name and strips its extension, plus the
// leftover ".blp" that converters leave in names like "WolfSkin.blp.png".
func pathStem(base string) string {
	stem := strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
	return strings.TrimSuffix(stem, ".blp")
}

// Len returns the number of indexed textures.
func (idx *Index) Len() int {
	return len(idx.entries)
}
