// Package persist implements the on-disk cache layout, validation, and
// atomic-write discipline the pipeline orchestrator uses to skip re-parsing
// an unchanged codebase across restarts. Layout and validation policy are
// ported from original_source's PersistenceConfig/CacheMetadata; the vector
// codec is carried from the teacher's internal/store (SQLite +
// asg017/sqlite-vec-go-bindings); meta and symbol snapshots use gob, the
// stdlib's own self-describing binary codec, in place of the original's
// bincode (see DESIGN.md for why no third-party codec was substituted).
package persist

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
)

// Layout is the set of on-disk artifacts for one indexed codebase.
type Layout struct {
	Dir      string
	Meta     string
	Symbols  string
	FullText string
	Vectors  string
}

// HashPath deterministically derives the cache directory name for a
// codebase root, mirroring original_source's hash_path (a stable hash of
// the absolute path, not the path itself, so cache directories don't leak
// the user's filesystem layout into their names).
func HashPath(rootPath string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(rootPath))
	return fmt.Sprintf("%016x", h.Sum64())
}

// LayoutFor returns the cache Layout for rootPath under appDataDir, e.g.
// "<appDataDir>/indexes/<hash>/".
func LayoutFor(appDataDir, rootPath string) Layout {
	dir := filepath.Join(appDataDir, "indexes", HashPath(rootPath))
	return Layout{
		Dir:      dir,
		Meta:     filepath.Join(dir, "meta.bin"),
		Symbols:  filepath.Join(dir, "symbols.bin"),
		FullText: filepath.Join(dir, "fulltext"),
		Vectors:  filepath.Join(dir, "vectors.bin"),
	}
}

// EnsureDir creates the cache directory (and its fulltext subdirectory) if
// missing.
func (l Layout) EnsureDir() error {
	if err := os.MkdirAll(l.Dir, 0o755); err != nil {
		return err
	}
	return os.MkdirAll(l.FullText, 0o755)
}

// WriteAtomic writes data to path by first writing to a sibling temp file
// in the same directory, then renaming it into place, so a crash mid-write
// never leaves a half-written artifact for the next load to trip over.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
