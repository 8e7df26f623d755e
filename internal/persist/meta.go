package persist

import (
	"bytes"
	"encoding/gob"
	"os"

	"codelens/internal/errs"
)

// Meta is the cache's validity fingerprint: the codebase root, when the
// cache was built, the embedding model it was built with, and each
// indexed file's modification time. IsValid ported from
// original_source's CacheMetadata::is_valid.
type Meta struct {
	RootPath       string
	CachedAtUnix   int64
	EmbeddingModel string
	EmbeddingDim   int
	FileModTimes   map[string]int64 // relative path -> unix nanoseconds
}

// IsValid reports whether the cache built for m still matches the
// codebase: same root, same embedding model/dimension, and every
// currently-present file has the same mtime as when it was indexed (a
// changed mtime, a removed file, or an unseen new file all invalidate it).
func (m *Meta) IsValid(rootPath, embeddingModel string, embeddingDim int, currentModTimes map[string]int64) bool {
	if m.RootPath != rootPath {
		return false
	}
	if m.EmbeddingModel != embeddingModel || m.EmbeddingDim != embeddingDim {
		return false
	}
	if len(currentModTimes) != len(m.FileModTimes) {
		return false
	}
	for path, mtime := range currentModTimes {
		cached, ok := m.FileModTimes[path]
		if !ok || cached != mtime {
			return false
		}
	}
	return true
}

// SaveMeta gob-encodes m and writes it atomically to path.
func SaveMeta(path string, m *Meta) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return errs.New(errs.KindData, "persist.SaveMeta", path, err)
	}
	return WriteAtomic(path, buf.Bytes())
}

// LoadMeta reads and decodes a Meta from path. A missing file is reported
// as (nil, nil) — an empty cache, not an error.
func LoadMeta(path string) (*Meta, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.New(errs.KindData, "persist.LoadMeta", path, err)
	}
	var m Meta
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return nil, errs.New(errs.KindData, "persist.LoadMeta", path, errs.ErrCacheCorrupt)
	}
	return &m, nil
}
