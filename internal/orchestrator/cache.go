package orchestrator

import (
	"fmt"
	"sort"
	"time"

	"codelens/internal/embed"
	"codelens/internal/fulltext"
	"codelens/internal/persist"
	"codelens/internal/symbol"
	"codelens/internal/vectorindex"
	"codelens/internal/walker"
)

// tryLoadCache restores a previous build from disk if its meta fingerprint
// still matches the codebase's current file mtimes. A missing cache
// returns nil and a stale one returns an error saying so; either way the
// Indexer stays in StateEmpty.
func (idx *Indexer) tryLoadCache(dimension int) error {
	meta, err := persist.LoadMeta(idx.layout.Meta)
	if err != nil || meta == nil {
		return err
	}

	fileCh, walkErrCh := walker.Walk(idx.cfg.RootPath, idx.registry.Extensions())
	current := make(map[string]int64)
	for f := range fileCh {
		current[f.RelPath] = f.ModTime
	}
	if err := <-walkErrCh; err != nil {
		return err
	}

	embeddingModel := embedderName(idx.cfg.Embedder)
	if !meta.IsValid(idx.cfg.RootPath, embeddingModel, dimension, current) {
		return fmt.Errorf("cache stale for %s", idx.cfg.RootPath)
	}

	symbols, err := persist.LoadSymbols(idx.layout.Symbols)
	if err != nil || symbols == nil {
		return err
	}

	// Symbols are reattached to the CodebaseIndex without going through
	// AddFile: the persisted slice's order is exactly the order vector IDs
	// (positional indices into this same slice) were assigned on the build
	// that wrote it, and symbols from the same file are always contiguous
	// in that order, so grouping them back into FileRecords by scanning
	// runs of equal FilePath preserves the id<->vector correspondence that
	// rebuilding through a map (unordered iteration) would silently break.
	codebase := symbol.NewCodebaseIndex(idx.cfg.RootPath)
	codebase.Symbols = symbols
	for i := 0; i < len(symbols); {
		path := symbols[i].FilePath
		j := i
		for j < len(symbols) && symbols[j].FilePath == path {
			j++
		}
		ids := make([]int, 0, j-i)
		for k := i; k < j; k++ {
			ids = append(ids, k)
		}
		codebase.Files[path] = &symbol.FileRecord{Path: path, Language: symbols[i].Language, ModTime: current[path], SymbolIDs: ids}
		i = j
	}

	idx.symbolIdx.Replace(codebase.Symbols)

	ftBatch := fulltext.NewBatch()
	for i, s := range codebase.Symbols {
		ftBatch.Add(fulltext.DocumentFromSymbol(i, s))
	}
	idx.fullText.Commit(ftBatch)

	vectors, err := idx.vecStore.LoadAll()
	if err == nil && len(vectors) > 0 {
		vecIdx := vectorindex.New(vectorindex.DefaultConfig(dimension))
		for _, v := range vectors {
			_ = vecIdx.Add(v.SymbolID, v.Vector)
		}
		idx.vectorIdx = vecIdx
	}

	idx.mu.Lock()
	idx.codebase = codebase
	idx.languages = countLanguages(codebase)
	idx.state = StateReady
	idx.mu.Unlock()

	return nil
}

// countLanguages tallies files (not symbols) per language, matching
// get_index_stats' {lang -> file count} contract.
func countLanguages(codebase *symbol.CodebaseIndex) map[string]int {
	counts := make(map[string]int)
	for _, rec := range codebase.Files {
		if rec.Language != "" {
			counts[rec.Language]++
		}
	}
	return counts
}

// trySkipRebuild implements the accept-stale and full-rebuild cache
// policies: it returns a non-nil IndexResult when the currently loaded
// codebase can be served as-is (either because nothing on disk changed,
// or because the caller opted to accept a stale cache), letting
// IndexCodebase skip the walk-parse-reindex pass entirely. It returns nil
// when there is no usable cache yet, or the cache is stale and the caller
// did not opt into AcceptStale, so the caller must rebuild from scratch.
func (idx *Indexer) trySkipRebuild(files []walker.FileInfo, acceptStale bool, start time.Time) *IndexResult {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.codebase == nil || len(idx.codebase.Files) == 0 {
		return nil
	}

	changed := staleFiles(idx.codebase, files)
	if len(changed) == 0 {
		return idx.snapshotResultLocked(start)
	}
	if !acceptStale {
		return nil
	}

	idx.log.Warn("serving stale cache without rebuild", "changed_files", len(changed))
	return idx.snapshotResultLocked(start)
}

// staleFiles reports which tracked files' mtimes no longer match what was
// recorded at the last build, plus any file that is newly present or has
// disappeared since — any of those marks the cache stale per spec's "if
// any mismatch or any tracked file is missing".
func staleFiles(codebase *symbol.CodebaseIndex, files []walker.FileInfo) []string {
	current := make(map[string]int64, len(files))
	for _, f := range files {
		current[f.RelPath] = f.ModTime
	}

	var changed []string
	for path, rec := range codebase.Files {
		mtime, ok := current[path]
		if !ok || mtime != rec.ModTime {
			changed = append(changed, path)
		}
	}
	for path := range current {
		if _, ok := codebase.Files[path]; !ok {
			changed = append(changed, path)
		}
	}
	return changed
}

// snapshotResultLocked builds an IndexResult from the Indexer's current
// in-memory state without touching any index. Callers must hold idx.mu.
func (idx *Indexer) snapshotResultLocked(start time.Time) *IndexResult {
	langNames := make([]string, 0, len(idx.languages))
	for l := range idx.languages {
		langNames = append(langNames, l)
	}
	sort.Strings(langNames)

	return &IndexResult{
		Success:      true,
		TotalFiles:   len(idx.codebase.Files),
		TotalSymbols: len(idx.codebase.Symbols),
		Languages:    langNames,
		DurationMs:   time.Since(start).Milliseconds(),
	}
}
