package orchestrator

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"codelens/internal/embed"
	"codelens/internal/errs"
	"codelens/internal/fulltext"
	"codelens/internal/persist"
	"codelens/internal/symbol"
	"codelens/internal/vectorindex"
	"codelens/internal/walker"
)

// fileResult is one file's parse output, gathered by a worker in the
// parse stage and combined into a CodebaseIndex by the caller of
// errgroup.Wait, sequentially, so symbol ordering within the combined
// index is deterministic across runs regardless of goroutine scheduling.
type fileResult struct {
	info    walker.FileInfo
	lang    string
	symbols []symbol.Symbol
}

// IndexCodebase walks cfg.RootPath and, unless the loaded index can be
// served as it is (nothing changed on disk, or opts.AcceptStale), parses
// every recognized file and rebuilds all three indices from scratch;
// opts.ForceRebuild always rebuilds. Individual file parse errors are
// accumulated in the result's Errors list and do not abort the build;
// only a missing root, a walk failure, or a cancelled context does.
func (idx *Indexer) IndexCodebase(ctx context.Context, opts IndexOptions) (*IndexResult, error) {
	if !idx.building.CompareAndSwap(false, true) {
		return nil, errs.New(errs.KindTransient, "orchestrator.IndexCodebase", idx.cfg.RootPath, errs.ErrBuildInProgress)
	}
	defer idx.building.Store(false)

	start := time.Now()
	idx.setState(StateLoading)

	info, err := os.Stat(idx.cfg.RootPath)
	if err != nil || !info.IsDir() {
		idx.setState(StateInvalidated)
		return nil, errs.New(errs.KindFatal, "orchestrator.IndexCodebase", idx.cfg.RootPath, errs.ErrRootNotFound)
	}

	fileCh, walkErrCh := walker.Walk(idx.cfg.RootPath, idx.registry.Extensions())

	var files []walker.FileInfo
	for f := range fileCh {
		files = append(files, f)
	}
	if err := <-walkErrCh; err != nil {
		idx.setState(StateInvalidated)
		return nil, errs.New(errs.KindData, "orchestrator.IndexCodebase", idx.cfg.RootPath, fmt.Errorf("%w: %v", errs.ErrWalkError, err))
	}

	if !opts.ForceRebuild {
		if result := idx.trySkipRebuild(files, opts.AcceptStale, start); result != nil {
			idx.setState(StateReady)
			return result, nil
		}
	}

	results, parseErrors, err := idx.parseFiles(ctx, files)
	if err != nil {
		// Cancellation: drop everything built so far.
		idx.setState(StateEmpty)
		return nil, errs.New(errs.KindFatal, "orchestrator.IndexCodebase", idx.cfg.RootPath, errs.ErrCancelled)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].info.RelPath < results[j].info.RelPath })

	codebase := symbol.NewCodebaseIndex(idx.cfg.RootPath)
	languages := make(map[string]int)
	modTimes := make(map[string]int64, len(results))
	for _, r := range results {
		rec := &symbol.FileRecord{
			Path:     r.info.RelPath,
			Language: r.lang,
			ModTime:  r.info.ModTime,
			Size:     r.info.Size,
		}
		codebase.AddFile(rec, r.symbols)
		if r.lang != "" {
			languages[r.lang]++
		}
		modTimes[r.info.RelPath] = r.info.ModTime
	}

	idx.symbolIdx.Replace(codebase.Symbols)

	ftBatch := fulltext.NewBatch()
	for i, s := range codebase.Symbols {
		ftBatch.Add(fulltext.DocumentFromSymbol(i, s))
	}
	idx.fullText.Commit(ftBatch)

	newVectorIdx, semanticErr := idx.buildVectorIndex(ctx, codebase)
	if semanticErr != nil {
		parseErrors = append(parseErrors, fmt.Sprintf("semantic index disabled: %v", semanticErr))
	}

	now := time.Now()
	idx.mu.Lock()
	idx.codebase = codebase
	if newVectorIdx != nil {
		idx.vectorIdx = newVectorIdx
	}
	idx.languages = languages
	idx.indexedAt = now
	idx.state = StateReady
	idx.mu.Unlock()

	if err := idx.persistCache(codebase, modTimes, now); err != nil {
		idx.log.Error("cache persist failed", "error", err)
		parseErrors = append(parseErrors, fmt.Sprintf("cache persist failed: %v", err))
	}

	langNames := make([]string, 0, len(languages))
	for l := range languages {
		langNames = append(langNames, l)
	}
	sort.Strings(langNames)

	return &IndexResult{
		Success:      true,
		TotalFiles:   len(results),
		TotalSymbols: len(codebase.Symbols),
		Languages:    langNames,
		DurationMs:   time.Since(start).Milliseconds(),
		Errors:       parseErrors,
	}, nil
}

// parseFiles reads and parses each discovered file across a bounded
// worker pool. A single file's read/parse failure is recorded in
// parseErrors and does not abort the batch; only ctx cancellation returns
// a non-nil error.
func (idx *Indexer) parseFiles(ctx context.Context, files []walker.FileInfo) ([]fileResult, []string, error) {
	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, idx.cfg.Workers)

	var mu sync.Mutex
	var results []fileResult
	var parseErrors []string

	for _, fi := range files {
		fi := fi
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			src, err := os.ReadFile(fi.Path)
			if err != nil {
				mu.Lock()
				parseErrors = append(parseErrors, fmt.Sprintf("%s: %v", fi.RelPath, err))
				mu.Unlock()
				return nil
			}
			if !utf8.Valid(src) {
				mu.Lock()
				parseErrors = append(parseErrors, fmt.Sprintf("%s: skipped, invalid UTF-8", fi.RelPath))
				mu.Unlock()
				return nil
			}

			syms, err := idx.parser.Parse(fi.RelPath, src)
			if err != nil {
				mu.Lock()
				parseErrors = append(parseErrors, fmt.Sprintf("%s: %v: %v", fi.RelPath, errs.ErrParseError, err))
				mu.Unlock()
				return nil
			}
			if syms == nil {
				return nil
			}

			lang := idx.registry.LanguageName(fi.RelPath)
			mu.Lock()
			results = append(results, fileResult{info: fi, lang: lang, symbols: syms})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return results, parseErrors, nil
}

// buildVectorIndex embeds a short textual rendering of every symbol in
// batches and returns a freshly populated vector index. It returns (nil,
// err) when no embedder is configured or the backend is unreachable, so
// the caller can keep serving symbol/full-text search while treating the
// semantic path as degraded rather than fatal, per spec's "model-load
// failure disables the semantic path only".
func (idx *Indexer) buildVectorIndex(ctx context.Context, codebase *symbol.CodebaseIndex) (*vectorindex.Index, error) {
	if idx.cfg.Embedder == nil {
		return nil, fmt.Errorf("no embedding generator configured")
	}
	if !idx.cfg.Embedder.Available(ctx) {
		return nil, errs.ErrModelNotLoaded
	}

	texts := make([]string, len(codebase.Symbols))
	for i, s := range codebase.Symbols {
		texts[i] = symbolEmbedText(s)
	}

	newVectorIdx := vectorindex.New(vectorindex.DefaultConfig(idx.cfg.Embedder.Dimension()))
	batchSize := idx.cfg.EmbedBatchSize

	if err := idx.vecStore.DeleteAll(); err != nil {
		return nil, err
	}

	for start := 0; start < len(texts); start += batchSize {
		end := min(start+batchSize, len(texts))
		if end == start {
			continue
		}
		vectors, err := idx.cfg.Embedder.Embed(ctx, texts[start:end])
		if err != nil {
			// A failed batch (e.g. a timed-out request) is retried once.
			vectors, err = idx.cfg.Embedder.Embed(ctx, texts[start:end])
		}
		if err != nil {
			return nil, err
		}
		for i, v := range vectors {
			id := start + i
			if err := newVectorIdx.Add(id, v); err != nil {
				idx.log.Warn("skipping vector", "symbol", codebase.Symbols[id].Name, "error", err)
				continue
			}
			if err := idx.vecStore.Upsert(id, v); err != nil {
				return nil, err
			}
		}
	}

	return newVectorIdx, nil
}

// maxEmbedSignatureChars bounds the signature portion of a symbol's
// embedding text, per the name/kind/doc/signature concatenation the
// teacher's embedding-generator equivalent derives rather than raw source.
const maxEmbedSignatureChars = 200

// symbolEmbedText renders the text actually sent to the embedder: the
// symbol's name, kind, doc comment (if any), and signature, not its raw
// source lines — so an unrelated line inside the chunk's span never
// pollutes the embedded meaning of the symbol it belongs to.
func symbolEmbedText(s symbol.Symbol) string {
	sig := s.Signature
	if len(sig) > maxEmbedSignatureChars {
		sig = sig[:maxEmbedSignatureChars]
	}
	parts := []string{s.Name, s.Kind.String()}
	if s.DocComment != "" {
		parts = append(parts, s.DocComment)
	}
	if sig != "" {
		parts = append(parts, sig)
	}
	return strings.Join(parts, " ")
}

func (idx *Indexer) persistCache(codebase *symbol.CodebaseIndex, modTimes map[string]int64, at time.Time) error {
	dimension := embed.DefaultDimension
	if idx.cfg.Embedder != nil {
		dimension = idx.cfg.Embedder.Dimension()
	}
	meta := &persist.Meta{
		RootPath:       idx.cfg.RootPath,
		CachedAtUnix:   at.Unix(),
		EmbeddingModel: embedderName(idx.cfg.Embedder),
		EmbeddingDim:   dimension,
		FileModTimes:   modTimes,
	}
	if err := persist.SaveMeta(idx.layout.Meta, meta); err != nil {
		return err
	}
	return persist.SaveSymbols(idx.layout.Symbols, codebase.Symbols)
}

func embedderName(g embed.Generator) string {
	if g == nil {
		return ""
	}
	return fmt.Sprintf("dim-%d", g.Dimension())
}
