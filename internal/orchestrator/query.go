package orchestrator

import (
	"context"
	"sort"
	"strings"

	"codelens/internal/errs"
	"codelens/internal/fulltext"
	"codelens/internal/hybrid"
	"codelens/internal/queryanalyzer"
	"codelens/internal/score"
	"codelens/internal/symbol"
	"codelens/internal/symbolindex"
)

// QueryIndex dispatches a structured query through the query analyzer to
// pick index weights, runs it against whichever of the three indices
// those weights call for, and fuses the results with Reciprocal Rank
// Fusion. hybridOverride, if non-nil, replaces the analyzer's weight
// choice entirely.
func (idx *Indexer) QueryIndex(ctx context.Context, q symbol.Query, hybridOverride *hybrid.Weights) ([]hybrid.Result, error) {
	if err := idx.requireReady(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(q.Raw) == "" {
		return nil, errs.New(errs.KindInput, "orchestrator.QueryIndex", "", errs.ErrInvalidQuery)
	}

	weights := hybrid.DefaultWeights()
	if hybridOverride != nil {
		weights = *hybridOverride
	} else {
		weights = queryanalyzer.WeightsFor(queryanalyzer.Analyze(q.Raw))
	}
	if q.Limit > 0 {
		weights.MaxResults = q.Limit
	}

	limit := weights.MaxResults
	if limit <= 0 {
		limit = 50
	}

	symbolList := symbolsFromMatches(idx.symbolIdx.Search(q.Raw, q.Kind, limit))
	fullTextList := symbolsFromFullText(idx.fullText.Search(q.Raw, limit))
	semanticList := idx.semanticRanked(ctx, q.Raw, limit)

	lists := []hybrid.RankedList{symbolList, fullTextList, semanticList}
	weightValues := []float64{weights.Symbol, weights.FullText, weights.Semantic}

	return hybrid.Fuse(lists, weightValues, weights), nil
}

// SearchSemantic runs the vector-index-only path directly, bypassing RRF
// fusion, for callers that specifically want embedding similarity.
func (idx *Indexer) SearchSemantic(ctx context.Context, query string, max int) ([]hybrid.Result, error) {
	if err := idx.requireReady(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		return nil, errs.New(errs.KindInput, "orchestrator.SearchSemantic", "", errs.ErrInvalidQuery)
	}
	if max <= 0 {
		max = 50
	}

	idx.mu.RLock()
	embedder := idx.cfg.Embedder
	vecIdx := idx.vectorIdx
	symbols := idx.codebase.Symbols
	idx.mu.RUnlock()

	if embedder == nil {
		return nil, errs.New(errs.KindTransient, "orchestrator.SearchSemantic", "", errs.ErrModelNotLoaded)
	}

	vectors, err := embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		return nil, errs.New(errs.KindTransient, "orchestrator.SearchSemantic", "", errs.ErrModelNotLoaded)
	}

	hits, err := vecIdx.Search(vectors[0], max)
	if err != nil {
		return nil, err
	}

	results := make([]hybrid.Result, 0, len(hits))
	for _, h := range hits {
		if h.ID < 0 || h.ID >= len(symbols) {
			continue
		}
		results = append(results, hybrid.Result{Symbol: symbols[h.ID], Score: h.Similarity})
	}
	return results, nil
}

// semanticRanked returns the vector index's hits as a plain RankedList for
// RRF fusion, or nil if no embedder is configured or the lookup fails —
// hybrid search silently degrades to symbol+full-text fusion in that case.
func (idx *Indexer) semanticRanked(ctx context.Context, query string, limit int) hybrid.RankedList {
	results, err := idx.SearchSemantic(ctx, query, limit)
	if err != nil {
		return nil
	}
	list := make(hybrid.RankedList, 0, len(results))
	for _, r := range results {
		list = append(list, r.Symbol)
	}
	return list
}

func symbolsFromMatches(matches []symbolindex.Match) hybrid.RankedList {
	list := make(hybrid.RankedList, 0, len(matches))
	for _, m := range matches {
		list = append(list, m.Symbol)
	}
	return list
}

func symbolsFromFullText(results []fulltext.Result) hybrid.RankedList {
	list := make(hybrid.RankedList, 0, len(results))
	for _, r := range results {
		list = append(list, r.Symbol)
	}
	return list
}

// GetFileSymbols returns every symbol recorded for path, in declaration
// order. Fails with ErrUnknownFilePath if the index has never seen path.
func (idx *Indexer) GetFileSymbols(path string) ([]symbol.Symbol, error) {
	if err := idx.requireReady(); err != nil {
		return nil, err
	}
	idx.mu.RLock()
	_, known := idx.codebase.Files[path]
	idx.mu.RUnlock()
	if !known {
		return nil, errs.New(errs.KindInput, "orchestrator.GetFileSymbols", path, errs.ErrUnknownFilePath)
	}
	return idx.symbolIdx.SymbolsInFile(path), nil
}

// SearchFiles matches query against indexed file paths, scored by
// component match quality: equal > prefix > contains.
func (idx *Indexer) SearchFiles(query string, max int) ([]string, error) {
	if err := idx.requireReady(); err != nil {
		return nil, err
	}
	if max <= 0 {
		max = 50
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	lowerQuery := strings.ToLower(query)
	type scored struct {
		path string
		s    float64
	}
	var out []scored
	for path := range idx.codebase.Files {
		best := 0.0
		for _, component := range strings.Split(strings.ToLower(path), "/") {
			var mt score.MatchType
			switch {
			case component == lowerQuery:
				mt = score.MatchExact
			case strings.HasPrefix(component, lowerQuery):
				mt = score.MatchPrefix
			case strings.Contains(component, lowerQuery):
				mt = score.MatchContains
			default:
				continue
			}
			s := score.ScoreSymbolMatch(component, query, mt, len(idx.codebase.Files), 1)
			if s > best {
				best = s
			}
		}
		if best > 0 {
			out = append(out, scored{path: path, s: best})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].s != out[j].s {
			return out[i].s > out[j].s
		}
		return out[i].path < out[j].path
	})
	if len(out) > max {
		out = out[:max]
	}
	paths := make([]string, len(out))
	for i, o := range out {
		paths[i] = o.path
	}
	return paths, nil
}

// GetIndexStats reports the current index's coverage.
func (idx *Indexer) GetIndexStats() (Stats, error) {
	if err := idx.requireReady(); err != nil {
		return Stats{}, err
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		TotalFiles: len(idx.codebase.Files),
		Languages:  idx.languages,
		RootPath:   idx.cfg.RootPath,
		IndexedAt:  idx.indexedAt,
	}, nil
}

func (idx *Indexer) requireReady() error {
	if idx.State() != StateReady {
		return errs.New(errs.KindData, "orchestrator", idx.cfg.RootPath, errs.ErrIndexNotReady)
	}
	return nil
}
