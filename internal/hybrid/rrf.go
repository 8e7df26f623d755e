// Package hybrid fuses ranked result lists from the symbol, full-text, and
// vector indices with Reciprocal Rank Fusion, ported from
// original_source's HybridSearcher::reciprocal_rank_fusion.
package hybrid

import (
	"sort"

	"codelens/internal/symbol"
)

// RankedList is one index's ranked output: symbols in descending relevance
// order. The rank used for fusion is the list position, not any of the
// index's own scores — RRF is score-scale-agnostic by design.
type RankedList []symbol.Symbol

// Result is one fused hit with its combined RRF score.
type Result struct {
	Symbol symbol.Symbol
	Score  float64
}

// Fuse combines lists using Reciprocal Rank Fusion: each list contributes
// weight/(k+rank+1) to every symbol it contains, keyed by identity
// (path, start_line, end_line) so the same definition surfaced by two
// indices accumulates score instead of appearing twice.
func Fuse(lists []RankedList, weights []float64, w Weights) []Result {
	type entry struct {
		symbol symbol.Symbol
		score  float64
	}
	scores := make(map[symbol.Identity]*entry)

	for i, list := range lists {
		weight := 0.0
		if i < len(weights) {
			weight = weights[i]
		}
		if weight == 0 {
			continue
		}
		for rank, s := range list {
			key := s.Identity()
			rrfScore := weight / (w.RRFK + float64(rank+1))
			if e, ok := scores[key]; ok {
				e.score += rrfScore
			} else {
				scores[key] = &entry{symbol: s, score: rrfScore}
			}
		}
	}

	results := make([]Result, 0, len(scores))
	for _, e := range scores {
		results = append(results, Result{Symbol: e.symbol, Score: e.score})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if results[i].Symbol.StartLine != results[j].Symbol.StartLine {
			return results[i].Symbol.StartLine < results[j].Symbol.StartLine
		}
		return results[i].Symbol.FilePath < results[j].Symbol.FilePath
	})

	limit := w.MaxResults
	if limit <= 0 {
		limit = 50
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
