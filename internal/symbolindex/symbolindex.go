// Package symbolindex answers exact, normalized, and substring name lookups
// over the current set of symbols. It is one of the three coordinated
// indices the pipeline orchestrator keeps in sync; it never reaches into
// the other two.
package symbolindex

import (
	"sort"
	"strings"
	"sync"

	"codelens/internal/normalize"
	"codelens/internal/score"
	"codelens/internal/symbol"
)

// Match is a scored symbol lookup result.
type Match struct {
	Symbol symbol.Symbol
	Score  float64
}

// Index is a RWMutex-guarded, map-backed lookup table over the current
// symbol set, rebuilt wholesale on every commit rather than mutated
// incrementally — matching the "per-file delete-then-insert" rebuild shape
// the teacher's store layer uses for its own tables.
type Index struct {
	mu sync.RWMutex

	symbols    []symbol.Symbol
	byExact    map[string][]int // lowercased name -> symbol indices
	byNormTerm map[string][]int // normalized term -> symbol indices
}

func New() *Index {
	return &Index{
		byExact:    make(map[string][]int),
		byNormTerm: make(map[string][]int),
	}
}

// Replace atomically swaps in a new symbol set, rebuilding the lookup maps.
func (idx *Index) Replace(symbols []symbol.Symbol) {
	byExact := make(map[string][]int, len(symbols))
	byNormTerm := make(map[string][]int, len(symbols))
	for i, s := range symbols {
		key := strings.ToLower(s.Name)
		byExact[key] = append(byExact[key], i)
		for _, term := range normalize.NormalizeSymbol(s.Name) {
			byNormTerm[term] = append(byNormTerm[term], i)
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.symbols = symbols
	idx.byExact = byExact
	idx.byNormTerm = byNormTerm
}

// Size returns the number of indexed symbols.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.symbols)
}

// Search ranks symbols against query by, in order: exact name match,
// normalized-term match, then substring containment. kindFilter narrows
// results to a single symbol.Kind when not symbol.KindUnknown.
func (idx *Index) Search(query string, kindFilter symbol.Kind, limit int) []Match {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	total := len(idx.symbols)
	if total == 0 {
		return nil
	}

	lowerQuery := strings.ToLower(query)
	seen := make(map[int]bool)
	var matches []Match

	add := func(i int, mt score.MatchType, freq int) {
		if seen[i] {
			return
		}
		s := idx.symbols[i]
		if kindFilter != symbol.KindUnknown && s.Kind != kindFilter {
			return
		}
		seen[i] = true
		symScore := score.ScoreSymbolMatch(s.Name, query, mt, total, freq)
		kindScore := score.ScoreSymbolKind(s.Kind)
		final := score.CalculateFinalScore(symScore, kindScore, s.DocComment != "")
		matches = append(matches, Match{Symbol: s, Score: final})
	}

	if ids, ok := idx.byExact[lowerQuery]; ok {
		for _, i := range ids {
			add(i, score.MatchExact, len(ids))
		}
	}

	for _, term := range normalize.NormalizeSymbol(query) {
		if ids, ok := idx.byNormTerm[term]; ok {
			for _, i := range ids {
				add(i, score.MatchNormalized, len(ids))
			}
		}
	}

	for i, s := range idx.symbols {
		if seen[i] {
			continue
		}
		if kindFilter != symbol.KindUnknown && s.Kind != kindFilter {
			continue
		}
		if strings.Contains(strings.ToLower(s.Name), lowerQuery) {
			add(i, score.MatchContains, 1)
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Score > matches[j].Score })
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// SymbolsInFile returns every symbol recorded for path, in declaration
// order.
func (idx *Index) SymbolsInFile(path string) []symbol.Symbol {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []symbol.Symbol
	for _, s := range idx.symbols {
		if s.FilePath == path {
			out = append(out, s)
		}
	}
	return out
}
