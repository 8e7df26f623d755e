// Package fulltext is a hand-rolled inverted-index BM25 full-text search
// over symbol name, path, signature, and doc-comment fields. No BM25
// library appears anywhere in the reference corpus (see DESIGN.md); this
// package is written directly in the shape the corpus's own hand-rolled
// inverted index and ranker demonstrate.
package fulltext

import (
	"sort"
	"strings"
	"sync"

	"codelens/internal/normalize"
	"codelens/internal/symbol"
)

// Posting is one term occurrence: which document, how many times.
type Posting struct {
	DocID     int
	Frequency int
}

type fieldIndex struct {
	postings map[string][]Posting
	docLen   map[int]int
	totalLen int
	docCount int
}

func newFieldIndex() *fieldIndex {
	return &fieldIndex{postings: make(map[string][]Posting), docLen: make(map[int]int)}
}

func (f *fieldIndex) add(docID int, terms []string) {
	if len(terms) == 0 {
		return
	}
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	for t, c := range counts {
		f.postings[t] = append(f.postings[t], Posting{DocID: docID, Frequency: c})
	}
	f.docLen[docID] = len(terms)
	f.totalLen += len(terms)
	f.docCount++
}

func (f *fieldIndex) avgDocLen() float64 {
	if f.docCount == 0 {
		return 0
	}
	return float64(f.totalLen) / float64(f.docCount)
}

// score returns per-document BM25 contribution for this field given a
// query's terms.
func (f *fieldIndex) score(terms []string) map[int]float64 {
	scores := make(map[int]float64)
	avg := f.avgDocLen()
	for _, term := range terms {
		postings, ok := f.postings[term]
		if !ok {
			continue
		}
		weight := idf(f.docCount, len(postings))
		for _, p := range postings {
			scores[p.DocID] += weight * tfNorm(float64(p.Frequency), float64(f.docLen[p.DocID]), avg)
		}
	}
	return scores
}

// fieldWeights gives every field equal say in the combined score, matching
// original_source's tantivy QueryParser built over all four fields with no
// per-field boost.
var fieldWeights = map[string]float64{
	"name":      1.0,
	"path":      1.0,
	"signature": 1.0,
	"doc":       1.0,
}

// Index is the committed, queryable full-text index. Writes go through a
// staging batch and become visible only on Commit, so a query never sees a
// half-built index mid-rebuild.
type Index struct {
	mu sync.RWMutex

	docs   map[int]Document
	fields map[string]*fieldIndex
}

func New() *Index {
	return &Index{
		docs:   make(map[int]Document),
		fields: newFields(),
	}
}

func newFields() map[string]*fieldIndex {
	return map[string]*fieldIndex{
		"name":      newFieldIndex(),
		"path":      newFieldIndex(),
		"signature": newFieldIndex(),
		"doc":       newFieldIndex(),
	}
}

// Batch stages documents for atomic publication via Commit.
type Batch struct {
	docs   map[int]Document
	fields map[string]*fieldIndex
}

func NewBatch() *Batch {
	return &Batch{docs: make(map[int]Document), fields: newFields()}
}

func (b *Batch) Add(doc Document) {
	b.docs[doc.ID] = doc
	b.fields["name"].add(doc.ID, normalize.NormalizeSymbol(doc.Name))
	b.fields["path"].add(doc.ID, normalize.Normalize(strings.ReplaceAll(doc.Path, "/", " ")))
	b.fields["signature"].add(doc.ID, normalize.Normalize(doc.Signature))
	b.fields["doc"].add(doc.ID, normalize.Normalize(doc.DocComment))
}

// Commit atomically replaces the index's contents with the batch's.
func (idx *Index) Commit(b *Batch) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs = b.docs
	idx.fields = b.fields
}

// Result is one ranked full-text match.
type Result struct {
	Symbol symbol.Symbol
	Score  float64
}

// Search runs a BM25 query across all fields and returns the top limit
// results, highest score first.
func (idx *Index) Search(query string, limit int) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	terms := normalize.Normalize(query)
	symTerms := normalize.NormalizeSymbol(query)

	combined := make(map[int]float64)
	for fieldName, fi := range idx.fields {
		fieldTerms := terms
		if fieldName == "name" {
			fieldTerms = symTerms
		}
		for docID, s := range fi.score(fieldTerms) {
			combined[docID] += s * fieldWeights[fieldName]
		}
	}

	results := make([]Result, 0, len(combined))
	for docID, s := range combined {
		doc, ok := idx.docs[docID]
		if !ok {
			continue
		}
		results = append(results, Result{Symbol: doc.Symbol, Score: s})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Symbol.Name < results[j].Symbol.Name
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Size returns the number of committed documents.
func (idx *Index) Size() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}
