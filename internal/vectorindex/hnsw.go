// Package vectorindex is a hand-rolled cosine-metric HNSW (Hierarchical
// Navigable Small World) approximate nearest-neighbor index, parameterized
// exactly the way original_source/src/indexing/vector_store.rs configures
// the Rust usearch crate it wraps: connectivity 16, expansion_add 128,
// expansion_search 64, cosine distance, float32 storage. No Go HNSW/ANN
// library appears in the reference corpus (see DESIGN.md), so the graph is
// implemented directly following the standard Malkov & Yashunin algorithm
// usearch itself is an implementation of.
package vectorindex

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"codelens/internal/errs"
)

// Metadata is the payload attached to each vector, mirroring the original's
// VectorMetadata (symbol name, file, language, line span, signature,
// doc comment) via the caller-supplied ID -> lookup elsewhere; codelens
// keeps the metadata itself in the caller's symbol.Symbol slice and stores
// only the integer ID here, since the identity (path, start, end) already
// lives in symbol.Symbol.
type Metadata struct {
	ID int
}

type graphNode struct {
	id        int
	vector    []float32
	level     int
	neighbors [][]int // neighbors[layer] = neighbor node ids at that layer
	deleted   bool
}

// Config holds the HNSW construction parameters.
type Config struct {
	Dimension      int
	Connectivity   int // M: neighbors per node per layer above 0
	ExpansionAdd   int // efConstruction
	ExpansionSearch int // efSearch
}

// DefaultConfig returns the parameters carried over from usearch::IndexOptions
// in original_source/vector_store.rs.
func DefaultConfig(dimension int) Config {
	return Config{
		Dimension:       dimension,
		Connectivity:    16,
		ExpansionAdd:    128,
		ExpansionSearch: 64,
	}
}

// Index is a cosine-distance HNSW graph over fixed-dimension float32
// vectors, keyed by caller-supplied integer IDs.
type Index struct {
	mu sync.RWMutex

	cfg       Config
	maxLevel0 int // 2*M, layer-0 neighbor cap
	levelMult float64

	nodes      map[int]*graphNode
	entryPoint int
	hasEntry   bool

	rng *rand.Rand
}

func New(cfg Config) *Index {
	if cfg.Connectivity <= 0 {
		cfg.Connectivity = 16
	}
	if cfg.ExpansionAdd <= 0 {
		cfg.ExpansionAdd = 128
	}
	if cfg.ExpansionSearch <= 0 {
		cfg.ExpansionSearch = 64
	}
	return &Index{
		cfg:       cfg,
		maxLevel0: cfg.Connectivity * 2,
		levelMult: 1.0 / math.Log(float64(cfg.Connectivity)),
		nodes:     make(map[int]*graphNode),
		rng:       rand.New(rand.NewSource(1)),
	}
}

func (idx *Index) Dimension() int { return idx.cfg.Dimension }

// Len returns the number of live (non-deleted) vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	n := 0
	for _, node := range idx.nodes {
		if !node.deleted {
			n++
		}
	}
	return n
}

func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return 1 - sim
}

func (idx *Index) randomLevel() int {
	level := int(math.Floor(-math.Log(idx.rng.Float64()+1e-12) * idx.levelMult))
	if level > 32 {
		level = 32
	}
	return level
}

// Add inserts or replaces the vector for id. Existing ids are re-inserted
// as a soft-delete of the old node plus a fresh insert, matching the
// pipeline orchestrator's whole-file re-embed-on-change behavior rather
// than an in-place vector update.
func (idx *Index) Add(id int, vector []float32) error {
	if len(vector) != idx.cfg.Dimension {
		return errs.New(errs.KindInput, "vectorindex.Add", "", errs.ErrDimensionMismatch)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.nodes[id]; ok {
		existing.deleted = true
	}

	level := idx.randomLevel()
	node := &graphNode{
		id:        id,
		vector:    append([]float32(nil), vector...),
		level:     level,
		neighbors: make([][]int, level+1),
	}
	idx.nodes[id] = node

	if !idx.hasEntry {
		idx.entryPoint = id
		idx.hasEntry = true
		return nil
	}

	entry := idx.entryPoint
	entryLevel := idx.nodes[entry].level

	// Descend greedily from the current top layer to node's top layer + 1
	// using ef=1, to find a good entry point per layer.
	curr := entry
	for l := entryLevel; l > level; l-- {
		curr = idx.greedyClosest(curr, vector, l)
	}

	// From min(level, entryLevel) down to 0, search with efConstruction and
	// link the new node to its M nearest candidates.
	for l := min(level, entryLevel); l >= 0; l-- {
		candidates := idx.searchLayer(curr, vector, idx.cfg.ExpansionAdd, l)
		neighbors := selectNeighbors(candidates, idx.cfg.Connectivity)
		node.neighbors[l] = neighbors
		for _, nb := range neighbors {
			idx.link(nb, id, l)
		}
		if len(candidates) > 0 {
			curr = candidates[0].id
		}
	}

	if level > entryLevel {
		idx.entryPoint = id
	}
	return nil
}

// Remove soft-deletes id so it no longer appears in search results. The
// graph structure keeps its edges (usearch-style tombstoning) rather than
// paying for a full re-link on every deletion.
func (idx *Index) Remove(id int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if node, ok := idx.nodes[id]; ok {
		node.deleted = true
	}
}

func (idx *Index) link(a, b, layer int) {
	node, ok := idx.nodes[a]
	if !ok {
		return
	}
	for len(node.neighbors) <= layer {
		node.neighbors = append(node.neighbors, nil)
	}
	node.neighbors[layer] = append(node.neighbors[layer], b)

	cap := idx.cfg.Connectivity
	if layer == 0 {
		cap = idx.maxLevel0
	}
	if len(node.neighbors[layer]) > cap {
		cands := make([]candidate, 0, len(node.neighbors[layer]))
		for _, nid := range node.neighbors[layer] {
			if n2, ok := idx.nodes[nid]; ok {
				cands = append(cands, candidate{id: nid, dist: cosineDistance(node.vector, n2.vector)})
			}
		}
		sort.Slice(cands, func(i, j int) bool { return cands[i].dist < cands[j].dist })
		trimmed := make([]int, 0, cap)
		for i := 0; i < cap && i < len(cands); i++ {
			trimmed = append(trimmed, cands[i].id)
		}
		node.neighbors[layer] = trimmed
	}
}

type candidate struct {
	id   int
	dist float64
}

func (idx *Index) greedyClosest(from int, target []float32, layer int) int {
	current := from
	currentDist := cosineDistance(idx.nodes[current].vector, target)
	for {
		improved := false
		node := idx.nodes[current]
		if layer < len(node.neighbors) {
			for _, nb := range node.neighbors[layer] {
				n2, ok := idx.nodes[nb]
				if !ok {
					continue
				}
				d := cosineDistance(n2.vector, target)
				if d < currentDist {
					currentDist = d
					current = nb
					improved = true
				}
			}
		}
		if !improved {
			return current
		}
	}
}

// searchLayer runs a best-first search from entry, returning up to ef
// candidates sorted by ascending distance.
func (idx *Index) searchLayer(entry int, target []float32, ef, layer int) []candidate {
	visited := map[int]bool{entry: true}
	entryDist := cosineDistance(idx.nodes[entry].vector, target)
	candidates := []candidate{{id: entry, dist: entryDist}}
	results := []candidate{{id: entry, dist: entryDist}}

	for len(candidates) > 0 {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
		c := candidates[0]
		candidates = candidates[1:]

		sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
		if len(results) >= ef && c.dist > results[len(results)-1].dist {
			break
		}

		node, ok := idx.nodes[c.id]
		if !ok || layer >= len(node.neighbors) {
			continue
		}
		for _, nb := range node.neighbors[layer] {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			n2, ok := idx.nodes[nb]
			if !ok {
				continue
			}
			d := cosineDistance(n2.vector, target)
			if len(results) < ef || d < results[len(results)-1].dist {
				candidates = append(candidates, candidate{id: nb, dist: d})
				results = append(results, candidate{id: nb, dist: d})
				if len(results) > ef {
					sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
					results = results[:ef]
				}
			}
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
	return results
}

// selectNeighbors picks the M closest candidates. usearch and the original
// HNSW paper both offer a heuristic pruning pass to favor diversity over
// pure distance; codelens uses plain closest-M selection, a documented
// simplification that keeps the graph correct but slightly less diverse
// than the full heuristic.
func selectNeighbors(candidates []candidate, m int) []int {
	if len(candidates) > m {
		candidates = candidates[:m]
	}
	out := make([]int, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.id)
	}
	return out
}

// Result is a single ranked vector search hit.
type Result struct {
	ID         int
	Similarity float64 // 1 - cosine distance
}

// Search returns the k nearest live vectors to query by cosine similarity.
func (idx *Index) Search(query []float32, k int) ([]Result, error) {
	if len(query) != idx.cfg.Dimension {
		return nil, errs.New(errs.KindInput, "vectorindex.Search", "", errs.ErrDimensionMismatch)
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.hasEntry {
		return nil, nil
	}

	entry := idx.entryPoint
	entryLevel := idx.nodes[entry].level
	curr := entry
	for l := entryLevel; l > 0; l-- {
		curr = idx.greedyClosest(curr, query, l)
	}

	ef := idx.cfg.ExpansionSearch
	if k > ef {
		ef = k
	}
	candidates := idx.searchLayer(curr, query, ef, 0)

	results := make([]Result, 0, k)
	for _, c := range candidates {
		node := idx.nodes[c.id]
		if node.deleted {
			continue
		}
		results = append(results, Result{ID: c.id, Similarity: 1 - c.dist})
		if len(results) == k {
			break
		}
	}
	return results, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
