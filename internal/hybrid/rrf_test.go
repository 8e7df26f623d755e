package hybrid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/hybrid"
	"codelens/internal/symbol"
)

func sym(name, path string, start, end int) symbol.Symbol {
	return symbol.Symbol{Name: name, FilePath: path, StartLine: start, EndLine: end}
}

func TestFuseCombinesOverlappingHits(t *testing.T) {
	a := sym("Authenticate", "auth.go", 10, 20)
	b := sym("Logout", "auth.go", 22, 25)

	symbolList := hybrid.RankedList{a, b}
	fullTextList := hybrid.RankedList{a}

	w := hybrid.DefaultWeights()
	results := hybrid.Fuse([]hybrid.RankedList{symbolList, fullTextList}, []float64{w.Symbol, w.FullText}, w)

	require.NotEmpty(t, results)
	assert.Equal(t, "Authenticate", results[0].Symbol.Name, "symbol appearing in both lists should rank first")
}

func TestFuseRespectsMaxResults(t *testing.T) {
	var list hybrid.RankedList
	for i := 0; i < 10; i++ {
		list = append(list, sym("Sym", "f.go", i, i))
	}
	w := hybrid.DefaultWeights()
	w.MaxResults = 3
	results := hybrid.Fuse([]hybrid.RankedList{list}, []float64{1.0}, w)
	assert.Len(t, results, 3)
}

func TestFuseZeroWeightListIgnored(t *testing.T) {
	a := sym("Only", "f.go", 1, 2)
	w := hybrid.SemanticFocusedWeights()
	results := hybrid.Fuse([]hybrid.RankedList{{a}, {a}}, []float64{0, w.Semantic}, w)
	require.Len(t, results, 1)
	assert.InDelta(t, w.Semantic/(w.RRFK+1), results[0].Score, 1e-9)
}

func TestExactMatchWeightsFavorSymbol(t *testing.T) {
	w := hybrid.ExactMatchWeights()
	assert.Greater(t, w.Symbol, w.Semantic)
	assert.Greater(t, w.Symbol, w.FullText)
}

func TestSemanticFocusedWeightsFavorSemantic(t *testing.T) {
	w := hybrid.SemanticFocusedWeights()
	assert.Greater(t, w.Semantic, w.Symbol)
	assert.Greater(t, w.Semantic, w.FullText)
}
