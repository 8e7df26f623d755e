package symbolindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/symbol"
	"codelens/internal/symbolindex"
)

func sampleSymbols() []symbol.Symbol {
	return []symbol.Symbol{
		{Name: "Authenticate", Kind: symbol.KindFunction, FilePath: "auth.go", StartLine: 1, EndLine: 5},
		{Name: "AuthenticateUser", Kind: symbol.KindFunction, FilePath: "auth.go", StartLine: 7, EndLine: 12},
		{Name: "Logout", Kind: symbol.KindFunction, FilePath: "auth.go", StartLine: 14, EndLine: 16},
		{Name: "import", Kind: symbol.KindImport, FilePath: "auth.go", StartLine: 1, EndLine: 1},
	}
}

func TestSearchExactMatchRanksFirst(t *testing.T) {
	idx := symbolindex.New()
	idx.Replace(sampleSymbols())

	matches := idx.Search("Authenticate", symbol.KindUnknown, 10)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Authenticate", matches[0].Symbol.Name)
}

func TestSearchKindFilter(t *testing.T) {
	idx := symbolindex.New()
	idx.Replace(sampleSymbols())

	matches := idx.Search("Auth", symbol.KindImport, 10)
	for _, m := range matches {
		assert.Equal(t, symbol.KindImport, m.Symbol.Kind)
	}
}

func TestSymbolsInFile(t *testing.T) {
	idx := symbolindex.New()
	idx.Replace(sampleSymbols())

	syms := idx.SymbolsInFile("auth.go")
	assert.Len(t, syms, 4)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := symbolindex.New()
	assert.Empty(t, idx.Search("anything", symbol.KindUnknown, 10))
}
