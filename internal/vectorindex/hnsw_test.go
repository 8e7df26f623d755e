package vectorindex_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codelens/internal/vectorindex"
)

func unit(dims int, hot int) []float32 {
	v := make([]float32, dims)
	v[hot] = 1
	return v
}

func TestAddAndSearchFindsClosest(t *testing.T) {
	idx := vectorindex.New(vectorindex.DefaultConfig(4))
	require.NoError(t, idx.Add(1, unit(4, 0)))
	require.NoError(t, idx.Add(2, unit(4, 1)))
	require.NoError(t, idx.Add(3, unit(4, 2)))

	results, err := idx.Search(unit(4, 0), 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
}

func TestDimensionMismatchRejected(t *testing.T) {
	idx := vectorindex.New(vectorindex.DefaultConfig(4))
	err := idx.Add(1, []float32{1, 2, 3})
	assert.Error(t, err)
}

func TestRemoveExcludesFromSearch(t *testing.T) {
	idx := vectorindex.New(vectorindex.DefaultConfig(4))
	require.NoError(t, idx.Add(1, unit(4, 0)))
	require.NoError(t, idx.Add(2, unit(4, 1)))
	idx.Remove(1)

	results, err := idx.Search(unit(4, 0), 2)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, 1, r.ID)
	}
}

func TestLenCountsOnlyLiveVectors(t *testing.T) {
	idx := vectorindex.New(vectorindex.DefaultConfig(4))
	require.NoError(t, idx.Add(1, unit(4, 0)))
	require.NoError(t, idx.Add(2, unit(4, 1)))
	idx.Remove(1)
	assert.Equal(t, 1, idx.Len())
}

func TestSemanticSimilarityOrdering(t *testing.T) {
	idx := vectorindex.New(vectorindex.DefaultConfig(3))
	require.NoError(t, idx.Add(1, []float32{1, 0, 0}))
	require.NoError(t, idx.Add(2, []float32{0.9, 0.1, 0}))
	require.NoError(t, idx.Add(3, []float32{0, 0, 1}))

	results, err := idx.Search([]float32{1, 0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].ID)
	assert.Equal(t, 2, results[1].ID)
	assert.Equal(t, 3, results[2].ID)
}
