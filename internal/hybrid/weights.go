package hybrid

// Weights controls how much each of the three indices contributes to a
// fused result set, ported from original_source's HybridConfig presets.
type Weights struct {
	Symbol     float64 // "traditional" symbol-index weight
	FullText   float64
	Semantic   float64
	RRFK       float64
	MaxResults int
}

// DefaultWeights balances all three indices, tilted toward full-text and
// semantic over exact symbol matching.
func DefaultWeights() Weights {
	return Weights{Symbol: 0.2, FullText: 0.4, Semantic: 0.4, RRFK: 60, MaxResults: 50}
}

// ExactMatchWeights favors the symbol index, for single-token
// likely-identifier queries.
func ExactMatchWeights() Weights {
	return Weights{Symbol: 0.7, FullText: 0.2, Semantic: 0.1, RRFK: 60, MaxResults: 50}
}

// FilePathWeights favors full-text (path-token) matching for queries that
// look like a file path.
func FilePathWeights() Weights {
	return Weights{Symbol: 0.1, FullText: 0.6, Semantic: 0.3, RRFK: 60, MaxResults: 50}
}

// SemanticFocusedWeights favors the vector index for natural-language
// "how"/"what"/"why" questions.
func SemanticFocusedWeights() Weights {
	return Weights{Symbol: 0.1, FullText: 0.2, Semantic: 0.7, RRFK: 60, MaxResults: 50}
}

// ContentFocusedWeights favors full-text search for queries containing
// literal code fragments ("fn ", "class ", "struct ", ...).
func ContentFocusedWeights() Weights {
	return Weights{Symbol: 0.1, FullText: 0.6, Semantic: 0.3, RRFK: 60, MaxResults: 50}
}
