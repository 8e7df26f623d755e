// Package queryanalyzer classifies a raw search string so the hybrid
// searcher can pick index weights suited to what the caller is likely
// after — ported directly from original_source's QueryAnalyzer, including
// the extended semantic-intent prefix list and file-extension check the
// distilled spec's condensed rule table only sketches.
package queryanalyzer

import (
	"strings"

	"codelens/internal/hybrid"
)

// Type is the query's inferred intent.
type Type int

const (
	TypeMixed Type = iota
	TypeExactSymbol
	TypeFilePath
	TypeSemanticIntent
	TypeCodeContent
)

func (t Type) String() string {
	switch t {
	case TypeExactSymbol:
		return "ExactSymbol"
	case TypeFilePath:
		return "FilePath"
	case TypeSemanticIntent:
		return "SemanticIntent"
	case TypeCodeContent:
		return "CodeContent"
	default:
		return "Mixed"
	}
}

var filePathExtensions = []string{".rs", ".ts", ".js", ".py", ".java", ".go", ".c", ".h", ".cpp", ".hpp"}

var semanticPrefixes = []string{"how", "what", "why", "where", "when"}

var codeMarkers = []string{
	"fn ", "async ", "class ", "impl ", "struct ", "trait ", "interface ", "function ",
}

// Analyze classifies a raw query string.
func Analyze(query string) Type {
	lower := strings.ToLower(query)
	words := strings.Fields(query)

	if strings.ContainsAny(query, "/\\") {
		return TypeFilePath
	}
	for _, ext := range filePathExtensions {
		if strings.HasSuffix(query, ext) {
			return TypeFilePath
		}
	}

	for _, prefix := range semanticPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return TypeSemanticIntent
		}
	}
	if strings.Contains(lower, "how to") {
		return TypeSemanticIntent
	}

	for _, marker := range codeMarkers {
		if strings.Contains(query, marker) {
			return TypeCodeContent
		}
	}

	if len(words) == 1 {
		return TypeExactSymbol
	}

	return TypeMixed
}

// WeightsFor returns the index weight preset associated with a query Type.
func WeightsFor(t Type) hybrid.Weights {
	switch t {
	case TypeExactSymbol:
		return hybrid.ExactMatchWeights()
	case TypeFilePath:
		return hybrid.FilePathWeights()
	case TypeSemanticIntent:
		return hybrid.SemanticFocusedWeights()
	case TypeCodeContent:
		return hybrid.ContentFocusedWeights()
	default:
		return hybrid.DefaultWeights()
	}
}
