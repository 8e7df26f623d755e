package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

// JavaScript query patterns match definitions regardless of whether they
// sit directly at module scope or are wrapped in an export_statement —
// tree-sitter queries match anywhere in the tree, so a bare
// function_declaration pattern already captures an exported one without a
// separate export_statement wrapper pattern.
func RegisterJavaScript(r *langparser.Registry) {
	r.Register("javascript", &langparser.LanguageSpec{
		Language: javascript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(class_declaration name: (identifier) @name) @chunk
			(method_definition name: (property_identifier) @name) @chunk
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @chunk
			(import_statement source: (string) @name) @chunk
		`,
		Extensions:  []string{"js", "jsx", "mjs", "cjs"},
		LineComment: "//",
		KindOf:      jsKindOf,
	})
}

func jsKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_declaration":
		return symbol.KindFunction
	case "class_declaration":
		return symbol.KindClass
	case "method_definition":
		return symbol.KindMethod
	case "lexical_declaration":
		return symbol.KindFunction // arrow-function const binding
	case "import_statement":
		return symbol.KindImport
	default:
		return symbol.KindUnknown
	}
}
