package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/c"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

// RegisterC wires the systems-C-family member of the initial language set:
// the original Rust indexer never implemented C/C++ support, so these
// queries are grounded on the standard tree-sitter-c tag-query idiom
// (nested function_declarator to reach the identifier under a
// function_definition) rather than ported from original_source.
func RegisterC(r *langparser.Registry) {
	r.Register("c", &langparser.LanguageSpec{
		Language: c.GetLanguage(),
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @chunk
			(struct_specifier name: (type_identifier) @name) @chunk
			(enum_specifier name: (type_identifier) @name) @chunk
			(union_specifier name: (type_identifier) @name) @chunk
			(preproc_include path: (string_literal) @name) @chunk
			(preproc_include path: (system_lib_string) @name) @chunk
		`,
		Extensions:  []string{"c", "h"},
		LineComment: "//",
		KindOf:      cKindOf,
	})
}

func cKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_definition":
		return symbol.KindFunction
	case "struct_specifier":
		return symbol.KindStruct
	case "enum_specifier":
		return symbol.KindEnum
	case "union_specifier":
		return symbol.KindStruct
	case "preproc_include":
		return symbol.KindImport
	default:
		return symbol.KindUnknown
	}
}
