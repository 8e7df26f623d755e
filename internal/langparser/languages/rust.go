package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

// RegisterRust mirrors the node-type list original_source/
// tree_sitter_indexer.rs documents for its own (abandoned, "find any
// identifier child") Rust walk: function_item, struct_item, enum_item,
// trait_item, impl_item. codelens uses tree-sitter's proper field-based
// captures instead of that generic fallback, per the Open Question
// original_source itself flags about that fallback's imprecision.
func RegisterRust(r *langparser.Registry) {
	r.Register("rust", &langparser.LanguageSpec{
		Language: rust.GetLanguage(),
		Query: `
			(function_item name: (identifier) @name) @chunk
			(struct_item name: (type_identifier) @name) @chunk
			(enum_item name: (type_identifier) @name) @chunk
			(trait_item name: (type_identifier) @name) @chunk
			(impl_item type: (type_identifier) @name) @chunk
			(mod_item name: (identifier) @name) @chunk
			(use_declaration argument: (scoped_identifier) @name) @chunk
			(use_declaration argument: (identifier) @name) @chunk
		`,
		Extensions:  []string{"rs"},
		LineComment: "//",
		KindOf:      rustKindOf,
	})
}

func rustKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_item":
		return symbol.KindFunction
	case "struct_item":
		return symbol.KindStruct
	case "enum_item":
		return symbol.KindEnum
	case "trait_item":
		return symbol.KindInterface
	case "impl_item":
		// An impl block is the closest Rust construct to an interface
		// implementation; bucketed as Interface to match the mapping
		// original_source's own model settled on for impl_item.
		return symbol.KindInterface
	case "mod_item":
		return symbol.KindClass
	case "use_declaration":
		return symbol.KindImport
	default:
		return symbol.KindUnknown
	}
}
