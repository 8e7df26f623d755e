package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

func RegisterGo(r *langparser.Registry) {
	r.Register("go", &langparser.LanguageSpec{
		Language: golang.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(method_declaration name: (field_identifier) @name) @chunk
			(type_spec name: (type_identifier) @name) @chunk
			(const_spec name: (identifier) @name) @chunk
			(var_spec name: (identifier) @name) @chunk
			(import_spec path: (interpreted_string_literal) @name) @chunk
		`,
		Extensions:  []string{"go"},
		LineComment: "//",
		KindOf:      goKindOf,
	})
}

func goKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_declaration":
		return symbol.KindFunction
	case "method_declaration":
		return symbol.KindMethod
	case "const_spec":
		return symbol.KindConstant
	case "var_spec":
		return symbol.KindVariable
	case "import_spec":
		return symbol.KindImport
	case "type_spec":
		return goTypeSpecKind(node)
	default:
		return symbol.KindUnknown
	}
}

// goTypeSpecKind disambiguates Go's single type_spec node type by
// looking at the underlying type node the spec names: struct_type and
// interface_type map directly; every other named type (aliases over
// primitives, slices, maps, funcs) is bucketed as Struct, matching Go's
// convention of treating any named type as a nominal user-defined type.
func goTypeSpecKind(node *sitter.Node) symbol.Kind {
	underlying := node.ChildByFieldName("type")
	if underlying == nil {
		return symbol.KindStruct
	}
	switch underlying.Type() {
	case "struct_type":
		return symbol.KindStruct
	case "interface_type":
		return symbol.KindInterface
	default:
		return symbol.KindStruct
	}
}
