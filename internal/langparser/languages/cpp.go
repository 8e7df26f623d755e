package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

func RegisterCPP(r *langparser.Registry) {
	r.Register("cpp", &langparser.LanguageSpec{
		Language: cpp.GetLanguage(),
		Query: `
			(function_definition declarator: (function_declarator declarator: (identifier) @name)) @chunk
			(function_definition declarator: (function_declarator declarator: (field_identifier) @name)) @chunk
			(class_specifier name: (type_identifier) @name) @chunk
			(struct_specifier name: (type_identifier) @name) @chunk
			(enum_specifier name: (type_identifier) @name) @chunk
			(namespace_definition name: (identifier) @name) @chunk
			(preproc_include path: (string_literal) @name) @chunk
			(preproc_include path: (system_lib_string) @name) @chunk
		`,
		Extensions:  []string{"cpp", "cc", "cxx", "hpp", "hh"},
		LineComment: "//",
		KindOf:      cppKindOf,
	})
}

func cppKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_definition":
		return symbol.KindFunction
	case "class_specifier":
		return symbol.KindClass
	case "struct_specifier":
		return symbol.KindStruct
	case "enum_specifier":
		return symbol.KindEnum
	case "namespace_definition":
		return symbol.KindClass
	case "preproc_include":
		return symbol.KindImport
	default:
		return symbol.KindUnknown
	}
}
