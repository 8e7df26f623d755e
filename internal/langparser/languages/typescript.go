package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

func RegisterTypeScript(r *langparser.Registry) {
	r.Register("typescript", &langparser.LanguageSpec{
		Language: typescript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @chunk
			(class_declaration name: (type_identifier) @name) @chunk
			(method_definition name: (property_identifier) @name) @chunk
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @chunk
			(interface_declaration name: (type_identifier) @name) @chunk
			(type_alias_declaration name: (type_identifier) @name) @chunk
			(enum_declaration name: (identifier) @name) @chunk
			(import_statement source: (string) @name) @chunk
		`,
		Extensions:  []string{"ts", "tsx"},
		LineComment: "//",
		KindOf:      tsKindOf,
	})
}

func tsKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_declaration":
		return symbol.KindFunction
	case "class_declaration":
		return symbol.KindClass
	case "method_definition":
		return symbol.KindMethod
	case "lexical_declaration":
		return symbol.KindFunction
	case "interface_declaration":
		return symbol.KindInterface
	case "type_alias_declaration":
		return symbol.KindStruct
	case "enum_declaration":
		return symbol.KindEnum
	case "import_statement":
		return symbol.KindImport
	default:
		return symbol.KindUnknown
	}
}
