package languages

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"codelens/internal/langparser"
	"codelens/internal/symbol"
)

func RegisterPython(r *langparser.Registry) {
	r.Register("python", &langparser.LanguageSpec{
		Language: python.GetLanguage(),
		Query: `
			(function_definition name: (identifier) @name) @chunk
			(class_definition name: (identifier) @name) @chunk
			(decorated_definition definition: (function_definition name: (identifier) @name)) @chunk
			(decorated_definition definition: (class_definition name: (identifier) @name)) @chunk
			(import_from_statement module_name: (dotted_name) @name) @chunk
			(import_statement name: (dotted_name) @name) @chunk
		`,
		Extensions:  []string{"py", "pyi"},
		LineComment: "#",
		KindOf:      pyKindOf,
	})
}

func pyKindOf(node *sitter.Node) symbol.Kind {
	switch node.Type() {
	case "function_definition":
		return symbol.KindFunction
	case "class_definition":
		return symbol.KindClass
	case "decorated_definition":
		if def := node.ChildByFieldName("definition"); def != nil && def.Type() == "class_definition" {
			return symbol.KindClass
		}
		return symbol.KindFunction
	case "import_from_statement", "import_statement":
		return symbol.KindImport
	default:
		return symbol.KindUnknown
	}
}
