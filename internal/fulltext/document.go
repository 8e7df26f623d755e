package fulltext

import "codelens/internal/symbol"

// Document is the indexed textual projection of one symbol, split into the
// fields the multi-field query in Search weighs equally — grounded on
// original_source's tantivy schema (symbol_name, file_path, signature,
// doc_comment as the four text fields queried together).
type Document struct {
	ID         int
	Symbol     symbol.Symbol
	Name       string
	Path       string
	Signature  string
	DocComment string
}

func DocumentFromSymbol(id int, s symbol.Symbol) Document {
	return Document{
		ID:         id,
		Symbol:     s,
		Name:       s.Name,
		Path:       s.FilePath,
		Signature:  s.Signature,
		DocComment: s.DocComment,
	}
}
