// Package langparser runs tree-sitter capture queries over source files and
// turns the matches into symbol.Symbol records: one per top-level (or
// nested) definition, with byte ranges resolved to line numbers, the
// definition's source text (bounded to maxSignatureBytes) as its
// signature, a best-effort doc comment, and a Parent pointer to
// the smallest enclosing definition.
package langparser

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"codelens/internal/symbol"
)

// maxSignatureBytes bounds how much of a chunk's full source text is
// stored as its signature; definitions spanning hundreds of lines are
// truncated rather than ballooning the symbol record.
const maxSignatureBytes = 4096

// Parser extracts symbol.Symbol records from a single source file using the
// grammar registered for its extension.
type Parser struct {
	registry *Registry
}

func NewParser(r *Registry) *Parser {
	return &Parser{registry: r}
}

// Parse returns the symbols defined in src. It returns (nil, nil) — not an
// error — when no grammar is registered for path's extension, so callers
// can skip unsupported files without treating them as failures.
func (p *Parser) Parse(path string, src []byte) ([]symbol.Symbol, error) {
	spec, lang := p.registry.Lookup(path)
	if spec == nil {
		return nil, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(spec.Language)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(spec.Query), spec.Language)
	if err != nil {
		return nil, fmt.Errorf("compile query for %s: %w", lang, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var caps []capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var chunkNode *sitter.Node
		var nameStr string
		for _, c := range m.Captures {
			switch q.CaptureNameForId(c.Index) {
			case "chunk":
				chunkNode = c.Node
			case "name":
				nameStr = c.Node.Content(src)
			}
		}
		if chunkNode == nil {
			continue
		}
		kind := symbol.KindUnknown
		if spec.KindOf != nil {
			kind = spec.KindOf(chunkNode)
		}
		caps = append(caps, capture{
			name:      strings.Trim(nameStr, `"'`),
			kind:      kind,
			startLine: int(chunkNode.StartPoint().Row) + 1,
			endLine:   int(chunkNode.EndPoint().Row) + 1,
			startByte: chunkNode.StartByte(),
			endByte:   chunkNode.EndByte(),
		})
	}

	caps = dedupExact(caps)
	resolveParents(caps)

	lines := strings.Split(string(src), "\n")
	syms := make([]symbol.Symbol, 0, len(caps))
	for _, c := range caps {
		if c.name == "" {
			continue
		}
		syms = append(syms, symbol.Symbol{
			Name:       c.name,
			Kind:       c.kind,
			Language:   lang,
			FilePath:   path,
			StartLine:  c.startLine,
			EndLine:    c.endLine,
			Signature:  signatureOf(src, c.startByte, c.endByte),
			DocComment: docCommentOf(lines, c.startLine, spec.LineComment),
			Parent:     c.parent,
		})
	}
	return syms, nil
}

type capture struct {
	name      string
	kind      symbol.Kind
	startLine int
	endLine   int
	startByte uint32
	endByte   uint32
	parent    string
}

// dedupExact drops captures that are byte-range-identical to a previous
// one — the same definition matched twice by overlapping query patterns
// (e.g. an exported function matched both bare and wrapped in an export
// statement). Unlike the chunk-extraction dedup this is descended from,
// it deliberately keeps nested captures (a method inside a class) distinct:
// those become separate Symbols joined by Parent, not duplicates to drop.
func dedupExact(caps []capture) []capture {
	if len(caps) <= 1 {
		return caps
	}
	sort.Slice(caps, func(i, j int) bool {
		if caps[i].startByte != caps[j].startByte {
			return caps[i].startByte < caps[j].startByte
		}
		return caps[i].endByte < caps[j].endByte
	})
	out := caps[:0:0]
	for i, c := range caps {
		if i > 0 && c.startByte == caps[i-1].startByte && c.endByte == caps[i-1].endByte {
			continue
		}
		out = append(out, c)
	}
	return out
}

// resolveParents assigns each capture the name of the smallest other
// capture whose byte range strictly contains it.
func resolveParents(caps []capture) {
	for i := range caps {
		var bestIdx = -1
		for j := range caps {
			if i == j {
				continue
			}
			if encloses(caps[j], caps[i]) {
				if bestIdx == -1 || (caps[j].endByte-caps[j].startByte) < (caps[bestIdx].endByte-caps[bestIdx].startByte) {
					bestIdx = j
				}
			}
		}
		if bestIdx != -1 {
			caps[i].parent = caps[bestIdx].name
		}
	}
}

func encloses(outer, inner capture) bool {
	if outer.startByte == inner.startByte && outer.endByte == inner.endByte {
		return false
	}
	return outer.startByte <= inner.startByte && outer.endByte >= inner.endByte
}

// signatureOf returns the node's full source text, bounded to
// maxSignatureBytes, rather than just its opening line — a multi-line
// function signature or struct literal is kept whole up to the bound.
func signatureOf(src []byte, startByte, endByte uint32) string {
	if endByte > uint32(len(src)) {
		endByte = uint32(len(src))
	}
	if startByte >= endByte {
		return ""
	}
	sig := strings.TrimSpace(string(src[startByte:endByte]))
	if len(sig) > maxSignatureBytes {
		sig = sig[:maxSignatureBytes] + "..."
	}
	return sig
}

// docCommentOf walks upward from the line before a definition, collecting
// contiguous line-comment lines, stopping at the first blank or
// non-comment line. lineComment is the language's single-line comment
// marker ("//", "#"); languages with no marker configured get no doc
// comment extraction.
func docCommentOf(lines []string, startLine int, lineComment string) string {
	if lineComment == "" {
		return ""
	}
	var collected []string
	for i := startLine - 2; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || !strings.HasPrefix(line, lineComment) {
			break
		}
		collected = append([]string{strings.TrimSpace(strings.TrimPrefix(line, lineComment))}, collected...)
	}
	return strings.Join(collected, "\n")
}
