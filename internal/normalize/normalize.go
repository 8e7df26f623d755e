// Package normalize turns free text and identifier names into stemmed,
// lowercase term lists comparable across the symbol, full-text, and query
// analyzer components.
package normalize

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball/english"
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {},
	"with": {}, "by": {}, "from": {}, "as": {}, "is": {}, "was": {},
	"get": {}, "set": {}, "new": {}, "old": {}, "tmp": {}, "temp": {},
	"var": {}, "fn": {}, "func": {},
}

// Normalize splits free text into unicode words, lowercases, drops
// stop-words and words of length 2 or less, then stems what remains.
func Normalize(text string) []string {
	words := splitWords(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(w)
		if _, stop := stopWords[w]; stop {
			continue
		}
		if len([]rune(w)) <= 2 {
			continue
		}
		out = append(out, english.Stem(w, false))
	}
	return out
}

// NormalizeSymbol splits an identifier on underscores and camelCase
// boundaries, then lowercases and stems each part, so
// "getUserAuthentication" and "user_authentication_handler" both produce
// overlapping term sets. Unlike Normalize it keeps stop words and drops
// only single-character parts.
func NormalizeSymbol(name string) []string {
	var parts []string
	for _, seg := range strings.Split(name, "_") {
		parts = append(parts, splitCamelCase(seg)...)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(p)
		if len([]rune(p)) <= 1 {
			continue
		}
		out = append(out, english.Stem(p, false))
	}
	return out
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// splitCamelCase breaks "getUserID" into ["get", "User", "ID"], grouping
// consecutive uppercase runs (an acronym) into a single token rather than
// one token per letter.
func splitCamelCase(s string) []string {
	if s == "" {
		return nil
	}
	runes := []rune(s)
	var parts []string
	var cur []rune
	lastWasUpper := false
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if len(cur) > 0 && !lastWasUpper {
				parts = append(parts, string(cur))
				cur = nil
			} else if len(cur) > 0 && lastWasUpper && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				// "ID" followed by "Auth" -> break before the last upper
				// letter so it starts the next word ("Auth").
				parts = append(parts, string(cur))
				cur = nil
			}
			lastWasUpper = true
		} else {
			lastWasUpper = false
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		parts = append(parts, string(cur))
	}
	return parts
}
