// Package quality scores the outcome of a redaction by comparing the text
// recovered from the original and the redacted document.
package quality

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var quoteReplacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"`", "'",
	"´", "'", // acute accent
	"“", `"`, // left double quote
	"”", `"`, // right double quote
)

// normalizeText maps typographic quotes to their ASCII forms and strips
// diacritics, so OCR variance in accents and apostrophes does not show up
// as a text difference.
func normalizeText(s string) string {
	s = quoteReplacer.Replace(s)

	decomposed := norm.NFD.String(s)
	var sb strings.Builder
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// trimEdgePunct strips leading and trailing characters that are not
// letters, digits or underscores.
func trimEdgePunct(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
}

// tokenize lowercases the text, splits it on whitespace and returns each
// word trimmed of edge punctuation and normalized. Words that are pure
// punctuation disappear.
func tokenize(text string) []string {
	raw := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		trimmed := trimEdgePunct(w)
		if trimmed == "" {
			continue
		}
		words = append(words, normalizeText(trimmed))
	}
	return words
}
