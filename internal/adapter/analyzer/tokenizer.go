package analyzer

import (
	"strings"
	"unicode"
)

// Tokenizer estimates LLM token counts for source chunks.
type Tokenizer struct {
	splitCamel bool
}

// NewTokenizer creates a new Tokenizer. With splitCamel set, identifiers
// such as useCallback count as their camelCase parts.
func NewTokenizer(splitCamel bool) *Tokenizer {
	return &Tokenizer{splitCamel: splitCamel}
}

// Words splits text into identifier-like words.
func (t *Tokenizer) Words(text string) []string {
	words := splitWords(text)
	if !t.splitCamel {
		return words
	}
	parts := make([]string, 0, len(words))
	for _, w := range words {
		parts = append(parts, splitCamel(w)...)
	}
	return parts
}

// CountTokens returns an approximate token count for budget estimation.
// Words weigh about 1.3 tokens each; every punctuation or symbol rune is
// counted as its own token, which matters for JSX-heavy code.
func (t *Tokenizer) CountTokens(text string) int {
	words := t.Words(text)
	symbols := 0
	for _, r := range text {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			symbols++
		}
	}
	if len(words) == 0 {
		return symbols
	}
	return int(float64(len(words))*1.3) + symbols
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

// splitCamel splits "useLayoutEffect" into use, Layout, Effect and
// "HTMLElement" into HTML, Element. Underscores always separate.
func splitCamel(word string) []string {
	var parts []string
	for _, seg := range strings.Split(word, "_") {
		runes := []rune(seg)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			lowerToUpper := unicode.IsLower(prev) && unicode.IsUpper(cur)
			acronymEnd := unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if lowerToUpper || acronymEnd {
				parts = append(parts, string(runes[start:i]))
				start = i
			}
		}
		if start < len(runes) {
			parts = append(parts, string(runes[start:]))
		}
	}
	return parts
}
