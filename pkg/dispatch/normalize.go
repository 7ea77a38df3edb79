package dispatch

import (
	"strings"
)

// punctuation is the fixed set of full-width and half-width characters
// stripped before keyword lookup.
const punctuation = "。，！？、；：“”‘’（）【】《》.,!?;:\"'()"

// Normalize strips the punctuation set and trims surrounding whitespace.
// Keyword lookup operates on the normalized form only.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.TrimSpace(text) {
		if strings.ContainsRune(punctuation, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
