package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, maps punctuation and symbols to spaces, collapses
// whitespace runs and trims. Compatibility forms are folded with NFKC so that
// full-width and ligature variants compare equal. Normalize is idempotent.
func Normalize(s string) string {
	s = norm.NFKC.String(strings.ToLower(norm.NFKC.String(s)))

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsSpace(r) || unicode.IsControl(r) {
			space = b.Len() > 0
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Tokens splits normalized text into words. When minLen > 0, tokens whose
// rune length is below minLen are dropped.
func Tokens(normalized string, minLen int) []string {
	fields := strings.Fields(normalized)
	if minLen <= 0 {
		return fields
	}
	out := fields[:0:0]
	for _, f := range fields {
		if len([]rune(f)) >= minLen {
			out = append(out, f)
		}
	}
	return out
}
