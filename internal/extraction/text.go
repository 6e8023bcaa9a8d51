package extraction

import (
	"strings"
	"unicode/utf8"
)

// MaxBlobLength bounds the text fed into extraction, in runes
const MaxBlobLength = 5000

// Normalize collapses every run of whitespace (including non-breaking
// spaces) into a single space and trims the ends.
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate cuts s to at most n runes without splitting a rune
func Truncate(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return strings.TrimSpace(s[:pos])
		}
		i++
	}
	return s
}

// Blob normalizes and bounds raw text for extraction
func Blob(s string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = MaxBlobLength
	}
	return Truncate(Normalize(s), maxLen)
}
