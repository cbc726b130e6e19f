package alignment

import (
	"strings"
	"unicode"
)

// Normalize lowercases s, strips punctuation, and collapses runs of
// whitespace into single spaces. All matching in this package works on
// normalized strings.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// Punctuation acts as a word boundary.
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokens splits s into normalized words.
func Tokens(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// tokenOverlap returns the fraction of tokens in a that also occur in b.
func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	hits := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(a))
}

// charOverlapWindow slides a window of len(needle) over haystack and returns
// the best per-position character agreement ratio. Both inputs must already
// be normalized.
func charOverlapWindow(needle, haystack string) float64 {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return 0
	}
	best := 0.0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		same := 0
		for j := 0; j < len(needle); j++ {
			if haystack[i+j] == needle[j] {
				same++
			}
		}
		if r := float64(same) / float64(len(needle)); r > best {
			best = r
		}
	}
	return best
}
