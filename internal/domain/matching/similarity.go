package matching

import (
	"math"
	"strings"

	"github.com/agnivade/levenshtein"
)

// TextSimilarity scores how alike two strings are on a 0-100 scale.
// Implementations must be symmetric, case-insensitive and return 0 when
// either input is empty.
type TextSimilarity interface {
	Score(a, b string) int
}

// LevenshteinSimilarity scores strings by normalized edit distance
type LevenshteinSimilarity struct{}

// NewLevenshteinSimilarity creates the default TextSimilarity implementation
func NewLevenshteinSimilarity() *LevenshteinSimilarity {
	return &LevenshteinSimilarity{}
}

// Score returns the normalized similarity ratio between a and b in [0, 100]
func (LevenshteinSimilarity) Score(a, b string) int {
	a = strings.ToUpper(strings.TrimSpace(a))
	b = strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if l := len([]rune(b)); l > maxLen {
		maxLen = l
	}
	ratio := 1.0 - float64(dist)/float64(maxLen)
	return int(math.Round(ratio * 100))
}

// NormalizeItemNumber canonicalizes an item number for comparison: surrounding
// whitespace is removed, and purely numeric values lose their leading zeros so
// that "013" and "13" identify the same item. Alphanumeric codes such as
// "A001" pass through unchanged.
func NormalizeItemNumber(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return s
	}
	if trimmed := strings.TrimLeft(s, "0"); trimmed != "" {
		return trimmed
	}
	return "0"
}
