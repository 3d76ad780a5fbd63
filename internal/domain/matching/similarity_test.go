package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshteinSimilarity_Score(t *testing.T) {
	similarity := NewLevenshteinSimilarity()

	t.Run("identical strings score 100", func(t *testing.T) {
		assert.Equal(t, 100, similarity.Score("Widget Type A", "Widget Type A"))
	})

	t.Run("comparison is case insensitive", func(t *testing.T) {
		assert.Equal(t, 100, similarity.Score("ACME Corp", "acme corp"))
	})

	t.Run("surrounding whitespace is ignored", func(t *testing.T) {
		assert.Equal(t, 100, similarity.Score("  Widget  ", "Widget"))
	})

	t.Run("empty strings never match", func(t *testing.T) {
		assert.Equal(t, 0, similarity.Score("", "Widget"))
		assert.Equal(t, 0, similarity.Score("Widget", ""))
		assert.Equal(t, 0, similarity.Score("", ""))
	})

	t.Run("single character difference scores high", func(t *testing.T) {
		score := similarity.Score("Widget Type A", "Widget Type B")
		assert.GreaterOrEqual(t, score, 90)
		assert.Less(t, score, 100)
	})

	t.Run("unrelated strings score low", func(t *testing.T) {
		score := similarity.Score("Widget Type A", "Office Chair")
		assert.Less(t, score, 40)
	})

	t.Run("score is symmetric", func(t *testing.T) {
		assert.Equal(t,
			similarity.Score("Blue Widget", "Blue Gadget"),
			similarity.Score("Blue Gadget", "Blue Widget"))
	})
}

func TestNormalizeItemNumber(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips leading zeros", "007", "7"},
		{"plain number unchanged", "42", "42"},
		{"zero stays zero", "0", "0"},
		{"all zeros collapse to zero", "0000", "0"},
		{"digits wider than int64", "00012345678901234567890", "12345678901234567890"},
		{"trims whitespace", "  15  ", "15"},
		{"alphanumeric kept verbatim", "A-12", "A-12"},
		{"alphanumeric trimmed", " SKU-01 ", "SKU-01"},
		{"empty stays empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeItemNumber(tc.input))
		})
	}
}
