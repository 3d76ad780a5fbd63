package matching

import (
	"strings"

	"github.com/StephaneWamba/InvoiceFlow/internal/domain/document"
)

// DefaultDescriptionThreshold is the minimum fuzzy score at which two line
// item descriptions are considered the same item.
const DefaultDescriptionThreshold = 80

// ItemPair records one matched left/right line item pair. Score is 100 for
// item-number matches, otherwise the description similarity that produced
// the match.
type ItemPair struct {
	Left  int
	Right int
	Score int
}

// MatchSet is the outcome of matching two ordered line item lists
type MatchSet struct {
	Pairs          []ItemPair
	UnmatchedLeft  []int
	UnmatchedRight []int
}

// ItemMatcher pairs line items across two documents using normalized
// item-number equality first and fuzzy description similarity second.
type ItemMatcher struct {
	similarity TextSimilarity
	threshold  int
}

// NewItemMatcher creates an ItemMatcher with the given similarity capability.
// A threshold <= 0 falls back to DefaultDescriptionThreshold.
func NewItemMatcher(similarity TextSimilarity, threshold int) *ItemMatcher {
	if threshold <= 0 {
		threshold = DefaultDescriptionThreshold
	}
	return &ItemMatcher{similarity: similarity, threshold: threshold}
}

// Match greedily pairs left items against right items. Left items are visited
// in order; for each, an exact normalized item-number match wins immediately,
// otherwise the unused right item with the highest description similarity at
// or above the threshold is taken. Ties resolve to the lowest right index.
// A right item is consumed by at most one pair.
func (m *ItemMatcher) Match(left, right []document.LineItem) MatchSet {
	set := MatchSet{}
	usedRight := make(map[int]bool, len(right))

	for i := range left {
		leftNum := normalizedNumber(left[i].ItemNumber)
		leftDesc := derefTrimmed(left[i].Description)

		bestIdx := -1
		bestScore := 0

		for j := range right {
			if usedRight[j] {
				continue
			}

			rightNum := normalizedNumber(right[j].ItemNumber)
			if leftNum != "" && rightNum != "" && leftNum == rightNum {
				bestIdx = j
				bestScore = 100
				break
			}

			rightDesc := derefTrimmed(right[j].Description)
			if leftDesc == "" || rightDesc == "" {
				continue
			}
			score := m.similarity.Score(leftDesc, rightDesc)
			if score >= m.threshold && score > bestScore {
				bestIdx = j
				bestScore = score
			}
		}

		if bestIdx >= 0 {
			set.Pairs = append(set.Pairs, ItemPair{Left: i, Right: bestIdx, Score: bestScore})
			usedRight[bestIdx] = true
		} else {
			set.UnmatchedLeft = append(set.UnmatchedLeft, i)
		}
	}

	for j := range right {
		if !usedRight[j] {
			set.UnmatchedRight = append(set.UnmatchedRight, j)
		}
	}

	return set
}

// Threshold returns the description similarity threshold in use
func (m *ItemMatcher) Threshold() int {
	return m.threshold
}

func normalizedNumber(s *string) string {
	if s == nil {
		return ""
	}
	return NormalizeItemNumber(*s)
}

func derefTrimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
