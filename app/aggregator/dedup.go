package aggregator

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

const (
	// Normalized titles within the same category above this token-set
	// similarity are treated as the same story republished.
	titleSimilarityThreshold = 0.75

	// Containment only counts for titles long enough that a substring
	// match is meaningful.
	containmentMinLength = 20
)

// Deduplicator removes exact URL duplicates and fuzzy title duplicates
// from a merged result set in a single pass. The first-seen copy of a
// story is kept; the fan-out order of adapter families is fixed, so
// first-seen is deterministic within an aggregation cycle.
type Deduplicator struct{}

func NewDeduplicator() *Deduplicator {
	return &Deduplicator{}
}

func (d *Deduplicator) Run(items []content.Item) []content.Item {
	accepted := make([]content.Item, 0, len(items))
	seenURLs := make(map[string]bool, len(items))
	titlesByCategory := make(map[content.Category][]string)

	for _, item := range items {
		if seenURLs[item.URL] {
			continue
		}

		normalized := normalizeTitle(item.Title)
		if d.isFuzzyDuplicate(normalized, titlesByCategory[item.Category]) {
			continue
		}

		seenURLs[item.URL] = true
		titlesByCategory[item.Category] = append(titlesByCategory[item.Category], normalized)
		accepted = append(accepted, item)
	}

	return accepted
}

func (d *Deduplicator) isFuzzyDuplicate(normalized string, acceptedTitles []string) bool {
	if normalized == "" {
		return false
	}

	for _, existing := range acceptedTitles {
		if existing == normalized {
			return true
		}

		if len(normalized) >= containmentMinLength && len(existing) >= containmentMinLength {
			if strings.Contains(existing, normalized) || strings.Contains(normalized, existing) {
				return true
			}
		}

		if jaccardSimilarity(normalized, existing) > titleSimilarityThreshold {
			return true
		}
	}

	return false
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeTitle lowercases, strips diacritics and punctuation, and
// collapses whitespace, so republished titles compare equal across
// cosmetic differences.
func normalizeTitle(title string) string {
	lower := strings.ToLower(title)

	if stripped, _, err := transform.String(diacriticStripper, lower); err == nil {
		lower = stripped
	}

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// jaccardSimilarity computes token-set similarity between two
// normalized titles.
func jaccardSimilarity(a, b string) float64 {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(tokensA))
	for _, tok := range tokensA {
		setA[tok] = true
	}

	setB := make(map[string]bool, len(tokensB))
	intersection := 0
	for _, tok := range tokensB {
		if setB[tok] {
			continue
		}
		setB[tok] = true
		if setA[tok] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
