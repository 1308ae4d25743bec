package recommend

import (
	"strings"
	"unicode"
)

// titleSimilarity is a loose, cross-category overlap check used at
// selection time to keep near-identical stories out of one result list.
// Token-set overlap over the smaller set, so a headline contained in a
// longer variant still scores high.
func titleSimilarity(a, b string) float64 {
	tokensA := wordSet(a)
	tokensB := wordSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	shared := 0
	for token := range tokensA {
		if tokensB[token] {
			shared++
		}
	}

	smaller := len(tokensA)
	if len(tokensB) < smaller {
		smaller = len(tokensB)
	}

	return float64(shared) / float64(smaller)
}

// textSimilarity compares two longer text blobs (title+description+tags)
// by Jaccard over word sets.
func textSimilarity(a, b string) float64 {
	tokensA := wordSet(a)
	tokensB := wordSet(b)
	if len(tokensA) == 0 || len(tokensB) == 0 {
		return 0
	}

	shared := 0
	for token := range tokensA {
		if tokensB[token] {
			shared++
		}
	}

	union := len(tokensA) + len(tokensB) - shared
	return float64(shared) / float64(union)
}

func wordSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(field) >= 3 && !stopWords[field] {
			set[field] = true
		}
	}
	return set
}
