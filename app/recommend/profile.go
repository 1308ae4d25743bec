package recommend

import (
	"strings"
	"time"
	"unicode"

	"github.com/kljensen/snowball"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/database"
)

// Profile is a derived interest model, rebuilt per request from the
// saved-content history. Never persisted.
type Profile struct {
	Terms      map[string]int // stemmed term -> accumulated weight
	Tags       map[string]bool
	Categories map[string]bool
	Sources    map[string]bool
}

// IsEmpty reports whether the profile carries no signal at all, which
// happens for users with no saved content.
func (p *Profile) IsEmpty() bool {
	return len(p.Terms) == 0 && len(p.Tags) == 0 && len(p.Categories) == 0 && len(p.Sources) == 0
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"her": true, "was": true, "one": true, "our": true, "out": true,
	"has": true, "him": true, "his": true, "how": true, "its": true,
	"new": true, "now": true, "this": true, "that": true, "with": true,
	"from": true, "they": true, "will": true, "what": true, "when": true,
	"your": true, "more": true, "about": true, "into": true, "than": true,
	"them": true, "then": true, "were": true, "have": true, "been": true,
	"their": true, "which": true, "would": true, "there": true, "could": true,
}

// BuildProfile scans the saved-content history and extracts weighted
// terms, tags, categories, and source names. Description terms weigh
// double title terms, and capitalized tokens (likely names and products)
// get an extra point.
func BuildProfile(bookmarks []database.BookmarkWithTags) *Profile {
	p := &Profile{
		Terms:      make(map[string]int),
		Tags:       make(map[string]bool),
		Categories: make(map[string]bool),
		Sources:    make(map[string]bool),
	}

	for _, b := range bookmarks {
		addTerms(p.Terms, b.Title, 1)
		addTerms(p.Terms, b.Description, 2)

		for _, tag := range b.Tags {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
				p.Tags[tag] = true
			}
		}
		if b.Category != "" {
			p.Categories[strings.ToLower(b.Category)] = true
		}
		if b.SourceName != "" {
			p.Sources[strings.ToLower(b.SourceName)] = true
		}
	}

	return p
}

func addTerms(terms map[string]int, text string, weight int) {
	for i, token := range strings.Fields(text) {
		capitalized := i > 0 && startsUpper(token)

		term := stemToken(token)
		if term == "" {
			continue
		}

		terms[term] += weight
		if capitalized {
			terms[term]++
		}
	}
}

// stemToken lowercases, strips non-alphanumerics, drops short and stop
// words, and stems the remainder. Returns "" for tokens to discard.
func stemToken(token string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(token) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}

	word := sb.String()
	if len(word) < 3 || stopWords[word] {
		return ""
	}

	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil {
		return word
	}
	return stemmed
}

func startsUpper(token string) bool {
	for _, r := range token {
		return unicode.IsUpper(r)
	}
	return false
}

// Scoring weights. Explicit user signals (tags, categories, sources)
// dominate over incidental term overlap.
const (
	termWeight     = 2.0
	tagWeight      = 5.0
	categoryWeight = 10.0
	sourceWeight   = 7.0
	recencyWeight  = 5.0
	recencyWindow  = 24 * time.Hour
)

// scoreAgainstProfile computes the additive relevance of an item for a
// profile. Uncapped: an item matching on every axis outranks any item
// matching on one.
func scoreAgainstProfile(item content.Item, profile *Profile, now time.Time) float64 {
	score := 0.0

	itemTerms := make(map[string]bool)
	for _, token := range strings.Fields(item.Title + " " + item.Description) {
		if term := stemToken(token); term != "" {
			itemTerms[term] = true
		}
	}
	for term := range profile.Terms {
		if itemTerms[term] {
			score += termWeight
		}
	}

	for _, tag := range item.Tags {
		if profile.Tags[strings.ToLower(tag)] {
			score += tagWeight
		}
	}

	if profile.Categories[strings.ToLower(string(item.Category))] {
		score += categoryWeight
	}
	if profile.Sources[strings.ToLower(item.Source.Name)] {
		score += sourceWeight
	}

	if age := now.Sub(item.PublishedAt); age >= 0 && age < recencyWindow {
		score += recencyWeight * (1 - float64(age)/float64(recencyWindow))
	}

	return score
}
