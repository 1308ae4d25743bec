package aggregator

import (
	"testing"
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

func item(url, title string, category content.Category) content.Item {
	return content.Item{
		ID:          url,
		Title:       title,
		URL:         url,
		Category:    category,
		PublishedAt: time.Now(),
	}
}

func TestDeduplicator_ExactURL(t *testing.T) {
	d := NewDeduplicator()

	items := []content.Item{
		item("https://example.com/a", "Go 1.25 released", content.CategoryTechnology),
		item("https://example.com/a", "Go 1.25 released (mirror)", content.CategoryTechnology),
		item("https://example.com/b", "Completely unrelated story", content.CategoryTechnology),
	}

	result := d.Run(items)

	if len(result) != 2 {
		t.Fatalf("Expected 2 items after URL dedup, got %d", len(result))
	}

	seen := map[string]bool{}
	for _, it := range result {
		if seen[it.URL] {
			t.Errorf("Duplicate URL survived: %s", it.URL)
		}
		seen[it.URL] = true
	}
}

func TestDeduplicator_SameTitleDifferentURL(t *testing.T) {
	d := NewDeduplicator()

	items := []content.Item{
		item("https://a.example.com/story", "OpenAI announces new model", content.CategoryAI),
		item("https://b.example.com/mirror", "OpenAI announces new model", content.CategoryAI),
	}

	result := d.Run(items)

	if len(result) != 1 {
		t.Fatalf("Expected 1 item for identical titles in the same category, got %d", len(result))
	}
	// First-seen copy wins.
	if result[0].URL != "https://a.example.com/story" {
		t.Errorf("Expected first-seen copy kept, got %s", result[0].URL)
	}
}

func TestDeduplicator_TrackingSuffixURLs(t *testing.T) {
	d := NewDeduplicator()

	// Same story, URLs differ only by tracking parameters: the URL
	// check misses, the fuzzy title check must catch it.
	items := []content.Item{
		item("https://example.com/story?utm_source=rss", "Researchers map the fruit fly brain in full", content.CategoryScience),
		item("https://example.com/story?utm_source=newsletter", "Researchers map the fruit fly brain in full", content.CategoryScience),
		item("https://example.com/other1", "Ocean temperatures hit record high", content.CategoryScience),
		item("https://example.com/other2", "Parliament passes budget bill", content.CategoryNews),
		item("https://example.com/other3", "New alloy resists extreme heat", content.CategoryScience),
	}

	result := d.Run(items)

	if len(result) != 4 {
		t.Fatalf("Expected 4 surviving items, got %d", len(result))
	}
}

func TestDeduplicator_CategoryScoped(t *testing.T) {
	d := NewDeduplicator()

	// Identical titles in different categories are not duplicates.
	items := []content.Item{
		item("https://a.example.com/x", "Weekly roundup", content.CategoryTechnology),
		item("https://b.example.com/y", "Weekly roundup", content.CategoryDesign),
	}

	result := d.Run(items)

	if len(result) != 2 {
		t.Fatalf("Fuzzy dedup must be category-scoped, got %d items", len(result))
	}
}

func TestDeduplicator_JaccardInvariant(t *testing.T) {
	d := NewDeduplicator()

	items := []content.Item{
		item("https://a.example.com/1", "Apple releases new MacBook Pro with M4 chip", content.CategoryTechnology),
		item("https://b.example.com/2", "Apple releases the new MacBook Pro with M4 chip today", content.CategoryTechnology),
		item("https://c.example.com/3", "Samsung unveils foldable tablet prototype", content.CategoryTechnology),
	}

	result := d.Run(items)

	// The near-identical pair collapses; all surviving same-category
	// pairs stay at or below the similarity threshold.
	for i := 0; i < len(result); i++ {
		for j := i + 1; j < len(result); j++ {
			if result[i].Category != result[j].Category {
				continue
			}
			sim := jaccardSimilarity(normalizeTitle(result[i].Title), normalizeTitle(result[j].Title))
			if sim > titleSimilarityThreshold {
				t.Errorf("Surviving pair exceeds similarity threshold: %q vs %q (%.2f)",
					result[i].Title, result[j].Title, sim)
			}
		}
	}

	if len(result) != 2 {
		t.Errorf("Expected near-duplicate pair collapsed, got %d items", len(result))
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Hello, World!", "hello world"},
		{"  Multiple   spaces\t here ", "multiple spaces here"},
		{"Café résumé", "cafe resume"},
		{"UPPER-case: with punctuation?!", "uppercase with punctuation"},
	}

	for _, tt := range tests {
		if got := normalizeTitle(tt.in); got != tt.expected {
			t.Errorf("normalizeTitle(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestJaccardSimilarity(t *testing.T) {
	if sim := jaccardSimilarity("a b c d", "a b c d"); sim != 1.0 {
		t.Errorf("Identical titles should score 1.0, got %.2f", sim)
	}
	if sim := jaccardSimilarity("a b c d", "e f g h"); sim != 0.0 {
		t.Errorf("Disjoint titles should score 0.0, got %.2f", sim)
	}
	if sim := jaccardSimilarity("", "a b"); sim != 0.0 {
		t.Errorf("Empty title should score 0.0, got %.2f", sim)
	}
}
