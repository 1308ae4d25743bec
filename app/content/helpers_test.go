package content

import (
	"strings"
	"testing"
)

func TestItemID_Deterministic(t *testing.T) {
	first := ItemID("hackernews", "https://example.com/article")
	second := ItemID("hackernews", "https://example.com/article")

	if first != second {
		t.Errorf("Expected identical ids for repeated fetches, got %s and %s", first, second)
	}

	if !strings.HasPrefix(first, "hackernews-") {
		t.Errorf("Expected id prefixed with source id, got %s", first)
	}
}

func TestItemID_DistinctPerURL(t *testing.T) {
	first := ItemID("hackernews", "https://example.com/a")
	second := ItemID("hackernews", "https://example.com/b")

	if first == second {
		t.Errorf("Expected distinct ids for distinct URLs, got %s twice", first)
	}
}

func TestFallbackImage_Deterministic(t *testing.T) {
	first := FallbackImage(CategoryScience, "Quantum breakthrough announced")
	second := FallbackImage(CategoryScience, "Quantum breakthrough announced")

	if first != second {
		t.Errorf("Expected stable fallback image, got %s and %s", first, second)
	}

	if first == "" {
		t.Error("Expected non-empty fallback image")
	}
}

func TestFallbackImage_UnknownCategoryUsesNewsPool(t *testing.T) {
	img := FallbackImage(Category("bogus"), "Some title")
	if img == "" {
		t.Error("Expected fallback image for unknown category")
	}
}

func TestFixImageURL(t *testing.T) {
	tests := []struct {
		name     string
		imageURL string
		pageURL  string
		expected string
	}{
		{"absolute untouched", "https://cdn.example.com/a.jpg", "https://example.com/post", "https://cdn.example.com/a.jpg"},
		{"protocol relative", "//cdn.example.com/a.jpg", "https://example.com/post", "https://cdn.example.com/a.jpg"},
		{"root relative", "/images/a.jpg", "https://example.com/post", "https://example.com/images/a.jpg"},
		{"empty", "", "https://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FixImageURL(tt.imageURL, tt.pageURL)
			if got != tt.expected {
				t.Errorf("FixImageURL(%q, %q) = %q, want %q", tt.imageURL, tt.pageURL, got, tt.expected)
			}
		})
	}
}

func TestEstimateReadTime(t *testing.T) {
	if got := EstimateReadTime(""); got != "1 min read" {
		t.Errorf("Expected 1 min read for empty content, got %s", got)
	}

	longText := strings.Repeat("word ", 450)
	if got := EstimateReadTime(longText); got != "3 min read" {
		t.Errorf("Expected 3 min read for 450 words, got %s", got)
	}
}

func TestParseCategory(t *testing.T) {
	if cat, ok := ParseCategory("science"); !ok || cat != CategoryScience {
		t.Errorf("Expected science category, got %v (ok=%v)", cat, ok)
	}

	if _, ok := ParseCategory("sports"); ok {
		t.Error("Expected sports to be rejected, categories are a closed set")
	}
}
