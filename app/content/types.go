package content

import (
	"time"
)

// Category is the closed set of content categories used for cache
// partitioning and profile matching.
type Category string

const (
	CategoryTechnology Category = "technology"
	CategoryBusiness   Category = "business"
	CategoryDesign     Category = "design"
	CategoryScience    Category = "science"
	CategoryAI         Category = "ai"
	CategoryNews       Category = "news"
)

// AllCategories returns all valid categories in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryTechnology,
		CategoryBusiness,
		CategoryDesign,
		CategoryScience,
		CategoryAI,
		CategoryNews,
	}
}

// ParseCategory maps a string to a known category. Returns false for
// anything outside the closed set.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// SourceRef is the provenance of a content item. It is never dropped
// while the item flows through the pipeline.
type SourceRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl,omitempty"`
}

// Item is the canonical content record flowing through the pipeline.
// Two items with the same URL are the same logical item.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content,omitempty"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      SourceRef `json:"source"`
	Category    Category  `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
}
