package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

func writeSourceFile(t *testing.T, dir, id, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, id+".yml"), []byte(body), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestCatalog_LoadsSourcesFromDirectory(t *testing.T) {
	dir := t.TempDir()

	writeSourceFile(t, dir, "hn", `
name: Hacker News
type: social
category: technology
endpoint: https://hacker-news.firebaseio.com/v0
enabled: true
`)
	writeSourceFile(t, dir, "techcrunch", `
name: TechCrunch
type: feed
category: technology
endpoint: https://techcrunch.com/feed/
enabled: true
`)

	catalog := NewCatalog(dir)
	if err := catalog.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if catalog.GetSourceCount() != 2 {
		t.Errorf("Expected 2 sources, got %d", catalog.GetSourceCount())
	}

	source, err := catalog.GetSource("hn")
	if err != nil {
		t.Fatalf("GetSource failed: %v", err)
	}
	if source.Name != "Hacker News" {
		t.Errorf("Expected name 'Hacker News', got '%s'", source.Name)
	}
	if source.ID != "hn" {
		t.Errorf("Expected id derived from filename, got '%s'", source.ID)
	}
	if source.Timeout != 10 {
		t.Errorf("Expected default timeout 10, got %d", source.Timeout)
	}
}

func TestCatalog_GetSourcesFilters(t *testing.T) {
	dir := t.TempDir()

	writeSourceFile(t, dir, "feed-tech", `
name: Feed Tech
type: feed
category: technology
endpoint: https://example.com/feed
enabled: true
`)
	writeSourceFile(t, dir, "feed-science", `
name: Feed Science
type: feed
category: science
endpoint: https://example.com/science
enabled: true
`)
	writeSourceFile(t, dir, "disabled", `
name: Disabled
type: feed
category: technology
endpoint: https://example.com/off
enabled: false
`)

	catalog := NewCatalog(dir)
	if err := catalog.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	all := catalog.GetSources("", "")
	if len(all) != 2 {
		t.Errorf("Expected 2 enabled sources, got %d", len(all))
	}

	science := catalog.GetSources(TypeFeed, content.CategoryScience)
	if len(science) != 1 || science[0].ID != "feed-science" {
		t.Errorf("Expected only feed-science for science filter, got %v", science)
	}

	crawls := catalog.GetSources(TypeCrawl, "")
	if len(crawls) != 0 {
		t.Errorf("Expected no crawl sources, got %d", len(crawls))
	}
}

func TestCatalog_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing name", "type: feed\nendpoint: https://example.com\n"},
		{"missing endpoint", "name: X\ntype: feed\n"},
		{"invalid type", "name: X\ntype: scrape\nendpoint: https://example.com\n"},
		{"crawl without selector", "name: X\ntype: crawl\nendpoint: https://example.com\n"},
		{"invalid category", "name: X\ntype: feed\nendpoint: https://example.com\ncategory: sports\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeSourceFile(t, dir, "bad", tt.body)

			catalog := NewCatalog(dir)
			if err := catalog.Run(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func TestCatalog_MissingDirectoryIsNotAnError(t *testing.T) {
	catalog := NewCatalog(filepath.Join(t.TempDir(), "does-not-exist"))
	if err := catalog.Run(); err != nil {
		t.Errorf("Missing sources directory should not be an error, got %v", err)
	}
}
