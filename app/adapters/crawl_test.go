package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

const listingHTML = `<!DOCTYPE html>
<html><body>
<div class="post">
  <h2>Design Systems at Scale</h2>
  <p>How large teams keep interfaces consistent.</p>
  <a href="/articles/design-systems">Read more</a>
  <img src="/img/icon-small.png">
  <img src="/img/design-hero.jpg">
</div>
<div class="post">
  <h2>Color Theory Basics</h2>
  <p>A primer on palettes.</p>
  <a href="https://blog.example.com/color-theory">Read</a>
</div>
<div class="post">
  <h2></h2>
  <a href="/articles/broken"></a>
</div>
</body></html>`

const articleHTML = `<!DOCTYPE html>
<html><head>
<meta property="og:description" content="Upgraded description from OpenGraph.">
<meta property="og:image" content="https://cdn.example.com/og-hero.jpg">
</head><body><article><p>` + "Full article body text. " + `</p></article></body></html>`

func TestCrawlAdapter_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	defer server.Close()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(listingHTML))
	})
	mux.HandleFunc("/articles/design-systems", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Replace(articleHTML, "Full article body text. ", strings.Repeat("Full article body text. ", 40), 1)))
	})

	source := sources.Source{
		ID:       "designblog",
		Name:     "Design Blog",
		Type:     sources.TypeCrawl,
		Category: content.CategoryDesign,
		Endpoint: server.URL + "/",
		Selector: "div.post",
		Enabled:  true,
	}

	adapter := NewCrawlAdapter(server.Client(), "Test/1.0")
	items, err := adapter.Fetch(context.Background(), source)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Block without a heading is dropped.
	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Design Systems at Scale" {
		t.Errorf("Unexpected title %q", first.Title)
	}
	if !strings.HasPrefix(first.URL, server.URL) {
		t.Errorf("Expected relative link resolved against origin, got %q", first.URL)
	}

	// First article is upgraded from its own page's OpenGraph tags.
	if first.Description != "Upgraded description from OpenGraph." {
		t.Errorf("Expected OpenGraph description upgrade, got %q", first.Description)
	}
	if first.ImageURL != "https://cdn.example.com/og-hero.jpg" {
		t.Errorf("Expected OpenGraph image upgrade, got %q", first.ImageURL)
	}
	if first.Content == "" {
		t.Error("Expected readability-extracted body for first article")
	}

	second := items[1]
	if second.URL != "https://blog.example.com/color-theory" {
		t.Errorf("Expected absolute link kept as-is, got %q", second.URL)
	}
	if second.Description != "A primer on palettes." {
		t.Errorf("Unexpected description %q", second.Description)
	}
	if second.Content != "" {
		t.Error("Only the first article should get a secondary fetch")
	}
}

func TestCrawlAdapter_SelectorMatchesNothing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer server.Close()

	source := sources.Source{
		ID:       "empty",
		Name:     "Empty",
		Type:     sources.TypeCrawl,
		Endpoint: server.URL,
		Selector: "div.article",
	}

	adapter := NewCrawlAdapter(server.Client(), "Test/1.0")
	if _, err := adapter.Fetch(context.Background(), source); err == nil {
		t.Error("Expected an error when the selector matches no blocks")
	}
}

func TestCrawlAdapter_SkipsIconImages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Write([]byte(`<html><body>
				<div class="post"><h2>Post A</h2><a href="/a">link</a><img src="/logo.svg"><img src="/photo.jpg"></div>
				<div class="post"><h2>Post B</h2><a href="/b">link</a></div>
			</body></html>`))
			return
		}
		w.Write([]byte(`<html><head></head><body></body></html>`))
	}))
	defer server.Close()

	source := sources.Source{
		ID:       "icons",
		Name:     "Icons",
		Type:     sources.TypeCrawl,
		Category: content.CategoryNews,
		Endpoint: server.URL + "/",
		Selector: "div.post",
	}

	adapter := NewCrawlAdapter(server.Client(), "Test/1.0")
	items, err := adapter.Fetch(context.Background(), source)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if !strings.HasSuffix(items[0].ImageURL, "/photo.jpg") {
		t.Errorf("Expected non-icon image, got %q", items[0].ImageURL)
	}
}
