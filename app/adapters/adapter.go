package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// Fetcher converts one source kind into canonical content items. An
// error return is a recorded failure, never a panic: the orchestrator
// decides what to do with it, and one failing source cannot abort a
// batch.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, source sources.Source) ([]content.Item, error)
}

// FetchResult makes the "never throws" adapter contract explicit: a
// fetch either produced items or recorded a failure.
type FetchResult struct {
	SourceID string
	Items    []content.Item
	Err      error
}

// userAgents is rotated when a source rejects or garbles responses for
// the default agent.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

func rotatedUserAgent(attempt int) string {
	return userAgents[attempt%len(userAgents)]
}

func fetchBody(ctx context.Context, client *http.Client, url, userAgent string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// finalizeItem applies the behaviors every adapter shares: deterministic
// id, category default, image URL fixing, and the deterministic
// category fallback image when no image was extracted.
func finalizeItem(item *content.Item, source sources.Source) {
	item.ID = content.ItemID(source.ID, item.URL)
	item.Source = source.Ref()

	if item.Category == "" {
		if source.Category != "" {
			item.Category = source.Category
		} else {
			item.Category = content.ClassifyCategory(item.Title, item.Description)
		}
	}

	item.ImageURL = content.FixImageURL(item.ImageURL, item.URL)
	if item.ImageURL == "" {
		item.ImageURL = content.FallbackImage(item.Category, item.Title)
	}
}
