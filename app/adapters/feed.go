package adapters

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// FeedAdapter fetches RSS/Atom syndication feeds.
type FeedAdapter struct {
	client    *http.Client
	parser    *gofeed.Parser
	userAgent string
	maxItems  int
	now       func() time.Time
}

func NewFeedAdapter(client *http.Client, userAgent string) *FeedAdapter {
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent

	return &FeedAdapter{
		client:    client,
		parser:    parser,
		userAgent: userAgent,
		maxItems:  20,
		now:       time.Now,
	}
}

func (a *FeedAdapter) Name() string { return "feed" }

func (a *FeedAdapter) Fetch(ctx context.Context, source sources.Source) ([]content.Item, error) {
	feed, err := a.parser.ParseURLWithContext(source.Endpoint, ctx)
	if err != nil {
		// Some origins reject feed-reader user agents or serve
		// mangled bodies; retry raw with rotated browser agents and
		// re-parse before giving up.
		feed, err = a.fetchRaw(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("failed to parse feed %s: %w", source.Endpoint, err)
		}
	}

	items := make([]content.Item, 0, len(feed.Items))
	for i, entry := range feed.Items {
		if i >= a.maxItems {
			break
		}
		if entry.Link == "" || entry.Title == "" {
			continue
		}

		item := a.normalizeEntry(entry)
		finalizeItem(&item, source)
		items = append(items, item)
	}

	slog.Debug("Feed fetched", "source", source.ID, "items", len(items))
	return items, nil
}

func (a *FeedAdapter) fetchRaw(ctx context.Context, source sources.Source) (*gofeed.Feed, error) {
	var lastErr error

	for attempt := 0; attempt < len(userAgents); attempt++ {
		data, err := fetchBody(ctx, a.client, source.Endpoint, rotatedUserAgent(attempt))
		if err != nil {
			lastErr = err
			continue
		}

		feed, err := a.parser.Parse(bytes.NewReader(data))
		if err != nil {
			lastErr = err
			continue
		}

		slog.Debug("Feed recovered via raw fetch", "source", source.ID, "attempt", attempt+1)
		return feed, nil
	}

	return nil, lastErr
}

func (a *FeedAdapter) normalizeEntry(entry *gofeed.Item) content.Item {
	item := content.Item{
		Title:       strings.TrimSpace(entry.Title),
		Description: truncate(stripHTMLTags(entry.Description), 300),
		Content:     entry.Content,
		URL:         entry.Link,
		Tags:        entry.Categories,
	}

	if entry.PublishedParsed != nil {
		item.PublishedAt = *entry.PublishedParsed
	} else if entry.UpdatedParsed != nil {
		item.PublishedAt = *entry.UpdatedParsed
	} else {
		item.PublishedAt = a.now()
	}

	item.ImageURL = a.extractImage(entry)

	return item
}

// extractImage checks media enclosure fields first, then falls back to
// regex-scanning the embedded HTML.
func (a *FeedAdapter) extractImage(entry *gofeed.Item) string {
	if entry.Image != nil && entry.Image.URL != "" && !isSkippableImage(entry.Image.URL) {
		return entry.Image.URL
	}

	for _, enclosure := range entry.Enclosures {
		if enclosure == nil {
			continue
		}
		if strings.HasPrefix(enclosure.Type, "image/") && enclosure.URL != "" {
			return enclosure.URL
		}
	}

	if media, ok := entry.Extensions["media"]; ok {
		for _, key := range []string{"content", "thumbnail"} {
			for _, ext := range media[key] {
				if url := ext.Attrs["url"]; url != "" && !isSkippableImage(url) {
					return url
				}
			}
		}
	}

	if img := extractImageFromHTML(entry.Content); img != "" {
		return img
	}
	return extractImageFromHTML(entry.Description)
}
