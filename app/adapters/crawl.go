package adapters

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// CrawlAdapter extracts articles from listing pages that offer no feed.
// The source's selector matches repeated article blocks; title, link,
// description, and image are pulled heuristically from each block.
type CrawlAdapter struct {
	client    *http.Client
	userAgent string
	maxBlocks int
	now       func() time.Time
}

func NewCrawlAdapter(client *http.Client, userAgent string) *CrawlAdapter {
	return &CrawlAdapter{
		client:    client,
		userAgent: userAgent,
		maxBlocks: 12,
		now:       time.Now,
	}
}

func (a *CrawlAdapter) Name() string { return "crawl" }

func (a *CrawlAdapter) Fetch(ctx context.Context, source sources.Source) ([]content.Item, error) {
	data, err := fetchBody(ctx, a.client, source.Endpoint, a.userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	base, err := url.Parse(source.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid source endpoint: %w", err)
	}

	var items []content.Item
	doc.Find(source.Selector).EachWithBreak(func(i int, block *goquery.Selection) bool {
		if len(items) >= a.maxBlocks {
			return false
		}

		item, ok := a.extractBlock(block, base)
		if !ok {
			return true
		}

		finalizeItem(&item, source)
		items = append(items, item)
		return true
	})

	if len(items) == 0 {
		return nil, fmt.Errorf("selector %q matched no article blocks on %s", source.Selector, source.Endpoint)
	}

	// Upgrade only the first article via its own page, to bound
	// request volume per source.
	a.upgradeFirst(ctx, items, source)

	slog.Debug("Page crawled", "source", source.ID, "items", len(items))
	return items, nil
}

// extractBlock pulls article fields from one repeated block: first
// heading, first paragraph, first link, first non-icon image.
func (a *CrawlAdapter) extractBlock(block *goquery.Selection, base *url.URL) (content.Item, bool) {
	title := strings.TrimSpace(block.Find("h1, h2, h3, h4").First().Text())
	if title == "" {
		title = strings.TrimSpace(block.Find("a").First().Text())
	}

	href, _ := block.Find("a[href]").First().Attr("href")
	if title == "" || href == "" {
		return content.Item{}, false
	}

	link := resolveURL(base, href)
	if link == "" {
		return content.Item{}, false
	}

	item := content.Item{
		Title:       title,
		Description: truncate(strings.TrimSpace(block.Find("p").First().Text()), 300),
		URL:         link,
		PublishedAt: a.now(),
	}

	block.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if src == "" || isSkippableImage(src) {
			return true
		}
		item.ImageURL = resolveURL(base, src)
		return false
	})

	return item, true
}

// upgradeFirst fetches the first article's own page and upgrades its
// metadata from OpenGraph/Twitter-card tags, plus a readability pass
// for the long-form body.
func (a *CrawlAdapter) upgradeFirst(ctx context.Context, items []content.Item, source sources.Source) {
	first := &items[0]

	data, err := fetchBody(ctx, a.client, first.URL, a.userAgent)
	if err != nil {
		slog.Debug("Article upgrade fetch failed", "source", source.ID, "url", first.URL, "error", err)
		return
	}

	meta := parsePageMeta(data)
	if meta.Description != "" {
		first.Description = truncate(meta.Description, 300)
	}
	if meta.Image != "" {
		first.ImageURL = content.FixImageURL(meta.Image, first.URL)
	}

	pageURL, err := url.Parse(first.URL)
	if err != nil {
		return
	}
	article, err := readability.FromReader(bytes.NewReader(data), pageURL)
	if err != nil || article.TextContent == "" {
		return
	}
	first.Content = article.TextContent
}

func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}
