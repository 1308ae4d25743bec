package adapters

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Package-level compiled regexes, avoids recompiling on every call.
var (
	reImgTag    = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*>`)
	reImgWidth  = regexp.MustCompile(`(?i)width=["']?(\d+)`)
	reImgHeight = regexp.MustCompile(`(?i)height=["']?(\d+)`)
)

// skipImagePatterns marks URLs that are icons, logos, avatars, or
// tracking pixels rather than article imagery.
var skipImagePatterns = []string{
	"icon", "logo", "avatar", "sprite", "badge", "emoji",
	"pixel", "spacer", "1x1", "blank.", "gravatar", "favicon",
	"feedburner", "doubleclick", "analytics",
}

const minImageDimension = 100

// extractImageFromHTML regex-scans embedded HTML for the first <img>
// that looks like real article imagery.
func extractImageFromHTML(html string) string {
	matches := reImgTag.FindAllStringSubmatch(html, 10)

	for _, match := range matches {
		tag := match[0]
		src := match[1]

		if isSkippableImage(src) {
			continue
		}

		if w := impliedDimension(reImgWidth, tag); w > 0 && w < minImageDimension {
			continue
		}
		if h := impliedDimension(reImgHeight, tag); h > 0 && h < minImageDimension {
			continue
		}

		return src
	}

	return ""
}

func isSkippableImage(src string) bool {
	lower := strings.ToLower(src)
	for _, pattern := range skipImagePatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func impliedDimension(re *regexp.Regexp, tag string) int {
	match := re.FindStringSubmatch(tag)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return n
}

// pageMeta holds the OpenGraph / Twitter-card metadata of an article
// page, used to upgrade heuristically extracted fields.
type pageMeta struct {
	Title       string
	Description string
	Image       string
}

func parsePageMeta(html []byte) pageMeta {
	var meta pageMeta

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return meta
	}

	readMeta := func(selector string) string {
		value, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(value)
	}

	meta.Title = readMeta(`meta[property="og:title"]`)
	if meta.Title == "" {
		meta.Title = readMeta(`meta[name="twitter:title"]`)
	}

	meta.Description = readMeta(`meta[property="og:description"]`)
	if meta.Description == "" {
		meta.Description = readMeta(`meta[name="twitter:description"]`)
	}
	if meta.Description == "" {
		meta.Description = readMeta(`meta[name="description"]`)
	}

	meta.Image = readMeta(`meta[property="og:image"]`)
	if meta.Image == "" {
		meta.Image = readMeta(`meta[name="twitter:image"]`)
	}

	return meta
}

// fetchPageMeta fetches an article page and parses its OpenGraph tags.
func fetchPageMeta(ctx context.Context, client *http.Client, pageURL, userAgent string) (pageMeta, error) {
	data, err := fetchBody(ctx, client, pageURL, userAgent)
	if err != nil {
		return pageMeta{}, err
	}
	return parsePageMeta(data), nil
}

// stripHTMLTags reduces embedded HTML to plain text for descriptions.
var reAnyTag = regexp.MustCompile(`<[^>]*>`)
var reWhitespace = regexp.MustCompile(`\s+`)

func stripHTMLTags(html string) string {
	text := reAnyTag.ReplaceAllString(html, " ")
	text = reWhitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if idx := strings.LastIndex(cut, " "); idx > max/2 {
		cut = cut[:idx]
	}
	return cut + "..."
}
