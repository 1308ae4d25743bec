package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// SocialAdapter reads public social-platform endpoints: subreddit
// listings, or a Hacker-News-style trending endpoint followed by
// per-item detail fetches.
type SocialAdapter struct {
	client       *http.Client
	userAgent    string
	redditBase   string
	maxItems     int
	maxBackfills int
	now          func() time.Time
}

func NewSocialAdapter(client *http.Client, userAgent string) *SocialAdapter {
	return &SocialAdapter{
		client:       client,
		userAgent:    userAgent,
		redditBase:   "https://www.reddit.com",
		maxItems:     15,
		maxBackfills: 3,
		now:          time.Now,
	}
}

func (a *SocialAdapter) Name() string { return "social" }

func (a *SocialAdapter) Fetch(ctx context.Context, source sources.Source) ([]content.Item, error) {
	var items []content.Item
	var err error

	if source.Subreddit != "" {
		items, err = a.fetchSubreddit(ctx, source)
	} else {
		items, err = a.fetchTrending(ctx, source)
	}
	if err != nil {
		return nil, err
	}

	a.backfillImages(ctx, items)

	for i := range items {
		finalizeItem(&items[i], source)
	}

	slog.Debug("Social source fetched", "source", source.ID, "items", len(items))
	return items, nil
}

// redditListing mirrors the slice of the subreddit JSON we consume.
type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Selftext    string  `json:"selftext"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	Stickied    bool    `json:"stickied"`
	Over18      bool    `json:"over_18"`
	IsSelf      bool    `json:"is_self"`
	Thumbnail   string  `json:"thumbnail"`
	Preview     struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}

func (a *SocialAdapter) fetchSubreddit(ctx context.Context, source sources.Source) ([]content.Item, error) {
	listingURL := fmt.Sprintf("%s/r/%s/hot.json?limit=25", a.redditBase, source.Subreddit)

	data, err := fetchBody(ctx, a.client, listingURL, a.userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch subreddit listing: %w", err)
	}

	var listing redditListing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode subreddit listing: %w", err)
	}

	items := make([]content.Item, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		post := child.Data

		// Pinned posts, link-less self posts, and age-restricted
		// entries are noise for an aggregation feed.
		if post.Stickied || post.Over18 {
			continue
		}
		if post.IsSelf && strings.TrimSpace(post.Selftext) == "" {
			continue
		}
		if post.Title == "" {
			continue
		}

		link := post.URL
		if post.IsSelf {
			link = "https://www.reddit.com" + post.Permalink
		}

		item := content.Item{
			Title:       html.UnescapeString(post.Title),
			URL:         link,
			PublishedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
		}

		if text := strings.TrimSpace(post.Selftext); text != "" {
			item.Description = truncate(text, 300)
		} else {
			item.Description = fmt.Sprintf("%d points, %d comments on r/%s", post.Score, post.NumComments, source.Subreddit)
		}

		if len(post.Preview.Images) > 0 {
			item.ImageURL = html.UnescapeString(post.Preview.Images[0].Source.URL)
		} else if strings.HasPrefix(post.Thumbnail, "http") {
			item.ImageURL = post.Thumbnail
		}

		items = append(items, item)
		if len(items) >= a.maxItems {
			break
		}
	}

	return items, nil
}

// hnItem mirrors the Hacker News Firebase item shape.
type hnItem struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Score       int    `json:"score"`
	Descendants int    `json:"descendants"`
	Time        int64  `json:"time"`
	Type        string `json:"type"`
	Text        string `json:"text"`
}

func (a *SocialAdapter) fetchTrending(ctx context.Context, source sources.Source) ([]content.Item, error) {
	endpoint := strings.TrimSuffix(source.Endpoint, "/")

	data, err := fetchBody(ctx, a.client, endpoint+"/topstories.json", a.userAgent)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending ids: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode trending ids: %w", err)
	}

	items := make([]content.Item, 0, a.maxItems)
	for _, id := range ids {
		if len(items) >= a.maxItems {
			break
		}

		detail, err := fetchBody(ctx, a.client, fmt.Sprintf("%s/item/%d.json", endpoint, id), a.userAgent)
		if err != nil {
			slog.Debug("Trending item detail fetch failed", "source", source.ID, "item", id, "error", err)
			continue
		}

		var story hnItem
		if err := json.Unmarshal(detail, &story); err != nil {
			continue
		}
		if story.Type != "story" || story.Title == "" {
			continue
		}
		// Text-only stories without an external link are self posts.
		if story.URL == "" && strings.TrimSpace(story.Text) == "" {
			continue
		}

		link := story.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", id)
		}

		item := content.Item{
			Title:       html.UnescapeString(story.Title),
			URL:         link,
			PublishedAt: time.Unix(story.Time, 0).UTC(),
		}

		if text := stripHTMLTags(story.Text); text != "" {
			item.Description = truncate(text, 300)
		} else {
			item.Description = fmt.Sprintf("%d points, %d comments on Hacker News", story.Score, story.Descendants)
		}

		items = append(items, item)
	}

	return items, nil
}

// backfillImages fetches OpenGraph images for the first few items that
// lack a platform-provided thumbnail. Bounded so a single social fetch
// cannot fan out into dozens of page requests.
func (a *SocialAdapter) backfillImages(ctx context.Context, items []content.Item) {
	backfilled := 0
	for i := range items {
		if backfilled >= a.maxBackfills {
			return
		}
		if items[i].ImageURL != "" {
			continue
		}

		meta, err := fetchPageMeta(ctx, a.client, items[i].URL, a.userAgent)
		backfilled++
		if err != nil || meta.Image == "" {
			continue
		}
		items[i].ImageURL = content.FixImageURL(meta.Image, items[i].URL)
	}
}
