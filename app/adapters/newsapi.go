package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// APIAdapter calls keyed third-party news APIs (NewsAPI.org, GNews).
// A missing API key degrades the source to an empty result, not an
// error: deployments without provider credentials simply skip this
// adapter family.
type APIAdapter struct {
	client     *http.Client
	userAgent  string
	keys       map[string]string // provider -> API key
	maxRetries int
	baseDelay  time.Duration
	breaker    *gobreaker.CircuitBreaker[[]byte]
	maxItems   int
	now        func() time.Time
}

func NewAPIAdapter(client *http.Client, userAgent string, keys map[string]string) *APIAdapter {
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "news-api",
		Timeout: 2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("News API circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &APIAdapter{
		client:     client,
		userAgent:  userAgent,
		keys:       keys,
		maxRetries: 2,
		baseDelay:  500 * time.Millisecond,
		breaker:    breaker,
		maxItems:   20,
		now:        time.Now,
	}
}

func (a *APIAdapter) Name() string { return "api" }

func (a *APIAdapter) Fetch(ctx context.Context, source sources.Source) ([]content.Item, error) {
	key := a.keys[source.Provider]
	if key == "" {
		slog.Debug("No API key configured, skipping source", "source", source.ID, "provider", source.Provider)
		return []content.Item{}, nil
	}

	data, err := a.callWithRetry(ctx, requestURL(source, key))
	if err != nil {
		return nil, fmt.Errorf("news API call failed: %w", err)
	}

	articles, err := decodeArticles(source.Provider, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", source.Provider, err)
	}

	items := make([]content.Item, 0, len(articles))
	for _, article := range articles {
		if article.Title == "" || article.URL == "" {
			continue
		}

		item := content.Item{
			Title:       article.Title,
			Description: truncate(article.Description, 300),
			Content:     article.Content,
			URL:         article.URL,
			ImageURL:    article.ImageURL,
			PublishedAt: article.PublishedAt,
		}
		if item.PublishedAt.IsZero() {
			item.PublishedAt = a.now()
		}

		// Upstream APIs rarely tag articles with our category set;
		// finalizeItem classifies by keywords when the source has no
		// fixed category either.
		finalizeItem(&item, source)
		items = append(items, item)

		if len(items) >= a.maxItems {
			break
		}
	}

	slog.Debug("News API fetched", "source", source.ID, "provider", source.Provider, "items", len(items))
	return items, nil
}

// callWithRetry performs the HTTP call behind the circuit breaker,
// retrying rate-limited calls with exponential backoff up to the retry
// ceiling. An explicit loop, not recursion, so the ceiling is obvious.
func (a *APIAdapter) callWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= a.maxRetries; attempt++ {
		if attempt > 0 {
			delay := a.baseDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		data, err := a.breaker.Execute(func() ([]byte, error) {
			return a.call(ctx, url)
		})
		if err == nil {
			return data, nil
		}

		lastErr = err
		if !isRateLimited(err) {
			return nil, err
		}
		slog.Debug("News API rate limited, backing off", "attempt", attempt+1)
	}

	return nil, lastErr
}

type rateLimitError struct{ status string }

func (e *rateLimitError) Error() string { return "rate limited: " + e.status }

func isRateLimited(err error) bool {
	_, ok := err.(*rateLimitError)
	return ok
}

func (a *APIAdapter) call(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &rateLimitError{status: resp.Status}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 5<<20))
}

func requestURL(source sources.Source, key string) string {
	sep := "?"
	if strings.Contains(source.Endpoint, "?") {
		sep = "&"
	}

	switch source.Provider {
	case "gnews":
		return source.Endpoint + sep + "apikey=" + key
	default:
		return source.Endpoint + sep + "apiKey=" + key
	}
}

// article is the provider-neutral shape both upstream schemas decode
// into.
type article struct {
	Title       string
	Description string
	Content     string
	URL         string
	ImageURL    string
	PublishedAt time.Time
}

func decodeArticles(provider string, data []byte) ([]article, error) {
	switch provider {
	case "gnews":
		var resp struct {
			Articles []struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				Content     string    `json:"content"`
				URL         string    `json:"url"`
				Image       string    `json:"image"`
				PublishedAt time.Time `json:"publishedAt"`
			} `json:"articles"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, err
		}

		articles := make([]article, 0, len(resp.Articles))
		for _, a := range resp.Articles {
			articles = append(articles, article{
				Title:       a.Title,
				Description: a.Description,
				Content:     a.Content,
				URL:         a.URL,
				ImageURL:    a.Image,
				PublishedAt: a.PublishedAt,
			})
		}
		return articles, nil

	default: // newsapi
		var resp struct {
			Status   string `json:"status"`
			Message  string `json:"message"`
			Articles []struct {
				Title       string    `json:"title"`
				Description string    `json:"description"`
				Content     string    `json:"content"`
				URL         string    `json:"url"`
				URLToImage  string    `json:"urlToImage"`
				PublishedAt time.Time `json:"publishedAt"`
			} `json:"articles"`
		}
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, err
		}
		if resp.Status != "" && resp.Status != "ok" {
			return nil, fmt.Errorf("upstream error: %s", resp.Message)
		}

		articles := make([]article, 0, len(resp.Articles))
		for _, a := range resp.Articles {
			articles = append(articles, article{
				Title:       a.Title,
				Description: a.Description,
				Content:     a.Content,
				URL:         a.URL,
				ImageURL:    a.URLToImage,
				PublishedAt: a.PublishedAt,
			})
		}
		return articles, nil
	}
}
