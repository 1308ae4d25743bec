package aggregator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/RichWangombe/bookmarkr-platform/app/adapters"
	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// FetchFunc fetches one source. Adapters satisfy this via their Fetch
// method.
type FetchFunc func(ctx context.Context, source sources.Source) ([]content.Item, error)

// BatchOptions bound the outbound request pattern of one fetch round.
type BatchOptions struct {
	BatchSize  int
	Pacing     *rate.Limiter // waits between batches, heavier for crawl sources
	MaxRetries int
	BaseDelay  time.Duration
}

// ProcessBatches splits sources into fixed-size groups, fetches each
// group concurrently, waits for the whole group (successes and
// failures) before starting the next, and paces between groups. This
// bounds simultaneous outbound connections and respects the informal
// rate limits of third-party sites.
func ProcessBatches(ctx context.Context, srcs []sources.Source, opts BatchOptions, fetch FetchFunc) []adapters.FetchResult {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 4
	}

	results := make([]adapters.FetchResult, 0, len(srcs))

	for start := 0; start < len(srcs); start += opts.BatchSize {
		// The limiter's burst of one lets the first batch start
		// immediately and paces every batch after it.
		if opts.Pacing != nil {
			if err := opts.Pacing.Wait(ctx); err != nil {
				return results
			}
		}

		end := start + opts.BatchSize
		if end > len(srcs) {
			end = len(srcs)
		}
		batch := srcs[start:end]

		batchResults := make([]adapters.FetchResult, len(batch))
		var wg sync.WaitGroup
		for i, src := range batch {
			wg.Add(1)
			go func(i int, src sources.Source) {
				defer wg.Done()
				items, err := fetchWithRetry(ctx, src, opts, fetch)
				batchResults[i] = adapters.FetchResult{SourceID: src.ID, Items: items, Err: err}
			}(i, src)
		}
		wg.Wait()

		results = append(results, batchResults...)
	}

	return results
}

// fetchWithRetry is a bounded retry loop with exponential backoff. The
// ceiling is explicit: MaxRetries re-attempts after the initial call.
func fetchWithRetry(ctx context.Context, src sources.Source, opts BatchOptions, fetch FetchFunc) ([]content.Item, error) {
	var lastErr error

	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := opts.BaseDelay * time.Duration(1<<uint(attempt-1))
			slog.Debug("Retrying source fetch", "source", src.ID, "attempt", attempt+1, "delay", delay.String())
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		items, err := fetch(ctx, src)
		if err == nil {
			return items, nil
		}
		lastErr = err
	}

	return nil, lastErr
}
