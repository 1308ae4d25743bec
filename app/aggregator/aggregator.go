package aggregator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/RichWangombe/bookmarkr-platform/app/adapters"
	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/sources"
)

// familyOrder fixes the merge order of adapter families, which makes
// the first-seen-wins dedup policy deterministic within a cycle.
var familyOrder = []sources.Type{
	sources.TypeFeed,
	sources.TypeCrawl,
	sources.TypeSocial,
	sources.TypeAPI,
}

type Options struct {
	BaseTTL    time.Duration
	BatchSize  int
	MaxRetries int
	BaseDelay  time.Duration // first retry backoff
	BatchDelay time.Duration // pacing between feed/social/api batches
	CrawlDelay time.Duration // pacing between crawl batches, heavier per request
}

// Aggregator owns the content cache and the reliability registry and
// coordinates fetch rounds across all adapter families. It is passed
// by injection to request handlers; there is no global state.
type Aggregator struct {
	catalog  SourceProvider
	registry *sources.Registry
	fetchers map[sources.Type]adapters.Fetcher
	cache    *Cache
	dedup    *Deduplicator
	opts     Options

	pacing      *rate.Limiter
	crawlPacing *rate.Limiter

	// Serializes refreshes so the cache and registry are only mutated
	// after a round fully resolves, never from concurrent rounds for
	// the same scope.
	refreshMu sync.Mutex
}

func New(catalog SourceProvider, registry *sources.Registry, fetchers map[sources.Type]adapters.Fetcher, opts Options) *Aggregator {
	if opts.BaseTTL == 0 {
		opts.BaseTTL = 30 * time.Minute
	}
	if opts.BatchSize == 0 {
		opts.BatchSize = 4
	}
	if opts.BaseDelay == 0 {
		opts.BaseDelay = 500 * time.Millisecond
	}
	if opts.BatchDelay == 0 {
		opts.BatchDelay = time.Second
	}
	if opts.CrawlDelay == 0 {
		opts.CrawlDelay = 2 * time.Second
	}

	return &Aggregator{
		catalog:     catalog,
		registry:    registry,
		fetchers:    fetchers,
		cache:       NewCache(opts.BaseTTL),
		dedup:       NewDeduplicator(),
		opts:        opts,
		pacing:      rate.NewLimiter(rate.Every(opts.BatchDelay), 1),
		crawlPacing: rate.NewLimiter(rate.Every(opts.CrawlDelay), 1),
	}
}

// GetAllNews returns the aggregated global result, refreshing it when
// the cache entry is stale. A refresh where every source fails serves
// the stale entry instead: availability over freshness.
func (a *Aggregator) GetAllNews(ctx context.Context) []content.Item {
	return a.getScoped(ctx, GlobalScope, "")
}

// GetNewsByCategory returns the category-scoped aggregation.
func (a *Aggregator) GetNewsByCategory(ctx context.Context, category content.Category) []content.Item {
	return a.getScoped(ctx, string(category), category)
}

// GetTrending returns the top-N most recent items across all sources.
func (a *Aggregator) GetTrending(ctx context.Context, limit int) []content.Item {
	items := a.GetAllNews(ctx)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (a *Aggregator) getScoped(ctx context.Context, scope string, category content.Category) []content.Item {
	entry, fresh := a.cache.Get(scope)
	if fresh {
		metricCacheLookups.WithLabelValues(scope, "hit").Inc()
		return entry.Items
	}
	metricCacheLookups.WithLabelValues(scope, "miss").Inc()

	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	// Another request may have refreshed this scope while we waited.
	if entry2, fresh2 := a.cache.Get(scope); fresh2 {
		return entry2.Items
	}

	items, ok := a.refresh(ctx, scope, category)
	if !ok {
		if entry != nil {
			slog.Warn("All sources failed, serving stale cache", "scope", scope, "age", time.Since(entry.LastUpdated).String())
			return entry.Items
		}
		return []content.Item{}
	}

	return items
}

// refresh fans out to all adapter families in parallel, merges in the
// fixed family order, dedupes, sorts, and stores the result. Returns
// ok=false only on total failure: sources were attempted and every one
// of them failed.
func (a *Aggregator) refresh(ctx context.Context, scope string, category content.Category) ([]content.Item, bool) {
	start := time.Now()

	familyResults := make([][]adapters.FetchResult, len(familyOrder))
	var wg sync.WaitGroup

	for i, family := range familyOrder {
		fetcher, ok := a.fetchers[family]
		if !ok {
			continue
		}

		srcs := a.registry.ReliableSubset(a.catalog.GetSources(family, category))
		if len(srcs) == 0 {
			continue
		}

		wg.Add(1)
		go func(i int, fetcher adapters.Fetcher, srcs []sources.Source) {
			defer wg.Done()
			familyResults[i] = ProcessBatches(ctx, srcs, a.batchOptions(fetcher.Name()), fetcher.Fetch)
		}(i, fetcher, srcs)
	}
	wg.Wait()

	// Reliability state and the cache are only touched here, after the
	// whole round has resolved.
	var merged []content.Item
	attempted, failed := 0, 0

	for i, family := range familyOrder {
		for _, result := range familyResults[i] {
			attempted++
			if result.Err != nil {
				failed++
				a.registry.MarkFailing(result.SourceID)
				metricFetchTotal.WithLabelValues(string(family), "failure").Inc()
				slog.Warn("Source fetch failed", "source", result.SourceID, "adapter", string(family), "error", result.Err)
				continue
			}

			a.registry.MarkHealthy(result.SourceID)
			metricFetchTotal.WithLabelValues(string(family), "success").Inc()
			merged = append(merged, result.Items...)
		}
	}

	if attempted > 0 && failed == attempted {
		return nil, false
	}

	before := len(merged)
	deduped := a.dedup.Run(merged)
	metricDedupDropped.Add(float64(before - len(deduped)))

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].PublishedAt.After(deduped[j].PublishedAt)
	})

	a.cache.Set(scope, deduped)
	metricAggregationDuration.WithLabelValues(scope).Observe(time.Since(start).Seconds())

	slog.Info("Aggregation cycle completed",
		"scope", scope,
		"sources", attempted,
		"failed", failed,
		"merged", before,
		"deduped", before-len(deduped),
		"items", len(deduped),
		"duration", time.Since(start).String())

	return deduped, true
}

func (a *Aggregator) batchOptions(adapterName string) BatchOptions {
	pacing := a.pacing
	if adapterName == "crawl" {
		pacing = a.crawlPacing
	}

	return BatchOptions{
		BatchSize:  a.opts.BatchSize,
		Pacing:     pacing,
		MaxRetries: a.opts.MaxRetries,
		BaseDelay:  a.opts.BaseDelay,
	}
}

// Stats summarizes aggregator state for the stats endpoint.
func (a *Aggregator) Stats() map[string]interface{} {
	scopes := map[string]interface{}{}

	for _, scope := range append([]string{GlobalScope}, categoryScopes()...) {
		if entry, fresh := a.cache.Get(scope); entry != nil {
			scopes[scope] = map[string]interface{}{
				"items":        len(entry.Items),
				"last_updated": entry.LastUpdated,
				"fresh":        fresh,
				"ttl":          a.cache.TTL(scope).String(),
			}
		}
	}

	return map[string]interface{}{
		"sources": a.catalog.GetSourceCount(),
		"cache":   scopes,
	}
}

func categoryScopes() []string {
	cats := content.AllCategories()
	scopes := make([]string, len(cats))
	for i, c := range cats {
		scopes[i] = string(c)
	}
	return scopes
}
