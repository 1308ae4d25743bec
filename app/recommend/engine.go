package recommend

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
)

// ErrBookmarkNotFound marks an unknown reference id in similar-content
// mode. The only recommendation error that reaches the HTTP boundary.
var ErrBookmarkNotFound = errors.New("bookmark not found")

// maxTitleOverlap bounds title similarity between items selected into
// one personalized result list.
const maxTitleOverlap = 0.7

// similarCategoryBonus is added on top of text similarity when the
// candidate shares the reference bookmark's category.
const similarCategoryBonus = 0.5

// Recommendation is an item projected for the recommendation endpoints.
type Recommendation struct {
	content.Item
	RelevanceScore float64 `json:"relevanceScore"`
	ReadTime       string  `json:"readTime"`
}

// Engine scores aggregated content against a user's saved-content
// history. All modes are best-effort: data-source errors degrade to the
// trending fallback, never to a caller-visible failure.
type Engine struct {
	storage Storage
	news    NewsProvider
	now     func() time.Time
}

func NewEngine(storage Storage, news NewsProvider) *Engine {
	return &Engine{
		storage: storage,
		news:    news,
		now:     time.Now,
	}
}

// Personalized scores the candidate pool against the user's profile and
// greedily picks the top items, skipping near-identical headlines. A
// user with no saved content gets the trending fallback unmodified.
func (e *Engine) Personalized(ctx context.Context, limit int) []Recommendation {
	trending := e.news.GetTrending(ctx, limit)

	bookmarks, err := e.storage.GetAllBookmarks()
	if err != nil {
		slog.Warn("Bookmark history unavailable, falling back to trending", "error", err)
		return e.project(trending, nil)
	}

	profile := BuildProfile(bookmarks)
	if profile.IsEmpty() {
		return e.project(trending, nil)
	}

	pool := e.candidatePool(ctx, trending, 3*limit)

	now := e.now()
	scores := make(map[string]float64, len(pool))
	for _, item := range pool {
		scores[item.ID] = scoreAgainstProfile(item, profile, now)
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return scores[pool[i].ID] > scores[pool[j].ID]
	})

	// Greedy selection: a candidate too similar to anything already
	// picked is skipped, so one widely republished story cannot fill
	// the whole list.
	var selected []content.Item
	for _, item := range pool {
		if len(selected) >= limit {
			break
		}

		duplicate := false
		for _, kept := range selected {
			if titleSimilarity(item.Title, kept.Title) > maxTitleOverlap {
				duplicate = true
				break
			}
		}
		if !duplicate {
			selected = append(selected, item)
		}
	}

	return e.project(selected, scores)
}

// Similar recommends items close to one saved bookmark, by text
// similarity over title, description, and tags with a flat bonus for a
// shared category.
func (e *Engine) Similar(ctx context.Context, bookmarkID int64, limit int) ([]Recommendation, error) {
	bookmark, err := e.storage.GetBookmarkByID(bookmarkID)
	if err != nil {
		slog.Warn("Bookmark lookup failed, falling back to trending", "id", bookmarkID, "error", err)
		return e.project(e.news.GetTrending(ctx, limit), nil), nil
	}
	if bookmark == nil {
		return nil, ErrBookmarkNotFound
	}

	reference := bookmark.Title + " " + bookmark.Description + " " + strings.Join(bookmark.Tags, " ")
	refCategory := strings.ToLower(bookmark.Category)

	// Bias the pool toward the bookmark's category, then widen.
	var pool []content.Item
	if category, ok := content.ParseCategory(refCategory); ok {
		pool = e.news.GetNewsByCategory(ctx, category)
	}
	pool = mergeByID(pool, e.news.GetAllNews(ctx), 0)

	scores := make(map[string]float64, len(pool))
	var candidates []content.Item
	for _, item := range pool {
		if item.URL == bookmark.URL {
			continue
		}

		text := item.Title + " " + item.Description + " " + strings.Join(item.Tags, " ")
		score := textSimilarity(reference, text)
		if strings.ToLower(string(item.Category)) == refCategory {
			score += similarCategoryBonus
		}

		scores[item.ID] = score
		candidates = append(candidates, item)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return scores[candidates[i].ID] > scores[candidates[j].ID]
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return e.project(candidates, scores), nil
}

// Topic recommends items for a free-text topic. A topic naming a
// category returns that category's pool directly; otherwise items are
// scored by substring presence, with trending as the last resort.
func (e *Engine) Topic(ctx context.Context, topic string, limit int) []Recommendation {
	topic = strings.ToLower(strings.TrimSpace(topic))

	for _, category := range content.AllCategories() {
		name := string(category)
		if topic == name || strings.Contains(name, topic) || strings.Contains(topic, name) {
			items := e.news.GetNewsByCategory(ctx, category)
			if len(items) > limit {
				items = items[:limit]
			}
			return e.project(items, nil)
		}
	}

	pool := e.news.GetAllNews(ctx)
	scores := make(map[string]float64, len(pool))
	var matched []content.Item

	for _, item := range pool {
		score := 0.0
		if strings.Contains(strings.ToLower(item.Title), topic) {
			score += 10
		}
		if strings.Contains(strings.ToLower(item.Description), topic) {
			score += 5
		}
		for _, tag := range item.Tags {
			if strings.Contains(strings.ToLower(tag), topic) {
				score += 7
				break
			}
		}

		if score > 0 {
			scores[item.ID] = score
			matched = append(matched, item)
		}
	}

	if len(matched) == 0 {
		return e.project(e.news.GetTrending(ctx, limit), nil)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return scores[matched[i].ID] > scores[matched[j].ID]
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}

	return e.project(matched, scores)
}

// Discover fills roughly 30% of the slots with trending items and
// spreads the rest evenly across categories, shuffled so categories
// interleave instead of appearing in blocks.
func (e *Engine) Discover(ctx context.Context, limit int) []Recommendation {
	if limit <= 0 {
		limit = 10
	}

	trendingSlots := limit * 3 / 10
	if trendingSlots < 1 {
		trendingSlots = 1
	}

	picked := make(map[string]bool)
	var result []content.Item

	for _, item := range e.news.GetTrending(ctx, trendingSlots) {
		if !picked[item.ID] {
			picked[item.ID] = true
			result = append(result, item)
		}
	}

	categories := content.AllCategories()
	remaining := limit - len(result)
	quota := remaining / len(categories)
	extras := remaining % len(categories)

	for i, category := range categories {
		want := quota
		if i < extras {
			want++
		}
		if want == 0 {
			continue
		}

		pool := e.news.GetNewsByCategory(ctx, category)
		for _, j := range rand.Perm(len(pool)) {
			if want == 0 {
				break
			}
			item := pool[j]
			if picked[item.ID] {
				continue
			}
			picked[item.ID] = true
			result = append(result, item)
			want--
		}
	}

	// Backfill from the general pool when category quotas could not be
	// met, so a thin category never shrinks the page.
	if len(result) < limit {
		for _, item := range e.news.GetAllNews(ctx) {
			if len(result) >= limit {
				break
			}
			if picked[item.ID] {
				continue
			}
			picked[item.ID] = true
			result = append(result, item)
		}
	}

	rand.Shuffle(len(result), func(i, j int) {
		result[i], result[j] = result[j], result[i]
	})

	return e.project(result, nil)
}

// candidatePool merges trending with the general pool, deduplicated by
// id and capped.
func (e *Engine) candidatePool(ctx context.Context, trending []content.Item, limit int) []content.Item {
	return mergeByID(trending, e.news.GetAllNews(ctx), limit)
}

func mergeByID(first, second []content.Item, limit int) []content.Item {
	seen := make(map[string]bool, len(first)+len(second))
	merged := make([]content.Item, 0, len(first)+len(second))

	for _, items := range [][]content.Item{first, second} {
		for _, item := range items {
			if seen[item.ID] {
				continue
			}
			if limit > 0 && len(merged) >= limit {
				return merged
			}
			seen[item.ID] = true
			merged = append(merged, item)
		}
	}

	return merged
}

// project converts items into the output shape. A nil score map leaves
// every relevance score at zero, which is what fallback paths want.
func (e *Engine) project(items []content.Item, scores map[string]float64) []Recommendation {
	recommendations := make([]Recommendation, 0, len(items))
	for _, item := range items {
		body := item.Content
		if body == "" {
			body = item.Description
		}

		recommendations = append(recommendations, Recommendation{
			Item:           item,
			RelevanceScore: scores[item.ID],
			ReadTime:       content.EstimateReadTime(body),
		})
	}
	return recommendations
}
