package api

import (
	"context"
	"time"

	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/database"
	"github.com/RichWangombe/bookmarkr-platform/app/recommend"
)

// NewsSource is the aggregator surface the handlers consume.
type NewsSource interface {
	GetAllNews(ctx context.Context) []content.Item
	GetNewsByCategory(ctx context.Context, category content.Category) []content.Item
	GetTrending(ctx context.Context, limit int) []content.Item
	Stats() map[string]interface{}
}

// Recommender is the recommendation engine surface the handlers consume.
type Recommender interface {
	Personalized(ctx context.Context, limit int) []recommend.Recommendation
	Similar(ctx context.Context, bookmarkID int64, limit int) ([]recommend.Recommendation, error)
	Topic(ctx context.Context, topic string, limit int) []recommend.Recommendation
	Discover(ctx context.Context, limit int) []recommend.Recommendation
}

type Handler struct {
	news         NewsSource
	recommender  Recommender
	bookmarks    database.BookmarkStore
	defaultLimit int
	startedAt    time.Time
}
