package recommend

import (
	"context"

	"github.com/RichWangombe/bookmarkr-platform/app/aggregator"
	"github.com/RichWangombe/bookmarkr-platform/app/content"
	"github.com/RichWangombe/bookmarkr-platform/app/database"
)

// Storage is the saved-content history the profile builder scans. The
// bookmark repository satisfies it.
type Storage interface {
	GetAllBookmarks() ([]database.BookmarkWithTags, error)
	GetBookmarkByID(id int64) (*database.BookmarkWithTags, error)
}

// NewsProvider supplies candidate items. The aggregator satisfies it.
type NewsProvider interface {
	GetAllNews(ctx context.Context) []content.Item
	GetNewsByCategory(ctx context.Context, category content.Category) []content.Item
	GetTrending(ctx context.Context, limit int) []content.Item
}

var (
	_ Storage      = (*database.BookmarkRepository)(nil)
	_ NewsProvider = (*aggregator.Aggregator)(nil)
)
