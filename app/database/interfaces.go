package database

type BookmarkStore interface {
	GetAllBookmarks() ([]BookmarkWithTags, error)
	GetBookmarkByID(id int64) (*BookmarkWithTags, error)
	GetBookmarkCount() (int, error)
}
