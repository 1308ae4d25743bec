package database

import (
	"time"
)

// Bookmark represents a saved item record in the database
type Bookmark struct {
	ID          int64
	Title       string
	Description string
	URL         string
	ImageURL    string
	Category    string
	SourceName  string
	FolderName  string
	CreatedAt   time.Time
}

// BookmarkWithTags is a bookmark joined with its tag names. This is the
// shape the recommendation profile builder consumes.
type BookmarkWithTags struct {
	Bookmark
	Tags []string
}
