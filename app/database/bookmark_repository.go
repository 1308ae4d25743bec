package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// BookmarkRepository handles database operations for bookmarks
type BookmarkRepository struct {
	db *DB
}

// NewBookmarkRepository creates a new bookmark repository
func NewBookmarkRepository(db *DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// GetAllBookmarks returns every bookmark with its tag names, newest first.
func (r *BookmarkRepository) GetAllBookmarks() ([]BookmarkWithTags, error) {
	rows, err := r.db.Query(`
		SELECT b.id, b.title, b.description, b.url, b.image_url, b.category,
		       b.source_name, b.folder_name, b.created_at,
		       GROUP_CONCAT(t.name)
		FROM bookmarks b
		LEFT JOIN bookmark_tags bt ON bt.bookmark_id = b.id
		LEFT JOIN tags t ON t.id = bt.tag_id
		GROUP BY b.id
		ORDER BY b.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []BookmarkWithTags
	for rows.Next() {
		bookmark, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, *bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// GetBookmarkByID returns one bookmark with its tags, or nil when the id
// is unknown.
func (r *BookmarkRepository) GetBookmarkByID(id int64) (*BookmarkWithTags, error) {
	rows, err := r.db.Query(`
		SELECT b.id, b.title, b.description, b.url, b.image_url, b.category,
		       b.source_name, b.folder_name, b.created_at,
		       GROUP_CONCAT(t.name)
		FROM bookmarks b
		LEFT JOIN bookmark_tags bt ON bt.bookmark_id = b.id
		LEFT JOIN tags t ON t.id = bt.tag_id
		WHERE b.id = ?
		GROUP BY b.id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmark: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	return scanBookmark(rows)
}

// CreateBookmark inserts a bookmark and its tags, creating tag records
// as needed. Returns the new bookmark id.
func (r *BookmarkRepository) CreateBookmark(bookmark Bookmark, tags []string) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		INSERT INTO bookmarks (title, description, url, image_url, category, source_name, folder_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, bookmark.Title, bookmark.Description, bookmark.URL, bookmark.ImageURL,
		bookmark.Category, bookmark.SourceName, bookmark.FolderName)
	if err != nil {
		return 0, fmt.Errorf("failed to insert bookmark: %w", err)
	}

	bookmarkID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get bookmark id: %w", err)
	}

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}

		if _, err := tx.Exec(`INSERT INTO tags (name) VALUES (?) ON CONFLICT (name) DO NOTHING`, tag); err != nil {
			return 0, fmt.Errorf("failed to insert tag: %w", err)
		}

		if _, err := tx.Exec(`
			INSERT INTO bookmark_tags (bookmark_id, tag_id)
			SELECT ?, id FROM tags WHERE name = ?
		`, bookmarkID, tag); err != nil {
			return 0, fmt.Errorf("failed to link tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit bookmark: %w", err)
	}

	return bookmarkID, nil
}

// GetBookmarkCount returns the number of stored bookmarks.
func (r *BookmarkRepository) GetBookmarkCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM bookmarks`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return count, nil
}

func scanBookmark(rows *sql.Rows) (*BookmarkWithTags, error) {
	var b BookmarkWithTags
	var tagList sql.NullString

	err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.URL, &b.ImageURL,
		&b.Category, &b.SourceName, &b.FolderName, &b.CreatedAt, &tagList)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}

	if tagList.Valid && tagList.String != "" {
		b.Tags = strings.Split(tagList.String, ",")
	}

	return &b, nil
}
