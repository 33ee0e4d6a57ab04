package models

import "time"

// BookmarkEntry is a saved copy of a Content item.
type BookmarkEntry struct {
	Content
	BookmarkedAt time.Time `json:"bookmarkedAt"`
}
