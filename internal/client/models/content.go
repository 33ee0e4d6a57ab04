package models

import (
	"encoding/json"
	"time"
)

type ContentType string

const (
	ContentNews         ContentType = "berita"
	ContentInfographic  ContentType = "infografis"
	ContentAnnouncement ContentType = "pengumuman"
)

// Content is an informational service post.
type Content struct {
	ID    ID          `json:"id"`
	Title string      `json:"title"`
	Type  ContentType `json:"type"`
	// Body is either a JSON string or a structured object, depending on
	// the content type.
	Body      json.RawMessage `json:"content"`
	ImageURL  *string         `json:"image_url"`
	IsActive  bool            `json:"is_active"`
	CreatedBy string          `json:"created_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// Text returns Body as plain text when it is a JSON string, or the raw
// JSON otherwise.
func (c Content) Text() string {
	var s string
	if err := json.Unmarshal(c.Body, &s); err == nil {
		return s
	}
	return string(c.Body)
}
