package models

import (
	"strings"
	"time"
)

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "menunggu"
	StatusInProgress ComplaintStatus = "proses"
	StatusResolved   ComplaintStatus = "selesai"
	StatusRejected   ComplaintStatus = "ditolak"
)

// Label returns the Indonesian display label. English status names sent
// by older backends are accepted too.
func (s ComplaintStatus) Label() string {
	switch strings.ToLower(string(s)) {
	case "selesai", "resolved":
		return "Selesai"
	case "menunggu", "pending":
		return "Menunggu"
	case "ditolak", "rejected":
		return "Ditolak"
	case "proses", "in_progress":
		return "Diproses"
	default:
		return string(s)
	}
}

// Cancellable reports whether the owner may still withdraw the complaint.
func (s ComplaintStatus) Cancellable() bool {
	return strings.EqualFold(string(s), string(StatusPending))
}

type Category struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

type Attachment struct {
	FileName string `json:"file_name"`
	FileType string `json:"file_type"`
	FilePath string `json:"file_path"`
}

// URL is the public location of the attachment under the backend's
// storage root.
func (a Attachment) URL(storageBase string) string {
	return strings.TrimRight(storageBase, "/") + "/storage/" + strings.TrimLeft(a.FilePath, "/")
}

type Complaint struct {
	ID          ID              `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Location    string          `json:"location"`
	Status      ComplaintStatus `json:"status"`
	CategoryID  ID              `json:"category_id,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	UserID      ID              `json:"user_id,omitempty"`
	Response    *string         `json:"response,omitempty"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CategoryName falls back to the placeholder shown for unknown categories.
func (c Complaint) CategoryName() string {
	if c.Category == nil || c.Category.Name == "" {
		return "Tidak diketahui"
	}
	return c.Category.Name
}

// Stats is the per-status complaint summary of GET /complaint/stats.
type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"menunggu"`
	InProgress int `json:"proses"`
	Resolved   int `json:"selesai"`
	Rejected   int `json:"ditolak"`
}
