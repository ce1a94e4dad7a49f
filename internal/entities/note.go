package entities

import "time"

const DefaultNoteColor = "#ffffff"

// Note represents a note entity in the database
type Note struct {
	ID         string    `json:"id"` // UUID
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Tags       []string  `json:"tags"`
	Color      string    `json:"color"`
	IsPinned   bool      `json:"isPinned"`
	IsArchived bool      `json:"isArchived"`
	IsDeleted  bool      `json:"-"`
	UserID     *string   `json:"userId"` // nil once the owning user row is gone
	Version    int64     `json:"version"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
