package models

// CreateNoteRequest represents the request body for creating a note
type CreateNoteRequest struct {
	Title    string   `json:"title" binding:"required,notblank,max=100"`
	Content  string   `json:"content" binding:"required,notblank,max=10000"`
	Tags     []string `json:"tags" binding:"omitempty,max=10,dive,notblank,max=20"`
	Color    string   `json:"color" binding:"omitempty,notecolor"`
	IsPinned bool     `json:"isPinned"`
}

// UpdateNoteRequest carries a partial update; nil fields keep their stored value.
type UpdateNoteRequest struct {
	Title      *string   `json:"title" binding:"omitempty,notblank,max=100"`
	Content    *string   `json:"content" binding:"omitempty,notblank,max=10000"`
	Tags       *[]string `json:"tags" binding:"omitempty,max=10,dive,notblank,max=20"`
	Color      *string   `json:"color" binding:"omitempty,notecolor"`
	IsPinned   *bool     `json:"isPinned"`
	IsArchived *bool     `json:"isArchived"`
}

// Empty reports whether the update carries no fields at all.
func (r *UpdateNoteRequest) Empty() bool {
	return r.Title == nil && r.Content == nil && r.Tags == nil &&
		r.Color == nil && r.IsPinned == nil && r.IsArchived == nil
}
