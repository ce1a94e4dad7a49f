package models

import (
	"notes-be/internal/entities"
	"notes-be/internal/query"
)

// NoteData wraps a single note for {data:{note}} responses
type NoteData struct {
	Note *entities.Note `json:"note"`
}

// NoteListData is the {data:{notes,pagination}} payload of GET /api/notes
type NoteListData struct {
	Notes      []*entities.Note `json:"notes"`
	Pagination query.Pagination `json:"pagination"`
}
