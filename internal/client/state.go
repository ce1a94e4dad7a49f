package client

import (
	"notes-be/internal/entities"
	"notes-be/internal/query"
)

// State is the client's view of the caller's notes.
type State struct {
	Notes       []*entities.Note
	CurrentNote *entities.Note
	Loading     bool
	Error       string
	Pagination  query.Pagination
	Filters     query.NoteFilter
}

// InitialState is an empty first page with the default filters.
func InitialState() State {
	return State{
		Notes:      []*entities.Note{},
		Pagination: query.Pagination{CurrentPage: query.DefaultPage},
		Filters:    query.NoteFilter{}.Normalize(),
	}
}

// Action is a state transition understood by Reduce.
type Action interface {
	isAction()
}

type (
	SetLoading struct{ Loading bool }
	SetError   struct{ Message string }
	SetNotes   struct {
		Notes      []*entities.Note
		Pagination query.Pagination
	}
	AddNote          struct{ Note *entities.Note }
	UpdateNote       struct{ Note *entities.Note }
	DeleteNote       struct{ ID string }
	SetCurrentNote   struct{ Note *entities.Note }
	ClearCurrentNote struct{}
	// SetFilters replaces the active filters; the store refetches page 1.
	SetFilters struct{ Filters query.NoteFilter }
	ClearError struct{}
)

func (SetLoading) isAction()       {}
func (SetError) isAction()         {}
func (SetNotes) isAction()         {}
func (AddNote) isAction()          {}
func (UpdateNote) isAction()       {}
func (DeleteNote) isAction()       {}
func (SetCurrentNote) isAction()   {}
func (ClearCurrentNote) isAction() {}
func (SetFilters) isAction()       {}
func (ClearError) isAction()       {}

// Reduce returns the state after applying a. It never mutates s: the note
// slice is copied whenever it changes.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case SetLoading:
		s.Loading = a.Loading
	case SetError:
		s.Error = a.Message
		s.Loading = false
	case SetNotes:
		s.Notes = append([]*entities.Note{}, a.Notes...)
		s.Pagination = a.Pagination
		s.Loading = false
		s.Error = ""
	case AddNote:
		if a.Note == nil {
			return s
		}
		notes := make([]*entities.Note, 0, len(s.Notes)+1)
		s.Notes = append(append(notes, a.Note), s.Notes...)
		s.Pagination.TotalNotes++
		s.Loading = false
	case UpdateNote:
		if a.Note == nil {
			return s
		}
		notes := make([]*entities.Note, len(s.Notes))
		for i, n := range s.Notes {
			if n.ID == a.Note.ID {
				n = a.Note
			}
			notes[i] = n
		}
		s.Notes = notes
		if s.CurrentNote != nil && s.CurrentNote.ID == a.Note.ID {
			s.CurrentNote = a.Note
		}
		s.Loading = false
	case DeleteNote:
		notes := make([]*entities.Note, 0, len(s.Notes))
		for _, n := range s.Notes {
			if n.ID != a.ID {
				notes = append(notes, n)
			}
		}
		s.Notes = notes
		if s.Pagination.TotalNotes > 0 {
			s.Pagination.TotalNotes--
		}
		if s.CurrentNote != nil && s.CurrentNote.ID == a.ID {
			s.CurrentNote = nil
		}
		s.Loading = false
	case SetCurrentNote:
		s.CurrentNote = a.Note
		s.Loading = false
	case ClearCurrentNote:
		s.CurrentNote = nil
	case SetFilters:
		s.Filters = a.Filters.Normalize()
	case ClearError:
		s.Error = ""
	}
	return s
}
