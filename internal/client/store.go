package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"notes-be/internal/entities"
	"notes-be/internal/models"
	"notes-be/internal/query"
)

// API is the part of Client the store drives.
type API interface {
	ListNotes(ctx context.Context, f query.NoteFilter) (models.NoteListData, error)
	GetNote(ctx context.Context, id string) (*entities.Note, error)
	CreateNote(ctx context.Context, req models.CreateNoteRequest) (*entities.Note, error)
	UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (*entities.Note, error)
	DeleteNote(ctx context.Context, id string) error
	TogglePin(ctx context.Context, id string) (*entities.Note, error)
	ToggleArchive(ctx context.Context, id string) (*entities.Note, error)
}

// ErrStale is returned by FetchNotes when a newer fetch was issued before the
// response arrived. The response is dropped without touching the state.
var ErrStale = errors.New("client: superseded by a newer fetch")

// Store holds State and applies actions to it. All methods are safe for
// concurrent use; subscribers are called outside the lock.
type Store struct {
	api API
	log *slog.Logger

	mu          sync.Mutex
	state       State
	fetchSeq    uint64
	subscribers map[int]func(State)
	nextSubID   int
}

func NewStore(api API, log *slog.Logger) *Store {
	return &Store{
		api:         api,
		log:         log,
		state:       InitialState(),
		subscribers: make(map[int]func(State)),
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers fn to receive every new state. The returned func
// removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a and notifies subscribers.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	s.state = Reduce(s.state, a)
	st := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
	return st
}

func (s *Store) fail(op string, err error) error {
	s.log.Debug("client request failed", "op", op, "error", err)
	s.Dispatch(SetError{Message: errorMessage(err)})
	return err
}

// FetchNotes loads page with the active filters. Only the most recently
// issued fetch may write its result.
func (s *Store) FetchNotes(ctx context.Context, page int) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	f := s.state.Filters
	s.mu.Unlock()
	f.Page = page

	s.Dispatch(SetLoading{Loading: true})
	resp, err := s.api.ListNotes(ctx, f)

	s.mu.Lock()
	stale := seq != s.fetchSeq
	s.mu.Unlock()
	if stale {
		return ErrStale
	}
	if err != nil {
		return s.fail("fetch notes", err)
	}
	s.Dispatch(SetNotes{Notes: resp.Notes, Pagination: resp.Pagination})
	return nil
}

// FetchNote loads a note into CurrentNote.
func (s *Store) FetchNote(ctx context.Context, id string) (*entities.Note, error) {
	s.Dispatch(SetLoading{Loading: true})
	note, err := s.api.GetNote(ctx, id)
	if err != nil {
		return nil, s.fail("fetch note", err)
	}
	s.Dispatch(SetCurrentNote{Note: note})
	return note, nil
}

func (s *Store) CreateNote(ctx context.Context, req models.CreateNoteRequest) (*entities.Note, error) {
	s.Dispatch(SetLoading{Loading: true})
	note, err := s.api.CreateNote(ctx, req)
	if err != nil {
		return nil, s.fail("create note", err)
	}
	s.Dispatch(AddNote{Note: note})
	return note, nil
}

func (s *Store) UpdateNote(ctx context.Context, id string, req models.UpdateNoteRequest) (*entities.Note, error) {
	s.Dispatch(SetLoading{Loading: true})
	note, err := s.api.UpdateNote(ctx, id, req)
	if err != nil {
		return nil, s.fail("update note", err)
	}
	s.Dispatch(UpdateNote{Note: note})
	return note, nil
}

func (s *Store) DeleteNote(ctx context.Context, id string) error {
	s.Dispatch(SetLoading{Loading: true})
	if err := s.api.DeleteNote(ctx, id); err != nil {
		return s.fail("delete note", err)
	}
	s.Dispatch(DeleteNote{ID: id})
	return nil
}

// TogglePin does not touch the loading flag.
func (s *Store) TogglePin(ctx context.Context, id string) (*entities.Note, error) {
	note, err := s.api.TogglePin(ctx, id)
	if err != nil {
		return nil, s.fail("toggle pin", err)
	}
	s.Dispatch(UpdateNote{Note: note})
	return note, nil
}

// ToggleArchive updates the note in place; it stays listed until the next fetch.
func (s *Store) ToggleArchive(ctx context.Context, id string) (*entities.Note, error) {
	note, err := s.api.ToggleArchive(ctx, id)
	if err != nil {
		return nil, s.fail("toggle archive", err)
	}
	s.Dispatch(UpdateNote{Note: note})
	return note, nil
}

// SetFilters replaces the active filters and refetches the first page.
func (s *Store) SetFilters(ctx context.Context, f query.NoteFilter) error {
	s.Dispatch(SetFilters{Filters: f})
	return s.FetchNotes(ctx, query.DefaultPage)
}

func (s *Store) ClearError() {
	s.Dispatch(ClearError{})
}

func (s *Store) ClearCurrentNote() {
	s.Dispatch(ClearCurrentNote{})
}

func errorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
