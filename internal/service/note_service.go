package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"notes-be/internal/apperror"
	"notes-be/internal/entities"
	"notes-be/internal/models"
	"notes-be/internal/query"
	"notes-be/internal/repository"
)

const MsgNoteNotFound = "Note not found"

// NoteService defines the interface for note business logic. Every method is
// scoped to userID; notes owned by someone else behave as if absent.
type NoteService interface {
	List(ctx context.Context, userID string, filter query.NoteFilter) (*models.NoteListData, error)
	Get(ctx context.Context, userID, id string) (*entities.Note, error)
	Create(ctx context.Context, userID string, req *models.CreateNoteRequest) (*entities.Note, error)
	Update(ctx context.Context, userID, id string, req *models.UpdateNoteRequest) (*entities.Note, error)
	Delete(ctx context.Context, userID, id string) error
	TogglePin(ctx context.Context, userID, id string) (*entities.Note, error)
	ToggleArchive(ctx context.Context, userID, id string) (*entities.Note, error)
}

type noteService struct {
	noteRepo repository.NoteRepository
	log      *slog.Logger
}

// NewNoteService creates a new note service
func NewNoteService(noteRepo repository.NoteRepository, log *slog.Logger) NoteService {
	return &noteService{
		noteRepo: noteRepo,
		log:      log,
	}
}

// List returns one page of the caller's notes matching filter
func (s *noteService) List(ctx context.Context, userID string, filter query.NoteFilter) (*models.NoteListData, error) {
	filter = filter.Normalize()

	notes, total, err := s.noteRepo.List(ctx, query.Build(userID, filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}

	return &models.NoteListData{
		Notes:      notes,
		Pagination: query.NewPagination(filter.Page, filter.Limit, total),
	}, nil
}

// Get returns a single owned note
func (s *noteService) Get(ctx context.Context, userID, id string) (*entities.Note, error) {
	note, err := s.noteRepo.FindOwned(ctx, id, userID)
	return note, noteErr(err, "get note")
}

// Create stores a new note for the caller
func (s *noteService) Create(ctx context.Context, userID string, req *models.CreateNoteRequest) (*entities.Note, error) {
	color := req.Color
	if color == "" {
		color = entities.DefaultNoteColor
	}

	note, err := s.noteRepo.Create(ctx, &entities.Note{
		Title:    strings.TrimSpace(req.Title),
		Content:  strings.TrimSpace(req.Content),
		Tags:     trimTags(req.Tags),
		Color:    color,
		IsPinned: req.IsPinned,
		UserID:   &userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	s.log.Debug("note created", "user_id", userID, "note_id", note.ID)
	return note, nil
}

// Update applies a partial update to an owned note
func (s *noteService) Update(ctx context.Context, userID, id string, req *models.UpdateNoteRequest) (*entities.Note, error) {
	if req.Empty() {
		return nil, apperror.Validation("Validation failed", apperror.FieldError{
			Field:   "body",
			Message: "At least one field must be provided",
		})
	}

	update := repository.NoteUpdate{
		Title:      trimmed(req.Title),
		Content:    trimmed(req.Content),
		Color:      req.Color,
		IsPinned:   req.IsPinned,
		IsArchived: req.IsArchived,
	}
	if req.Tags != nil {
		tags := trimTags(*req.Tags)
		update.Tags = &tags
	}

	note, err := s.noteRepo.Update(ctx, id, userID, update)
	return note, noteErr(err, "update note")
}

// Delete soft-deletes an owned note
func (s *noteService) Delete(ctx context.Context, userID, id string) error {
	return noteErr(s.noteRepo.SoftDelete(ctx, id, userID), "delete note")
}

// TogglePin flips the pinned flag of an owned note
func (s *noteService) TogglePin(ctx context.Context, userID, id string) (*entities.Note, error) {
	note, err := s.noteRepo.TogglePin(ctx, id, userID)
	return note, noteErr(err, "toggle pin")
}

// ToggleArchive flips the archived flag of an owned note
func (s *noteService) ToggleArchive(ctx context.Context, userID, id string) (*entities.Note, error) {
	note, err := s.noteRepo.ToggleArchive(ctx, id, userID)
	return note, noteErr(err, "toggle archive")
}

func noteErr(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(MsgNoteNotFound)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// trimTags trims each tag and keeps the caller's order.
func trimTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
