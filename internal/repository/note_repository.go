package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"notes-be/internal/entities"
	"notes-be/internal/query"
)

// NoteRepository defines the interface for note database operations.
// Every single-note method is scoped to the owner and skips soft-deleted rows;
// a note outside that scope is reported as ErrNotFound.
type NoteRepository interface {
	Create(ctx context.Context, note *entities.Note) (*entities.Note, error)
	FindOwned(ctx context.Context, id, userID string) (*entities.Note, error)
	List(ctx context.Context, q query.Query) ([]*entities.Note, int, error)
	Update(ctx context.Context, id, userID string, update NoteUpdate) (*entities.Note, error)
	SoftDelete(ctx context.Context, id, userID string) error
	TogglePin(ctx context.Context, id, userID string) (*entities.Note, error)
	ToggleArchive(ctx context.Context, id, userID string) (*entities.Note, error)
}

// NoteUpdate is a partial update; nil fields keep their stored value.
type NoteUpdate struct {
	Title      *string
	Content    *string
	Tags       *[]string
	Color      *string
	IsPinned   *bool
	IsArchived *bool
}

const (
	noteColumns = `id, title, content, tags, color, is_pinned, is_archived, is_deleted, user_id, version, created_at, updated_at`

	// ownedNote is the single owner-scoped lookup shared by every read and write
	// of one note. $1 is the note id and $2 the owner.
	ownedNote = `id = $1 AND user_id = $2 AND is_deleted = FALSE`
)

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *sql.DB) NoteRepository {
	return &noteRepository{db: db}
}

func scanNote(row scanner) (*entities.Note, error) {
	var note entities.Note
	err := row.Scan(
		&note.ID,
		&note.Title,
		&note.Content,
		pq.Array(&note.Tags),
		&note.Color,
		&note.IsPinned,
		&note.IsArchived,
		&note.IsDeleted,
		&note.UserID,
		&note.Version,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	return &note, nil
}

// Create inserts a note owned by note.UserID
func (r *noteRepository) Create(ctx context.Context, note *entities.Note) (*entities.Note, error) {
	query := `
		INSERT INTO notes (title, content, tags, color, is_pinned, user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + noteColumns

	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	created, err := scanNote(r.db.QueryRowContext(ctx, query,
		note.Title, note.Content, pq.StringArray(tags), note.Color, note.IsPinned, note.UserID))
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return created, nil
}

// FindOwned returns the caller's note if it exists and is not deleted
func (r *noteRepository) FindOwned(ctx context.Context, id, userID string) (*entities.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE ` + ownedNote

	note, err := scanNote(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return note, nil
}

// List runs a built note query and returns one page plus the total match count
func (r *noteRepository) List(ctx context.Context, q query.Query) ([]*entities.Note, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM notes WHERE ` + q.Where
	if err := r.db.QueryRowContext(ctx, countQuery, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notes: %w", err)
	}

	notes := []*entities.Note{}
	if total == 0 {
		return notes, 0, nil
	}

	args := make([]any, 0, len(q.Args)+2)
	args = append(args, q.Args...)
	args = append(args, q.Limit, q.Offset)
	listQuery := fmt.Sprintf(`SELECT %s FROM notes WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		noteColumns, q.Where, q.OrderBy, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, total, nil
}

// Update applies a partial update. Concurrent updates are last-write-wins:
// version is bumped on every write but never compared.
func (r *noteRepository) Update(ctx context.Context, id, userID string, update NoteUpdate) (*entities.Note, error) {
	var tags any
	if update.Tags != nil {
		t := *update.Tags
		if t == nil {
			t = []string{}
		}
		tags = pq.StringArray(t)
	}

	query := `
		UPDATE notes
		SET title = COALESCE($3, title),
			content = COALESCE($4, content),
			tags = COALESCE($5, tags),
			color = COALESCE($6, color),
			is_pinned = COALESCE($7, is_pinned),
			is_archived = COALESCE($8, is_archived),
			version = version + 1,
			updated_at = NOW()
		WHERE ` + ownedNote + `
		RETURNING ` + noteColumns

	return r.writeOwned(ctx, "update note", query, id, userID,
		update.Title, update.Content, tags, update.Color, update.IsPinned, update.IsArchived)
}

// SoftDelete flags the note deleted; the row stays in place
func (r *noteRepository) SoftDelete(ctx context.Context, id, userID string) error {
	query := `
		UPDATE notes
		SET is_deleted = TRUE, version = version + 1, updated_at = NOW()
		WHERE ` + ownedNote

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// TogglePin flips is_pinned
func (r *noteRepository) TogglePin(ctx context.Context, id, userID string) (*entities.Note, error) {
	query := `
		UPDATE notes
		SET is_pinned = NOT is_pinned, version = version + 1, updated_at = NOW()
		WHERE ` + ownedNote + `
		RETURNING ` + noteColumns

	return r.writeOwned(ctx, "toggle pin", query, id, userID)
}

// ToggleArchive flips is_archived
func (r *noteRepository) ToggleArchive(ctx context.Context, id, userID string) (*entities.Note, error) {
	query := `
		UPDATE notes
		SET is_archived = NOT is_archived, version = version + 1, updated_at = NOW()
		WHERE ` + ownedNote + `
		RETURNING ` + noteColumns

	return r.writeOwned(ctx, "toggle archive", query, id, userID)
}

func (r *noteRepository) writeOwned(ctx context.Context, op, query, id, userID string, extra ...any) (*entities.Note, error) {
	args := append([]any{id, userID}, extra...)

	note, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s: %w", op, err)
	}

	return note, nil
}
