package router

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"notes-be/internal/entities"
	"notes-be/internal/query"
	"notes-be/internal/repository"
)

// memStore backs both repositories for end-to-end router tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]*entities.User
	notes []*entities.Note
}

func newMemStore() *memStore {
	return &memStore{users: map[string]*entities.User{}}
}

type memUsers struct{ *memStore }

func (s memUsers) Create(_ context.Context, name, email, hash string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	now := time.Now().UTC()
	u := &entities.User{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: hash, IsActive: true, CreatedAt: now, UpdatedAt: now}
	s.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (s memUsers) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) FindByID(_ context.Context, id string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (s memUsers) UpdateProfile(_ context.Context, id string, name, avatar *string) (*entities.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if avatar != nil {
		u.Avatar = *avatar
	}
	cp := *u
	return &cp, nil
}

func (s memUsers) UpdatePassword(_ context.Context, id, hash string) error {
	return s.mutate(id, func(u *entities.User) { u.PasswordHash = hash })
}

func (s memUsers) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return s.mutate(id, func(u *entities.User) { u.LastLogin = &at })
}

func (s memUsers) Deactivate(_ context.Context, id string) error {
	return s.mutate(id, func(u *entities.User) { u.IsActive = false })
}

func (s memUsers) mutate(id string, fn func(*entities.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

type memNotes struct{ *memStore }

func (s memNotes) Create(_ context.Context, note *entities.Note) (*entities.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := *note
	n.ID = uuid.NewString()
	n.Version = 1
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt
	s.notes = append(s.notes, &n)
	cp := n
	return &cp, nil
}

func (s memNotes) find(id, userID string) *entities.Note {
	for _, n := range s.notes {
		if n.ID == id && n.UserID != nil && *n.UserID == userID && !n.IsDeleted {
			return n
		}
	}
	return nil
}

func (s memNotes) FindOwned(_ context.Context, id, userID string) (*entities.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n := s.find(id, userID); n != nil {
		cp := *n
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

// List honours the owner scope and the tag filter (ANY match); other
// predicates are left to the SQL tests.
func (s memNotes) List(_ context.Context, q query.Query) ([]*entities.Note, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID := q.Args[0].(string)
	var want []string
	for _, a := range q.Args[1:] {
		if arr, ok := a.(pq.StringArray); ok {
			want = arr
		}
	}
	var live []*entities.Note
	for _, n := range s.notes {
		if n.UserID == nil || *n.UserID != userID || n.IsDeleted {
			continue
		}
		if len(want) > 0 && !anyTag(n.Tags, want) {
			continue
		}
		cp := *n
		live = append(live, &cp)
	}
	out := []*entities.Note{}
	for i := q.Offset; i < len(live) && i < q.Offset+q.Limit; i++ {
		out = append(out, live[i])
	}
	return out, len(live), nil
}

func anyTag(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}

func (s memNotes) Update(_ context.Context, id, userID string, u repository.NoteUpdate) (*entities.Note, error) {
	return s.write(id, userID, func(n *entities.Note) {
		if u.Title != nil {
			n.Title = *u.Title
		}
		if u.Content != nil {
			n.Content = *u.Content
		}
		if u.Tags != nil {
			n.Tags = *u.Tags
		}
		if u.Color != nil {
			n.Color = *u.Color
		}
		if u.IsPinned != nil {
			n.IsPinned = *u.IsPinned
		}
		if u.IsArchived != nil {
			n.IsArchived = *u.IsArchived
		}
	})
}

func (s memNotes) SoftDelete(_ context.Context, id, userID string) error {
	_, err := s.write(id, userID, func(n *entities.Note) { n.IsDeleted = true })
	return err
}

func (s memNotes) TogglePin(_ context.Context, id, userID string) (*entities.Note, error) {
	return s.write(id, userID, func(n *entities.Note) { n.IsPinned = !n.IsPinned })
}

func (s memNotes) ToggleArchive(_ context.Context, id, userID string) (*entities.Note, error) {
	return s.write(id, userID, func(n *entities.Note) { n.IsArchived = !n.IsArchived })
}

func (s memNotes) write(id, userID string, fn func(*entities.Note)) (*entities.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.find(id, userID)
	if n == nil {
		return nil, repository.ErrNotFound
	}
	fn(n)
	n.Version++
	cp := *n
	return &cp, nil
}
