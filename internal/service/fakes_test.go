package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"notes-be/internal/cache"
	"notes-be/internal/entities"
	"notes-be/internal/query"
	"notes-be/internal/repository"
)

type fakeUserRepo struct {
	mu       sync.Mutex
	byID     map[string]*entities.User
	seq      int
	creates  int
	findErr  error
	createFn func(name, email string) error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]*entities.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, name, email, passwordHash string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createFn != nil {
		if err := r.createFn(name, email); err != nil {
			return nil, err
		}
	}
	for _, u := range r.byID {
		if u.Email == email {
			return nil, repository.ErrDuplicate
		}
	}
	r.seq++
	r.creates++
	now := time.Now().UTC()
	u := &entities.User{
		ID:           fmt.Sprintf("00000000-0000-0000-0000-%012d", r.seq),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, name, avatar *string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok || !u.IsActive {
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

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	return r.mutate(id, func(u *entities.User) { u.PasswordHash = passwordHash })
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return r.mutate(id, func(u *entities.User) { u.LastLogin = &at })
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id string) error {
	return r.mutate(id, func(u *entities.User) { u.IsActive = false })
}

func (r *fakeUserRepo) mutate(id string, fn func(*entities.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(u)
	return nil
}

// fakeNoteRepo keeps notes in memory. List cannot evaluate SQL, so it records
// the built query and pages over the owner's live notes in insertion order.
type fakeNoteRepo struct {
	mu      sync.Mutex
	notes   []*entities.Note
	seq     int
	lastQ   query.Query
	listErr error
}

func (r *fakeNoteRepo) Create(_ context.Context, note *entities.Note) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	n := *note
	n.ID = fmt.Sprintf("10000000-0000-0000-0000-%012d", r.seq)
	n.Version = 1
	n.Tags = append([]string{}, note.Tags...)
	r.notes = append(r.notes, &n)
	cp := n
	return &cp, nil
}

func (r *fakeNoteRepo) owned(id, userID string) *entities.Note {
	for _, n := range r.notes {
		if n.ID == id && n.UserID != nil && *n.UserID == userID && !n.IsDeleted {
			return n
		}
	}
	return nil
}

func (r *fakeNoteRepo) FindOwned(_ context.Context, id, userID string) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.owned(id, userID)
	if n == nil {
		return nil, repository.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNoteRepo) List(_ context.Context, q query.Query) ([]*entities.Note, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQ = q
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	userID := q.Args[0].(string)
	var live []*entities.Note
	for _, n := range r.notes {
		if n.UserID != nil && *n.UserID == userID && !n.IsDeleted {
			cp := *n
			live = append(live, &cp)
		}
	}
	out := []*entities.Note{}
	for i := q.Offset; i < len(live) && i < q.Offset+q.Limit; i++ {
		out = append(out, live[i])
	}
	return out, len(live), nil
}

func (r *fakeNoteRepo) Update(_ context.Context, id, userID string, u repository.NoteUpdate) (*entities.Note, error) {
	return r.write(id, userID, func(n *entities.Note) {
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

func (r *fakeNoteRepo) SoftDelete(_ context.Context, id, userID string) error {
	_, err := r.write(id, userID, func(n *entities.Note) { n.IsDeleted = true })
	return err
}

func (r *fakeNoteRepo) TogglePin(_ context.Context, id, userID string) (*entities.Note, error) {
	return r.write(id, userID, func(n *entities.Note) { n.IsPinned = !n.IsPinned })
}

func (r *fakeNoteRepo) ToggleArchive(_ context.Context, id, userID string) (*entities.Note, error) {
	return r.write(id, userID, func(n *entities.Note) { n.IsArchived = !n.IsArchived })
}

func (r *fakeNoteRepo) write(id, userID string, fn func(*entities.Note)) (*entities.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.owned(id, userID)
	if n == nil {
		return nil, repository.ErrNotFound
	}
	fn(n)
	n.Version++
	cp := *n
	return &cp, nil
}

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.values[key]
	if !ok {
		return "", cache.ErrCacheMiss
	}
	c.hits++
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *fakeCache) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, string(data), ttl)
}

func (c *fakeCache) GetJSON(ctx context.Context, key string, dest any) error {
	v, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(v), dest)
}

func (c *fakeCache) IncrWindow(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, nil
}

func (c *fakeCache) Close() error { return nil }

func (c *fakeCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}
