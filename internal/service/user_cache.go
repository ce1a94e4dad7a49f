package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"notes-be/internal/cache"
	"notes-be/internal/entities"
	"notes-be/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// userLookup reads users through the optional Redis cache. A nil cache or a
// cache failure falls through to the repository.
type userLookup struct {
	repo  repository.UserRepository
	cache cache.Cache
	log   *slog.Logger
}

func (l *userLookup) byID(ctx context.Context, id string) (*entities.User, error) {
	if l.cache != nil {
		var user entities.User
		err := l.cache.GetJSON(ctx, cache.UserKey(id), &user)
		if err == nil {
			return &user, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			l.log.Warn("user cache read failed", "user_id", id, "error", err)
		}
	}

	user, err := l.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if l.cache != nil {
		if err := l.cache.SetJSON(ctx, cache.UserKey(id), user, userCacheTTL); err != nil {
			l.log.Warn("user cache write failed", "user_id", id, "error", err)
		}
	}
	return user, nil
}

func (l *userLookup) invalidate(ctx context.Context, id string) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Delete(ctx, cache.UserKey(id)); err != nil {
		l.log.Warn("user cache invalidation failed", "user_id", id, "error", err)
	}
}
