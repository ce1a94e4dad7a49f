package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"notes-be/internal/apperror"
	"notes-be/internal/cache"
	"notes-be/internal/entities"
	"notes-be/internal/models"
	"notes-be/internal/repository"
)

const MsgUserNotFound = "User not found"

// UserService manages the caller's own account
type UserService interface {
	GetProfile(ctx context.Context, userID string) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*entities.User, error)
	ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, userID string, req *models.DeleteAccountRequest) error
}

type userService struct {
	userRepo repository.UserRepository
	users    *userLookup
	log      *slog.Logger
}

// NewUserService creates a new user service. userCache may be nil.
func NewUserService(userRepo repository.UserRepository, userCache cache.Cache, log *slog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		users:    &userLookup{repo: userRepo, cache: userCache, log: log},
		log:      log,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*entities.User, error) {
	var name *string
	if req.Name != nil {
		n := strings.TrimSpace(*req.Name)
		name = &n
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, name, req.Avatar)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NotFound(MsgUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.users.invalidate(ctx, userID)
	return user, nil
}

// ChangePassword replaces the password after verifying the current one
func (s *userService) ChangePassword(ctx context.Context, userID string, req *models.ChangePasswordRequest) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.Validation("Current password is incorrect",
			apperror.FieldError{Field: "currentPassword", Message: "Current password is incorrect"})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}

	s.users.invalidate(ctx, userID)
	s.log.Info("password changed", "user_id", userID)
	return nil
}

// DeleteAccount deactivates the account. The row and its notes are kept.
func (s *userService) DeleteAccount(ctx context.Context, userID string, req *models.DeleteAccountRequest) error {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return apperror.Validation("Password is incorrect",
			apperror.FieldError{Field: "password", Message: "Password is incorrect"})
	}

	if err := s.userRepo.Deactivate(ctx, userID); err != nil {
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	s.users.invalidate(ctx, userID)
	s.log.Info("account deactivated", "user_id", userID)
	return nil
}
