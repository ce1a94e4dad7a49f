package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"notes-be/internal/apperror"
	"notes-be/internal/cache"
	"notes-be/internal/entities"
	"notes-be/internal/jwt"
	"notes-be/internal/models"
	"notes-be/internal/repository"
)

// Messages returned by the auth gate. Clients match on them, keep them stable.
const (
	MsgNoToken         = "Access denied. No token provided."
	MsgInvalidToken    = "Invalid token."
	MsgTokenExpired    = "Token expired."
	MsgUserMissing     = "Access denied. User not found."
	MsgAccountInactive = "Access denied. Account is inactive."
	MsgAuthServerError = "Server error during authentication."
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
	// Authorize resolves a bearer token to an active user.
	Authorize(ctx context.Context, token string) (*entities.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	users      *userLookup
	jwtService *jwt.JWTService
	log        *slog.Logger
	now        func() time.Time
}

// NewAuthService creates a new auth service. userCache may be nil.
func NewAuthService(userRepo repository.UserRepository, userCache cache.Cache, jwtService *jwt.JWTService, log *slog.Logger) AuthService {
	return &authService{
		userRepo:   userRepo,
		users:      &userLookup{repo: userRepo, cache: userCache, log: log},
		jwtService: jwtService,
		log:        log,
		now:        time.Now,
	}
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user account and signs it in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	email := NormalizeEmail(req.Email)

	// Check if user already exists
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, apperror.Conflict("User already exists with this email")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// The unique index still catches a concurrent registration of the same email
	user, err := s.userRepo.Create(ctx, strings.TrimSpace(req.Name), email, string(hashedPassword))
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperror.Conflict("User already exists with this email")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Info("user registered", "user_id", user.ID)
	return &models.AuthResponse{User: models.NewUserResponse(user), Token: token}, nil
}

// Login authenticates a user and returns user info with a JWT token.
// An inactive account is rejected before the password is checked.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Authentication("Invalid credentials")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.IsActive {
		return nil, apperror.Authentication("Account is inactive")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Authentication("Invalid credentials")
	}

	now := s.now().UTC()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLogin = &now
	s.users.invalidate(ctx, user.ID)

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{User: models.NewUserResponse(user), Token: token}, nil
}

// Authorize verifies the token and re-checks that its user still exists and
// is active, since tokens are not revoked on deactivation.
func (s *authService) Authorize(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, apperror.Authentication(MsgNoToken)
	}

	claims, err := s.jwtService.ValidateToken(token)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, apperror.Authentication(MsgTokenExpired)
	}
	if err != nil {
		return nil, apperror.Authentication(MsgInvalidToken)
	}

	user, err := s.users.byID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.Authentication(MsgUserMissing)
	}
	if err != nil {
		return nil, apperror.Internal(MsgAuthServerError, err)
	}

	if !user.IsActive {
		return nil, apperror.Authentication(MsgAccountInactive)
	}

	return user, nil
}
