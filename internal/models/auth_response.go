package models

import (
	"time"

	"notes-be/internal/entities"
)

// UserResponse is the public view of a user; it never carries the password hash.
type UserResponse struct {
	ID        string     `json:"id"` // UUID
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}

// AuthResponse represents the response data after successful authentication
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"` // JWT token
}

// UserData wraps a single user for {data:{user}} responses
type UserData struct {
	User UserResponse `json:"user"`
}

func NewUserResponse(u *entities.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Avatar:    u.Avatar,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}
