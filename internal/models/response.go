package models

import "notes-be/internal/apperror"

// Envelope is the shape of every JSON response under /api
type Envelope struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    any                   `json:"data,omitempty"`
	Errors  []apperror.FieldError `json:"errors,omitempty"`
	Stack   string                `json:"stack,omitempty"` // development only
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"` // seconds
}
