// Package service holds the business logic behind the HTTP controllers.
package service

//go:generate mockgen -destination=mocks/mock_services.go -package=mocks notes-be/internal/service AuthService,NoteService,UserService
