package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notes-be/internal/apperror"
	"notes-be/internal/middleware"
	"notes-be/internal/models"
	"notes-be/internal/service"
)

type AuthController struct {
	*Responder
	authService service.AuthService
}

func NewAuthController(authService service.AuthService, responder *Responder) *AuthController {
	return &AuthController{
		Responder:   responder,
		authService: authService,
	}
}

// Register handles POST /api/auth/register
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !ac.bindJSON(c, &req) {
		return
	}

	response, err := ac.authService.Register(c.Request.Context(), &req)
	if err != nil {
		ac.fail(c, err)
		return
	}

	ac.ok(c, http.StatusCreated, "User registered successfully", response)
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if !ac.bindJSON(c, &req) {
		return
	}

	response, err := ac.authService.Login(c.Request.Context(), &req)
	if err != nil {
		ac.fail(c, err)
		return
	}

	ac.ok(c, http.StatusOK, "Login successful", response)
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		ac.fail(c, apperror.Authentication(service.MsgUserMissing))
		return
	}

	ac.ok(c, http.StatusOK, "", models.UserData{User: models.NewUserResponse(user)})
}
