package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"notes-be/internal/models"
	"notes-be/internal/service"
)

type UserController struct {
	*Responder
	userService service.UserService
}

func NewUserController(userService service.UserService, responder *Responder) *UserController {
	return &UserController{
		Responder:   responder,
		userService: userService,
	}
}

// GetProfile handles GET /api/user/profile
func (uc *UserController) GetProfile(c *gin.Context) {
	userID, ok := uc.userID(c)
	if !ok {
		return
	}

	user, err := uc.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		uc.fail(c, err)
		return
	}

	uc.ok(c, http.StatusOK, "", models.UserData{User: models.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/user/profile
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, ok := uc.userID(c)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !uc.bindJSON(c, &req) {
		return
	}

	user, err := uc.userService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		uc.fail(c, err)
		return
	}

	uc.ok(c, http.StatusOK, "Profile updated successfully", models.UserData{User: models.NewUserResponse(user)})
}

// ChangePassword handles PUT /api/user/change-password
func (uc *UserController) ChangePassword(c *gin.Context) {
	userID, ok := uc.userID(c)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !uc.bindJSON(c, &req) {
		return
	}

	if err := uc.userService.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		uc.fail(c, err)
		return
	}

	uc.ok(c, http.StatusOK, "Password changed successfully", nil)
}

// DeleteAccount handles DELETE /api/user/account - deactivates, never removes
func (uc *UserController) DeleteAccount(c *gin.Context) {
	userID, ok := uc.userID(c)
	if !ok {
		return
	}

	var req models.DeleteAccountRequest
	if !uc.bindJSON(c, &req) {
		return
	}

	if err := uc.userService.DeleteAccount(c.Request.Context(), userID, &req); err != nil {
		uc.fail(c, err)
		return
	}

	uc.ok(c, http.StatusOK, "Account deleted successfully", nil)
}
