package models

// UpdateProfileRequest represents the request body for PUT /api/user/profile
type UpdateProfileRequest struct {
	Name   *string `json:"name" binding:"omitempty,notblank,min=2,max=50"`
	Avatar *string `json:"avatar" binding:"omitempty,url"`
}

// ChangePasswordRequest represents the request body for PUT /api/user/change-password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6,max=100"`
}

// DeleteAccountRequest represents the request body for DELETE /api/user/account
type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}
