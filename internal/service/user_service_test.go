package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notes-be/internal/apperror"
	"notes-be/internal/cache"
	"notes-be/internal/logger"
	"notes-be/internal/models"
)

func newUsers(t *testing.T) (UserService, AuthService, *fakeCache, *models.AuthResponse) {
	t.Helper()
	c := newFakeCache()
	auth, repo, _ := newAuth(t, c)
	created := register(t, auth, "t@x.com")
	return NewUserService(repo, c, logger.Discard()), auth, c, created
}

func TestGetProfile(t *testing.T) {
	users, _, _, created := newUsers(t)

	user, err := users.GetProfile(context.Background(), created.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "t@x.com", user.Email)

	_, err = users.GetProfile(context.Background(), "00000000-0000-0000-0000-999999999999")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdateProfile_InvalidatesCache(t *testing.T) {
	users, auth, c, created := newUsers(t)
	ctx := context.Background()

	_, err := auth.Authorize(ctx, created.Token)
	require.NoError(t, err)
	require.True(t, c.has(cache.UserKey(created.User.ID)))

	name, avatar := "  Tess ", "https://example.com/a.png"
	user, err := users.UpdateProfile(ctx, created.User.ID, &models.UpdateProfileRequest{Name: &name, Avatar: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Tess", user.Name)
	assert.Equal(t, avatar, user.Avatar)
	assert.False(t, c.has(cache.UserKey(created.User.ID)))

	fresh, err := auth.Authorize(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, "Tess", fresh.Name)
}

func TestChangePassword(t *testing.T) {
	users, auth, _, created := newUsers(t)
	ctx := context.Background()

	err := users.ChangePassword(ctx, created.User.ID, &models.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "newpass1"})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperror.KindValidation, appErr.Kind)
	assert.Equal(t, "Current password is incorrect", appErr.Message)

	require.NoError(t, users.ChangePassword(ctx, created.User.ID, &models.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpass1"}))

	_, err = auth.Login(ctx, &models.LoginRequest{Email: "t@x.com", Password: "password123"})
	assertAuthError(t, err, "Invalid credentials")
	_, err = auth.Login(ctx, &models.LoginRequest{Email: "t@x.com", Password: "newpass1"})
	require.NoError(t, err)
}

func TestDeleteAccount(t *testing.T) {
	users, auth, c, created := newUsers(t)
	ctx := context.Background()

	_, err := auth.Authorize(ctx, created.Token)
	require.NoError(t, err)

	err = users.DeleteAccount(ctx, created.User.ID, &models.DeleteAccountRequest{Password: "wrong"})
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "Password is incorrect", appErr.Message)
	assert.Equal(t, 400, appErr.StatusCode())

	require.NoError(t, users.DeleteAccount(ctx, created.User.ID, &models.DeleteAccountRequest{Password: "password123"}))
	assert.False(t, c.has(cache.UserKey(created.User.ID)))

	_, err = auth.Authorize(ctx, created.Token)
	assertAuthError(t, err, MsgAccountInactive)

	user, err := users.GetProfile(ctx, created.User.ID)
	require.NoError(t, err, "the account row is kept")
	assert.False(t, user.IsActive)
}
