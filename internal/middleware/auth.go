package middleware

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"notes-be/internal/apperror"
	"notes-be/internal/entities"
	"notes-be/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextUser      = "user"
)

// AuthMiddleware is the single gate in front of protected routes. It resolves
// the bearer token to an active user or aborts with 401 (500 if the user
// store fails).
func AuthMiddleware(authService service.AuthService, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authService.Authorize(c.Request.Context(), bearerToken(c))
		if err != nil {
			appErr := apperror.As(err, service.MsgAuthServerError)
			if appErr.Kind == apperror.KindInternal {
				log.Error("authentication failed", "path", c.Request.URL.Path, "error", err)
			}
			abortWithMessage(c, appErr.StatusCode(), appErr.Message)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserEmail, user.Email)
		c.Set(ContextUser, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// CurrentUser returns the user attached by AuthMiddleware.
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entities.User)
	return user, ok && user != nil
}

// UserID returns the authenticated user's id, or "" outside protected routes.
func UserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
