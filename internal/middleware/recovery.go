package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"notes-be/internal/models"
)

const MsgInternalError = "Internal server error"

// Recovery turns panics into a 500 envelope and logs the request context.
// The stack is only returned to the client in development.
func Recovery(log *slog.Logger, exposeStack bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			stack := string(debug.Stack())
			log.Error("panic recovered",
				"method", c.Request.Method,
				"url", c.Request.URL.String(),
				"user_id", UserID(c),
				"request_id", c.GetString(ContextRequestID),
				"error", fmt.Sprint(rec),
				"stack", stack,
			)

			resp := models.Envelope{Success: false, Message: MsgInternalError}
			if exposeStack {
				resp.Stack = stack
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}
