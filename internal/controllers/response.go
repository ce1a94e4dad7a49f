package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"notes-be/internal/apperror"
	"notes-be/internal/middleware"
	"notes-be/internal/models"
	"notes-be/internal/validation"
)

const MsgInvalidNoteID = "Invalid note ID"

// Responder writes the JSON envelope shared by every handler.
type Responder struct {
	log         *slog.Logger
	exposeStack bool
}

// NewResponder creates a Responder. exposeStack adds the stack trace to
// 500 responses and is meant for development only.
func NewResponder(log *slog.Logger, exposeStack bool) *Responder {
	return &Responder{log: log, exposeStack: exposeStack}
}

func (r *Responder) ok(c *gin.Context, status int, message string, data any) {
	c.JSON(status, models.Envelope{Success: true, Message: message, Data: data})
}

// fail maps err onto its status. Anything that is not an *apperror.Error is
// logged in full and reported with a generic message.
func (r *Responder) fail(c *gin.Context, err error) {
	appErr := apperror.As(err, middleware.MsgInternalError)
	resp := models.Envelope{Success: false, Message: appErr.Message, Errors: appErr.Fields}

	if appErr.Kind == apperror.KindInternal {
		stack := string(debug.Stack())
		r.log.Error("request failed",
			"method", c.Request.Method,
			"url", c.Request.URL.String(),
			"user_id", middleware.UserID(c),
			"request_id", c.GetString(middleware.ContextRequestID),
			"error", err,
			"stack", stack,
		)
		resp.Message = middleware.MsgInternalError
		if r.exposeStack {
			resp.Stack = stack
		}
	}

	c.AbortWithStatusJSON(appErr.StatusCode(), resp)
}

// bindJSON binds the body into req and answers 400 on failure, or 413 when
// the body ran past the BodyLimit cap.
func (r *Responder) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			r.fail(c, apperror.TooLarge(middleware.MsgBodyTooLarge))
			return false
		}
		r.fail(c, validation.Error(err))
		return false
	}
	return true
}

// userID reads the id set by the auth middleware.
func (r *Responder) userID(c *gin.Context) (string, bool) {
	id := middleware.UserID(c)
	if id == "" {
		r.fail(c, apperror.Authentication("User ID not found in token"))
		return "", false
	}
	return id, true
}

// noteID validates the :id path parameter.
func (r *Responder) noteID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		r.fail(c, apperror.Validation("Validation failed",
			apperror.FieldError{Field: "id", Message: MsgInvalidNoteID}))
		return "", false
	}
	return id.String(), true
}

// NotFound handles unmatched routes
func (r *Responder) NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, models.Envelope{Success: false, Message: "Route not found"})
}
