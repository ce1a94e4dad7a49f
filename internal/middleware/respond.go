package middleware

import (
	"github.com/gin-gonic/gin"

	"notes-be/internal/models"
)

func abortWithMessage(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.Envelope{Success: false, Message: message})
}
