package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"notes-be/internal/models"
)

type HealthController struct {
	started time.Time
	now     func() time.Time
}

func NewHealthController(started time.Time) *HealthController {
	return &HealthController{started: started, now: time.Now}
}

// Health handles GET /api/health
func (hc *HealthController) Health(c *gin.Context) {
	now := hc.now()
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "OK",
		Timestamp: now.UTC().Format(time.RFC3339),
		Uptime:    now.Sub(hc.started).Seconds(),
	})
}
