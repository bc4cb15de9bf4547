package handler

import (
	"context"
	"net/http"

	"github.com/amirhossein-jamali/daily-earn/internal/infrastructure/adapter/database"
	"github.com/gin-gonic/gin"
)

// HealthChecker reports database health
type HealthChecker interface {
	Health(ctx context.Context) database.HealthStatus
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	checker HealthChecker
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(checker HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// Health handles the GET /health endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	status := h.checker.Health(c.Request.Context())
	code := http.StatusOK
	state := "ok"
	if !status.Healthy {
		code = http.StatusServiceUnavailable
		state = "unavailable"
	}
	c.JSON(code, gin.H{"status": state, "database": status})
}
