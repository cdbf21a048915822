package handlers

import (
	"context"
	"net/http"
	"time"

	"clinic-scheduling-server/internal/logger"
	"clinic-scheduling-server/internal/repository"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports whether the server can reach its database.
type HealthHandler struct {
	Store repository.Store
	Log   *logger.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store repository.Store, log *logger.Logger) *HealthHandler {
	return &HealthHandler{Store: store, Log: log}
}

// Health handles GET /health.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.Store.Ping(ctx); err != nil {
		h.Log.WithComponent("health").WithError(err).Warn("Database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
