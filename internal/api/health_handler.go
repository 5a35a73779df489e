package api

import (
	"alcyxob/gymtracker/internal/repository"
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthHandler serves the unauthenticated liveness endpoints.
type HealthHandler struct {
	health repository.HealthChecker
}

func NewHealthHandler(health repository.HealthChecker) *HealthHandler {
	return &HealthHandler{health: health}
}

// Banner godoc
// @Summary Service banner
// @Tags Health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func (h *HealthHandler) Banner(c *gin.Context) {
	c.String(http.StatusOK, "GymTracker Backend is running!")
}

// Healthz godoc
// @Summary Store health
// @Description Pings the backing store.
// @Tags Health
// @Produce json
// @Success 200 {object} gin.H
// @Failure 503 {object} gin.H
// @Router /healthz [get]
func (h *HealthHandler) Healthz(c *gin.Context) {
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.health.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "store unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
