package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/househunt/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.3.0"
	// HealthCheckTimeout is the timeout for store health checks
	HealthCheckTimeout = 2 * time.Second
)

// Pinger is the slice of a store connection the readiness check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	store     Pinger
	startTime time.Time
	storeName string
	env       string
}

// NewHealthHandler creates a new HealthHandler instance. A nil store means
// the service runs on in-memory stores and is always ready.
func NewHealthHandler(store Pinger, storeName, env string) *HealthHandler {
	return &HealthHandler{
		store:     store,
		startTime: time.Now(),
		storeName: storeName,
		env:       env,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Store    string `json:"store"`
	Database string `json:"database"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Store       string `json:"store"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health endpoint.
// This is a basic health check that always returns 200 OK.
// It does not check any dependencies and is used for basic liveness checks.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready endpoint.
// It pings the active store and returns 503 Service Unavailable when the
// ping fails or times out.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, ReadyResponse{Status: "ready", Store: h.storeName, Database: "in_process"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Error("Store health check failed", err, map[string]interface{}{
				"store":   h.storeName,
				"timeout": HealthCheckTimeout.String(),
			})
		}

		c.JSON(http.StatusServiceUnavailable, ReadyResponse{
			Status:   "not_ready",
			Store:    h.storeName,
			Database: "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, ReadyResponse{
		Status:   "ready",
		Store:    h.storeName,
		Database: "connected",
	})
}

// Info handles GET /api/v1/info endpoint.
// Returns API metadata including version, environment, and uptime.
func (h *HealthHandler) Info(c *gin.Context) {
	uptime := time.Since(h.startTime)

	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Store:       h.storeName,
		Uptime:      formatUptime(uptime),
	})
}

// formatUptime formats a duration into a human-readable string.
func formatUptime(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}
