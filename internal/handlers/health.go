package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stwalsh4118/homematch/api/internal/catalog"
	"github.com/stwalsh4118/homematch/api/internal/middleware"
)

const (
	// APIVersion is the current version of the API
	APIVersion = "0.1.0"
	// HealthCheckTimeout bounds each dependency check in Ready
	HealthCheckTimeout = 2 * time.Second
)

// Database states reported by Ready.
const (
	DatabaseConnected    = "connected"
	DatabaseDisconnected = "disconnected"
	DatabaseDisabled     = "disabled"
)

// Pinger is the part of the database the health checks need.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check and readiness endpoints.
type HealthHandler struct {
	catalog   catalog.Loader
	db        Pinger
	startTime time.Time
	env       string
	dbEnabled bool
}

// NewHealthHandler creates a new HealthHandler instance.
// db may be nil when the database is disabled or was unreachable at startup.
func NewHealthHandler(loader catalog.Loader, db Pinger, dbEnabled bool, env string) *HealthHandler {
	return &HealthHandler{
		catalog:   loader,
		db:        db,
		startTime: time.Now(),
		env:       env,
		dbEnabled: dbEnabled,
	}
}

// HealthResponse represents the basic health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse represents the readiness check response.
type ReadyResponse struct {
	Status   string `json:"status"`
	Catalog  string `json:"catalog"`
	Database string `json:"database"`
}

// InfoResponse represents the API information response.
type InfoResponse struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Uptime      string `json:"uptime"`
}

// Health handles GET /health. Liveness only, no dependencies are checked.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "healthy",
	})
}

// Ready handles GET /health/ready.
// Returns 503 when the listing sources cannot be read. Favorites are optional,
// so the database state is reported but never fails readiness.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), HealthCheckTimeout)
	defer cancel()

	log := middleware.GetLogger(c)

	resp := ReadyResponse{
		Status:   "ready",
		Catalog:  "available",
		Database: h.databaseStatus(ctx),
	}

	if err := h.catalog.Check(ctx); err != nil {
		if log != nil {
			log.Error("Catalog health check failed", err, map[string]interface{}{
				"timeout": HealthCheckTimeout.String(),
			})
		}
		resp.Status = "not_ready"
		resp.Catalog = "unavailable"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	if resp.Database == DatabaseDisconnected && log != nil {
		log.Warn("Database unreachable, saved properties unavailable", nil)
	}

	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) databaseStatus(ctx context.Context) string {
	if !h.dbEnabled {
		return DatabaseDisabled
	}
	if h.db == nil {
		return DatabaseDisconnected
	}
	if err := h.db.Ping(ctx); err != nil {
		return DatabaseDisconnected
	}
	return DatabaseConnected
}

// Info handles GET /api/v1/info.
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Version:     APIVersion,
		Environment: h.env,
		Uptime:      formatUptime(time.Since(h.startTime)),
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
