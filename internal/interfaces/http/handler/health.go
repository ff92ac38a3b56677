package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/resto/backend/internal/infrastructure/persistence"
)

// HealthHandler exposes liveness and readiness probes
type HealthHandler struct {
	db        *persistence.Database
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db, startedAt: time.Now()}
}

// Health handles GET /health. It always reports the process as alive.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).Round(time.Second).String(),
	})
}

// Ready handles GET /ready. It reports unready when the database is unreachable
// and includes connection pool figures for operators when it is healthy.
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
		return
	}

	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "database unreachable",
		})
		return
	}

	resp := gin.H{"status": "ready"}
	if stats, err := h.db.Stats(); err == nil {
		resp["db"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
			"wait_count":       stats.WaitCount,
		}
	}
	c.JSON(http.StatusOK, resp)
}
