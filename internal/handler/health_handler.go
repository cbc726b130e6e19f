package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// DBPinger is the part of *sqlx.DB that readiness checks use.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// RedisPinger is the part of *redis.Client that readiness checks use.
type RedisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db    DBPinger
	cache RedisPinger
}

// NewHealthHandler creates a new HealthHandler. cache may be nil when the
// deployment runs without the redis session lock.
func NewHealthHandler(db DBPinger, cache RedisPinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
//
// The service cannot take intake traffic without both its claim store and
// its session lock store, so readiness probes each in turn.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "claim store not reachable"})
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "session lock store not reachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
