package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory/internal/domain/catalog"
	"inventory/internal/infrastructure/storage/postgres"
)

// HealthHandler provides health check endpoints.
type HealthHandler struct {
	store *catalog.Store
	pool  *postgres.Pool // nil when the catalog is not database backed
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store *catalog.Store, pool *postgres.Pool) *HealthHandler {
	return &HealthHandler{store: store, pool: pool}
}

// Live handles liveness probe (is the process alive?).
// GET /health/live
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Ready handles readiness probe (is the service ready to accept traffic?).
// GET /health/ready
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{}
	healthy := true

	if h.store.Ready() {
		checks["catalog"] = "loaded"
	} else {
		checks["catalog"] = "not loaded"
		healthy = false
	}

	if h.pool != nil {
		if err := h.pool.Ping(c.Request.Context()); err != nil {
			checks["database"] = "unhealthy: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "healthy"
		}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "error", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status": status,
		"checks": checks,
	})
}
