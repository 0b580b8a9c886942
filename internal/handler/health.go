package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger is the minimal contract I need from a storage backend to check
// readiness. I keep it local to the handler package to avoid coupling and
// simplify tests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler exposes liveness and readiness endpoints over both stores.
type HealthHandler struct {
	db       Pinger
	docstore Pinger
}

// NewHealthHandler wires a health handler with its dependencies: the
// relational store and the document store.
func NewHealthHandler(db, docstore Pinger) *HealthHandler {
	return &HealthHandler{db: db, docstore: docstore}
}

// Liveness responds OK if the process is up; it doesn't check dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness verifies both critical dependencies. One unavailable store makes
// the whole service not ready; products and offers are not served separately.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx := c.Request.Context()
	checks := gin.H{"postgres": "ok", "mongo": "ok"}
	ok := true
	if err := h.db.Ping(ctx); err != nil {
		checks["postgres"] = err.Error()
		ok = false
	}
	if err := h.docstore.Ping(ctx); err != nil {
		checks["mongo"] = err.Error()
		ok = false
	}
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "checks": checks})
}
