package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is a named dependency the health endpoint probes. Infrastructure
// clients (postgres, redis) satisfy it via their HealthCheck methods.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type namedChecker struct {
	name    string
	checker HealthChecker
}

// HealthHandler serves the liveness and readiness endpoints.
type HealthHandler struct {
	version  string
	checkers []namedChecker
}

// NewHealthHandler builds a HealthHandler reporting the given version string.
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{version: version}
}

// AddChecker registers a dependency to probe during readiness checks. Nil
// checkers are ignored so optional infrastructure can be passed straight in.
func (h *HealthHandler) AddChecker(name string, checker HealthChecker) {
	if checker == nil {
		return
	}
	h.checkers = append(h.checkers, namedChecker{name: name, checker: checker})
}

// Live handles GET /healthz.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

// Ready handles GET /readyz, probing every registered dependency with a short
// timeout. Any failing dependency flips the response to 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.checkers))
	healthy := true
	for _, nc := range h.checkers {
		if err := nc.checker.HealthCheck(ctx); err != nil {
			deps[nc.name] = err.Error()
			healthy = false
		} else {
			deps[nc.name] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "version": h.version, "dependencies": deps})
}
