package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rxlens/rxlens/internal/infrastructure/monitoring/logging"
)

// ReadyCheck probes one backing dependency.
type ReadyCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	checks  map[string]ReadyCheck
	timeout time.Duration
	logger  logging.Logger
}

// NewHealthHandler builds a HealthHandler over the given dependency checks.
// A nil or empty map means readiness always passes.
func NewHealthHandler(checks map[string]ReadyCheck, logger logging.Logger) *HealthHandler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &HealthHandler{
		checks:  checks,
		timeout: 5 * time.Second,
		logger:  logger,
	}
}

// Liveness handles GET /healthz.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Readiness handles GET /readyz. It probes every registered dependency and
// reports 503 when any probe fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			h.logger.Warn("readiness check failed",
				logging.String("dependency", name),
				logging.Err(err),
			)
			continue
		}
		results[name] = "ok"
	}

	body := gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	}
	if status != http.StatusOK {
		body["status"] = "not ready"
	}
	if len(results) > 0 {
		body["dependencies"] = results
	}
	c.JSON(status, body)
}
