package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/AkiliNova/in-vent/pkg/response"
	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the readiness check pings
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness checks
type HealthHandler struct {
	version string
	checks  map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string, checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{version: version, checks: checks}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(gin.H{
		"status":  "ok",
		"version": h.version,
	}))
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	if status != http.StatusOK {
		resp := response.ErrorWithDetails(response.ErrCodeServiceUnavailable, "Dependencies unavailable", results)
		c.JSON(status, resp)
		return
	}
	c.JSON(status, response.Success(results))
}
