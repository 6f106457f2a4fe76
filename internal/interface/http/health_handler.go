package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-finance-tracker/pkg/response"
)

// Pinger is satisfied by the database pool and the redis client.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	Checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{Checks: checks}
}

// Health GET /api/v1/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	deps := make(map[string]string, len(h.Checks))
	healthy := true
	for name, p := range h.Checks {
		if err := p.Ping(ctx); err != nil {
			deps[name] = "down"
			healthy = false
			continue
		}
		deps[name] = "up"
	}
	if !healthy {
		response.Error[any](c, http.StatusServiceUnavailable, "degraded", deps)
		return
	}
	response.Success(c, http.StatusOK, deps, "ok", nil)
}
