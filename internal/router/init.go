package router

import (
	"context"

	"github.com/oksasatya/go-finance-tracker/internal/container"
	handlers "github.com/oksasatya/go-finance-tracker/internal/interface/http"
	"github.com/oksasatya/go-finance-tracker/internal/router/modules"
)

func healthChecks(c *container.Container) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{}
	if c.PGPool != nil {
		checks["postgres"] = c.PGPool
	}
	if c.Redis != nil {
		checks["redis"] = handlers.PingFunc(func(ctx context.Context) error { return c.Redis.Ping(ctx).Err() })
	}
	return checks
}

// InitModules builds the handlers from c and adds their modules to r.
// It also mounts the liveness check at the engine root.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	rdb := c.RateLimitClient()

	health := handlers.NewHealthHandler(healthChecks(c))
	r.Engine.GET("/", health.Health)

	r.Add(modules.NewHealthModule(health))
	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(c.Auth, c.Registration, c.Tokens, c.Logger, cfg.FrontendURL),
		c.Gate, rdb, c.Logger, cfg.GoogleEnabled(),
	))
	r.Add(modules.NewTransactionModule(handlers.NewTransactionHandler(c.Transactions, c.Logger), c.Gate, rdb, c.Logger))
	r.Add(modules.NewDebtModule(handlers.NewDebtHandler(c.DebtService, c.Logger), c.Gate, rdb, c.Logger))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(c.Admin, c.Logger), c.Gate, c.Logger))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(rdb))
	}
}
