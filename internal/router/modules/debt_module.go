package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	handlers "github.com/oksasatya/go-finance-tracker/internal/interface/http"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
)

type DebtModule struct {
	Handler *handlers.DebtHandler
	Gate    *application.AuthGate
	RDB     redis.UniversalClient
	Logger  *logrus.Logger
}

func NewDebtModule(h *handlers.DebtHandler, gate *application.AuthGate, rdb redis.UniversalClient, logger *logrus.Logger) *DebtModule {
	return &DebtModule{Handler: h, Gate: gate, RDB: rdb, Logger: logger}
}

func (m *DebtModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/debts")
	g.Use(
		middleware.Auth(m.Gate, m.Logger),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	g.GET("", m.Handler.List)
	g.GET("/summary", m.Handler.Summary)
	g.POST("", m.Handler.Create)
	g.PUT("/:id", m.Handler.Update)
	g.PATCH("/:id/settle", m.Handler.Settle)
	g.DELETE("/:id", m.Handler.Delete)
}
