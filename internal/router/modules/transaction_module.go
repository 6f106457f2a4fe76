package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	handlers "github.com/oksasatya/go-finance-tracker/internal/interface/http"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
)

type TransactionModule struct {
	Handler *handlers.TransactionHandler
	Gate    *application.AuthGate
	RDB     redis.UniversalClient
	Logger  *logrus.Logger
}

func NewTransactionModule(h *handlers.TransactionHandler, gate *application.AuthGate, rdb redis.UniversalClient, logger *logrus.Logger) *TransactionModule {
	return &TransactionModule{Handler: h, Gate: gate, RDB: rdb, Logger: logger}
}

func (m *TransactionModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/transactions")
	g.Use(
		middleware.Auth(m.Gate, m.Logger),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), middleware.AllowRole(string(entity.RoleAdmin))),
	)
	g.GET("", m.Handler.List)
	g.POST("", m.Handler.Create)
	g.PUT("/:id", m.Handler.Update)
	g.DELETE("/:id", m.Handler.Delete)
	g.POST("/:id/receipt", middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByUserID(), nil), m.Handler.UploadReceipt)
}
