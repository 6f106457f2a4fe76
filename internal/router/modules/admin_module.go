package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	handlers "github.com/oksasatya/go-finance-tracker/internal/interface/http"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
)

// AdminModule exposes platform-wide views; every route requires the admin role.
type AdminModule struct {
	Handler *handlers.AdminHandler
	Gate    *application.AuthGate
	Logger  *logrus.Logger
}

func NewAdminModule(h *handlers.AdminHandler, gate *application.AuthGate, logger *logrus.Logger) *AdminModule {
	return &AdminModule{Handler: h, Gate: gate, Logger: logger}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/admin")
	g.Use(
		middleware.Auth(m.Gate, m.Logger),
		middleware.RequireRole(m.Gate, entity.RoleAdmin, m.Logger),
	)
	g.GET("/stats", m.Handler.Stats)
	g.GET("/users", m.Handler.Users)
	g.GET("/users/search", m.Handler.SearchUsers)
	g.PUT("/users/:id/status", m.Handler.UpdateUserStatus)
	g.GET("/transactions", m.Handler.Transactions)
}
