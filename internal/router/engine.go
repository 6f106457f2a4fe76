package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-finance-tracker/internal/container"
	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
	"github.com/oksasatya/go-finance-tracker/pkg/validation"
)

// trustProxy is false: client IPs come from the socket, never from
// X-Forwarded-For, so rate-limit keys cannot be spoofed.
const trustProxy = false

// NewEngine returns a gin engine with global middleware and every module
// registered.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config

	validation.Init()

	r := gin.New()
	_ = r.SetTrustedProxies(nil)
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP(trustProxy))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled || cfg.IsDevelopment() {
		r.Use(gin.Logger())
	}

	reg := NewRegistry(r)
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}
