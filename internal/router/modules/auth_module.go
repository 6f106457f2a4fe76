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

type AuthModule struct {
	Handler *handlers.AuthHandler
	Gate    *application.AuthGate
	RDB     redis.UniversalClient
	Logger  *logrus.Logger
	Google  bool
}

func NewAuthModule(h *handlers.AuthHandler, gate *application.AuthGate, rdb redis.UniversalClient, logger *logrus.Logger, google bool) *AuthModule {
	return &AuthModule{Handler: h, Gate: gate, RDB: rdb, Logger: logger, Google: google}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	otpLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	verifyLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)
	loginLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(m.RDB, 60, time.Minute, middleware.KeyByIP(), nil)

	g := rg.Group("/auth")
	g.POST("/send-otp", otpLimiter, m.Handler.SendOTP)
	g.POST("/verify-otp", verifyLimiter, m.Handler.VerifyOTP)
	g.POST("/register", loginLimiter, m.Handler.Register)
	g.POST("/login", loginLimiter, m.Handler.Login)
	g.POST("/refresh-token", refreshLimiter, m.Handler.RefreshToken)
	g.POST("/logout", refreshLimiter, m.Handler.Logout)
	if m.Google {
		g.GET("/google", loginLimiter, m.Handler.GoogleStart)
		g.GET("/google/callback", m.Handler.GoogleCallback)
	}

	auth := g.Group("/")
	auth.Use(middleware.Auth(m.Gate, m.Logger))
	auth.Use(middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/me", m.Handler.Me)
		auth.POST("/change-password", m.Handler.ChangePassword)
	}
}
