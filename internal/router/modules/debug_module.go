package modules

import (
	"expvar"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-finance-tracker/internal/interface/middleware"
)

type DebugModule struct {
	RDB redis.UniversalClient
}

func NewDebugModule(rdb redis.UniversalClient) *DebugModule { return &DebugModule{RDB: rdb} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// Public metrics endpoint (expvar), rate-limited per IP
	rl := middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByIP(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}
