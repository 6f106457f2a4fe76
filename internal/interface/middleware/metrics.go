package middleware

import (
	"expvar"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Counters published under /debug/vars.
var (
	RequestsByStatus = expvar.NewMap("http_requests_by_status")
	PendingSwept     = expvar.NewInt("pending_registrations_swept")
)

// Metrics counts finished requests by status class (2xx, 4xx, ...).
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		RequestsByStatus.Add(strconv.Itoa(c.Writer.Status()/100)+"xx", 1)
	}
}
