package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP sets the client IP into Gin context (key: "real_ip").
// Proxy headers are honoured only when trustProxy is set, in this order:
// CF-Connecting-IP, then the left-most X-Forwarded-For entry.
func RealIP(trustProxy bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", realIP(c, trustProxy))
		c.Next()
	}
}

func realIP(c *gin.Context, trustProxy bool) string {
	if trustProxy {
		if cf := strings.TrimSpace(c.GetHeader("CF-Connecting-IP")); cf != "" {
			if ip := net.ParseIP(cf); ip != nil {
				return ip.String()
			}
		}
		if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
				return ip.String()
			}
		}
	}
	return c.ClientIP()
}
