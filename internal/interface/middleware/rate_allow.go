package middleware

import (
	"net"

	"github.com/gin-gonic/gin"
)

// AllowPrivateIP bypasses the limiter for loopback and RFC 1918 clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowRole bypasses the limiter for authenticated identities holding role.
func AllowRole(role string) AllowFunc {
	return func(c *gin.Context) bool {
		u := CurrentUser(c)
		return u != nil && string(u.Role) == role
	}
}
