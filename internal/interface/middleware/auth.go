package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-finance-tracker/internal/application"
	"github.com/oksasatya/go-finance-tracker/internal/domain/entity"
	"github.com/oksasatya/go-finance-tracker/pkg/response"
)

const (
	CtxUserKey   = "user"
	CtxUserIDKey = "userID"
)

// Auth resolves the bearer token through the gate and stores the identity in
// the Gin context under CtxUserKey and its id under CtxUserIDKey.
func Auth(gate *application.AuthGate, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := gate.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.FromError(c, logger, err)
			return
		}
		c.Set(CtxUserKey, u)
		c.Set(CtxUserIDKey, u.ID)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(gate *application.AuthGate, role entity.Role, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := gate.AuthorizeRole(CurrentUser(c), role); err != nil {
			response.FromError(c, logger, err)
			return
		}
		c.Next()
	}
}

// CurrentUser returns the identity stored by Auth, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*entity.User)
	return u
}
