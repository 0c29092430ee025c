package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/staffing/ctxutil"
	"github.com/ncobase/staffing/logging/logger"
	"github.com/ncobase/staffing/net/resp"
)

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(token string) (email, role string, err error)
}

// AuthMiddleware creates authentication middleware.
func AuthMiddleware(auth Authenticator, logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("Authentication required"))
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("Invalid authorization header format"))
			c.Abort()
			return
		}

		email, role, err := auth.Authenticate(parts[1])
		if err != nil {
			logger.Warn(c.Request.Context(), "Invalid token", "error", err)
			resp.Fail(c.Writer, resp.UnAuthorized("Invalid or expired token"))
			c.Abort()
			return
		}

		ctx := ctxutil.SetIdentity(c.Request.Context(), email, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireRole creates role-based authorization middleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := ctxutil.GetRole(c.Request.Context())
		if role == "" {
			resp.Fail(c.Writer, resp.UnAuthorized("Authentication required"))
			c.Abort()
			return
		}

		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}

		resp.Fail(c.Writer, resp.Forbidden("Access denied"))
		c.Abort()
	}
}
