package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole composes after RequireAuth: 401 when no identity reached
// the context, 403 when the identity's role does not match.
func (m *AuthMiddleware) RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := RoleFromContext(c)

		if !ok || role == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Missing identity context",
			})
			return
		}
		if role != required {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Forbidden",
			})
			return
		}
		c.Next()
	}
}
