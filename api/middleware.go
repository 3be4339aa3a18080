package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// The identity provider in front of this service authenticates the caller
// and forwards the identity as headers. The core trusts them as-is.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	ctxUserID   = "userID"
	ctxUserRole = "userRole"

	roleAdmin = "admin"
)

func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user identity is missing"})
			return
		}
		c.Set(ctxUserID, userID)
		c.Set(ctxUserRole, c.GetHeader(headerUserRole))
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(roleAdmin)
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxUserRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
