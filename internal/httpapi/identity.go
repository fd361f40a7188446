package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Identity header names. The auth layer in front of this service
// resolves the session and forwards who is calling; role policy itself
// lives there, not here.
const (
	headerUserID = "X-User-ID"
	headerRole   = "X-User-Role"

	ctxUserID = "user_id"
	ctxAdmin  = "is_admin"
)

// identity extracts the caller's resolved identity from headers.
// Requests without a user id are rejected.
func (s *Server) identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(headerUserID)
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid user identity"})
			return
		}

		c.Set(ctxUserID, uint(id))
		c.Set(ctxAdmin, c.GetHeader(headerRole) == "admin")
		c.Next()
	}
}

// requireAdmin gates a route group on the resolved admin flag.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}

func isAdmin(c *gin.Context) bool {
	return c.GetBool(ctxAdmin)
}
