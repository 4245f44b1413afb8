// internal/middleware/session_middleware.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mining-storefront/internal/pkg/response"
)

// RequireSession rejects requests whose workspace holds no token.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			response.Error(c, http.StatusUnauthorized, "Please log in to continue", nil)
			return
		}
		c.Next()
	}
}

// RequireStaff gates the dashboard routes on the session user's role. It only
// decides what the storefront offers; the backend still checks every call.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAuthenticated(c) {
			response.Error(c, http.StatusUnauthorized, "Please log in to continue", nil)
			return
		}
		if !IsStaff(c) {
			response.Error(c, http.StatusForbidden, "insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

// StaffOnly returns the middlewares for dashboard routes
func StaffOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{RequireSession(), RequireStaff()}
}
