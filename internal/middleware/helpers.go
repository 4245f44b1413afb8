// internal/middleware/helpers.go
package middleware

import (
	"github.com/gin-gonic/gin"

	"mining-storefront/internal/service/workspace"
)

const workspaceKey = "workspace"

// GetWorkspace returns the workspace attached by WorkspaceMiddleware.
func GetWorkspace(c *gin.Context) (*workspace.Workspace, bool) {
	v, exists := c.Get(workspaceKey)
	if !exists {
		return nil, false
	}
	ws, ok := v.(*workspace.Workspace)
	return ws, ok
}

// MustGetWorkspace gets the workspace from context or panics
func MustGetWorkspace(c *gin.Context) *workspace.Workspace {
	ws, ok := GetWorkspace(c)
	if !ok {
		panic("workspace not found in context")
	}
	return ws
}

// GetRequestID returns the request id, "" outside RequestIDMiddleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// IsAuthenticated checks if the workspace session holds a token
func IsAuthenticated(c *gin.Context) bool {
	ws, ok := GetWorkspace(c)
	return ok && ws.Session.Token() != ""
}

// IsStaff checks if the session user may see the dashboard
func IsStaff(c *gin.Context) bool {
	ws, ok := GetWorkspace(c)
	if !ok {
		return false
	}
	user := ws.Session.Snapshot().User
	return user != nil && user.IsStaff()
}
