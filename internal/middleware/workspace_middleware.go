// internal/middleware/workspace_middleware.go
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mining-storefront/internal/service/workspace"
)

// WorkspaceOpener finds or creates the workspace of a browser.
type WorkspaceOpener interface {
	Open(ctx context.Context, id string) (*workspace.Workspace, bool)
}

// CookieConfig controls the workspace cookie.
type CookieConfig struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

// WorkspaceMiddleware attaches the caller's workspace, issuing a cookie when
// the browser has none or an unusable one.
func WorkspaceMiddleware(opener WorkspaceOpener, cfg CookieConfig) gin.HandlerFunc {
	if cfg.Name == "" {
		cfg.Name = "sf_ws"
	}
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.Name)
		ws, issued := opener.Open(c.Request.Context(), id)
		if issued {
			http.SetCookie(c.Writer, &http.Cookie{
				Name:     cfg.Name,
				Value:    ws.ID,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}
