// internal/handlers/websocket/websocket.go
package websocket

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/response"
	ws "mining-storefront/internal/websocket"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewWebSocketHandler accepts upgrades from the listed origins. "*" allows
// any origin; an empty list allows only same-host requests.
func NewWebSocketHandler(hub *ws.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: logger,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[strings.TrimRight(o, "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set["*"] || set[origin] {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

// HandleConnection upgrades the request and attaches the socket to the
// caller's workspace. The workspace cookie is the only credential.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	workspace := middleware.MustGetWorkspace(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed",
			zap.Error(err),
			zap.String("ip", c.ClientIP()),
			zap.String("origin", c.GetHeader("Origin")),
		)
		return
	}

	client := ws.NewClient(h.hub, conn, workspace.ID)
	if !h.hub.Register(client) {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		client.Close()
		conn.Close()
		return
	}

	h.logger.Info("WebSocket client connected",
		zap.String("workspace_id", workspace.ID),
		zap.String("ip", c.ClientIP()),
	)

	go client.WritePump()
	go client.ReadPump()
}

// GetStats returns WebSocket connection statistics (staff only)
func (h *WebSocketHandler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"total_connections": h.hub.TotalClients(),
		"events":            h.hub.Events(),
		"timestamp":         time.Now(),
	}

	response.Success(c, http.StatusOK, "WebSocket stats", stats)
}
