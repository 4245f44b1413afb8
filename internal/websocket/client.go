// internal/websocket/client.go
package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	wstypes "mining-storefront/internal/domain/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	workspaceID string
	logger      *zap.Logger

	// Subscriptions - what channels this client is listening to
	subscriptions map[wstypes.ChannelType]bool
	subMutex      sync.RWMutex

	// Context for graceful shutdown
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewClient wraps conn for a workspace. The client follows every channel
// until it unsubscribes.
func NewClient(hub *Hub, conn *websocket.Conn, workspaceID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	subs := make(map[wstypes.ChannelType]bool, len(wstypes.Channels))
	for _, ch := range wstypes.Channels {
		subs[ch] = true
	}
	return &Client{
		hub:           hub,
		conn:          conn,
		send:          make(chan []byte, 64),
		workspaceID:   workspaceID,
		logger:        hub.logger.With(zap.String("workspace_id", workspaceID)),
		subscriptions: subs,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// WorkspaceID returns the workspace the client belongs to.
func (c *Client) WorkspaceID() string {
	return c.workspaceID
}

// Context is cancelled when the client goes away.
func (c *Client) Context() context.Context {
	return c.ctx
}

// Subscribe to a channel
func (c *Client) Subscribe(channel wstypes.ChannelType) bool {
	if !channel.Valid() {
		return false
	}
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	c.subscriptions[channel] = true
	return true
}

// Unsubscribe from a channel
func (c *Client) Unsubscribe(channel wstypes.ChannelType) {
	c.subMutex.Lock()
	defer c.subMutex.Unlock()
	delete(c.subscriptions, channel)
}

// IsSubscribed checks if client is subscribed to a channel
func (c *Client) IsSubscribed(channel wstypes.ChannelType) bool {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	return c.subscriptions[channel]
}

// Channels returns the followed channels in their canonical order.
func (c *Client) Channels() []wstypes.ChannelType {
	c.subMutex.RLock()
	defer c.subMutex.RUnlock()
	out := make([]wstypes.ChannelType, 0, len(c.subscriptions))
	for _, ch := range wstypes.Channels {
		if c.subscriptions[ch] {
			out = append(out, ch)
		}
	}
	return out
}

// ReadPump handles incoming messages from client
func (c *Client) ReadPump() {
	defer func() {
		c.hub.leave(c)
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("feed read failed", zap.Error(err))
			}
			return
		}
		if c.ctx.Err() != nil {
			return
		}

		c.handleMessage(message)
	}
}

// WritePump handles outgoing messages to client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.flush()
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flush writes whatever is still queued.
func (c *Client) flush() {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		default:
			return
		}
	}
}

// handleMessage processes incoming messages from client
func (c *Client) handleMessage(data []byte) {
	msg, err := wstypes.ParseMessage(data)
	if err != nil {
		c.SendError("invalid_message", "Failed to parse message", err.Error())
		return
	}

	// Registered handlers may block on the backend, so they run off the read
	// loop.
	if handler, ok := c.hub.handlerRegistry.GetHandler(msg.Type); ok {
		go func() {
			if err := handler.HandleMessage(c.ctx, c, msg); err != nil {
				c.SendError("handler_error", "Failed to process message", err.Error())
			}
		}()
		return
	}

	// Built-in message handling
	switch msg.Type {
	case wstypes.EventTypePing:
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypePong, nil))

	case wstypes.EventTypeSubscribe:
		var req wstypes.SubscribeRequest
		if err := msg.DecodeData(&req); err != nil {
			c.SendError("invalid_subscribe", "Invalid subscribe request", err.Error())
			return
		}
		added := make([]wstypes.ChannelType, 0, len(req.Channels))
		for _, channel := range req.Channels {
			if c.Subscribe(channel) {
				added = append(added, channel)
			}
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeSubscribe, map[string]any{
			"channels": added,
			"status":   "subscribed",
		}))
		for _, channel := range added {
			c.hub.sendSnapshot(c, channel)
		}

	case wstypes.EventTypeUnsubscribe:
		var req wstypes.UnsubscribeRequest
		if err := msg.DecodeData(&req); err != nil {
			c.SendError("invalid_unsubscribe", "Invalid unsubscribe request", err.Error())
			return
		}
		for _, channel := range req.Channels {
			c.Unsubscribe(channel)
		}
		c.SendMessage(wstypes.NewMessage(wstypes.EventTypeUnsubscribe, map[string]any{
			"channels": req.Channels,
			"status":   "unsubscribed",
		}))

	case wstypes.EventTypeSnapshot:
		var req wstypes.SnapshotRequest
		if msg.Data != nil {
			if err := msg.DecodeData(&req); err != nil {
				c.SendError("invalid_snapshot", "Invalid snapshot request", err.Error())
				return
			}
		}
		channels := req.Channels
		if len(channels) == 0 {
			channels = wstypes.Channels
		}
		for _, channel := range channels {
			if !channel.Valid() {
				c.SendError("unknown_channel", "Unknown channel", string(channel))
				continue
			}
			c.hub.sendSnapshot(c, channel)
		}

	default:
		c.SendError("unknown_event", "Unsupported message type", string(msg.Type))
	}
}

// SendMessage queues a message for the client. A client that cannot keep up
// is closed.
func (c *Client) SendMessage(msg *wstypes.WSMessage) {
	data, err := msg.ToJSON()
	if err != nil {
		c.logger.Error("failed to marshal feed message", zap.Error(err))
		return
	}

	select {
	case <-c.ctx.Done():
		return
	default:
	}

	select {
	case c.send <- data:
	default:
		messagesDropped.Inc()
		c.logger.Warn("feed client too slow, closing")
		c.Close()
	}
}

// SendError sends an error message to the client
func (c *Client) SendError(code, message, details string) {
	c.SendMessage(wstypes.NewMessage(wstypes.EventTypeError, wstypes.ErrorData{
		Code:    code,
		Message: message,
		Details: details,
	}))
}

// Close stops the client. It is safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(c.cancel)
}
