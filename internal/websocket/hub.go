// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	wstypes "mining-storefront/internal/domain/websocket"
)

var (
	connectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_ws_connections_active",
			Help: "Number of open feed connections",
		},
	)

	messagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "storefront_ws_messages_dropped_total",
			Help: "Feed messages dropped because a buffer was full",
		},
	)
)

// Source is where the hub gets workspace state from.
type Source interface {
	// Watch forwards every state change of the workspace to publish until
	// stop is called.
	Watch(workspaceID string, publish func(wstypes.ChannelType, *wstypes.WSMessage)) (stop func(), err error)

	// Snapshot returns the current state of one channel.
	Snapshot(workspaceID string, channel wstypes.ChannelType) (*wstypes.WSMessage, error)
}

// Hub fans workspace state changes out to the connections of that
// workspace. A workspace is watched while it has at least one connection.
type Hub struct {
	// Registered clients by workspace ID
	clients map[string]map[*Client]bool
	watches map[string]func()
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *BroadcastMessage
	done       chan struct{}
	stopOnce   sync.Once

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	source Source
	logger *zap.Logger
}

type BroadcastMessage struct {
	WorkspaceID string
	Channel     wstypes.ChannelType
	Message     *wstypes.WSMessage
}

func NewHub(source Source, logger *zap.Logger) *Hub {
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		watches:         make(map[string]func()),
		register:        make(chan *Client),
		unregister:      make(chan *Client),
		broadcast:       make(chan *BroadcastMessage, 256),
		done:            make(chan struct{}),
		handlerRegistry: NewHandlerRegistry(),
		source:          source,
		logger:          logger,
	}
}

// RegisterHandler registers a message handler
func (h *Hub) RegisterHandler(handler MessageHandler) {
	h.handlerRegistry.Register(handler)
}

// Events lists the client events the registered handlers accept.
func (h *Hub) Events() []wstypes.EventType {
	return h.handlerRegistry.Events()
}

// Register hands a new client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Publish queues msg for every client of the workspace following channel.
// It never blocks; when the queue is full the message is dropped.
func (h *Hub) Publish(workspaceID string, channel wstypes.ChannelType, msg *wstypes.WSMessage) {
	select {
	case h.broadcast <- &BroadcastMessage{WorkspaceID: workspaceID, Channel: channel, Message: msg}:
	case <-h.done:
	default:
		messagesDropped.Inc()
		h.logger.Warn("feed broadcast queue full, dropping message",
			zap.String("workspace_id", workspaceID),
			zap.String("type", string(msg.Type)),
		)
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	first := len(h.clients[client.workspaceID]) == 0
	if first {
		h.clients[client.workspaceID] = make(map[*Client]bool)
	}
	h.clients[client.workspaceID][client] = true
	total := h.totalClients()
	h.mu.Unlock()

	connectionsActive.Inc()
	if first {
		h.watch(client.workspaceID)
	}

	h.logger.Info("feed client connected",
		zap.String("workspace_id", client.workspaceID),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]any{
		"workspace_id": client.workspaceID,
		"channels":     client.Channels(),
	}))
	for _, channel := range client.Channels() {
		h.sendSnapshot(client, channel)
	}
}

func (h *Hub) watch(workspaceID string) {
	if h.source == nil {
		return
	}
	stop, err := h.source.Watch(workspaceID, func(channel wstypes.ChannelType, msg *wstypes.WSMessage) {
		h.Publish(workspaceID, channel, msg)
	})
	if err != nil {
		h.logger.Warn("cannot watch workspace", zap.String("workspace_id", workspaceID), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients[workspaceID]) == 0 {
		stop()
		return
	}
	h.watches[workspaceID] = stop
}

func (h *Hub) sendSnapshot(client *Client, channel wstypes.ChannelType) {
	if h.source == nil {
		return
	}
	msg, err := h.source.Snapshot(client.workspaceID, channel)
	if err != nil {
		client.SendError("snapshot_failed", "Failed to read state", err.Error())
		return
	}
	client.SendMessage(msg)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	var stop func()
	if clients, ok := h.clients[client.workspaceID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			connectionsActive.Dec()

			if len(clients) == 0 {
				delete(h.clients, client.workspaceID)
				stop = h.watches[client.workspaceID]
				delete(h.watches, client.workspaceID)
			}

			h.logger.Info("feed client disconnected",
				zap.String("workspace_id", client.workspaceID),
				zap.Int("total", h.totalClients()),
			)
		}
	}
	h.mu.Unlock()

	client.Close()
	if stop != nil {
		stop()
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[msg.WorkspaceID] {
		if client.IsSubscribed(msg.Channel) {
			client.SendMessage(msg.Message)
		}
	}
}

// ConnectedClients returns the number of connections of a workspace.
func (h *Hub) ConnectedClients(workspaceID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[workspaceID])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// DisconnectWorkspace closes every connection of a workspace.
func (h *Hub) DisconnectWorkspace(workspaceID, reason string) {
	h.mu.Lock()
	clients := h.clients[workspaceID]
	stop := h.watches[workspaceID]
	delete(h.clients, workspaceID)
	delete(h.watches, workspaceID)
	h.mu.Unlock()

	if len(clients) == 0 {
		return
	}
	disconnectMsg := wstypes.NewMessage(wstypes.EventTypeDisconnected, map[string]any{
		"reason": reason,
	})
	for client := range clients {
		client.SendMessage(disconnectMsg)
		client.Close()
		connectionsActive.Dec()
	}
	if stop != nil {
		stop()
	}
	h.logger.Info("disconnected workspace clients",
		zap.String("workspace_id", workspaceID),
		zap.Int("count", len(clients)),
		zap.String("reason", reason),
	)
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.stopOnce.Do(func() { close(h.done) })

	h.mu.Lock()
	defer h.mu.Unlock()

	for id, clients := range h.clients {
		for client := range clients {
			client.Close()
			connectionsActive.Dec()
		}
		if stop := h.watches[id]; stop != nil {
			stop()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	h.watches = make(map[string]func())
}
