package websocket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	wstypes "mining-storefront/internal/domain/websocket"
)

type fakeSource struct {
	mu      sync.Mutex
	publish map[string]func(wstypes.ChannelType, *wstypes.WSMessage)
	watches atomic.Int32
	stops   atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{publish: map[string]func(wstypes.ChannelType, *wstypes.WSMessage){}}
}

func (s *fakeSource) Watch(id string, publish func(wstypes.ChannelType, *wstypes.WSMessage)) (func(), error) {
	if id == "missing" {
		return nil, errors.New("workspace not found")
	}
	s.watches.Add(1)
	s.mu.Lock()
	s.publish[id] = publish
	s.mu.Unlock()
	return func() {
		s.stops.Add(1)
		s.mu.Lock()
		delete(s.publish, id)
		s.mu.Unlock()
	}, nil
}

func (s *fakeSource) Snapshot(id string, channel wstypes.ChannelType) (*wstypes.WSMessage, error) {
	return wstypes.NewMessage(wstypes.EventTypeSnapshot, map[string]any{"channel": string(channel), "workspace": id}), nil
}

func (s *fakeSource) emit(id string, channel wstypes.ChannelType, eventType wstypes.EventType) bool {
	s.mu.Lock()
	fn := s.publish[id]
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(channel, wstypes.NewMessage(eventType, nil))
	return true
}

type echoHandler struct{}

func (echoHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeCatalogReset}
}

func (echoHandler) HandleMessage(_ context.Context, client *Client, msg *wstypes.WSMessage) error {
	return errors.New("reset refused for " + client.WorkspaceID())
}

func startHub(t *testing.T) (*Hub, *fakeSource, string) {
	t.Helper()
	source := newFakeSource()
	hub := NewHub(source, zap.NewNop())
	hub.RegisterHandler(echoHandler{})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(hub, conn, r.URL.Query().Get("ws"))
		if !hub.Register(client) {
			conn.Close()
			return
		}
		go client.WritePump()
		go client.ReadPump()
	}))
	t.Cleanup(server.Close)
	return hub, source, "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url, workspaceID string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url+"/?ws="+workspaceID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func read(t *testing.T, conn *websocket.Conn) *wstypes.WSMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	msg, err := wstypes.ParseMessage(data)
	require.NoError(t, err)
	return msg
}

// handshake consumes the connected message and the initial snapshots.
func handshake(t *testing.T, conn *websocket.Conn) {
	t.Helper()
	assert.Equal(t, wstypes.EventTypeConnected, read(t, conn).Type)
	for range wstypes.Channels {
		assert.Equal(t, wstypes.EventTypeSnapshot, read(t, conn).Type)
	}
}

func send(t *testing.T, conn *websocket.Conn, eventType wstypes.EventType, data any) {
	t.Helper()
	raw, err := wstypes.NewMessage(eventType, data).ToJSON()
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, raw))
}

func TestHub_ConnectSendsStateAndWatchesOnce(t *testing.T) {
	hub, source, url := startHub(t)

	a := dial(t, url, "ws1")
	msg := read(t, a)
	require.Equal(t, wstypes.EventTypeConnected, msg.Type)
	data := msg.Data.(map[string]any)
	assert.Equal(t, "ws1", data["workspace_id"])
	assert.Len(t, data["channels"], 2)
	first := read(t, a)
	assert.Equal(t, "session", first.Data.(map[string]any)["channel"])
	assert.Equal(t, "catalog", read(t, a).Data.(map[string]any)["channel"])

	b := dial(t, url, "ws1")
	handshake(t, b)

	assert.Equal(t, 2, hub.ConnectedClients("ws1"))
	assert.Equal(t, int32(1), source.watches.Load())
	assert.NotEmpty(t, first.ID)
}

func TestHub_PublishReachesOnlyThatWorkspace(t *testing.T) {
	_, source, url := startHub(t)
	a := dial(t, url, "ws1")
	handshake(t, a)
	other := dial(t, url, "ws2")
	handshake(t, other)

	require.True(t, source.emit("ws1", wstypes.ChannelCatalog, wstypes.EventTypeCatalogChanged))
	assert.Equal(t, wstypes.EventTypeCatalogChanged, read(t, a).Type)

	send(t, other, wstypes.EventTypePing, nil)
	assert.Equal(t, wstypes.EventTypePong, read(t, other).Type, "ws2 saw nothing before its pong")
}

func TestHub_Unsubscribe(t *testing.T) {
	_, source, url := startHub(t)
	conn := dial(t, url, "ws1")
	handshake(t, conn)

	send(t, conn, wstypes.EventTypeUnsubscribe, wstypes.UnsubscribeRequest{Channels: []wstypes.ChannelType{wstypes.ChannelCatalog}})
	assert.Equal(t, wstypes.EventTypeUnsubscribe, read(t, conn).Type)

	source.emit("ws1", wstypes.ChannelCatalog, wstypes.EventTypeCatalogChanged)
	source.emit("ws1", wstypes.ChannelSession, wstypes.EventTypeSessionChanged)
	assert.Equal(t, wstypes.EventTypeSessionChanged, read(t, conn).Type)
}

func TestHub_SubscribeSendsSnapshot(t *testing.T) {
	_, _, url := startHub(t)
	conn := dial(t, url, "ws1")
	handshake(t, conn)

	send(t, conn, wstypes.EventTypeSubscribe, wstypes.SubscribeRequest{Channels: []wstypes.ChannelType{"catalog", "bogus"}})

	ack := read(t, conn)
	assert.Equal(t, wstypes.EventTypeSubscribe, ack.Type)
	assert.Equal(t, []any{"catalog"}, ack.Data.(map[string]any)["channels"])
	snap := read(t, conn)
	assert.Equal(t, "catalog", snap.Data.(map[string]any)["channel"])
}

func TestHub_SnapshotRequest(t *testing.T) {
	_, _, url := startHub(t)
	conn := dial(t, url, "ws1")
	handshake(t, conn)

	send(t, conn, wstypes.EventTypeSnapshot, wstypes.SnapshotRequest{Channels: []wstypes.ChannelType{"session"}})
	assert.Equal(t, "session", read(t, conn).Data.(map[string]any)["channel"])

	send(t, conn, wstypes.EventTypeSnapshot, nil)
	assert.Equal(t, "session", read(t, conn).Data.(map[string]any)["channel"])
	assert.Equal(t, "catalog", read(t, conn).Data.(map[string]any)["channel"])
}

func TestHub_Errors(t *testing.T) {
	_, _, url := startHub(t)
	conn := dial(t, url, "ws1")
	handshake(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg := read(t, conn)
	assert.Equal(t, wstypes.EventTypeError, msg.Type)
	assert.Equal(t, "invalid_message", msg.Data.(map[string]any)["code"])

	send(t, conn, "launch", nil)
	assert.Equal(t, "unknown_event", read(t, conn).Data.(map[string]any)["code"])

	send(t, conn, wstypes.EventTypeCatalogReset, nil)
	msg = read(t, conn)
	assert.Equal(t, "handler_error", msg.Data.(map[string]any)["code"])
	assert.Equal(t, "reset refused for ws1", msg.Data.(map[string]any)["details"])
}

func TestHub_LastClientStopsWatch(t *testing.T) {
	hub, source, url := startHub(t)
	conn := dial(t, url, "ws1")
	handshake(t, conn)

	conn.Close()

	assert.Eventually(t, func() bool {
		return hub.ConnectedClients("ws1") == 0 && source.stops.Load() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, source.emit("ws1", wstypes.ChannelSession, wstypes.EventTypeSessionChanged))
}

func TestHub_DisconnectWorkspace(t *testing.T) {
	hub, source, url := startHub(t)
	conn := dial(t, url, "ws1")
	handshake(t, conn)

	hub.DisconnectWorkspace("ws1", "idle")

	msg := read(t, conn)
	assert.Equal(t, wstypes.EventTypeDisconnected, msg.Type)
	assert.Equal(t, "idle", msg.Data.(map[string]any)["reason"])
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.Zero(t, hub.TotalClients())
	assert.Equal(t, int32(1), source.stops.Load())
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := NewHub(newFakeSource(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	assert.False(t, hub.Register(&Client{workspaceID: "ws1"}))
	hub.Publish("ws1", wstypes.ChannelSession, wstypes.NewMessage(wstypes.EventTypePing, nil))
}

type stubHandler struct {
	events []wstypes.EventType
}

func (s stubHandler) HandleMessage(context.Context, *Client, *wstypes.WSMessage) error { return nil }
func (s stubHandler) SupportedEvents() []wstypes.EventType { return s.events }

func TestHandlerRegistry(t *testing.T) {
	hub := NewHub(nil, zap.NewNop())
	hub.RegisterHandler(stubHandler{events: []wstypes.EventType{wstypes.EventTypeCatalogReset, wstypes.EventTypeCatalogFetch}})

	assert.Equal(t, []wstypes.EventType{wstypes.EventTypeCatalogFetch, wstypes.EventTypeCatalogReset}, hub.Events())

	_, ok := hub.handlerRegistry.GetHandler(wstypes.EventTypeCatalogFetch)
	assert.True(t, ok)
	_, ok = hub.handlerRegistry.GetHandler(wstypes.EventTypeSessionRefresh)
	assert.False(t, ok)

	assert.Panics(t, func() {
		hub.RegisterHandler(stubHandler{events: []wstypes.EventType{wstypes.EventTypeCatalogFetch}})
	})
}
