// internal/domain/websocket/types.go
package websocket

import (
	"encoding/json"
	"time"

	"github.com/oklog/ulid/v2"

	"mining-storefront/internal/domain/auth"
)

// EventType names a feed message.
type EventType string

const (
	// Connection events
	EventTypePing         EventType = "ping"
	EventTypePong         EventType = "pong"
	EventTypeConnected    EventType = "connected"
	EventTypeDisconnected EventType = "disconnected"
	EventTypeError        EventType = "error"

	// State events (server -> client)
	EventTypeSessionChanged EventType = "session:changed"
	EventTypeCatalogChanged EventType = "catalog:changed"

	// Client requests
	EventTypeSnapshot    EventType = "snapshot"
	EventTypeSubscribe   EventType = "subscribe"
	EventTypeUnsubscribe EventType = "unsubscribe"

	// Client actions; their outcome arrives as a state event
	EventTypeCatalogFetch   EventType = "catalog:fetch"
	EventTypeCatalogSearch  EventType = "catalog:search"
	EventTypeCatalogFilters EventType = "catalog:filters"
	EventTypeCatalogReset   EventType = "catalog:reset"
	EventTypeSessionRefresh EventType = "session:refresh"
)

// WSMessage is the universal message format
type WSMessage struct {
	Type      EventType      `json:"type"`
	Data      any            `json:"data,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	ID        string         `json:"id,omitempty"`
}

// ChannelType is a stream of state a client can follow.
type ChannelType string

const (
	ChannelSession ChannelType = "session"
	ChannelCatalog ChannelType = "catalog"
)

// Channels lists every channel; new clients follow all of them.
var Channels = []ChannelType{ChannelSession, ChannelCatalog}

// Valid reports whether c is a known channel.
func (c ChannelType) Valid() bool {
	switch c {
	case ChannelSession, ChannelCatalog:
		return true
	}
	return false
}

// SubscribeRequest sent by client to subscribe to specific channels
type SubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// UnsubscribeRequest sent by client to unsubscribe from channels
type UnsubscribeRequest struct {
	Channels []ChannelType `json:"channels"`
}

// SnapshotRequest asks for the current state of the named channels, all of
// them when empty.
type SnapshotRequest struct {
	Channels []ChannelType `json:"channels,omitempty"`
}

// FetchRequest asks for a catalog page.
type FetchRequest struct {
	Page int `json:"page"`
}

// SearchRequest runs a text search within the current filters.
type SearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

// ErrorData for error events
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SessionData is the session as the browser may see it. The token stays on
// the server.
type SessionData struct {
	Authenticated bool              `json:"authenticated"`
	User          *auth.UserProfile `json:"user"`
	Loading       bool              `json:"loading"`
	AuthLoading   bool              `json:"authLoading"`
}

// NewSessionData projects a session for the feed.
func NewSessionData(s auth.Session) SessionData {
	return SessionData{
		Authenticated: s.Authenticated(),
		User:          s.User,
		Loading:       s.Loading,
		AuthLoading:   s.AuthLoading,
	}
}

// NewMessage creates a message stamped with a fresh id.
func NewMessage(eventType EventType, data any) *WSMessage {
	return &WSMessage{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
		ID:        ulid.Make().String(),
	}
}

func (m *WSMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// DecodeData unmarshals the message payload into target.
func (m *WSMessage) DecodeData(target any) error {
	raw, err := json.Marshal(m.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func ParseMessage(data []byte) (*WSMessage, error) {
	var msg WSMessage
	err := json.Unmarshal(data, &msg)
	return &msg, err
}
