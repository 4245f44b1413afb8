// internal/websocket/handler.go
package websocket

import (
	"context"
	"fmt"
	"slices"

	wstypes "mining-storefront/internal/domain/websocket"
)

// MessageHandler serves the client events of one area of the storefront.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// HandlerRegistry routes client events to the handler that claimed them.
// Registration happens before the hub runs, so lookups need no lock.
type HandlerRegistry struct {
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[wstypes.EventType]MessageHandler),
	}
}

// Register claims handler's events. Claiming an event twice is a wiring bug
// and panics, like registering a duplicate HTTP route.
func (r *HandlerRegistry) Register(handler MessageHandler) {
	for _, eventType := range handler.SupportedEvents() {
		if _, taken := r.handlers[eventType]; taken {
			panic(fmt.Sprintf("websocket: event %q registered twice", eventType))
		}
		r.handlers[eventType] = handler
	}
}

// GetHandler returns the handler for eventType.
func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	handler, exists := r.handlers[eventType]
	return handler, exists
}

// Events lists the claimed event types in sorted order.
func (r *HandlerRegistry) Events() []wstypes.EventType {
	events := make([]wstypes.EventType, 0, len(r.handlers))
	for e := range r.handlers {
		events = append(events, e)
	}
	slices.Sort(events)
	return events
}
