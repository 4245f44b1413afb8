// internal/websocket/errors.go
package websocket

import "errors"

var (
	ErrHubClosed         = errors.New("feed hub has stopped")
	ErrUnknownChannel    = errors.New("unknown channel")
	ErrWorkspaceRequired = errors.New("workspace required")
)
