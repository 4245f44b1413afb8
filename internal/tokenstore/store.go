// internal/tokenstore/store.go

// Package tokenstore persists the bearer token of each browser workspace.
//
// A Backend is a small string key/value store. Scoped binds a backend to one
// workspace so the session manager only ever sees the single "token" value.
package tokenstore

import (
	"context"
	"fmt"
)

// TokenKey is the name the token is stored under inside a workspace.
const TokenKey = "token"

// Backend is durable string storage.
type Backend interface {
	// Get returns the value and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Scoped is the token slot of one workspace.
type Scoped struct {
	backend Backend
	key     string
}

// NewScoped binds backend to workspaceID.
func NewScoped(backend Backend, workspaceID string) *Scoped {
	return &Scoped{backend: backend, key: Key(workspaceID)}
}

// Key returns the backend key holding a workspace's token.
func Key(workspaceID string) string {
	return fmt.Sprintf("ws:%s:%s", workspaceID, TokenKey)
}

// Load returns the stored token or "".
func (s *Scoped) Load(ctx context.Context) (string, error) {
	v, _, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return "", fmt.Errorf("load token: %w", err)
	}
	return v, nil
}

// Save stores token. An empty token clears the slot.
func (s *Scoped) Save(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	if err := s.backend.Set(ctx, s.key, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear removes the token.
func (s *Scoped) Clear(ctx context.Context) error {
	if err := s.backend.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
