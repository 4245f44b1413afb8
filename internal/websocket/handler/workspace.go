// internal/websocket/handler/workspace.go
package handler

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/catalog"
	wstypes "mining-storefront/internal/domain/websocket"
	xerrors "mining-storefront/internal/pkg/errors"
	"mining-storefront/internal/service/workspace"
	ws "mining-storefront/internal/websocket"
)

// Workspaces finds live workspaces.
type Workspaces interface {
	Get(id string) (*workspace.Workspace, error)
}

// Feed turns workspace stores into feed messages.
type Feed struct {
	workspaces Workspaces
}

func NewFeed(workspaces Workspaces) *Feed {
	return &Feed{workspaces: workspaces}
}

// Watch subscribes to both stores of the workspace.
func (f *Feed) Watch(workspaceID string, publish func(wstypes.ChannelType, *wstypes.WSMessage)) (func(), error) {
	w, err := f.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}
	stopSession := w.Session.Subscribe(func(s auth.Session) {
		publish(wstypes.ChannelSession, wstypes.NewMessage(wstypes.EventTypeSessionChanged, wstypes.NewSessionData(s)))
	})
	stopCatalog := w.Catalog.Subscribe(func(s catalog.State) {
		publish(wstypes.ChannelCatalog, wstypes.NewMessage(wstypes.EventTypeCatalogChanged, s))
	})
	return func() {
		stopSession()
		stopCatalog()
	}, nil
}

// Snapshot returns the current state of channel.
func (f *Feed) Snapshot(workspaceID string, channel wstypes.ChannelType) (*wstypes.WSMessage, error) {
	w, err := f.workspaces.Get(workspaceID)
	if err != nil {
		return nil, err
	}
	switch channel {
	case wstypes.ChannelSession:
		return wstypes.NewMessage(wstypes.EventTypeSessionChanged, wstypes.NewSessionData(w.Session.Snapshot())), nil
	case wstypes.ChannelCatalog:
		return wstypes.NewMessage(wstypes.EventTypeCatalogChanged, w.Catalog.Snapshot()), nil
	}
	return nil, fmt.Errorf("%w: %s", ws.ErrUnknownChannel, channel)
}

// WorkspaceHandler drives the workspace managers from feed messages. Results
// reach the client through the state channels.
type WorkspaceHandler struct {
	workspaces Workspaces
	logger     *zap.Logger
}

func NewWorkspaceHandler(workspaces Workspaces, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces, logger: logger}
}

// SupportedEvents returns events this handler supports
func (h *WorkspaceHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{
		wstypes.EventTypeCatalogFetch,
		wstypes.EventTypeCatalogSearch,
		wstypes.EventTypeCatalogFilters,
		wstypes.EventTypeCatalogReset,
		wstypes.EventTypeSessionRefresh,
	}
}

// HandleMessage processes workspace actions
func (h *WorkspaceHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	w, err := h.workspaces.Get(client.WorkspaceID())
	if err != nil {
		return err
	}

	switch msg.Type {
	case wstypes.EventTypeCatalogFetch:
		var req wstypes.FetchRequest
		if err := decodeOptional(msg, &req); err != nil {
			return err
		}
		return ignoreStale(w.Catalog.FetchProducts(ctx, req.Page))

	case wstypes.EventTypeCatalogSearch:
		var req wstypes.SearchRequest
		if err := msg.DecodeData(&req); err != nil {
			return err
		}
		return ignoreStale(w.Catalog.SearchProductsWithFilters(ctx, req.Query, req.Page))

	case wstypes.EventTypeCatalogFilters:
		var patch catalog.FilterPatch
		if err := msg.DecodeData(&patch); err != nil {
			return err
		}
		w.Catalog.UpdateFilters(patch)
		return nil

	case wstypes.EventTypeCatalogReset:
		w.Catalog.ResetFilters()
		return nil

	case wstypes.EventTypeSessionRefresh:
		if err := w.Session.RefreshUser(ctx); err != nil {
			h.logger.Debug("feed refresh failed", zap.String("workspace_id", w.ID), zap.Error(err))
			return errors.New(xerrors.MessageOrDefault(err, "Failed to refresh session"))
		}
		return nil

	default:
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}
}

func decodeOptional(msg *wstypes.WSMessage, target any) error {
	if msg.Data == nil {
		return nil
	}
	return msg.DecodeData(target)
}

func ignoreStale(err error) error {
	if errors.Is(err, xerrors.ErrStaleResponse) {
		return nil
	}
	return err
}
