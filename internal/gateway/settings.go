// internal/gateway/settings.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/settings"
)

// SettingsService covers /api/settings.
type SettingsService struct {
	client *Client
}

// Get fetches the store settings.
func (s *SettingsService) Get(ctx context.Context, token string) (*settings.SettingsResponse, error) {
	return fetch[settings.SettingsResponse](ctx, s.client, newCall(http.MethodGet, "/api/settings").withToken(token))
}

// Update replaces the store settings.
func (s *SettingsService) Update(ctx context.Context, token string, doc settings.Settings) (*settings.SettingsResponse, error) {
	cl := newCall(http.MethodPut, "/api/settings").withToken(token).withJSON(doc)
	return fetch[settings.SettingsResponse](ctx, s.client, cl)
}

// TestEmail checks SMTP settings by sending a test message.
func (s *SettingsService) TestEmail(ctx context.Context, token string, smtp settings.Email) (*auth.MessageResponse, error) {
	cl := newCall(http.MethodPost, "/api/settings/test-email").withToken(token).withJSON(smtp)
	return fetch[auth.MessageResponse](ctx, s.client, cl)
}

// TestPayment checks payment gateway credentials.
func (s *SettingsService) TestPayment(ctx context.Context, token string, payment settings.Payment) (*auth.MessageResponse, error) {
	cl := newCall(http.MethodPost, "/api/settings/test-payment").withToken(token).withJSON(payment)
	return fetch[auth.MessageResponse](ctx, s.client, cl)
}
