// internal/gateway/users.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/user"
	"mining-storefront/internal/pkg/query"
)

// UsersService covers the admin /api/users endpoints.
type UsersService struct {
	client *Client
}

// List fetches a page of users.
func (s *UsersService) List(ctx context.Context, token string, params query.Params) (*user.ListResponse, error) {
	return fetch[user.ListResponse](ctx, s.client, newCall(http.MethodGet, "/api/users").withToken(token).withQuery(params))
}

// Get fetches one user.
func (s *UsersService) Get(ctx context.Context, token, id string) (*user.UserResponse, error) {
	return s.user(ctx, newCall(http.MethodGet, "/api/users/%s", id).withToken(token))
}

// Update edits a user.
func (s *UsersService) Update(ctx context.Context, token, id string, req user.UpdateUserRequest) (*user.UserResponse, error) {
	return s.user(ctx, newCall(http.MethodPut, "/api/users/%s", id).withToken(token).withJSON(req))
}

// Delete removes a user.
func (s *UsersService) Delete(ctx context.Context, token, id string) (*auth.MessageResponse, error) {
	return fetch[auth.MessageResponse](ctx, s.client, newCall(http.MethodDelete, "/api/users/%s", id).withToken(token))
}

// ToggleStatus activates or deactivates a user.
func (s *UsersService) ToggleStatus(ctx context.Context, token, id string) (*user.UserResponse, error) {
	return s.user(ctx, newCall(http.MethodPost, "/api/users/%s/toggle-status", id).withToken(token))
}

// Stats fetches the user overview.
func (s *UsersService) Stats(ctx context.Context, token string) (*user.StatsResponse, error) {
	return fetch[user.StatsResponse](ctx, s.client, newCall(http.MethodGet, "/api/users/stats/overview").withToken(token))
}

func (s *UsersService) user(ctx context.Context, cl *call) (*user.UserResponse, error) {
	return fetch[user.UserResponse](ctx, s.client, cl)
}
