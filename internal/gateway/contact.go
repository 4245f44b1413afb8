// internal/gateway/contact.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/contact"
	"mining-storefront/internal/pkg/query"
)

// ContactService covers /api/contact.
type ContactService struct {
	client *Client
}

// Submit posts the public contact form.
func (s *ContactService) Submit(ctx context.Context, req contact.SubmitRequest) (*auth.MessageResponse, error) {
	return fetch[auth.MessageResponse](ctx, s.client, newCall(http.MethodPost, "/api/contact").withJSON(req))
}

// List fetches a page of messages.
func (s *ContactService) List(ctx context.Context, token string, params query.Params) (*contact.ListResponse, error) {
	cl := newCall(http.MethodGet, "/api/contact").withToken(token).withQuery(params)
	return fetch[contact.ListResponse](ctx, s.client, cl)
}

// Get fetches one message.
func (s *ContactService) Get(ctx context.Context, token, id string) (*contact.MessageResponse, error) {
	return fetch[contact.MessageResponse](ctx, s.client, newCall(http.MethodGet, "/api/contact/%s", id).withToken(token))
}

// Update changes a message's status or reply.
func (s *ContactService) Update(ctx context.Context, token, id string, req contact.UpdateRequest) (*contact.MessageResponse, error) {
	cl := newCall(http.MethodPut, "/api/contact/%s", id).withToken(token).withJSON(req)
	return fetch[contact.MessageResponse](ctx, s.client, cl)
}

// Delete removes a message.
func (s *ContactService) Delete(ctx context.Context, token, id string) (*auth.MessageResponse, error) {
	return fetch[auth.MessageResponse](ctx, s.client, newCall(http.MethodDelete, "/api/contact/%s", id).withToken(token))
}
