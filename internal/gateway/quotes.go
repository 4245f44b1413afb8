// internal/gateway/quotes.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/quote"
	"mining-storefront/internal/pkg/query"
)

// QuotesService covers /api/quotes.
type QuotesService struct {
	client *Client
}

// Create requests a quote. token may be empty.
func (s *QuotesService) Create(ctx context.Context, token string, req quote.CreateQuoteRequest) (*quote.QuoteResponse, error) {
	return s.quote(ctx, newCall(http.MethodPost, "/api/quotes").withToken(token).withJSON(req))
}

// Mine lists the caller's quotes.
func (s *QuotesService) Mine(ctx context.Context, token string) (*quote.ListResponse, error) {
	return s.list(ctx, newCall(http.MethodGet, "/api/quotes").withToken(token))
}

// Get fetches one quote.
func (s *QuotesService) Get(ctx context.Context, token, id string) (*quote.QuoteResponse, error) {
	return s.quote(ctx, newCall(http.MethodGet, "/api/quotes/%s", id).withToken(token))
}

// Accept accepts a quoted price.
func (s *QuotesService) Accept(ctx context.Context, token, id string) (*quote.QuoteResponse, error) {
	return s.quote(ctx, newCall(http.MethodPut, "/api/quotes/%s/accept", id).withToken(token))
}

// Reject declines a quote with a reason.
func (s *QuotesService) Reject(ctx context.Context, token, id, reason string) (*quote.QuoteResponse, error) {
	cl := newCall(http.MethodPut, "/api/quotes/%s/reject", id).withToken(token).withJSON(quote.RejectRequest{Reason: reason})
	return s.quote(ctx, cl)
}

// Delete removes a quote.
func (s *QuotesService) Delete(ctx context.Context, token, id string) (*auth.MessageResponse, error) {
	return fetch[auth.MessageResponse](ctx, s.client, newCall(http.MethodDelete, "/api/quotes/%s", id).withToken(token))
}

// AdminList lists all quotes.
func (s *QuotesService) AdminList(ctx context.Context, token string, params query.Params) (*quote.ListResponse, error) {
	return s.list(ctx, newCall(http.MethodGet, "/api/quotes/admin/all").withToken(token).withQuery(params))
}

// AdminUpdate prices or annotates a quote.
func (s *QuotesService) AdminUpdate(ctx context.Context, token, id string, req quote.AdminUpdateRequest) (*quote.QuoteResponse, error) {
	return s.quote(ctx, newCall(http.MethodPut, "/api/quotes/%s/admin/update", id).withToken(token).withJSON(req))
}

// Send emails the quote to the customer.
func (s *QuotesService) Send(ctx context.Context, token, id string) (*quote.QuoteResponse, error) {
	return s.quote(ctx, newCall(http.MethodPost, "/api/quotes/%s/send", id).withToken(token))
}

// Stats fetches the quote overview.
func (s *QuotesService) Stats(ctx context.Context, token string) (*quote.Stats, error) {
	return fetch[quote.Stats](ctx, s.client, newCall(http.MethodGet, "/api/quotes/stats/overview").withToken(token))
}

func (s *QuotesService) quote(ctx context.Context, cl *call) (*quote.QuoteResponse, error) {
	return fetch[quote.QuoteResponse](ctx, s.client, cl)
}

func (s *QuotesService) list(ctx context.Context, cl *call) (*quote.ListResponse, error) {
	return fetch[quote.ListResponse](ctx, s.client, cl)
}
