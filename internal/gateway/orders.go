// internal/gateway/orders.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/order"
	"mining-storefront/internal/pkg/query"
)

// OrdersService covers /api/orders and /api/admin/orders.
type OrdersService struct {
	client *Client
}

// Create places an order. token may be empty for guest checkout.
func (s *OrdersService) Create(ctx context.Context, token string, req order.CreateOrderRequest) (*order.OrderResponse, error) {
	return s.order(ctx, newCall(http.MethodPost, "/api/orders").withToken(token).withJSON(req))
}

// Mine lists the caller's orders.
func (s *OrdersService) Mine(ctx context.Context, token string, params query.Params) (*order.ListResponse, error) {
	return s.list(ctx, newCall(http.MethodGet, "/api/orders").withToken(token).withQuery(params))
}

// Get fetches one order.
func (s *OrdersService) Get(ctx context.Context, token, id string) (*order.OrderResponse, error) {
	return s.order(ctx, newCall(http.MethodGet, "/api/orders/%s", id).withToken(token))
}

// Track looks up a guest order by number and email.
func (s *OrdersService) Track(ctx context.Context, orderNumber, email string) (*order.OrderResponse, error) {
	return s.order(ctx, newCall(http.MethodGet, "/api/orders/track/%s/%s", orderNumber, email))
}

// Cancel cancels one of the caller's orders.
func (s *OrdersService) Cancel(ctx context.Context, token, id string) (*order.OrderResponse, error) {
	return s.order(ctx, newCall(http.MethodDelete, "/api/orders/%s", id).withToken(token))
}

// AdminList lists all orders.
func (s *OrdersService) AdminList(ctx context.Context, token string, params query.Params) (*order.ListResponse, error) {
	return s.list(ctx, newCall(http.MethodGet, "/api/admin/orders").withToken(token).withQuery(params))
}

// UpdateStatus changes status, payment status, tracking or notes.
func (s *OrdersService) UpdateStatus(ctx context.Context, token, id string, req order.UpdateStatusRequest) (*order.OrderResponse, error) {
	return s.order(ctx, newCall(http.MethodPut, "/api/orders/%s", id).withToken(token).withJSON(req))
}

func (s *OrdersService) order(ctx context.Context, cl *call) (*order.OrderResponse, error) {
	return fetch[order.OrderResponse](ctx, s.client, cl)
}

func (s *OrdersService) list(ctx context.Context, cl *call) (*order.ListResponse, error) {
	return fetch[order.ListResponse](ctx, s.client, cl)
}
