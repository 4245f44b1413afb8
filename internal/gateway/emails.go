// internal/gateway/emails.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/mail"
)

// EmailsService covers /api/emails.
type EmailsService struct {
	client *Client
}

// OrderConfirmation resends the confirmation for an order.
func (s *EmailsService) OrderConfirmation(ctx context.Context, token, orderID string) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/order-confirmation", mail.OrderRequest{OrderID: orderID})
}

// Invoice emails an order's invoice.
func (s *EmailsService) Invoice(ctx context.Context, token, orderID string) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/invoice", mail.OrderRequest{OrderID: orderID})
}

// OrderStatus notifies a customer of a status change.
func (s *EmailsService) OrderStatus(ctx context.Context, token, orderID, status string) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/order-status", mail.OrderStatusRequest{OrderID: orderID, Status: status})
}

// Custom sends a free-form email.
func (s *EmailsService) Custom(ctx context.Context, token string, req mail.CustomRequest) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/custom", req)
}

// Newsletter sends a bulk email to an audience.
func (s *EmailsService) Newsletter(ctx context.Context, token string, req mail.NewsletterRequest) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/newsletter", req)
}

// BulkOrderUpdate emails several customers about their orders.
func (s *EmailsService) BulkOrderUpdate(ctx context.Context, token string, orderIDs []string, message string) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/bulk-order-update", mail.BulkOrderUpdateRequest{OrderIDs: orderIDs, Message: message})
}

// Test sends a test email.
func (s *EmailsService) Test(ctx context.Context, token, recipient string) (*mail.SendResponse, error) {
	return s.send(ctx, token, "/api/emails/test", mail.TestRequest{Recipient: recipient})
}

// Templates lists the server's templates.
func (s *EmailsService) Templates(ctx context.Context, token string) (*mail.TemplatesResponse, error) {
	return fetch[mail.TemplatesResponse](ctx, s.client, newCall(http.MethodGet, "/api/emails/templates").withToken(token))
}

// Stats fetches delivery counters.
func (s *EmailsService) Stats(ctx context.Context, token string) (*mail.StatsResponse, error) {
	return fetch[mail.StatsResponse](ctx, s.client, newCall(http.MethodGet, "/api/emails/stats").withToken(token))
}

func (s *EmailsService) send(ctx context.Context, token, route string, body any) (*mail.SendResponse, error) {
	return fetch[mail.SendResponse](ctx, s.client, newCall(http.MethodPost, route).withToken(token).withJSON(body))
}
