// internal/gateway/invoices.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/invoice"
	"mining-storefront/internal/pkg/query"
)

// InvoicesService covers /api/invoices.
type InvoicesService struct {
	client *Client
}

// Mine lists the caller's invoices.
func (s *InvoicesService) Mine(ctx context.Context, token string) (*invoice.ListResponse, error) {
	return s.list(ctx, newCall(http.MethodGet, "/api/invoices").withToken(token))
}

// ByOrder fetches the invoice of an order as JSON.
func (s *InvoicesService) ByOrder(ctx context.Context, token, orderID string) (*invoice.InvoiceResponse, error) {
	cl := newCall(http.MethodGet, "/api/invoices/%s", orderID).
		withToken(token).
		withQuery(query.Params{}.Add("format", invoice.FormatJSON))
	return s.invoice(ctx, cl)
}

// ByOrderPDF fetches the invoice of an order as a PDF.
func (s *InvoicesService) ByOrderPDF(ctx context.Context, token, orderID string) (*Blob, error) {
	cl := newCall(http.MethodGet, "/api/invoices/%s", orderID).
		withToken(token).
		withQuery(query.Params{}.Add("format", invoice.FormatPDF))
	return s.client.download(ctx, cl)
}

// Guest fetches a guest order's invoice by number and email.
func (s *InvoicesService) Guest(ctx context.Context, orderNumber, email string) (*invoice.InvoiceResponse, error) {
	return s.invoice(ctx, newCall(http.MethodGet, "/api/invoices/guest/%s/%s", orderNumber, email))
}

// Send emails the invoice to the caller.
func (s *InvoicesService) Send(ctx context.Context, token, orderID string) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/invoices/%s/send", orderID).withToken(token))
}

// Download fetches the invoice PDF.
func (s *InvoicesService) Download(ctx context.Context, token, orderID string) (*Blob, error) {
	return s.client.download(ctx, newCall(http.MethodGet, "/api/invoices/%s/download", orderID).withToken(token))
}

// AdminList lists all invoices.
func (s *InvoicesService) AdminList(ctx context.Context, token string, params query.Params) (*invoice.ListResponse, error) {
	return s.list(ctx, newCall(http.MethodGet, "/api/invoices/admin/all").withToken(token).withQuery(params))
}

// AdminSend emails an order's invoice to its customer.
func (s *InvoicesService) AdminSend(ctx context.Context, token, orderID string) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/invoices/admin/%s/send", orderID).withToken(token))
}

// AdminPDF renders any order's invoice as a PDF.
func (s *InvoicesService) AdminPDF(ctx context.Context, token, orderID string) (*Blob, error) {
	return s.client.download(ctx, newCall(http.MethodGet, "/api/invoices/admin/%s/pdf", orderID).withToken(token))
}

// BulkSend emails the invoices of several orders.
func (s *InvoicesService) BulkSend(ctx context.Context, token string, orderIDs []string) (*invoice.BulkSendResponse, error) {
	var resp invoice.BulkSendResponse
	cl := newCall(http.MethodPost, "/api/invoices/admin/bulk-send").
		withToken(token).
		withJSON(invoice.BulkSendRequest{OrderIDs: orderIDs})
	if err := s.client.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats fetches the invoice overview.
func (s *InvoicesService) Stats(ctx context.Context, token string) (*invoice.Stats, error) {
	return fetch[invoice.Stats](ctx, s.client, newCall(http.MethodGet, "/api/invoices/stats/overview").withToken(token))
}

func (s *InvoicesService) invoice(ctx context.Context, cl *call) (*invoice.InvoiceResponse, error) {
	return fetch[invoice.InvoiceResponse](ctx, s.client, cl)
}

func (s *InvoicesService) list(ctx context.Context, cl *call) (*invoice.ListResponse, error) {
	return fetch[invoice.ListResponse](ctx, s.client, cl)
}

func (s *InvoicesService) message(ctx context.Context, cl *call) (*auth.MessageResponse, error) {
	return fetch[auth.MessageResponse](ctx, s.client, cl)
}
