// internal/domain/quote/dto.go
package quote

import "mining-storefront/internal/domain/order"

// CreateQuoteRequest asks for a quote. The token is optional.
type CreateQuoteRequest struct {
	CustomerInfo order.CustomerInfo `json:"customerInfo" binding:"required"`
	Items        []ItemInput        `json:"items" binding:"required,min=1,dive"`
	Notes        string             `json:"notes,omitempty"`
}

// ItemInput is a requested line. Either Product or CustomItem is set.
type ItemInput struct {
	Product    string      `json:"product,omitempty"`
	CustomItem *CustomItem `json:"customItem,omitempty"`
	Quantity   int         `json:"quantity" binding:"required,min=1"`
}

// RejectRequest carries the customer's reason.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// AdminUpdateRequest is the sales response to a quote.
type AdminUpdateRequest struct {
	Status      string   `json:"status,omitempty"`
	Items       []Item   `json:"items,omitempty"`
	TotalAmount *float64 `json:"totalAmount,omitempty"`
	AdminNotes  string   `json:"adminNotes,omitempty"`
	ValidUntil  string   `json:"validUntil,omitempty"`
}

// QuoteResponse wraps a single quote.
type QuoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Quote   *Quote `json:"quote,omitempty"`
}

// ListResponse is a page of quotes.
type ListResponse struct {
	Success    bool           `json:"success"`
	Quotes     []Quote        `json:"quotes"`
	Pagination map[string]any `json:"pagination,omitempty"`
}

// Stats is the quote overview.
type Stats struct {
	Success bool           `json:"success"`
	Stats   map[string]any `json:"stats"`
}
