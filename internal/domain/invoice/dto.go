// internal/domain/invoice/dto.go
package invoice

// InvoiceResponse wraps a single invoice.
type InvoiceResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Invoice *Invoice `json:"invoice,omitempty"`
}

// ListResponse is a page of invoices.
type ListResponse struct {
	Success    bool           `json:"success"`
	Invoices   []Invoice      `json:"invoices"`
	Pagination map[string]any `json:"pagination,omitempty"`
}

// BulkSendRequest lists the orders whose invoices to email.
type BulkSendRequest struct {
	OrderIDs []string `json:"orderIds" binding:"required,min=1"`
}

// BulkSendResponse reports the outcome of a bulk send.
type BulkSendResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Sent    int      `json:"sent"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Stats is the invoice overview.
type Stats struct {
	Success bool           `json:"success"`
	Stats   map[string]any `json:"stats"`
}
