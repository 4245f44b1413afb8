// internal/domain/invoice/entity.go
package invoice

import (
	"time"

	"mining-storefront/internal/domain/order"
)

// Invoice is issued per order.
type Invoice struct {
	ID            string       `json:"_id,omitempty"`
	InvoiceNumber string       `json:"invoiceNumber"`
	Order         *order.Order `json:"order,omitempty"`
	IssuedAt      *time.Time   `json:"issuedAt,omitempty"`
	DueDate       *time.Time   `json:"dueDate,omitempty"`
	SentAt        *time.Time   `json:"sentAt,omitempty"`
	CreatedAt     *time.Time   `json:"createdAt,omitempty"`
}

// Formats accepted by the by-order endpoint.
const (
	FormatJSON = "json"
	FormatPDF  = "pdf"
)
