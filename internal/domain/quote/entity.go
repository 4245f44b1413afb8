// internal/domain/quote/entity.go
package quote

import (
	"time"

	"mining-storefront/internal/domain/order"
)

// Quote statuses
const (
	StatusPending  = "pending"
	StatusQuoted   = "quoted"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// Quote is a request for pricing, answered by sales staff.
type Quote struct {
	ID              string             `json:"_id"`
	QuoteNumber     string             `json:"quoteNumber,omitempty"`
	CustomerInfo    order.CustomerInfo `json:"customerInfo"`
	Items           []Item             `json:"items"`
	TotalAmount     float64            `json:"totalAmount"`
	Status          string             `json:"status"`
	Notes           string             `json:"notes,omitempty"`
	AdminNotes      string             `json:"adminNotes,omitempty"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	ValidUntil      *time.Time         `json:"validUntil,omitempty"`
	RespondedAt     *time.Time         `json:"respondedAt,omitempty"`
	CreatedAt       *time.Time         `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time         `json:"updatedAt,omitempty"`
}

// Item is a quoted line: a catalog product or a free-text custom item.
type Item struct {
	Product    *ProductRef `json:"product,omitempty"`
	CustomItem *CustomItem `json:"customItem,omitempty"`
	Quantity   int         `json:"quantity"`
	UnitPrice  float64     `json:"unitPrice,omitempty"`
}

// ProductRef is the populated product on a quote line.
type ProductRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

// CustomItem describes something not in the catalog.
type CustomItem struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Open reports whether the customer can still accept or reject.
func (q *Quote) Open(now time.Time) bool {
	if q.Status != StatusQuoted {
		return false
	}
	return q.ValidUntil == nil || now.Before(*q.ValidUntil)
}
