// internal/domain/order/entity.go
package order

import (
	"time"

	"mining-storefront/internal/domain/auth"
)

// Order statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment statuses
const (
	PaymentPending    = "pending"
	PaymentPaid       = "paid"
	PaymentFailed     = "failed"
	PaymentRefunded   = "refunded"
	PaymentOnDelivery = "payment_on_delivery"
)

// Order is a placed order, registered or guest.
type Order struct {
	ID             string       `json:"_id"`
	OrderNumber    string       `json:"orderNumber"`
	User           string       `json:"user,omitempty"`
	IsGuest        bool         `json:"isGuest"`
	CustomerInfo   CustomerInfo `json:"customerInfo"`
	Items          []Item       `json:"items"`
	Subtotal       float64      `json:"subtotal"`
	Tax            float64      `json:"tax"`
	Shipping       float64      `json:"shipping"`
	Total          float64      `json:"total"`
	Status         string       `json:"status"`
	PaymentStatus  string       `json:"paymentStatus"`
	PaymentMethod  string       `json:"paymentMethod,omitempty"`
	TrackingNumber string       `json:"trackingNumber,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	CreatedAt      *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time   `json:"updatedAt,omitempty"`
}

// CustomerInfo is the contact block on orders and quotes.
type CustomerInfo struct {
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone,omitempty"`
	Company   string        `json:"company,omitempty"`
	Address   *auth.Address `json:"address,omitempty"`
}

// Item is one order line.
type Item struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

// Cancellable reports whether the customer may still cancel.
func (o *Order) Cancellable() bool {
	return o.Status == StatusPending || o.Status == StatusProcessing
}
