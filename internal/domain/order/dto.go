// internal/domain/order/dto.go
package order

// CreateOrderRequest places an order. The token is optional; guests fill in
// CustomerInfo.
type CreateOrderRequest struct {
	CustomerInfo  CustomerInfo `json:"customerInfo" binding:"required"`
	Items         []LineInput  `json:"items" binding:"required,min=1,dive"`
	PaymentMethod string       `json:"paymentMethod,omitempty"`
	Notes         string       `json:"notes,omitempty"`
}

// LineInput is an item in a new order.
type LineInput struct {
	Product  string `json:"product" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// UpdateStatusRequest is the admin status change.
type UpdateStatusRequest struct {
	Status         string `json:"status,omitempty" binding:"omitempty,oneof=pending processing shipped delivered cancelled"`
	PaymentStatus  string `json:"paymentStatus,omitempty" binding:"omitempty,oneof=pending paid failed refunded payment_on_delivery"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// OrderResponse wraps a single order.
type OrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Order   *Order `json:"order,omitempty"`
}

// ListResponse is a page of orders.
type ListResponse struct {
	Success    bool           `json:"success"`
	Orders     []Order        `json:"orders"`
	Pagination map[string]any `json:"pagination,omitempty"`
}
