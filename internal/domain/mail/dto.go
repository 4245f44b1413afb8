// internal/domain/mail/dto.go
package mail

// OrderRequest targets one order.
type OrderRequest struct {
	OrderID string `json:"orderId" binding:"required"`
}

// OrderStatusRequest notifies the customer of a status change.
type OrderStatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Status  string `json:"status" binding:"required"`
}

// CustomRequest is a free-form email.
type CustomRequest struct {
	To      string `json:"to" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// NewsletterRequest is a bulk marketing email.
type NewsletterRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Audience string `json:"audience,omitempty" binding:"omitempty,oneof=all customers subscribers"`
}

// BulkOrderUpdateRequest emails many customers about their orders.
type BulkOrderUpdateRequest struct {
	OrderIDs []string `json:"orderIds" binding:"required,min=1"`
	Message  string   `json:"message" binding:"required"`
}

// TestRequest sends a test email to one address.
type TestRequest struct {
	Recipient string `json:"recipient" binding:"required,email"`
}

// SendResponse is what every send endpoint returns.
type SendResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	SentCount int    `json:"sentCount,omitempty"`
}

// TemplatesResponse lists templates.
type TemplatesResponse struct {
	Success   bool       `json:"success"`
	Templates []Template `json:"templates"`
}

// StatsResponse wraps Stats.
type StatsResponse struct {
	Success bool   `json:"success"`
	Stats   *Stats `json:"stats,omitempty"`
}
