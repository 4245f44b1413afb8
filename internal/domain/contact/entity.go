// internal/domain/contact/entity.go
package contact

import "time"

// Message statuses
const (
	StatusUnread  = "unread"
	StatusRead    = "read"
	StatusReplied = "replied"
)

// Message is a contact-form submission.
type Message struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Company   string     `json:"company,omitempty"`
	Subject   string     `json:"subject"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	Response  string     `json:"response,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
