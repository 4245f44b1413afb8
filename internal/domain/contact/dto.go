// internal/domain/contact/dto.go
package contact

// SubmitRequest is the public contact form.
type SubmitRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// UpdateRequest changes status or records a reply.
type UpdateRequest struct {
	Status   string `json:"status,omitempty" binding:"omitempty,oneof=unread read replied"`
	Response string `json:"response,omitempty"`
}

// MessageResponse wraps a single message.
type MessageResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Contact *Message `json:"contact,omitempty"`
}

// ListResponse is a page of messages.
type ListResponse struct {
	Success    bool           `json:"success"`
	Messages   []Message      `json:"messages"`
	Pagination map[string]any `json:"pagination,omitempty"`
}
