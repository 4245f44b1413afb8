// internal/domain/settings/dto.go
package settings

// SettingsResponse wraps the settings document.
type SettingsResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Settings *Settings `json:"settings,omitempty"`
}

// TestEmailRequest sends a test message with the current SMTP settings.
type TestEmailRequest struct {
	Recipient string `json:"recipient,omitempty" binding:"omitempty,email"`
}
