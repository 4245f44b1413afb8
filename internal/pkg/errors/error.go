// internal/pkg/errors/error.go
package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrStaleResponse      = errors.New("response superseded by a newer request")
	ErrWorkspaceNotFound  = errors.New("workspace not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrTokenStoreDisabled = errors.New("token store not configured")
)

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MessageOrDefault returns the user-facing message carried by err, or fallback
// when err is nil or carries no message.
func MessageOrDefault(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var m interface{ UserMessage() string }
	if errors.As(err, &m) {
		if msg := m.UserMessage(); msg != "" {
			return msg
		}
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}
