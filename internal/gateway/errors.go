// internal/gateway/errors.go
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// DefaultMessage is used when the backend gives no message of its own.
const DefaultMessage = "An error occurred"

// Kind classifies a failed call.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindDecode       Kind = "decode"
	KindInvalid      Kind = "invalid"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindServer       Kind = "server"
)

// Error is the single failure type every gateway call returns.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the transport or decode cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the user.
func (e *Error) UserMessage() string {
	if e.Message == "" {
		return DefaultMessage
	}
	return e.Message
}

// IsUnauthorized returns true if the backend rejected the token.
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindUnauthorized
}

// IsNotFound returns true if the resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.Kind == KindNotFound
}

// IsForbidden returns true if the user lacks the role for the call.
func (e *Error) IsForbidden() bool {
	return e.Kind == KindForbidden
}

// IsTemporary returns true for failures worth retrying by hand.
func (e *Error) IsTemporary() bool {
	return e.Kind == KindNetwork || e.Kind == KindServer
}

// AsError extracts a gateway error from err.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" when err is not a gateway error.
func KindOf(err error) Kind {
	if gwErr, ok := AsError(err); ok {
		return gwErr.Kind
	}
	return ""
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 500:
		return KindServer
	default:
		return KindInvalid
	}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: err.Error(), Err: err}
}

func decodeError(status int, err error) *Error {
	return &Error{Kind: KindDecode, StatusCode: status, Message: err.Error(), Err: err}
}

// parseError builds an Error from a non-2xx response. The backend answers
// {"message": "..."}; some middleware nests it as {"error": {"message": "..."}}
// or sends {"error": "..."}.
func parseError(status int, body []byte) *Error {
	e := &Error{Kind: kindForStatus(status), StatusCode: status, Message: DefaultMessage}

	var simple struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &simple); err != nil {
		return e
	}
	if simple.Message != "" {
		e.Message = simple.Message
		return e
	}
	if len(simple.Error) == 0 {
		return e
	}

	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(simple.Error, &nested); err == nil && nested.Message != "" {
		e.Message = nested.Message
		return e
	}
	var text string
	if err := json.Unmarshal(simple.Error, &text); err == nil && text != "" {
		e.Message = text
	}
	return e
}
