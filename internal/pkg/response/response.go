// internal/pkg/response/response.go
package response

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining-storefront/internal/gateway"
	xerrors "mining-storefront/internal/pkg/errors"
)

// Response defines the standard API response format.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Success sends a successful response with a message and optional data.
func Success(c *gin.Context, status int, message string, data interface{}) {
	if status == 0 {
		status = http.StatusOK
	}

	c.JSON(status, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error sends a standardized error response.
func Error(c *gin.Context, code int, message string, err error, data ...interface{}) {
	// Abort first so later handlers do not write
	c.Abort()

	response := Response{
		Success: false,
		Message: message,
	}

	if err != nil {
		response.Error = err.Error()
	}

	if len(data) > 0 {
		response.Data = data[0]
	}

	c.JSON(code, response)
}

// FromError sends err with the status that fits it. The message is the
// user-facing one err carries, else fallback. Gateway failures put their
// kind in the error field.
func FromError(c *gin.Context, err error, fallback string) {
	c.Abort()

	resp := Response{
		Success: false,
		Message: xerrors.MessageOrDefault(err, fallback),
	}
	if gwErr, ok := gateway.AsError(err); ok {
		resp.Error = string(gwErr.Kind)
	}
	c.JSON(StatusFor(err), resp)
}

// StatusFor maps an error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	case errors.Is(err, xerrors.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, xerrors.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, xerrors.ErrStaleResponse):
		return http.StatusConflict
	case errors.Is(err, xerrors.ErrWorkspaceNotFound):
		return http.StatusNotFound
	case errors.Is(err, xerrors.ErrTokenStoreDisabled):
		return http.StatusServiceUnavailable
	}

	gwErr, ok := gateway.AsError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch gwErr.Kind {
	case gateway.KindUnauthorized:
		return http.StatusUnauthorized
	case gateway.KindForbidden:
		return http.StatusForbidden
	case gateway.KindNotFound:
		return http.StatusNotFound
	case gateway.KindInvalid:
		if gwErr.StatusCode >= 400 && gwErr.StatusCode < 500 {
			return gwErr.StatusCode
		}
		return http.StatusBadRequest
	case gateway.KindNetwork, gateway.KindDecode, gateway.KindServer:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Attachment streams a downloaded file.
func Attachment(c *gin.Context, blob *gateway.Blob) {
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if blob.Filename != "" {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": blob.Filename}))
	}
	c.Header("Content-Length", fmt.Sprint(len(blob.Data)))
	c.Data(http.StatusOK, contentType, blob.Data)
}

// ValidationError sends a 400 Bad Request response for invalid input.
func ValidationError(c *gin.Context, message string, err error) {
	Error(c, http.StatusBadRequest, message, err)
}

// Unauthorized sends a 401 Unauthorized response.
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// Forbidden sends a 403 Forbidden response.
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message, nil)
}

// NotFound sends a 404 Not Found response.
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message, nil)
}

// TooManyRequests sends a 429 response.
func TooManyRequests(c *gin.Context, message string) {
	Error(c, http.StatusTooManyRequests, message, nil)
}
