// internal/middleware/request_id_middleware.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"mining-storefront/internal/gateway"
)

const requestIDKey = "request_id"

// RequestIDMiddleware tags the request with the caller's X-Request-ID or a new
// ULID. The id is echoed back and forwarded on every backend call the request
// makes.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(gateway.HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = ulid.Make().String()
		}
		c.Set(requestIDKey, id)
		c.Header(gateway.HeaderRequestID, id)
		c.Request = c.Request.WithContext(gateway.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}
