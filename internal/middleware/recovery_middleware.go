// internal/middleware/recovery_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"mining-storefront/internal/pkg/response"
)

var httpPanicsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "storefront_http_panics_total",
		Help: "Total number of handler panics turned into 500 responses",
	},
	[]string{"path"},
)

// RecoveryMiddleware turns a handler panic into a 500 envelope. A panic
// caused by the client hanging up is logged and the request aborted without
// a body.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			fields := []zap.Field{
				zap.Any("error", rec),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			}
			if ws, ok := GetWorkspace(c); ok {
				fields = append(fields, zap.String("workspace_id", ws.ID))
			}

			if err, ok := rec.(error); ok && clientGone(err) {
				logger.Warn("client disconnected mid-response", fields...)
				c.Abort()
				return
			}

			httpPanicsTotal.WithLabelValues(path).Inc()
			logger.Error("panic recovered", append(fields, zap.Stack("stack"))...)
			response.Error(c, http.StatusInternalServerError, "internal server error", nil)
		}()
		c.Next()
	}
}

func clientGone(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
