package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining-storefront/internal/gateway"
	xerrors "mining-storefront/internal/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"unauthorized", &gateway.Error{Kind: gateway.KindUnauthorized, StatusCode: 401}, http.StatusUnauthorized},
		{"forbidden", &gateway.Error{Kind: gateway.KindForbidden, StatusCode: 403}, http.StatusForbidden},
		{"not found", &gateway.Error{Kind: gateway.KindNotFound, StatusCode: 404}, http.StatusNotFound},
		{"conflict passes through", &gateway.Error{Kind: gateway.KindInvalid, StatusCode: 409}, http.StatusConflict},
		{"invalid without status", &gateway.Error{Kind: gateway.KindInvalid}, http.StatusBadRequest},
		{"server", &gateway.Error{Kind: gateway.KindServer, StatusCode: 503}, http.StatusBadGateway},
		{"network", &gateway.Error{Kind: gateway.KindNetwork}, http.StatusBadGateway},
		{"decode", &gateway.Error{Kind: gateway.KindDecode, StatusCode: 200}, http.StatusBadGateway},
		{"not authenticated", xerrors.ErrNotAuthenticated, http.StatusUnauthorized},
		{"wrapped sentinel", fmt.Errorf("orders: %w", xerrors.ErrNotAuthenticated), http.StatusUnauthorized},
		{"stale", xerrors.ErrStaleResponse, http.StatusConflict},
		{"deadline", &gateway.Error{Kind: gateway.KindNetwork, Err: context.DeadlineExceeded}, http.StatusGatewayTimeout},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantCode  int
		wantMsg   string
		wantError string
	}{
		{
			name:      "backend message",
			err:       &gateway.Error{Kind: gateway.KindUnauthorized, StatusCode: 401, Message: "Invalid credentials"},
			wantCode:  http.StatusUnauthorized,
			wantMsg:   "Invalid credentials",
			wantError: "unauthorized",
		},
		{
			name:      "backend without message",
			err:       &gateway.Error{Kind: gateway.KindServer, StatusCode: 500},
			wantCode:  http.StatusBadGateway,
			wantMsg:   gateway.DefaultMessage,
			wantError: "server",
		},
		{
			name:     "sentinel",
			err:      xerrors.ErrNotAuthenticated,
			wantCode: http.StatusUnauthorized,
			wantMsg:  "not authenticated",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			FromError(c, tt.err, "Failed")

			assert.True(t, c.IsAborted())
			assert.Equal(t, tt.wantCode, w.Code)
			var body Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantMsg, body.Message)
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Attachment(c, &gateway.Blob{ContentType: "application/pdf", Filename: "invoice-INV-1.pdf", Data: []byte("%PDF")})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=invoice-INV-1.pdf`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", w.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF", w.Body.String())
}
