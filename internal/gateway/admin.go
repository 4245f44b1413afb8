// internal/gateway/admin.go
package gateway

import (
	"context"
	"net/http"
	"strconv"

	"mining-storefront/internal/domain/dashboard"
	"mining-storefront/internal/pkg/query"
)

// AdminService covers /api/admin.
type AdminService struct {
	client *Client
}

// Dashboard fetches the overview for the last period days. Zero means the
// default window.
func (s *AdminService) Dashboard(ctx context.Context, token string, period int) (*dashboard.StatsResponse, error) {
	if period <= 0 {
		period = dashboard.DefaultPeriod
	}
	cl := newCall(http.MethodGet, "/api/admin/dashboard").
		withToken(token).
		withQuery(query.Params{}.Add("period", strconv.Itoa(period)))
	return fetch[dashboard.StatsResponse](ctx, s.client, cl)
}
