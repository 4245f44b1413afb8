// internal/domain/dashboard/entity.go
package dashboard

// DefaultPeriod is the reporting window in days.
const DefaultPeriod = 30

// Stats is the dashboard home overview.
type Stats struct {
	TotalOrders   int              `json:"totalOrders"`
	TotalRevenue  float64          `json:"totalRevenue"`
	TotalProducts int              `json:"totalProducts"`
	TotalUsers    int              `json:"totalUsers"`
	PendingOrders int              `json:"pendingOrders,omitempty"`
	PendingQuotes int              `json:"pendingQuotes,omitempty"`
	LowStock      int              `json:"lowStockProducts,omitempty"`
	RecentOrders  []map[string]any `json:"recentOrders,omitempty"`
}

// StatsResponse wraps Stats.
type StatsResponse struct {
	Success bool   `json:"success"`
	Period  int    `json:"period,omitempty"`
	Stats   *Stats `json:"stats,omitempty"`
}
