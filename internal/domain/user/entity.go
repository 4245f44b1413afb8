// internal/domain/user/entity.go
package user

import "mining-storefront/internal/domain/auth"

// Stats is the admin user overview.
type Stats struct {
	TotalUsers    int            `json:"totalUsers"`
	ActiveUsers   int            `json:"activeUsers"`
	VerifiedUsers int            `json:"verifiedUsers"`
	NewThisMonth  int            `json:"newThisMonth"`
	ByRole        map[string]int `json:"byRole,omitempty"`
}

// Profile is the user record admins see; same shape as the session user.
type Profile = auth.UserProfile
