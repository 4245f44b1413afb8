// internal/domain/user/dto.go
package user

import "mining-storefront/internal/domain/auth"

// UpdateUserRequest is the admin edit form.
type UpdateUserRequest struct {
	FirstName string        `json:"firstName,omitempty"`
	LastName  string        `json:"lastName,omitempty"`
	Email     string        `json:"email,omitempty" binding:"omitempty,email"`
	Phone     string        `json:"phone,omitempty"`
	Company   string        `json:"company,omitempty"`
	Role      string        `json:"role,omitempty" binding:"omitempty,oneof=customer inventory_manager sales_manager super_admin"`
	Address   *auth.Address `json:"address,omitempty"`
}

// UserResponse wraps a single user.
type UserResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	User    *Profile `json:"user,omitempty"`
}

// ListResponse is a page of users.
type ListResponse struct {
	Success    bool           `json:"success"`
	Users      []Profile      `json:"users"`
	Pagination map[string]any `json:"pagination,omitempty"`
}

// StatsResponse wraps Stats.
type StatsResponse struct {
	Success bool   `json:"success"`
	Stats   *Stats `json:"stats,omitempty"`
}
