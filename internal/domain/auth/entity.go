// internal/domain/auth/entity.go
package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Role values the backend assigns. They only drive what the storefront shows;
// the backend enforces access.
const (
	RoleCustomer         = "customer"
	RoleInventoryManager = "inventory_manager"
	RoleSalesManager     = "sales_manager"
	RoleSuperAdmin       = "super_admin"
)

// UserProfile is the authenticated user as returned by /api/auth/me.
type UserProfile struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"firstName"`
	LastName   string     `json:"lastName"`
	Phone      string     `json:"phone,omitempty"`
	Company    string     `json:"company,omitempty"`
	Address    *Address   `json:"address,omitempty"`
	Role       string     `json:"role"`
	IsVerified bool       `json:"isVerified"`
	IsActive   bool       `json:"isActive,omitempty"`
	LastLogin  *time.Time `json:"lastLogin,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	UpdatedAt  *time.Time `json:"updatedAt,omitempty"`
}

// UnmarshalJSON accepts the id as a JSON string or number, under "id" or the
// backend's "_id".
func (u *UserProfile) UnmarshalJSON(data []byte) error {
	type plain UserProfile
	var raw struct {
		plain
		ID      flexibleID `json:"id"`
		MongoID flexibleID `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = UserProfile(raw.plain)
	u.ID = string(raw.ID)
	if u.ID == "" {
		u.ID = string(raw.MongoID)
	}
	return nil
}

// flexibleID is an identifier sent either as a string or as a number.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

// Address is a postal address attached to users and orders.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// FullName joins first and last name.
func (u *UserProfile) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsStaff reports whether the dashboard should be offered to this user.
func (u *UserProfile) IsStaff() bool {
	switch u.Role {
	case RoleInventoryManager, RoleSalesManager, RoleSuperAdmin, "admin":
		return true
	}
	return false
}

// Session is the in-memory view of who is logged in.
type Session struct {
	User        *UserProfile `json:"user"`
	Token       string       `json:"-"`
	Loading     bool         `json:"loading"`
	AuthLoading bool         `json:"authLoading"`
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
