// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims is what the backend puts in its access tokens. The edge never holds
// the signing key, so these are read, not trusted.
type Claims struct {
	UserID string `json:"id,omitempty"`
	Role   string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Subject returns the user id, from "id" or the registered "sub".
func (c *Claims) Subject() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}
