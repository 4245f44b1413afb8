// internal/gateway/auth.go
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"mining-storefront/internal/domain/auth"
)

// AuthService covers /api/auth.
type AuthService struct {
	client *Client
}

// Register creates an account. A 2xx response without a token is returned
// as-is; the caller decides what that means.
func (s *AuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return fetch[auth.AuthResponse](ctx, s.client, newCall(http.MethodPost, "/api/auth/register").withJSON(req))
}

// Login exchanges credentials for a token.
func (s *AuthService) Login(ctx context.Context, creds auth.Credentials) (*auth.AuthResponse, error) {
	return fetch[auth.AuthResponse](ctx, s.client, newCall(http.MethodPost, "/api/auth/login").withJSON(creds))
}

// Me fetches the profile of the token's owner. The backend returns the user
// either bare or wrapped as {"user": {...}}.
func (s *AuthService) Me(ctx context.Context, token string) (*auth.UserProfile, error) {
	var body json.RawMessage
	if err := s.client.do(ctx, newCall(http.MethodGet, "/api/auth/me").withToken(token), &body); err != nil {
		return nil, err
	}
	var wrapped struct {
		User *auth.UserProfile `json:"user"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, decodeError(http.StatusOK, fmt.Errorf("failed to parse response: %w", err))
	}
	if wrapped.User != nil {
		return wrapped.User, nil
	}
	var profile auth.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, decodeError(http.StatusOK, fmt.Errorf("failed to parse response: %w", err))
	}
	return &profile, nil
}

// VerifyEmail confirms an address with the token from the email link.
func (s *AuthService) VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/auth/verify-email").withJSON(req))
}

// ResendVerification mails a fresh verification link.
func (s *AuthService) ResendVerification(ctx context.Context, token string) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/auth/resend-verification").withToken(token))
}

// ForgotPassword starts the reset flow.
func (s *AuthService) ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/auth/forgot-password").withJSON(req))
}

// ResetPassword completes the reset flow.
func (s *AuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/auth/reset-password").withJSON(req))
}

// ChangePassword changes the password of the token's owner.
func (s *AuthService) ChangePassword(ctx context.Context, token string, req auth.ChangePasswordRequest) (*auth.MessageResponse, error) {
	return s.message(ctx, newCall(http.MethodPost, "/api/auth/change-password").withToken(token).withJSON(req))
}

func (s *AuthService) message(ctx context.Context, cl *call) (*auth.MessageResponse, error) {
	return fetch[auth.MessageResponse](ctx, s.client, cl)
}
