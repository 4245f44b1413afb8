// internal/service/session/manager.go
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/gateway"
	xerrors "mining-storefront/internal/pkg/errors"
	"mining-storefront/internal/pkg/jwt"
	"mining-storefront/internal/pkg/observe"
)

// AuthAPI is the slice of the backend the session needs.
type AuthAPI interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error)
	Login(ctx context.Context, creds auth.Credentials) (*auth.AuthResponse, error)
	Me(ctx context.Context, token string) (*auth.UserProfile, error)
	VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) (*auth.MessageResponse, error)
	ResendVerification(ctx context.Context, token string) (*auth.MessageResponse, error)
	ForgotPassword(ctx context.Context, req auth.ForgotPasswordRequest) (*auth.MessageResponse, error)
	ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) (*auth.MessageResponse, error)
	ChangePassword(ctx context.Context, token string, req auth.ChangePasswordRequest) (*auth.MessageResponse, error)
}

// TokenStore persists the bearer token between restarts.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Manager owns who is logged in for one workspace.
//
// The token and user change together inside a single store update, so a
// subscriber never sees a user without a token. Profile fetches remember the
// token they were issued for and are dropped if the token changed meanwhile.
type Manager struct {
	api       AuthAPI
	tokens    TokenStore
	inspector *jwt.Inspector
	logger    *zap.Logger
	state     *observe.Store[auth.Session]
}

// NewManager creates a manager. inspector may be nil, which disables the
// local expiry check.
func NewManager(api AuthAPI, tokens TokenStore, inspector *jwt.Inspector, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		api:       api,
		tokens:    tokens,
		inspector: inspector,
		logger:    logger,
		state:     observe.NewStore(auth.Session{}),
	}
}

// Init restores the persisted token and, if there is one, loads its profile.
func (m *Manager) Init(ctx context.Context) error {
	token, err := m.tokens.Load(ctx)
	if err != nil {
		m.logger.Warn("failed to load persisted token", zap.Error(err))
		return nil
	}
	if token == "" {
		return nil
	}
	m.setToken(token, nil)
	return m.RefreshUser(ctx)
}

// Snapshot returns the current session.
func (m *Manager) Snapshot() auth.Session {
	return m.state.Get()
}

// Token returns the live bearer token, "" when anonymous.
func (m *Manager) Token() string {
	return m.state.Get().Token
}

// Subscribe registers fn for every session change.
func (m *Manager) Subscribe(fn func(auth.Session)) (unsubscribe func()) {
	return m.state.Subscribe(fn)
}

// RefreshUser reloads the profile for the current token. Without a token it
// does nothing. Any failure other than the caller going away ends the
// session.
func (m *Manager) RefreshUser(ctx context.Context) error {
	token := m.Token()
	if token == "" {
		return nil
	}

	if m.inspector != nil && m.inspector.Expired(token) {
		m.logger.Info("token expired, ending session")
		m.invalidate(ctx, token)
		return fmt.Errorf("token expired: %w", xerrors.ErrNotAuthenticated)
	}

	m.state.Update(func(s auth.Session) (auth.Session, bool) {
		if s.Token != token {
			return s, false
		}
		s.Loading = true
		return s, true
	})

	profile, err := m.api.Me(ctx, token)

	if err == nil && (profile == nil || profile.ID == "") {
		err = &gateway.Error{Kind: gateway.KindDecode, Message: "profile response carried no user id"}
	}

	if err != nil && ctx.Err() != nil {
		m.clearLoading(token)
		return ctx.Err()
	}

	if err != nil {
		m.logger.Info("profile refresh failed, ending session", zap.Error(err))
		if !m.invalidate(ctx, token) {
			return xerrors.ErrStaleResponse
		}
		return err
	}

	applied := m.state.Update(func(s auth.Session) (auth.Session, bool) {
		if s.Token != token {
			return s, false
		}
		s.User = profile
		s.Loading = false
		return s, true
	})
	if !applied {
		m.logger.Debug("discarding profile for superseded token")
		return xerrors.ErrStaleResponse
	}
	return nil
}

// Login exchanges credentials for a session. On failure the session is left
// as it was and the returned error carries the backend's message.
func (m *Manager) Login(ctx context.Context, creds auth.Credentials) (*auth.AuthResponse, error) {
	return m.authenticate(ctx, "login", func() (*auth.AuthResponse, error) {
		return m.api.Login(ctx, creds)
	})
}

// Register creates an account and logs it in when the backend returns a
// token.
func (m *Manager) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return m.authenticate(ctx, "register", func() (*auth.AuthResponse, error) {
		return m.api.Register(ctx, req)
	})
}

func (m *Manager) authenticate(ctx context.Context, op string, call func() (*auth.AuthResponse, error)) (*auth.AuthResponse, error) {
	m.setAuthLoading(true)
	defer m.setAuthLoading(false)

	resp, err := call()
	if err != nil {
		m.logger.Info(op+" failed", zap.Error(err))
		return resp, err
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = gateway.DefaultMessage
		}
		return resp, &gateway.Error{Kind: gateway.KindInvalid, Message: msg}
	}

	m.setToken(resp.Token, resp.User)
	if err := m.tokens.Save(ctx, resp.Token); err != nil {
		m.logger.Warn("failed to persist token", zap.Error(err))
	}

	// A new token always triggers a profile load.
	if err := m.RefreshUser(ctx); err != nil && !xerrors.Is(err, xerrors.ErrStaleResponse) {
		return resp, err
	}
	return resp, nil
}

// Logout forgets the token locally. The backend is not told.
func (m *Manager) Logout(ctx context.Context) error {
	m.state.Update(func(s auth.Session) (auth.Session, bool) {
		if s.Token == "" && s.User == nil {
			return s, false
		}
		s.Token = ""
		s.User = nil
		s.Loading = false
		return s, true
	})
	if err := m.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.Warn("failed to clear persisted token", zap.Error(err))
		return err
	}
	return nil
}

// VerifyEmail confirms an address.
func (m *Manager) VerifyEmail(ctx context.Context, req auth.VerifyEmailRequest) (*auth.MessageResponse, error) {
	return m.api.VerifyEmail(ctx, req)
}

// ForgotPassword starts the reset flow for email.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (*auth.MessageResponse, error) {
	return m.api.ForgotPassword(ctx, auth.ForgotPasswordRequest{Email: email})
}

// ResetPassword completes the reset flow.
func (m *Manager) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) (*auth.MessageResponse, error) {
	return m.api.ResetPassword(ctx, req)
}

// ChangePassword needs a live session.
func (m *Manager) ChangePassword(ctx context.Context, req auth.ChangePasswordRequest) (*auth.MessageResponse, error) {
	token := m.Token()
	if token == "" {
		return nil, xerrors.ErrNotAuthenticated
	}
	return m.api.ChangePassword(ctx, token, req)
}

// ResendVerification needs a live session.
func (m *Manager) ResendVerification(ctx context.Context) (*auth.MessageResponse, error) {
	token := m.Token()
	if token == "" {
		return nil, xerrors.ErrNotAuthenticated
	}
	return m.api.ResendVerification(ctx, token)
}

func (m *Manager) setToken(token string, user *auth.UserProfile) {
	m.state.Update(func(s auth.Session) (auth.Session, bool) {
		s.Token = token
		s.User = user
		return s, true
	})
}

func (m *Manager) setAuthLoading(v bool) {
	m.state.Update(func(s auth.Session) (auth.Session, bool) {
		if s.AuthLoading == v {
			return s, false
		}
		s.AuthLoading = v
		return s, true
	})
}

func (m *Manager) clearLoading(token string) {
	m.state.Update(func(s auth.Session) (auth.Session, bool) {
		if s.Token != token || !s.Loading {
			return s, false
		}
		s.Loading = false
		return s, true
	})
}

// invalidate ends the session if it still holds token. It reports whether
// it did.
func (m *Manager) invalidate(ctx context.Context, token string) bool {
	cleared := m.state.Update(func(s auth.Session) (auth.Session, bool) {
		if s.Token != token {
			return s, false
		}
		return auth.Session{AuthLoading: s.AuthLoading}, true
	})
	if !cleared {
		return false
	}
	if err := m.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
		m.logger.Warn("failed to clear persisted token", zap.Error(err))
	}
	return true
}
