// internal/handlers/session/session_handler.go
package session

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/auth"
	wstypes "mining-storefront/internal/domain/websocket"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/response"
)

// Limiter throttles credential endpoints. Nil disables throttling.
type Limiter interface {
	CheckLoginAttempt(ctx context.Context, ip, email string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip, email string) error
	CheckPasswordResetAttempt(ctx context.Context, email string) (bool, error)
}

type SessionHandler struct {
	limiter Limiter
	logger  *zap.Logger
}

func NewSessionHandler(limiter Limiter, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		limiter: limiter,
		logger:  logger,
	}
}

// GetSession returns who is logged in for this browser
func (h *SessionHandler) GetSession(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	response.Success(c, http.StatusOK, "session retrieved", wstypes.NewSessionData(ws.Session.Snapshot()))
}

// ========== Login / Register ==========

// Login handles user login
func (h *SessionHandler) Login(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ip := c.ClientIP()
	if h.limiter != nil {
		allowed, _, err := h.limiter.CheckLoginAttempt(c.Request.Context(), ip, req.Email)
		if err != nil {
			h.logger.Warn("login rate limit unavailable", zap.Error(err))
		} else if !allowed {
			response.TooManyRequests(c, "Too many login attempts. Please try again later.")
			return
		}
	}

	ws := middleware.MustGetWorkspace(c)
	if _, err := ws.Session.Login(c.Request.Context(), req); err != nil {
		h.logger.Info("login failed",
			zap.String("workspace_id", ws.ID),
			zap.String("ip", ip),
			zap.Error(err),
		)
		response.FromError(c, err, "Login failed")
		return
	}

	if h.limiter != nil {
		if err := h.limiter.ResetLoginAttempts(c.Request.Context(), ip, req.Email); err != nil {
			h.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	response.Success(c, http.StatusOK, "login successful", wstypes.NewSessionData(ws.Session.Snapshot()))
}

// Register handles user registration
func (h *SessionHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	resp, err := ws.Session.Register(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Registration failed")
		return
	}

	response.Success(c, http.StatusCreated, messageOr(resp.Message, "registration successful"), wstypes.NewSessionData(ws.Session.Snapshot()))
}

// Logout forgets the token of this browser
func (h *SessionHandler) Logout(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	if err := ws.Session.Logout(c.Request.Context()); err != nil {
		h.logger.Warn("logout could not clear persisted token", zap.String("workspace_id", ws.ID), zap.Error(err))
	}
	response.Success(c, http.StatusOK, "logout successful", wstypes.NewSessionData(ws.Session.Snapshot()))
}

// Refresh reloads the profile; a rejected token ends the session
func (h *SessionHandler) Refresh(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	if err := ws.Session.RefreshUser(c.Request.Context()); err != nil {
		response.FromError(c, err, "Failed to refresh session")
		return
	}
	response.Success(c, http.StatusOK, "session refreshed", wstypes.NewSessionData(ws.Session.Snapshot()))
}

// ========== Password Management ==========

// ForgotPassword requests a reset link
func (h *SessionHandler) ForgotPassword(c *gin.Context) {
	var req auth.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if h.limiter != nil {
		allowed, err := h.limiter.CheckPasswordResetAttempt(c.Request.Context(), req.Email)
		if err != nil {
			h.logger.Warn("password reset rate limit unavailable", zap.Error(err))
		} else if !allowed {
			response.TooManyRequests(c, "Too many password reset requests. Please try again later.")
			return
		}
	}

	ws := middleware.MustGetWorkspace(c)
	resp, err := ws.Session.ForgotPassword(c.Request.Context(), req.Email)
	if err != nil {
		response.FromError(c, err, "Failed to send reset email")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "Password reset email sent"), nil)
}

// ResetPassword completes a reset with the emailed token
func (h *SessionHandler) ResetPassword(c *gin.Context) {
	var req auth.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	resp, err := ws.Session.ResetPassword(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Password reset failed")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "password reset successful"), nil)
}

// ChangePassword changes the password of the logged in user
func (h *SessionHandler) ChangePassword(c *gin.Context) {
	var req auth.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	resp, err := ws.Session.ChangePassword(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Password change failed")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "password changed successfully"), nil)
}

// ========== Verification ==========

// VerifyEmail confirms an address. The token comes in the body or, for
// links, the query string.
func (h *SessionHandler) VerifyEmail(c *gin.Context) {
	req := auth.VerifyEmailRequest{Token: c.Query("token")}
	if req.Token == "" {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request", err)
			return
		}
	}

	ws := middleware.MustGetWorkspace(c)
	resp, err := ws.Session.VerifyEmail(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Email verification failed")
		return
	}
	// The profile's verified flag changed
	if err := ws.Session.RefreshUser(c.Request.Context()); err != nil {
		h.logger.Debug("refresh after verification failed", zap.Error(err))
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "email verified"), nil)
}

// ResendVerification mails a new verification link to the logged in user
func (h *SessionHandler) ResendVerification(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	resp, err := ws.Session.ResendVerification(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to resend verification email")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "verification email sent"), nil)
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
