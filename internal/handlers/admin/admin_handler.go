// internal/handlers/admin/admin_handler.go
package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/order"
	"mining-storefront/internal/domain/settings"
	"mining-storefront/internal/domain/user"
	"mining-storefront/internal/gateway"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/query"
	"mining-storefront/internal/pkg/response"
)

// AdminHandler serves the dashboard. Routes sit behind middleware.StaffOnly;
// the backend still checks the role on every call.
type AdminHandler struct {
	api    *gateway.Client
	logger *zap.Logger
}

func NewAdminHandler(api *gateway.Client, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		api:    api,
		logger: logger,
	}
}

func token(c *gin.Context) string {
	return middleware.MustGetWorkspace(c).Session.Token()
}

func actor(c *gin.Context) []zap.Field {
	fields := []zap.Field{zap.String("request_id", middleware.GetRequestID(c))}
	if ws, ok := middleware.GetWorkspace(c); ok {
		fields = append(fields, zap.String("workspace_id", ws.ID))
		if u := ws.Session.Snapshot().User; u != nil {
			fields = append(fields, zap.String("user_id", u.ID), zap.String("role", u.Role))
		}
	}
	return fields
}

func params(c *gin.Context) query.Params {
	return query.FromValues(c.Request.URL.Query())
}

// ========== Dashboard ==========

// GetDashboard returns the overview; ?period= is in days
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	period := 0
	if raw := c.Query("period"); raw != "" {
		p, err := strconv.Atoi(raw)
		if err != nil || p < 0 {
			response.ValidationError(c, "invalid period", err)
			return
		}
		period = p
	}

	resp, err := h.api.Admin.Dashboard(c.Request.Context(), token(c), period)
	if err != nil {
		response.FromError(c, err, "Failed to load dashboard")
		return
	}
	response.Success(c, http.StatusOK, "dashboard retrieved", resp)
}

// ========== Orders ==========

func (h *AdminHandler) ListOrders(c *gin.Context) {
	resp, err := h.api.Orders.AdminList(c.Request.Context(), token(c), params(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch orders")
		return
	}
	response.Success(c, http.StatusOK, "orders retrieved", gin.H{
		"orders":     nonNil(resp.Orders),
		"pagination": resp.Pagination,
	})
}

// UpdateOrderStatus changes status, payment status or tracking number
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	var req order.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if req == (order.UpdateStatusRequest{}) {
		response.ValidationError(c, "nothing to update", nil)
		return
	}

	resp, err := h.api.Orders.UpdateStatus(c.Request.Context(), token(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err, "Failed to update order")
		return
	}

	h.logger.Info("order updated", append(actor(c),
		zap.String("order_id", c.Param("id")),
		zap.String("status", req.Status),
		zap.String("payment_status", req.PaymentStatus),
	)...)
	response.Success(c, http.StatusOK, messageOr(resp.Message, "order updated"), resp.Order)
}

// ========== Users ==========

func (h *AdminHandler) ListUsers(c *gin.Context) {
	resp, err := h.api.Users.List(c.Request.Context(), token(c), params(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch users")
		return
	}
	response.Success(c, http.StatusOK, "users retrieved", gin.H{
		"users":      nonNil(resp.Users),
		"pagination": resp.Pagination,
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	resp, err := h.api.Users.Get(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch user")
		return
	}
	response.Success(c, http.StatusOK, "user retrieved", resp.User)
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req user.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Users.Update(c.Request.Context(), token(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err, "Failed to update user")
		return
	}
	h.logger.Info("user updated", append(actor(c), zap.String("target_id", c.Param("id")))...)
	response.Success(c, http.StatusOK, messageOr(resp.Message, "user updated"), resp.User)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	resp, err := h.api.Users.Delete(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to delete user")
		return
	}
	h.logger.Info("user deleted", append(actor(c), zap.String("target_id", c.Param("id")))...)
	response.Success(c, http.StatusOK, messageOr(resp.Message, "user deleted"), nil)
}

func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	resp, err := h.api.Users.ToggleStatus(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to update user status")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "user status updated"), resp.User)
}

func (h *AdminHandler) GetUserStats(c *gin.Context) {
	resp, err := h.api.Users.Stats(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch user stats")
		return
	}
	response.Success(c, http.StatusOK, "user stats retrieved", resp.Stats)
}

// ========== Settings ==========

// GetSettings shows secrets to super admins only
func (h *AdminHandler) GetSettings(c *gin.Context) {
	resp, err := h.api.Settings.Get(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to load settings")
		return
	}
	if resp.Settings == nil {
		response.Success(c, http.StatusOK, "settings retrieved", settings.Settings{})
		return
	}

	doc := *resp.Settings
	if !isSuperAdmin(c) {
		doc = doc.Redacted()
	}
	response.Success(c, http.StatusOK, "settings retrieved", doc)
}

// UpdateSettings saves the whole document. Secrets sent back masked keep
// their stored value.
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var doc settings.Settings
	if err := c.ShouldBindJSON(&doc); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ctx := c.Request.Context()
	if doc.Masked() {
		current, err := h.api.Settings.Get(ctx, token(c))
		if err != nil {
			response.FromError(c, err, "Failed to load settings")
			return
		}
		if current.Settings != nil {
			doc = doc.Unmask(*current.Settings)
		}
	}

	resp, err := h.api.Settings.Update(ctx, token(c), doc)
	if err != nil {
		response.FromError(c, err, "Failed to save settings")
		return
	}

	h.logger.Info("settings updated", actor(c)...)
	saved := doc
	if resp.Settings != nil {
		saved = *resp.Settings
	}
	if !isSuperAdmin(c) {
		saved = saved.Redacted()
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "settings saved"), saved)
}

// TestEmailSettings sends a test message with the given SMTP settings
func (h *AdminHandler) TestEmailSettings(c *gin.Context) {
	var smtp settings.Email
	if err := c.ShouldBindJSON(&smtp); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Settings.TestEmail(c.Request.Context(), token(c), smtp)
	if err != nil {
		response.FromError(c, err, "Email test failed")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "test email sent"), nil)
}

func (h *AdminHandler) TestPaymentSettings(c *gin.Context) {
	var payment settings.Payment
	if err := c.ShouldBindJSON(&payment); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Settings.TestPayment(c.Request.Context(), token(c), payment)
	if err != nil {
		response.FromError(c, err, "Payment test failed")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "payment settings valid"), nil)
}

func isSuperAdmin(c *gin.Context) bool {
	ws, ok := middleware.GetWorkspace(c)
	if !ok {
		return false
	}
	u := ws.Session.Snapshot().User
	return u != nil && u.Role == auth.RoleSuperAdmin
}

func messageOr(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
