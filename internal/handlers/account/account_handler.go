// internal/handlers/account/account_handler.go
package account

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/invoice"
	"mining-storefront/internal/domain/order"
	"mining-storefront/internal/domain/quote"
	"mining-storefront/internal/gateway"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/query"
	"mining-storefront/internal/pkg/response"
)

// AccountHandler serves a customer's orders, quotes and invoices. Every call
// carries the token of the caller's workspace; checkout and tracking also
// work anonymously.
type AccountHandler struct {
	api    *gateway.Client
	logger *zap.Logger
}

func NewAccountHandler(api *gateway.Client, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		api:    api,
		logger: logger,
	}
}

func token(c *gin.Context) string {
	if ws, ok := middleware.GetWorkspace(c); ok {
		return ws.Session.Token()
	}
	return ""
}

// ========== Orders ==========

// CreateOrder places an order, as a guest when nobody is logged in
func (h *AccountHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Orders.Create(c.Request.Context(), token(c), req)
	if err != nil {
		response.FromError(c, err, "Failed to create order")
		return
	}

	h.logger.Info("order placed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Bool("guest", token(c) == ""),
	)
	response.Success(c, http.StatusCreated, messageOr(resp.Message, "order created"), resp.Order)
}

// ListOrders lists the caller's orders; page, limit and status pass through
func (h *AccountHandler) ListOrders(c *gin.Context) {
	params := query.FromValues(c.Request.URL.Query())
	resp, err := h.api.Orders.Mine(c.Request.Context(), token(c), params)
	if err != nil {
		response.FromError(c, err, "Failed to fetch orders")
		return
	}
	response.Success(c, http.StatusOK, "orders retrieved", gin.H{
		"orders":     nonNil(resp.Orders),
		"pagination": resp.Pagination,
	})
}

func (h *AccountHandler) GetOrder(c *gin.Context) {
	resp, err := h.api.Orders.Get(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch order")
		return
	}
	response.Success(c, http.StatusOK, "order retrieved", resp.Order)
}

// TrackOrder looks up an order by number and email, no login needed
func (h *AccountHandler) TrackOrder(c *gin.Context) {
	number, email := c.Param("number"), c.Param("email")
	if !strings.Contains(email, "@") {
		response.ValidationError(c, "a valid email is required", nil)
		return
	}

	resp, err := h.api.Orders.Track(c.Request.Context(), number, email)
	if err != nil {
		response.FromError(c, err, "Order not found")
		return
	}
	response.Success(c, http.StatusOK, "order retrieved", resp.Order)
}

func (h *AccountHandler) CancelOrder(c *gin.Context) {
	resp, err := h.api.Orders.Cancel(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to cancel order")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "order cancelled"), resp.Order)
}

// ========== Quotes ==========

// CreateQuote requests a quote, as a guest when nobody is logged in
func (h *AccountHandler) CreateQuote(c *gin.Context) {
	var req quote.CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Quotes.Create(c.Request.Context(), token(c), req)
	if err != nil {
		response.FromError(c, err, "Failed to submit quote request")
		return
	}
	response.Success(c, http.StatusCreated, messageOr(resp.Message, "quote requested"), resp.Quote)
}

func (h *AccountHandler) ListQuotes(c *gin.Context) {
	resp, err := h.api.Quotes.Mine(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch quotes")
		return
	}
	response.Success(c, http.StatusOK, "quotes retrieved", gin.H{
		"quotes":     nonNil(resp.Quotes),
		"pagination": resp.Pagination,
	})
}

func (h *AccountHandler) GetQuote(c *gin.Context) {
	resp, err := h.api.Quotes.Get(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch quote")
		return
	}
	response.Success(c, http.StatusOK, "quote retrieved", resp.Quote)
}

func (h *AccountHandler) AcceptQuote(c *gin.Context) {
	resp, err := h.api.Quotes.Accept(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to accept quote")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "quote accepted"), resp.Quote)
}

// RejectQuote takes an optional reason
func (h *AccountHandler) RejectQuote(c *gin.Context) {
	var req quote.RejectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "invalid request", err)
			return
		}
	}

	resp, err := h.api.Quotes.Reject(c.Request.Context(), token(c), c.Param("id"), req.Reason)
	if err != nil {
		response.FromError(c, err, "Failed to reject quote")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "quote rejected"), resp.Quote)
}

func (h *AccountHandler) DeleteQuote(c *gin.Context) {
	resp, err := h.api.Quotes.Delete(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to delete quote")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "quote deleted"), nil)
}

// ========== Invoices ==========

func (h *AccountHandler) ListInvoices(c *gin.Context) {
	resp, err := h.api.Invoices.Mine(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch invoices")
		return
	}
	response.Success(c, http.StatusOK, "invoices retrieved", nonNil(resp.Invoices))
}

// GetOrderInvoice answers with the invoice as JSON, or as the rendered PDF
// when ?format=pdf.
func (h *AccountHandler) GetOrderInvoice(c *gin.Context) {
	orderID := c.Param("orderId")
	switch c.DefaultQuery("format", invoice.FormatJSON) {
	case invoice.FormatJSON:
	case invoice.FormatPDF:
		blob, err := h.api.Invoices.ByOrderPDF(c.Request.Context(), token(c), orderID)
		if err != nil {
			response.FromError(c, err, "Failed to fetch invoice")
			return
		}
		if blob.Filename == "" {
			blob.Filename = "invoice-" + orderID + ".pdf"
		}
		response.Attachment(c, blob)
		return
	default:
		response.ValidationError(c, "format must be json or pdf", nil)
		return
	}

	resp, err := h.api.Invoices.ByOrder(c.Request.Context(), token(c), orderID)
	if err != nil {
		response.FromError(c, err, "Failed to fetch invoice")
		return
	}
	response.Success(c, http.StatusOK, "invoice retrieved", resp.Invoice)
}

// DownloadInvoice streams the PDF the backend renders
func (h *AccountHandler) DownloadInvoice(c *gin.Context) {
	blob, err := h.api.Invoices.Download(c.Request.Context(), token(c), c.Param("orderId"))
	if err != nil {
		response.FromError(c, err, "Failed to download invoice")
		return
	}
	if blob.Filename == "" {
		blob.Filename = "invoice-" + c.Param("orderId") + ".pdf"
	}
	response.Attachment(c, blob)
}

func (h *AccountHandler) SendInvoice(c *gin.Context) {
	resp, err := h.api.Invoices.Send(c.Request.Context(), token(c), c.Param("orderId"))
	if err != nil {
		response.FromError(c, err, "Failed to send invoice")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "invoice sent"), nil)
}

// GuestInvoice looks up an invoice by order number and email
func (h *AccountHandler) GuestInvoice(c *gin.Context) {
	number, email := c.Param("number"), c.Param("email")
	if !strings.Contains(email, "@") {
		response.ValidationError(c, "a valid email is required", nil)
		return
	}

	resp, err := h.api.Invoices.Guest(c.Request.Context(), number, email)
	if err != nil {
		response.FromError(c, err, "Invoice not found")
		return
	}
	response.Success(c, http.StatusOK, "invoice retrieved", resp.Invoice)
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
