// internal/handlers/admin/sales.go
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/contact"
	"mining-storefront/internal/domain/invoice"
	"mining-storefront/internal/domain/mail"
	"mining-storefront/internal/domain/quote"
	"mining-storefront/internal/pkg/response"
)

// ========== Quotes ==========

func (h *AdminHandler) ListQuotes(c *gin.Context) {
	resp, err := h.api.Quotes.AdminList(c.Request.Context(), token(c), params(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch quotes")
		return
	}
	response.Success(c, http.StatusOK, "quotes retrieved", gin.H{
		"quotes":     nonNil(resp.Quotes),
		"pagination": resp.Pagination,
	})
}

// UpdateQuote prices or changes the status of a quote
func (h *AdminHandler) UpdateQuote(c *gin.Context) {
	var req quote.AdminUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Quotes.AdminUpdate(c.Request.Context(), token(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err, "Failed to update quote")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "quote updated"), resp.Quote)
}

func (h *AdminHandler) SendQuote(c *gin.Context) {
	resp, err := h.api.Quotes.Send(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to send quote")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "quote sent"), resp.Quote)
}

func (h *AdminHandler) GetQuoteStats(c *gin.Context) {
	resp, err := h.api.Quotes.Stats(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch quote stats")
		return
	}
	response.Success(c, http.StatusOK, "quote stats retrieved", resp.Stats)
}

// ========== Invoices ==========

func (h *AdminHandler) ListInvoices(c *gin.Context) {
	resp, err := h.api.Invoices.AdminList(c.Request.Context(), token(c), params(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch invoices")
		return
	}
	response.Success(c, http.StatusOK, "invoices retrieved", gin.H{
		"invoices":   nonNil(resp.Invoices),
		"pagination": resp.Pagination,
	})
}

func (h *AdminHandler) SendInvoice(c *gin.Context) {
	resp, err := h.api.Invoices.AdminSend(c.Request.Context(), token(c), c.Param("orderId"))
	if err != nil {
		response.FromError(c, err, "Failed to send invoice")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "invoice sent"), nil)
}

func (h *AdminHandler) DownloadInvoice(c *gin.Context) {
	blob, err := h.api.Invoices.AdminPDF(c.Request.Context(), token(c), c.Param("orderId"))
	if err != nil {
		response.FromError(c, err, "Failed to download invoice")
		return
	}
	if blob.Filename == "" {
		blob.Filename = "invoice-" + c.Param("orderId") + ".pdf"
	}
	response.Attachment(c, blob)
}

// BulkSendInvoices mails the invoices of several orders. Partial failures
// come back in the result, not as an error.
func (h *AdminHandler) BulkSendInvoices(c *gin.Context) {
	var req invoice.BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Invoices.BulkSend(c.Request.Context(), token(c), req.OrderIDs)
	if err != nil {
		response.FromError(c, err, "Failed to send invoices")
		return
	}
	h.logger.Info("invoices sent in bulk", append(actor(c),
		zap.Int("requested", len(req.OrderIDs)),
		zap.Int("sent", resp.Sent),
		zap.Int("failed", resp.Failed),
	)...)
	response.Success(c, http.StatusOK, messageOr(resp.Message, "invoices sent"), resp)
}

func (h *AdminHandler) GetInvoiceStats(c *gin.Context) {
	resp, err := h.api.Invoices.Stats(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch invoice stats")
		return
	}
	response.Success(c, http.StatusOK, "invoice stats retrieved", resp.Stats)
}

// ========== Contact messages ==========

func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	resp, err := h.api.Contact.List(c.Request.Context(), token(c), params(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch messages")
		return
	}
	response.Success(c, http.StatusOK, "messages retrieved", gin.H{
		"messages":   nonNil(resp.Messages),
		"pagination": resp.Pagination,
	})
}

func (h *AdminHandler) GetContactMessage(c *gin.Context) {
	resp, err := h.api.Contact.Get(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch message")
		return
	}
	response.Success(c, http.StatusOK, "message retrieved", resp.Contact)
}

func (h *AdminHandler) UpdateContactMessage(c *gin.Context) {
	var req contact.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Contact.Update(c.Request.Context(), token(c), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err, "Failed to update message")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "message updated"), resp.Contact)
}

func (h *AdminHandler) DeleteContactMessage(c *gin.Context) {
	resp, err := h.api.Contact.Delete(c.Request.Context(), token(c), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to delete message")
		return
	}
	response.Success(c, http.StatusOK, messageOr(resp.Message, "message deleted"), nil)
}

// ========== Emails ==========

func (h *AdminHandler) SendOrderConfirmation(c *gin.Context) {
	var req mail.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	h.sent(c, "order confirmation")(h.api.Emails.OrderConfirmation(c.Request.Context(), token(c), req.OrderID))
}

func (h *AdminHandler) SendOrderStatus(c *gin.Context) {
	var req mail.OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	h.sent(c, "order status")(h.api.Emails.OrderStatus(c.Request.Context(), token(c), req.OrderID, req.Status))
}

func (h *AdminHandler) SendCustomEmail(c *gin.Context) {
	var req mail.CustomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	h.sent(c, "custom")(h.api.Emails.Custom(c.Request.Context(), token(c), req))
}

func (h *AdminHandler) SendNewsletter(c *gin.Context) {
	var req mail.NewsletterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	h.sent(c, "newsletter")(h.api.Emails.Newsletter(c.Request.Context(), token(c), req))
}

func (h *AdminHandler) SendBulkOrderUpdate(c *gin.Context) {
	var req mail.BulkOrderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	h.sent(c, "bulk order update")(h.api.Emails.BulkOrderUpdate(c.Request.Context(), token(c), req.OrderIDs, req.Message))
}

func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	var req mail.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	h.sent(c, "test")(h.api.Emails.Test(c.Request.Context(), token(c), req.Recipient))
}

func (h *AdminHandler) GetEmailTemplates(c *gin.Context) {
	resp, err := h.api.Emails.Templates(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch templates")
		return
	}
	response.Success(c, http.StatusOK, "templates retrieved", resp)
}

func (h *AdminHandler) GetEmailStats(c *gin.Context) {
	resp, err := h.api.Emails.Stats(c.Request.Context(), token(c))
	if err != nil {
		response.FromError(c, err, "Failed to fetch email stats")
		return
	}
	response.Success(c, http.StatusOK, "email stats retrieved", resp)
}

// sent answers a send call in the usual envelope
func (h *AdminHandler) sent(c *gin.Context, kind string) func(*mail.SendResponse, error) {
	return func(resp *mail.SendResponse, err error) {
		if err != nil {
			response.FromError(c, err, "Failed to send email")
			return
		}
		h.logger.Info("email sent", append(actor(c),
			zap.String("kind", kind),
			zap.Int("count", resp.SentCount),
		)...)
		response.Success(c, http.StatusOK, messageOr(resp.Message, "email sent"), resp)
	}
}
