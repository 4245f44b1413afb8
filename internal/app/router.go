// internal/app/router.go
package app

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	accountHandler "mining-storefront/internal/handlers/account"
	adminHandler "mining-storefront/internal/handlers/admin"
	catalogHandler "mining-storefront/internal/handlers/catalog"
	contentHandler "mining-storefront/internal/handlers/content"
	sessionHandler "mining-storefront/internal/handlers/session"
	wsHandler "mining-storefront/internal/handlers/websocket"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/response"
)

const version = "1.0.0"

type Handlers struct {
	SessionHandler *sessionHandler.SessionHandler
	CatalogHandler *catalogHandler.CatalogHandler
	AccountHandler *accountHandler.AccountHandler
	ContentHandler *contentHandler.ContentHandler
	AdminHandler   *adminHandler.AdminHandler
	WSHandler      *wsHandler.WebSocketHandler

	// Workspace attaches the caller's workspace to every storefront route.
	Workspace gin.HandlerFunc
	// Health reports extra gauges on /api/v1/health. May be nil.
	Health func() gin.H
	// DevProxy forwards unmatched /api/* requests to the backend. May be nil.
	DevProxy http.Handler
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	// ==================== Metrics ====================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "ok", "version": version}
		if h.Health != nil {
			for k, v := range h.Health() {
				body[k] = v
			}
		}
		c.JSON(http.StatusOK, body)
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.Workspace, h.WSHandler.HandleConnection)

	store := api.Group("")
	store.Use(h.Workspace)

	// ==================== Session ====================
	sess := store.Group("/session")
	{
		sess.GET("", h.SessionHandler.GetSession)
		sess.POST("/login", h.SessionHandler.Login)
		sess.POST("/register", h.SessionHandler.Register)
		sess.POST("/logout", h.SessionHandler.Logout)
		sess.POST("/refresh", h.SessionHandler.Refresh)
		sess.POST("/forgot-password", h.SessionHandler.ForgotPassword)
		sess.POST("/reset-password", h.SessionHandler.ResetPassword)
		sess.POST("/change-password", h.SessionHandler.ChangePassword)
		sess.POST("/resend-verification", h.SessionHandler.ResendVerification)
		sess.POST("/verify-email", h.SessionHandler.VerifyEmail)
		sess.GET("/verify-email", h.SessionHandler.VerifyEmail)
	}

	// ==================== Catalog ====================
	cat := store.Group("/catalog")
	{
		cat.GET("", h.CatalogHandler.GetState)
		cat.GET("/categories", h.CatalogHandler.GetCategories)
		cat.GET("/categories/tree", h.CatalogHandler.GetCategoryTree)
		cat.GET("/categories/slug/:slug", h.CatalogHandler.GetCategoryBySlug)
		cat.GET("/categories/:id", h.CatalogHandler.GetCategory)
		cat.POST("/products/fetch", h.CatalogHandler.FetchProducts)
		cat.GET("/products/:id", h.CatalogHandler.GetProduct)
		cat.GET("/products/:id/related", h.CatalogHandler.GetRelated)
		cat.POST("/search", h.CatalogHandler.Search)
		cat.PATCH("/filters", h.CatalogHandler.UpdateFilters)
		cat.DELETE("/filters", h.CatalogHandler.ResetFilters)
		cat.GET("/suggestions", h.CatalogHandler.GetSuggestions)
	}

	// ==================== Orders (guest checkout allowed) ====================
	store.POST("/orders", h.AccountHandler.CreateOrder)
	store.GET("/orders/track/:number/:email", h.AccountHandler.TrackOrder)
	store.POST("/quotes", h.AccountHandler.CreateQuote)
	store.GET("/invoices/guest/:number/:email", h.AccountHandler.GuestInvoice)

	// ==================== Account ====================
	account := store.Group("")
	account.Use(middleware.RequireSession())
	{
		account.GET("/orders", h.AccountHandler.ListOrders)
		account.GET("/orders/:id", h.AccountHandler.GetOrder)
		account.DELETE("/orders/:id", h.AccountHandler.CancelOrder)

		account.GET("/quotes", h.AccountHandler.ListQuotes)
		account.GET("/quotes/:id", h.AccountHandler.GetQuote)
		account.PUT("/quotes/:id/accept", h.AccountHandler.AcceptQuote)
		account.PUT("/quotes/:id/reject", h.AccountHandler.RejectQuote)
		account.DELETE("/quotes/:id", h.AccountHandler.DeleteQuote)

		account.GET("/invoices", h.AccountHandler.ListInvoices)
		account.GET("/invoices/:orderId", h.AccountHandler.GetOrderInvoice)
		account.GET("/invoices/:orderId/download", h.AccountHandler.DownloadInvoice)
		account.POST("/invoices/:orderId/send", h.AccountHandler.SendInvoice)
	}

	// ==================== Content ====================
	blog := store.Group("/blog")
	{
		blog.GET("/posts", h.ContentHandler.ListPosts)
		blog.GET("/posts/:slug", h.ContentHandler.GetPost)
		blog.GET("/posts/:slug/related", h.ContentHandler.GetRelatedPosts)
		blog.GET("/featured", h.ContentHandler.GetFeaturedPosts)
		blog.GET("/categories", h.ContentHandler.GetCategories)
		blog.GET("/tags", h.ContentHandler.GetTags)
		blog.GET("/archive", h.ContentHandler.GetArchive)
	}
	store.POST("/contact", h.ContentHandler.SubmitContact)

	// ==================== Admin ====================
	admin := store.Group("/admin")
	admin.Use(middleware.StaffOnly()...)
	{
		admin.GET("/dashboard", h.AdminHandler.GetDashboard)

		admin.GET("/orders", h.AdminHandler.ListOrders)
		admin.PUT("/orders/:id", h.AdminHandler.UpdateOrderStatus)

		admin.POST("/products", h.AdminHandler.CreateProduct)
		admin.PUT("/products/:id", h.AdminHandler.UpdateProduct)
		admin.DELETE("/products/:id", h.AdminHandler.DeleteProduct)
		admin.POST("/products/bulk-import", h.AdminHandler.BulkImportProducts)
		admin.GET("/products/import/template", h.AdminHandler.DownloadImportTemplate)
		admin.GET("/products/import/sample", h.AdminHandler.DownloadImportSample)

		admin.POST("/categories", h.AdminHandler.CreateCategory)
		admin.PUT("/categories/:id", h.AdminHandler.UpdateCategory)
		admin.DELETE("/categories/:id", h.AdminHandler.DeleteCategory)

		admin.GET("/users", h.AdminHandler.ListUsers)
		admin.GET("/users/stats", h.AdminHandler.GetUserStats)
		admin.GET("/users/:id", h.AdminHandler.GetUser)
		admin.PUT("/users/:id", h.AdminHandler.UpdateUser)
		admin.DELETE("/users/:id", h.AdminHandler.DeleteUser)
		admin.POST("/users/:id/toggle-status", h.AdminHandler.ToggleUserStatus)

		admin.GET("/settings", h.AdminHandler.GetSettings)
		admin.PUT("/settings", h.AdminHandler.UpdateSettings)
		admin.POST("/settings/test-email", h.AdminHandler.TestEmailSettings)
		admin.POST("/settings/test-payment", h.AdminHandler.TestPaymentSettings)

		admin.GET("/quotes", h.AdminHandler.ListQuotes)
		admin.GET("/quotes/stats", h.AdminHandler.GetQuoteStats)
		admin.PUT("/quotes/:id", h.AdminHandler.UpdateQuote)
		admin.POST("/quotes/:id/send", h.AdminHandler.SendQuote)

		admin.GET("/invoices", h.AdminHandler.ListInvoices)
		admin.GET("/invoices/stats", h.AdminHandler.GetInvoiceStats)
		admin.POST("/invoices/bulk-send", h.AdminHandler.BulkSendInvoices)
		admin.POST("/invoices/:orderId/send", h.AdminHandler.SendInvoice)
		admin.GET("/invoices/:orderId/download", h.AdminHandler.DownloadInvoice)

		admin.GET("/contact", h.AdminHandler.ListContactMessages)
		admin.GET("/contact/:id", h.AdminHandler.GetContactMessage)
		admin.PUT("/contact/:id", h.AdminHandler.UpdateContactMessage)
		admin.DELETE("/contact/:id", h.AdminHandler.DeleteContactMessage)

		admin.POST("/blog/posts", h.AdminHandler.CreatePost)
		admin.PUT("/blog/posts/:id", h.AdminHandler.UpdatePost)
		admin.DELETE("/blog/posts/:id", h.AdminHandler.DeletePost)
		admin.POST("/blog/categories", h.AdminHandler.CreateBlogCategory)
		admin.PUT("/blog/categories/:id", h.AdminHandler.UpdateBlogCategory)
		admin.DELETE("/blog/categories/:id", h.AdminHandler.DeleteBlogCategory)

		admin.POST("/emails/order-confirmation", h.AdminHandler.SendOrderConfirmation)
		admin.POST("/emails/order-status", h.AdminHandler.SendOrderStatus)
		admin.POST("/emails/custom", h.AdminHandler.SendCustomEmail)
		admin.POST("/emails/newsletter", h.AdminHandler.SendNewsletter)
		admin.POST("/emails/bulk-order-update", h.AdminHandler.SendBulkOrderUpdate)
		admin.POST("/emails/test", h.AdminHandler.SendTestEmail)
		admin.GET("/emails/templates", h.AdminHandler.GetEmailTemplates)
		admin.GET("/emails/stats", h.AdminHandler.GetEmailStats)

		admin.GET("/ws/stats", h.WSHandler.GetStats)
	}

	// ==================== Fallback ====================
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if h.DevProxy != nil && strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, "/api/v1/") {
			h.DevProxy.ServeHTTP(c.Writer, c.Request)
			return
		}
		response.NotFound(c, "Route not found")
	})

	logger.Info("routes registered", zap.Int("count", len(r.Routes())))
}

// NewDevProxy forwards requests unchanged to target, the way the frontend dev
// server proxies /api to the backend.
func NewDevProxy(target string, logger *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	proxy := httputil.NewSingleHostReverseProxy(u)
	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.Host = u.Host
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("dev proxy request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		w.WriteHeader(http.StatusBadGateway)
	}
	return proxy, nil
}
