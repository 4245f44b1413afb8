// internal/handlers/content/content_handler.go
package content

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/blog"
	"mining-storefront/internal/domain/contact"
	"mining-storefront/internal/gateway"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/query"
	"mining-storefront/internal/pkg/response"
)

// ContentHandler serves the public blog and the contact form.
type ContentHandler struct {
	api    *gateway.Client
	logger *zap.Logger
}

func NewContentHandler(api *gateway.Client, logger *zap.Logger) *ContentHandler {
	return &ContentHandler{
		api:    api,
		logger: logger,
	}
}

// ListPosts passes page, limit, category, tag and search through
func (h *ContentHandler) ListPosts(c *gin.Context) {
	resp, err := h.api.Blog.Posts(c.Request.Context(), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.FromError(c, err, "Failed to fetch posts")
		return
	}
	response.Success(c, http.StatusOK, "posts retrieved", postPage(resp))
}

func (h *ContentHandler) GetPost(c *gin.Context) {
	resp, err := h.api.Blog.PostBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch post")
		return
	}
	if resp.Post == nil {
		response.NotFound(c, "Post not found")
		return
	}
	response.Success(c, http.StatusOK, "post retrieved", resp.Post)
}

// GetRelatedPosts never fails the page; it answers an empty list instead
func (h *ContentHandler) GetRelatedPosts(c *gin.Context) {
	resp, err := h.api.Blog.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.logger.Debug("related posts unavailable", zap.String("slug", c.Param("slug")), zap.Error(err))
		response.Success(c, http.StatusOK, "related posts retrieved", []blog.Post{})
		return
	}
	response.Success(c, http.StatusOK, "related posts retrieved", nonNil(resp.Posts))
}

func (h *ContentHandler) GetFeaturedPosts(c *gin.Context) {
	resp, err := h.api.Blog.Featured(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to fetch featured posts")
		return
	}
	response.Success(c, http.StatusOK, "featured posts retrieved", nonNil(resp.Posts))
}

func (h *ContentHandler) GetCategories(c *gin.Context) {
	resp, err := h.api.Blog.Categories(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to fetch categories")
		return
	}
	response.Success(c, http.StatusOK, "categories retrieved", nonNil(resp.Categories))
}

func (h *ContentHandler) GetTags(c *gin.Context) {
	resp, err := h.api.Blog.Tags(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to fetch tags")
		return
	}
	response.Success(c, http.StatusOK, "tags retrieved", nonNil(resp.Tags))
}

func (h *ContentHandler) GetArchive(c *gin.Context) {
	resp, err := h.api.Blog.Archive(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to fetch archive")
		return
	}
	response.Success(c, http.StatusOK, "archive retrieved", nonNil(resp.Archive))
}

// SubmitContact forwards the contact form
func (h *ContentHandler) SubmitContact(c *gin.Context) {
	var req contact.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	resp, err := h.api.Contact.Submit(c.Request.Context(), req)
	if err != nil {
		response.FromError(c, err, "Failed to send message")
		return
	}

	h.logger.Info("contact message submitted",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("subject", req.Subject),
	)
	msg := resp.Message
	if msg == "" {
		msg = "Message sent successfully"
	}
	response.Success(c, http.StatusCreated, msg, nil)
}

func postPage(resp *blog.PostList) gin.H {
	return gin.H{
		"posts":      nonNil(resp.Posts),
		"pagination": resp.Pagination,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
