// internal/handlers/catalog/catalog_handler.go
package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mining-storefront/internal/domain/catalog"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/query"
	"mining-storefront/internal/pkg/response"
)

// minSuggestionQuery is the shortest text worth asking suggestions for.
const minSuggestionQuery = 2

// SuggestionsAPI serves search autocomplete.
type SuggestionsAPI interface {
	Suggestions(ctx context.Context, q string) ([]catalog.Suggestion, error)
}

// CategoriesAPI reads single categories and the hierarchy. The flat list
// lives in each workspace's catalog state.
type CategoriesAPI interface {
	Get(ctx context.Context, id string) (*catalog.Category, error)
	BySlug(ctx context.Context, slug string, params query.Params) (*catalog.Category, error)
	Tree(ctx context.Context) ([]catalog.Category, error)
}

type CatalogHandler struct {
	suggestions SuggestionsAPI
	categories  CategoriesAPI
	logger      *zap.Logger
}

func NewCatalogHandler(suggestions SuggestionsAPI, categories CategoriesAPI, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		suggestions: suggestions,
		categories:  categories,
		logger:      logger,
	}
}

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

// GetState returns the listing of this browser
func (h *CatalogHandler) GetState(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	response.Success(c, http.StatusOK, "catalog retrieved", ws.Catalog.Snapshot())
}

// GetCategories returns the loaded categories; ?refresh=true reloads them first
func (h *CatalogHandler) GetCategories(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	if c.Query("refresh") == "true" {
		if err := ws.Catalog.FetchCategories(c.Request.Context()); err != nil {
			response.FromError(c, err, "Failed to fetch categories")
			return
		}
	}
	response.Success(c, http.StatusOK, "categories retrieved", ws.Catalog.Snapshot().Categories)
}

// GetCategoryTree returns the nested hierarchy, never null
func (h *CatalogHandler) GetCategoryTree(c *gin.Context) {
	tree, err := h.categories.Tree(c.Request.Context())
	if err != nil {
		response.FromError(c, err, "Failed to fetch category tree")
		return
	}
	if tree == nil {
		tree = []catalog.Category{}
	}
	response.Success(c, http.StatusOK, "category tree retrieved", tree)
}

// GetCategoryBySlug passes the query string through, so the backend can
// include the category's products.
func (h *CatalogHandler) GetCategoryBySlug(c *gin.Context) {
	category, err := h.categories.BySlug(c.Request.Context(), c.Param("slug"), query.FromValues(c.Request.URL.Query()))
	if err != nil {
		response.FromError(c, err, "Failed to fetch category")
		return
	}
	response.Success(c, http.StatusOK, "category retrieved", category)
}

func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch category")
		return
	}
	response.Success(c, http.StatusOK, "category retrieved", category)
}

// FetchProducts loads a page with the current filters
func (h *CatalogHandler) FetchProducts(c *gin.Context) {
	page, err := pageParam(c.DefaultQuery("page", "1"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid page", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	if err := ws.Catalog.FetchProducts(c.Request.Context(), page); err != nil {
		response.FromError(c, err, "Failed to fetch products")
		return
	}
	response.Success(c, http.StatusOK, "products retrieved", ws.Catalog.Snapshot())
}

// Search runs a text search within the current filters
func (h *CatalogHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}

	ws := middleware.MustGetWorkspace(c)
	if err := ws.Catalog.SearchProductsWithFilters(c.Request.Context(), req.Query, req.Page); err != nil {
		response.FromError(c, err, "Search failed")
		return
	}
	response.Success(c, http.StatusOK, "search completed", ws.Catalog.Snapshot())
}

// GetProduct loads one product without touching the listing
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	product, err := ws.Catalog.FetchProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err, "Failed to fetch product")
		return
	}
	response.Success(c, http.StatusOK, "product retrieved", product)
}

// GetRelated answers with an empty list when related products are unavailable
func (h *CatalogHandler) GetRelated(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	related, err := ws.Catalog.FetchRelatedProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Debug("related products unavailable",
			zap.String("product_id", c.Param("id")),
			zap.Error(err),
		)
	}
	response.Success(c, http.StatusOK, "related products retrieved", related)
}

// UpdateFilters merges a partial filter set. Nothing is fetched.
func (h *CatalogHandler) UpdateFilters(c *gin.Context) {
	var patch catalog.FilterPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	ws := middleware.MustGetWorkspace(c)
	filters := ws.Catalog.UpdateFilters(patch)
	response.Success(c, http.StatusOK, "filters updated", filters)
}

// ResetFilters restores the default filters
func (h *CatalogHandler) ResetFilters(c *gin.Context) {
	ws := middleware.MustGetWorkspace(c)
	ws.Catalog.ResetFilters()
	response.Success(c, http.StatusOK, "filters reset", ws.Catalog.Snapshot().Filters)
}

// GetSuggestions returns autocomplete entries. Short queries and backend
// failures both yield an empty list.
func (h *CatalogHandler) GetSuggestions(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len([]rune(q)) < minSuggestionQuery {
		response.Success(c, http.StatusOK, "suggestions retrieved", []catalog.Suggestion{})
		return
	}

	suggestions, err := h.suggestions.Suggestions(c.Request.Context(), q)
	if err != nil {
		h.logger.Debug("suggestions unavailable", zap.String("q", q), zap.Error(err))
	}
	if suggestions == nil {
		suggestions = []catalog.Suggestion{}
	}
	response.Success(c, http.StatusOK, "suggestions retrieved", suggestions)
}

func pageParam(raw string) (int, error) {
	page, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if page < 1 {
		page = 1
	}
	return page, nil
}
