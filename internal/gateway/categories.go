// internal/gateway/categories.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/catalog"
	"mining-storefront/internal/pkg/query"
)

// CategoriesService covers /api/categories.
type CategoriesService struct {
	client *Client
}

// List fetches categories. The storefront passes activeOnly=true.
func (s *CategoriesService) List(ctx context.Context, params query.Params) ([]catalog.Category, error) {
	var resp catalog.CategoryList
	if err := s.client.do(ctx, newCall(http.MethodGet, "/api/categories").withQuery(params), &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// Get fetches one category by id.
func (s *CategoriesService) Get(ctx context.Context, id string) (*catalog.Category, error) {
	return s.category(ctx, newCall(http.MethodGet, "/api/categories/%s", id))
}

// BySlug fetches one category by slug.
func (s *CategoriesService) BySlug(ctx context.Context, slug string, params query.Params) (*catalog.Category, error) {
	return s.category(ctx, newCall(http.MethodGet, "/api/categories/slug/%s", slug).withQuery(params))
}

// Tree fetches the nested category hierarchy.
func (s *CategoriesService) Tree(ctx context.Context) ([]catalog.Category, error) {
	var resp struct {
		Tree       []catalog.Category `json:"tree"`
		Categories []catalog.Category `json:"categories"`
	}
	if err := s.client.do(ctx, newCall(http.MethodGet, "/api/categories/tree"), &resp); err != nil {
		return nil, err
	}
	if resp.Tree != nil {
		return resp.Tree, nil
	}
	return resp.Categories, nil
}

// Create adds a category. The form carries name, description, parent,
// sortOrder, isActive and an optional image file.
func (s *CategoriesService) Create(ctx context.Context, token string, form *Form) (*catalog.Category, error) {
	return s.category(ctx, newCall(http.MethodPost, "/api/categories").withToken(token).withForm(form))
}

// Update replaces a category's fields and image.
func (s *CategoriesService) Update(ctx context.Context, token, id string, form *Form) (*catalog.Category, error) {
	return s.category(ctx, newCall(http.MethodPut, "/api/categories/%s", id).withToken(token).withForm(form))
}

// Delete removes a category.
func (s *CategoriesService) Delete(ctx context.Context, token, id string) error {
	return s.client.do(ctx, newCall(http.MethodDelete, "/api/categories/%s", id).withToken(token), nil)
}

func (s *CategoriesService) category(ctx context.Context, cl *call) (*catalog.Category, error) {
	var resp struct {
		Category *catalog.Category `json:"category"`
	}
	if err := s.client.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	if resp.Category == nil {
		return nil, &Error{Kind: KindDecode, Message: "response carried no category"}
	}
	return resp.Category, nil
}
