// internal/gateway/products.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/catalog"
	"mining-storefront/internal/pkg/query"
)

// ProductsService covers /api/products and /api/search.
type ProductsService struct {
	client *Client
}

// productEnvelope accepts the product bare or wrapped as {"product": {...}}.
type productEnvelope struct {
	catalog.Product
	Wrapped *catalog.Product `json:"product"`
}

// List fetches a page of products.
func (s *ProductsService) List(ctx context.Context, params query.Params) (*catalog.ProductList, error) {
	return fetch[catalog.ProductList](ctx, s.client, newCall(http.MethodGet, "/api/products").withQuery(params))
}

// Get fetches one product.
func (s *ProductsService) Get(ctx context.Context, id string) (*catalog.Product, error) {
	return s.product(ctx, newCall(http.MethodGet, "/api/products/%s", id))
}

// Related fetches products related to id.
func (s *ProductsService) Related(ctx context.Context, id string) ([]catalog.Product, error) {
	var resp catalog.ProductList
	if err := s.client.do(ctx, newCall(http.MethodGet, "/api/products/%s/related", id), &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// Search runs a text search. params must already contain q.
func (s *ProductsService) Search(ctx context.Context, params query.Params) (*catalog.ProductList, error) {
	return fetch[catalog.ProductList](ctx, s.client, newCall(http.MethodGet, "/api/products/search").withQuery(params))
}

// Suggestions returns autocomplete entries for q.
func (s *ProductsService) Suggestions(ctx context.Context, q string) ([]catalog.Suggestion, error) {
	var resp struct {
		Suggestions []catalog.Suggestion `json:"suggestions"`
	}
	cl := newCall(http.MethodGet, "/api/search/suggestions").withQuery(query.Params{}.Add("q", q))
	if err := s.client.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return resp.Suggestions, nil
}

// Create uploads a new product with its images.
func (s *ProductsService) Create(ctx context.Context, token string, form *Form) (*catalog.Product, error) {
	return s.product(ctx, newCall(http.MethodPost, "/api/products").withToken(token).withForm(form))
}

// Update replaces a product's fields and images.
func (s *ProductsService) Update(ctx context.Context, token, id string, form *Form) (*catalog.Product, error) {
	return s.product(ctx, newCall(http.MethodPut, "/api/products/%s", id).withToken(token).withForm(form))
}

// Delete removes a product.
func (s *ProductsService) Delete(ctx context.Context, token, id string) error {
	return s.client.do(ctx, newCall(http.MethodDelete, "/api/products/%s", id).withToken(token), nil)
}

// BulkImport uploads a CSV of products. The file goes in the csv field.
func (s *ProductsService) BulkImport(ctx context.Context, token string, form *Form) (*catalog.BulkImportResult, error) {
	var resp catalog.BulkImportResult
	cl := newCall(http.MethodPost, "/api/products/bulk-import").withToken(token).withForm(form)
	if err := s.client.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ImportTemplate downloads the empty CSV template.
func (s *ProductsService) ImportTemplate(ctx context.Context, token string) (*Blob, error) {
	return s.client.download(ctx, newCall(http.MethodGet, "/api/products/import/template").withToken(token))
}

// ImportSample downloads a filled-in CSV example.
func (s *ProductsService) ImportSample(ctx context.Context, token string) (*Blob, error) {
	return s.client.download(ctx, newCall(http.MethodGet, "/api/products/import/sample").withToken(token))
}

func (s *ProductsService) product(ctx context.Context, cl *call) (*catalog.Product, error) {
	var resp productEnvelope
	if err := s.client.do(ctx, cl, &resp); err != nil {
		return nil, err
	}
	if resp.Wrapped != nil {
		return resp.Wrapped, nil
	}
	if resp.ID == "" {
		return nil, &Error{Kind: KindDecode, Message: "response carried no product"}
	}
	return &resp.Product, nil
}
