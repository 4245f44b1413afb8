// internal/gateway/blog.go
package gateway

import (
	"context"
	"net/http"

	"mining-storefront/internal/domain/auth"
	"mining-storefront/internal/domain/blog"
	"mining-storefront/internal/pkg/query"
)

// BlogService covers /api/blog.
type BlogService struct {
	client *Client
}

// Posts lists published posts.
func (s *BlogService) Posts(ctx context.Context, params query.Params) (*blog.PostList, error) {
	return fetch[blog.PostList](ctx, s.client, newCall(http.MethodGet, "/api/blog/posts").withQuery(params))
}

// PostBySlug fetches one post.
func (s *BlogService) PostBySlug(ctx context.Context, slug string) (*blog.PostResponse, error) {
	return fetch[blog.PostResponse](ctx, s.client, newCall(http.MethodGet, "/api/blog/posts/%s", slug))
}

// Related lists posts related to slug.
func (s *BlogService) Related(ctx context.Context, slug string) (*blog.PostList, error) {
	return fetch[blog.PostList](ctx, s.client, newCall(http.MethodGet, "/api/blog/posts/related/%s", slug))
}

// CreatePost uploads a post with its featured image.
func (s *BlogService) CreatePost(ctx context.Context, token string, form *Form) (*blog.PostResponse, error) {
	cl := newCall(http.MethodPost, "/api/blog/posts").withToken(token).withForm(form)
	return fetch[blog.PostResponse](ctx, s.client, cl)
}

// UpdatePost replaces a post.
func (s *BlogService) UpdatePost(ctx context.Context, token, id string, form *Form) (*blog.PostResponse, error) {
	cl := newCall(http.MethodPut, "/api/blog/posts/%s", id).withToken(token).withForm(form)
	return fetch[blog.PostResponse](ctx, s.client, cl)
}

// DeletePost removes a post.
func (s *BlogService) DeletePost(ctx context.Context, token, id string) (*auth.MessageResponse, error) {
	cl := newCall(http.MethodDelete, "/api/blog/posts/%s", id).withToken(token)
	return fetch[auth.MessageResponse](ctx, s.client, cl)
}

// Categories lists blog categories.
func (s *BlogService) Categories(ctx context.Context) (*blog.CategoryList, error) {
	return fetch[blog.CategoryList](ctx, s.client, newCall(http.MethodGet, "/api/blog/categories"))
}

// CreateCategory adds a blog category.
func (s *BlogService) CreateCategory(ctx context.Context, token string, req blog.CategoryRequest) (*blog.CategoryResponse, error) {
	cl := newCall(http.MethodPost, "/api/blog/categories").withToken(token).withJSON(req)
	return fetch[blog.CategoryResponse](ctx, s.client, cl)
}

// UpdateCategory edits a blog category.
func (s *BlogService) UpdateCategory(ctx context.Context, token, id string, req blog.CategoryRequest) (*blog.CategoryResponse, error) {
	cl := newCall(http.MethodPut, "/api/blog/categories/%s", id).withToken(token).withJSON(req)
	return fetch[blog.CategoryResponse](ctx, s.client, cl)
}

// DeleteCategory removes a blog category.
func (s *BlogService) DeleteCategory(ctx context.Context, token, id string) (*auth.MessageResponse, error) {
	cl := newCall(http.MethodDelete, "/api/blog/categories/%s", id).withToken(token)
	return fetch[auth.MessageResponse](ctx, s.client, cl)
}

// Tags lists tags with usage counts.
func (s *BlogService) Tags(ctx context.Context) (*blog.TagList, error) {
	return fetch[blog.TagList](ctx, s.client, newCall(http.MethodGet, "/api/blog/tags"))
}

// Featured lists featured posts.
func (s *BlogService) Featured(ctx context.Context) (*blog.PostList, error) {
	return fetch[blog.PostList](ctx, s.client, newCall(http.MethodGet, "/api/blog/featured"))
}

// Archive lists post counts per month.
func (s *BlogService) Archive(ctx context.Context) (*blog.Archive, error) {
	return fetch[blog.Archive](ctx, s.client, newCall(http.MethodGet, "/api/blog/archive"))
}
