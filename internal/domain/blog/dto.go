// internal/domain/blog/dto.go
package blog

// PostResponse wraps a single post.
type PostResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Post    *Post  `json:"post,omitempty"`
}

// PostList is a page of posts.
type PostList struct {
	Success    bool           `json:"success"`
	Posts      []Post         `json:"posts"`
	Pagination map[string]any `json:"pagination,omitempty"`
}

// CategoryRequest creates or updates a blog category.
type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// CategoryResponse wraps a single category.
type CategoryResponse struct {
	Success  bool      `json:"success"`
	Message  string    `json:"message,omitempty"`
	Category *Category `json:"category,omitempty"`
}

// CategoryList lists blog categories.
type CategoryList struct {
	Success    bool       `json:"success"`
	Categories []Category `json:"categories"`
}

// TagList lists tags.
type TagList struct {
	Success bool  `json:"success"`
	Tags    []Tag `json:"tags"`
}

// Archive lists month buckets.
type Archive struct {
	Success bool           `json:"success"`
	Archive []ArchiveEntry `json:"archive"`
}
