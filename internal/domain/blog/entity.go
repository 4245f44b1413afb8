// internal/domain/blog/entity.go
package blog

import "time"

// Post statuses
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Post is a blog article.
type Post struct {
	ID              string       `json:"_id"`
	Title           string       `json:"title"`
	Slug            string       `json:"slug"`
	Excerpt         string       `json:"excerpt,omitempty"`
	Content         string       `json:"content,omitempty"`
	FeaturedImage   string       `json:"featuredImage,omitempty"`
	Category        *CategoryRef `json:"category,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
	Status          string       `json:"status"`
	Author          *Author      `json:"author,omitempty"`
	MetaTitle       string       `json:"metaTitle,omitempty"`
	MetaDescription string       `json:"metaDescription,omitempty"`
	ViewCount       int          `json:"viewCount"`
	PublishedAt     *time.Time   `json:"publishedAt,omitempty"`
	CreatedAt       *time.Time   `json:"createdAt,omitempty"`
	UpdatedAt       *time.Time   `json:"updatedAt,omitempty"`
}

// CategoryRef is the populated category on a post.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Author is the populated author on a post.
type Author struct {
	ID        string `json:"_id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Category is a blog category.
type Category struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	IsActive    bool       `json:"isActive"`
	PostCount   int        `json:"postCount,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// Tag is a tag with its usage count.
type Tag struct {
	Name  string `json:"_id"`
	Count int    `json:"count"`
}

// ArchiveEntry groups posts by month.
type ArchiveEntry struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Count int `json:"count"`
}
