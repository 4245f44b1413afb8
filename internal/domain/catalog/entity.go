// internal/domain/catalog/entity.go
package catalog

import (
	"encoding/json"
	"time"
)

// DefaultPageSize is the number of products requested per catalog page.
const DefaultPageSize = 12

// Product is a catalog item.
type Product struct {
	ID               string            `json:"_id"`
	Name             string            `json:"name"`
	Slug             string            `json:"slug,omitempty"`
	SKU              string            `json:"sku"`
	Description      string            `json:"description,omitempty"`
	ShortDescription string            `json:"shortDescription,omitempty"`
	Price            float64           `json:"price"`
	SalePrice        *float64          `json:"salePrice,omitempty"`
	StockQuantity    int               `json:"stockQuantity"`
	InStock          bool              `json:"inStock"`
	Featured         bool              `json:"featured,omitempty"`
	Images           []string          `json:"images,omitempty"`
	Category         CategoryRef       `json:"category"`
	Specifications   map[string]string `json:"specifications,omitempty"`
	Tags             []string          `json:"tags,omitempty"`
	CreatedAt        *time.Time        `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time        `json:"updatedAt,omitempty"`
}

// EffectivePrice is the sale price when one is set, else the list price.
func (p *Product) EffectivePrice() float64 {
	if p.SalePrice != nil && *p.SalePrice > 0 && *p.SalePrice < p.Price {
		return *p.SalePrice
	}
	return p.Price
}

// CategoryRef is a product's category. The backend sends either the bare id or
// the populated category object.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
	Slug string `json:"slug,omitempty"`
}

// UnmarshalJSON accepts both "id" and {"_id": "...", "name": "..."}.
func (c *CategoryRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		*c = CategoryRef{ID: id}
		return nil
	}
	type plain CategoryRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*c = CategoryRef(p)
	return nil
}

// Category is a product category.
type Category struct {
	ID          string     `json:"_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description,omitempty"`
	Image       string     `json:"image,omitempty"`
	Parent      string     `json:"parent,omitempty"`
	IsActive    bool       `json:"isActive"`
	SortOrder   int        `json:"sortOrder,omitempty"`
	Children    []Category `json:"children,omitempty"`
}

// Pagination is computed by the server and only drives pager state.
type Pagination struct {
	CurrentPage   int  `json:"currentPage"`
	TotalPages    int  `json:"totalPages"`
	TotalProducts int  `json:"totalProducts"`
	HasNext       bool `json:"hasNext"`
	HasPrev       bool `json:"hasPrev"`
}

// InitialPagination is the pager state before the first fetch.
func InitialPagination() Pagination {
	return Pagination{CurrentPage: 1, TotalPages: 1}
}

// ProductList is the body of list and search responses. Products is nil when
// the response did not carry a product array.
type ProductList struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Products   []Product   `json:"products"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// CategoryList is the body of the category list response.
type CategoryList struct {
	Success    bool       `json:"success"`
	Categories []Category `json:"categories"`
}

// Suggestion is one search autocomplete entry.
type Suggestion struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	ID    string `json:"_id,omitempty"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}

// BulkImportResult summarises a CSV import.
type BulkImportResult struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}
