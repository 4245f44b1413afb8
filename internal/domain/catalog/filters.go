// internal/domain/catalog/filters.go
package catalog

import (
	"strconv"

	"mining-storefront/internal/pkg/query"
)

// Filters is the catalog filter set. Every field is a string and "" means
// unset. Field order is the order keys go on the wire.
type Filters struct {
	Category  string `json:"category"`
	MinPrice  string `json:"minPrice"`
	MaxPrice  string `json:"maxPrice"`
	InStock   string `json:"inStock"`
	Search    string `json:"search"`
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Featured  string `json:"featured"`
}

// DefaultFilters returns the initial filter set.
func DefaultFilters() Filters {
	return Filters{SortBy: "createdAt", SortOrder: "desc"}
}

// FilterPatch is a partial filter update. Nil fields are left alone; a
// pointer to "" clears the field.
type FilterPatch struct {
	Category  *string `json:"category,omitempty"`
	MinPrice  *string `json:"minPrice,omitempty"`
	MaxPrice  *string `json:"maxPrice,omitempty"`
	InStock   *string `json:"inStock,omitempty"`
	Search    *string `json:"search,omitempty"`
	SortBy    *string `json:"sortBy,omitempty"`
	SortOrder *string `json:"sortOrder,omitempty"`
	Featured  *string `json:"featured,omitempty"`
}

// Empty reports whether the patch sets nothing.
func (p FilterPatch) Empty() bool {
	return p == FilterPatch{}
}

// Merge returns f with every non-nil patch field applied.
func (f Filters) Merge(p FilterPatch) Filters {
	apply := func(dst, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	apply(&f.Category, p.Category)
	apply(&f.MinPrice, p.MinPrice)
	apply(&f.MaxPrice, p.MaxPrice)
	apply(&f.InStock, p.InStock)
	apply(&f.Search, p.Search)
	apply(&f.SortBy, p.SortBy)
	apply(&f.SortOrder, p.SortOrder)
	apply(&f.Featured, p.Featured)
	return f
}

// Params returns the non-empty filter entries in declaration order.
func (f Filters) Params() query.Params {
	return query.Params{}.
		Add("category", f.Category).
		Add("minPrice", f.MinPrice).
		Add("maxPrice", f.MaxPrice).
		Add("inStock", f.InStock).
		Add("search", f.Search).
		Add("sortBy", f.SortBy).
		Add("sortOrder", f.SortOrder).
		Add("featured", f.Featured)
}

// ListParams is the product list query: filters, then page and limit.
func (f Filters) ListParams(page, limit int) query.Params {
	return append(f.Params(),
		query.Param{Key: "page", Value: strconv.Itoa(page)},
		query.Param{Key: "limit", Value: strconv.Itoa(limit)},
	)
}

// SearchParams is the search query. The text travels as q, so the filter's
// own search key is left out.
func (f Filters) SearchParams(text string, page, limit int) query.Params {
	params := query.Params{{Key: "q", Value: text}}
	for _, p := range f.Params() {
		if p.Key == "search" {
			continue
		}
		params = append(params, p)
	}
	return append(params,
		query.Param{Key: "page", Value: strconv.Itoa(page)},
		query.Param{Key: "limit", Value: strconv.Itoa(limit)},
	)
}
