package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()

	assert.Equal(t, "createdAt", f.SortBy)
	assert.Equal(t, "desc", f.SortOrder)
	assert.Equal(t, "sortBy=createdAt&sortOrder=desc", f.Params().Encode())
}

func TestFilters_MergeIsShallow(t *testing.T) {
	f := DefaultFilters()
	f.Category = "c1"

	got := f.Merge(FilterPatch{MinPrice: ptr("100")})

	assert.Equal(t, "c1", got.Category)
	assert.Equal(t, "100", got.MinPrice)
	assert.Equal(t, "createdAt", got.SortBy)
	assert.Equal(t, "desc", got.SortOrder)
	assert.Empty(t, f.MinPrice, "receiver must not change")
}

func TestFilters_MergeCanClear(t *testing.T) {
	f := Filters{Category: "c1", SortBy: "price"}

	got := f.Merge(FilterPatch{Category: ptr("")})

	assert.Empty(t, got.Category)
	assert.Equal(t, "price", got.SortBy)
}

func TestFilterPatch_Empty(t *testing.T) {
	assert.True(t, FilterPatch{}.Empty())
	assert.False(t, FilterPatch{Featured: ptr("true")}.Empty())
}

func TestFilters_ListParams(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		page    int
		want    string
	}{
		{
			name:    "category and sort on page two",
			filters: Filters{Category: "c1", SortBy: "price", SortOrder: "asc"},
			page:    2,
			want:    "category=c1&sortBy=price&sortOrder=asc&page=2&limit=12",
		},
		{
			name:    "defaults",
			filters: DefaultFilters(),
			page:    1,
			want:    "sortBy=createdAt&sortOrder=desc&page=1&limit=12",
		},
		{
			name:    "zero is a value",
			filters: Filters{MinPrice: "0", InStock: "false"},
			page:    1,
			want:    "minPrice=0&inStock=false&page=1&limit=12",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filters.ListParams(tt.page, DefaultPageSize)
			assert.Equal(t, tt.want, got.Encode())
			for _, p := range got {
				assert.NotEmpty(t, p.Value, "key %s sent empty", p.Key)
			}
		})
	}
}

func TestFilters_SearchParamsDropsSearchKey(t *testing.T) {
	f := DefaultFilters()
	f.Search = "crusher"
	f.Category = "c2"

	got := f.SearchParams("crusher", 1, DefaultPageSize)

	assert.Equal(t, "q=crusher&category=c2&sortBy=createdAt&sortOrder=desc&page=1&limit=12", got.Encode())
	_, has := got.Get("search")
	assert.False(t, has)
}

func TestCategoryRef_Unmarshal(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","category":"c1"}`), &p))
	assert.Equal(t, "c1", p.Category.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"_id":"p1","category":{"_id":"c2","name":"Drills"}}`), &p))
	assert.Equal(t, CategoryRef{ID: "c2", Name: "Drills"}, p.Category)
}

func TestProduct_EffectivePrice(t *testing.T) {
	sale := 80.0
	p := Product{Price: 100, SalePrice: &sale}
	assert.Equal(t, 80.0, p.EffectivePrice())

	p.SalePrice = nil
	assert.Equal(t, 100.0, p.EffectivePrice())
}
