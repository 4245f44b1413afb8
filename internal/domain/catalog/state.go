// internal/domain/catalog/state.go
package catalog

// State is the catalog listing a workspace is looking at.
type State struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
	Loading    bool       `json:"loading"`
	Error      string     `json:"error,omitempty"`
	Pagination Pagination `json:"pagination"`
	Filters    Filters    `json:"filters"`
	Query      string     `json:"query,omitempty"`
}

// InitialState is the listing before anything was fetched.
func InitialState() State {
	return State{
		Products:   []Product{},
		Categories: []Category{},
		Pagination: InitialPagination(),
		Filters:    DefaultFilters(),
	}
}
