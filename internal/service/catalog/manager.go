// internal/service/catalog/manager.go
package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"mining-storefront/internal/domain/catalog"
	xerrors "mining-storefront/internal/pkg/errors"
	"mining-storefront/internal/pkg/observe"
	"mining-storefront/internal/pkg/query"
)

const (
	fetchFailedMessage   = "Failed to fetch products"
	searchFailedMessage  = "Search failed"
	productFailedMessage = "Failed to fetch product"
)

// ProductsAPI is the slice of the backend the catalog needs.
type ProductsAPI interface {
	List(ctx context.Context, params query.Params) (*catalog.ProductList, error)
	Search(ctx context.Context, params query.Params) (*catalog.ProductList, error)
	Get(ctx context.Context, id string) (*catalog.Product, error)
	Related(ctx context.Context, id string) ([]catalog.Product, error)
}

// CategoriesAPI lists categories.
type CategoriesAPI interface {
	List(ctx context.Context, params query.Params) ([]catalog.Category, error)
}

// Manager owns the product listing of one workspace.
//
// List and search requests are numbered. Starting one cancels the request
// before it, and a response is applied only if its number is still the
// latest, so the last request issued wins regardless of arrival order.
type Manager struct {
	products   ProductsAPI
	categories CategoriesAPI
	pageSize   int
	logger     *zap.Logger
	state      *observe.Store[catalog.State]

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewManager creates a manager. pageSize <= 0 means catalog.DefaultPageSize.
func NewManager(products ProductsAPI, categories CategoriesAPI, pageSize int, logger *zap.Logger) *Manager {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		products:   products,
		categories: categories,
		pageSize:   pageSize,
		logger:     logger,
		state:      observe.NewStore(catalog.InitialState()),
	}
}

// Init loads the category list once.
func (m *Manager) Init(ctx context.Context) error {
	return m.FetchCategories(ctx)
}

// Snapshot returns the current listing state.
func (m *Manager) Snapshot() catalog.State {
	return m.state.Get()
}

// Subscribe registers fn for every listing change.
func (m *Manager) Subscribe(fn func(catalog.State)) (unsubscribe func()) {
	return m.state.Subscribe(fn)
}

// FetchCategories loads the active categories. A failure leaves the current
// list in place.
func (m *Manager) FetchCategories(ctx context.Context) error {
	cats, err := m.categories.List(ctx, query.Params{}.Add("activeOnly", "true"))
	if err != nil {
		m.logger.Warn("failed to fetch categories", zap.Error(err))
		return err
	}
	if cats == nil {
		return nil
	}
	m.state.Update(func(s catalog.State) (catalog.State, bool) {
		s.Categories = cats
		return s, true
	})
	return nil
}

// FetchProducts loads one page using the current filters.
func (m *Manager) FetchProducts(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	filters := m.state.Get().Filters
	params := filters.ListParams(page, m.pageSize)

	return m.run(ctx, fetchFailedMessage, func(ctx context.Context) (*catalog.ProductList, error) {
		return m.products.List(ctx, params)
	})
}

// SearchProductsWithFilters runs a text search within the current filters.
// The text becomes the search filter, so a later FetchProducts keeps it.
func (m *Manager) SearchProductsWithFilters(ctx context.Context, text string, page int) error {
	if page < 1 {
		page = 1
	}
	var filters catalog.Filters
	m.state.Update(func(s catalog.State) (catalog.State, bool) {
		s.Filters.Search = text
		s.Query = text
		filters = s.Filters
		return s, true
	})
	params := filters.SearchParams(text, page, m.pageSize)

	return m.run(ctx, searchFailedMessage, func(ctx context.Context) (*catalog.ProductList, error) {
		return m.products.Search(ctx, params)
	})
}

// run performs one numbered list request and applies its outcome.
func (m *Manager) run(ctx context.Context, fallback string, call func(context.Context) (*catalog.ProductList, error)) error {
	seq, reqCtx, done := m.begin(ctx)
	defer done()

	m.state.Update(func(s catalog.State) (catalog.State, bool) {
		s.Loading = true
		s.Error = ""
		return s, true
	})

	resp, err := call(reqCtx)

	// The caller gave up: clear loading, keep Error as it was.
	if err != nil && ctx.Err() != nil {
		m.commit(seq, func(s catalog.State) catalog.State {
			s.Loading = false
			return s
		})
		return ctx.Err()
	}

	var failure string
	switch {
	case err != nil:
		failure = xerrors.MessageOrDefault(err, fallback)
	case resp.Products == nil:
		failure = resp.Message
		if failure == "" {
			failure = fallback
		}
	}

	applied := m.commit(seq, func(s catalog.State) catalog.State {
		s.Loading = false
		if failure != "" {
			s.Error = failure
			return s
		}
		s.Products = resp.Products
		if resp.Pagination != nil {
			s.Pagination = *resp.Pagination
		}
		return s
	})
	if !applied {
		m.logger.Debug("discarding superseded catalog response", zap.Uint64("seq", seq))
		return xerrors.ErrStaleResponse
	}
	if err != nil {
		return err
	}
	if failure != "" {
		return &listError{message: failure}
	}
	return nil
}

// begin numbers a new request and cancels the one in flight.
func (m *Manager) begin(ctx context.Context) (uint64, context.Context, func()) {
	reqCtx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
	}
	m.seq++
	seq := m.seq
	m.cancel = cancel
	m.mu.Unlock()

	return seq, reqCtx, func() {
		m.mu.Lock()
		if m.seq == seq {
			m.cancel = nil
		}
		m.mu.Unlock()
		cancel()
	}
}

// commit applies fn only if seq is still the latest request. The check runs
// inside the store update so a newer commit always lands after it.
func (m *Manager) commit(seq uint64, fn func(catalog.State) catalog.State) bool {
	return m.state.Update(func(s catalog.State) (catalog.State, bool) {
		if seq != m.latest() {
			return s, false
		}
		return fn(s), true
	})
}

func (m *Manager) latest() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// FetchProductByID loads one product. It does not touch the listing.
func (m *Manager) FetchProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	p, err := m.products.Get(ctx, id)
	if err != nil {
		return nil, &listError{message: xerrors.MessageOrDefault(err, productFailedMessage), cause: err}
	}
	return p, nil
}

// FetchRelatedProducts loads products related to id. Failures yield an empty
// list alongside the error.
func (m *Manager) FetchRelatedProducts(ctx context.Context, id string) ([]catalog.Product, error) {
	related, err := m.products.Related(ctx, id)
	if err != nil {
		m.logger.Debug("related products unavailable", zap.String("product_id", id), zap.Error(err))
		return []catalog.Product{}, err
	}
	if related == nil {
		related = []catalog.Product{}
	}
	return related, nil
}

// UpdateFilters merges patch into the filters. Nothing is fetched.
func (m *Manager) UpdateFilters(patch catalog.FilterPatch) catalog.Filters {
	var out catalog.Filters
	m.state.Update(func(s catalog.State) (catalog.State, bool) {
		next := s.Filters.Merge(patch)
		out = next
		if next == s.Filters {
			return s, false
		}
		s.Filters = next
		return s, true
	})
	return out
}

// ResetFilters restores the default filters. Nothing is fetched.
func (m *Manager) ResetFilters() {
	m.state.Update(func(s catalog.State) (catalog.State, bool) {
		if s.Filters == catalog.DefaultFilters() && s.Query == "" {
			return s, false
		}
		s.Filters = catalog.DefaultFilters()
		s.Query = ""
		return s, true
	})
}

// listError is a failure the backend reported without an HTTP error.
type listError struct {
	message string
	cause   error
}

func (e *listError) Error() string       { return e.message }
func (e *listError) UserMessage() string { return e.message }
func (e *listError) Unwrap() error       { return e.cause }
