// internal/gateway/client.go

// Package gateway is the client for the storefront REST backend.
//
// Every method performs exactly one HTTP call and returns the parsed JSON body
// or a *Error. Calls that need a user carry the bearer token as an explicit
// argument; the gateway holds no session state.
package gateway

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the production backend.
	DefaultBaseURL = "https://mining-equipment-backend.onrender.com"
	// DefaultTimeout bounds a single backend call.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent identifies the edge to the backend.
	DefaultUserAgent = "mining-storefront/1.0"
)

// Client is the backend API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	userAgent  string

	Auth       *AuthService
	Products   *ProductsService
	Categories *CategoriesService
	Users      *UsersService
	Orders     *OrdersService
	Quotes     *QuotesService
	Invoices   *InvoicesService
	Blog       *BlogService
	Settings   *SettingsService
	Emails     *EmailsService
	Contact    *ContactService
	Admin      *AdminService
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets the backend origin, e.g. http://localhost:5000.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// WithLogger sets the logger used for call tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a backend client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:    zap.NewNop(),
		userAgent: DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.Products = &ProductsService{client: c}
	c.Categories = &CategoriesService{client: c}
	c.Users = &UsersService{client: c}
	c.Orders = &OrdersService{client: c}
	c.Quotes = &QuotesService{client: c}
	c.Invoices = &InvoicesService{client: c}
	c.Blog = &BlogService{client: c}
	c.Settings = &SettingsService{client: c}
	c.Emails = &EmailsService{client: c}
	c.Contact = &ContactService{client: c}
	c.Admin = &AdminService{client: c}

	return c
}

// BaseURL returns the backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}
