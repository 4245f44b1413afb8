// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"mining-storefront/internal/domain/catalog"
	"mining-storefront/internal/gateway"
)

const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// Token store backends.
const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type AppConfig struct {
	// Server
	Mode            string
	HTTPAddr        string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Backend
	APIBaseURL      string
	BackendHost     string
	RequestTimeout  time.Duration
	ProductPageSize int

	// Token storage
	TokenStore  string
	TokenFile   string
	TokenSecret string
	TokenTTL    time.Duration
	RedisAddr   string
	RedisPass   string
	DatabaseURL string

	// Rate limiting: memory or redis
	RateLimitStore string

	// Workspaces
	WorkspaceCookie  string
	WorkspaceIdleTTL time.Duration
	CookieSecure     bool
}

// Load loads environment variables into AppConfig.
func Load() (AppConfig, error) {
	mode := strings.ToLower(getEnv("APP_MODE", ModeDevelopment))
	backendHost := strings.TrimRight(getEnv("BACKEND_HOST", gateway.DefaultBaseURL), "/")

	cfg := AppConfig{
		Mode:        mode,
		HTTPAddr:    getEnv("HTTP_ADDR", ":8000"),
		CORSOrigins: getEnvSlice("CORS_ORIGINS", []string{"http://localhost:5173"}),

		APIBaseURL:  strings.TrimRight(getEnv("API_BASE_URL", defaultBaseURL(mode, backendHost)), "/"),
		BackendHost: backendHost,

		TokenStore:  strings.ToLower(getEnv("TOKEN_STORE", StoreMemory)),
		TokenFile:   getEnv("TOKEN_FILE", "data/tokens.json"),
		TokenSecret: getEnv("TOKEN_SECRET", ""),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:   getEnv("REDIS_PASS", ""),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		RateLimitStore: strings.ToLower(getEnv("RATE_LIMIT_STORE", StoreMemory)),

		WorkspaceCookie: getEnv("WORKSPACE_COOKIE", "sf_ws"),
		CookieSecure:    strings.ToLower(getEnv("COOKIE_SECURE", strconv.FormatBool(mode == ModeProduction))) == "true",
	}

	var errs []error
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", gateway.DefaultTimeout, &errs)
	cfg.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second, &errs)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 30*24*time.Hour, &errs)
	cfg.WorkspaceIdleTTL = getEnvDuration("WORKSPACE_IDLE_TTL", 30*time.Minute, &errs)
	cfg.ProductPageSize = getEnvInt("PRODUCT_PAGE_SIZE", catalog.DefaultPageSize, &errs)

	errs = append(errs, cfg.validate()...)
	if err := errors.Join(errs...); err != nil {
		return AppConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether the edge runs in production mode.
func (c AppConfig) IsProduction() bool {
	return c.Mode == ModeProduction
}

// DevProxy reports whether /api/* is reverse-proxied to BackendHost.
func (c AppConfig) DevProxy() bool {
	return c.Mode == ModeDevelopment
}

func defaultBaseURL(mode, backendHost string) string {
	if mode == ModeDevelopment {
		return backendHost
	}
	return gateway.DefaultBaseURL
}

func (c AppConfig) validate() []error {
	var errs []error
	switch c.Mode {
	case ModeProduction, ModeDevelopment:
	default:
		errs = append(errs, fmt.Errorf("APP_MODE must be %s or %s, got %q", ModeProduction, ModeDevelopment, c.Mode))
	}
	for name, raw := range map[string]string{"API_BASE_URL": c.APIBaseURL, "BACKEND_HOST": c.BackendHost} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an http(s) URL, got %q", name, raw))
		}
	}
	if c.ProductPageSize < 1 {
		errs = append(errs, fmt.Errorf("PRODUCT_PAGE_SIZE must be positive, got %d", c.ProductPageSize))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.WorkspaceIdleTTL <= 0 {
		errs = append(errs, errors.New("WORKSPACE_IDLE_TTL must be positive"))
	}
	if c.WorkspaceCookie == "" {
		errs = append(errs, errors.New("WORKSPACE_COOKIE must not be empty"))
	}

	switch c.TokenStore {
	case StoreMemory, StoreRedis:
	case StoreFile:
		if len(c.TokenSecret) < 16 {
			errs = append(errs, errors.New("TOKEN_SECRET of at least 16 characters is required for the file token store"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres token store"))
		}
	default:
		errs = append(errs, fmt.Errorf("TOKEN_STORE must be memory, file, redis or postgres, got %q", c.TokenStore))
	}

	switch c.RateLimitStore {
	case StoreMemory, StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_STORE must be memory or redis, got %q", c.RateLimitStore))
	}
	return errs
}

// NeedsRedis reports whether any component stores data in Redis.
func (c AppConfig) NeedsRedis() bool {
	return c.TokenStore == StoreRedis || c.RateLimitStore == StoreRedis
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func getEnvInt(key string, fallback int, errs *[]error) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}
