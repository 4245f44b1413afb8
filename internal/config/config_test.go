package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining-storefront/internal/gateway"
)

var envKeys = []string{
	"APP_MODE", "HTTP_ADDR", "API_BASE_URL", "BACKEND_HOST", "REQUEST_TIMEOUT",
	"PRODUCT_PAGE_SIZE", "TOKEN_STORE", "TOKEN_FILE", "TOKEN_SECRET", "REDIS_ADDR",
	"REDIS_PASS", "DATABASE_URL", "WORKSPACE_COOKIE", "WORKSPACE_IDLE_TTL",
	"COOKIE_SECURE", "CORS_ORIGINS", "RATE_LIMIT_STORE", "SHUTDOWN_TIMEOUT", "TOKEN_TTL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.True(t, cfg.DevProxy())
	assert.Equal(t, gateway.DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, gateway.DefaultBaseURL, cfg.BackendHost)
	assert.Equal(t, 12, cfg.ProductPageSize)
	assert.Equal(t, StoreMemory, cfg.TokenStore)
	assert.Equal(t, "sf_ws", cfg.WorkspaceCookie)
	assert.Equal(t, 30*time.Minute, cfg.WorkspaceIdleTTL)
	assert.False(t, cfg.CookieSecure)
	assert.False(t, cfg.NeedsRedis())
}

func TestLoad_ProductionUsesRemoteBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_MODE", "production")
	t.Setenv("BACKEND_HOST", "http://localhost:5000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.DevProxy())
	assert.Equal(t, gateway.DefaultBaseURL, cfg.APIBaseURL)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_DevelopmentFollowsBackendHost(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_HOST", "http://localhost:5000/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_BASE_URL", "https://staging.example.com/")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("PRODUCT_PAGE_SIZE", "24")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("TOKEN_STORE", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://staging.example.com", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 24, cfg.ProductPageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.NeedsRedis())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"mode", map[string]string{"APP_MODE": "staging"}, "APP_MODE"},
		{"base url", map[string]string{"API_BASE_URL": "ftp://x"}, "API_BASE_URL"},
		{"page size", map[string]string{"PRODUCT_PAGE_SIZE": "0"}, "PRODUCT_PAGE_SIZE"},
		{"page size text", map[string]string{"PRODUCT_PAGE_SIZE": "many"}, "PRODUCT_PAGE_SIZE"},
		{"timeout", map[string]string{"REQUEST_TIMEOUT": "soon"}, "REQUEST_TIMEOUT"},
		{"token store", map[string]string{"TOKEN_STORE": "s3"}, "TOKEN_STORE"},
		{"file secret", map[string]string{"TOKEN_STORE": "file", "TOKEN_SECRET": "short"}, "TOKEN_SECRET"},
		{"postgres url", map[string]string{"TOKEN_STORE": "postgres"}, "DATABASE_URL"},
		{"rate limit store", map[string]string{"RATE_LIMIT_STORE": "file"}, "RATE_LIMIT_STORE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
