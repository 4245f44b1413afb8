// internal/app/server.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"mining-storefront/internal/config"
	"mining-storefront/internal/db"
	"mining-storefront/internal/gateway"
	accountHandler "mining-storefront/internal/handlers/account"
	adminHandler "mining-storefront/internal/handlers/admin"
	catalogHandler "mining-storefront/internal/handlers/catalog"
	contentHandler "mining-storefront/internal/handlers/content"
	sessionHandler "mining-storefront/internal/handlers/session"
	wsHandler "mining-storefront/internal/handlers/websocket"
	"mining-storefront/internal/middleware"
	"mining-storefront/internal/pkg/jwt"
	"mining-storefront/internal/pkg/ratelimit"
	"mining-storefront/internal/service/workspace"
	"mining-storefront/internal/tokenstore"
	"mining-storefront/internal/websocket"
	wsHandlers "mining-storefront/internal/websocket/handler"
)

const (
	tokenKeyPrefix     = "storefront:"
	rateLimitKeyPrefix = "storefront:ratelimit:"
	tokenExpiryLeeway  = 30 * time.Second
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	http   *http.Server

	// cleanup runs in reverse order on Shutdown
	cleanup []func()
	cancel  context.CancelFunc
}

func NewServer(cfg config.AppConfig, logger *zap.Logger) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return &Server{cfg: cfg, engine: gin.New(), logger: logger}
}

// Setup connects the stores and wires every component. It must run before
// Start.
func (s *Server) Setup() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	// ----- Redis -----
	var redisClient *redis.Client
	if s.cfg.NeedsRedis() {
		client, err := db.NewRedisClient(ctx, db.RedisConfig{
			Address:  s.cfg.RedisAddr,
			Password: s.cfg.RedisPass,
			PoolSize: 10,
		})
		if err != nil {
			return err
		}
		redisClient = client
		s.onShutdown(func() { _ = redisClient.Close() })
		s.logger.Info("connected to redis", zap.String("addr", s.cfg.RedisAddr))
	}

	// ----- Token store -----
	tokens, err := s.tokenBackend(ctx, redisClient)
	if err != nil {
		return err
	}
	s.onShutdown(func() { _ = tokens.Close() })

	// ----- Rate limiter -----
	var counter ratelimit.Counter = ratelimit.NewMemory()
	if s.cfg.RateLimitStore == config.StoreRedis {
		counter = ratelimit.NewRedis(redisClient, rateLimitKeyPrefix)
	}
	limiter := ratelimit.NewLimiter(counter)

	// ----- Backend gateway -----
	client := gateway.NewClient(
		gateway.WithBaseURL(s.cfg.APIBaseURL),
		gateway.WithTimeout(s.cfg.RequestTimeout),
		gateway.WithLogger(s.logger.Named("gateway")),
	)

	// ----- Workspaces -----
	registry := workspace.NewRegistry(
		client,
		tokens,
		jwt.NewInspector(tokenExpiryLeeway),
		workspace.Config{
			PageSize: s.cfg.ProductPageSize,
			IdleTTL:  s.cfg.WorkspaceIdleTTL,
		},
		s.logger.Named("workspace"),
	)
	go registry.Run(ctx)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub(wsHandlers.NewFeed(registry), s.logger.Named("ws"))
	hub.RegisterHandler(wsHandlers.NewWorkspaceHandler(registry, s.logger.Named("ws")))
	registry.OnEvict(func(id string) {
		hub.DisconnectWorkspace(id, "workspace expired")
	})
	go hub.Run(ctx)

	// ----- Handlers -----
	handlers := &Handlers{
		SessionHandler: sessionHandler.NewSessionHandler(limiter, s.logger),
		CatalogHandler: catalogHandler.NewCatalogHandler(client.Products, client.Categories, s.logger),
		AccountHandler: accountHandler.NewAccountHandler(client, s.logger),
		ContentHandler: contentHandler.NewContentHandler(client, s.logger),
		AdminHandler:   adminHandler.NewAdminHandler(client, s.logger),
		WSHandler:      wsHandler.NewWebSocketHandler(hub, s.cfg.CORSOrigins, s.logger),
		Workspace: middleware.WorkspaceMiddleware(registry, middleware.CookieConfig{
			Name:   s.cfg.WorkspaceCookie,
			Secure: s.cfg.CookieSecure,
			MaxAge: s.cfg.TokenTTL,
		}),
		Health: func() gin.H {
			return gin.H{
				"mode":       s.cfg.Mode,
				"workspaces": registry.Len(),
				"ws_clients": hub.TotalClients(),
			}
		},
	}
	if s.cfg.DevProxy() {
		proxy, err := NewDevProxy(s.cfg.BackendHost, s.logger.Named("proxy"))
		if err != nil {
			return fmt.Errorf("invalid BACKEND_HOST: %w", err)
		}
		handlers.DevProxy = proxy
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(s.logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(s.logger),
		middleware.CORSMiddleware(s.cfg.CORSOrigins),
		middleware.MetricsMiddleware(),
	)

	SetupRouter(s.engine, s.logger, handlers)

	// ----- Start HTTP -----
	s.http = &http.Server{
		Addr:              s.cfg.HTTPAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}

// Handler returns the configured engine.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start serves HTTP until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server running",
		zap.String("addr", s.cfg.HTTPAddr),
		zap.String("mode", s.cfg.Mode),
		zap.String("backend", s.cfg.APIBaseURL),
		zap.String("token_store", s.cfg.TokenStore))

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones and releases
// the stores.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		err = s.http.Shutdown(ctx)
	}
	if s.cancel != nil {
		s.cancel()
	}
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
	return err
}

func (s *Server) onShutdown(fn func()) {
	s.cleanup = append(s.cleanup, fn)
}

func (s *Server) tokenBackend(ctx context.Context, redisClient *redis.Client) (tokenstore.Backend, error) {
	switch s.cfg.TokenStore {
	case config.StoreFile:
		store, err := tokenstore.NewFile(s.cfg.TokenFile, s.cfg.TokenSecret)
		if err != nil {
			return nil, fmt.Errorf("failed to open token file: %w", err)
		}
		return store, nil
	case config.StoreRedis:
		return tokenstore.NewRedis(redisClient, tokenKeyPrefix, s.cfg.TokenTTL), nil
	case config.StorePostgres:
		pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		s.onShutdown(pool.Close)
		store, err := tokenstore.NewPostgres(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare token table: %w", err)
		}
		s.logger.Info("connected to postgres")
		return store, nil
	default:
		return tokenstore.NewMemory(), nil
	}
}
