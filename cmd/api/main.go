// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mining-storefront/internal/app"
	"mining-storefront/internal/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("[MAIN] No .env file found, relying on system env vars")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[MAIN] invalid configuration: %v", err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("[MAIN] failed to build logger: %v", err)
	}
	defer logger.Sync()

	srv := app.NewServer(cfg, logger)
	if err := srv.Setup(); err != nil {
		logger.Fatal("server setup failed", zap.Error(err))
	}

	// Run server in a separate goroutine so we can listen for shutdown signals
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped unexpectedly", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		return
	}
	logger.Info("server stopped gracefully")
}
