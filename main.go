package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"storefront/config"
	_ "storefront/docs"
	"storefront/repositories"
	"storefront/routes"
)

// @title Storefront API
// @version 1.0
// @description Session gateway between the storefront app and PayloadCMS.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.LoadConfig()

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if missing := cfg.Missing(); len(missing) > 0 {
		logger.Warn("Missing configuration", zap.String("keys", strings.Join(missing, ", ")))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := routes.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to start", zap.Error(err))
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.String("local_store", cfg.LocalStore),
			zap.String("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if pg, ok := app.Store.(*repositories.PostgresStore); ok {
		g.Go(func() error {
			purgeExpired(gctx, pg, logger)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped", zap.Error(err))
	}
}

// purgeExpired drops expired rows; redis and memory expire keys themselves.
func purgeExpired(ctx context.Context, store *repositories.PostgresStore, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("Purging expired keys failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("Purged expired keys", zap.Int64("count", n))
			}
		}
	}
}
