package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"storefront/config"
	"storefront/models"
	"storefront/routes"
)

var (
	app     *routes.App
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		cfg := config.LoadConfig()
		cfg.AppEnv = "production"

		logger, err := config.NewLogger(cfg)
		if err != nil {
			logger = zap.NewNop()
		}
		app, initErr = routes.NewApp(context.Background(), cfg, logger)
		if initErr != nil {
			logger.Error("Failed to initialise", zap.Error(initErr))
		}
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(models.ErrorResponse{
			Success: false,
			Message: "Service unavailable",
			Error:   initErr.Error(),
		})
		return
	}
	app.Router.ServeHTTP(w, r)
}
