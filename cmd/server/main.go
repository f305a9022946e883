// Package main implements the entry point for the modulith API server,
// a modular monolith exposing authentication and user management over HTTP.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/modulith/modulith/internal/config"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/platform/postgres"
)

func main() {
	ctx := context.Background()

	app, err := initializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs pending migrations and wires the application graph.
func initializeApp(ctx context.Context) (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"env", cfg.Server.Env)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return nil, err
	}

	if err := postgres.Migrate(ctx, db); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			appLogger.Error("Failed to close database after migration error", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			appLogger.Error("Failed to close database after init error", "error", closeErr)
		}
		return nil, err
	}

	return app, nil
}
