package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/modulith/modulith/internal/audit"
	"github.com/modulith/modulith/internal/config"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/platform/postgres"
	"github.com/modulith/modulith/internal/service"
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// tokenSweepInterval controls how often expired revoked tokens are purged.
const tokenSweepInterval = time.Hour

// application holds the wired dependency graph for the server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore  store.UserStore
	tokenStore store.TokenStore

	// Core services
	executor     *pipeline.Executor
	tokenService auth.TokenService
	auditor      *audit.Auditor

	// Pipeline services
	loginService        *service.LoginService
	registerUserService *service.RegisterUserService
	logoutService       *service.LogoutService
	refreshTokenService *service.RefreshTokenService
	getUserService      *service.GetUserService

	// Background cleanup
	stopSweeper func()
}

// newApplication creates an application with all dependencies initialized.
// The configuration, logger and database connection must already be set up.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("Token service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes,
		"refresh_token_lifetime_minutes", cfg.Auth.RefreshTokenLifetimeMinutes,
		"remember_lifetime_minutes", cfg.Auth.RememberLifetimeMinutes)

	app.userStore = postgres.NewUserStore(db, logger)
	app.tokenStore = postgres.NewTokenStore(db, logger)

	app.executor = pipeline.NewExecutor(store.SQLRunner{DB: db}, logger, cfg.IsDevelopment())
	app.auditor = audit.New()

	verifier := auth.NewBcryptVerifier()

	app.loginService = service.NewLoginService(app.userStore, app.tokenService, verifier, logger)
	app.registerUserService = service.NewRegisterUserService(app.userStore, verifier, app.auditor, logger)
	app.logoutService = service.NewLogoutService(app.userStore, app.tokenStore, logger)
	app.refreshTokenService = service.NewRefreshTokenService(app.userStore, app.tokenStore, app.tokenService, logger)
	app.getUserService = service.NewGetUserService(app.userStore, logger)

	app.startTokenSweeper()

	return app, nil
}

// startTokenSweeper purges expired entries from the revocation denylist on a
// fixed interval so the table does not grow without bound.
func (app *application) startTokenSweeper() {
	ctx, cancel := context.WithCancel(context.Background())
	app.stopSweeper = cancel

	go func() {
		ticker := time.NewTicker(tokenSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				deleted, err := app.tokenStore.DeleteExpired(ctx, time.Now().UTC())
				if err != nil {
					app.logger.Error("Failed to delete expired revoked tokens", "error", err)
					continue
				}
				if deleted > 0 {
					app.logger.Info("Deleted expired revoked tokens", "count", deleted)
				}
			}
		}
	}()
}

// cleanup releases application resources. Safe to call once during shutdown.
func (app *application) cleanup() {
	if app.stopSweeper != nil {
		app.stopSweeper()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Failed to close database connection", "error", err)
		}
	}
}
