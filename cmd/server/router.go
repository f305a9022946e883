package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/modulith/modulith/internal/api"
	apimiddleware "github.com/modulith/modulith/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware and returns it.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.executor,
		app.loginService,
		app.registerUserService,
		app.logoutService,
		app.refreshTokenService,
		app.logger,
	)
	userHandler := api.NewUserHandler(app.executor, app.getUserService, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.tokenService, app.tokenStore)

	r.Route("/api", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Logout accepts requests without a valid token so a client with an
		// expired session can still log out cleanly.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Allow)
			r.Post("/auth/logout", authHandler.Logout)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Get("/users", userHandler.GetUsers)
			r.Get("/users/me", userHandler.GetCurrentUser)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
