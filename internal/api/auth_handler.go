package api

import (
	"log/slog"
	"net/http"

	"github.com/modulith/modulith/internal/api/middleware"
	"github.com/modulith/modulith/internal/api/shared"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/service"
)

// AuthHandler handles authentication-related API requests. Each endpoint
// builds a service input from the request and hands it to the execution
// pipeline; the resulting envelope is translated directly into the response.
type AuthHandler struct {
	executor *pipeline.Executor
	login    *service.LoginService
	register *service.RegisterUserService
	logout   *service.LogoutService
	refresh  *service.RefreshTokenService
	logger   *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	executor *pipeline.Executor,
	login *service.LoginService,
	register *service.RegisterUserService,
	logout *service.LogoutService,
	refresh *service.RefreshTokenService,
	log *slog.Logger,
) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		executor: executor,
		login:    login,
		register: register,
		logout:   logout,
		refresh:  refresh,
		logger:   log.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterUserInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res := h.executor.Execute(r.Context(), h.register, &in)
	shared.RespondWithResult(w, r, res)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res := h.executor.Execute(r.Context(), h.login, &in)
	shared.RespondWithResult(w, r, res)
}

// Logout handles POST /api/auth/logout. The route uses the permissive auth
// middleware: an unauthenticated logout succeeds without doing anything.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	in := service.LogoutInput{Claims: middleware.GetClaims(r)}

	res := h.executor.Execute(r.Context(), h.logout, &in)
	shared.RespondWithResult(w, r, res)
}

// RefreshToken handles POST /api/auth/refresh.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var in service.RefreshTokenInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	res := h.executor.Execute(r.Context(), h.refresh, &in)
	shared.RespondWithResult(w, r, res)
}
