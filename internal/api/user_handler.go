package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/modulith/modulith/internal/api/middleware"
	"github.com/modulith/modulith/internal/api/shared"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/service"
)

// UserHandler handles user retrieval API requests.
type UserHandler struct {
	executor *pipeline.Executor
	getUser  *service.GetUserService
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler with the given dependencies.
func NewUserHandler(executor *pipeline.Executor, getUser *service.GetUserService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		executor: executor,
		getUser:  getUser,
		logger:   log.With(slog.String("component", "user_handler")),
	}
}

// GetUsers handles GET /api/users. Query parameters: user_uuid for a single
// record, sort_by/sort_type for ordering, with_pagination plus
// per_page/page_number for paging.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	in := service.GetUserInput{
		UserPublicID:   q.Get("user_uuid"),
		SortBy:         q.Get("sort_by"),
		SortDir:        q.Get("sort_type"),
		WithPagination: q.Get("with_pagination") == "true",
		PerPage:        intQuery(q.Get("per_page")),
		Page:           intQuery(q.Get("page_number")),
		BaseURL:        shared.BaseURL(r),
	}

	res := h.executor.Execute(r.Context(), h.getUser, &in)
	shared.RespondWithResult(w, r, res)
}

// GetCurrentUser handles GET /api/users/me, resolving the authenticated
// caller's own profile.
func (h *UserHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaims(r)
	if claims == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Unauthenticated")
		return
	}

	in := service.GetUserInput{
		UserPublicID: claims.UserPublicID.String(),
		BaseURL:      shared.BaseURL(r),
	}

	res := h.executor.Execute(r.Context(), h.getUser, &in)
	shared.RespondWithResult(w, r, res)
}

func intQuery(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
