package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/paginate"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/store"
)

// Defaults applied to user list queries.
const (
	defaultPerPage = 10
	defaultSortBy  = "updated_at"
)

// GetUserService retrieves users: a single record by public identifier, or
// the active set with sorting and optional pagination.
type GetUserService struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewGetUserService creates a GetUserService.
func NewGetUserService(users store.UserStore, log *slog.Logger) *GetUserService {
	if log == nil {
		log = slog.Default()
	}
	return &GetUserService{
		users:  users,
		logger: log.With(slog.String("component", "get_user_service")),
	}
}

var _ pipeline.Service = (*GetUserService)(nil)

// Process implements pipeline.Service.
func (s *GetUserService) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, err := inputAs[*GetUserInput](input)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	users := s.users.WithTx(tx)

	// Single-record lookup by public identifier.
	if in.UserPublicID != "" {
		publicID, err := uuid.Parse(in.UserPublicID)
		if err != nil {
			return pipeline.NotFound("User not found")
		}

		user, err := users.GetByPublicID(ctx, publicID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				return pipeline.NotFound("User not found")
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		res.Data = user.Profile()
		res.Message = "User successfully fetched."
		return nil
	}

	params := store.ListUsersParams{
		SortBy:  in.SortBy,
		SortDir: store.SortDesc,
	}
	if params.SortBy == "" {
		params.SortBy = defaultSortBy
	}
	if in.SortDir == "asc" {
		params.SortDir = store.SortAsc
	}

	perPage := in.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	page := in.Page
	if page < 1 {
		page = 1
	}

	if in.WithPagination {
		params.Limit, params.Offset = paginate.LimitOffset(perPage, page)
	}

	list, total, err := users.List(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	payload := &UserListPayload{Users: make([]domain.Profile, 0, len(list))}
	for i := range list {
		payload.Users = append(payload.Users, list[i].Profile())
	}

	if in.WithPagination {
		descriptor := paginate.NewDescriptor(in.BaseURL, perPage, page, total)
		payload.Pagination = &descriptor
	}

	log.Debug("users fetched",
		slog.Int("count", len(payload.Users)),
		slog.Int64("total", total))

	res.Data = payload
	res.Message = "User successfully fetched."
	return nil
}
