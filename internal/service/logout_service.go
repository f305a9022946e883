package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/store"
)

// LogoutService invalidates the caller's current access token by adding its
// ID to the revocation denylist. Logging out while already unauthenticated
// succeeds without doing anything.
type LogoutService struct {
	users  store.UserStore
	tokens store.TokenStore
	logger *slog.Logger
}

// NewLogoutService creates a LogoutService.
func NewLogoutService(users store.UserStore, tokens store.TokenStore, log *slog.Logger) *LogoutService {
	if log == nil {
		log = slog.Default()
	}
	return &LogoutService{
		users:  users,
		tokens: tokens,
		logger: log.With(slog.String("component", "logout_service")),
	}
}

var _ pipeline.Service = (*LogoutService)(nil)

// Process implements pipeline.Service.
func (s *LogoutService) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, err := inputAs[*LogoutInput](input)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	// Already logged out, nothing to do.
	if in.Claims == nil {
		res.Message = "User logged out successfully."
		return nil
	}

	tokenID := in.Claims.TokenID()
	if tokenID == uuid.Nil {
		res.Message = "User logged out successfully."
		return nil
	}

	userID, err := s.users.WithTx(tx).FindIDByPublicID(ctx, in.Claims.UserPublicID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// The token's user is gone; there is no session left to revoke.
			res.Message = "User logged out successfully."
			return nil
		}
		return fmt.Errorf("failed to resolve user id: %w", err)
	}

	if err := s.tokens.WithTx(tx).Revoke(ctx, tokenID, userID, in.Claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	log.Info("user logged out",
		slog.String("public_id", in.Claims.UserPublicID.String()),
		slog.String("token_id", tokenID.String()))

	res.Message = "User logged out successfully."
	return nil
}
