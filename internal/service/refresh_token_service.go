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
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// RefreshTokenService exchanges a valid refresh token for a new
// access/refresh pair. The old refresh token is revoked in the same
// transaction, so each refresh token can be used at most once.
type RefreshTokenService struct {
	users      store.UserStore
	tokenStore store.TokenStore
	tokens     auth.TokenService
	logger     *slog.Logger
}

// NewRefreshTokenService creates a RefreshTokenService.
func NewRefreshTokenService(
	users store.UserStore,
	tokenStore store.TokenStore,
	tokens auth.TokenService,
	log *slog.Logger,
) *RefreshTokenService {
	if log == nil {
		log = slog.Default()
	}
	return &RefreshTokenService{
		users:      users,
		tokenStore: tokenStore,
		tokens:     tokens,
		logger:     log.With(slog.String("component", "refresh_token_service")),
	}
}

var _ pipeline.Service = (*RefreshTokenService)(nil)

// Process implements pipeline.Service. Every failure short of an internal
// error surfaces as unauthorized: an expired, malformed, revoked or
// wrong-type token and an inactive or deleted user all mean the session
// cannot be continued.
func (s *RefreshTokenService) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, err := inputAs[*RefreshTokenInput](input)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateRefreshToken(ctx, in.RefreshToken)
	if err != nil {
		log.Debug("refresh token validation failed", slog.String("error", err.Error()))
		return pipeline.Unauthorized("Unauthenticated.")
	}

	tokenID := claims.TokenID()
	if tokenID == uuid.Nil {
		return pipeline.Unauthorized("Unauthenticated.")
	}

	tokenStore := s.tokenStore.WithTx(tx)
	revoked, err := tokenStore.IsRevoked(ctx, tokenID)
	if err != nil {
		return fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		log.Debug("attempted reuse of revoked refresh token",
			slog.String("token_id", tokenID.String()))
		return pipeline.Unauthorized("Unauthenticated.")
	}

	user, err := s.users.WithTx(tx).GetByPublicID(ctx, claims.UserPublicID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return pipeline.Unauthorized("Unauthenticated.")
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		return pipeline.Unauthorized("User account is inactive.")
	}

	// Rotate: the presented refresh token becomes unusable immediately.
	if err := tokenStore.Revoke(ctx, tokenID, user.ID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	accessToken, err := s.tokens.GenerateToken(ctx, user.PublicID)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(ctx, user.PublicID, claims.Remember)
	if err != nil {
		return fmt.Errorf("failed to generate refresh token: %w", err)
	}

	log.Info("token refreshed",
		slog.String("public_id", user.PublicID.String()))

	res.Data = &AuthPayload{
		User:         user.Profile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    auth.BearerTokenType,
	}
	res.Message = "Token refreshed successfully."
	return nil
}
