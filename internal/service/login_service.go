package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// LoginService authenticates a user by email and password and issues an
// access/refresh token pair.
type LoginService struct {
	users    store.UserStore
	tokens   auth.TokenService
	verifier auth.PasswordVerifier
	logger   *slog.Logger
}

// NewLoginService creates a LoginService.
func NewLoginService(
	users store.UserStore,
	tokens auth.TokenService,
	verifier auth.PasswordVerifier,
	log *slog.Logger,
) *LoginService {
	if log == nil {
		log = slog.Default()
	}
	return &LoginService{
		users:    users,
		tokens:   tokens,
		verifier: verifier,
		logger:   log.With(slog.String("component", "login_service")),
	}
}

var _ pipeline.Service = (*LoginService)(nil)

// Process implements pipeline.Service. Unknown emails, inactive accounts and
// wrong passwords all fail with the same unauthorized message so the
// response does not reveal which part was wrong.
func (s *LoginService) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, err := inputAs[*LoginInput](input)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	users := s.users.WithTx(tx)

	user, err := users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login attempt for unknown email")
			return pipeline.Unauthorized("Invalid credentials")
		}
		return fmt.Errorf("failed to look up user by email: %w", err)
	}

	if !user.IsActive {
		log.Debug("login attempt for inactive user",
			slog.String("public_id", user.PublicID.String()))
		return pipeline.Unauthorized("Invalid credentials")
	}

	if err := s.verifier.Compare(user.HashedPassword, in.Password); err != nil {
		log.Debug("login attempt with wrong password",
			slog.String("public_id", user.PublicID.String()))
		return pipeline.Unauthorized("Invalid credentials")
	}

	accessToken, err := s.tokens.GenerateToken(ctx, user.PublicID)
	if err != nil {
		return fmt.Errorf("failed to generate access token: %w", err)
	}

	remember := in.Remember != nil && *in.Remember
	refreshToken, err := s.tokens.GenerateRefreshToken(ctx, user.PublicID, remember)
	if err != nil {
		return fmt.Errorf("failed to generate refresh token: %w", err)
	}

	log.Info("user logged in",
		slog.String("public_id", user.PublicID.String()))

	res.Data = &AuthPayload{
		User:         user.Profile(),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    auth.BearerTokenType,
	}
	res.Message = "User logged in successfully."
	return nil
}
