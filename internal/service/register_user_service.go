package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/modulith/modulith/internal/audit"
	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/pipeline"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/service/auth"
	"github.com/modulith/modulith/internal/store"
)

// RegisterUserService creates a new user account. The created user's audit
// fields are stamped through the auditor: version 0, a fresh public
// identifier, and the acting user (if any) as creator.
type RegisterUserService struct {
	users   store.UserStore
	hasher  auth.PasswordHasher
	auditor *audit.Auditor
	logger  *slog.Logger
}

// NewRegisterUserService creates a RegisterUserService.
func NewRegisterUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	auditor *audit.Auditor,
	log *slog.Logger,
) *RegisterUserService {
	if log == nil {
		log = slog.Default()
	}
	return &RegisterUserService{
		users:   users,
		hasher:  hasher,
		auditor: auditor,
		logger:  log.With(slog.String("component", "register_user_service")),
	}
}

var _ pipeline.Service = (*RegisterUserService)(nil)

// Process implements pipeline.Service. A duplicate email fails as a
// validation fault with a field error, and the transaction rollback
// guarantees no record is left behind.
func (s *RegisterUserService) Process(ctx context.Context, tx *sql.Tx, input any, res *pipeline.Result) error {
	in, err := inputAs[*RegisterUserInput](input)
	if err != nil {
		return err
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	users := s.users.WithTx(tx)

	user, err := domain.NewUser(in.Name, in.Email, in.Password)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	user.HashedPassword, err = s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = ""

	s.auditor.PrepareCreate(user, in.Actor)

	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration attempt with taken email")
			return emailTakenFault()
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered",
		slog.String("public_id", user.PublicID.String()))

	res.StatusCode = http.StatusCreated
	res.Data = user.Profile()
	res.Message = "User registered successfully."
	return nil
}

func emailTakenFault() *pipeline.Fault {
	return pipeline.Validation("The given data was invalid.", map[string][]string{
		"email": {"The email has already been taken."},
	})
}
