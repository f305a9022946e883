package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/store"
)

// PostgreSQL error codes
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
)

// userColumns is the select list shared by every user query.
const userColumns = `id, public_id, name, email, hashed_password, is_active, version,
	created_by, updated_by, deleted_by, created_at, updated_at, deleted_at`

// userSortColumns whitelists the columns list queries may sort by.
var userSortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"version":    "version",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend.
type UserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, a default logger
// will be used.
func NewUserStore(db store.DBTX, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *UserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &UserStore{db: tx, logger: s.logger}
}

// isUniqueViolation checks if the given error is a PostgreSQL unique
// constraint violation, such as a duplicate email address.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolationCode
}

// Create implements store.UserStore.Create
// Audit fields must already be stamped; the database assigns the numeric ID.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO users (public_id, name, email, hashed_password, is_active, version,
			created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		user.PublicID,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.Version,
		user.CreatedBy,
		user.UpdatedBy,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("duplicate email during user creation",
				slog.String("email", user.Email))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("public_id", user.PublicID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("public_id", user.PublicID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE id = $1 AND deleted_at IS NULL`, userColumns)
	return s.getOne(ctx, query, id)
}

// GetByPublicID implements store.UserStore.GetByPublicID
func (s *UserStore) GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE public_id = $1 AND deleted_at IS NULL`, userColumns)
	return s.getOne(ctx, query, publicID)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE lower(email) = lower($1) AND deleted_at IS NULL`, userColumns)
	return s.getOne(ctx, query, email)
}

func (s *UserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := scanUser(s.db.QueryRowContext(ctx, query, arg), &user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()))
		return nil, err
	}

	return &user, nil
}

// List implements store.UserStore.List
// Results exclude soft-deleted users. The sort column is validated against
// a whitelist; unknown columns fall back to updated_at.
func (s *UserStore) List(ctx context.Context, params store.ListUsersParams) ([]domain.User, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	sortBy, ok := userSortColumns[params.SortBy]
	if !ok {
		sortBy = "updated_at"
	}
	dir := "DESC"
	if params.SortDir == store.SortAsc {
		dir = "ASC"
	}

	var total int64
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM users WHERE deleted_at IS NULL`).Scan(&total)
	if err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT %s FROM users WHERE deleted_at IS NULL ORDER BY %s %s`,
		userColumns, sortBy, dir)

	var args []any
	if params.Limit > 0 {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, params.Limit, params.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, 0, err
	}
	defer func() { _ = rows.Close() }()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update implements store.UserStore.Update
// The caller is responsible for version bumping and audit stamping. The
// statement is guarded by the previous version, so a write that lost a race
// to a concurrent writer fails with store.ErrUpdateConflict.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE users
		SET name = $1, email = $2, hashed_password = $3, is_active = $4, version = $5,
			updated_by = $6, deleted_by = $7, updated_at = $8, deleted_at = $9
		WHERE id = $10 AND version = $11
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		user.Name,
		user.Email,
		user.HashedPassword,
		user.IsActive,
		user.Version,
		user.UpdatedBy,
		user.DeletedBy,
		user.UpdatedAt,
		user.DeletedAt,
		user.ID,
		user.Version-1,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", user.ID))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", store.ErrUpdateFailed, err)
	}
	if affected == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, user.ID).Scan(&exists); err != nil {
			return err
		}
		if exists {
			log.Warn("optimistic lock conflict during user update",
				slog.Int64("user_id", user.ID),
				slog.Int64("version", user.Version))
			return store.ErrUpdateConflict
		}
		return store.ErrUserNotFound
	}

	log.Debug("user updated successfully",
		slog.Int64("user_id", user.ID),
		slog.Int64("version", user.Version))
	return nil
}

// FindIDByPublicID implements store.UserStore.FindIDByPublicID
// Unlike the Get methods it does not filter soft-deleted users: identifier
// mappings remain resolvable for the lifetime of the row.
func (s *UserStore) FindIDByPublicID(ctx context.Context, publicID uuid.UUID) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id FROM users WHERE public_id = $1`, publicID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrUserNotFound
		}
		return 0, err
	}
	return id, nil
}

// FindPublicIDByID implements store.UserStore.FindPublicIDByID
func (s *UserStore) FindPublicIDByID(ctx context.Context, id int64) (uuid.UUID, error) {
	var publicID uuid.UUID
	err := s.db.QueryRowContext(ctx,
		`SELECT public_id FROM users WHERE id = $1`, id).Scan(&publicID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, store.ErrUserNotFound
		}
		return uuid.Nil, err
	}
	return publicID, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, user *domain.User) error {
	return row.Scan(
		&user.ID,
		&user.PublicID,
		&user.Name,
		&user.Email,
		&user.HashedPassword,
		&user.IsActive,
		&user.Version,
		&user.CreatedBy,
		&user.UpdatedBy,
		&user.DeletedBy,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
}
