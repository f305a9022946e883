package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/modulith/modulith/internal/platform/logger"
	"github.com/modulith/modulith/internal/store"
)

// TokenStore implements the store.TokenStore interface using a PostgreSQL
// table as the revocation denylist.
type TokenStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTokenStore creates a new PostgreSQL implementation of the TokenStore
// interface. If logger is nil, a default logger will be used.
func NewTokenStore(db store.DBTX, logger *slog.Logger) *TokenStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TokenStore{
		db:     db,
		logger: logger.With(slog.String("component", "token_store")),
	}
}

// Ensure TokenStore implements store.TokenStore interface
var _ store.TokenStore = (*TokenStore)(nil)

// WithTx implements store.TokenStore.WithTx
func (s *TokenStore) WithTx(tx *sql.Tx) store.TokenStore {
	return &TokenStore{db: tx, logger: s.logger}
}

// Revoke implements store.TokenStore.Revoke
// Re-revoking the same token ID is a no-op.
func (s *TokenStore) Revoke(ctx context.Context, tokenID uuid.UUID, userID int64, expiresAt time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO revoked_tokens (token_id, user_id, expires_at, revoked_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (token_id) DO NOTHING
	`
	_, err := s.db.ExecContext(ctx, query, tokenID, userID, expiresAt)
	if err != nil {
		log.Error("failed to revoke token",
			slog.String("error", err.Error()),
			slog.String("token_id", tokenID.String()))
		return err
	}

	log.Debug("token revoked",
		slog.String("token_id", tokenID.String()),
		slog.Int64("user_id", userID))
	return nil
}

// IsRevoked implements store.TokenStore.IsRevoked
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`,
		tokenID).Scan(&revoked)
	if err != nil {
		return false, err
	}
	return revoked, nil
}

// DeleteExpired implements store.TokenStore.DeleteExpired
func (s *TokenStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		log.Error("failed to delete expired token records",
			slog.String("error", err.Error()))
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	if affected > 0 {
		log.Info("expired token records removed", slog.Int64("count", affected))
	}
	return affected, nil
}
