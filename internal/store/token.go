package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TokenStore tracks revoked token IDs (JWT "jti" claims). Tokens are
// stateless; revocation is a denylist consulted during authentication.
type TokenStore interface {
	// Revoke records the token ID as revoked until its natural expiry.
	// Revoking an already revoked token is a no-op.
	Revoke(ctx context.Context, tokenID uuid.UUID, userID int64, expiresAt time.Time) error

	// IsRevoked reports whether the token ID has been revoked.
	IsRevoked(ctx context.Context, tokenID uuid.UUID) (bool, error)

	// DeleteExpired removes denylist entries whose tokens have expired
	// anyway. Returns the number of entries removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)

	// WithTx returns a new TokenStore instance bound to the provided
	// transaction.
	WithTx(tx *sql.Tx) TokenStore
}
