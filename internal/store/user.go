package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/modulith/modulith/internal/domain"
)

// SortDirection constrains the order of list results.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ListUsersParams controls sorting and paging for user list queries.
// A zero Limit means no paging: the whole active set is returned.
type ListUsersParams struct {
	SortBy  string
	SortDir SortDirection
	Limit   int
	Offset  int
}

// UserStore defines the interface for user data persistence.
// Queries operate on the active set: soft-deleted users are excluded
// unless a method documents otherwise.
type UserStore interface {
	// Create saves a new user to the store. The user's audit fields must
	// already be stamped by the audit component; the store assigns the
	// numeric ID. Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves an active user by their internal numeric ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByPublicID retrieves an active user by their public identifier.
	// Returns ErrUserNotFound if the user does not exist.
	GetByPublicID(ctx context.Context, publicID uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves an active user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns active users ordered and paged per params, plus the
	// total count of active users (ignoring paging).
	List(ctx context.Context, params ListUsersParams) ([]domain.User, int64, error)

	// Update persists the user's current field values, including audit
	// fields. The write is guarded by the previous version: it returns
	// ErrUpdateConflict when a concurrent writer already advanced it,
	// ErrUserNotFound if the user does not exist, and ErrEmailExists when
	// updating to an email already in use.
	Update(ctx context.Context, user *domain.User) error

	// FindIDByPublicID resolves a public identifier to the internal numeric
	// ID. Returns ErrUserNotFound when no user carries the identifier.
	FindIDByPublicID(ctx context.Context, publicID uuid.UUID) (int64, error)

	// FindPublicIDByID resolves an internal numeric ID to the public
	// identifier. Returns ErrUserNotFound when no user carries the ID.
	FindPublicIDByID(ctx context.Context, id int64) (uuid.UUID, error)

	// WithTx returns a new UserStore instance that uses the provided
	// transaction. This allows multiple operations to be executed within a
	// single transaction managed by the caller (typically the pipeline).
	WithTx(tx *sql.Tx) UserStore
}
