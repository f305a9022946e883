package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/stretchr/testify/require"

	"github.com/modulith/modulith/internal/audit"
	"github.com/modulith/modulith/internal/domain"
	"github.com/modulith/modulith/internal/platform/postgres"
)

var (
	setupOnce sync.Once
	setupErr  error
	testDB    *sql.DB
)

// sharedTestDB opens the database named by DATABASE_URL and applies
// migrations once for the package. Tests are skipped when the variable is
// unset so the suite stays runnable without a database.
func sharedTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set - skipping database tests")
	}

	setupOnce.Do(func() {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			setupErr = fmt.Errorf("open database: %w", err)
			return
		}
		db.SetMaxOpenConns(5)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			setupErr = fmt.Errorf("ping database: %w", err)
			return
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			setupErr = fmt.Errorf("apply migrations: %w", err)
			return
		}
		testDB = db
	})
	require.NoError(t, setupErr)
	return testDB
}

// beginTestTx isolates a test inside a transaction that is rolled back on
// cleanup, so tests never leave rows behind and can run in parallel.
func beginTestTx(t *testing.T, db *sql.DB) *sql.Tx {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })
	return tx
}

// newStoredUser builds a user with stamped audit fields and a placeholder
// hash, ready for UserStore.Create.
func newStoredUser(t *testing.T, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		Name:           "Test User",
		Email:          email,
		HashedPassword: "$2a$10$abcdefghijklmnopqrstuvabcdefghijklmnopqrstuvabcdefghi",
	}
	audit.New().PrepareCreate(user, nil)
	return user
}

func uniqueEmail() string {
	return fmt.Sprintf("user-%s@example.com", uuid.NewString())
}
