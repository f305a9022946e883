package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts query execution so stores can run against either a plain
// connection or a transaction. Both *sql.DB and *sql.Tx satisfy it, which
// is what makes the WithTx composition on the store interfaces work.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
