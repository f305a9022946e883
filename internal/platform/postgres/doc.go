// Package postgres contains PostgreSQL-backed implementations of the store
// interfaces, using the pgx driver through database/sql, plus the embedded
// goose migrations that define the schema.
package postgres
