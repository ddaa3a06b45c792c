package postgres

import (
	"context"
	"database/sql"
)

// Querier is the SQL surface the payment record repository runs on. Both
// *sql.DB and *sql.Tx satisfy it, so callers can scope writes to a
// transaction without a second repository type.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)
