package db

import (
	"context"
	"database/sql"
)

// DBTX is what repositories run queries against: the shared *sql.DB for
// plain reads, or the *sql.Tx of a unit of work for multi-row writes such as
// a sub-task change plus its notifications.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RowScanner is satisfied by both *sql.Row and *sql.Rows, so one scan
// function serves single lookups and list queries.
type RowScanner interface {
	Scan(dest ...any) error
}

var (
	_ DBTX       = (*sql.DB)(nil)
	_ DBTX       = (*sql.Tx)(nil)
	_ RowScanner = (*sql.Row)(nil)
	_ RowScanner = (*sql.Rows)(nil)
)
