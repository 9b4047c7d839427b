package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sync/atomic"

	"github.com/alexanderramin/gantt/internal/db"
)

// FailingWriteUoW runs real transactions but fails the first write into
// Table, after the writes before it have already gone through. Tests use it
// to check that a sub-task change and its notifications, or a whole plan
// import, roll back together. Reads are never affected.
type FailingWriteUoW struct {
	DB    *sql.DB
	Table string
	Err   error

	writes atomic.Int32
}

// Writes reports how many statements reached the database before the
// injected failure, across all transactions.
func (u *FailingWriteUoW) Writes() int { return int(u.writes.Load()) }

func (u *FailingWriteUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	return db.NewSQLiteUnitOfWork(u.DB).WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, &failingWrites{DBTX: tx, uow: u, target: writePattern(u.Table)})
	})
}

func writePattern(table string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(INSERT\s+INTO|UPDATE|DELETE\s+FROM)\s+` + regexp.QuoteMeta(table) + `\b`)
}

type failingWrites struct {
	db.DBTX
	uow    *FailingWriteUoW
	target *regexp.Regexp
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.target.MatchString(query) {
		return nil, fmt.Errorf("writing %s: %w", f.uow.Table, f.uow.Err)
	}
	f.uow.writes.Add(1)
	return f.DBTX.ExecContext(ctx, query, args...)
}
