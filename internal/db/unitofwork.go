package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// UnitOfWork runs fn atomically: every write commits or none does.
// Repositories built from tx see the writes made earlier in the same fn.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

// UoWOption configures a SQLiteUnitOfWork.
type UoWOption func(*SQLiteUnitOfWork)

// WithTxLogger logs rollbacks at debug level and failed rollbacks at error.
func WithTxLogger(log zerolog.Logger) UoWOption {
	return func(u *SQLiteUnitOfWork) { u.log = log }
}

type SQLiteUnitOfWork struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewSQLiteUnitOfWork(database *sql.DB, opts ...UoWOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: database, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithinTx runs fn in a transaction. When fn fails the transaction is rolled
// back and fn's error is returned; if the rollback fails too, both errors are
// joined so errors.Is still matches fn's error. A panic in fn rolls back and
// re-panics.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			u.log.Error().Err(rbErr).AnErr("cause", err).Msg("rollback failed")
			return errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
		u.log.Debug().Err(err).Msg("transaction rolled back")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
