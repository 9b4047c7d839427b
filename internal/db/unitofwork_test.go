package db_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedOwner stores a user to own the activities created in each test.
func seedOwner(t *testing.T) (*sql.DB, *domain.User) {
	t.Helper()
	database := testutil.NewTestDB(t)
	owner := testutil.NewTestUser("Olga Owner")
	require.NoError(t, repository.NewSQLiteUserRepo(database).Create(context.Background(), owner))
	return database, owner
}

func TestWithinTx_CommitsActivityWithTopics(t *testing.T) {
	database, owner := seedOwner(t)
	uow := db.NewSQLiteUnitOfWork(database)
	a := testutil.NewTestActivity(owner.ID, "Launch")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteActivityRepo(tx).Create(ctx, a); err != nil {
			return err
		}
		topics := repository.NewSQLiteTopicRepo(tx)
		for _, title := range []string{"Design", "Build"} {
			if err := topics.Create(ctx, testutil.NewTestTopic(a.ID, title)); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, 1, testutil.CountRows(t, database, "activities"))
	assert.Equal(t, 2, testutil.CountRows(t, database, "topics"))
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	database, owner := seedOwner(t)
	var logs bytes.Buffer
	uow := db.NewSQLiteUnitOfWork(database, db.WithTxLogger(zerolog.New(&logs).Level(zerolog.DebugLevel)))
	errRejected := errors.New("topic rejected")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		a := testutil.NewTestActivity(owner.ID, "Launch")
		if err := repository.NewSQLiteActivityRepo(tx).Create(ctx, a); err != nil {
			return err
		}
		return errRejected
	})
	require.ErrorIs(t, err, errRejected)

	assert.Zero(t, testutil.CountRows(t, database, "activities"))
	assert.Contains(t, logs.String(), "transaction rolled back")
	assert.Contains(t, logs.String(), "topic rejected")
}

func TestWithinTx_ForeignKeyFailureRollsBackEarlierWrites(t *testing.T) {
	database, owner := seedOwner(t)
	uow := db.NewSQLiteUnitOfWork(database)

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		a := testutil.NewTestActivity(owner.ID, "Launch")
		if err := repository.NewSQLiteActivityRepo(tx).Create(ctx, a); err != nil {
			return err
		}
		return repository.NewSQLiteTopicRepo(tx).Create(ctx, testutil.NewTestTopic("no-such-activity", "Orphan"))
	})
	require.Error(t, err)

	assert.Zero(t, testutil.CountRows(t, database, "activities"))
	assert.Zero(t, testutil.CountRows(t, database, "topics"))
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	database, owner := seedOwner(t)
	uow := db.NewSQLiteUnitOfWork(database)

	assert.PanicsWithValue(t, "boom", func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			a := testutil.NewTestActivity(owner.ID, "Launch")
			_ = repository.NewSQLiteActivityRepo(tx).Create(ctx, a)
			panic("boom")
		})
	})

	assert.Zero(t, testutil.CountRows(t, database, "activities"))
}

func TestWithinTx_CancelledContext(t *testing.T) {
	database, _ := seedOwner(t)
	uow := db.NewSQLiteUnitOfWork(database)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(context.Context, db.DBTX) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
