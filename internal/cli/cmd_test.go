package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/backend"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/store"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	app      *App
	bundle   *backend.Bundle
	owner    *domain.User
	member   *domain.User
	activity *domain.Activity
	topic    *domain.Topic
	subTask  *domain.SubTask
}

func testNow() time.Time { return time.Date(2025, 1, 12, 9, 0, 0, 0, time.UTC) }

// newTestEnv seeds an owner, a member, a January 2025 activity with one topic
// and one sub-task running Jan 10-15.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	b := backend.NewBundle(testutil.NewTestDB(t))
	ctx := context.Background()

	owner, err := b.Users.Create(ctx, "olga@example.com", "Olga Owner", domain.RoleAdmin)
	require.NoError(t, err)
	member, err := b.Users.Create(ctx, "max@example.com", "Max Member", domain.RoleEditor)
	require.NoError(t, err)
	a, err := b.Activities.Create(ctx, domain.ActivityDraft{
		Name: "Launch", Start: domain.NewDate(2025, 1, 1), End: domain.NewDate(2025, 1, 31), OwnerID: owner.ID,
	})
	require.NoError(t, err)
	tp, err := b.Topics.Create(ctx, a.ID, domain.TopicDraft{Title: "Design"})
	require.NoError(t, err)
	created, err := b.SubTasks.Create(ctx, tp.ID, domain.SubTaskDraft{
		Title: "Wireframes", Start: domain.NewDate(2025, 1, 10), End: domain.NewDate(2025, 1, 15),
	})
	require.NoError(t, err)

	cfg := config.Default(t.TempDir())
	cfg.ChartWidth = 100
	app := &App{
		Users:         b.Users,
		Activities:    b.Activities,
		Topics:        b.Topics,
		SubTasks:      b.SubTasks,
		Gantt:         b.Gantt,
		Notifications: b.Notifications,
		Imports:       b.Imports,
		Store:         store.New(backend.NewLocal(b.Services(), backend.WithClock(testNow))),
		Config:        cfg,
		Now:           testNow,
	}
	return &testEnv{
		app: app, bundle: b,
		owner: owner, member: member,
		activity: a, topic: tp, subTask: created.SubTask,
	}
}

// executeCmd runs the root command with args and returns everything it
// printed.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func (e *testEnv) reload(t *testing.T, id string) *domain.SubTask {
	t.Helper()
	st, err := e.bundle.SubTasks.GetByID(context.Background(), id)
	require.NoError(t, err)
	return st
}
