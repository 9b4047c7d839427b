package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/require"
)

type env struct {
	db            *sql.DB
	users         *repository.SQLiteUserRepo
	activities    *repository.SQLiteActivityRepo
	topics        *repository.SQLiteTopicRepo
	subtasks      *repository.SQLiteSubTaskRepo
	notifications *repository.SQLiteNotificationRepo
	uow           db.UnitOfWork

	owner    *domain.User
	member   *domain.User
	activity *domain.Activity
	topic    *domain.Topic
}

// setupEnv seeds an owner, a second member, a January 2025 activity and one
// topic.
func setupEnv(t *testing.T) *env {
	t.Helper()
	database := testutil.NewTestDB(t)
	e := &env{
		db:            database,
		users:         repository.NewSQLiteUserRepo(database),
		activities:    repository.NewSQLiteActivityRepo(database),
		topics:        repository.NewSQLiteTopicRepo(database),
		subtasks:      repository.NewSQLiteSubTaskRepo(database),
		notifications: repository.NewSQLiteNotificationRepo(database),
		uow:           testutil.NewTestUoW(database),
	}
	ctx := context.Background()

	e.owner = testutil.NewTestUser("Olga Owner", testutil.WithRole(domain.RoleAdmin))
	require.NoError(t, e.users.Create(ctx, e.owner))
	e.member = testutil.NewTestUser("Max Member")
	require.NoError(t, e.users.Create(ctx, e.member))

	e.activity = testutil.NewTestActivity(e.owner.ID, "Launch")
	require.NoError(t, e.activities.Create(ctx, e.activity))
	e.topic = testutil.NewTestTopic(e.activity.ID, "Design")
	require.NoError(t, e.topics.Create(ctx, e.topic))
	return e
}

func (e *env) subTaskService(observers ...UseCaseObserver) SubTaskService {
	return NewSubTaskService(e.subtasks, e.uow, observers...)
}

func (e *env) addSubTask(t *testing.T, title string, opts ...testutil.SubTaskOption) *domain.SubTask {
	t.Helper()
	st := testutil.NewTestSubTask(e.topic.ID, title, opts...)
	require.NoError(t, e.subtasks.Create(context.Background(), st))
	return st
}

func (e *env) inbox(t *testing.T, userID string) []*domain.Notification {
	t.Helper()
	list, err := e.notifications.ListForUser(context.Background(), userID, false, 0)
	require.NoError(t, err)
	return list
}

func typesOf(list []*domain.Notification) []domain.NotificationType {
	out := make([]domain.NotificationType, 0, len(list))
	for _, n := range list {
		out = append(out, n.Type)
	}
	return out
}

type recordingObserver struct {
	events []UseCaseEvent
}

func (r *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	r.events = append(r.events, e)
}
