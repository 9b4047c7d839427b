package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	owner    *domain.User
	activity *domain.Activity
	topic    *domain.Topic
	subTask  *domain.SubTask
}

func seed(t *testing.T, db *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{owner: testutil.NewTestUser("Ana Lima")}
	require.NoError(t, NewSQLiteUserRepo(db).Create(ctx, f.owner))

	f.activity = testutil.NewTestActivity(f.owner.ID, "Launch")
	require.NoError(t, NewSQLiteActivityRepo(db).Create(ctx, f.activity))

	f.topic = testutil.NewTestTopic(f.activity.ID, "Design")
	require.NoError(t, NewSQLiteTopicRepo(db).Create(ctx, f.topic))

	f.subTask = testutil.NewTestSubTask(f.topic.ID, "Wireframes", testutil.WithAssignee(f.owner.ID))
	require.NoError(t, NewSQLiteSubTaskRepo(db).Create(ctx, f.subTask))
	return f
}

func newTestNotification(target, activityID, subTaskID string) *domain.Notification {
	return &domain.Notification{
		ID:           uuid.New().String(),
		Type:         domain.NotifyDateChanged,
		Message:      "dates changed",
		ActivityID:   &activityID,
		SubTaskID:    &subTaskID,
		TargetUserID: target,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestUserRepo_CreateAndLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	u := testutil.NewTestUser("Bo", testutil.WithEmail("Bo@Example.com"), testutil.WithRole(domain.RoleAdmin))
	require.NoError(t, repo.Create(ctx, u))

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "bo@example.com", byID.Email)
	assert.Equal(t, domain.RoleAdmin, byID.Role)
	assert.True(t, byID.Active)

	byEmail, err := repo.GetByEmail(ctx, "BO@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUserRepo_DuplicateEmail(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewTestUser("A", testutil.WithEmail("same@example.com"))))
	assert.Error(t, repo.Create(ctx, testutil.NewTestUser("B", testutil.WithEmail("same@example.com"))))
}

func TestUserRepo_UpdateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteUserRepo(db)
	ctx := context.Background()

	zed := testutil.NewTestUser("Zed")
	amy := testutil.NewTestUser("Amy")
	require.NoError(t, repo.Create(ctx, zed))
	require.NoError(t, repo.Create(ctx, amy))

	zed.Active = false
	require.NoError(t, repo.Update(ctx, zed))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Amy", users[0].FullName)
	assert.False(t, users[1].Active)

	ghost := testutil.NewTestUser("Ghost")
	assert.True(t, errors.Is(repo.Update(ctx, ghost), domain.ErrNotFound))
}

func TestActivityRepo_RoundTripAndOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	repo := NewSQLiteActivityRepo(db)

	got, err := repo.GetByID(ctx, f.activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch", got.Name)
	assert.Nil(t, got.Description)
	assert.True(t, got.Interval.Equal(f.activity.Interval))
	assert.Equal(t, f.owner.ID, got.OwnerID)

	newer := testutil.NewTestActivity(f.owner.ID, "Q2",
		testutil.WithActivityDescription("second quarter"),
		testutil.WithActivityRange(domain.NewDate(2025, 4, 1), domain.NewDate(2025, 6, 30)))
	newer.CreatedAt = f.activity.CreatedAt.Add(time.Minute)
	require.NoError(t, repo.Create(ctx, newer))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID, "newest first")
	require.NotNil(t, list[0].Description)
	assert.Equal(t, "second quarter", *list[0].Description)
}

func TestActivityRepo_UpdateRejectsBackwardsRange(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	repo := NewSQLiteActivityRepo(db)

	bad := *f.activity
	bad.Interval = domain.Interval{Start: domain.NewDate(2025, 2, 1), End: domain.NewDate(2025, 1, 1)}
	assert.Error(t, repo.Update(ctx, &bad), "CHECK constraint should reject start after end")

	f.activity.Name = "Launch v2"
	require.NoError(t, repo.Update(ctx, f.activity))
	got, err := repo.GetByID(ctx, f.activity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Launch v2", got.Name)
}

func TestActivityRepo_DeleteMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	err := NewSQLiteActivityRepo(db).Delete(context.Background(), "nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTopicRepo_CreationOrder(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	repo := NewSQLiteTopicRepo(db)

	// Same created_at second: order must still follow insertion.
	second := testutil.NewTestTopic(f.activity.ID, "Build")
	third := testutil.NewTestTopic(f.activity.ID, "Alpha")
	second.CreatedAt, third.CreatedAt = f.topic.CreatedAt, f.topic.CreatedAt
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, third))

	list, err := repo.ListByActivity(ctx, f.activity.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Design", "Build", "Alpha"},
		[]string{list[0].Title, list[1].Title, list[2].Title})
}

func TestTopicRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	repo := NewSQLiteTopicRepo(db)

	desc := "all design work"
	f.topic.Title = "UX"
	f.topic.Description = &desc
	require.NoError(t, repo.Update(ctx, f.topic))

	got, err := repo.GetByID(ctx, f.topic.ID)
	require.NoError(t, err)
	assert.Equal(t, "UX", got.Title)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)
}

func TestSubTaskRepo_RoundTrip(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	repo := NewSQLiteSubTaskRepo(db)

	got, err := repo.GetByID(ctx, f.subTask.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wireframes", got.Title)
	assert.Equal(t, domain.StatusPlanned, got.Status)
	assert.True(t, got.Interval.Equal(f.subTask.Interval))
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, f.owner.ID, *got.AssigneeID)

	got.Interval = got.Interval.Shift(2)
	got.Status = domain.StatusInProgress
	got.Progress = 45
	got.AssigneeID = nil
	require.NoError(t, repo.Update(ctx, got))

	again, err := repo.GetByID(ctx, f.subTask.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2025, 1, 12), again.Interval.Start)
	assert.Equal(t, domain.NewDate(2025, 1, 17), again.Interval.End)
	assert.Equal(t, domain.StatusInProgress, again.Status)
	assert.Equal(t, 45, again.Progress)
	assert.Nil(t, again.AssigneeID)
}

func TestSubTaskRepo_ProgressConstraint(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)

	f.subTask.Progress = 101
	assert.Error(t, NewSQLiteSubTaskRepo(db).Update(ctx, f.subTask))
}

func TestSubTaskRepo_ListByActivityOrderedByStart(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	topics := NewSQLiteTopicRepo(db)
	repo := NewSQLiteSubTaskRepo(db)

	build := testutil.NewTestTopic(f.activity.ID, "Build")
	require.NoError(t, topics.Create(ctx, build))
	early := testutil.NewTestSubTask(build.ID, "Early",
		testutil.WithRange(domain.NewDate(2025, 1, 2), domain.NewDate(2025, 1, 3)))
	require.NoError(t, repo.Create(ctx, early))

	elsewhere := testutil.NewTestActivity(f.owner.ID, "Other")
	require.NoError(t, NewSQLiteActivityRepo(db).Create(ctx, elsewhere))
	otherTopic := testutil.NewTestTopic(elsewhere.ID, "Other topic")
	require.NoError(t, topics.Create(ctx, otherTopic))
	require.NoError(t, repo.Create(ctx, testutil.NewTestSubTask(otherTopic.ID, "Foreign")))

	list, err := repo.ListByActivity(ctx, f.activity.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, f.subTask.ID, list[1].ID)

	byTopic, err := repo.ListByTopic(ctx, build.ID)
	require.NoError(t, err)
	require.Len(t, byTopic, 1)
}

func TestNotificationRepo_ScopedToUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	f := seed(t, db)
	users := NewSQLiteUserRepo(db)
	repo := NewSQLiteNotificationRepo(db)

	other := testutil.NewTestUser("Other")
	require.NoError(t, users.Create(ctx, other))

	first := newTestNotification(f.owner.ID, f.activity.ID, f.subTask.ID)
	second := newTestNotification(f.owner.ID, f.activity.ID, f.subTask.ID)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	foreign := newTestNotification(other.ID, f.activity.ID, f.subTask.ID)
	for _, n := range []*domain.Notification{first, second, foreign} {
		require.NoError(t, repo.Create(ctx, n))
	}

	count, err := repo.CountUnread(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.True(t, errors.Is(repo.MarkRead(ctx, foreign.ID, f.owner.ID), domain.ErrNotFound),
		"cannot touch another user's notification")
	require.NoError(t, repo.MarkRead(ctx, first.ID, f.owner.ID))

	unread, err := repo.ListForUser(ctx, f.owner.ID, true, 0)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, second.ID, unread[0].ID)

	all, err := repo.ListForUser(ctx, f.owner.ID, false, 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, second.ID, all[0].ID, "newest first")

	n, err := repo.MarkAllRead(ctx, f.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, first.ID, f.owner.ID))
	count, err = repo.CountUnread(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
