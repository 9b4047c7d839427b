package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *env) importService(observers ...UseCaseObserver) ImportService {
	return NewImportService(e.uow, observers...)
}

func planSchema(assignee string) *importer.ImportSchema {
	return &importer.ImportSchema{
		Activity: importer.ActivityImport{Name: "Relaunch", Start: "2025-03-01", End: "2025-03-31"},
		Topics: []importer.TopicImport{
			{Ref: "design", Title: "Design"},
			{Ref: "build", Title: "Build"},
		},
		SubTasks: []importer.SubTaskImport{
			{TopicRef: "design", Title: "Wireframes", Start: "2025-03-03", End: "2025-03-07"},
			{TopicRef: "build", Title: "Launch party", Start: "2025-03-30", End: "2025-04-02", Assignee: &assignee},
		},
	}
}

func TestImportService_ImportsWholePlan(t *testing.T) {
	e := setupEnv(t)
	obs := &recordingObserver{}
	svc := e.importService(obs)
	ctx := WithActor(context.Background(), e.owner.ID)

	result, err := svc.ImportActivityFromSchema(ctx, planSchema(e.member.Email))
	require.NoError(t, err)

	assert.Equal(t, e.owner.ID, result.Activity.OwnerID, "owner defaults to the actor")
	assert.Equal(t, 2, result.TopicCount)
	assert.Equal(t, 2, result.SubTaskCount)
	assert.Equal(t, []string{"Launch party: " + RangeWarning}, result.Warnings)

	topics, err := e.topics.ListByActivity(ctx, result.Activity.ID)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Design", topics[0].Title)
	assert.Equal(t, "Build", topics[1].Title)

	build, err := e.subtasks.ListByTopic(ctx, topics[1].ID)
	require.NoError(t, err)
	require.Len(t, build, 1)
	require.NotNil(t, build[0].AssigneeID)
	assert.Equal(t, e.member.ID, *build[0].AssigneeID)

	assert.Equal(t, []domain.NotificationType{domain.NotifyTaskAssigned}, typesOf(e.inbox(t, e.member.ID)))

	require.Len(t, obs.events, 1)
	assert.Equal(t, "activity.import", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
}

func TestImportService_RollsBackOnUnknownAssignee(t *testing.T) {
	e := setupEnv(t)
	svc := e.importService()
	ctx := WithActor(context.Background(), e.owner.ID)

	_, err := svc.ImportActivityFromSchema(ctx, planSchema("ghost@example.com"))
	require.ErrorIs(t, err, domain.ErrValidation)

	list, err := e.activities.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "only the seeded activity remains")
}

func TestImportService_NotificationFailureRollsBackEverything(t *testing.T) {
	e := setupEnv(t)
	failing := &testutil.FailingWriteUoW{DB: e.db, Table: "notifications", Err: errors.New("inbox unavailable")}
	svc := NewImportService(failing)
	ctx := WithActor(context.Background(), e.owner.ID)

	activities := testutil.CountRows(t, e.db, "activities")
	topics := testutil.CountRows(t, e.db, "topics")
	subtasks := testutil.CountRows(t, e.db, "subtasks")

	_, err := svc.ImportActivityFromSchema(ctx, planSchema(e.member.Email))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inbox unavailable")
	assert.Positive(t, failing.Writes(), "activity, topics and sub-tasks were written first")

	assert.Equal(t, activities, testutil.CountRows(t, e.db, "activities"))
	assert.Equal(t, topics, testutil.CountRows(t, e.db, "topics"))
	assert.Equal(t, subtasks, testutil.CountRows(t, e.db, "subtasks"))
	assert.Empty(t, e.inbox(t, e.member.ID))
}

func TestImportService_ValidationErrors(t *testing.T) {
	e := setupEnv(t)
	svc := e.importService()
	ctx := WithActor(context.Background(), e.owner.ID)

	schema := planSchema(e.member.Email)
	schema.Activity.Name = ""
	schema.SubTasks[0].TopicRef = "ops"
	_, err := svc.ImportActivityFromSchema(ctx, schema)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "activity.name is required")
}

func TestImportService_RequiresOwner(t *testing.T) {
	e := setupEnv(t)
	_, err := e.importService().ImportActivityFromSchema(context.Background(), planSchema(e.member.Email))
	assert.ErrorIs(t, err, domain.ErrValidation)

	schema := planSchema(e.member.Email)
	schema.Activity.Owner = e.member.Email
	result, err := e.importService().ImportActivityFromSchema(context.Background(), schema)
	require.NoError(t, err)
	assert.Equal(t, e.member.ID, result.Activity.OwnerID)
}
