package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGanttService_Snapshot(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	second := testutil.NewTestTopic(e.activity.ID, "Build")
	require.NoError(t, e.topics.Create(ctx, second))

	late := e.addSubTask(t, "Late", testutil.WithRange(domain.NewDate(2025, 1, 20), domain.NewDate(2025, 1, 22)))
	early := e.addSubTask(t, "Early",
		testutil.WithRange(domain.NewDate(2025, 1, 2), domain.NewDate(2025, 1, 3)),
		testutil.WithAssignee(e.member.ID))

	svc := NewGanttService(e.activities, e.topics, e.subtasks, e.users)
	now := time.Date(2025, 1, 21, 15, 4, 5, 0, time.UTC)
	snap, err := svc.Snapshot(ctx, e.activity.ID, now)
	require.NoError(t, err)

	assert.Equal(t, domain.ScaleWeek, snap.Scale, "January spans 31 days")
	assert.Equal(t, domain.NewDate(2025, 1, 21), snap.Now)
	require.NotNil(t, snap.Activity.Owner)
	assert.Equal(t, e.owner.ID, snap.Activity.Owner.ID)

	require.Len(t, snap.Topics, 2)
	assert.Equal(t, e.topic.ID, snap.Topics[0].ID)
	assert.Equal(t, second.ID, snap.Topics[1].ID)

	require.Len(t, snap.SubTasks, 2)
	assert.Equal(t, early.ID, snap.SubTasks[0].ID)
	assert.Equal(t, late.ID, snap.SubTasks[1].ID)
	require.NotNil(t, snap.SubTasks[0].Assignee)
	assert.Equal(t, e.member.FullName, snap.SubTasks[0].Assignee.FullName)
	assert.Nil(t, snap.SubTasks[1].Assignee)
}

func TestGanttService_Snapshot_DayScaleAndMissing(t *testing.T) {
	e := setupEnv(t)
	ctx := context.Background()
	short := testutil.NewTestActivity(e.owner.ID, "Sprint",
		testutil.WithActivityRange(domain.NewDate(2025, 2, 1), domain.NewDate(2025, 2, 14)))
	require.NoError(t, e.activities.Create(ctx, short))

	svc := NewGanttService(e.activities, e.topics, e.subtasks, e.users)
	snap, err := svc.Snapshot(ctx, short.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.ScaleDay, snap.Scale)
	assert.Empty(t, snap.Topics)

	_, err = svc.Snapshot(ctx, "missing", time.Now())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
