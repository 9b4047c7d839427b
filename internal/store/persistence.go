package store

import (
	"context"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Persistence is the authoritative backend the store reconciles against.
// Every call may fail; a failure's message is surfaced verbatim.
type Persistence interface {
	FetchSnapshot(ctx context.Context, activityID string) (*domain.GanttSnapshot, error)

	ListActivities(ctx context.Context) ([]*domain.Activity, error)
	CreateActivity(ctx context.Context, draft domain.ActivityDraft) (*domain.Activity, error)
	UpdateActivity(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, id string) error

	CreateTopic(ctx context.Context, activityID string, draft domain.TopicDraft) (*domain.Topic, error)
	UpdateTopic(ctx context.Context, id string, patch domain.TopicPatch) (*domain.Topic, error)
	DeleteTopic(ctx context.Context, id string) error

	CreateSubTask(ctx context.Context, topicID string, draft domain.SubTaskDraft) (*domain.SubTask, error)
	UpdateSubTask(ctx context.Context, id string, update domain.SubTaskUpdate) (*domain.SubTask, error)
	PatchSubTask(ctx context.Context, id string, patch domain.SubTaskPatch) (*domain.SubTask, error)
	DeleteSubTask(ctx context.Context, id string) error
}
