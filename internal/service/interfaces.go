package service

import (
	"context"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
)

type UserService interface {
	Create(ctx context.Context, email, fullName string, role domain.UserRole) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

type ActivityService interface {
	Create(ctx context.Context, draft domain.ActivityDraft) (*domain.Activity, error)
	// GetByID returns the activity with its owner populated.
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	List(ctx context.Context) ([]*domain.Activity, error)
	Update(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
}

type TopicService interface {
	Create(ctx context.Context, activityID string, draft domain.TopicDraft) (*domain.Topic, error)
	GetByID(ctx context.Context, id string) (*domain.Topic, error)
	ListByActivity(ctx context.Context, activityID string) ([]*domain.Topic, error)
	Update(ctx context.Context, id string, patch domain.TopicPatch) (*domain.Topic, error)
	Delete(ctx context.Context, id string) error
}

// CreatedSubTask is the outcome of creating a sub-task. Warnings are
// advisory; the sub-task has been stored regardless.
type CreatedSubTask struct {
	SubTask  *domain.SubTask
	Warnings []string
}

type SubTaskService interface {
	Create(ctx context.Context, topicID string, draft domain.SubTaskDraft) (*CreatedSubTask, error)
	GetByID(ctx context.Context, id string) (*domain.SubTask, error)
	ListByTopic(ctx context.Context, topicID string) ([]*domain.SubTask, error)
	// Update replaces the editable fields as a whole.
	Update(ctx context.Context, id string, update domain.SubTaskUpdate) (*domain.SubTask, error)
	// Patch changes only the provided drag-path fields.
	Patch(ctx context.Context, id string, patch domain.SubTaskPatch) (*domain.SubTask, error)
	Delete(ctx context.Context, id string) error
}

type GanttService interface {
	Snapshot(ctx context.Context, activityID string, now time.Time) (*domain.GanttSnapshot, error)
}

type NotificationService interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id, userID string) error
}

// ImportResult summarizes an imported activity plan.
type ImportResult struct {
	Activity     *domain.Activity
	TopicCount   int
	SubTaskCount int
	Warnings     []string
}

type ImportService interface {
	ImportActivity(ctx context.Context, path string) (*ImportResult, error)
	ImportActivityFromSchema(ctx context.Context, schema *importer.ImportSchema) (*ImportResult, error)
}
