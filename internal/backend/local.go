// Package backend adapts the SQLite-backed services to the store's
// Persistence contract.
package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/store"
	"github.com/rs/zerolog"
)

// DefaultTimeout bounds a single backend call.
const DefaultTimeout = 5 * time.Second

// Services are the use cases Local delegates to.
type Services struct {
	Activities service.ActivityService
	Topics     service.TopicService
	SubTasks   service.SubTaskService
	Gantt      service.GanttService
}

type Option func(*Local)

func WithTimeout(d time.Duration) Option {
	return func(l *Local) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(l *Local) { l.log = log }
}

// WithClock sets the clock used to stamp fetched snapshots.
func WithClock(now func() time.Time) Option {
	return func(l *Local) { l.now = now }
}

// Local runs every store call in-process, each under its own deadline.
type Local struct {
	svc     Services
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

func NewLocal(svc Services, opts ...Option) *Local {
	l := &Local{
		svc:     svc,
		timeout: DefaultTimeout,
		log:     zerolog.Nop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var _ store.Persistence = (*Local)(nil)

// call runs fn under the per-call deadline and turns failures into
// store.PersistenceFailure values carrying a user-facing message.
func call[T any](ctx context.Context, l *Local, op string, fn func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	v, err := fn(ctx)
	if err == nil {
		return v, nil
	}
	var zero T
	msg := err.Error()
	if errors.Is(err, context.DeadlineExceeded) {
		msg = fmt.Sprintf("%s timed out after %s", op, l.timeout)
	}
	l.log.Warn().Err(err).Str("op", op).Msg("backend call failed")
	return zero, &store.PersistenceFailure{Op: op, Message: msg, Err: err}
}

func exec(ctx context.Context, l *Local, op string, fn func(context.Context) error) error {
	_, err := call(ctx, l, op, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func (l *Local) FetchSnapshot(ctx context.Context, activityID string) (*domain.GanttSnapshot, error) {
	return call(ctx, l, "fetch snapshot", func(ctx context.Context) (*domain.GanttSnapshot, error) {
		return l.svc.Gantt.Snapshot(ctx, activityID, l.now())
	})
}

func (l *Local) ListActivities(ctx context.Context) ([]*domain.Activity, error) {
	return call(ctx, l, "list activities", l.svc.Activities.List)
}

func (l *Local) CreateActivity(ctx context.Context, draft domain.ActivityDraft) (*domain.Activity, error) {
	return call(ctx, l, "create activity", func(ctx context.Context) (*domain.Activity, error) {
		return l.svc.Activities.Create(ctx, draft)
	})
}

func (l *Local) UpdateActivity(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error) {
	return call(ctx, l, "update activity", func(ctx context.Context) (*domain.Activity, error) {
		return l.svc.Activities.Update(ctx, id, patch)
	})
}

func (l *Local) DeleteActivity(ctx context.Context, id string) error {
	return exec(ctx, l, "delete activity", func(ctx context.Context) error {
		return l.svc.Activities.Delete(ctx, id)
	})
}

func (l *Local) CreateTopic(ctx context.Context, activityID string, draft domain.TopicDraft) (*domain.Topic, error) {
	return call(ctx, l, "create topic", func(ctx context.Context) (*domain.Topic, error) {
		return l.svc.Topics.Create(ctx, activityID, draft)
	})
}

func (l *Local) UpdateTopic(ctx context.Context, id string, patch domain.TopicPatch) (*domain.Topic, error) {
	return call(ctx, l, "update topic", func(ctx context.Context) (*domain.Topic, error) {
		return l.svc.Topics.Update(ctx, id, patch)
	})
}

func (l *Local) DeleteTopic(ctx context.Context, id string) error {
	return exec(ctx, l, "delete topic", func(ctx context.Context) error {
		return l.svc.Topics.Delete(ctx, id)
	})
}

// CreateSubTask logs range warnings; the store contract has no channel for them.
func (l *Local) CreateSubTask(ctx context.Context, topicID string, draft domain.SubTaskDraft) (*domain.SubTask, error) {
	return call(ctx, l, "create sub-task", func(ctx context.Context) (*domain.SubTask, error) {
		created, err := l.svc.SubTasks.Create(ctx, topicID, draft)
		if err != nil {
			return nil, err
		}
		for _, w := range created.Warnings {
			l.log.Warn().Str("subtask_id", created.SubTask.ID).Msg(w)
		}
		return created.SubTask, nil
	})
}

func (l *Local) UpdateSubTask(ctx context.Context, id string, update domain.SubTaskUpdate) (*domain.SubTask, error) {
	return call(ctx, l, "update sub-task", func(ctx context.Context) (*domain.SubTask, error) {
		return l.svc.SubTasks.Update(ctx, id, update)
	})
}

func (l *Local) PatchSubTask(ctx context.Context, id string, patch domain.SubTaskPatch) (*domain.SubTask, error) {
	return call(ctx, l, "patch sub-task", func(ctx context.Context) (*domain.SubTask, error) {
		return l.svc.SubTasks.Patch(ctx, id, patch)
	})
}

func (l *Local) DeleteSubTask(ctx context.Context, id string) error {
	return exec(ctx, l, "delete sub-task", func(ctx context.Context) error {
		return l.svc.SubTasks.Delete(ctx, id)
	})
}
