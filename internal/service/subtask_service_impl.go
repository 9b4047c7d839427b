package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/google/uuid"
)

// RangeWarning is returned when a new sub-task falls outside its activity.
const RangeWarning = "sub-task dates fall outside the activity range"

type subTaskService struct {
	subtasks repository.SubTaskRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewSubTaskService(subtasks repository.SubTaskRepo, uow db.UnitOfWork, observers ...UseCaseObserver) SubTaskService {
	return &subTaskService{
		subtasks: subtasks,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

// txRepos bundles the repositories a sub-task write needs inside one
// transaction.
type txRepos struct {
	users         repository.UserRepo
	activities    repository.ActivityRepo
	topics        repository.TopicRepo
	subtasks      repository.SubTaskRepo
	notifications repository.NotificationRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		users:         repository.NewSQLiteUserRepo(tx),
		activities:    repository.NewSQLiteActivityRepo(tx),
		topics:        repository.NewSQLiteTopicRepo(tx),
		subtasks:      repository.NewSQLiteSubTaskRepo(tx),
		notifications: repository.NewSQLiteNotificationRepo(tx),
	}
}

// parentActivity walks from a topic to its activity.
func (r txRepos) parentActivity(ctx context.Context, topicID string) (*domain.Activity, error) {
	topic, err := r.topics.GetByID(ctx, topicID)
	if err != nil {
		return nil, err
	}
	return r.activities.GetByID(ctx, topic.ActivityID)
}

// checkAssignee rejects references to missing or deactivated users.
func (r txRepos) checkAssignee(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	u, err := r.users.GetByID(ctx, *id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("assignee %s does not exist: %w", *id, domain.ErrValidation)
		}
		return err
	}
	if !u.Active {
		return fmt.Errorf("assignee %s is not active: %w", *id, domain.ErrValidation)
	}
	return nil
}

func (s *subTaskService) Create(ctx context.Context, topicID string, draft domain.SubTaskDraft) (_ *CreatedSubTask, err error) {
	startedAt := time.Now()
	fields := map[string]any{"topic_id": topicID}
	defer func() { observe(ctx, s.observer, "subtask.create", fields, startedAt, err) }()

	if err := draft.Validate(); err != nil {
		return nil, err
	}
	status := draft.Status
	if status == "" {
		status = domain.StatusPlanned
	}

	now := time.Now().UTC()
	st := &domain.SubTask{
		ID:          uuid.New().String(),
		TopicID:     topicID,
		Title:       draft.Title,
		Description: domain.CloneStrPtr(draft.Description),
		Interval:    domain.Interval{Start: domain.DateOf(draft.Start), End: domain.DateOf(draft.End)},
		Status:      status,
		AssigneeID:  domain.CloneStrPtr(draft.AssigneeID),
		Progress:    draft.Progress,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var warnings []string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		activity, err := repos.parentActivity(ctx, topicID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("topic %s does not exist: %w", topicID, domain.ErrValidation)
			}
			return err
		}
		if err := repos.checkAssignee(ctx, st.AssigneeID); err != nil {
			return err
		}
		if !st.Interval.Within(activity.Interval) {
			warnings = append(warnings, RangeWarning)
		}
		if err := repos.subtasks.Create(ctx, st); err != nil {
			return err
		}
		n := newNotifier(ctx, repos.notifications, activity.ID)
		if a := assigneeOf(st); a != "" {
			return n.send(ctx, domain.NotifyTaskAssigned, a, st, fmt.Sprintf("%q was assigned to you.", st.Title))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["subtask_id"] = st.ID
	fields["warnings"] = len(warnings)
	return &CreatedSubTask{SubTask: st, Warnings: warnings}, nil
}

func (s *subTaskService) GetByID(ctx context.Context, id string) (*domain.SubTask, error) {
	return s.subtasks.GetByID(ctx, id)
}

func (s *subTaskService) ListByTopic(ctx context.Context, topicID string) ([]*domain.SubTask, error) {
	return s.subtasks.ListByTopic(ctx, topicID)
}

func (s *subTaskService) Update(ctx context.Context, id string, update domain.SubTaskUpdate) (_ *domain.SubTask, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "subtask.update", map[string]any{"subtask_id": id}, startedAt, err) }()

	return s.modify(ctx, id, func(repos txRepos, current domain.SubTask) (domain.SubTask, error) {
		next, err := update.ApplyTo(current)
		if err != nil {
			return domain.SubTask{}, err
		}
		if update.AssigneeID != nil && !update.ClearAssignee {
			if err := repos.checkAssignee(ctx, next.AssigneeID); err != nil {
				return domain.SubTask{}, err
			}
		}
		return next, nil
	})
}

func (s *subTaskService) Patch(ctx context.Context, id string, patch domain.SubTaskPatch) (_ *domain.SubTask, err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "subtask.patch", map[string]any{"subtask_id": id}, startedAt, err) }()

	if err := patch.Validate(); err != nil {
		return nil, err
	}
	return s.modify(ctx, id, func(_ txRepos, current domain.SubTask) (domain.SubTask, error) {
		return patch.ApplyTo(current)
	})
}

// modify reads, merges, writes and notifies inside one transaction.
func (s *subTaskService) modify(ctx context.Context, id string, merge func(txRepos, domain.SubTask) (domain.SubTask, error)) (*domain.SubTask, error) {
	var out *domain.SubTask
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		current, err := repos.subtasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		next, err := merge(repos, *current)
		if err != nil {
			return err
		}
		next.UpdatedAt = time.Now().UTC()
		if err := repos.subtasks.Update(ctx, &next); err != nil {
			return err
		}

		activity, err := repos.parentActivity(ctx, next.TopicID)
		if err != nil {
			return err
		}
		if err := newNotifier(ctx, repos.notifications, activity.ID).changed(ctx, current, &next, activity.OwnerID); err != nil {
			return err
		}
		out = &next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *subTaskService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "subtask.delete", map[string]any{"subtask_id": id}, startedAt, err) }()
	return s.subtasks.Delete(ctx, id)
}
