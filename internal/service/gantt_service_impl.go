package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/alexanderramin/gantt/internal/repository"
)

type ganttService struct {
	activities repository.ActivityRepo
	topics     repository.TopicRepo
	subtasks   repository.SubTaskRepo
	users      repository.UserRepo
}

func NewGanttService(activities repository.ActivityRepo, topics repository.TopicRepo, subtasks repository.SubTaskRepo, users repository.UserRepo) GanttService {
	return &ganttService{activities: activities, topics: topics, subtasks: subtasks, users: users}
}

// Snapshot assembles the full tree of one activity. Assignees and the owner
// are resolved once per distinct user.
func (s *ganttService) Snapshot(ctx context.Context, activityID string, now time.Time) (*domain.GanttSnapshot, error) {
	activity, err := s.activities.GetByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	topics, err := s.topics.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	subtasks, err := s.subtasks.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	users := map[string]*domain.User{}
	lookup := func(id string) (*domain.User, error) {
		if u, ok := users[id]; ok {
			return u, nil
		}
		u, err := s.users.GetByID(ctx, id)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		users[id] = u
		return u, nil
	}

	if activity.Owner, err = lookup(activity.OwnerID); err != nil {
		return nil, err
	}
	for _, st := range subtasks {
		if st.AssigneeID == nil {
			continue
		}
		if st.Assignee, err = lookup(*st.AssigneeID); err != nil {
			return nil, err
		}
	}

	scale, err := gantt.SelectScale(activity.Interval.Start, activity.Interval.End)
	if err != nil {
		return nil, err
	}
	return &domain.GanttSnapshot{
		Activity: activity,
		Topics:   topics,
		SubTasks: subtasks,
		Scale:    scale,
		Now:      domain.DateOf(now),
	}, nil
}
