package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/google/uuid"
)

var statusLabels = map[domain.SubTaskStatus]string{
	domain.StatusPlanned:    "Planned",
	domain.StatusInProgress: "In progress",
	domain.StatusCompleted:  "Completed",
	domain.StatusOverdue:    "Overdue",
}

// notifier writes sub-task notifications through a tx-scoped repository.
// Nothing is ever sent to the acting user.
type notifier struct {
	repo       repository.NotificationRepo
	actorID    string
	activityID string
}

func newNotifier(ctx context.Context, repo repository.NotificationRepo, activityID string) *notifier {
	actor, _ := ActorFrom(ctx)
	return &notifier{repo: repo, actorID: actor, activityID: activityID}
}

func (n *notifier) send(ctx context.Context, typ domain.NotificationType, target string, st *domain.SubTask, msg string) error {
	if target == "" || target == n.actorID {
		return nil
	}
	note := &domain.Notification{
		ID:           uuid.New().String(),
		Type:         typ,
		Message:      msg,
		SubTaskID:    &st.ID,
		TargetUserID: target,
		CreatedAt:    time.Now().UTC(),
	}
	if n.activityID != "" {
		activityID := n.activityID
		note.ActivityID = &activityID
	}
	if n.actorID != "" {
		actor := n.actorID
		note.CreatedByID = &actor
	}
	return n.repo.Create(ctx, note)
}

func assigneeOf(st *domain.SubTask) string {
	if st.AssigneeID == nil {
		return ""
	}
	return *st.AssigneeID
}

// changed emits the notifications implied by moving from before to after.
// ownerID receives completion notices.
func (n *notifier) changed(ctx context.Context, before, after *domain.SubTask, ownerID string) error {
	assignee := assigneeOf(after)
	if assignee != "" && assignee != assigneeOf(before) {
		if err := n.send(ctx, domain.NotifyTaskAssigned, assignee, after,
			fmt.Sprintf("%q was assigned to you.", after.Title)); err != nil {
			return err
		}
	}
	if !before.Interval.Equal(after.Interval) {
		if err := n.send(ctx, domain.NotifyDateChanged, assignee, after,
			fmt.Sprintf("Dates of %q changed to %s.", after.Title, after.Interval)); err != nil {
			return err
		}
	}
	if before.Status != after.Status {
		if err := n.send(ctx, domain.NotifyStatusChanged, assignee, after,
			fmt.Sprintf("Status of %q changed to %q.", after.Title, statusLabels[after.Status])); err != nil {
			return err
		}
		if after.Status == domain.StatusCompleted {
			if err := n.send(ctx, domain.NotifyTaskCompleted, ownerID, after,
				fmt.Sprintf("%q was completed.", after.Title)); err != nil {
				return err
			}
		}
	}
	return nil
}
