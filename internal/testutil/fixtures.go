package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/google/uuid"
)

var testEmailCounter atomic.Int64

// User options
type UserOption func(*domain.User)

func WithRole(r domain.UserRole) UserOption {
	return func(u *domain.User) {
		u.Role = r
	}
}

func WithEmail(email string) UserOption {
	return func(u *domain.User) {
		u.Email = email
	}
}

func Inactive() UserOption {
	return func(u *domain.User) {
		u.Active = false
	}
}

func defaultEmail(name string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	if local == "" {
		local = "user"
	}
	return fmt.Sprintf("%s.%d@example.com", local, testEmailCounter.Add(1))
}

func NewTestUser(name string, opts ...UserOption) *domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	u := &domain.User{
		ID:        uuid.New().String(),
		Email:     defaultEmail(name),
		FullName:  name,
		Role:      domain.RoleEditor,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Activity options
type ActivityOption func(*domain.Activity)

func WithActivityRange(start, end time.Time) ActivityOption {
	return func(a *domain.Activity) {
		a.Interval = domain.Interval{Start: start, End: end}
	}
}

func WithActivityDescription(d string) ActivityOption {
	return func(a *domain.Activity) {
		a.Description = &d
	}
}

// NewTestActivity builds an activity spanning January 2025 unless overridden.
func NewTestActivity(ownerID, name string, opts ...ActivityOption) *domain.Activity {
	now := time.Now().UTC().Truncate(time.Second)
	a := &domain.Activity{
		ID:        uuid.New().String(),
		Name:      name,
		Interval:  domain.Interval{Start: domain.NewDate(2025, 1, 1), End: domain.NewDate(2025, 1, 31)},
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func NewTestTopic(activityID, title string) *domain.Topic {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Topic{
		ID:         uuid.New().String(),
		ActivityID: activityID,
		Title:      title,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// SubTask options
type SubTaskOption func(*domain.SubTask)

func WithRange(start, end time.Time) SubTaskOption {
	return func(s *domain.SubTask) {
		s.Interval = domain.Interval{Start: start, End: end}
	}
}

func WithStatus(st domain.SubTaskStatus) SubTaskOption {
	return func(s *domain.SubTask) {
		s.Status = st
	}
}

func WithProgress(p int) SubTaskOption {
	return func(s *domain.SubTask) {
		s.Progress = p
	}
}

func WithAssignee(userID string) SubTaskOption {
	return func(s *domain.SubTask) {
		s.AssigneeID = &userID
	}
}

func WithSubTaskDescription(d string) SubTaskOption {
	return func(s *domain.SubTask) {
		s.Description = &d
	}
}

// NewTestSubTask builds a PLANNED sub-task spanning 2025-01-10..2025-01-15
// unless overridden.
func NewTestSubTask(topicID, title string, opts ...SubTaskOption) *domain.SubTask {
	now := time.Now().UTC().Truncate(time.Second)
	s := &domain.SubTask{
		ID:        uuid.New().String(),
		TopicID:   topicID,
		Title:     title,
		Interval:  domain.Interval{Start: domain.NewDate(2025, 1, 10), End: domain.NewDate(2025, 1, 15)},
		Status:    domain.StatusPlanned,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
