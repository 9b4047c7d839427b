package repository

import (
	"context"

	"github.com/alexanderramin/gantt/internal/domain"
)

type UserRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type ActivityRepo interface {
	Create(ctx context.Context, a *domain.Activity) error
	GetByID(ctx context.Context, id string) (*domain.Activity, error)
	// List returns activities newest first.
	List(ctx context.Context) ([]*domain.Activity, error)
	Update(ctx context.Context, a *domain.Activity) error
	Delete(ctx context.Context, id string) error
}

type TopicRepo interface {
	Create(ctx context.Context, t *domain.Topic) error
	GetByID(ctx context.Context, id string) (*domain.Topic, error)
	// ListByActivity returns topics in creation order.
	ListByActivity(ctx context.Context, activityID string) ([]*domain.Topic, error)
	Update(ctx context.Context, t *domain.Topic) error
	Delete(ctx context.Context, id string) error
}

type SubTaskRepo interface {
	Create(ctx context.Context, s *domain.SubTask) error
	GetByID(ctx context.Context, id string) (*domain.SubTask, error)
	ListByTopic(ctx context.Context, topicID string) ([]*domain.SubTask, error)
	// ListByActivity returns every sub-task under the activity's topics,
	// ordered by start date.
	ListByActivity(ctx context.Context, activityID string) ([]*domain.SubTask, error)
	Update(ctx context.Context, s *domain.SubTask) error
	Delete(ctx context.Context, id string) error
}

type NotificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, id, userID string) error
}
