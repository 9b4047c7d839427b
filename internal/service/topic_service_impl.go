package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/repository"
	"github.com/google/uuid"
)

type topicService struct {
	topics     repository.TopicRepo
	activities repository.ActivityRepo
}

func NewTopicService(topics repository.TopicRepo, activities repository.ActivityRepo) TopicService {
	return &topicService{topics: topics, activities: activities}
}

func (s *topicService) Create(ctx context.Context, activityID string, draft domain.TopicDraft) (*domain.Topic, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.activities.GetByID(ctx, activityID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("activity %s does not exist: %w", activityID, domain.ErrValidation)
		}
		return nil, err
	}

	now := time.Now().UTC()
	t := &domain.Topic{
		ID:          uuid.New().String(),
		ActivityID:  activityID,
		Title:       draft.Title,
		Description: domain.CloneStrPtr(draft.Description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.topics.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *topicService) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	return s.topics.GetByID(ctx, id)
}

func (s *topicService) ListByActivity(ctx context.Context, activityID string) ([]*domain.Topic, error) {
	return s.topics.ListByActivity(ctx, activityID)
}

func (s *topicService) Update(ctx context.Context, id string, patch domain.TopicPatch) (*domain.Topic, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	current, err := s.topics.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next := patch.ApplyTo(*current)
	next.UpdatedAt = time.Now().UTC()
	if err := s.topics.Update(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

// Delete removes the topic; its sub-tasks go with it.
func (s *topicService) Delete(ctx context.Context, id string) error {
	return s.topics.Delete(ctx, id)
}
