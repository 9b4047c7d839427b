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

type activityService struct {
	activities repository.ActivityRepo
	users      repository.UserRepo
	observer   UseCaseObserver
}

func NewActivityService(activities repository.ActivityRepo, users repository.UserRepo, observers ...UseCaseObserver) ActivityService {
	return &activityService{
		activities: activities,
		users:      users,
		observer:   useCaseObserverOrNoop(observers),
	}
}

func (s *activityService) Create(ctx context.Context, draft domain.ActivityDraft) (_ *domain.Activity, err error) {
	startedAt := time.Now()
	fields := map[string]any{"owner_id": draft.OwnerID}
	defer func() { observe(ctx, s.observer, "activity.create", fields, startedAt, err) }()

	if err := draft.Validate(); err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, draft.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("owner %s does not exist: %w", draft.OwnerID, domain.ErrValidation)
		}
		return nil, err
	}

	now := time.Now().UTC()
	a := &domain.Activity{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Description: domain.CloneStrPtr(draft.Description),
		Interval:    domain.Interval{Start: domain.DateOf(draft.Start), End: domain.DateOf(draft.End)},
		OwnerID:     owner.ID,
		Owner:       owner,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.activities.Create(ctx, a); err != nil {
		return nil, err
	}
	fields["activity_id"] = a.ID
	return a, nil
}

func (s *activityService) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	a, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachOwner(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *activityService) List(ctx context.Context) ([]*domain.Activity, error) {
	list, err := s.activities.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, a := range list {
		if err := s.attachOwner(ctx, a); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (s *activityService) Update(ctx context.Context, id string, patch domain.ActivityPatch) (_ *domain.Activity, err error) {
	startedAt := time.Now()
	fields := map[string]any{"activity_id": id}
	defer func() { observe(ctx, s.observer, "activity.update", fields, startedAt, err) }()

	current, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := patch.ApplyTo(*current)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	if err := s.activities.Update(ctx, &next); err != nil {
		return nil, err
	}
	if err := s.attachOwner(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *activityService) Delete(ctx context.Context, id string) (err error) {
	startedAt := time.Now()
	defer func() { observe(ctx, s.observer, "activity.delete", map[string]any{"activity_id": id}, startedAt, err) }()
	return s.activities.Delete(ctx, id)
}

// attachOwner fills a.Owner. A dangling owner reference leaves it nil.
func (s *activityService) attachOwner(ctx context.Context, a *domain.Activity) error {
	owner, err := s.users.GetByID(ctx, a.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	a.Owner = owner
	return nil
}
