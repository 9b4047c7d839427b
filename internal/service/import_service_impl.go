package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/db"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/importer"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

func (s *importService) ImportActivity(ctx context.Context, path string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return s.ImportActivityFromSchema(ctx, schema)
}

// ImportActivityFromSchema stores a whole plan in one transaction: either
// everything lands or nothing does.
func (s *importService) ImportActivityFromSchema(ctx context.Context, schema *importer.ImportSchema) (_ *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"topics": len(schema.Topics), "sub_tasks": len(schema.SubTasks)}
	defer func() { observe(ctx, s.observer, "activity.import", fields, startedAt, err) }()

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}
	actor, _ := ActorFrom(ctx)
	if schema.Activity.Owner == "" && actor == "" {
		return nil, fmt.Errorf("activity.owner is required when no acting user is set: %w", domain.ErrValidation)
	}

	var result *ImportResult
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		lookup := func(email string) (string, error) {
			u, err := repos.users.GetByEmail(ctx, email)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return "", fmt.Errorf("no user with email %s: %w", email, domain.ErrValidation)
				}
				return "", err
			}
			return u.ID, nil
		}

		plan, err := importer.Convert(schema, actor, lookup)
		if err != nil {
			return err
		}
		owner, err := repos.users.GetByID(ctx, plan.Activity.OwnerID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("owner %s does not exist: %w", plan.Activity.OwnerID, domain.ErrValidation)
			}
			return err
		}
		plan.Activity.Owner = owner

		if err := repos.activities.Create(ctx, plan.Activity); err != nil {
			return err
		}
		for _, t := range plan.Topics {
			if err := repos.topics.Create(ctx, t); err != nil {
				return err
			}
		}

		var warnings []string
		n := newNotifier(ctx, repos.notifications, plan.Activity.ID)
		for _, st := range plan.SubTasks {
			if err := repos.checkAssignee(ctx, st.AssigneeID); err != nil {
				return err
			}
			if !st.Interval.Within(plan.Activity.Interval) {
				warnings = append(warnings, fmt.Sprintf("%s: %s", st.Title, RangeWarning))
			}
			if err := repos.subtasks.Create(ctx, st); err != nil {
				return err
			}
			if a := assigneeOf(st); a != "" {
				if err := n.send(ctx, domain.NotifyTaskAssigned, a, st,
					fmt.Sprintf("%q was assigned to you.", st.Title)); err != nil {
					return err
				}
			}
		}

		result = &ImportResult{
			Activity:     plan.Activity,
			TopicCount:   len(plan.Topics),
			SubTaskCount: len(plan.SubTasks),
			Warnings:     warnings,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["activity_id"] = result.Activity.ID
	fields["warnings"] = len(result.Warnings)
	return result, nil
}

func formatValidationErrors(errs []error) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("import validation failed (%d errors):\n  - %s: %w",
		len(errs), strings.Join(msgs, "\n  - "), domain.ErrValidation)
}
