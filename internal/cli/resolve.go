package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
)

// matchID picks the item whose ID equals input, falling back to a unique ID
// prefix.
func matchID[T any](kind, input string, items []T, id func(T) string) (T, error) {
	var zero T
	input = strings.TrimSpace(input)
	if input == "" {
		return zero, fmt.Errorf("%s ID is required", kind)
	}
	var matches []T
	for _, it := range items {
		if id(it) == input {
			return it, nil
		}
		if strings.HasPrefix(id(it), input) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveActivity(ctx context.Context, app *App, input string) (*domain.Activity, error) {
	list, err := app.Activities.List(ctx)
	if err != nil {
		return nil, err
	}
	return matchID("activity", input, list, func(a *domain.Activity) string { return a.ID })
}

// resolveUser accepts an email address or a user ID prefix.
func resolveUser(ctx context.Context, app *App, input string) (*domain.User, error) {
	if strings.Contains(input, "@") {
		u, err := app.Users.GetByEmail(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", input, err)
		}
		return u, nil
	}
	list, err := app.Users.List(ctx)
	if err != nil {
		return nil, err
	}
	return matchID("user", input, list, func(u *domain.User) string { return u.ID })
}

// located is a topic or sub-task together with the snapshot of its activity.
type located[T any] struct {
	item T
	snap *domain.GanttSnapshot
}

// snapshots loads the read model of every activity. Topics and sub-tasks are
// resolved against it since their IDs are only unique globally.
func snapshots(ctx context.Context, app *App) ([]*domain.GanttSnapshot, error) {
	list, err := app.Activities.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.GanttSnapshot, 0, len(list))
	for _, a := range list {
		snap, err := app.Gantt.Snapshot(ctx, a.ID, app.now())
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func resolveTopic(ctx context.Context, app *App, input string) (located[*domain.Topic], error) {
	snaps, err := snapshots(ctx, app)
	if err != nil {
		return located[*domain.Topic]{}, err
	}
	var all []located[*domain.Topic]
	for _, s := range snaps {
		for _, t := range s.Topics {
			all = append(all, located[*domain.Topic]{item: t, snap: s})
		}
	}
	return matchID("topic", input, all, func(l located[*domain.Topic]) string { return l.item.ID })
}

func resolveSubTask(ctx context.Context, app *App, input string) (located[*domain.SubTask], error) {
	snaps, err := snapshots(ctx, app)
	if err != nil {
		return located[*domain.SubTask]{}, err
	}
	var all []located[*domain.SubTask]
	for _, s := range snaps {
		for _, st := range s.SubTasks {
			all = append(all, located[*domain.SubTask]{item: st, snap: s})
		}
	}
	return matchID("sub-task", input, all, func(l located[*domain.SubTask]) string { return l.item.ID })
}
