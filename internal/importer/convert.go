package importer

import (
	"fmt"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted schema: fresh entities ready to be stored in order.
type Plan struct {
	Activity *domain.Activity
	Topics   []*domain.Topic
	SubTasks []*domain.SubTask
}

// UserLookup maps an email address to a user ID.
type UserLookup func(email string) (string, error)

// Convert turns a validated schema into domain entities. ownerID is used when
// the file names no owner. Call ValidateImportSchema first; Convert assumes
// the dates parse.
func Convert(schema *ImportSchema, ownerID string, lookup UserLookup) (*Plan, error) {
	now := time.Now().UTC()

	if schema.Activity.Owner != "" {
		id, err := lookup(schema.Activity.Owner)
		if err != nil {
			return nil, fmt.Errorf("activity owner %s: %w", schema.Activity.Owner, err)
		}
		ownerID = id
	}

	start, end, err := parseRange(schema.Activity.Start, schema.Activity.End)
	if err != nil {
		return nil, err
	}
	activity := &domain.Activity{
		ID:          uuid.New().String(),
		Name:        schema.Activity.Name,
		Description: domain.CloneStrPtr(schema.Activity.Description),
		Interval:    domain.Interval{Start: start, End: end},
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	plan := &Plan{Activity: activity}
	refMap := make(map[string]string, len(schema.Topics)) // ref -> ID
	for _, t := range schema.Topics {
		topic := &domain.Topic{
			ID:          uuid.New().String(),
			ActivityID:  activity.ID,
			Title:       t.Title,
			Description: domain.CloneStrPtr(t.Description),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		refMap[t.Ref] = topic.ID
		plan.Topics = append(plan.Topics, topic)
	}

	for _, s := range schema.SubTasks {
		start, end, err := parseRange(s.Start, s.End)
		if err != nil {
			return nil, err
		}
		status := domain.StatusPlanned
		if s.Status != "" {
			status = domain.SubTaskStatus(s.Status)
		}
		st := &domain.SubTask{
			ID:          uuid.New().String(),
			TopicID:     refMap[s.TopicRef],
			Title:       s.Title,
			Description: domain.CloneStrPtr(s.Description),
			Interval:    domain.Interval{Start: start, End: end},
			Status:      status,
			Progress:    domain.IntFromPtrWithDefault(0, s.Progress),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if s.Assignee != nil && *s.Assignee != "" {
			id, err := lookup(*s.Assignee)
			if err != nil {
				return nil, fmt.Errorf("assignee of %q: %w", s.Title, err)
			}
			st.AssigneeID = &id
		}
		plan.SubTasks = append(plan.SubTasks, st)
	}
	return plan, nil
}

func parseRequired(field, s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, s)
	}
	return t, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	s, err := domain.ParseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	e, err := domain.ParseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return s, e, nil
}
