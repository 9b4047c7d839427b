package domain

import (
	"fmt"
	"strings"
	"time"
)

// SubTask is a dated unit of work under a topic. Status is the stored value;
// the rendered classification is derived separately.
type SubTask struct {
	ID          string
	TopicID     string
	Title       string
	Description *string
	Interval    Interval
	Status      SubTaskStatus
	AssigneeID  *string
	Assignee    *User
	Progress    int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy.
func (s *SubTask) Clone() *SubTask {
	if s == nil {
		return nil
	}
	c := *s
	c.Description = CloneStrPtr(s.Description)
	c.AssigneeID = CloneStrPtr(s.AssigneeID)
	c.Assignee = s.Assignee.Clone()
	return &c
}

// IsAssignedTo reports whether userID is the assignee.
func (s *SubTask) IsAssignedTo(userID string) bool {
	return s.AssigneeID != nil && *s.AssigneeID == userID
}

func validateProgress(p int) error {
	if p < 0 || p > 100 {
		return fmt.Errorf("progress %d must be between 0 and 100: %w", p, ErrValidation)
	}
	return nil
}

func validateStatus(s SubTaskStatus) error {
	if !ValidSubTaskStatuses[s] {
		return fmt.Errorf("invalid status %q: %w", s, ErrValidation)
	}
	return nil
}

// SubTaskDraft carries the fields needed to create a sub-task. An empty
// Status defaults to PLANNED.
type SubTaskDraft struct {
	Title       string
	Description *string
	Start       time.Time
	End         time.Time
	Status      SubTaskStatus
	AssigneeID  *string
	Progress    int
}

// Validate checks the required fields, the date order, status and progress.
func (d SubTaskDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	if d.Start.IsZero() || d.End.IsZero() {
		return fmt.Errorf("start and end dates are required: %w", ErrValidation)
	}
	if err := (Interval{Start: d.Start, End: d.End}).Validate(); err != nil {
		return err
	}
	if d.Status != "" {
		if err := validateStatus(d.Status); err != nil {
			return err
		}
	}
	return validateProgress(d.Progress)
}

// SubTaskUpdate is the full edit submitted from a form. Nil fields keep
// their current value; the Clear flags null out optional references.
type SubTaskUpdate struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Start            *time.Time
	End              *time.Time
	Status           *SubTaskStatus
	AssigneeID       *string
	ClearAssignee    bool
	Progress         *int
}

// ApplyTo returns a copy of s with the update merged in, validated as a whole.
func (u SubTaskUpdate) ApplyTo(s SubTask) (SubTask, error) {
	out := *s.Clone()
	if u.Title != nil {
		if strings.TrimSpace(*u.Title) == "" {
			return SubTask{}, fmt.Errorf("title cannot be empty: %w", ErrValidation)
		}
		out.Title = *u.Title
	}
	if u.ClearDescription {
		out.Description = nil
	} else if u.Description != nil {
		out.Description = CloneStrPtr(u.Description)
	}
	out.Interval = Interval{
		Start: DateOf(TimeFromPtrWithDefault(s.Interval.Start, u.Start)),
		End:   DateOf(TimeFromPtrWithDefault(s.Interval.End, u.End)),
	}
	if err := out.Interval.Validate(); err != nil {
		return SubTask{}, err
	}
	if u.Status != nil {
		if err := validateStatus(*u.Status); err != nil {
			return SubTask{}, err
		}
		out.Status = *u.Status
	}
	if u.ClearAssignee {
		out.AssigneeID = nil
		out.Assignee = nil
	} else if u.AssigneeID != nil {
		out.AssigneeID = CloneStrPtr(u.AssigneeID)
		out.Assignee = nil
	}
	if u.Progress != nil {
		if err := validateProgress(*u.Progress); err != nil {
			return SubTask{}, err
		}
		out.Progress = *u.Progress
	}
	return out, nil
}

// SubTaskPatch is the drag-path partial update. Exactly these four fields are
// recognised; nil fields are left untouched.
type SubTaskPatch struct {
	Start    *time.Time
	End      *time.Time
	Status   *SubTaskStatus
	Progress *int
}

// MovePatch builds a patch that moves a sub-task to iv.
func MovePatch(iv Interval) SubTaskPatch {
	start, end := DateOf(iv.Start), DateOf(iv.End)
	return SubTaskPatch{Start: &start, End: &end}
}

// IsEmpty reports whether the patch sets no field.
func (p SubTaskPatch) IsEmpty() bool {
	return p.Start == nil && p.End == nil && p.Status == nil && p.Progress == nil
}

// Validate checks the standalone fields. Date order is checked by ApplyTo,
// since it depends on the current value.
func (p SubTaskPatch) Validate() error {
	if p.Status != nil {
		if err := validateStatus(*p.Status); err != nil {
			return err
		}
	}
	if p.Progress != nil {
		if err := validateProgress(*p.Progress); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTo returns a copy of s with the patch fields written in. The input is
// never mutated.
func (p SubTaskPatch) ApplyTo(s SubTask) (SubTask, error) {
	if err := p.Validate(); err != nil {
		return SubTask{}, err
	}
	out := *s.Clone()
	out.Interval = Interval{
		Start: DateOf(TimeFromPtrWithDefault(s.Interval.Start, p.Start)),
		End:   DateOf(TimeFromPtrWithDefault(s.Interval.End, p.End)),
	}
	if err := out.Interval.Validate(); err != nil {
		return SubTask{}, err
	}
	if p.Status != nil {
		out.Status = *p.Status
	}
	if p.Progress != nil {
		out.Progress = *p.Progress
	}
	return out, nil
}
