package domain

import (
	"fmt"
	"strings"
	"time"
)

// Activity is the root of a timeline. The owner is a weak reference: OwnerID
// is authoritative and Owner is populated only by lookups.
type Activity struct {
	ID          string
	Name        string
	Description *string
	Interval    Interval
	OwnerID     string
	Owner       *User
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy.
func (a *Activity) Clone() *Activity {
	if a == nil {
		return nil
	}
	c := *a
	c.Description = CloneStrPtr(a.Description)
	c.Owner = a.Owner.Clone()
	return &c
}

// ActivityDraft carries the fields needed to create an activity.
type ActivityDraft struct {
	Name        string
	Description *string
	Start       time.Time
	End         time.Time
	OwnerID     string
}

// Validate checks required fields and the date range.
func (d ActivityDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return fmt.Errorf("name is required: %w", ErrValidation)
	}
	if d.Start.IsZero() || d.End.IsZero() {
		return fmt.Errorf("start and end dates are required: %w", ErrValidation)
	}
	if strings.TrimSpace(d.OwnerID) == "" {
		return fmt.Errorf("owner is required: %w", ErrValidation)
	}
	return Interval{Start: d.Start, End: d.End}.Validate()
}

// ActivityPatch edits an activity; nil fields are left untouched.
type ActivityPatch struct {
	Name             *string
	Description      *string
	ClearDescription bool
	Start            *time.Time
	End              *time.Time
}

// ApplyTo returns a copy of a with the patch merged in. The merged interval is
// validated.
func (p ActivityPatch) ApplyTo(a Activity) (Activity, error) {
	out := *a.Clone()
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return Activity{}, fmt.Errorf("name cannot be empty: %w", ErrValidation)
		}
		out.Name = *p.Name
	}
	if p.ClearDescription {
		out.Description = nil
	} else if p.Description != nil {
		out.Description = CloneStrPtr(p.Description)
	}
	out.Interval = Interval{
		Start: DateOf(TimeFromPtrWithDefault(a.Interval.Start, p.Start)),
		End:   DateOf(TimeFromPtrWithDefault(a.Interval.End, p.End)),
	}
	if err := out.Interval.Validate(); err != nil {
		return Activity{}, err
	}
	return out, nil
}
