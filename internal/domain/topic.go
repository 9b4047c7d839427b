package domain

import (
	"fmt"
	"strings"
	"time"
)

// Topic groups sub-tasks inside an activity.
type Topic struct {
	ID          string
	ActivityID  string
	Title       string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone returns a deep copy.
func (t *Topic) Clone() *Topic {
	if t == nil {
		return nil
	}
	c := *t
	c.Description = CloneStrPtr(t.Description)
	return &c
}

type TopicDraft struct {
	Title       string
	Description *string
}

func (d TopicDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrValidation)
	}
	return nil
}

// TopicPatch edits a topic; an empty Title keeps the current one.
type TopicPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
}

func (p TopicPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("title cannot be empty: %w", ErrValidation)
	}
	return nil
}

// ApplyTo returns a copy of t with the patch merged in.
func (p TopicPatch) ApplyTo(t Topic) Topic {
	out := *t.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.ClearDescription {
		out.Description = nil
	} else if p.Description != nil {
		out.Description = CloneStrPtr(p.Description)
	}
	return out
}
