package domain

import (
	"fmt"
	"strings"
	"time"
)

// User is referenced weakly by activities (owner) and sub-tasks (assignee).
type User struct {
	ID        string
	Email     string
	FullName  string
	Role      UserRole
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the required user fields.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" || !strings.Contains(u.Email, "@") {
		return fmt.Errorf("a valid email is required: %w", ErrValidation)
	}
	if strings.TrimSpace(u.FullName) == "" {
		return fmt.Errorf("full name is required: %w", ErrValidation)
	}
	if !ValidUserRoles[u.Role] {
		return fmt.Errorf("invalid role %q: %w", u.Role, ErrValidation)
	}
	return nil
}

// Clone returns an independent copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
