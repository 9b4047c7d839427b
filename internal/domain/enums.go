package domain

import "fmt"

type SubTaskStatus string

const (
	StatusPlanned    SubTaskStatus = "PLANNED"
	StatusInProgress SubTaskStatus = "IN_PROGRESS"
	StatusCompleted  SubTaskStatus = "COMPLETED"
	StatusOverdue    SubTaskStatus = "OVERDUE"
)

// ValidSubTaskStatuses is the canonical set of accepted status strings.
var ValidSubTaskStatuses = map[SubTaskStatus]bool{
	StatusPlanned:    true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusOverdue:    true,
}

// ParseSubTaskStatus accepts the canonical upper-case names.
func ParseSubTaskStatus(s string) (SubTaskStatus, error) {
	st := SubTaskStatus(s)
	if !ValidSubTaskStatuses[st] {
		return "", fmt.Errorf("invalid status %q: %w", s, ErrValidation)
	}
	return st, nil
}

// Scale is the display granularity of a timeline.
type Scale string

const (
	ScaleDay   Scale = "day"
	ScaleWeek  Scale = "week"
	ScaleMonth Scale = "month"
)

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
	RoleViewer UserRole = "viewer"
)

// ValidUserRoles is the canonical set of accepted role strings.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin: true, RoleEditor: true, RoleViewer: true,
}

type NotificationType string

const (
	NotifyTaskCreated   NotificationType = "TASK_CREATED"
	NotifyTaskUpdated   NotificationType = "TASK_UPDATED"
	NotifyTaskDeleted   NotificationType = "TASK_DELETED"
	NotifyTaskAssigned  NotificationType = "TASK_ASSIGNED"
	NotifyTaskCompleted NotificationType = "TASK_COMPLETED"
	NotifyTaskOverdue   NotificationType = "TASK_OVERDUE"
	NotifyDateChanged   NotificationType = "DATE_CHANGED"
	NotifyStatusChanged NotificationType = "STATUS_CHANGED"
)
