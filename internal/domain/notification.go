package domain

import "time"

type Notification struct {
	ID           string
	Type         NotificationType
	Message      string
	ActivityID   *string
	SubTaskID    *string
	TargetUserID string
	CreatedByID  *string
	Read         bool
	CreatedAt    time.Time
}
