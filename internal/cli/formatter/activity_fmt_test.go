package formatter

import (
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatActivityList(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	owner := &domain.User{ID: "u-1", FullName: "Olga Owner"}
	out := stripANSI(FormatActivityList([]*domain.Activity{{
		ID: "a1b2c3d4e5", Name: "Launch", OwnerID: owner.ID, Owner: owner,
		Interval: domain.Interval{Start: domain.NewDate(2025, 1, 1), End: domain.NewDate(2025, 3, 1)},
	}}, now))

	assert.Contains(t, out, "ACTIVITIES")
	assert.Contains(t, out, "a1b2c3d4")
	assert.Contains(t, out, "Olga Owner")
	assert.Contains(t, out, "WEEK")
	assert.Contains(t, out, "In 7w")
}

func TestFormatActivityDetail(t *testing.T) {
	desc := "## Goals\n\n- ship the **beta**\n"
	a := &domain.Activity{
		ID: "act-1", Name: "Launch", Description: &desc, OwnerID: "u-9",
		Interval: domain.Interval{Start: domain.NewDate(2025, 1, 1), End: domain.NewDate(2025, 1, 20)},
	}
	out := stripANSI(FormatActivityDetail(ActivityDetail{
		Activity: a,
		Topics:   []*domain.Topic{{ID: "t-1"}},
		SubTasks: []*domain.SubTask{
			{Status: domain.StatusPlanned, Interval: domain.Interval{Start: domain.NewDate(2025, 1, 1), End: domain.NewDate(2025, 1, 2)}},
			{Status: domain.StatusCompleted, Interval: domain.Interval{Start: domain.NewDate(2025, 1, 1), End: domain.NewDate(2025, 1, 2)}},
		},
		Now:   domain.NewDate(2025, 1, 5),
		Width: 80,
	}))

	assert.Contains(t, out, "Goals")
	assert.Contains(t, out, "beta")
	assert.Contains(t, out, "20 days")
	assert.Contains(t, out, "1 topics, 2 sub-tasks")
	assert.Contains(t, out, "▲ Overdue")
	assert.Contains(t, out, "✔ Completed")
	assert.NotContains(t, out, "○ Planned", "the elapsed planned task renders overdue")
}

func TestFormatNotifications(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "No notifications.", stripANSI(FormatNotifications(nil, 0, now)))

	out := stripANSI(FormatNotifications([]*domain.Notification{
		{ID: "n-123456789", Type: domain.NotifyDateChanged, Message: `Dates of "Copy" changed.`, CreatedAt: now.Add(-2 * time.Hour)},
	}, 1, now))
	assert.Contains(t, out, "(1 UNREAD)")
	assert.Contains(t, out, "↔")
	assert.Contains(t, out, "2h ago")
}

func TestFormatUserList(t *testing.T) {
	out := stripANSI(FormatUserList([]*domain.User{
		{ID: "u-1", FullName: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin, Active: true},
		{ID: "u-2", FullName: "Bo", Email: "bo@example.com", Role: domain.RoleViewer},
	}))
	assert.Contains(t, out, "ana@example.com")
	assert.Contains(t, out, "admin")
	assert.Contains(t, out, "no")
}
