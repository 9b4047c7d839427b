package formatter

import (
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/stretchr/testify/assert"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI makes rendered output terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today", now, "Today"},
		{"tomorrow", now.Add(24 * time.Hour), "Tomorrow"},
		{"yesterday", now.Add(-24 * time.Hour), "Yesterday"},
		{"3 days future", now.Add(3 * 24 * time.Hour), "In 3d"},
		{"3 days past", now.Add(-3 * 24 * time.Hour), "3d ago"},
		{"3 weeks future", now.Add(21 * 24 * time.Hour), "In 3w"},
		{"3 months future", now.Add(90 * 24 * time.Hour), "In 3mo"},
		{"2 weeks past", now.Add(-14 * 24 * time.Hour), "2w ago"},
		{"3 months past", now.Add(-90 * 24 * time.Hour), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestHumanTimestamp(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Just now", HumanTimestamp(now.Add(-10*time.Second), now))
	assert.Equal(t, "5m ago", HumanTimestamp(now.Add(-5*time.Minute), now))
	assert.Equal(t, "3h ago", HumanTimestamp(now.Add(-3*time.Hour), now))
	assert.Equal(t, "Jan 7, 2025", HumanTimestamp(now.AddDate(0, 0, -3), now))
}

func TestShortRange(t *testing.T) {
	assert.Equal(t, "Jan 10 – Jan 15", ShortRange(domain.Interval{
		Start: domain.NewDate(2025, 1, 10), End: domain.NewDate(2025, 1, 15),
	}))
	assert.Equal(t, "Dec 30, 2024 – Jan 2, 2025", ShortRange(domain.Interval{
		Start: domain.NewDate(2024, 12, 30), End: domain.NewDate(2025, 1, 2),
	}))
}

func TestStatusPill(t *testing.T) {
	tests := []struct {
		rs   gantt.RenderStatus
		want string
	}{
		{gantt.RenderStatus{Status: domain.StatusPlanned}, "○ Planned"},
		{gantt.RenderStatus{Status: domain.StatusInProgress}, "● In progress"},
		{gantt.RenderStatus{Status: domain.StatusOverdue, IsPast: true}, "▲ Overdue"},
		{gantt.RenderStatus{Status: domain.StatusCompleted, Weight: gantt.WeightDone}, "✔ Completed"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rs.Status), func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(StatusPill(tt.rs)))
		})
	}
}

func TestRenderProgress(t *testing.T) {
	assert.Equal(t, "[█████░░░░░]  50%", stripANSI(RenderProgress(50, 10)))
	assert.Equal(t, "[░░░░░░░░░░]   0%", stripANSI(RenderProgress(-5, 10)))
	assert.Equal(t, "[██████████] 100%", stripANSI(RenderProgress(140, 10)))
	assert.Equal(t, "[░░]   0%", stripANSI(RenderProgress(0, 1)), "tiny width clamps to 2")
}

func TestRenderTable_TruncatesLongCells(t *testing.T) {
	long := "An extremely long sub-task title that keeps going well past any sane column"
	out := stripANSI(RenderTable([]string{"TITLE"}, [][]string{{long}}))
	assert.Contains(t, out, "…")
	assert.NotContains(t, out, "sane column")
}

func TestTruncIDAndUserName(t *testing.T) {
	assert.Equal(t, "12345678", stripANSI(TruncID("1234567890abcdef")))
	assert.Equal(t, "abc", stripANSI(TruncID("abc")))

	id := "0123456789"
	assert.Equal(t, "Ana", UserName(&domain.User{FullName: "Ana"}, &id))
	assert.Equal(t, "01234567", stripANSI(UserName(nil, &id)))
	assert.Equal(t, "--", stripANSI(UserName(nil, nil)))
}
