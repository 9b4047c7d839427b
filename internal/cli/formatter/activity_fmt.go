package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
)

// FormatActivityList renders activities inside a bordered box.
func FormatActivityList(activities []*domain.Activity, now time.Time) string {
	headers := []string{"ID", "NAME", "RANGE", "SCALE", "OWNER", "ENDS"}
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		scale, _ := gantt.SelectScale(a.Interval.Start, a.Interval.End)
		rows = append(rows, []string{
			TruncID(a.ID),
			Bold(a.Name),
			ShortRange(a.Interval),
			ScaleBadge(scale),
			UserName(a.Owner, &a.OwnerID),
			RelativeDateFrom(a.Interval.End, now),
		})
	}
	return RenderBox("Activities", RenderTable(headers, rows))
}

// ActivityDetail is everything shown by "activity show".
type ActivityDetail struct {
	Activity *domain.Activity
	Topics   []*domain.Topic
	SubTasks []*domain.SubTask
	Now      time.Time
	Width    int
}

// FormatActivityDetail renders metadata, the markdown description and a
// per-status summary of an activity.
func FormatActivityDetail(d ActivityDetail) string {
	a := d.Activity
	var b strings.Builder
	b.WriteString(Bold(a.Name) + "\n\n")
	fmt.Fprintf(&b, "%s  %s\n", Dim("ID    "), a.ID)
	fmt.Fprintf(&b, "%s  %s\n", Dim("OWNER "), UserName(a.Owner, &a.OwnerID))
	fmt.Fprintf(&b, "%s  %s (%d days)\n", Dim("RANGE "), ShortRange(a.Interval), a.Interval.Days())
	scale, _ := gantt.SelectScale(a.Interval.Start, a.Interval.End)
	fmt.Fprintf(&b, "%s  %s\n", Dim("SCALE "), ScaleBadge(scale))

	if a.Description != nil {
		if md := RenderMarkdown(*a.Description, d.Width-8); md != "" {
			b.WriteString("\n" + md + "\n")
		}
	}

	counts := map[domain.SubTaskStatus]int{}
	for _, st := range d.SubTasks {
		counts[gantt.Classify(st.Status, st.Interval, d.Now).Status]++
	}
	b.WriteString("\n" + Header("Summary") + "\n")
	fmt.Fprintf(&b, "%d topics, %d sub-tasks\n", len(d.Topics), len(d.SubTasks))
	for _, s := range []domain.SubTaskStatus{domain.StatusPlanned, domain.StatusInProgress, domain.StatusOverdue, domain.StatusCompleted} {
		if counts[s] == 0 {
			continue
		}
		rs := gantt.RenderStatus{Status: s}
		if s == domain.StatusCompleted {
			rs.Weight = gantt.WeightDone
		}
		fmt.Fprintf(&b, "  %s  %d\n", StatusPill(rs), counts[s])
	}
	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

// FormatTopicList renders the topics of an activity with their sub-task counts.
func FormatTopicList(topics []*domain.Topic, counts map[string]int) string {
	headers := []string{"#", "ID", "TITLE", "SUB-TASKS"}
	rows := make([][]string, 0, len(topics))
	for i, t := range topics {
		rows = append(rows, []string{
			Dim(fmt.Sprintf("%d", i+1)),
			TruncID(t.ID),
			Bold(t.Title),
			fmt.Sprintf("%d", counts[t.ID]),
		})
	}
	return RenderBox("Topics", RenderTable(headers, rows))
}

// FormatSubTaskList renders sub-tasks classified against now.
func FormatSubTaskList(subtasks []*domain.SubTask, now time.Time) string {
	headers := []string{"ID", "TITLE", "DATES", "STATUS", "PROGRESS", "ASSIGNEE"}
	rows := make([][]string, 0, len(subtasks))
	for _, st := range subtasks {
		rows = append(rows, []string{
			TruncID(st.ID),
			Bold(st.Title),
			ShortRange(st.Interval),
			StatusPill(gantt.Classify(st.Status, st.Interval, now)),
			RenderProgress(st.Progress, 10),
			UserName(st.Assignee, st.AssigneeID),
		})
	}
	return RenderBox("Sub-tasks", RenderTable(headers, rows))
}
