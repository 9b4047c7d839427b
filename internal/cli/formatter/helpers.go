package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	days := int(math.Round(domain.DateOf(t).Sub(domain.DateOf(now)).Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// HumanTimestamp returns a relative timestamp such as "5m ago".
func HumanTimestamp(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < 0:
		return t.Format("Jan 2, 2006")
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// ShortRange renders an interval as "Jan 10 – Jan 15", adding the year when
// the ends fall in different years.
func ShortRange(iv domain.Interval) string {
	layout := "Jan 2"
	if iv.Start.Year() != iv.End.Year() {
		layout = "Jan 2, 2006"
	}
	return iv.Start.Format(layout) + " – " + iv.End.Format(layout)
}

// StatusLabel is the human label of a status.
func StatusLabel(s domain.SubTaskStatus) string {
	switch s {
	case domain.StatusPlanned:
		return "Planned"
	case domain.StatusInProgress:
		return "In progress"
	case domain.StatusCompleted:
		return "Completed"
	case domain.StatusOverdue:
		return "Overdue"
	default:
		return string(s)
	}
}

// StatusPill returns a colored indicator for a rendered status.
func StatusPill(rs gantt.RenderStatus) string {
	style := StatusStyle(rs)
	switch rs.Status {
	case domain.StatusCompleted:
		return style.Render("✔ " + StatusLabel(rs.Status))
	case domain.StatusOverdue:
		return style.Render("▲ " + StatusLabel(rs.Status))
	case domain.StatusInProgress:
		return style.Render("● " + StatusLabel(rs.Status))
	default:
		return style.Render("○ " + StatusLabel(rs.Status))
	}
}

// ScaleBadge renders the time scale of a chart.
func ScaleBadge(s domain.Scale) string {
	return StylePurple.Render(strings.ToUpper(string(s)))
}

// RoleBadge renders a user role.
func RoleBadge(r domain.UserRole) string {
	switch r {
	case domain.RoleAdmin:
		return StyleYellow.Render(string(r))
	case domain.RoleEditor:
		return StyleBlue.Render(string(r))
	default:
		return StyleDim.Render(string(r))
	}
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// UserName renders a user reference, falling back to the raw ID.
func UserName(u *domain.User, id *string) string {
	switch {
	case u != nil:
		return u.FullName
	case id != nil:
		return TruncID(*id)
	default:
		return Dim("--")
	}
}
