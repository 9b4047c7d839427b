package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

func notificationIcon(t domain.NotificationType) string {
	switch t {
	case domain.NotifyTaskAssigned:
		return StyleBlue.Render("◆")
	case domain.NotifyTaskCompleted:
		return StyleGreen.Render("✔")
	case domain.NotifyTaskOverdue:
		return StyleRed.Render("▲")
	case domain.NotifyDateChanged:
		return StyleYellow.Render("↔")
	case domain.NotifyStatusChanged:
		return StylePurple.Render("●")
	default:
		return StyleDim.Render("•")
	}
}

// FormatNotifications renders an inbox, unread entries in bold.
func FormatNotifications(list []*domain.Notification, unread int, now time.Time) string {
	if len(list) == 0 {
		return Dim("No notifications.")
	}
	var b strings.Builder
	for _, n := range list {
		msg := n.Message
		if !n.Read {
			msg = Bold(msg)
		}
		fmt.Fprintf(&b, "%s %s  %s  %s\n", notificationIcon(n.Type), TruncID(n.ID), msg, Dim(HumanTimestamp(n.CreatedAt, now)))
	}
	title := fmt.Sprintf("Notifications (%d unread)", unread)
	return RenderBox(title, strings.TrimRight(b.String(), "\n"))
}
