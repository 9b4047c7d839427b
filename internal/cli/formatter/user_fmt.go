package formatter

import "github.com/alexanderramin/gantt/internal/domain"

func FormatUserList(users []*domain.User) string {
	headers := []string{"ID", "NAME", "EMAIL", "ROLE", "ACTIVE"}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		active := StyleGreen.Render("yes")
		if !u.Active {
			active = Dim("no")
		}
		rows = append(rows, []string{TruncID(u.ID), Bold(u.FullName), u.Email, RoleBadge(u.Role), active})
	}
	return RenderBox("Users", RenderTable(headers, rows))
}
