package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/spf13/cobra"
)

func newNotifyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notify",
		Aliases: []string{"inbox"},
		Short:   "Read the acting user's notifications",
	}
	cmd.AddCommand(newNotifyListCmd(app), newNotifyReadCmd(app), newNotifyRemoveCmd(app))
	return cmd
}

// inboxOwner is the actor whose notifications are shown.
func inboxOwner(cmd *cobra.Command, app *App) (string, error) {
	ctx, err := commandContext(cmd, app)
	if err != nil {
		return "", err
	}
	id, ok := actorID(ctx)
	if !ok {
		return "", fmt.Errorf("no acting user: pass --actor or set actor in the config")
	}
	return id, nil
}

func newNotifyListCmd(app *App) *cobra.Command {
	var unreadOnly bool
	var limit int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := inboxOwner(cmd, app)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			list, err := app.Notifications.List(ctx, userID, unreadOnly, limit)
			if err != nil {
				return err
			}
			unread, err := app.Notifications.UnreadCount(ctx, userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatNotifications(list, unread, app.now()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&unreadOnly, "unread", false, "Only unread notifications")
	cmd.Flags().IntVar(&limit, "limit", service.DefaultNotificationLimit, "Maximum notifications to show")
	return cmd
}

func newNotifyReadCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "read [ID]",
		Short: "Mark one or all notifications as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := inboxOwner(cmd, app)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if all {
				n, err := app.Notifications.MarkAllRead(ctx, userID)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s Marked %d notifications as read\n", formatter.StyleGreen.Render("✔"), n)
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("pass a notification ID or --all")
			}
			id, err := resolveNotification(cmd, app, userID, args[0])
			if err != nil {
				return err
			}
			if err := app.Notifications.MarkRead(ctx, id, userID); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Marked %s as read\n", formatter.StyleGreen.Render("✔"), formatter.TruncID(id))
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Mark every notification as read")
	return cmd
}

func newNotifyRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a notification",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := inboxOwner(cmd, app)
			if err != nil {
				return err
			}
			id, err := resolveNotification(cmd, app, userID, args[0])
			if err != nil {
				return err
			}
			if err := app.Notifications.Delete(cmd.Context(), id, userID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted notification %s\n", formatter.StyleGreen.Render("✔"), formatter.TruncID(id))
			return nil
		},
	}
}

func resolveNotification(cmd *cobra.Command, app *App, userID, input string) (string, error) {
	list, err := app.Notifications.List(cmd.Context(), userID, false, 0)
	if err != nil {
		return "", err
	}
	ids := make([]string, 0, len(list))
	for _, n := range list {
		ids = append(ids, n.ID)
	}
	return matchID("notification", input, ids, func(id string) string { return id })
}
