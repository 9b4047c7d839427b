package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newSubTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "subtask",
		Aliases: []string{"task", "st"},
		Short:   "Manage sub-tasks",
	}
	cmd.AddCommand(
		newSubTaskAddCmd(app),
		newSubTaskListCmd(app),
		newSubTaskUpdateCmd(app),
		newSubTaskEditCmd(app),
		newSubTaskPatchCmd(app),
		newSubTaskRemoveCmd(app),
	)
	return cmd
}

// subTaskFlags are the editable fields shared by add and update.
type subTaskFlags struct {
	title, description, start, end, status, assignee string
	progress                                         int
}

func (f *subTaskFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "Sub-task title")
	fs.StringVar(&f.description, "description", "", "Sub-task description")
	fs.StringVar(&f.start, "start", "", "Start date YYYY-MM-DD")
	fs.StringVar(&f.end, "end", "", "End date YYYY-MM-DD")
	fs.StringVar(&f.status, "status", "", "PLANNED, IN_PROGRESS, COMPLETED or OVERDUE")
	fs.StringVar(&f.assignee, "assignee", "", "Assignee email or ID")
	fs.IntVar(&f.progress, "progress", 0, "Progress percentage 0-100")
}

func newSubTaskAddCmd(app *App) *cobra.Command {
	var f subTaskFlags

	cmd := &cobra.Command{
		Use:   "add TOPIC",
		Short: "Add a dated sub-task to a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveTopic(ctx, app, args[0])
			if err != nil {
				return err
			}
			start, err := domain.ParseDate(f.start)
			if err != nil {
				return err
			}
			end, err := domain.ParseDate(f.end)
			if err != nil {
				return err
			}
			draft := domain.SubTaskDraft{Title: f.title, Start: start, End: end, Progress: f.progress}
			if cmd.Flags().Changed("description") {
				draft.Description = &f.description
			}
			if f.status != "" {
				if draft.Status, err = domain.ParseSubTaskStatus(f.status); err != nil {
					return err
				}
			}
			if f.assignee != "" {
				u, err := resolveUser(ctx, app, f.assignee)
				if err != nil {
					return err
				}
				draft.AssigneeID = &u.ID
			}

			st, err := app.Store.CreateSubTask(ctx, loc.item.ID, draft)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Added sub-task %s %s [%s]\n",
				formatter.StyleGreen.Render("✔"), st.Title, formatter.ShortRange(st.Interval), formatter.TruncID(st.ID))
			if !st.Interval.Within(loc.snap.Activity.Interval) {
				fmt.Fprintf(out, "%s %s (%s)\n", formatter.StyleYellow.Render("!"),
					service.RangeWarning, formatter.ShortRange(loc.snap.Activity.Interval))
			}
			return nil
		},
	}
	f.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newSubTaskListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list TOPIC",
		Aliases: []string{"ls"},
		Short:   "List the sub-tasks of a topic",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			loc, err := resolveTopic(ctx, app, args[0])
			if err != nil {
				return err
			}
			list, err := app.SubTasks.ListByTopic(ctx, loc.item.ID)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No sub-tasks yet."))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubTaskList(list, app.now()))
			return nil
		},
	}
}

func newSubTaskUpdateCmd(app *App) *cobra.Command {
	var f subTaskFlags
	var clearDescription, unassign bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Edit any field of a sub-task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveSubTask(ctx, app, args[0])
			if err != nil {
				return err
			}

			u := domain.SubTaskUpdate{ClearDescription: clearDescription, ClearAssignee: unassign}
			flags := cmd.Flags()
			if flags.Changed("title") {
				u.Title = &f.title
			}
			if flags.Changed("description") {
				u.Description = &f.description
			}
			if flags.Changed("start") {
				d, err := domain.ParseDate(f.start)
				if err != nil {
					return err
				}
				u.Start = &d
			}
			if flags.Changed("end") {
				d, err := domain.ParseDate(f.end)
				if err != nil {
					return err
				}
				u.End = &d
			}
			if flags.Changed("status") {
				s, err := domain.ParseSubTaskStatus(f.status)
				if err != nil {
					return err
				}
				u.Status = &s
			}
			if flags.Changed("progress") {
				u.Progress = &f.progress
			}
			if flags.Changed("assignee") {
				user, err := resolveUser(ctx, app, f.assignee)
				if err != nil {
					return err
				}
				u.AssigneeID = &user.ID
			}

			st, err := app.Store.UpdateSubTask(ctx, loc.item.ID, u)
			if err != nil {
				return err
			}
			printSubTaskSaved(cmd, "Updated", st)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	cmd.Flags().BoolVar(&unassign, "unassign", false, "Remove the assignee")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	cmd.MarkFlagsMutuallyExclusive("assignee", "unassign")
	return cmd
}

func newSubTaskEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a sub-task in an interactive form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveSubTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			users, err := app.Users.List(ctx)
			if err != nil {
				return err
			}

			values := formValuesFrom(loc.item)
			if err := app.runForm(subTaskForm(values, users)); err != nil {
				return err
			}
			u, err := values.toUpdate()
			if err != nil {
				return err
			}
			st, err := app.Store.UpdateSubTask(ctx, loc.item.ID, u)
			if err != nil {
				return err
			}
			printSubTaskSaved(cmd, "Updated", st)
			return nil
		},
	}
}

func newSubTaskPatchCmd(app *App) *cobra.Command {
	var start, end, status string
	var progress int

	cmd := &cobra.Command{
		Use:   "patch ID",
		Short: "Change only the dates, status or progress of a sub-task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveSubTask(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.SubTaskPatch
			flags := cmd.Flags()
			if flags.Changed("start") {
				d, err := domain.ParseDate(start)
				if err != nil {
					return err
				}
				patch.Start = &d
			}
			if flags.Changed("end") {
				d, err := domain.ParseDate(end)
				if err != nil {
					return err
				}
				patch.End = &d
			}
			if flags.Changed("status") {
				s, err := domain.ParseSubTaskStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &s
			}
			if flags.Changed("progress") {
				patch.Progress = &progress
			}

			if _, err := app.Store.FetchSnapshot(ctx, loc.snap.Activity.ID); err != nil {
				return err
			}
			st, err := app.Store.PatchSubTask(ctx, loc.item.ID, patch)
			if err != nil {
				return err
			}
			printSubTaskSaved(cmd, "Patched", st)
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "New start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "New end date YYYY-MM-DD")
	cmd.Flags().StringVar(&status, "status", "", "PLANNED, IN_PROGRESS, COMPLETED or OVERDUE")
	cmd.Flags().IntVar(&progress, "progress", 0, "Progress percentage 0-100")
	return cmd
}

func newSubTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a sub-task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveSubTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeleteSubTask(ctx, loc.item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted sub-task %s\n", formatter.StyleGreen.Render("✔"), loc.item.Title)
			return nil
		},
	}
}

func printSubTaskSaved(cmd *cobra.Command, verb string, st *domain.SubTask) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s sub-task %s %s %s %d%%\n",
		formatter.StyleGreen.Render("✔"), verb, st.Title, formatter.ShortRange(st.Interval),
		formatter.StatusLabel(st.Status), st.Progress)
}
