package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/spf13/cobra"
)

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activity",
		Aliases: []string{"act"},
		Short:   "Manage activities",
	}
	cmd.AddCommand(
		newActivityAddCmd(app),
		newActivityListCmd(app),
		newActivityShowCmd(app),
		newActivityUpdateCmd(app),
		newActivityRemoveCmd(app),
		newActivityImportCmd(app),
	)
	return cmd
}

func newActivityAddCmd(app *App) *cobra.Command {
	var name, description, start, end, owner string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			startDate, err := domain.ParseDate(start)
			if err != nil {
				return err
			}
			endDate, err := domain.ParseDate(end)
			if err != nil {
				return err
			}
			ownerID, _ := actorID(ctx)
			if owner != "" {
				u, err := resolveUser(ctx, app, owner)
				if err != nil {
					return err
				}
				ownerID = u.ID
			}
			if ownerID == "" {
				return fmt.Errorf("an owner is required: pass --owner or --actor")
			}

			draft := domain.ActivityDraft{Name: name, Start: startDate, End: endDate, OwnerID: ownerID}
			if cmd.Flags().Changed("description") {
				draft.Description = &description
			}
			a, err := app.Store.CreateActivity(ctx, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Created activity %s %s [%s]\n",
				formatter.StyleGreen.Render("✔"), a.Name, formatter.ShortRange(a.Interval), formatter.TruncID(a.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Activity name (required)")
	cmd.Flags().StringVar(&description, "description", "", "Markdown description")
	cmd.Flags().StringVar(&start, "start", "", "Start date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&end, "end", "", "End date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&owner, "owner", "", "Owner email or ID (defaults to the actor)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newActivityListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List activities",
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := app.Store.FetchActivities(cmd.Context())
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No activities yet. Create one with: gantt activity add"))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityList(list, app.now()))
			return nil
		},
	}
}

func newActivityShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show activity details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			full, err := app.Activities.GetByID(ctx, a.ID)
			if err != nil {
				return err
			}
			snap, err := app.Gantt.Snapshot(ctx, a.ID, app.now())
			if err != nil {
				return err
			}
			if width <= 0 {
				width = chartWidth(app, cmd)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatActivityDetail(formatter.ActivityDetail{
				Activity: full,
				Topics:   snap.Topics,
				SubTasks: snap.SubTasks,
				Now:      snap.Now,
				Width:    width,
			}))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Render width (defaults to the terminal width)")
	return cmd
}

func newActivityUpdateCmd(app *App) *cobra.Command {
	var name, description, start, end string
	var clearDescription bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.ActivityPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			patch.ClearDescription = clearDescription
			if cmd.Flags().Changed("start") {
				d, err := domain.ParseDate(start)
				if err != nil {
					return err
				}
				patch.Start = &d
			}
			if cmd.Flags().Changed("end") {
				d, err := domain.ParseDate(end)
				if err != nil {
					return err
				}
				patch.End = &d
			}

			updated, err := app.Store.UpdateActivity(ctx, a.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated activity %s %s\n",
				formatter.StyleGreen.Render("✔"), updated.Name, formatter.ShortRange(updated.Interval))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&description, "description", "", "New markdown description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	cmd.Flags().StringVar(&start, "start", "", "New start date YYYY-MM-DD")
	cmd.Flags().StringVar(&end, "end", "", "New end date YYYY-MM-DD")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	return cmd
}

func newActivityRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete an activity with its topics and sub-tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeleteActivity(ctx, a.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted activity %s\n", formatter.StyleGreen.Render("✔"), a.Name)
			return nil
		},
	}
}
