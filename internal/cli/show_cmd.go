package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/spf13/cobra"
)

func newShowCmd(app *App) *cobra.Command {
	var width int

	cmd := &cobra.Command{
		Use:   "show ACTIVITY",
		Short: "Print the Gantt chart of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			snap, err := app.Store.FetchSnapshot(ctx, a.ID)
			if err != nil {
				return err
			}
			if width <= 0 {
				width = chartWidth(app, cmd)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatChart(snap, formatter.ChartOptions{Width: width}))
			return nil
		},
	}
	cmd.Flags().IntVar(&width, "width", 0, "Chart width in columns (defaults to the terminal width)")
	return cmd
}

func newDragCmd(app *App) *cobra.Command {
	var pixels, ppd float64

	cmd := &cobra.Command{
		Use:   "drag SUBTASK",
		Short: "Move a sub-task by a horizontal pixel offset",
		Long: `Move a sub-task the way a timeline drag would: the pixel offset is
converted to whole days at the given pixels-per-day and both dates shift
by that many days.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveSubTask(ctx, app, args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ppd") {
				ppd = app.Config.PixelsPerDay
				if ppd <= 0 {
					ppd = config.DefaultPixelsPerDay
				}
			}

			orig := loc.item.Interval
			moved, err := gantt.ApplyDrag(orig, pixels, ppd)
			if err != nil {
				return err
			}
			days := domain.DaysBetween(orig.Start, moved.Start)
			out := cmd.OutOrStdout()
			if days == 0 {
				fmt.Fprintf(out, "%s %s stays at %s\n", formatter.Dim("·"), loc.item.Title, formatter.ShortRange(orig))
				return nil
			}

			if _, err := app.Store.FetchSnapshot(ctx, loc.snap.Activity.ID); err != nil {
				return err
			}
			st, err := app.Store.PatchSubTask(ctx, loc.item.ID, domain.MovePatch(moved))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s Moved %s %s → %s (%+d days)\n", formatter.StyleGreen.Render("✔"),
				st.Title, formatter.ShortRange(orig), formatter.ShortRange(st.Interval), days)
			return nil
		},
	}
	cmd.Flags().Float64Var(&pixels, "pixels", 0, "Horizontal drag offset in pixels; negative moves earlier (required)")
	cmd.Flags().Float64Var(&ppd, "ppd", config.DefaultPixelsPerDay, "Pixels per day of the rendered timeline")
	_ = cmd.MarkFlagRequired("pixels")
	return cmd
}
