package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newActivityImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Create an activity with its topics and sub-tasks from a JSON or YAML plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			result, err := app.Imports.ImportActivity(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			a := result.Activity
			fmt.Fprintf(out, "%s Imported activity %s %s [%s]\n",
				formatter.StyleGreen.Render("✔"), a.Name, formatter.ShortRange(a.Interval), formatter.TruncID(a.ID))
			fmt.Fprintf(out, "  %d topics, %d sub-tasks\n", result.TopicCount, result.SubTaskCount)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "%s %s\n", formatter.StyleYellow.Render("!"), w)
			}
			return nil
		},
	}
}
