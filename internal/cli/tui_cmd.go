package cli

import (
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "tui ACTIVITY",
		Aliases: []string{"timeline"},
		Short:   "Open the interactive timeline; drag bars with the mouse to reschedule",
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
			return app.runProgram(newTimelineModel(ctx, app, a.ID))
		},
	}
}
