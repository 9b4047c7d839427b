package cli

import (
	"fmt"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/spf13/cobra"
)

func newTopicCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage topics inside an activity",
	}
	cmd.AddCommand(
		newTopicAddCmd(app),
		newTopicListCmd(app),
		newTopicUpdateCmd(app),
		newTopicRemoveCmd(app),
	)
	return cmd
}

func newTopicAddCmd(app *App) *cobra.Command {
	var title, description string

	cmd := &cobra.Command{
		Use:   "add ACTIVITY",
		Short: "Add a topic to an activity",
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
			draft := domain.TopicDraft{Title: title}
			if cmd.Flags().Changed("description") {
				draft.Description = &description
			}
			t, err := app.Store.CreateTopic(ctx, a.ID, draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Added topic %s to %s [%s]\n",
				formatter.StyleGreen.Render("✔"), t.Title, a.Name, formatter.TruncID(t.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Topic title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Topic description")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newTopicListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list ACTIVITY",
		Aliases: []string{"ls"},
		Short:   "List the topics of an activity",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := resolveActivity(ctx, app, args[0])
			if err != nil {
				return err
			}
			topics, err := app.Topics.ListByActivity(ctx, a.ID)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("No topics yet."))
				return nil
			}
			counts := make(map[string]int, len(topics))
			for _, t := range topics {
				subtasks, err := app.SubTasks.ListByTopic(ctx, t.ID)
				if err != nil {
					return err
				}
				counts[t.ID] = len(subtasks)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTopicList(topics, counts))
			return nil
		},
	}
}

func newTopicUpdateCmd(app *App) *cobra.Command {
	var title, description string
	var clearDescription bool

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Rename or describe a topic",
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
			patch := domain.TopicPatch{ClearDescription: clearDescription}
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			t, err := app.Store.UpdateTopic(ctx, loc.item.ID, patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Updated topic %s\n", formatter.StyleGreen.Render("✔"), t.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	cmd.Flags().BoolVar(&clearDescription, "clear-description", false, "Remove the description")
	cmd.MarkFlagsMutuallyExclusive("description", "clear-description")
	return cmd
}

func newTopicRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a topic and its sub-tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := commandContext(cmd, app)
			if err != nil {
				return err
			}
			loc, err := resolveTopic(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Store.DeleteTopic(ctx, loc.item.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted topic %s\n", formatter.StyleGreen.Render("✔"), loc.item.Title)
			return nil
		},
	}
}
