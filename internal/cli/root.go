package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/config"
	"github.com/alexanderramin/gantt/internal/service"
	"github.com/alexanderramin/gantt/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// App holds the services and the timeline store used by CLI commands.
// Reads go to the services; every mutation goes through Store.
type App struct {
	Users         service.UserService
	Activities    service.ActivityService
	Topics        service.TopicService
	SubTasks      service.SubTaskService
	Gantt         service.GanttService
	Notifications service.NotificationService
	Imports       service.ImportService

	Store  *store.Store
	Config config.Config
	Log    zerolog.Logger
	Now    func() time.Time

	// RunProgram runs an interactive bubbletea model; tests replace it.
	RunProgram func(tea.Model) error
	// RunForm runs a huh form; tests replace it.
	RunForm func(*huh.Form) error
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) runProgram(m tea.Model) error {
	if a.RunProgram != nil {
		return a.RunProgram(m)
	}
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

func (a *App) runForm(f *huh.Form) error {
	if a.RunForm != nil {
		return a.RunForm(f)
	}
	return f.Run()
}

type actorKey struct{}

// NewRootCmd creates the top-level "gantt" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	var actor string

	root := &cobra.Command{
		Use:           "gantt",
		Short:         "Activity timelines with topics, sub-tasks and drag scheduling",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			formatter.ConfigureColor(cmd.OutOrStdout())
			if actor == "" {
				actor = app.Config.Actor
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, actorKey{}, actor))
			return nil
		},
	}
	root.PersistentFlags().StringVar(&actor, "actor", "", "Acting user (email or ID); defaults to the configured actor")

	root.AddCommand(
		newUserCmd(app),
		newActivityCmd(app),
		newTopicCmd(app),
		newSubTaskCmd(app),
		newShowCmd(app),
		newDragCmd(app),
		newTUICmd(app),
		newNotifyCmd(app),
	)
	return root
}

// commandContext returns the command's context with the acting user
// attached. An unresolvable actor is an error; no actor is allowed.
func commandContext(cmd *cobra.Command, app *App) (context.Context, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	input, _ := ctx.Value(actorKey{}).(string)
	if input == "" {
		return ctx, nil
	}
	u, err := resolveUser(ctx, app, input)
	if err != nil {
		return nil, err
	}
	return service.WithActor(ctx, u.ID), nil
}

func actorID(ctx context.Context) (string, bool) {
	return service.ActorFrom(ctx)
}

// chartWidth is the configured chart width, or the terminal width.
func chartWidth(app *App, cmd *cobra.Command) int {
	if app.Config.ChartWidth > 0 {
		return app.Config.ChartWidth
	}
	return formatter.TerminalWidth(cmd.OutOrStdout())
}
