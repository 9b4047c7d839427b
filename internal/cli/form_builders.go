package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

func huhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// validateDate accepts a YYYY-MM-DD date.
func validateDate(s string) error {
	if _, err := domain.ParseDate(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("use YYYY-MM-DD format")
	}
	return nil
}

// validateProgress accepts an integer percentage.
func validateProgress(s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 0 || v > 100 {
		return fmt.Errorf("enter a number between 0 and 100")
	}
	return nil
}

func dateInput(title string, value *string) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder("2025-06-30").
		Value(value).
		Validate(validateDate)
}

// subTaskFormValues holds the editable fields of a sub-task as form strings.
type subTaskFormValues struct {
	Title       string
	Description string
	Start       string
	End         string
	Status      domain.SubTaskStatus
	Progress    string
	AssigneeID  string
}

func formValuesFrom(st *domain.SubTask) *subTaskFormValues {
	v := &subTaskFormValues{
		Title:    st.Title,
		Start:    domain.FormatDate(st.Interval.Start),
		End:      domain.FormatDate(st.Interval.End),
		Status:   st.Status,
		Progress: strconv.Itoa(st.Progress),
	}
	if st.Description != nil {
		v.Description = *st.Description
	}
	if st.AssigneeID != nil {
		v.AssigneeID = *st.AssigneeID
	}
	return v
}

// toUpdate converts the form into a full sub-task edit. An empty description
// or assignee clears the field.
func (v *subTaskFormValues) toUpdate() (domain.SubTaskUpdate, error) {
	start, err := domain.ParseDate(strings.TrimSpace(v.Start))
	if err != nil {
		return domain.SubTaskUpdate{}, err
	}
	end, err := domain.ParseDate(strings.TrimSpace(v.End))
	if err != nil {
		return domain.SubTaskUpdate{}, err
	}
	progress, err := strconv.Atoi(strings.TrimSpace(v.Progress))
	if err != nil {
		return domain.SubTaskUpdate{}, fmt.Errorf("progress %q is not a number: %w", v.Progress, domain.ErrValidation)
	}
	title := strings.TrimSpace(v.Title)
	status := v.Status
	u := domain.SubTaskUpdate{
		Title:    &title,
		Start:    &start,
		End:      &end,
		Status:   &status,
		Progress: &progress,
	}
	if desc := strings.TrimSpace(v.Description); desc != "" {
		u.Description = &desc
	} else {
		u.ClearDescription = true
	}
	if v.AssigneeID != "" {
		assignee := v.AssigneeID
		u.AssigneeID = &assignee
	} else {
		u.ClearAssignee = true
	}
	return u, nil
}

// subTaskForm builds the edit form. Only active users are offered as
// assignees.
func subTaskForm(v *subTaskFormValues, users []*domain.User) *huh.Form {
	statuses := []domain.SubTaskStatus{
		domain.StatusPlanned, domain.StatusInProgress, domain.StatusCompleted, domain.StatusOverdue,
	}
	statusOpts := make([]huh.Option[domain.SubTaskStatus], 0, len(statuses))
	for _, s := range statuses {
		statusOpts = append(statusOpts, huh.NewOption(formatter.StatusLabel(s), s))
	}

	assignees := []huh.Option[string]{huh.NewOption("(unassigned)", "")}
	for _, u := range users {
		if u.Active {
			assignees = append(assignees, huh.NewOption(fmt.Sprintf("%s <%s>", u.FullName, u.Email), u.ID))
		}
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(&v.Title).Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("title is required")
				}
				return nil
			}),
			huh.NewText().Title("Description").Value(&v.Description),
		),
		huh.NewGroup(
			dateInput("Start (YYYY-MM-DD)", &v.Start),
			dateInput("End (YYYY-MM-DD)", &v.End),
		),
		huh.NewGroup(
			huh.NewSelect[domain.SubTaskStatus]().Title("Status").Options(statusOpts...).Value(&v.Status),
			huh.NewInput().Title("Progress (%)").Value(&v.Progress).Validate(validateProgress),
			huh.NewSelect[string]().Title("Assignee").Options(assignees...).Value(&v.AssigneeID),
		),
	).WithTheme(huhTheme()).WithShowHelp(false)
}
