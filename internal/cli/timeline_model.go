package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/cli/formatter"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type timelineKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Cancel key.Binding
	Reload key.Binding
	Quit   key.Binding
}

func newTimelineKeyMap() timelineKeyMap {
	return timelineKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "1 day earlier")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "1 day later")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k timelineKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Reload, k.Quit}
}

func (k timelineKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Left, k.Right, k.Cancel}, {k.Reload, k.Quit}}
}

// timelineLoadedMsg reports the end of a snapshot fetch.
type timelineLoadedMsg struct{ err error }

// timelineMovedMsg reports the resolution of one move.
type timelineMovedMsg struct {
	subTaskID string
	err       error
}

// timelineDrag is a mouse drag in progress. orig is the interval at press
// time; preview is the whole-day offset under the pointer.
type timelineDrag struct {
	subTaskID string
	startX    int
	orig      domain.Interval
	preview   int
}

// timelineModel is the interactive chart of one activity. It renders straight
// from the store, so optimistic moves show up before the backend answers and
// roll back on their own when it refuses.
type timelineModel struct {
	app        *App
	ctx        context.Context
	activityID string

	width    int
	height   int
	selected string
	drag     *timelineDrag
	message  string

	keys timelineKeyMap
	help help.Model
}

func newTimelineModel(ctx context.Context, app *App, activityID string) *timelineModel {
	return &timelineModel{
		app:        app,
		ctx:        ctx,
		activityID: activityID,
		keys:       newTimelineKeyMap(),
		help:       help.New(),
	}
}

func (m *timelineModel) Init() tea.Cmd {
	return m.fetch()
}

func (m *timelineModel) fetch() tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Store.FetchSnapshot(m.ctx, m.activityID)
		return timelineLoadedMsg{err: err}
	}
}

func (m *timelineModel) move(id string, to domain.Interval) tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Store.PatchSubTask(m.ctx, id, domain.MovePatch(to))
		return timelineMovedMsg{subTaskID: id, err: err}
	}
}

func (m *timelineModel) layout() formatter.ChartLayout {
	return formatter.Layout(m.app.Store.Snapshot(), m.width)
}

// order lists the sub-task IDs top to bottom as drawn.
func (m *timelineModel) order() []string {
	var ids []string
	for _, id := range formatter.LineSubTasks(m.app.Store.Snapshot()) {
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case timelineLoadedMsg:
		if msg.err != nil {
			m.message = formatter.StyleRed.Render("Load failed: " + msg.err.Error())
			return m, nil
		}
		if _, ok := m.app.Store.SubTask(m.selected); !ok {
			m.selected = ""
			if ids := m.order(); len(ids) > 0 {
				m.selected = ids[0]
			}
		}
		return m, nil

	case timelineMovedMsg:
		if msg.err != nil {
			m.message = formatter.StyleRed.Render("Move rejected: " + msg.err.Error())
			return m, nil
		}
		if st, ok := m.app.Store.SubTask(msg.subTaskID); ok {
			m.message = formatter.StyleGreen.Render(fmt.Sprintf("Saved %s at %s", st.Title, formatter.ShortRange(st.Interval)))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}
	return m, nil
}

func (m *timelineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Reload):
		m.message = ""
		return m, m.fetch()
	case key.Matches(msg, m.keys.Cancel):
		m.drag = nil
	case key.Matches(msg, m.keys.Up):
		m.step(-1)
	case key.Matches(msg, m.keys.Down):
		m.step(1)
	case key.Matches(msg, m.keys.Left):
		return m, m.nudge(-1)
	case key.Matches(msg, m.keys.Right):
		return m, m.nudge(1)
	}
	return m, nil
}

func (m *timelineModel) step(delta int) {
	ids := m.order()
	if len(ids) == 0 {
		return
	}
	i := 0
	for j, id := range ids {
		if id == m.selected {
			i = j + delta
			break
		}
	}
	m.selected = ids[max(0, min(i, len(ids)-1))]
}

func (m *timelineModel) nudge(days int) tea.Cmd {
	st, ok := m.app.Store.SubTask(m.selected)
	if !ok {
		return nil
	}
	return m.move(st.ID, st.Interval.Shift(days))
}

func (m *timelineModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	l := m.layout()
	ppd := l.PixelsPerDay()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		ids := formatter.LineSubTasks(m.app.Store.Snapshot())
		if msg.Y < 0 || msg.Y >= len(ids) || ids[msg.Y] == "" {
			return m, nil
		}
		m.selected = ids[msg.Y]
		st, ok := m.app.Store.SubTask(m.selected)
		if ok && msg.X >= l.BarOffset {
			m.drag = &timelineDrag{subTaskID: st.ID, startX: msg.X, orig: st.Interval}
		}

	case tea.MouseActionMotion:
		if m.drag != nil {
			if days, err := gantt.DaysDelta(float64(msg.X-m.drag.startX), ppd); err == nil {
				m.drag.preview = days
			}
		}

	case tea.MouseActionRelease:
		d := m.drag
		m.drag = nil
		if d == nil {
			return m, nil
		}
		to, err := gantt.ApplyDrag(d.orig, float64(msg.X-d.startX), ppd)
		if err != nil {
			m.message = formatter.StyleRed.Render(err.Error())
			return m, nil
		}
		if to.Equal(d.orig) {
			return m, nil
		}
		return m, m.move(d.subTaskID, to)
	}
	return m, nil
}

func (m *timelineModel) View() string {
	snap := m.app.Store.Snapshot()
	if snap == nil {
		if m.message != "" {
			return m.message + "\n"
		}
		return formatter.Dim("Loading timeline…") + "\n"
	}

	var b strings.Builder
	b.WriteString(formatter.FormatChart(snap, formatter.ChartOptions{
		Width:    m.width,
		Selected: m.selected,
		Pending:  m.app.Store.Pending,
	}))
	b.WriteString("\n\n")

	switch {
	case m.drag != nil:
		st, _ := m.app.Store.SubTask(m.drag.subTaskID)
		title := m.drag.subTaskID
		if st != nil {
			title = st.Title
		}
		fmt.Fprintf(&b, "%s %s %+d days → %s\n", formatter.StyleYellow.Render("↔"), title,
			m.drag.preview, formatter.ShortRange(m.drag.orig.Shift(m.drag.preview)))
	case m.app.Store.Loading():
		b.WriteString(formatter.Dim("Loading…") + "\n")
	case m.message != "":
		b.WriteString(m.message + "\n")
	default:
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
