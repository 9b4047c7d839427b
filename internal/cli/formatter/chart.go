package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	labelWidth    = 24
	suffixWidth   = 6
	minBarWidth   = 10
	barBlock      = "█"
	doneBlock     = "▓"
	todayMark     = "┊"
	clippedBefore = "◀"
	clippedAfter  = "▶"
)

// ChartOptions tunes FormatChart. Selected highlights one sub-task; Pending
// marks sub-tasks with an unconfirmed change.
type ChartOptions struct {
	Width    int
	Selected string
	Pending  func(subTaskID string) bool
}

// ChartLayout describes how days map to bar columns. The interactive view uses
// it to turn mouse positions into days.
type ChartLayout struct {
	Range     domain.Interval
	TotalDays int
	BarOffset int
	BarWidth  int
}

// Layout computes the geometry FormatChart will use for snap at width.
func Layout(snap *domain.GanttSnapshot, width int) ChartLayout {
	if width <= 0 {
		width = DefaultWidth
	}
	bar := width - labelWidth - 2 - suffixWidth
	if bar < minBarWidth {
		bar = minBarWidth
	}
	l := ChartLayout{TotalDays: 1, BarOffset: labelWidth + 2, BarWidth: bar}
	if snap != nil && snap.Activity != nil {
		l.Range = snap.Activity.Interval
		l.TotalDays = max(snap.Activity.Interval.Days(), 1)
	}
	return l
}

// Column maps a day offset from the activity start to a bar column.
func (l ChartLayout) Column(day int) int {
	return day * l.BarWidth / l.TotalDays
}

// PixelsPerDay is the horizontal cell count of one day.
func (l ChartLayout) PixelsPerDay() float64 {
	return float64(l.BarWidth) / float64(l.TotalDays)
}

// FormatChart renders the classified timeline of a snapshot: a header with
// range and scale, a time axis, then one bar per sub-task grouped by topic.
func FormatChart(snap *domain.GanttSnapshot, opts ChartOptions) string {
	if snap == nil || snap.Activity == nil {
		return Dim("No timeline loaded.")
	}
	layout := Layout(snap, opts.Width)
	a := snap.Activity

	var b strings.Builder
	b.WriteString(Bold(a.Name) + "  " + StyleFg.Render(ShortRange(a.Interval)) + "  " + ScaleBadge(snap.Scale))
	if info, err := gantt.RangeInfo(a.Interval.Start, a.Interval.End); err == nil {
		b.WriteString("  " + Dim(fmt.Sprintf("%d days · %.1f weeks · %.1f months",
			info.TotalDays, info.TotalWeeks, info.TotalMonths)))
	}
	b.WriteString("\n\n")
	b.WriteString(strings.Repeat(" ", layout.BarOffset) + axis(snap, layout) + "\n")

	body := chartBody(snap)
	for _, ln := range body {
		switch {
		case ln.row != nil:
			b.WriteString(renderRow(*ln.row, snap, layout, opts) + "\n")
		case ln.topic != nil:
			b.WriteString(padLabel(StyleHeader.Render(truncate.StringWithTail(ln.topic.Title, labelWidth, "…"))) + "\n")
		default:
			b.WriteString(padLabel(Dim(ln.text)) + "\n")
		}
	}
	if len(body) == 0 {
		b.WriteString(Dim("No topics yet.") + "\n")
	}

	b.WriteString("\n" + legend())
	return b.String()
}

// ChartHeaderLines is the number of lines FormatChart prints above the first
// topic.
const ChartHeaderLines = 3

type chartLine struct {
	topic *domain.Topic
	row   *gantt.Row
	text  string
}

// chartBody lists the chart's body lines in print order: each topic followed
// by its rows, then sub-tasks whose topic is missing.
func chartBody(snap *domain.GanttSnapshot) []chartLine {
	rows := gantt.Rows(snap)
	byTopic := map[string][]gantt.Row{}
	var orphans []gantt.Row
	for _, r := range rows {
		if r.Topic == nil {
			orphans = append(orphans, r)
			continue
		}
		byTopic[r.Topic.ID] = append(byTopic[r.Topic.ID], r)
	}

	var out []chartLine
	for _, t := range snap.Topics {
		out = append(out, chartLine{topic: t})
		if len(byTopic[t.ID]) == 0 {
			out = append(out, chartLine{text: "  (no sub-tasks)"})
		}
		for i := range byTopic[t.ID] {
			out = append(out, chartLine{row: &byTopic[t.ID][i]})
		}
	}
	if len(orphans) > 0 {
		out = append(out, chartLine{text: "(no topic)"})
		for i := range orphans {
			out = append(out, chartLine{row: &orphans[i]})
		}
	}
	return out
}

// LineSubTasks maps every chart line to the sub-task drawn on it. Header,
// topic and placeholder lines map to "".
func LineSubTasks(snap *domain.GanttSnapshot) []string {
	if snap == nil || snap.Activity == nil {
		return nil
	}
	body := chartBody(snap)
	out := make([]string, ChartHeaderLines, ChartHeaderLines+len(body))
	for _, ln := range body {
		id := ""
		if ln.row != nil {
			id = ln.row.SubTask.ID
		}
		out = append(out, id)
	}
	return out
}

func padLabel(s string) string {
	pad := labelWidth - lipgloss.Width(s)
	if pad < 0 {
		pad = 0
	}
	return s + strings.Repeat(" ", pad)
}

// axis labels every period of the scale that fits without overlapping.
func axis(snap *domain.GanttSnapshot, l ChartLayout) string {
	line := []rune(strings.Repeat(" ", l.BarWidth))
	step := gantt.DaysPerColumn(snap.Scale)
	layout := "2"
	switch snap.Scale {
	case domain.ScaleWeek:
		layout = "Jan 2"
	case domain.ScaleMonth:
		layout = "Jan"
	}

	next := 0
	for day := 0; day < l.TotalDays; day += step {
		label := []rune(l.Range.Start.AddDate(0, 0, day).Format(layout))
		col := l.Column(day)
		if col < next || col+len(label) > l.BarWidth {
			continue
		}
		copy(line[col:], label)
		next = col + len(label) + 1
	}
	return Dim(string(line))
}

func renderRow(r gantt.Row, snap *domain.GanttSnapshot, l ChartLayout, opts ChartOptions) string {
	st := r.SubTask
	prefix := "  "
	if st.ID == opts.Selected && opts.Selected != "" {
		prefix = "› "
	}
	title := truncate.StringWithTail(st.Title, labelWidth-2, "…")
	label := prefix + title
	if st.ID == opts.Selected && opts.Selected != "" {
		label = Bold(label)
	}

	cells := make([]string, l.BarWidth)
	for i := range cells {
		cells[i] = " "
	}
	if snap.Activity.Interval.Contains(snap.Now) {
		cells[min(l.Column(domain.DaysBetween(l.Range.Start, snap.Now)), l.BarWidth-1)] = Dim(todayMark)
	}

	style := StatusStyle(r.Render)
	block := barBlock
	if r.Render.Weight == gantt.WeightDone {
		block = doneBlock
	}
	from := domain.DaysBetween(l.Range.Start, st.Interval.Start)
	to := domain.DaysBetween(l.Range.Start, st.Interval.End) + 1
	switch {
	case to <= 0:
		cells[0] = style.Render(clippedBefore)
	case from >= l.TotalDays:
		cells[l.BarWidth-1] = style.Render(clippedAfter)
	default:
		c0 := l.Column(max(from, 0))
		c1 := l.Column(min(to, l.TotalDays))
		if c1 <= c0 {
			c1 = c0 + 1
		}
		for c := c0; c < c1 && c < l.BarWidth; c++ {
			cells[c] = style.Render(block)
		}
		if from < 0 {
			cells[0] = style.Render(clippedBefore)
		}
		if to > l.TotalDays {
			cells[l.BarWidth-1] = style.Render(clippedAfter)
		}
	}

	suffix := fmt.Sprintf("%4d%%", st.Progress)
	if opts.Pending != nil && opts.Pending(st.ID) {
		suffix = StyleYellow.Render(" sync…")
	}
	return padLabel(label) + "  " + strings.Join(cells, "") + " " + suffix
}

func legend() string {
	parts := []string{
		StatusPill(gantt.RenderStatus{Status: domain.StatusPlanned}),
		StatusPill(gantt.RenderStatus{Status: domain.StatusInProgress}),
		StatusPill(gantt.RenderStatus{Status: domain.StatusOverdue, IsPast: true}),
		StatusPill(gantt.RenderStatus{Status: domain.StatusCompleted, Weight: gantt.WeightDone}),
		Dim(todayMark + " today"),
	}
	return strings.Join(parts, "   ")
}
