package gantt

import (
	"sort"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// Weight is the visual emphasis of a bar.
type Weight int

const (
	WeightNormal Weight = iota
	// WeightDone is the permanent reduced emphasis of completed work.
	WeightDone
)

// RenderStatus is the display classification of a sub-task. It can differ
// from the stored status: elapsed open work renders as OVERDUE.
type RenderStatus struct {
	Status domain.SubTaskStatus
	IsPast bool
	Weight Weight
}

// Classify derives the render status of a sub-task. Priority:
//  1. stored COMPLETED renders COMPLETED with done weight, whatever the dates;
//  2. a now strictly after the end day renders OVERDUE and past;
//  3. otherwise the stored status is rendered as-is.
//
// The OVERDUE produced here is display-only and must not be persisted.
func Classify(stored domain.SubTaskStatus, iv domain.Interval, now time.Time) RenderStatus {
	if stored == domain.StatusCompleted {
		return RenderStatus{Status: domain.StatusCompleted, Weight: WeightDone}
	}
	if domain.DateOf(now).After(domain.DateOf(iv.End)) {
		return RenderStatus{Status: domain.StatusOverdue, IsPast: true}
	}
	return RenderStatus{Status: stored}
}

// Row is one rendered sub-task line.
type Row struct {
	Topic   *domain.Topic
	SubTask *domain.SubTask
	Render  RenderStatus
}

// Rows classifies every sub-task of the snapshot against the snapshot's
// single captured Now and orders them by topic creation order, then start
// date, then title. Sub-tasks whose topic is missing sort last.
func Rows(snap *domain.GanttSnapshot) []Row {
	if snap == nil {
		return nil
	}
	topicOrder := make(map[string]int, len(snap.Topics))
	topics := make(map[string]*domain.Topic, len(snap.Topics))
	for i, t := range snap.Topics {
		topicOrder[t.ID] = i
		topics[t.ID] = t
	}

	rows := make([]Row, 0, len(snap.SubTasks))
	for _, st := range snap.SubTasks {
		rows = append(rows, Row{
			Topic:   topics[st.TopicID],
			SubTask: st,
			Render:  Classify(st.Status, st.Interval, snap.Now),
		})
	}

	orderOf := func(r Row) int {
		if i, ok := topicOrder[r.SubTask.TopicID]; ok {
			return i
		}
		return len(snap.Topics)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		oi, oj := orderOf(rows[i]), orderOf(rows[j])
		if oi != oj {
			return oi < oj
		}
		si, sj := rows[i].SubTask.Interval.Start, rows[j].SubTask.Interval.Start
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return rows[i].SubTask.Title < rows[j].SubTask.Title
	})
	return rows
}
