package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
)

// fakePersistence is an in-memory backend. Failures are scripted per
// operation with failOn; when gate is set, PatchSubTask hands each call to the
// test and blocks until the test replies.
type fakePersistence struct {
	mu      sync.Mutex
	snap    *domain.GanttSnapshot
	list    []*domain.Activity
	calls   []string
	fail    map[string]error
	nextID  int
	observe func(op string)
	gate    chan *patchCall
}

type patchCall struct {
	id    string
	patch domain.SubTaskPatch
	reply chan patchReply
}

type patchReply struct {
	st  *domain.SubTask
	err error
}

func (c *patchCall) succeed(st *domain.SubTask) { c.reply <- patchReply{st: st} }
func (c *patchCall) fail(err error)             { c.reply <- patchReply{err: err} }

func newFake(snap *domain.GanttSnapshot) *fakePersistence {
	f := &fakePersistence{snap: snap, fail: map[string]error{}}
	if snap != nil && snap.Activity != nil {
		f.list = []*domain.Activity{snap.Activity.Clone()}
	}
	return f
}

func (f *fakePersistence) failOn(op string, err error) {
	f.mu.Lock()
	f.fail[op] = err
	f.mu.Unlock()
}

func (f *fakePersistence) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakePersistence) enter(op string) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	err := f.fail[op]
	delete(f.fail, op)
	observe := f.observe
	f.mu.Unlock()
	if observe != nil {
		observe(op)
	}
	return err
}

func (f *fakePersistence) newID(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakePersistence) FetchSnapshot(_ context.Context, activityID string) (*domain.GanttSnapshot, error) {
	if err := f.enter("FetchSnapshot"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snap == nil || f.snap.Activity.ID != activityID {
		return nil, fmt.Errorf("activity not found: %w", domain.ErrNotFound)
	}
	return f.snap.Clone(), nil
}

func (f *fakePersistence) ListActivities(context.Context) ([]*domain.Activity, error) {
	if err := f.enter("ListActivities"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Activity, 0, len(f.list))
	for _, a := range f.list {
		out = append(out, a.Clone())
	}
	return out, nil
}

func (f *fakePersistence) CreateActivity(_ context.Context, d domain.ActivityDraft) (*domain.Activity, error) {
	if err := f.enter("CreateActivity"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a := &domain.Activity{
		ID: f.newID("activity"), Name: d.Name, Description: d.Description,
		Interval: domain.Interval{Start: d.Start, End: d.End}, OwnerID: d.OwnerID,
	}
	f.list = append(f.list, a)
	return a.Clone(), nil
}

func (f *fakePersistence) UpdateActivity(_ context.Context, id string, p domain.ActivityPatch) (*domain.Activity, error) {
	if err := f.enter("UpdateActivity"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.list {
		if a.ID == id {
			next, err := p.ApplyTo(*a)
			if err != nil {
				return nil, err
			}
			f.list[i] = &next
			if f.snap != nil && f.snap.Activity.ID == id {
				f.snap.Activity = next.Clone()
			}
			return next.Clone(), nil
		}
	}
	return nil, fmt.Errorf("activity not found: %w", domain.ErrNotFound)
}

func (f *fakePersistence) DeleteActivity(_ context.Context, id string) error {
	return f.enter("DeleteActivity")
}

func (f *fakePersistence) CreateTopic(_ context.Context, activityID string, d domain.TopicDraft) (*domain.Topic, error) {
	if err := f.enter("CreateTopic"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return &domain.Topic{ID: f.newID("topic"), ActivityID: activityID, Title: d.Title}, nil
}

func (f *fakePersistence) UpdateTopic(_ context.Context, id string, p domain.TopicPatch) (*domain.Topic, error) {
	if err := f.enter("UpdateTopic"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	tp := f.snap.Topic(id)
	if tp == nil {
		return nil, fmt.Errorf("topic not found: %w", domain.ErrNotFound)
	}
	next := p.ApplyTo(*tp)
	return &next, nil
}

func (f *fakePersistence) DeleteTopic(_ context.Context, id string) error {
	return f.enter("DeleteTopic")
}

func (f *fakePersistence) CreateSubTask(_ context.Context, topicID string, d domain.SubTaskDraft) (*domain.SubTask, error) {
	if err := f.enter("CreateSubTask"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	status := d.Status
	if status == "" {
		status = domain.StatusPlanned
	}
	return &domain.SubTask{
		ID: f.newID("subtask"), TopicID: topicID, Title: d.Title,
		Interval: domain.Interval{Start: d.Start, End: d.End},
		Status:   status, Progress: d.Progress,
	}, nil
}

func (f *fakePersistence) UpdateSubTask(_ context.Context, id string, u domain.SubTaskUpdate) (*domain.SubTask, error) {
	if err := f.enter("UpdateSubTask"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.snap.SubTask(id)
	if st == nil {
		return nil, fmt.Errorf("sub-task not found: %w", domain.ErrNotFound)
	}
	next, err := u.ApplyTo(*st)
	if err != nil {
		return nil, err
	}
	*st = next
	return next.Clone(), nil
}

func (f *fakePersistence) PatchSubTask(_ context.Context, id string, p domain.SubTaskPatch) (*domain.SubTask, error) {
	if err := f.enter("PatchSubTask"); err != nil {
		return nil, err
	}
	if f.gate != nil {
		c := &patchCall{id: id, patch: p, reply: make(chan patchReply, 1)}
		f.gate <- c
		r := <-c.reply
		return r.st, r.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	st := f.snap.SubTask(id)
	if st == nil {
		return nil, fmt.Errorf("sub-task not found: %w", domain.ErrNotFound)
	}
	next, err := p.ApplyTo(*st)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = next.UpdatedAt.Add(time.Second)
	*st = next
	return next.Clone(), nil
}

func (f *fakePersistence) DeleteSubTask(_ context.Context, id string) error {
	return f.enter("DeleteSubTask")
}

var _ Persistence = (*fakePersistence)(nil)
