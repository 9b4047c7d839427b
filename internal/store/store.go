// Package store owns the in-memory timeline state and reconciles local edits
// with a Persistence backend. Drag patches are applied optimistically and
// rolled back when the backend rejects them; every other mutation waits for
// confirmation before touching local state.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/alexanderramin/gantt/internal/gantt"
	"github.com/rs/zerolog"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for reconciliation events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithClock overrides the clock used to stamp snapshots that arrive without Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Store is the single owner of the timeline state. All methods are safe for
// concurrent use; readers always receive deep copies.
type Store struct {
	p   Persistence
	log zerolog.Logger
	now func() time.Time

	mu         sync.Mutex
	snapshot   *domain.GanttSnapshot
	activities []*domain.Activity
	loading    int
	lastErr    string
	queues     map[entityKey]*queue
	seq        uint64
	creates    uint64
	tracked    map[string]*tracked
}

// tracked holds a sub-task under optimistic mutation: the last value the
// backend confirmed plus the patches still awaiting a response, in call order.
type tracked struct {
	confirmed *domain.SubTask
	pending   []pendingPatch
}

type pendingPatch struct {
	seq   uint64
	patch domain.SubTaskPatch
}

func (tr *tracked) drop(seq uint64) {
	for i, pp := range tr.pending {
		if pp.seq == seq {
			tr.pending = append(tr.pending[:i], tr.pending[i+1:]...)
			return
		}
	}
}

func New(p Persistence, opts ...Option) *Store {
	s := &Store{
		p:       p,
		log:     zerolog.Nop(),
		now:     func() time.Time { return time.Now().UTC() },
		queues:  make(map[entityKey]*queue),
		tracked: make(map[string]*tracked),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current timeline, or nil before the
// first successful fetch.
func (s *Store) Snapshot() *domain.GanttSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Clone()
}

// Activities returns a copy of the activity list.
func (s *Store) Activities() []*domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a.Clone())
	}
	return out
}

// SubTask returns a copy of the visible value of a sub-task in the snapshot.
func (s *Store) SubTask(id string) (*domain.SubTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.subTaskLocked(id)
	if st == nil {
		return nil, false
	}
	return st.Clone(), true
}

// Pending reports whether a sub-task has unconfirmed optimistic patches.
func (s *Store) Pending(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	tr := s.tracked[id]
	return tr != nil && len(tr.pending) > 0
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading > 0
}

// LastError is the message of the most recent failed operation. It is reset
// when the next operation starts.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *Store) ClearError() {
	s.mu.Lock()
	s.lastErr = ""
	s.mu.Unlock()
}

func (s *Store) failLocked(op string, err error) error {
	f := newFailure(op, err)
	s.lastErr = f.Error()
	s.log.Warn().Str("op", op).Err(err).Msg("operation failed")
	return f
}

func (s *Store) subTaskLocked(id string) *domain.SubTask {
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.SubTask(id)
}

func (s *Store) replaceSubTaskLocked(st *domain.SubTask) {
	if s.snapshot == nil {
		return
	}
	for i, cur := range s.snapshot.SubTasks {
		if cur.ID == st.ID {
			s.snapshot.SubTasks[i] = st
			return
		}
	}
}

// recomputeLocked rebuilds the visible value of a tracked sub-task from its
// confirmed value and the pending patches. Tracking ends once nothing is pending.
func (s *Store) recomputeLocked(id string) {
	tr := s.tracked[id]
	if tr == nil {
		return
	}
	v := tr.confirmed.Clone()
	for _, pp := range tr.pending {
		next, err := pp.patch.ApplyTo(*v)
		if err != nil {
			s.log.Warn().Str("subtask", id).Uint64("seq", pp.seq).Err(err).
				Msg("pending patch no longer applies")
			continue
		}
		v = &next
	}
	s.replaceSubTaskLocked(v)
	if len(tr.pending) == 0 {
		delete(s.tracked, id)
	}
}

// rebaseLocked moves tracked sub-tasks onto freshly fetched values.
func (s *Store) rebaseLocked() {
	for id, tr := range s.tracked {
		fresh := s.subTaskLocked(id)
		if fresh == nil {
			continue
		}
		tr.confirmed = fresh.Clone()
		s.recomputeLocked(id)
	}
}

func (s *Store) forgetSubTaskLocked(id string) {
	delete(s.tracked, id)
	if s.snapshot == nil {
		return
	}
	kept := s.snapshot.SubTasks[:0]
	for _, st := range s.snapshot.SubTasks {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	s.snapshot.SubTasks = kept
}

func (s *Store) holdsActivityLocked(id string) bool {
	return s.snapshot != nil && s.snapshot.Activity != nil && s.snapshot.Activity.ID == id
}

// FetchSnapshot replaces the timeline with the backend's view of an activity.
// Sub-tasks with patches still in flight keep showing them on top of the
// fetched value.
func (s *Store) FetchSnapshot(ctx context.Context, activityID string) (*domain.GanttSnapshot, error) {
	s.mu.Lock()
	t := s.beginLocked(entityKey{kindSnapshot, activityID}, true)
	s.mu.Unlock()

	_, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.GanttSnapshot, error) {
			return s.p.FetchSnapshot(ctx, activityID)
		},
		func(snap *domain.GanttSnapshot, err error) error {
			if err == nil && snap == nil {
				err = fmt.Errorf("activity %s: %w", activityID, domain.ErrNotFound)
			}
			if err != nil {
				return s.failLocked("fetch snapshot", err)
			}
			s.snapshot = snap.Clone()
			if s.snapshot.Now.IsZero() {
				s.snapshot.Now = domain.DateOf(s.now())
			}
			s.rebaseLocked()
			return nil
		})
	if err != nil {
		return nil, err
	}
	return s.Snapshot(), nil
}

// FetchActivities reloads the activity list.
func (s *Store) FetchActivities(ctx context.Context) ([]*domain.Activity, error) {
	s.mu.Lock()
	t := s.beginLocked(entityKey{kind: kindActivityList}, true)
	s.mu.Unlock()

	_, err := execute(ctx, s, t,
		func(ctx context.Context) ([]*domain.Activity, error) {
			return s.p.ListActivities(ctx)
		},
		func(list []*domain.Activity, err error) error {
			if err != nil {
				return s.failLocked("list activities", err)
			}
			s.activities = s.activities[:0]
			for _, a := range list {
				s.activities = append(s.activities, a.Clone())
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return s.Activities(), nil
}

// CreateActivity persists a new activity and puts it at the head of the list.
func (s *Store) CreateActivity(ctx context.Context, draft domain.ActivityDraft) (*domain.Activity, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	t := s.beginLocked(s.newEntityKeyLocked(kindActivity), true)
	s.mu.Unlock()

	a, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.Activity, error) {
			return s.p.CreateActivity(ctx, draft)
		},
		func(a *domain.Activity, err error) error {
			if err != nil {
				return s.failLocked("create activity", err)
			}
			s.activities = append([]*domain.Activity{a.Clone()}, s.activities...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

// UpdateActivity edits an activity. When it is the activity on screen the
// display scale is recomputed from the new range.
func (s *Store) UpdateActivity(ctx context.Context, id string, patch domain.ActivityPatch) (*domain.Activity, error) {
	s.mu.Lock()
	cur := s.activityLocked(id)
	if cur != nil {
		if _, err := patch.ApplyTo(*cur); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	t := s.beginLocked(entityKey{kindActivity, id}, true)
	s.mu.Unlock()

	a, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.Activity, error) {
			return s.p.UpdateActivity(ctx, id, patch)
		},
		func(a *domain.Activity, err error) error {
			if err != nil {
				return s.failLocked("update activity", err)
			}
			for i, cur := range s.activities {
				if cur.ID == id {
					s.activities[i] = a.Clone()
				}
			}
			if s.holdsActivityLocked(id) {
				s.snapshot.Activity = a.Clone()
				scale, err := gantt.SelectScale(a.Interval.Start, a.Interval.End)
				if err != nil {
					s.log.Warn().Str("activity", id).Err(err).Msg("keeping previous scale")
				} else {
					s.snapshot.Scale = scale
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return a.Clone(), nil
}

func (s *Store) activityLocked(id string) *domain.Activity {
	if s.holdsActivityLocked(id) {
		return s.snapshot.Activity
	}
	for _, a := range s.activities {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// DeleteActivity removes an activity once the backend confirms. Deleting the
// activity on screen clears the timeline.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	t := s.beginLocked(entityKey{kindActivity, id}, true)
	s.mu.Unlock()

	_, err := execute(ctx, s, t,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.p.DeleteActivity(ctx, id)
		},
		func(_ struct{}, err error) error {
			if err != nil {
				return s.failLocked("delete activity", err)
			}
			kept := s.activities[:0]
			for _, a := range s.activities {
				if a.ID != id {
					kept = append(kept, a)
				}
			}
			s.activities = kept
			if s.holdsActivityLocked(id) {
				s.snapshot = nil
				s.tracked = make(map[string]*tracked)
			}
			return nil
		})
	return err
}

// CreateTopic persists a topic and appends it to the timeline when its
// activity is the one on screen.
func (s *Store) CreateTopic(ctx context.Context, activityID string, draft domain.TopicDraft) (*domain.Topic, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	t := s.beginLocked(s.newEntityKeyLocked(kindTopic), true)
	s.mu.Unlock()

	tp, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.Topic, error) {
			return s.p.CreateTopic(ctx, activityID, draft)
		},
		func(tp *domain.Topic, err error) error {
			if err != nil {
				return s.failLocked("create topic", err)
			}
			if s.holdsActivityLocked(activityID) {
				s.snapshot.Topics = append(s.snapshot.Topics, tp.Clone())
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return tp.Clone(), nil
}

func (s *Store) UpdateTopic(ctx context.Context, id string, patch domain.TopicPatch) (*domain.Topic, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	t := s.beginLocked(entityKey{kindTopic, id}, true)
	s.mu.Unlock()

	tp, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.Topic, error) {
			return s.p.UpdateTopic(ctx, id, patch)
		},
		func(tp *domain.Topic, err error) error {
			if err != nil {
				return s.failLocked("update topic", err)
			}
			if s.snapshot != nil {
				for i, cur := range s.snapshot.Topics {
					if cur.ID == id {
						s.snapshot.Topics[i] = tp.Clone()
					}
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return tp.Clone(), nil
}

// DeleteTopic removes a topic and every sub-task under it once the backend
// confirms.
func (s *Store) DeleteTopic(ctx context.Context, id string) error {
	s.mu.Lock()
	t := s.beginLocked(entityKey{kindTopic, id}, true)
	s.mu.Unlock()

	_, err := execute(ctx, s, t,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.p.DeleteTopic(ctx, id)
		},
		func(_ struct{}, err error) error {
			if err != nil {
				return s.failLocked("delete topic", err)
			}
			if s.snapshot == nil {
				return nil
			}
			topics := s.snapshot.Topics[:0]
			for _, tp := range s.snapshot.Topics {
				if tp.ID != id {
					topics = append(topics, tp)
				}
			}
			s.snapshot.Topics = topics
			for _, st := range s.snapshot.SubTasksOf(id) {
				s.forgetSubTaskLocked(st.ID)
			}
			return nil
		})
	return err
}

// CreateSubTask persists a sub-task and adds it to the timeline when its
// topic is on screen.
func (s *Store) CreateSubTask(ctx context.Context, topicID string, draft domain.SubTaskDraft) (*domain.SubTask, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	t := s.beginLocked(s.newEntityKeyLocked(kindSubTask), true)
	s.mu.Unlock()

	st, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.SubTask, error) {
			return s.p.CreateSubTask(ctx, topicID, draft)
		},
		func(st *domain.SubTask, err error) error {
			if err != nil {
				return s.failLocked("create sub-task", err)
			}
			if s.snapshot != nil && s.snapshot.Topic(topicID) != nil {
				s.snapshot.SubTasks = append(s.snapshot.SubTasks, st.Clone())
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

// UpdateSubTask submits a full edit. Local state changes only after the
// backend confirms.
func (s *Store) UpdateSubTask(ctx context.Context, id string, update domain.SubTaskUpdate) (*domain.SubTask, error) {
	s.mu.Lock()
	if cur := s.subTaskLocked(id); cur != nil {
		if _, err := update.ApplyTo(*cur); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}
	t := s.beginLocked(entityKey{kindSubTask, id}, true)
	s.mu.Unlock()

	st, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.SubTask, error) {
			return s.p.UpdateSubTask(ctx, id, update)
		},
		func(st *domain.SubTask, err error) error {
			if err != nil {
				return s.failLocked("update sub-task", err)
			}
			s.confirmSubTaskLocked(st)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

func (s *Store) confirmSubTaskLocked(st *domain.SubTask) {
	if tr := s.tracked[st.ID]; tr != nil {
		tr.confirmed = st.Clone()
		s.recomputeLocked(st.ID)
		return
	}
	s.replaceSubTaskLocked(st.Clone())
}

// PatchSubTask is the drag path. The patch is validated against the visible
// value, shown immediately, and then sent. On success the backend's value is
// adopted; on failure the sub-task returns to exactly what it was before the
// call and LastError carries the backend's message. Patches against the same
// sub-task run one at a time in call order.
func (s *Store) PatchSubTask(ctx context.Context, id string, patch domain.SubTaskPatch) (*domain.SubTask, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	cur := s.subTaskLocked(id)
	if cur == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("sub-task %s: %w", id, domain.ErrNotFound)
	}
	if _, err := patch.ApplyTo(*cur); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	t := s.beginLocked(entityKey{kindSubTask, id}, false)
	tr := s.tracked[id]
	if tr == nil {
		tr = &tracked{confirmed: cur.Clone()}
		s.tracked[id] = tr
	}
	tr.pending = append(tr.pending, pendingPatch{seq: t.seq, patch: patch})
	s.recomputeLocked(id)
	s.log.Debug().Str("subtask", id).Uint64("seq", t.seq).Msg("applied optimistic patch")
	s.mu.Unlock()

	st, err := execute(ctx, s, t,
		func(ctx context.Context) (*domain.SubTask, error) {
			return s.p.PatchSubTask(ctx, id, patch)
		},
		func(st *domain.SubTask, err error) error {
			tr := s.tracked[id]
			if tr != nil {
				tr.drop(t.seq)
			}
			if err == nil && st == nil {
				err = fmt.Errorf("sub-task %s: %w", id, domain.ErrNotFound)
			}
			if err != nil {
				s.log.Warn().Str("subtask", id).Uint64("seq", t.seq).Msg("rolling back patch")
				s.recomputeLocked(id)
				return s.failLocked("patch sub-task", err)
			}
			if tr != nil {
				tr.confirmed = st.Clone()
				s.recomputeLocked(id)
			} else {
				s.replaceSubTaskLocked(st.Clone())
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return st.Clone(), nil
}

// DeleteSubTask removes a sub-task once the backend confirms.
func (s *Store) DeleteSubTask(ctx context.Context, id string) error {
	s.mu.Lock()
	t := s.beginLocked(entityKey{kindSubTask, id}, true)
	s.mu.Unlock()

	_, err := execute(ctx, s, t,
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, s.p.DeleteSubTask(ctx, id)
		},
		func(_ struct{}, err error) error {
			if err != nil {
				return s.failLocked("delete sub-task", err)
			}
			s.forgetSubTaskLocked(id)
			return nil
		})
	return err
}
