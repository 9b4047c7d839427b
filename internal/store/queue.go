package store

import (
	"context"
	"strconv"
)

type entityKind string

const (
	kindSnapshot     entityKind = "snapshot"
	kindActivityList entityKind = "activities"
	kindActivity     entityKind = "activity"
	kindTopic        entityKind = "topic"
	kindSubTask      entityKind = "subtask"
)

type entityKey struct {
	kind entityKind
	id   string
}

// newEntityKeyLocked keys a create. The entity has no ID yet, so each create
// gets a queue of its own.
func (s *Store) newEntityKeyLocked(kind entityKind) entityKey {
	s.creates++
	return entityKey{kind: kind, id: "new-" + strconv.FormatUint(s.creates, 10)}
}

// queue serializes calls against one entity. applied is the newest seq whose
// backend call was issued and whose resolution reached the local state.
type queue struct {
	tail     chan struct{}
	applied  uint64
	inflight int
}

// ticket is one call's place in its entity queue. Sequence numbers come from
// the store, so they never repeat even after an idle queue is dropped.
type ticket struct {
	key     entityKey
	q       *queue
	seq     uint64
	wait    <-chan struct{}
	next    chan struct{}
	loading bool
	issued  bool
	settled bool
}

// beginLocked clears the last error, raises the loading flag when asked and
// reserves the next slot on key's queue.
func (s *Store) beginLocked(key entityKey, loading bool) *ticket {
	s.lastErr = ""
	if loading {
		s.loading++
	}
	q := s.queues[key]
	if q == nil {
		q = &queue{}
		s.queues[key] = q
	}
	s.seq++
	q.inflight++
	t := &ticket{
		key:     key,
		q:       q,
		seq:     s.seq,
		wait:    q.tail,
		next:    make(chan struct{}),
		loading: loading,
	}
	q.tail = t.next
	return t
}

// settleLocked marks t resolved. It reports false when t was already settled
// or a newer issued call already landed; the caller must then leave local
// state alone. A ticket cancelled before its call was issued settles without
// advancing applied, so the reply of the call ahead of it still counts.
func (s *Store) settleLocked(t *ticket) bool {
	if t.settled || t.seq <= t.q.applied {
		return false
	}
	t.settled = true
	if t.issued {
		t.q.applied = t.seq
	}
	if t.loading {
		s.loading--
	}
	return true
}

// releaseLocked lets the next queued call on the same entity proceed.
func (s *Store) releaseLocked(t *ticket) {
	close(t.next)
	t.q.inflight--
	if t.q.inflight == 0 {
		delete(s.queues, t.key)
	}
}

type outcome[T any] struct {
	v   T
	err error
}

// execute runs call once every earlier call on the same entity has finished,
// then resolves it with settle under the store lock. If ctx ends first the
// call is settled as a failure right away; a late result is then discarded,
// while the queue stays blocked until the backend actually returns. A call
// whose ctx ended while it was still queued is never sent.
func execute[T any](ctx context.Context, s *Store, t *ticket,
	call func(context.Context) (T, error),
	settle func(v T, err error) error,
) (T, error) {
	var zero T
	resc := make(chan outcome[T], 1)

	go func() {
		if t.wait != nil {
			<-t.wait
		}
		s.mu.Lock()
		run := !t.settled && ctx.Err() == nil
		t.issued = run
		s.mu.Unlock()

		var v T
		err := ctx.Err()
		if run {
			v, err = call(ctx)
		}

		s.mu.Lock()
		out := err
		if s.settleLocked(t) {
			out = settle(v, err)
		} else if run {
			s.log.Debug().
				Str("kind", string(t.key.kind)).
				Str("id", t.key.id).
				Uint64("seq", t.seq).
				Msg("discarding stale response")
		}
		s.releaseLocked(t)
		s.mu.Unlock()
		resc <- outcome[T]{v: v, err: out}
	}()

	select {
	case r := <-resc:
		if r.err != nil {
			return zero, r.err
		}
		return r.v, nil
	case <-ctx.Done():
		s.mu.Lock()
		if !s.settleLocked(t) {
			s.mu.Unlock()
			r := <-resc
			if r.err != nil {
				return zero, r.err
			}
			return r.v, nil
		}
		err := settle(zero, ctx.Err())
		s.mu.Unlock()
		return zero, err
	}
}
