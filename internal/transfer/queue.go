package transfer

import (
	"errors"
	"sync"
	"time"

	"github.com/rcpanes/rcpanes/internal/events"
)

// ErrNotQueued is returned by Remove when the entry was already dispatched
// or removed.
var ErrNotQueued = errors.New("operation is no longer queued")

// QueueAction describes what changed in a QueueEvent.
type QueueAction string

const (
	QueueEnqueued   QueueAction = "enqueued"
	QueueDispatched QueueAction = "dispatched"
	QueueRemoved    QueueAction = "removed"
)

// QueueEvent is published after every change with the full queue contents.
type QueueEvent struct {
	events.BaseEvent
	Action  QueueAction
	Handles []Handle
	Pending []QueuedOperation
}

// Queue is the FIFO of operations waiting for dispatch. Entries are
// addressed by handle, so a removal can never hit the wrong entry after the
// scheduler popped the head.
type Queue struct {
	entries    []QueuedOperation
	nextHandle Handle
	mu         sync.Mutex

	eventBus *events.EventBus
}

// NewQueue creates an empty queue. eventBus may be nil.
func NewQueue(eventBus *events.EventBus) *Queue {
	return &Queue{
		entries:  make([]QueuedOperation, 0),
		eventBus: eventBus,
	}
}

// Enqueue appends ops in order, assigning each a fresh handle. The assigned
// handles are returned in the same order.
func (q *Queue) Enqueue(ops ...QueuedOperation) []Handle {
	if len(ops) == 0 {
		return nil
	}

	q.mu.Lock()
	handles := make([]Handle, 0, len(ops))
	for _, op := range ops {
		q.nextHandle++
		op.Handle = q.nextHandle
		if op.CreatedAt.IsZero() {
			op.CreatedAt = time.Now()
		}
		q.entries = append(q.entries, op)
		handles = append(handles, op.Handle)
	}
	pending := q.snapshotLocked()
	q.mu.Unlock()

	q.publish(QueueEnqueued, handles, pending)
	return handles
}

// PopHead removes and returns the oldest entry.
func (q *Queue) PopHead() (QueuedOperation, bool) {
	q.mu.Lock()
	if len(q.entries) == 0 {
		q.mu.Unlock()
		return QueuedOperation{}, false
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	pending := q.snapshotLocked()
	q.mu.Unlock()

	q.publish(QueueDispatched, []Handle{head.Handle}, pending)
	return head, true
}

// Remove drops the entry with the given handle.
func (q *Queue) Remove(h Handle) error {
	q.mu.Lock()
	idx := -1
	for i, e := range q.entries {
		if e.Handle == h {
			idx = i
			break
		}
	}
	if idx < 0 {
		q.mu.Unlock()
		return ErrNotQueued
	}
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	pending := q.snapshotLocked()
	q.mu.Unlock()

	q.publish(QueueRemoved, []Handle{h}, pending)
	return nil
}

// Snapshot returns a copy of the pending entries in dispatch order.
func (q *Queue) Snapshot() []QueuedOperation {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of pending entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// snapshotLocked must be called with the lock held.
func (q *Queue) snapshotLocked() []QueuedOperation {
	result := make([]QueuedOperation, len(q.entries))
	copy(result, q.entries)
	return result
}

func (q *Queue) publish(action QueueAction, handles []Handle, pending []QueuedOperation) {
	if q.eventBus == nil {
		return
	}
	q.eventBus.Publish(&QueueEvent{
		BaseEvent: events.NewBase(events.EventQueue),
		Action:    action,
		Handles:   handles,
		Pending:   pending,
	})
}
