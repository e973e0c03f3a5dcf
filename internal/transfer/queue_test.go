package transfer

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rcpanes/rcpanes/internal/events"
)

func fileOp(path string) QueuedOperation {
	return QueuedOperation{Op: OpCopy, Item: ItemFile, Path: path}
}

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(nil)
	handles := q.Enqueue(fileOp("r:/a"), fileOp("r:/b"))
	q.Enqueue(fileOp("r:/c"))

	if len(handles) != 2 || handles[0] == handles[1] {
		t.Fatalf("Expected two distinct handles, got %v", handles)
	}
	if q.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", q.Len())
	}

	for _, want := range []string{"r:/a", "r:/b", "r:/c"} {
		got, ok := q.PopHead()
		if !ok {
			t.Fatalf("PopHead returned nothing, expected %s", want)
		}
		if got.Path != want {
			t.Errorf("Expected %s, got %s", want, got.Path)
		}
	}
	if _, ok := q.PopHead(); ok {
		t.Error("PopHead on an empty queue should report false")
	}
}

func TestQueueAssignsCreatedAt(t *testing.T) {
	q := NewQueue(nil)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	op := fileOp("r:/a")
	op.CreatedAt = fixed
	q.Enqueue(op, fileOp("r:/b"))

	snap := q.Snapshot()
	if !snap[0].CreatedAt.Equal(fixed) {
		t.Errorf("Expected CreatedAt to be kept, got %v", snap[0].CreatedAt)
	}
	if snap[1].CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be filled in")
	}
}

func TestQueueRemoveByHandle(t *testing.T) {
	q := NewQueue(nil)
	h := q.Enqueue(fileOp("r:/a"), fileOp("r:/b"), fileOp("r:/c"))

	if err := q.Remove(h[1]); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	snap := q.Snapshot()
	if len(snap) != 2 || snap[0].Path != "r:/a" || snap[1].Path != "r:/c" {
		t.Errorf("Unexpected queue after removal: %v", snap)
	}
	if err := q.Remove(h[1]); !errors.Is(err, ErrNotQueued) {
		t.Errorf("Expected ErrNotQueued on second removal, got %v", err)
	}
}

func TestQueueRemoveAfterPop(t *testing.T) {
	q := NewQueue(nil)
	h := q.Enqueue(fileOp("r:/a"), fileOp("r:/b"))

	// The user acts on a stale view: the head was dispatched meanwhile
	if _, ok := q.PopHead(); !ok {
		t.Fatal("PopHead failed")
	}
	if err := q.Remove(h[0]); !errors.Is(err, ErrNotQueued) {
		t.Errorf("Expected ErrNotQueued for a dispatched entry, got %v", err)
	}
	if q.Len() != 1 || q.Snapshot()[0].Path != "r:/b" {
		t.Error("Removing a dispatched handle must not touch other entries")
	}
}

func TestQueueHandlesNeverReused(t *testing.T) {
	q := NewQueue(nil)
	first := q.Enqueue(fileOp("r:/a"))[0]
	_ = q.Remove(first)
	second := q.Enqueue(fileOp("r:/a"))[0]
	if first == second {
		t.Error("Handles must not be reused")
	}
}

func TestQueueConcurrentAccess(t *testing.T) {
	q := NewQueue(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			q.Enqueue(fileOp("r:/x"))
		}()
		go func() {
			defer wg.Done()
			q.PopHead()
		}()
	}
	wg.Wait()

	for {
		if _, ok := q.PopHead(); !ok {
			break
		}
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}

func TestQueuePublishesEvents(t *testing.T) {
	bus := events.NewEventBus(16)
	ch := bus.Subscribe(events.EventQueue)
	q := NewQueue(bus)

	h := q.Enqueue(fileOp("r:/a"), fileOp("r:/b"))
	_ = q.Remove(h[0])
	q.PopHead()

	want := []struct {
		action  QueueAction
		pending int
	}{
		{QueueEnqueued, 2},
		{QueueRemoved, 1},
		{QueueDispatched, 0},
	}
	for _, w := range want {
		select {
		case e := <-ch:
			qe := e.(*QueueEvent)
			if qe.Action != w.action || len(qe.Pending) != w.pending {
				t.Errorf("Expected %s with %d pending, got %s with %d", w.action, w.pending, qe.Action, len(qe.Pending))
			}
		case <-time.After(time.Second):
			t.Fatalf("Missing %s event", w.action)
		}
	}
}

func TestParseOp(t *testing.T) {
	for in, want := range map[string]OpKind{"copy": OpCopy, "CP": OpCopy, "move": OpMove, "mv": OpMove, "delete": OpDelete, "rm": OpDelete} {
		got, err := ParseOp(in)
		if err != nil || got != want {
			t.Errorf("ParseOp(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOp("rename"); err == nil {
		t.Error("Expected error for unknown operation")
	}
}
