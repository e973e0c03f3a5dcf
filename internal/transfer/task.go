// Package transfer holds the queue of pending copy, move and delete requests
// and the scheduler that hands them to the rc service one at a time.
package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcpanes/rcpanes/internal/state"
)

// OpKind is the requested operation.
type OpKind int

const (
	OpCopy OpKind = iota + 1
	OpMove
	OpDelete
)

func (o OpKind) String() string {
	switch o {
	case OpCopy:
		return "copy"
	case OpMove:
		return "move"
	case OpDelete:
		return "delete"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// NeedsDestination reports whether the operation writes into the other pane.
func (o OpKind) NeedsDestination() bool {
	return o == OpCopy || o == OpMove
}

// ParseOp accepts "copy", "move" and "delete" (or "cp", "mv", "rm").
func ParseOp(s string) (OpKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "copy", "cp":
		return OpCopy, nil
	case "move", "mv":
		return OpMove, nil
	case "delete", "rm", "del":
		return OpDelete, nil
	}
	return 0, fmt.Errorf("unknown operation %q (use copy, move or delete)", s)
}

// ItemKind is the kind of the item an operation acts on.
type ItemKind int

const (
	ItemFile ItemKind = iota + 1
	ItemFolder
)

func (k ItemKind) String() string {
	switch k {
	case ItemFile:
		return "file"
	case ItemFolder:
		return "folder"
	}
	return fmt.Sprintf("item(%d)", int(k))
}

// Handle identifies a queue entry. Handles are never reused.
type Handle uint64

// QueuedOperation is a request waiting in the queue. Parent+Leaf == Path.
// DstRoot is computed when the entry is created and never changes, even if
// the other pane navigates elsewhere before dispatch.
type QueuedOperation struct {
	Handle    Handle
	CreatedAt time.Time
	Op        OpKind
	Item      ItemKind
	Path      string
	Parent    string
	Leaf      string
	DstRoot   string
	Pane      state.PaneID
}

// String is used in log lines and the jobs view.
func (q QueuedOperation) String() string {
	if q.Op.NeedsDestination() {
		return fmt.Sprintf("%s %s %s -> %s", q.Op, q.Item, q.Path, q.DstRoot)
	}
	return fmt.Sprintf("%s %s %s", q.Op, q.Item, q.Path)
}
