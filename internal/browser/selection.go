package browser

import (
	"github.com/jonboulle/clockwork"

	"github.com/rcpanes/rcpanes/internal/models"
	"github.com/rcpanes/rcpanes/internal/state"
	"github.com/rcpanes/rcpanes/internal/transfer"
)

// Extractor turns the checked rows of a pane into queue entries.
type Extractor struct {
	state *state.Session
	clock clockwork.Clock
}

// NewExtractor creates an Extractor reading from s.
func NewExtractor(s *state.Session, clk clockwork.Clock) *Extractor {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Extractor{state: s, clock: clk}
}

// Collect builds one entry per checked row of pane, in listing order, and
// unchecks those rows. Copy and move need a path in both panes; otherwise
// ErrPaneUnset is returned and nothing is touched. The destination is the
// other pane's path at this moment.
func (x *Extractor) Collect(pane state.PaneID, op transfer.OpKind) ([]transfer.QueuedOperation, error) {
	if op.NeedsDestination() && !x.state.PathsSet() {
		return nil, ErrPaneUnset
	}

	dst := x.state.Path(pane.Other())
	now := x.clock.Now()

	checked := x.state.TakeChecked(pane)
	ops := make([]transfer.QueuedOperation, 0, len(checked))
	for _, e := range checked {
		q := NewOperation(op, e, dst)
		q.CreatedAt = now
		q.Pane = pane
		ops = append(ops, q)
	}
	return ops, nil
}

// NewOperation builds the queue entry for running op on e. Folders land in
// a folder of the same name under dst; files land directly in dst.
func NewOperation(op transfer.OpKind, e models.DirectoryEntry, dst string) transfer.QueuedOperation {
	parent, leaf := SplitEntryPath(e.Path)
	q := transfer.QueuedOperation{
		Op:     op,
		Path:   e.Path,
		Parent: parent,
		Leaf:   leaf,
	}
	if e.Kind == models.KindFolder {
		q.Item = transfer.ItemFolder
		q.DstRoot = JoinPath(dst, leaf)
	} else {
		q.Item = transfer.ItemFile
		q.DstRoot = JoinPath(dst, "")
	}
	return q
}
