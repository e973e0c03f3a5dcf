package browser

import (
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcpanes/rcpanes/internal/constants"
	"github.com/rcpanes/rcpanes/internal/models"
)

// QueryTooShort reports a non-empty query that is too short to filter with.
func QueryTooShort(query string) bool {
	n := len([]rune(query))
	return n > 0 && n < constants.MinSearchLength
}

// Filter returns the rows a pane shows for query. Queries shorter than
// MinSearchLength show everything; otherwise rows whose name does not
// contain the query (case-insensitively) are hidden. The ".." row is
// always shown.
func Filter(entries []models.DirectoryEntry, query string) []models.DirectoryEntry {
	if len([]rune(query)) < constants.MinSearchLength {
		return entries
	}

	needle := strings.ToLower(query)
	visible := make([]models.DirectoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.Up || strings.Contains(strings.ToLower(e.Name), needle) {
			visible = append(visible, e)
		}
	}
	return visible
}

// Debouncer delays a call until input has been quiet for the configured
// delay. Each Trigger replaces the pending call.
type Debouncer struct {
	clock clockwork.Clock
	delay time.Duration

	mu      sync.Mutex
	pending clockwork.Timer
}

// NewDebouncer creates a Debouncer on clk.
func NewDebouncer(clk clockwork.Clock, delay time.Duration) *Debouncer {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clk, delay: delay}
}

// Trigger schedules f, cancelling any call not yet run.
func (d *Debouncer) Trigger(f func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
	}
	d.pending = d.clock.AfterFunc(d.delay, f)
}

// Cancel drops the pending call, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}
