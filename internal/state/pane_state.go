package state

import (
	"sync"

	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/models"
)

// paneState is one pane's slice of the session. Guarded by Session.mu.
type paneState struct {
	path      string
	entries   []models.DirectoryEntry
	checked   map[string]bool
	query     string
	loading   bool
	lastError error
}

// Session is the shared state of both panes. Thread-safe for concurrent
// access: listing tasks, the extractor and the user all write through it.
type Session struct {
	eventBus *events.EventBus
	panes    [2]paneState
	mu       sync.RWMutex
}

// NewSession creates an empty session. eventBus may be nil.
func NewSession(eventBus *events.EventBus) *Session {
	s := &Session{eventBus: eventBus}
	for i := range s.panes {
		s.panes[i].checked = make(map[string]bool)
	}
	return s
}

func (s *Session) pane(id PaneID) *paneState {
	return &s.panes[id]
}

// Path returns the pane's current path, "" when no remote is chosen.
func (s *Session) Path(id PaneID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pane(id).path
}

// SetPath updates the pane's current path.
func (s *Session) SetPath(id PaneID, path string) {
	s.mu.Lock()
	s.pane(id).path = path
	s.mu.Unlock()
}

// PathsSet reports whether both panes have a current path.
func (s *Session) PathsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panes[Left].path != "" && s.panes[Right].path != ""
}

// BeginLoading clears the pane's rows and checks and marks it as loading.
func (s *Session) BeginLoading(id PaneID) {
	s.mu.Lock()
	p := s.pane(id)
	p.entries = nil
	p.checked = make(map[string]bool)
	p.loading = true
	p.lastError = nil
	path := p.path
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(newListingEvent(id, path, nil, true, nil))
	}
}

// SetListing records a completed listing for path. The pane's current path is
// overwritten with path, so when two listings race the last one to complete
// wins. Checked flags belong to the previous rows and are dropped.
func (s *Session) SetListing(id PaneID, path string, entries []models.DirectoryEntry, err error) {
	s.mu.Lock()
	p := s.pane(id)
	p.path = path
	p.entries = entries
	p.checked = make(map[string]bool)
	p.loading = false
	p.lastError = err
	entriesCopy := make([]models.DirectoryEntry, len(entries))
	copy(entriesCopy, entries)
	s.mu.Unlock()

	if s.eventBus != nil {
		s.eventBus.Publish(newListingEvent(id, path, entriesCopy, false, err))
	}
}

// Entries returns a copy of the pane's current rows in listing order.
func (s *Session) Entries(id PaneID) []models.DirectoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := s.pane(id).entries
	result := make([]models.DirectoryEntry, len(entries))
	copy(result, entries)
	return result
}

// IsLoading reports whether a listing for the pane is in flight.
func (s *Session) IsLoading(id PaneID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pane(id).loading
}

// LastError returns the error of the pane's last listing, if any.
func (s *Session) LastError(id PaneID) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pane(id).lastError
}

// Check sets the checked flag of the row with the given path. It returns
// false when no such row exists or the row is the ".." entry.
func (s *Session) Check(id PaneID, path string, checked bool) bool {
	s.mu.Lock()
	p := s.pane(id)
	found := false
	for _, e := range p.entries {
		if e.Path == path && !e.Up {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return false
	}
	if checked {
		p.checked[path] = true
	} else {
		delete(p.checked, path)
	}
	s.mu.Unlock()
	return true
}

// IsChecked reports whether the row with the given path is checked.
func (s *Session) IsChecked(id PaneID, path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pane(id).checked[path]
}

// CheckedEntries returns the checked rows in listing order.
func (s *Session) CheckedEntries(id PaneID) []models.DirectoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return checkedEntriesLocked(s.pane(id))
}

// TakeChecked returns the checked rows in listing order and clears every
// checked flag of the pane.
func (s *Session) TakeChecked(id PaneID) []models.DirectoryEntry {
	s.mu.Lock()
	p := s.pane(id)
	taken := checkedEntriesLocked(p)
	p.checked = make(map[string]bool)
	s.mu.Unlock()
	return taken
}

// SetQuery stores the pane's search query.
func (s *Session) SetQuery(id PaneID, query string) {
	s.mu.Lock()
	s.pane(id).query = query
	s.mu.Unlock()
}

// Query returns the pane's search query.
func (s *Session) Query(id PaneID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pane(id).query
}

// checkedEntriesLocked must be called with the lock held.
func checkedEntriesLocked(p *paneState) []models.DirectoryEntry {
	result := make([]models.DirectoryEntry, 0, len(p.checked))
	for _, e := range p.entries {
		if p.checked[e.Path] {
			result = append(result, e)
		}
	}
	return result
}
