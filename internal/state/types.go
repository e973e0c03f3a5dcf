// Package state holds the observable session state for both panes: current
// path, last listing, checked entries and search query. Listing changes are
// published on the event bus so a frontend can report them.
package state

import (
	"fmt"
	"strings"
	"time"

	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/models"
)

// PaneID names one of the two panes.
type PaneID int

const (
	Left PaneID = iota
	Right
)

func (p PaneID) String() string {
	if p == Right {
		return "right"
	}
	return "left"
}

// Other returns the opposite pane.
func (p PaneID) Other() PaneID {
	if p == Left {
		return Right
	}
	return Left
}

// ParsePane accepts "left"/"l"/"1" and "right"/"r"/"2".
func ParsePane(s string) (PaneID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "l", "1":
		return Left, nil
	case "right", "r", "2":
		return Right, nil
	}
	return Left, fmt.Errorf("unknown pane %q (use left or right)", s)
}

// PaneListingEvent is published when a pane's listing is replaced or cleared.
type PaneListingEvent struct {
	events.BaseEvent
	Pane    PaneID
	Path    string
	Entries []models.DirectoryEntry
	Loading bool
	Err     error
}

func newListingEvent(pane PaneID, path string, entries []models.DirectoryEntry, loading bool, err error) *PaneListingEvent {
	return &PaneListingEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventPaneListing, Time: time.Now()},
		Pane:      pane,
		Path:      path,
		Entries:   entries,
		Loading:   loading,
		Err:       err,
	}
}
