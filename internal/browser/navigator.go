// Package browser drives the two panes: navigation, selection of items to
// queue, search filtering, folder creation and the remote chooser.
package browser

import (
	"context"
	"strings"
	"sync"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/logging"
	"github.com/rcpanes/rcpanes/internal/models"
	"github.com/rcpanes/rcpanes/internal/state"
)

// Lister fetches the contents of remote inside fs.
type Lister interface {
	List(ctx context.Context, fs, remote string) ([]models.ListItem, error)
}

// Navigator opens paths in panes. Each open spawns its own listing task;
// opens on the same pane are not sequenced, so when two race the listing
// that completes last is what the pane shows.
type Navigator struct {
	lister Lister
	state  *state.Session
	cfg    *config.Config
	logger *logging.Logger

	wg sync.WaitGroup
}

// NewNavigator creates a Navigator writing into s.
func NewNavigator(lister Lister, s *state.Session, cfg *config.Config, logger *logging.Logger) *Navigator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Navigator{
		lister: lister,
		state:  s,
		cfg:    cfg,
		logger: logger.Component("navigator"),
	}
}

// Open shows path in pane. A blank path is ignored. The pane is cleared and
// its path set at once; the listing arrives asynchronously.
func (n *Navigator) Open(ctx context.Context, pane state.PaneID, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}

	n.state.SetPath(pane, path)
	n.state.BeginLoading(pane)

	base, leaf := SplitPath(path)
	n.logger.Debug().
		Str("pane", pane.String()).
		Str("fs", base).
		Str("remote", leaf).
		Msg("Listing")

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		items, err := n.lister.List(ctx, base, leaf)
		if err != nil {
			n.logger.Error().Err(err).Str("pane", pane.String()).Str("path", path).Msg("Listing failed")
			n.state.SetListing(pane, path, []models.DirectoryEntry{upEntry(path)}, err)
			return
		}

		entries := BuildEntries(path, items)
		n.logger.Debug().Str("pane", pane.String()).Int("count", len(entries)-1).Msg("Listing complete")
		n.state.SetListing(pane, path, entries, nil)
	}()
}

// Refresh re-opens the pane's current path.
func (n *Navigator) Refresh(ctx context.Context, pane state.PaneID) error {
	path := n.state.Path(pane)
	if path == "" {
		return ErrNoRemote
	}
	n.Open(ctx, pane, path)
	return nil
}

// ChooseRemote opens the root of remote, or its configured starting folder.
// A blank remote is ignored.
func (n *Navigator) ChooseRemote(ctx context.Context, pane state.PaneID, remote string) {
	remote = strings.TrimSpace(remote)
	if remote == "" {
		return
	}
	var startingFolder string
	if n.cfg != nil {
		startingFolder = n.cfg.Preset(remote).StartingFolder
	}
	n.Open(ctx, pane, RootPath(remote, startingFolder))
}

// Wait blocks until every listing started so far has been recorded.
func (n *Navigator) Wait() {
	n.wg.Wait()
}
