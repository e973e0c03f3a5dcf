package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/rcpanes/rcpanes/internal/state"
	"github.com/rcpanes/rcpanes/internal/validation"
)

// FolderMaker creates a folder named remote inside fs.
type FolderMaker interface {
	Mkdir(ctx context.Context, fs, remote string) error
}

// CreateFolder makes name inside the pane's current path, then refreshes the
// pane whatever the outcome. The mkdir error, if any, is returned.
func (n *Navigator) CreateFolder(ctx context.Context, maker FolderMaker, pane state.PaneID, name string) error {
	path := n.state.Path(pane)
	if path == "" {
		return ErrNoRemote
	}
	name = strings.TrimSpace(name)
	if err := validation.FolderName(name); err != nil {
		return err
	}

	err := maker.Mkdir(ctx, path, name)
	if err != nil {
		n.logger.Error().Err(err).Str("path", path).Str("name", name).Msg("Create folder failed")
		err = fmt.Errorf("create folder %s: %w", name, err)
	} else {
		n.logger.Info().Str("path", path).Str("name", name).Msg("Folder created")
	}

	n.Open(ctx, pane, path)
	return err
}
