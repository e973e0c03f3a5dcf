package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/rcpanes/rcpanes/internal/browser"
	"github.com/rcpanes/rcpanes/internal/models"
	"github.com/rcpanes/rcpanes/internal/monitor"
	"github.com/rcpanes/rcpanes/internal/transfer"
)

// AddShortcuts adds one-shot transfer commands to the root command.
// They start a single rc job without going through the shell's queue.
func AddShortcuts(rootCmd *cobra.Command) {
	rootCmd.AddCommand(newTransferShortcut(transfer.OpCopy, "cp <remote:/src> <remote:/dst-folder>", "Copy a file or folder into a folder"))
	rootCmd.AddCommand(newTransferShortcut(transfer.OpMove, "mv <remote:/src> <remote:/dst-folder>", "Move a file or folder into a folder"))
	rootCmd.AddCommand(newTransferShortcut(transfer.OpDelete, "rm <remote:/path>", "Delete a file or folder"))
}

// shortcutBackend is what a one-shot transfer needs from the rc client.
type shortcutBackend interface {
	monitor.StatusSource
	transfer.Starter
}

func newTransferShortcut(op transfer.OpKind, use, short string) *cobra.Command {
	var folder, force bool

	nargs := 2
	if !op.NeedsDestination() {
		nargs = 1
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short + " (shortcut for the shell's " + op.String() + ")",
		Long: short + `.

The job is started at once and runs on the server in the background;
follow it with 'rcpanes jobs' or 'rcpanes watch'. Like the shell's queue,
nothing is started while the server reports an active transfer unless
--force is given.

Use --folder (-r) when the source is a folder.`,
		Args: remotePathArgs(nargs, nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := getRCClient()
			if err != nil {
				return err
			}

			kind := models.KindFile
			if folder {
				kind = models.KindFolder
			}
			entry := models.DirectoryEntry{Path: args[0], Kind: kind}
			dst := ""
			if op.NeedsDestination() {
				dst = args[1]
			}
			return runShortcut(GetContext(), cmd.OutOrStdout(), client, browser.NewOperation(op, entry, dst), force)
		},
	}

	cmd.Flags().BoolVarP(&folder, "folder", "r", false, "Source is a folder")
	cmd.Flags().BoolVar(&force, "force", false, "Start even while other transfers are active")

	return cmd
}

func runShortcut(ctx context.Context, out io.Writer, backend shortcutBackend, op transfer.QueuedOperation, force bool) error {
	logger := GetLogger()

	req, err := transfer.RequestFor(op)
	if err != nil {
		return err
	}

	if !force {
		poller := monitor.NewPoller(backend, clockwork.NewRealClock(), time.Second, false, nil, logger)
		poller.Refresh(ctx)
		if n := poller.LastActiveCount(); n > 0 {
			return fmt.Errorf("server is running %d transfer(s); retry later or use --force", n)
		}
	}

	logger.Info().Str("op", op.String()).Str("endpoint", req.Endpoint).Msg("Starting job")
	jobID, err := backend.Start(ctx, req.Endpoint, req.Params)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", op.Op, err)
	}
	fmt.Fprintf(out, "✓ Started job %d: %s\n", jobID, op.String())
	return nil
}
