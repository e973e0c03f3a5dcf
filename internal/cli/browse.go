package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/rcpanes/rcpanes/internal/browser"
	"github.com/rcpanes/rcpanes/internal/format"
	"github.com/rcpanes/rcpanes/internal/models"
	"github.com/rcpanes/rcpanes/internal/progress"
	"github.com/rcpanes/rcpanes/internal/validation"
	"github.com/rcpanes/rcpanes/internal/version"
)

// remotePathArgs accepts exactly n arguments, the first remotes of which
// must be remote:/path values.
func remotePathArgs(n, remotes int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return err
		}
		for _, arg := range args[:remotes] {
			if err := validation.RemotePath(arg); err != nil {
				return err
			}
		}
		return nil
	}
}

// newVersionCmd creates the 'version' command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show client and server versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "rcpanes %s (%s) %s/%s\n", version.Version, version.BuildTime, runtime.GOOS, runtime.GOARCH)

			client, _, err := getRCClient()
			if err != nil {
				return err
			}
			v, err := client.Version(GetContext())
			if err != nil {
				fmt.Fprintf(out, "Server: unreachable (%v)\n", err)
				return nil
			}
			fmt.Fprintf(out, "Server: %s (%s), rclone %s\n", v.OS, v.Arch, v.Version)
			return nil
		},
	}
}

// newRemotesCmd creates the 'remotes' command.
func newRemotesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remotes",
		Short: "List the remotes configured on the server",
		Long: `List the remotes configured on the rc server.

Remotes with a [remote "<name>"] preset that sets can_query_disk = true
show their free space.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getRCClient()
			if err != nil {
				return err
			}
			options, err := browser.RemoteOptions(GetContext(), client, cfg, GetLogger())
			if err != nil {
				return fmt.Errorf("failed to list remotes: %w", err)
			}
			if len(options) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No remotes configured")
				return nil
			}
			for _, o := range options {
				fmt.Fprintln(cmd.OutOrStdout(), o.Label)
			}
			return nil
		},
	}
}

// newLsCmd creates the 'ls' command.
func newLsCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "ls <remote:/path>",
		Short: "List a remote folder",
		Long: `List a folder the way a pane shows it: the ".." entry first, then
folders, then files.

Examples:
  rcpanes ls gdrive:/
  rcpanes ls gdrive:/Projects --search report`,
		Args: remotePathArgs(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := getRCClient()
			if err != nil {
				return err
			}

			path := args[0]
			base, leaf := browser.SplitPath(path)

			indicator := progress.NewIndicator(os.Stderr)
			indicator.Start("Listing " + path)
			items, err := client.List(GetContext(), base, leaf)
			if err != nil {
				indicator.Error(err)
				return fmt.Errorf("failed to list %s: %w", path, err)
			}
			indicator.Finish()

			if browser.QueryTooShort(search) {
				GetLogger().Warn().Str("query", search).Msg("Search needs at least 3 characters")
			}
			entries := browser.Filter(browser.BuildEntries(path, items), search)
			writeEntries(cmd.OutOrStdout(), entries, nil)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Only show entries whose name contains this text")

	return cmd
}

// writeEntries prints pane rows. checked marks rows selected for an operation.
func writeEntries(out io.Writer, entries []models.DirectoryEntry, checked func(string) bool) {
	for i, e := range entries {
		mark := " "
		if checked != nil && checked(e.Path) {
			mark = "*"
		}
		if e.Up {
			fmt.Fprintf(out, "%3d %s %-7s %s  %s\n", i, mark, "dir", e.Name, browser.PathHint(e.Path))
			continue
		}
		class, size := "dir", ""
		if !e.IsFolder() {
			class = format.FileClass(e.MimeType)
			size = format.HumanReadable(e.Size, "")
		}
		fmt.Fprintf(out, "%3d %s %-7s %-40s %12s  %s\n", i, mark, class, e.Name, size, format.Timestamp(e.ModTime))
	}
}

// newMkdirCmd creates the 'mkdir' command.
func newMkdirCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mkdir <remote:/path> <name>",
		Short: "Create a folder inside a remote folder",
		Args:  remotePathArgs(2, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.FolderName(args[1]); err != nil {
				return err
			}
			client, _, err := getRCClient()
			if err != nil {
				return err
			}
			if err := client.Mkdir(GetContext(), args[0], args[1]); err != nil {
				return fmt.Errorf("failed to create folder: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", browser.JoinPath(args[0], args[1]))
			return nil
		},
	}
}
