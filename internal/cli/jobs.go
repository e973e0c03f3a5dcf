package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/constants"
	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/format"
	"github.com/rcpanes/rcpanes/internal/monitor"
	"github.com/rcpanes/rcpanes/internal/progress"
	"github.com/rcpanes/rcpanes/internal/transfer"
)

// newJobsCmd creates the 'jobs' command.
func newJobsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show active and completed transfers",
		Long: `Show the transfers the rc server is running and the ones it has finished.

Active jobs are listed oldest first, completed jobs newest first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := getRCClient()
			if err != nil {
				return err
			}

			poller := monitor.NewPoller(client, clockwork.NewRealClock(), time.Second, false, nil, GetLogger())
			poller.Refresh(GetContext())
			snap := poller.Snapshot()

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			writeJobs(cmd.OutOrStdout(), snap, nil)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the job lists as JSON")

	return cmd
}

// writeJobs prints the job lists followed by the operations still queued.
func writeJobs(out io.Writer, snap monitor.Snapshot, queued []transfer.QueuedOperation) {
	fmt.Fprintf(out, "Active (%d):\n", len(snap.Active))
	if len(snap.Active) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, job := range snap.Active {
		fmt.Fprintf(out, "  %-10s %3d%%  %s of %s  %s  %s\n",
			job.Group,
			job.Percentage,
			format.HumanReadable(job.Bytes, ""),
			format.HumanReadable(job.Size, ""),
			format.HumanReadableFloat(job.Speed, "/s"),
			job.Name)
	}

	if len(queued) > 0 {
		fmt.Fprintf(out, "Queued (%d):\n", len(queued))
		for _, q := range queued {
			fmt.Fprintf(out, "  #%-4d %s\n", q.Handle, q.String())
		}
	}

	fmt.Fprintf(out, "Completed (%d):\n", snap.CompletedCount)
	if snap.CompletedCount == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, job := range snap.Completed {
		// the server only compared these; nothing was transferred
		if job.Checked {
			continue
		}
		status := "✓"
		if job.Error != "" {
			status = "✗"
		}
		fmt.Fprintf(out, "  %s %-10s %s  %s  %s",
			status,
			job.Group,
			format.Timestamp(job.StartedAt),
			format.HumanReadable(job.Size, ""),
			job.Name)
		if job.Error != "" {
			fmt.Fprintf(out, "  (%s)", job.Error)
		}
		fmt.Fprintln(out)
	}

	if !snap.Enabled && !snap.PolledAt.IsZero() {
		fmt.Fprintf(out, "Polling off, last refresh %s\n", snap.PolledAt.Format("15:04:05"))
	}
}

// newStopCmd creates the 'stop' command.
func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <group>",
		Short: "Stop a running transfer",
		Long: `Stop the job behind an active transfer. The job id is the number after
the last "/" of the group shown by 'rcpanes jobs'.

Example:
  rcpanes stop job/42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := getRCClient()
			if err != nil {
				return err
			}
			canceller := monitor.NewCanceller(client, nil, GetLogger())
			if err := canceller.Cancel(GetContext(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Stop requested for %s\n", args[0])
			return nil
		},
	}
}

// newWatchCmd creates the 'watch' command.
func newWatchCmd() *cobra.Command {
	var interval int

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow active transfers with progress bars",
		Long: `Poll the rc server and draw a progress bar per active transfer until
interrupted with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getRCClient()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("interval") {
				if err := config.ValidateRefreshInterval(interval); err != nil {
					return err
				}
				cfg.RefreshInterval = interval
			}
			return runWatch(cmd, client, cfg)
		},
	}

	cmd.Flags().IntVar(&interval, "interval", constants.DefaultRefreshInterval, "Seconds between polls (1-120)")

	return cmd
}

func runWatch(cmd *cobra.Command, client monitor.StatusSource, cfg *config.Config) error {
	ctx := GetContext()
	logger := GetLogger()

	bus := events.NewEventBus(constants.EventBusDefaultBuffer)
	defer bus.Close()
	jobs := bus.Subscribe(events.EventJobs)

	// logs go above the bars while they are drawn
	ui := progress.NewJobsUI(os.Stderr)
	prev := logger.Output()
	logger.SetOutput(ui.Writer())
	defer logger.SetOutput(prev)

	period := time.Duration(cfg.RefreshInterval) * time.Second
	poller := monitor.NewPoller(client, clockwork.NewRealClock(), period, true, bus, logger)

	go poller.Run(ctx)
	poller.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			ui.Close()
			if dropped := bus.GetDroppedEventCount(); dropped > 0 {
				logger.Debug().Int64("dropped", dropped).Msg("Watch skipped job snapshots")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d transfer(s) finished while watching\n", ui.Finished())
			return nil
		case ev, ok := <-jobs:
			if !ok {
				ui.Close()
				return nil
			}
			if je, ok := ev.(*monitor.JobsEvent); ok {
				ui.Update(je.Snapshot.Active)
			}
		}
	}
}
