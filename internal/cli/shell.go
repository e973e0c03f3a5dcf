package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/rcpanes/rcpanes/internal/browser"
	"github.com/rcpanes/rcpanes/internal/constants"
	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/logging"
	"github.com/rcpanes/rcpanes/internal/session"
	"github.com/rcpanes/rcpanes/internal/state"
	"github.com/rcpanes/rcpanes/internal/transfer"
	"github.com/rcpanes/rcpanes/internal/version"
)

const shellHelp = `Panes are "left" (l) and "right" (r). Rows are numbered as 'ls' shows them.

  remotes                      list remotes with free space
  use <pane> <remote>          open a remote in a pane
  cd <pane> <row|..|path>      open a folder
  ls [pane]                    show one or both panes
  refresh <pane>               list the pane again
  check <pane> <row...|all>    mark rows for the next operation
  uncheck <pane> <row...|all>  unmark rows
  search <pane> [text]         filter rows (3+ characters; empty clears)
  mkdir <pane> <name>          create a folder in the pane
  copy|cp <pane>               queue marked rows for copy to the other pane
  move|mv <pane>               queue marked rows for move to the other pane
  delete|rm <pane>             queue marked rows for deletion
  queue                        show queued operations
  unqueue <id>                 drop a queued operation
  jobs                         show active, queued and completed transfers
  stop <group>                 stop an active transfer (e.g. job/42)
  poll on|off|now              toggle automatic job refresh, or refresh now
  interval <seconds>           set the job refresh interval (1-120)
  status                       summary of both panes and the queue
  version                      client and server versions
  help                         this text
  quit                         leave the shell`

var errQuit = errors.New("quit")

// newShellCmd creates the 'shell' command.
func newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive two-pane browser",
		Long: `Open the interactive two-pane browser.

Pick a remote for each pane, mark rows and queue copy, move or delete
operations. The queue is drained one operation at a time while the server
reports no active transfer. Type 'help' inside the shell for commands.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := getRCClient()
			if err != nil {
				return err
			}
			path, err := configPath()
			if err != nil {
				return err
			}

			ctx := GetContext()
			out := &syncWriter{w: cmd.OutOrStdout()}
			logger := GetLogger()
			logger.SetOutput(os.Stderr)

			bus := events.NewEventBus(constants.EventBusDefaultBuffer)
			defer bus.Close()

			ctrl := session.New(cfg, client, session.Options{
				EventBus:   bus,
				Logger:     logger,
				ConfigPath: path,
			})
			if err := ctrl.Start(ctx); err != nil {
				return err
			}
			defer ctrl.Stop()

			sh := newShell(ctrl, bus, out, clockwork.NewRealClock(), logger)
			go sh.printEvents(ctx)
			err = sh.run(ctx, cmd.InOrStdin())
			if dropped := bus.GetDroppedEventCount(); dropped > 0 {
				logger.Debug().Int64("dropped", dropped).Msg("Shell missed events")
			}
			return err
		},
	}
}

// syncWriter serialises writes from the prompt loop and the event printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type shell struct {
	ctrl      *session.Controller
	out       io.Writer
	feed      <-chan events.Event
	debouncer *browser.Debouncer
	logger    *logging.Logger
}

func newShell(ctrl *session.Controller, bus *events.EventBus, out io.Writer, clk clockwork.Clock, logger *logging.Logger) *shell {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &shell{
		ctrl:      ctrl,
		out:       out,
		feed:      bus.SubscribeAll(),
		debouncer: browser.NewDebouncer(clk, constants.SearchDebounce),
		logger:    logger.Component("shell"),
	}
}

// printEvents reports notices, dispatches, queue drains and failed
// listings until ctx ends.
func (s *shell) printEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.feed:
			if !ok {
				return
			}
			switch e := ev.(type) {
			case *events.NoticeEvent:
				s.printNotice(e)
			case *transfer.DispatchedEvent:
				s.printDispatch(e)
			case *transfer.QueueEvent:
				if e.Action == transfer.QueueDispatched {
					fmt.Fprintf(s.out, "Queue: %d waiting\n", len(e.Pending))
				}
			case *state.PaneListingEvent:
				if !e.Loading && e.Err != nil {
					fmt.Fprintf(s.out, "! [%s] listing %s failed: %v\n", e.Pane, e.Path, e.Err)
				}
			}
		}
	}
}

func (s *shell) printNotice(n *events.NoticeEvent) {
	if n.Pane != "" {
		fmt.Fprintf(s.out, "! [%s] %s\n", n.Pane, n.Message)
		return
	}
	fmt.Fprintf(s.out, "! %s\n", n.Message)
}

func (s *shell) printDispatch(d *transfer.DispatchedEvent) {
	if d.Err != nil {
		fmt.Fprintf(s.out, "✗ %s: %v\n", d.Operation.String(), d.Err)
		return
	}
	fmt.Fprintf(s.out, "→ job %d: %s\n", d.JobID, d.Operation.String())
}

func (s *shell) run(ctx context.Context, in io.Reader) error {
	defer s.debouncer.Cancel()

	fmt.Fprintf(s.out, "rcpanes %s - type 'help' for commands\n", version.Version)
	if !s.ctrl.Jobs().Enabled {
		fmt.Fprintln(s.out, "Polling off; use 'poll now' to refresh jobs")
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "rcpanes> ")
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		if err := s.exec(ctx, scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprintf(s.out, "Error: %v\n", err)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func parsePane(args []string) (state.PaneID, []string, error) {
	if len(args) == 0 {
		return 0, nil, errors.New("missing pane (left or right)")
	}
	pane, err := state.ParsePane(args[0])
	return pane, args[1:], err
}

// exec runs one command line.
func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
	case "quit", "exit", "q":
		return errQuit
	case "remotes":
		return s.remotes(ctx)
	case "use":
		pane, rest, err := parsePane(args)
		if err != nil {
			return err
		}
		if len(rest) != 1 {
			return errors.New("usage: use <pane> <remote>")
		}
		s.ctrl.ChooseRemote(ctx, pane, strings.TrimSuffix(rest[0], ":"))
		s.ctrl.WaitListings()
		s.showPane(pane)
	case "cd":
		return s.cd(ctx, args)
	case "ls":
		if len(args) == 0 {
			s.showPane(state.Left)
			s.showPane(state.Right)
			return nil
		}
		pane, _, err := parsePane(args)
		if err != nil {
			return err
		}
		s.showPane(pane)
	case "refresh":
		pane, _, err := parsePane(args)
		if err != nil {
			return err
		}
		if err := s.ctrl.Refresh(ctx, pane); err != nil {
			return nil
		}
		s.ctrl.WaitListings()
		s.showPane(pane)
	case "check", "uncheck":
		return s.check(args, cmd == "check")
	case "search":
		return s.search(args)
	case "mkdir":
		pane, rest, err := parsePane(args)
		if err != nil {
			return err
		}
		err = s.ctrl.Mkdir(ctx, pane, strings.Join(rest, " "))
		s.ctrl.WaitListings()
		if err == nil {
			s.showPane(pane)
		}
	case "copy", "cp", "move", "mv", "delete", "rm", "del":
		op, err := transfer.ParseOp(cmd)
		if err != nil {
			return err
		}
		pane, _, err := parsePane(args)
		if err != nil {
			return err
		}
		handles, err := s.ctrl.Enqueue(pane, op)
		if err != nil {
			return nil
		}
		if len(handles) == 0 {
			fmt.Fprintf(s.out, "Nothing checked in %s pane\n", pane)
			return nil
		}
		fmt.Fprintf(s.out, "Queued %d %s operation(s)\n", len(handles), op)
	case "queue":
		s.showQueue()
	case "unqueue":
		if len(args) != 1 {
			return errors.New("usage: unqueue <id>")
		}
		n, err := strconv.ParseUint(strings.TrimPrefix(args[0], "#"), 10, 64)
		if err != nil {
			return fmt.Errorf("invalid queue id %q", args[0])
		}
		if err := s.ctrl.RemoveFromQueue(transfer.Handle(n)); err == nil {
			fmt.Fprintf(s.out, "Removed #%d\n", n)
		}
	case "jobs":
		writeJobs(s.out, s.ctrl.Jobs(), s.ctrl.Queue())
	case "stop":
		if len(args) != 1 {
			return errors.New("usage: stop <group>")
		}
		if err := s.ctrl.CancelJob(ctx, args[0]); err == nil {
			fmt.Fprintf(s.out, "Stop requested for %s\n", args[0])
		}
	case "poll":
		return s.poll(ctx, args)
	case "interval":
		if len(args) != 1 {
			return errors.New("usage: interval <seconds>")
		}
		if err := s.ctrl.SetRefreshInterval(args[0]); err == nil {
			fmt.Fprintf(s.out, "Refreshing jobs every %ss\n", strings.TrimSpace(args[0]))
		}
	case "status":
		s.ctrl.GetStatus().WriteStatus(s.out)
	case "version":
		fmt.Fprintf(s.out, "rcpanes %s\n", version.Version)
		v, err := s.ctrl.ServerVersion(ctx)
		if err != nil {
			return fmt.Errorf("server version: %w", err)
		}
		fmt.Fprintf(s.out, "Server: %s (%s), rclone %s\n", v.OS, v.Arch, v.Version)
	default:
		return fmt.Errorf("unknown command %q (type 'help')", cmd)
	}
	return nil
}

func (s *shell) remotes(ctx context.Context) error {
	options, err := s.ctrl.Remotes(ctx)
	if err != nil {
		return fmt.Errorf("failed to list remotes: %w", err)
	}
	for _, o := range options {
		fmt.Fprintln(s.out, o.Label)
	}
	return nil
}

func (s *shell) showPane(pane state.PaneID) {
	st := s.ctrl.State()
	path := st.Path(pane)
	if path == "" {
		fmt.Fprintf(s.out, "[%s] (no remote)\n", pane)
		return
	}
	header := fmt.Sprintf("[%s] %s", pane, path)
	if q := st.Query(pane); q != "" {
		header += fmt.Sprintf("  (search: %q)", q)
	}
	fmt.Fprintln(s.out, header)
	if st.IsLoading(pane) {
		fmt.Fprintln(s.out, "  loading...")
		return
	}
	if st.LastError(pane) != nil {
		fmt.Fprintln(s.out, "  (last listing failed)")
	}
	writeEntries(s.out, s.ctrl.Visible(pane), func(p string) bool {
		return st.IsChecked(pane, p)
	})
}

func (s *shell) cd(ctx context.Context, args []string) error {
	pane, rest, err := parsePane(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return errors.New("usage: cd <pane> <row|..|path>")
	}
	target := rest[0]

	var path string
	switch {
	case target == browser.UpEntryName:
		current := s.ctrl.State().Path(pane)
		if current == "" {
			return browser.ErrNoRemote
		}
		path = browser.UpPath(current)
	case strings.Contains(target, ":"):
		path = target
	default:
		rows := s.ctrl.Visible(pane)
		n, err := strconv.Atoi(target)
		if err != nil || n < 0 || n >= len(rows) {
			return fmt.Errorf("no row %q in %s pane", target, pane)
		}
		if !rows[n].IsFolder() {
			return fmt.Errorf("%s is not a folder", rows[n].Name)
		}
		path = rows[n].Path
	}

	s.ctrl.Open(ctx, pane, path)
	s.ctrl.WaitListings()
	s.showPane(pane)
	return nil
}

func (s *shell) check(args []string, checked bool) error {
	pane, rest, err := parsePane(args)
	if err != nil {
		return err
	}
	if len(rest) == 0 {
		return errors.New("usage: check <pane> <row...|all>")
	}
	rows := s.ctrl.Visible(pane)

	var targets []int
	if len(rest) == 1 && rest[0] == "all" {
		for i := range rows {
			targets = append(targets, i)
		}
	} else {
		for _, arg := range rest {
			n, err := strconv.Atoi(arg)
			if err != nil || n < 0 || n >= len(rows) {
				return fmt.Errorf("no row %q in %s pane", arg, pane)
			}
			targets = append(targets, n)
		}
	}

	changed := 0
	for _, n := range targets {
		if rows[n].Up {
			continue
		}
		if s.ctrl.Check(pane, rows[n].Path, checked) {
			changed++
		}
	}
	verb := "unchecked"
	if checked {
		verb = "checked"
	}
	fmt.Fprintf(s.out, "%d row(s) %s, %d marked in %s pane\n", changed, verb, len(s.ctrl.State().CheckedEntries(pane)), pane)
	return nil
}

// search applies the query once typing has been quiet for a moment.
func (s *shell) search(args []string) error {
	pane, rest, err := parsePane(args)
	if err != nil {
		return err
	}
	query := strings.Join(rest, " ")
	if browser.QueryTooShort(query) {
		fmt.Fprintf(s.out, "Search needs at least %d characters; showing everything\n", constants.MinSearchLength)
	}
	s.debouncer.Trigger(func() {
		if err := s.ctrl.Search(pane, query); err != nil {
			return
		}
		s.showPane(pane)
	})
	return nil
}

func (s *shell) showQueue() {
	queued := s.ctrl.Queue()
	if len(queued) == 0 {
		fmt.Fprintln(s.out, "Queue is empty")
		return
	}
	for _, q := range queued {
		fmt.Fprintf(s.out, "  #%-4d %s\n", q.Handle, q.String())
	}
}

func (s *shell) poll(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: poll on|off|now")
	}
	switch strings.ToLower(args[0]) {
	case "on":
		s.ctrl.SetPolling(true)
		fmt.Fprintln(s.out, "Job polling on")
	case "off":
		s.ctrl.SetPolling(false)
		fmt.Fprintln(s.out, "Job polling off; use 'poll now' to refresh")
	case "now":
		s.ctrl.ManualRefresh(ctx)
		writeJobs(s.out, s.ctrl.Jobs(), s.ctrl.Queue())
	default:
		return fmt.Errorf("unknown poll mode %q", args[0])
	}
	return nil
}
