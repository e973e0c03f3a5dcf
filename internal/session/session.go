// Package session ties the panes, the transfer queue and the job poller
// together behind the operations a user can perform.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcpanes/rcpanes/internal/browser"
	"github.com/rcpanes/rcpanes/internal/config"
	"github.com/rcpanes/rcpanes/internal/constants"
	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/logging"
	"github.com/rcpanes/rcpanes/internal/models"
	"github.com/rcpanes/rcpanes/internal/monitor"
	"github.com/rcpanes/rcpanes/internal/state"
	"github.com/rcpanes/rcpanes/internal/transfer"
)

// ErrAlreadyRunning is returned by Start on a running controller.
var ErrAlreadyRunning = errors.New("session is already running")

// Backend is everything the controller needs from the rc service.
type Backend interface {
	browser.Lister
	browser.FolderMaker
	browser.RemoteSource
	monitor.StatusSource
	monitor.JobStopper
	transfer.Starter
	Version(ctx context.Context) (*models.VersionResponse, error)
}

// Options tune a Controller. Zero values pick the defaults.
type Options struct {
	Clock    clockwork.Clock
	EventBus *events.EventBus
	Logger   *logging.Logger
	// ConfigPath, when set, is where changed settings are saved.
	ConfigPath string
}

// Controller owns the pane state and the two recurring tasks: the scheduler
// that drains the queue and the poller that mirrors the server's jobs.
type Controller struct {
	cfg        *config.Config
	configPath string
	backend    Backend
	eventBus   *events.EventBus
	logger     *logging.Logger

	state     *state.Session
	queue     *transfer.Queue
	navigator *browser.Navigator
	extractor *browser.Extractor
	scheduler *transfer.Scheduler
	poller    *monitor.Poller
	canceller *monitor.Canceller

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// New builds a Controller over backend.
func New(cfg *config.Config, backend Backend, opts Options) *Controller {
	if cfg == nil {
		cfg = config.New()
	}
	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	queueInterval := cfg.ProcessQueueInterval
	if queueInterval <= 0 {
		queueInterval = constants.DefaultProcessQueueInterval
	}

	s := state.NewSession(opts.EventBus)
	queue := transfer.NewQueue(opts.EventBus)
	poller := monitor.NewPoller(backend, clk, refreshPeriod(cfg.RefreshInterval), cfg.RefreshEnabled, opts.EventBus, logger)

	return &Controller{
		cfg:        cfg,
		configPath: opts.ConfigPath,
		backend:    backend,
		eventBus:   opts.EventBus,
		logger:     logger.Component("session"),
		state:      s,
		queue:      queue,
		navigator:  browser.NewNavigator(backend, s, cfg, logger),
		extractor:  browser.NewExtractor(s, clk),
		scheduler:  transfer.NewScheduler(queue, poller, backend, clk, queueInterval, opts.EventBus, logger),
		poller:     poller,
		canceller:  monitor.NewCanceller(backend, poller, logger),
	}
}

func refreshPeriod(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = constants.DefaultRefreshInterval
	}
	return time.Duration(seconds) * time.Second
}

// Start launches the scheduler and the poller. When polling is enabled the
// job lists are fetched once before returning.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return ErrAlreadyRunning
	}
	c.running = true
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	c.logger.Info().
		Str("host", c.cfg.Host).
		Dur("queue_interval", c.cfg.ProcessQueueInterval).
		Int("refresh_interval", c.cfg.RefreshInterval).
		Bool("refresh_enabled", c.cfg.RefreshEnabled).
		Msg("Session starting")

	if c.poller.Enabled() {
		c.poller.Refresh(runCtx)
	}

	c.wg.Add(2)
	go func() {
		defer c.wg.Done()
		c.scheduler.Run(runCtx)
	}()
	go func() {
		defer c.wg.Done()
		c.poller.Run(runCtx)
	}()
	return nil
}

// Stop cancels the recurring tasks and waits for in-flight work to return.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	c.scheduler.Wait()
	c.navigator.Wait()
	c.logger.Info().Msg("Session stopped")
}

// IsRunning reports whether Start has been called without a matching Stop.
func (c *Controller) IsRunning() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

// State exposes the pane state for rendering.
func (c *Controller) State() *state.Session {
	return c.state
}

// Config returns the configuration in use.
func (c *Controller) Config() *config.Config {
	return c.cfg
}

// notice reports a user-facing problem and returns err unchanged.
func (c *Controller) notice(pane string, err error) error {
	c.eventBus.PublishNotice(pane, err.Error())
	return err
}

// ChooseRemote opens the root (or preset starting folder) of remote in pane.
func (c *Controller) ChooseRemote(ctx context.Context, pane state.PaneID, remote string) {
	c.navigator.ChooseRemote(ctx, pane, remote)
}

// Open shows path in pane.
func (c *Controller) Open(ctx context.Context, pane state.PaneID, path string) {
	c.navigator.Open(ctx, pane, path)
}

// Refresh re-lists the pane's current path.
func (c *Controller) Refresh(ctx context.Context, pane state.PaneID) error {
	if err := c.navigator.Refresh(ctx, pane); err != nil {
		return c.notice(pane.String(), err)
	}
	return nil
}

// WaitListings blocks until every pending listing has been recorded.
func (c *Controller) WaitListings() {
	c.navigator.Wait()
}

// Check marks or unmarks a row for the next copy, move or delete.
func (c *Controller) Check(pane state.PaneID, path string, checked bool) bool {
	return c.state.Check(pane, path, checked)
}

// Search sets the pane's filter. Short queries are kept but do not filter.
func (c *Controller) Search(pane state.PaneID, query string) error {
	if c.state.Path(pane) == "" {
		return c.notice(pane.String(), fmt.Errorf("nothing to search in: %w", browser.ErrNoRemote))
	}
	if browser.QueryTooShort(query) {
		c.logger.Warn().Str("pane", pane.String()).Str("query", query).Msg("Search query too short")
	}
	c.state.SetQuery(pane, query)
	return nil
}

// Visible returns the rows of pane that pass its search filter.
func (c *Controller) Visible(pane state.PaneID) []models.DirectoryEntry {
	return browser.Filter(c.state.Entries(pane), c.state.Query(pane))
}

// Mkdir creates name inside the pane's current path and refreshes the pane.
func (c *Controller) Mkdir(ctx context.Context, pane state.PaneID, name string) error {
	if err := c.navigator.CreateFolder(ctx, c.backend, pane, name); err != nil {
		return c.notice(pane.String(), err)
	}
	return nil
}

// Enqueue queues the checked rows of pane for op and returns their handles.
func (c *Controller) Enqueue(pane state.PaneID, op transfer.OpKind) ([]transfer.Handle, error) {
	ops, err := c.extractor.Collect(pane, op)
	if err != nil {
		return nil, c.notice(pane.String(), err)
	}
	handles := c.queue.Enqueue(ops...)
	if len(handles) > 0 {
		c.logger.Info().Str("pane", pane.String()).Str("op", op.String()).Int("count", len(handles)).Msg("Queued")
	}
	return handles, nil
}

// RemoveFromQueue drops a queued entry that has not been dispatched yet.
func (c *Controller) RemoveFromQueue(h transfer.Handle) error {
	if err := c.queue.Remove(h); err != nil {
		return c.notice("", err)
	}
	return nil
}

// Queue returns the entries waiting for dispatch in order.
func (c *Controller) Queue() []transfer.QueuedOperation {
	return c.queue.Snapshot()
}

// ProcessQueue runs one scheduler step now instead of waiting for the tick.
func (c *Controller) ProcessQueue(ctx context.Context) bool {
	return c.scheduler.Tick(ctx)
}

// WaitDispatches blocks until every started dispatch has returned.
func (c *Controller) WaitDispatches() {
	c.scheduler.Wait()
}

// CancelJob stops the job named by group.
func (c *Controller) CancelJob(ctx context.Context, group string) error {
	if err := c.canceller.Cancel(ctx, group); err != nil {
		return c.notice("", err)
	}
	return nil
}

// Jobs returns the job lists from the last poll.
func (c *Controller) Jobs() monitor.Snapshot {
	return c.poller.Snapshot()
}

// ManualRefresh polls the job lists now.
func (c *Controller) ManualRefresh(ctx context.Context) {
	c.poller.Refresh(ctx)
}

// SetPolling turns periodic job refresh on or off.
func (c *Controller) SetPolling(enabled bool) {
	c.poller.SetEnabled(enabled)
	c.mu.Lock()
	c.cfg.RefreshEnabled = enabled
	c.mu.Unlock()
	c.persist()
}

// SetRefreshInterval parses input as a number of seconds and applies it.
// Invalid input is rejected and the previous interval kept.
func (c *Controller) SetRefreshInterval(input string) error {
	n, err := config.ParseRefreshInterval(input)
	if err != nil {
		return c.notice("", err)
	}
	c.mu.Lock()
	c.cfg.RefreshInterval = n
	c.mu.Unlock()
	c.poller.SetInterval(refreshPeriod(n))
	c.persist()
	return nil
}

func (c *Controller) persist() {
	if c.configPath == "" {
		return
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if err := config.Save(c.cfg, c.configPath); err != nil {
		c.logger.Warn().Err(err).Str("path", c.configPath).Msg("Failed to save settings")
	}
}

// Remotes lists the server's remotes with free-space labels where enabled.
func (c *Controller) Remotes(ctx context.Context) ([]browser.RemoteOption, error) {
	return browser.RemoteOptions(ctx, c.backend, c.cfg, c.logger)
}

// ServerVersion queries the rc service for its build.
func (c *Controller) ServerVersion(ctx context.Context) (*models.VersionResponse, error) {
	return c.backend.Version(ctx)
}

// Status is a summary of the controller for the status line.
type Status struct {
	Running         bool
	Left, Right     string
	Queued          int
	Active          int
	Completed       int
	PollingEnabled  bool
	RefreshInterval time.Duration
	LastPoll        time.Time
}

// GetStatus returns the current summary.
func (c *Controller) GetStatus() *Status {
	jobs := c.poller.Snapshot()
	return &Status{
		Running:         c.IsRunning(),
		Left:            c.state.Path(state.Left),
		Right:           c.state.Path(state.Right),
		Queued:          c.queue.Len(),
		Active:          len(jobs.Active),
		Completed:       jobs.CompletedCount,
		PollingEnabled:  jobs.Enabled,
		RefreshInterval: jobs.Interval,
		LastPoll:        jobs.PolledAt,
	}
}

// WriteStatus writes the summary to w.
func (s *Status) WriteStatus(w io.Writer) {
	fmt.Fprintf(w, "Left:  %s\n", orNone(s.Left))
	fmt.Fprintf(w, "Right: %s\n", orNone(s.Right))
	fmt.Fprintf(w, "Queued: %d  Active: %d  Completed: %d\n", s.Queued, s.Active, s.Completed)
	if s.PollingEnabled {
		fmt.Fprintf(w, "Polling: every %s\n", s.RefreshInterval)
	} else {
		fmt.Fprintf(w, "Polling: off (manual refresh)\n")
	}
	if !s.LastPoll.IsZero() {
		fmt.Fprintf(w, "Last poll: %s\n", s.LastPoll.Format("15:04:05"))
	}
}

func orNone(path string) string {
	if path == "" {
		return "(no remote)"
	}
	return path
}
