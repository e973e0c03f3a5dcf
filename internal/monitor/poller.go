// Package monitor polls the rc service for running and finished transfers
// and stops jobs on request.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/logging"
	"github.com/rcpanes/rcpanes/internal/models"
)

// StatusSource is the part of the rc client the poller reads from.
type StatusSource interface {
	Stats(ctx context.Context) (*models.StatsResponse, error)
	Transferred(ctx context.Context) ([]models.CompletedJob, error)
}

// Snapshot is the job view after the last poll.
type Snapshot struct {
	Active    []models.ActiveJob
	Completed []models.CompletedJob
	// CompletedCount leaves out the entries the server only checked.
	CompletedCount int
	Enabled        bool
	Interval       time.Duration
	PolledAt       time.Time
}

// JobsEvent is published after every refresh.
type JobsEvent struct {
	events.BaseEvent
	Snapshot Snapshot
	Errs     []error
}

// Poller keeps the active and completed job lists. Each half is replaced
// wholesale by a successful fetch and left alone when its fetch fails.
type Poller struct {
	source   StatusSource
	clock    clockwork.Clock
	eventBus *events.EventBus
	logger   *logging.Logger

	mu        sync.RWMutex
	active    []models.ActiveJob
	completed []models.CompletedJob
	polledAt  time.Time
	enabled   bool
	interval  time.Duration

	// receives new intervals for the running ticker
	resetCh chan time.Duration
}

// NewPoller creates a Poller refreshing every interval while enabled.
func NewPoller(source StatusSource, clk clockwork.Clock, interval time.Duration, enabled bool, eventBus *events.EventBus, logger *logging.Logger) *Poller {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Poller{
		source:   source,
		clock:    clk,
		eventBus: eventBus,
		logger:   logger.Component("poller"),
		enabled:  enabled,
		interval: interval,
		resetCh:  make(chan time.Duration, 1),
	}
}

// Refresh fetches both lists concurrently.
func (p *Poller) Refresh(ctx context.Context) {
	var (
		wg        sync.WaitGroup
		stats     *models.StatsResponse
		statsErr  error
		completed []models.CompletedJob
		doneErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		stats, statsErr = p.source.Stats(ctx)
	}()
	go func() {
		defer wg.Done()
		completed, doneErr = p.source.Transferred(ctx)
	}()
	wg.Wait()

	var errs []error

	p.mu.Lock()
	if statsErr != nil {
		p.logger.Error().Err(statsErr).Msg("Failed to fetch active jobs")
		errs = append(errs, statsErr)
	} else if stats != nil {
		active := append([]models.ActiveJob(nil), stats.Transferring...)
		SortActive(active)
		p.active = active
	}
	if doneErr != nil {
		p.logger.Error().Err(doneErr).Msg("Failed to fetch completed jobs")
		errs = append(errs, doneErr)
	} else {
		done := append([]models.CompletedJob(nil), completed...)
		SortCompleted(done)
		p.completed = done
	}
	p.polledAt = p.clock.Now()
	snap := p.snapshotLocked()
	p.mu.Unlock()

	p.logger.Debug().
		Int("active", len(snap.Active)).
		Int("completed", snap.CompletedCount).
		Msg("Jobs refreshed")

	if p.eventBus != nil {
		p.eventBus.Publish(&JobsEvent{
			BaseEvent: events.NewBase(events.EventJobs),
			Snapshot:  snap,
			Errs:      errs,
		})
	}
}

// LastActiveCount is the number of running transfers seen at the last poll.
func (p *Poller) LastActiveCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.active)
}

// Snapshot returns copies of the current lists.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshotLocked()
}

func (p *Poller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Active:    append([]models.ActiveJob(nil), p.active...),
		Completed: append([]models.CompletedJob(nil), p.completed...),
		Enabled:   p.enabled,
		Interval:  p.interval,
		PolledAt:  p.polledAt,
	}
	for _, job := range p.completed {
		if !job.Checked {
			snap.CompletedCount++
		}
	}
	return snap
}

// SetEnabled turns periodic refresh on or off. While off, the lists only
// change through explicit Refresh calls.
func (p *Poller) SetEnabled(enabled bool) {
	p.mu.Lock()
	p.enabled = enabled
	p.mu.Unlock()
	p.logger.Info().Bool("enabled", enabled).Msg("Polling toggled")
}

// Enabled reports whether periodic refresh is on.
func (p *Poller) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

// SetInterval changes the refresh period; a running loop restarts its ticker.
func (p *Poller) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	p.mu.Lock()
	p.interval = d
	p.mu.Unlock()

	// keep only the latest pending value
	select {
	case <-p.resetCh:
	default:
	}
	p.resetCh <- d
}

// Interval returns the refresh period.
func (p *Poller) Interval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.interval
}

// Run refreshes on every tick while enabled, until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := p.clock.NewTicker(p.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case d := <-p.resetCh:
			ticker.Reset(d)
		case <-ticker.Chan():
			if p.Enabled() {
				p.Refresh(ctx)
			}
		}
	}
}
