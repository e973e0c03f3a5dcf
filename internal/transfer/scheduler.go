package transfer

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcpanes/rcpanes/internal/events"
	"github.com/rcpanes/rcpanes/internal/logging"
)

// ActivitySource reports how many transfers the server was running at the
// last status poll.
type ActivitySource interface {
	LastActiveCount() int
}

// Starter starts an async rc job and returns its id.
type Starter interface {
	Start(ctx context.Context, endpoint string, params interface{}) (int64, error)
}

// DispatchedEvent is published when a queue entry has been sent to the server.
type DispatchedEvent struct {
	events.BaseEvent
	Operation QueuedOperation
	JobID     int64
	Err       error
}

// Scheduler dispatches at most one queued operation per tick, and only when
// the server reported no active transfers. Dispatched entries are never
// re-queued, whatever the outcome.
type Scheduler struct {
	queue    *Queue
	activity ActivitySource
	starter  Starter
	clock    clockwork.Clock
	interval time.Duration
	eventBus *events.EventBus
	logger   *logging.Logger

	wg sync.WaitGroup
}

// NewScheduler creates a Scheduler ticking every interval on clk.
func NewScheduler(queue *Queue, activity ActivitySource, starter Starter, clk clockwork.Clock, interval time.Duration, eventBus *events.EventBus, logger *logging.Logger) *Scheduler {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Scheduler{
		queue:    queue,
		activity: activity,
		starter:  starter,
		clock:    clk,
		interval: interval,
		eventBus: eventBus,
		logger:   logger.Component("scheduler"),
	}
}

// Tick pops the queue head and dispatches it in the background when the
// server is idle. It reports whether an entry was popped.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if s.activity.LastActiveCount() != 0 || s.queue.Len() == 0 {
		return false
	}

	op, ok := s.queue.PopHead()
	if !ok {
		return false
	}

	req, err := RequestFor(op)
	if err != nil {
		// logged only; nothing is reported to the user
		s.logger.Error().Err(err).Uint64("handle", uint64(op.Handle)).Msg("Dropping queue entry")
		return true
	}

	s.logger.Info().Str("op", op.String()).Str("endpoint", req.Endpoint).Msg("Dispatching")

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		jobID, err := s.starter.Start(ctx, req.Endpoint, req.Params)
		if err != nil {
			s.logger.Error().Err(err).Str("op", op.String()).Msg("Dispatch failed")
		} else {
			s.logger.Info().Int64("jobid", jobID).Str("op", op.String()).Msg("Job started")
		}
		s.publish(op, jobID, err)
	}()
	return true
}

// Run ticks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := s.clock.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			s.Tick(ctx)
		}
	}
}

// Wait blocks until every dispatch started so far has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) publish(op QueuedOperation, jobID int64, err error) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(&DispatchedEvent{
		BaseEvent: events.NewBase(events.EventDispatched),
		Operation: op,
		JobID:     jobID,
		Err:       err,
	})
}
