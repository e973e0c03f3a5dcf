package monitor

import (
	"context"
	"fmt"

	"github.com/rcpanes/rcpanes/internal/logging"
	"github.com/rcpanes/rcpanes/internal/models"
)

// JobStopper stops a running rc job.
type JobStopper interface {
	StopJob(ctx context.Context, jobID int64) error
}

// Canceller stops jobs named by their group. Nothing is marked locally; the
// next refresh shows the outcome.
type Canceller struct {
	stopper JobStopper
	poller  *Poller
	logger  *logging.Logger
}

// NewCanceller creates a Canceller that refreshes poller after each stop.
func NewCanceller(stopper JobStopper, poller *Poller, logger *logging.Logger) *Canceller {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Canceller{
		stopper: stopper,
		poller:  poller,
		logger:  logger.Component("canceller"),
	}
}

// Cancel stops the job whose id is the number after the last "/" of group.
func (c *Canceller) Cancel(ctx context.Context, group string) error {
	jobID, err := models.JobIDFromGroup(group)
	if err != nil {
		return err
	}

	c.logger.Info().Int64("jobid", jobID).Str("group", group).Msg("Stopping job")
	if err := c.stopper.StopJob(ctx, jobID); err != nil {
		c.logger.Error().Err(err).Int64("jobid", jobID).Msg("Stop failed")
		return fmt.Errorf("stop job %d: %w", jobID, err)
	}

	if c.poller != nil {
		c.poller.Refresh(ctx)
	}
	return nil
}
