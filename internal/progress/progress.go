// Package progress renders long-running work in the terminal: a spinner
// while a listing loads and bars for the server's active transfers.
package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Indicator shows that a request is in flight.
type Indicator interface {
	Start(description string)
	Finish()
	Error(err error)
}

// NewIndicator returns a spinner on terminals and a silent indicator
// otherwise.
func NewIndicator(out io.Writer) Indicator {
	if IsTerminal(out) {
		return NewSpinner(out)
	}
	return NewNoOpIndicator()
}

// Spinner is an Indicator backed by an indeterminate progress bar.
type Spinner struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

// NewSpinner creates a Spinner writing to out.
func NewSpinner(out io.Writer) *Spinner {
	return &Spinner{out: out}
}

// Start shows the spinner with description.
func (s *Spinner) Start(description string) {
	s.bar = progressbar.NewOptions64(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(s.out),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionThrottle(100),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Finish removes the spinner.
func (s *Spinner) Finish() {
	if s.bar != nil {
		_ = s.bar.Finish()
		s.bar = nil
	}
}

// Error removes the spinner and prints err.
func (s *Spinner) Error(err error) {
	s.Finish()
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

// NoOpIndicator does nothing.
type NoOpIndicator struct{}

// NewNoOpIndicator creates a NoOpIndicator.
func NewNoOpIndicator() *NoOpIndicator {
	return &NoOpIndicator{}
}

// Start does nothing.
func (NoOpIndicator) Start(description string) {}

// Finish does nothing.
func (NoOpIndicator) Finish() {}

// Error does nothing.
func (NoOpIndicator) Error(err error) {}
