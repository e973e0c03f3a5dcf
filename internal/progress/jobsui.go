package progress

import (
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/rcpanes/rcpanes/internal/constants"
	"github.com/rcpanes/rcpanes/internal/format"
	"github.com/rcpanes/rcpanes/internal/models"
)

// JobsUI shows one bar per running transfer. Bars are created when a job
// first appears in a poll and completed when it no longer does.
type JobsUI struct {
	progress   *mpb.Progress
	out        io.Writer
	isTerminal bool

	mu       sync.Mutex
	bars     map[string]*jobBar
	finished int
}

type jobBar struct {
	bar *mpb.Bar

	mu  sync.Mutex
	job models.ActiveJob
}

func (b *jobBar) current() models.ActiveJob {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.job
}

// NewJobsUI renders to out. Bars are drawn only when out is a terminal;
// otherwise one line is printed per job start and finish.
func NewJobsUI(out io.Writer) *JobsUI {
	isTerminal := IsTerminal(out)

	var p *mpb.Progress
	if isTerminal {
		if f, ok := out.(*os.File); ok {
			enableANSI(f)
		}
		p = mpb.New(
			mpb.WithOutput(out),
			mpb.WithRefreshRate(constants.ProgressRefreshRate),
			mpb.WithWidth(constants.ProgressBarWidth),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &JobsUI{
		progress:   p,
		out:        out,
		isTerminal: isTerminal,
		bars:       make(map[string]*jobBar),
	}
}

func jobKey(job models.ActiveJob) string {
	return job.Group + "|" + job.Name
}

// Update applies a poll result: new jobs get a bar, known jobs move to the
// reported byte count, and jobs missing from the list are finished.
func (u *JobsUI) Update(jobs []models.ActiveJob) {
	u.mu.Lock()
	defer u.mu.Unlock()

	seen := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		key := jobKey(job)
		seen[key] = true

		jb, ok := u.bars[key]
		if !ok {
			jb = u.addBar(job)
			u.bars[key] = jb
		}
		jb.mu.Lock()
		jb.job = job
		jb.mu.Unlock()

		if jb.bar != nil {
			if job.Size > 0 {
				jb.bar.SetTotal(job.Size, false)
			}
			jb.bar.SetCurrent(job.Bytes)
		}
	}

	gone := make([]string, 0)
	for key := range u.bars {
		if !seen[key] {
			gone = append(gone, key)
		}
	}
	sort.Strings(gone)
	for _, key := range gone {
		u.finishLocked(key)
	}
}

func (u *JobsUI) addBar(job models.ActiveJob) *jobBar {
	jb := &jobBar{job: job}

	if !u.isTerminal {
		fmt.Fprintf(u.out, "Transferring [%s]: %s (%s)\n", job.Group, job.Name, format.HumanReadable(job.Size, ""))
		return jb
	}

	jb.bar = u.progress.New(job.Size,
		mpb.BarStyle().
			Lbound("[").
			Filler("█").
			Tip("█").
			Padding("░").
			Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(s decor.Statistics) string {
				j := jb.current()
				return fmt.Sprintf("%s %s", j.Group, j.Name)
			}, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Any(func(s decor.Statistics) string {
				return fmt.Sprintf("%3d%%", jb.current().Percentage)
			}, decor.WCSyncSpace),
			decor.Name("  "),
			decor.Any(func(s decor.Statistics) string {
				return format.HumanReadableFloat(jb.current().Speed, "/s")
			}, decor.WCSyncSpace),
			decor.Name("  "),
			decor.Any(func(s decor.Statistics) string {
				return formatETA(jb.current().ETA)
			}, decor.WCSyncSpace),
		),
		mpb.BarRemoveOnComplete(),
	)
	return jb
}

func (u *JobsUI) finishLocked(key string) {
	jb := u.bars[key]
	delete(u.bars, key)
	u.finished++

	job := jb.current()
	msg := fmt.Sprintf("✓ [%s] %s (%s)\n", job.Group, job.Name, format.HumanReadable(job.Size, ""))
	if jb.bar != nil {
		jb.bar.SetTotal(-1, true)
		u.progress.Write([]byte(msg))
		return
	}
	fmt.Fprint(u.out, msg)
}

// Active returns the number of bars currently shown.
func (u *JobsUI) Active() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.bars)
}

// Finished returns how many jobs have left the active list.
func (u *JobsUI) Finished() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.finished
}

// Writer returns an io.Writer that prints above the bars.
func (u *JobsUI) Writer() io.Writer {
	if u.isTerminal {
		return u.progress
	}
	return u.out
}

// IsTerminal returns whether bars are being drawn.
func (u *JobsUI) IsTerminal() bool {
	return u.isTerminal
}

// Close completes the remaining bars without printing them and waits for
// the renderer to stop.
func (u *JobsUI) Close() {
	u.mu.Lock()
	for key, jb := range u.bars {
		if jb.bar != nil {
			jb.bar.Abort(true)
		}
		delete(u.bars, key)
	}
	u.mu.Unlock()
	u.progress.Wait()
}

func formatETA(eta *int64) string {
	if eta == nil {
		return "ETA -"
	}
	return "ETA " + (time.Duration(*eta) * time.Second).String()
}
