package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rcpanes/rcpanes/internal/browser"
	"github.com/rcpanes/rcpanes/internal/format"
	"github.com/rcpanes/rcpanes/internal/models"
	"github.com/rcpanes/rcpanes/internal/monitor"
	"github.com/rcpanes/rcpanes/internal/rc"
	"github.com/rcpanes/rcpanes/internal/transfer"
)

type fakeShortcutBackend struct {
	active   []models.ActiveJob
	startErr error

	endpoint string
	params   map[string]interface{}
}

func (f *fakeShortcutBackend) Stats(ctx context.Context) (*models.StatsResponse, error) {
	return &models.StatsResponse{Transferring: f.active}, nil
}

func (f *fakeShortcutBackend) Transferred(ctx context.Context) ([]models.CompletedJob, error) {
	return nil, nil
}

func (f *fakeShortcutBackend) Start(ctx context.Context, endpoint string, params interface{}) (int64, error) {
	if f.startErr != nil {
		return 0, f.startErr
	}
	f.endpoint = endpoint
	f.params, _ = params.(map[string]interface{})
	return 42, nil
}

func TestRunShortcutStartsJob(t *testing.T) {
	backend := &fakeShortcutBackend{}
	op := browser.NewOperation(transfer.OpMove, models.DirectoryEntry{Path: "a:/src/dir", Kind: models.KindFolder}, "b:/dst")

	out := &bytes.Buffer{}
	if err := runShortcut(context.Background(), out, backend, op, false); err != nil {
		t.Fatalf("runShortcut failed: %v", err)
	}

	if backend.endpoint != rc.EndpointSyncMove {
		t.Errorf("Expected %s, got %s", rc.EndpointSyncMove, backend.endpoint)
	}
	if backend.params["srcFs"] != "a:/src/dir" || backend.params["dstFs"] != "b:/dst/dir" {
		t.Errorf("Unexpected params %v", backend.params)
	}
	if !strings.Contains(out.String(), "Started job 42") {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestRunShortcutWaitsForActiveTransfers(t *testing.T) {
	backend := &fakeShortcutBackend{active: []models.ActiveJob{{Group: "job/1", Name: "x"}}}
	op := browser.NewOperation(transfer.OpDelete, models.DirectoryEntry{Path: "a:/f.txt", Kind: models.KindFile}, "")

	err := runShortcut(context.Background(), &bytes.Buffer{}, backend, op, false)
	if err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("Expected refusal, got %v", err)
	}
	if backend.endpoint != "" {
		t.Error("Nothing should have been started")
	}

	if err := runShortcut(context.Background(), &bytes.Buffer{}, backend, op, true); err != nil {
		t.Fatalf("Forced runShortcut failed: %v", err)
	}
	if backend.endpoint != rc.EndpointDeleteFile {
		t.Errorf("Expected %s, got %s", rc.EndpointDeleteFile, backend.endpoint)
	}
	if backend.params["fs"] != "a:/" || backend.params["remote"] != "f.txt" {
		t.Errorf("Unexpected params %v", backend.params)
	}
}

func TestRunShortcutStartFailure(t *testing.T) {
	backend := &fakeShortcutBackend{startErr: errors.New("boom")}
	op := browser.NewOperation(transfer.OpCopy, models.DirectoryEntry{Path: "a:/f.txt", Kind: models.KindFile}, "b:/")

	err := runShortcut(context.Background(), &bytes.Buffer{}, backend, op, false)
	if err == nil || !strings.Contains(err.Error(), "failed to start copy") {
		t.Errorf("Expected start failure, got %v", err)
	}
}

func TestShortcutArgs(t *testing.T) {
	tests := []struct {
		op   transfer.OpKind
		args []string
		ok   bool
	}{
		{transfer.OpCopy, []string{"a:/x", "b:/"}, true},
		{transfer.OpCopy, []string{"a:/x"}, false},
		{transfer.OpDelete, []string{"a:/x"}, true},
		{transfer.OpDelete, []string{"a:/x", "b:/"}, false},
		{transfer.OpDelete, []string{"/tmp/x"}, false},
		{transfer.OpMove, []string{"a:/x", "b:/../c"}, false},
	}
	for _, tt := range tests {
		cmd := newTransferShortcut(tt.op, tt.op.String(), "test")
		err := cmd.Args(cmd, tt.args)
		if (err == nil) != tt.ok {
			t.Errorf("%s %v: expected ok=%t, got %v", tt.op, tt.args, tt.ok, err)
		}
	}
}

func TestWriteJobs(t *testing.T) {
	snap := monitor.Snapshot{
		Active: []models.ActiveJob{{Group: "job/3", Name: "big.iso", Percentage: 40}},
		Completed: []models.CompletedJob{
			{Group: "job/2", Name: "bad.bin", Error: "permission denied",
				StartedAt: "2024-01-02T03:04:05Z", CompletedAt: "2024-01-02T05:06:07Z"},
			{Group: "job/1", Name: "same.txt", Checked: true},
		},
		CompletedCount: 1,
		Enabled:        true,
	}
	queued := []transfer.QueuedOperation{
		browser.NewOperation(transfer.OpDelete, models.DirectoryEntry{Path: "a:/old", Kind: models.KindFile}, ""),
	}
	queued[0].Handle = 5

	out := &bytes.Buffer{}
	writeJobs(out, snap, queued)
	text := out.String()

	for _, want := range []string{
		"Active (1):",
		"job/3",
		" 40%",
		"Queued (1):",
		"#5    delete file a:/old",
		"Completed (1):",
		"✗ job/2",
		"(permission denied)",
		format.Timestamp("2024-01-02T03:04:05Z"),
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in:\n%s", want, text)
		}
	}
	if strings.Contains(text, format.Timestamp("2024-01-02T05:06:07Z")) {
		t.Errorf("Expected the start time, not the completion time:\n%s", text)
	}
	if strings.Contains(text, "same.txt") {
		t.Errorf("Checked entries must not be listed:\n%s", text)
	}
}

func TestWriteJobsOnlyChecked(t *testing.T) {
	snap := monitor.Snapshot{
		Completed: []models.CompletedJob{{Group: "job/1", Name: "same.txt", Checked: true}},
		Enabled:   true,
	}
	out := &bytes.Buffer{}
	writeJobs(out, snap, nil)
	if !strings.Contains(out.String(), "Completed (0):\n  (none)") {
		t.Errorf("Unexpected output:\n%s", out.String())
	}
}

func TestWriteEntries(t *testing.T) {
	entries := browser.BuildEntries("r:/docs", []models.ListItem{
		{Path: "docs/a.txt", Name: "a.txt", Size: 2 * 1024 * 1024, MimeType: "text/plain"},
		{Path: "docs/sub", Name: "sub", IsDir: true},
	})

	out := &bytes.Buffer{}
	writeEntries(out, entries, func(p string) bool { return p == "r:/docs/a.txt" })
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines, got %d:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "..") || !strings.Contains(lines[0], "/") {
		t.Errorf("Unexpected up row %q", lines[0])
	}
	if !strings.Contains(lines[1], "dir") || !strings.Contains(lines[1], "sub") {
		t.Errorf("Expected folder row first, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "*") || !strings.Contains(lines[2], "2.00 MB") {
		t.Errorf("Expected checked file row, got %q", lines[2])
	}
}
