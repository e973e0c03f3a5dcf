package progress

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rcpanes/rcpanes/internal/models"
)

func TestJobsUIPlainOutput(t *testing.T) {
	var buf bytes.Buffer
	ui := NewJobsUI(&buf)
	if ui.IsTerminal() {
		t.Fatal("A buffer is not a terminal")
	}

	ui.Update([]models.ActiveJob{
		{Group: "job/1", Name: "a.bin", Size: 1024 * 1024, Bytes: 10},
		{Group: "job/2", Name: "b.bin", Size: 2 * 1024 * 1024},
	})
	if ui.Active() != 2 {
		t.Errorf("Expected 2 active, got %d", ui.Active())
	}

	ui.Update([]models.ActiveJob{
		{Group: "job/2", Name: "b.bin", Size: 2 * 1024 * 1024, Bytes: 100},
	})
	if ui.Active() != 1 || ui.Finished() != 1 {
		t.Errorf("Expected 1 active and 1 finished, got %d and %d", ui.Active(), ui.Finished())
	}

	ui.Update(nil)
	ui.Close()

	out := buf.String()
	for _, want := range []string{
		"Transferring [job/1]: a.bin (1.00 MB)",
		"Transferring [job/2]: b.bin (2.00 MB)",
		"✓ [job/1] a.bin",
		"✓ [job/2] b.bin",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Count(out, "Transferring [job/2]") != 1 {
		t.Error("A known job must not be announced twice")
	}
}

func TestFormatETA(t *testing.T) {
	if got := formatETA(nil); got != "ETA -" {
		t.Errorf("Expected ETA -, got %s", got)
	}
	eta := int64(65)
	if got := formatETA(&eta); got != "ETA 1m5s" {
		t.Errorf("Expected ETA 1m5s, got %s", got)
	}
}

func TestIndicatorOnBuffer(t *testing.T) {
	var buf bytes.Buffer
	ind := NewIndicator(&buf)
	if _, ok := ind.(*NoOpIndicator); !ok {
		t.Errorf("Expected a no-op indicator for a non-terminal, got %T", ind)
	}
	ind.Start("Listing")
	ind.Error(errors.New("boom"))
	ind.Finish()
	if buf.Len() != 0 {
		t.Errorf("Expected no output, got %q", buf.String())
	}
}

func TestSpinnerError(t *testing.T) {
	var buf bytes.Buffer
	s := NewSpinner(&buf)
	s.Start("Listing r:/")
	s.Error(errors.New("directory not found"))
	if !strings.Contains(buf.String(), "Error: directory not found") {
		t.Errorf("Expected error line, got %q", buf.String())
	}
}
