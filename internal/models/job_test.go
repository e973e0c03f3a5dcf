package models

import (
	"encoding/json"
	"testing"
)

func TestGroupNumber(t *testing.T) {
	tests := []struct {
		group  string
		want   int64
		wantOK bool
	}{
		{"job/42", 42, true},
		{"async/job/7", 7, true},
		{"13", 13, true},
		{"", 0, false},
		{"job/", 0, false},
		{"job/abc", 0, false},
	}

	for _, tt := range tests {
		got, ok := GroupNumber(tt.group)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("GroupNumber(%q) = %d, %v; expected %d, %v", tt.group, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestJobIDFromGroup(t *testing.T) {
	id, err := JobIDFromGroup("job/42")
	if err != nil || id != 42 {
		t.Errorf("Expected 42, got %d (%v)", id, err)
	}
	if _, err := JobIDFromGroup("job/x"); err == nil {
		t.Error("Expected error for non-numeric suffix")
	}
}

func TestStatsResponseDecodesTransferring(t *testing.T) {
	body := `{"bytes":10,"transferring":[{"name":"a.bin","group":"job/3","size":2048,"bytes":1024,"speed":512.5,"percentage":50,"eta":2}]}`

	var resp StatsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(resp.Transferring) != 1 {
		t.Fatalf("Expected 1 active job, got %d", len(resp.Transferring))
	}
	job := resp.Transferring[0]
	if job.Group != "job/3" || job.Percentage != 50 || job.Speed != 512.5 {
		t.Errorf("Unexpected job: %+v", job)
	}
}

func TestTransferredResponseMissingListIsEmpty(t *testing.T) {
	var resp TransferredResponse
	if err := json.Unmarshal([]byte(`{}`), &resp); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(resp.Transferred) != 0 {
		t.Errorf("Expected empty list, got %d", len(resp.Transferred))
	}
}
