package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ActiveJob is one entry of the `transferring` list of /core/stats
type ActiveJob struct {
	Name       string  `json:"name"`
	Group      string  `json:"group"`
	Size       int64   `json:"size"`
	Bytes      int64   `json:"bytes"`
	Speed      float64 `json:"speed"`
	SpeedAvg   float64 `json:"speedAvg"`
	Percentage int     `json:"percentage"`
	ETA        *int64  `json:"eta"`
}

// CompletedJob is one entry of the `transferred` list of /core/transferred
type CompletedJob struct {
	Name        string `json:"name"`
	Group       string `json:"group"`
	Size        int64  `json:"size"`
	Bytes       int64  `json:"bytes"`
	Checked     bool   `json:"checked"`
	StartedAt   string `json:"started_at"`
	CompletedAt string `json:"completed_at"`
	Error       string `json:"error"`
}

// StatsResponse represents the response from /core/stats
type StatsResponse struct {
	Bytes        int64       `json:"bytes"`
	Speed        float64     `json:"speed"`
	Transfers    int64       `json:"transfers"`
	Errors       int64       `json:"errors"`
	Transferring []ActiveJob `json:"transferring"`
}

// TransferredResponse represents the response from /core/transferred
type TransferredResponse struct {
	Transferred []CompletedJob `json:"transferred"`
}

// AsyncJobResponse is returned by every call made with _async
type AsyncJobResponse struct {
	JobID int64 `json:"jobid"`
}

// StopJobRequest represents the body of /job/stop
type StopJobRequest struct {
	JobID int64 `json:"jobid"`
}

// GroupNumber extracts the numeric suffix of a job group such as "job/42".
// ok is false when the group is empty or the suffix is not a number.
func GroupNumber(group string) (n int64, ok bool) {
	if group == "" {
		return 0, false
	}
	suffix := group[strings.LastIndex(group, "/")+1:]
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// JobIDFromGroup returns the job id named by a group, or an error when the
// suffix after the last "/" is not a number.
func JobIDFromGroup(group string) (int64, error) {
	n, ok := GroupNumber(group)
	if !ok {
		return 0, fmt.Errorf("invalid job group %q: no numeric job id", group)
	}
	return n, nil
}
