package rc

import (
	"errors"
	"fmt"
)

// APIError is returned when the rc service answers with a non-200 status.
type APIError struct {
	Status   int
	Endpoint string
	Message  string // backend "error" field, empty when absent
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: status %d", e.Endpoint, e.Status)
}

// IsStatus reports whether err is an APIError carrying the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == status
	}
	return false
}

// errorBody is the JSON document rclone returns on failure.
type errorBody struct {
	Error  string `json:"error"`
	Path   string `json:"path"`
	Status int    `json:"status"`
}
