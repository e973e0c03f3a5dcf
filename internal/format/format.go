// Package format renders sizes, speeds, timestamps and file classes for the
// terminal views.
package format

import (
	"fmt"
	"time"
)

const (
	mib = 1024 * 1024
	gib = 1024 * mib
)

// HumanReadable renders a byte count in MB below one GB and in GB above,
// always with two decimals, followed by suffix ("/s" for speeds).
func HumanReadable(bytes int64, suffix string) string {
	return HumanReadableFloat(float64(bytes), suffix)
}

// HumanReadableFloat is HumanReadable for fractional values such as speeds.
func HumanReadableFloat(bytes float64, suffix string) string {
	if bytes/gib < 1 {
		return fmt.Sprintf("%.2f MB%s", bytes/mib, suffix)
	}
	return fmt.Sprintf("%.2f GB%s", bytes/gib, suffix)
}

// Timestamp renders an RFC 3339 time from the server in local time. Values
// that do not parse are returned unchanged.
func Timestamp(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.Local().Format("02/01/2006, 15:04:05")
}

// FileClass groups MIME types the way the pane icons do.
func FileClass(mimeType string) string {
	switch mimeType {
	case "inode/directory":
		return "dir"
	case "video/x-matroska", "video/mp4", "video/webm":
		return "video"
	case "audio/aac", "audio/mpeg", "audio/ac3", "audio/flac":
		return "audio"
	case "image/jpeg", "image/png", "image/svg+xml":
		return "image"
	case "text/srt; charset=utf-8", "text/plain", "text/plain; charset=utf-8":
		return "text"
	case "application/pdf":
		return "doc"
	case "application/json", "application/javascript", "text/css", "text/css; charset=utf-8",
		"text/html", "text/html; charset=utf-8":
		return "code"
	case "application/zip", "application/x-7z-compressed", "application/gzip":
		return "archive"
	}
	return "file"
}
