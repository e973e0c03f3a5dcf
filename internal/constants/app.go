package constants

import (
	"time"
)

// Polling and queue processing cadence
const (
	// DefaultRefreshInterval - how often the jobs view is refreshed (seconds)
	DefaultRefreshInterval = 2

	// MinRefreshInterval / MaxRefreshInterval - accepted range for the refresh interval (seconds)
	MinRefreshInterval = 1
	MaxRefreshInterval = 120

	// DefaultProcessQueueInterval - how often the scheduler looks at the transfer queue
	DefaultProcessQueueInterval = 5 * time.Second

	// SearchDebounce - delay between the last keystroke and applying a search filter
	SearchDebounce = 200 * time.Millisecond

	// MinSearchLength - shorter queries do not filter anything
	MinSearchLength = 3
)

// Event bus sizing
const (
	// EventBusDefaultBuffer - per-subscriber channel buffer
	EventBusDefaultBuffer = 256

	// EventBusMaxBuffer - upper bound for a requested buffer size
	EventBusMaxBuffer = 4096
)

// Terminal rendering
const (
	// ProgressRefreshRate - redraw rate for the active jobs bars
	ProgressRefreshRate = 300 * time.Millisecond

	// ProgressBarWidth - width of a single active job bar
	ProgressBarWidth = 60
)

// HTTP Client Timeouts
const (
	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (30 seconds)
	HTTPTLSHandshakeTimeout = 30 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (30 seconds)
	HTTPDialTimeout = 30 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second

	// ProxyWarmupTimeout - timeout for the optional proxy warmup request
	ProxyWarmupTimeout = 15 * time.Second
)

// Defaults for the connection section of the config file
const (
	// DefaultHost - rclone rcd listens here unless told otherwise
	DefaultHost = "http://localhost:5572"

	// DefaultProxyPort - used when a proxy host is given without a port
	DefaultProxyPort = 8080
)

// Config file location under the user's home directory
const (
	ConfigDirName  = "rcpanes"
	ConfigFileName = "config.ini"
)

// Retry backoff for read-only rc calls when retry_max > 0
const (
	RetryWaitMin = 250 * time.Millisecond
	RetryWaitMax = 5 * time.Second
)
