// rcpanes - two-pane file manager for an rclone remote-control server.
//
// Build with: go build -ldflags "-X github.com/rcpanes/rcpanes/internal/version.Version=v0.1.0" ./cmd/rcpanes
package main

import (
	"os"

	"github.com/rcpanes/rcpanes/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
