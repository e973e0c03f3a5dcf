// Package validation checks names and paths typed by the user before they
// are sent to the rc server.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyName is returned for blank folder names.
var ErrEmptyName = errors.New("a folder has no name")

// FolderName validates the name of a folder to create inside the current
// pane folder. The name must be a single path element.
//
// Returns an error if the name:
//   - Is empty or only whitespace
//   - Contains a "/" (that would create nested folders)
//   - Is "." or ".."
//   - Contains null bytes or other control characters
func FolderName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}

	if strings.ContainsRune(name, '/') {
		return fmt.Errorf("folder name cannot contain '/': %s", name)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("folder name cannot be '%s'", name)
	}

	for _, r := range name {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("folder name contains a control character: %q", name)
		}
	}

	return nil
}

// RemotePath validates a path of the form "remote:/some/path" given on the
// command line. The remote name must be present; the part after the colon
// may be empty (the root of the remote).
//
// Example:
//
//	RemotePath("gdrive:/Photos") // OK
//	RemotePath("gdrive:")        // OK: root of the remote
//	RemotePath("/tmp/file")      // Error: no remote
//	RemotePath("s3:/a/../b")     // Error: ".." element
func RemotePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}

	if strings.ContainsRune(path, 0) {
		return fmt.Errorf("path contains null byte: %q", path)
	}

	remote, rest, ok := strings.Cut(path, ":")
	if !ok || remote == "" {
		return fmt.Errorf("path must start with a remote name, like remote:/folder: %s", path)
	}
	if strings.ContainsRune(remote, '/') {
		return fmt.Errorf("invalid remote name %q", remote)
	}

	// rclone resolves paths literally, so ".." would name a real entry
	for _, element := range strings.Split(rest, "/") {
		if element == ".." {
			return fmt.Errorf("path cannot contain '..': %s", path)
		}
	}

	return nil
}
