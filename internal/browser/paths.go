package browser

import "strings"

// SplitPath splits a pane path into the fs and remote used to list it.
// "r:/a/b" lists remote "b" in fs "r:/a/"; a path without any slash lists
// the root of that remote.
func SplitPath(path string) (base, leaf string) {
	lastSlash := strings.LastIndex(path, "/") + 1
	if lastSlash == 0 {
		return path + "/", ""
	}
	return path[:lastSlash], path[lastSlash:]
}

// UpPath returns the target of the ".." entry: everything before the last
// "/". A path without any slash goes to the root of its remote.
func UpPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path + "/"
	}
	return path[:i]
}

// SplitEntryPath splits an entry path at its last "/" into the parent
// (keeping the slash) and the leaf name. parent+leaf == path always holds.
func SplitEntryPath(path string) (parent, leaf string) {
	lastSlash := strings.LastIndex(path, "/") + 1
	return path[:lastSlash], path[lastSlash:]
}

// JoinPath appends name to dir with exactly one "/" between them.
func JoinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// RootPath returns the path of a remote's root, optionally with a starting folder.
func RootPath(remote, startingFolder string) string {
	return remote + ":/" + startingFolder
}

// PathHint is the part of a pane path after the remote name, shown next to "..".
func PathHint(path string) string {
	if i := strings.LastIndex(path, ":"); i >= 0 {
		path = path[i+1:]
	}
	if path == "/" {
		return "/"
	}
	return path + "/"
}
