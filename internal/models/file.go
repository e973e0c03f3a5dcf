// Package models defines the payloads exchanged with the rc service and the
// entries shown in a pane.
package models

// ListItem is one element of an /operations/list response. Path is relative
// to the fs the listing was requested for.
type ListItem struct {
	Path     string `json:"Path"`
	Name     string `json:"Name"`
	Size     int64  `json:"Size"`
	MimeType string `json:"MimeType"`
	ModTime  string `json:"ModTime"`
	IsDir    bool   `json:"IsDir"`
}

// ListResponse represents the response from /operations/list
type ListResponse struct {
	List []ListItem `json:"list"`
}

// ListRequest represents the body of /operations/list
type ListRequest struct {
	FS     string `json:"fs"`
	Remote string `json:"remote"`
}

// EntryKind distinguishes files from folders
type EntryKind string

const (
	KindFile   EntryKind = "file"
	KindFolder EntryKind = "folder"
)

// DirectoryEntry is one row of a pane listing. Path is the full
// `<remote>:/...` location of the item.
type DirectoryEntry struct {
	Name     string
	Path     string
	Kind     EntryKind
	MimeType string
	Size     int64
	ModTime  string
	Up       bool // synthetic ".." entry leading to the parent folder
}

// IsFolder reports whether the entry is a folder (the ".." entry counts).
func (e DirectoryEntry) IsFolder() bool {
	return e.Kind == KindFolder
}

// RemotePathRequest is the {fs, remote} body shared by mkdir, purge and deletefile
type RemotePathRequest struct {
	FS     string `json:"fs"`
	Remote string `json:"remote"`
}

// AboutRequest represents the body of /operations/about
type AboutRequest struct {
	FS string `json:"fs"`
}

// AboutResponse carries the disk usage of a remote. Only Free is used.
type AboutResponse struct {
	Total *int64 `json:"total,omitempty"`
	Used  *int64 `json:"used,omitempty"`
	Free  *int64 `json:"free,omitempty"`
}

// RemotesResponse represents the response from /config/listremotes
type RemotesResponse struct {
	Remotes []string `json:"remotes"`
}

// VersionResponse represents the response from /core/version
type VersionResponse struct {
	Version   string `json:"version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	GoVersion string `json:"goVersion"`
}
