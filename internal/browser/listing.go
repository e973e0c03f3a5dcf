package browser

import (
	"sort"

	"github.com/rcpanes/rcpanes/internal/models"
)

// UpEntryName is the display name of the synthetic parent entry.
const UpEntryName = ".."

// upEntry builds the synthetic ".." row pointing at the parent of path.
func upEntry(path string) models.DirectoryEntry {
	return models.DirectoryEntry{
		Name: UpEntryName,
		Path: UpPath(path),
		Kind: models.KindFolder,
		Up:   true,
	}
}

// BuildEntries turns a listing of path into pane rows: the ".." entry first,
// then folders, then files. The relative order inside each group is the
// order the server returned.
func BuildEntries(path string, items []models.ListItem) []models.DirectoryEntry {
	base, _ := SplitPath(path)

	sorted := make([]models.ListItem, len(items))
	copy(sorted, items)
	SortFoldersFirst(sorted)

	entries := make([]models.DirectoryEntry, 0, len(sorted)+1)
	entries = append(entries, upEntry(path))
	for _, item := range sorted {
		entry := models.DirectoryEntry{
			Name:     item.Name,
			MimeType: item.MimeType,
			Size:     item.Size,
			ModTime:  item.ModTime,
		}
		if item.IsDir {
			entry.Kind = models.KindFolder
			entry.Path = base + item.Path
		} else {
			entry.Kind = models.KindFile
			entry.Path = JoinPath(path, item.Name)
		}
		entries = append(entries, entry)
	}
	return entries
}

// SortFoldersFirst stably moves folders ahead of files.
func SortFoldersFirst(items []models.ListItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].IsDir && !items[j].IsDir
	})
}
