package monitor

import (
	"sort"

	"github.com/rcpanes/rcpanes/internal/models"
)

// compareGroups orders job groups by their numeric suffix. It returns 0 when
// either group is empty and otherwise never reports equality: a suffix that
// is not a number compares as greater.
func compareGroups(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	na, okA := models.GroupNumber(a)
	nb, okB := models.GroupNumber(b)
	if okA && okB && na < nb {
		return -1
	}
	return 1
}

// SortActive orders running transfers by job number, oldest first.
func SortActive(jobs []models.ActiveJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return compareGroups(jobs[i].Group, jobs[j].Group) < 0
	})
}

// SortCompleted orders finished transfers by job number, newest first.
func SortCompleted(jobs []models.CompletedJob) {
	sort.SliceStable(jobs, func(i, j int) bool {
		return compareGroups(jobs[i].Group, jobs[j].Group) < 0
	})
	for i, j := 0, len(jobs)-1; i < j; i, j = i+1, j-1 {
		jobs[i], jobs[j] = jobs[j], jobs[i]
	}
}
