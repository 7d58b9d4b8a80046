package task

import (
	"cmp"
	"slices"
)

// Compare orders tasks for display: pending before completed, then by
// priority (high first), then newest CreatedAt first.
func Compare(a, b Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	if c := cmp.Compare(PriorityOrder(a.Priority), PriorityOrder(b.Priority)); c != 0 {
		return c
	}
	return b.CreatedAt.Compare(a.CreatedAt)
}

// Sort sorts tasks in place by Compare.
func Sort(tasks []Task) {
	slices.SortFunc(tasks, Compare)
}

// Sorted returns a sorted copy of tasks, leaving the input untouched.
func Sorted(tasks []Task) []Task {
	out := slices.Clone(tasks)
	Sort(out)
	return out
}

// IsSorted reports whether tasks are already in display order.
func IsSorted(tasks []Task) bool {
	return slices.IsSortedFunc(tasks, Compare)
}
