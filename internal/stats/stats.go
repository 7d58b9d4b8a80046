// Package stats computes read-only views over a snapshot of tasks.
// Nothing here holds state; every result reflects only its input.
package stats

import (
	"strings"
	"time"

	"github.com/abatilo/todos/internal/task"
)

// PriorityCounts counts tasks per priority.
type PriorityCounts struct {
	Low    int `json:"low" yaml:"low"`
	Medium int `json:"medium" yaml:"medium"`
	High   int `json:"high" yaml:"high"`
}

// Stats summarizes a collection. CompletionRate is a percentage in [0, 100].
type Stats struct {
	Total          int            `json:"total" yaml:"total"`
	Completed      int            `json:"completed" yaml:"completed"`
	Pending        int            `json:"pending" yaml:"pending"`
	ByPriority     PriorityCounts `json:"by_priority" yaml:"by_priority"`
	CompletionRate float64        `json:"completion_rate" yaml:"completion_rate"`
}

// Compute summarizes tasks.
func Compute(tasks []task.Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
		switch t.Priority {
		case task.PriorityLow:
			s.ByPriority.Low++
		case task.PriorityMedium:
			s.ByPriority.Medium++
		case task.PriorityHigh:
			s.ByPriority.High++
		}
	}
	s.Pending = s.Total - s.Completed
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total) * 100
	}
	return s
}

// Count returns the number of tasks with priority p.
func (c PriorityCounts) Count(p task.Priority) int {
	switch p {
	case task.PriorityLow:
		return c.Low
	case task.PriorityMedium:
		return c.Medium
	case task.PriorityHigh:
		return c.High
	default:
		return 0
	}
}

// PriorityShare returns the percentage of all tasks that have priority p.
func (s Stats) PriorityShare(p task.Priority) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.ByPriority.Count(p)) / float64(s.Total) * 100
}

func filter(tasks []task.Task, keep func(task.Task) bool) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// ByPriority returns the tasks with priority p, in input order.
func ByPriority(tasks []task.Task, p task.Priority) []task.Task {
	return filter(tasks, func(t task.Task) bool { return t.Priority == p })
}

// Completed returns the completed tasks, in input order.
func Completed(tasks []task.Task) []task.Task {
	return filter(tasks, func(t task.Task) bool { return t.Completed })
}

// Pending returns the incomplete tasks, in input order.
func Pending(tasks []task.Task) []task.Task {
	return filter(tasks, func(t task.Task) bool { return !t.Completed })
}

// Overdue returns incomplete tasks whose due date is before now.
func Overdue(tasks []task.Task, now time.Time) []task.Task {
	return filter(tasks, func(t task.Task) bool { return t.IsOverdue(now) })
}

// Status selects tasks by completion state.
type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
)

// IsValidStatus checks if a status filter value is valid. Empty means all.
func IsValidStatus(s Status) bool {
	switch s {
	case "", StatusAll, StatusCompleted, StatusPending:
		return true
	default:
		return false
	}
}

// Filter narrows a list view. Zero-valued fields match everything.
type Filter struct {
	Status   Status
	Priority task.Priority
	Tags     []string
	// Query matches title or description, case-insensitively.
	Query string
}

// Matches reports whether t passes every criterion of f.
func (f Filter) Matches(t task.Task) bool {
	switch f.Status {
	case StatusCompleted:
		if !t.Completed {
			return false
		}
	case StatusPending:
		if t.Completed {
			return false
		}
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if !t.HasTags(f.Tags) {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// Apply returns the tasks matching f, in input order.
func (f Filter) Apply(tasks []task.Task) []task.Task {
	return filter(tasks, f.Matches)
}
