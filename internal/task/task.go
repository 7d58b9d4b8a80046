package task

import (
	"slices"
	"time"
)

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityOrder returns the sort order for a priority (lower = higher priority).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Priorities lists the valid priorities from highest to lowest.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// Task represents a single tracked todo.
type Task struct {
	ID          string
	Title       string
	Description string
	Completed   bool
	Priority    Priority
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DueDate     *time.Time
	Tags        []string
}

// Clone returns a copy that shares no memory with t.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if len(t.Tags) > 0 {
		c.Tags = slices.Clone(t.Tags)
	} else {
		c.Tags = nil
	}
	return c
}

// IsOverdue reports whether t is still pending with a due date before now.
func (t Task) IsOverdue(now time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(now)
}

// HasTags reports whether t carries every tag in tags.
func (t Task) HasTags(tags []string) bool {
	for _, want := range tags {
		if !slices.Contains(t.Tags, want) {
			return false
		}
	}
	return true
}

// Patch holds the mutable fields of a task. Nil fields are left untouched.
type Patch struct {
	Title        *string
	Description  *string
	Completed    *bool
	Priority     *Priority
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.Priority == nil && p.DueDate == nil && !p.ClearDueDate && p.Tags == nil
}

// Apply merges the patch into t. ID and CreatedAt are never touched.
func (p Patch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		d := p.DueDate.UTC()
		t.DueDate = &d
	}
	if p.Tags != nil {
		t.Tags = NormalizeTags(*p.Tags)
	}
}

// NormalizeTags drops empty and duplicate labels, keeping first-seen order.
// It returns nil when nothing remains.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, tag := range tags {
		if tag == "" || slices.Contains(out, tag) {
			continue
		}
		out = append(out, tag)
	}
	return out
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}
