package main

import (
	"slices"
	"strings"
	"time"

	todoerrors "github.com/abatilo/todos/internal/errors"
	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
)

const dateLayout = "2006-01-02"

// parseTitle trims title and rejects it when nothing remains.
func parseTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", todoerrors.EmptyTitleError{}
	}
	return title, nil
}

func parsePriority(value string) (task.Priority, error) {
	p := task.Priority(strings.ToLower(strings.TrimSpace(value)))
	if !task.IsValidPriority(p) {
		return "", todoerrors.InvalidPriorityError{Value: value}
	}
	return p, nil
}

// parseDueDate accepts a calendar date, read as midnight UTC, or a full
// RFC 3339 timestamp.
func parseDueDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(dateLayout, value); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, value); err == nil {
		return d.UTC(), nil
	}
	return time.Time{}, todoerrors.InvalidDueDateError{Value: value}
}

func parseStatus(value string) (stats.Status, error) {
	s := stats.Status(strings.ToLower(strings.TrimSpace(value)))
	if !stats.IsValidStatus(s) {
		return "", todoerrors.InvalidStatusFilterError{Value: value}
	}
	return s, nil
}

// resolveID finds the task whose ID equals ref or, failing that, the only
// task whose ID starts with ref.
func resolveID(tasks []task.Task, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", todoerrors.TaskNotFoundError{ID: ref}
	}

	var matches []string
	for _, t := range tasks {
		if t.ID == ref {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", todoerrors.TaskNotFoundError{ID: ref}
	case 1:
		return matches[0], nil
	default:
		slices.Sort(matches)
		return "", todoerrors.AmbiguousIDError{Prefix: ref, Matches: matches}
	}
}
