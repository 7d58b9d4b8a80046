//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// TaskNotFoundError indicates no task matches the given ID or prefix.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// AmbiguousIDError indicates an ID prefix matches more than one task.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
}

func (e AmbiguousIDError) Error() string {
	return fmt.Sprintf("id prefix %s is ambiguous: matches %v", e.Prefix, e.Matches)
}

// EmptyTitleError indicates a task title that is blank after trimming.
type EmptyTitleError struct{}

func (e EmptyTitleError) Error() string {
	return "title is required"
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: high, medium, low)", e.Value)
}

// InvalidDueDateError indicates a due date that could not be parsed.
type InvalidDueDateError struct {
	Value string
}

func (e InvalidDueDateError) Error() string {
	return fmt.Sprintf("invalid due date: %s (use YYYY-MM-DD or RFC 3339)", e.Value)
}

// InvalidStatusFilterError indicates an unknown list status filter.
type InvalidStatusFilterError struct {
	Value string
}

func (e InvalidStatusFilterError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: all, completed, pending)", e.Value)
}

// UnknownBackendError indicates a storage backend name that is not supported.
type UnknownBackendError struct {
	Backend string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (valid: file, sqlite)", e.Backend)
}

// NothingToExportError indicates the durable slot holds no data.
type NothingToExportError struct{}

func (e NothingToExportError) Error() string {
	return "No data to export"
}

// NothingToDoError indicates a command was given no changes to apply.
type NothingToDoError struct {
	Command string
}

func (e NothingToDoError) Error() string {
	return fmt.Sprintf("%s: nothing to change", e.Command)
}
