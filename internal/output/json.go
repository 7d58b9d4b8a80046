package output

import (
	"encoding/json"

	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t task.Task) string {
	return marshalJSON(toTaskView(t))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []task.Task) string {
	return marshalJSON(toTaskViews(tasks))
}

// FormatStats formats collection statistics as JSON.
func (f *JSONFormatter) FormatStats(s stats.Stats) string {
	return marshalJSON(s)
}

// FormatStatus formats the storage status as JSON.
func (f *JSONFormatter) FormatStatus(s StorageStatus) string {
	return marshalJSON(s)
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorView{Error: err.Error()})
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageView{Message: msg})
}
