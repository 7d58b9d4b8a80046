package output

import (
	"gopkg.in/yaml.v3"

	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
)

// YAMLFormatter formats output as YAML documents.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a new YAMLFormatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

func marshalYAML(v any) string {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "error: " + err.Error() + "\n"
	}
	return string(data)
}

// FormatTask formats a single task as YAML.
func (f *YAMLFormatter) FormatTask(t task.Task) string {
	return marshalYAML(toTaskView(t))
}

// FormatTaskList formats a list of tasks as a YAML sequence.
func (f *YAMLFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "[]\n"
	}
	return marshalYAML(toTaskViews(tasks))
}

// FormatStats formats collection statistics as YAML.
func (f *YAMLFormatter) FormatStats(s stats.Stats) string {
	return marshalYAML(s)
}

// FormatStatus formats the storage status as YAML.
func (f *YAMLFormatter) FormatStatus(s StorageStatus) string {
	return marshalYAML(s)
}

// FormatError formats an error as YAML.
func (f *YAMLFormatter) FormatError(err error) string {
	return marshalYAML(errorView{Error: err.Error()})
}

// FormatMessage formats a simple message as YAML.
func (f *YAMLFormatter) FormatMessage(msg string) string {
	return marshalYAML(messageView{Message: msg})
}
