package output

import (
	"time"

	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t task.Task) string
	FormatTaskList(tasks []task.Task) string
	FormatStats(s stats.Stats) string
	FormatStatus(s StorageStatus) string
	FormatError(err error) string
	FormatMessage(msg string) string
}

// StorageStatus describes the configured persistence backend.
type StorageStatus struct {
	Backend   string `json:"backend" yaml:"backend"`
	Key       string `json:"key" yaml:"key"`
	Location  string `json:"location" yaml:"location"`
	Available bool   `json:"available" yaml:"available"`
	Count     int    `json:"count" yaml:"count"`
}

// taskView is the structured representation of a task shared by the JSON
// and YAML formatters.
type taskView struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool     `json:"completed" yaml:"completed"`
	Priority    string   `json:"priority" yaml:"priority"`
	CreatedAt   string   `json:"created_at" yaml:"created_at"`
	UpdatedAt   string   `json:"updated_at" yaml:"updated_at"`
	DueDate     *string  `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func toTaskView(t task.Task) taskView {
	v := taskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.Format(time.RFC3339),
		Tags:        t.Tags,
	}
	if t.DueDate != nil {
		s := t.DueDate.Format(time.RFC3339)
		v.DueDate = &s
	}
	return v
}

func toTaskViews(tasks []task.Task) []taskView {
	views := make([]taskView, len(tasks))
	for i, t := range tasks {
		views[i] = toTaskView(t)
	}
	return views
}

type errorView struct {
	Error string `json:"error" yaml:"error"`
}

type messageView struct {
	Message string `json:"message" yaml:"message"`
}
