package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	now func() time.Time
}

// NewHumanFormatter creates a new HumanFormatter.
func NewHumanFormatter() *HumanFormatter {
	return &HumanFormatter{now: time.Now}
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, t.Title)
	fmt.Fprintf(&sb, "  Status:   %s\n", f.statusWord(t))
	fmt.Fprintf(&sb, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(&sb, "  Updated:  %s\n", t.UpdatedAt.Local().Format("2006-01-02 15:04"))

	if t.DueDate != nil {
		fmt.Fprintf(&sb, "  Due:      %s\n", formatDue(*t.DueDate))
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&sb, "  Tags:     %s\n", strings.Join(t.Tags, ", "))
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []task.Task) string {
	if len(tasks) == 0 {
		return "No todos found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t task.Task) string {
	var extra strings.Builder
	if t.DueDate != nil {
		fmt.Fprintf(&extra, " (due %s", formatDue(*t.DueDate))
		if t.IsOverdue(f.now()) {
			extra.WriteString(", overdue")
		}
		extra.WriteString(")")
	}
	for _, tag := range t.Tags {
		fmt.Fprintf(&extra, " #%s", tag)
	}
	return fmt.Sprintf("%s %s [%s] %s%s\n", f.statusIcon(t), f.priorityMark(t.Priority), t.ID, t.Title, extra.String())
}

func (f *HumanFormatter) statusIcon(t task.Task) string {
	if t.Completed {
		return "[X]"
	}
	return "[ ]"
}

func (f *HumanFormatter) statusWord(t task.Task) string {
	switch {
	case t.Completed:
		return "completed"
	case t.IsOverdue(f.now()):
		return "overdue"
	default:
		return "pending"
	}
}

func (f *HumanFormatter) priorityMark(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "H"
	case task.PriorityMedium:
		return "M"
	case task.PriorityLow:
		return "L"
	default:
		return "?"
	}
}

// formatDue shows date-only values without a clock time.
func formatDue(d time.Time) string {
	if d.Hour() == 0 && d.Minute() == 0 && d.Second() == 0 && d.Nanosecond() == 0 {
		return d.Format("2006-01-02")
	}
	return d.Local().Format("2006-01-02 15:04")
}

// FormatStats formats collection statistics for display.
func (f *HumanFormatter) FormatStats(s stats.Stats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Total:      %d\n", s.Total)
	fmt.Fprintf(&sb, "Completed:  %d\n", s.Completed)
	fmt.Fprintf(&sb, "Pending:    %d\n", s.Pending)
	fmt.Fprintf(&sb, "Completion: %.0f%%\n", s.CompletionRate)
	sb.WriteString("\nBy priority:\n")
	for _, p := range task.Priorities() {
		fmt.Fprintf(&sb, "  %-7s %3d  (%.0f%%)\n", p, s.ByPriority.Count(p), s.PriorityShare(p))
	}
	return sb.String()
}

// FormatStatus formats the storage status for display.
func (f *HumanFormatter) FormatStatus(s StorageStatus) string {
	available := "yes"
	if !s.Available {
		available = "no (changes will not be saved)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Backend:   %s\n", s.Backend)
	fmt.Fprintf(&sb, "Key:       %s\n", s.Key)
	fmt.Fprintf(&sb, "Location:  %s\n", s.Location)
	fmt.Fprintf(&sb, "Available: %s\n", available)
	fmt.Fprintf(&sb, "Todos:     %d\n", s.Count)
	return sb.String()
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}
