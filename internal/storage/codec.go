package storage

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/abatilo/todos/internal/task"
)

//go:embed todos.schema.json
var schemaJSON string

const schemaURL = "todos.schema.json"

// compiledSchema compiles the embedded schema on first use.
var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
})

// record is the persisted form of a task. Timestamps are canonical text.
type record struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Completed   bool          `json:"completed"`
	Priority    task.Priority `json:"priority"`
	CreatedAt   string        `json:"createdAt"`
	UpdatedAt   string        `json:"updatedAt"`
	DueDate     *string       `json:"dueDate,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
}

// FormatTime renders t in the canonical persisted form (RFC 3339, UTC).
// Sub-second precision is kept so that parsing returns the identical instant.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// ParseTime parses a canonical timestamp. Fractional seconds of any
// precision are accepted, including the millisecond form
// 2024-01-01T10:00:00.000Z.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Encode serializes the whole collection as a JSON array.
func Encode(tasks []task.Task) ([]byte, error) {
	records := make([]record, len(tasks))
	for i, t := range tasks {
		records[i] = record{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Completed:   t.Completed,
			Priority:    t.Priority,
			CreatedAt:   FormatTime(t.CreatedAt),
			UpdatedAt:   FormatTime(t.UpdatedAt),
			Tags:        t.Tags,
		}
		if t.DueDate != nil {
			s := FormatTime(*t.DueDate)
			records[i].DueDate = &s
		}
	}
	return json.Marshal(records)
}

// Decode parses and validates a persisted blob. Any problem rejects the
// whole blob; no partial result is returned.
func Decode(data []byte) ([]task.Task, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("parse todos: %w", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if err = schema.Validate(doc); err != nil {
		return nil, schemaError(err)
	}

	var records []record
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, &ValidationError{Err: fmt.Errorf("decode todos: %w", err)}
	}

	tasks := make([]task.Task, 0, len(records))
	for i, r := range records {
		t, err := r.toTask()
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Path = fmt.Sprintf("[%d].%s", i, ve.Path)
			}
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r record) toTask() (task.Task, error) {
	createdAt, err := ParseTime(r.CreatedAt)
	if err != nil {
		return task.Task{}, &ValidationError{Path: "createdAt", Err: err}
	}
	updatedAt, err := ParseTime(r.UpdatedAt)
	if err != nil {
		return task.Task{}, &ValidationError{Path: "updatedAt", Err: err}
	}

	t := task.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Priority:    r.Priority,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
		Tags:        task.NormalizeTags(r.Tags),
	}
	if r.DueDate != nil {
		due, err := ParseTime(*r.DueDate)
		if err != nil {
			return task.Task{}, &ValidationError{Path: "dueDate", Err: err}
		}
		t.DueDate = &due
	}
	return t, nil
}

// schemaError flattens a schema failure into ValidationErrors, one per leaf cause.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Err: err}
	}

	var leaves []error
	collectSchemaErrors(ve, &leaves)
	if len(leaves) == 1 {
		return leaves[0]
	}
	return errors.Join(leaves...)
}

func collectSchemaErrors(err *jsonschema.ValidationError, out *[]error) {
	if len(err.Causes) == 0 {
		*out = append(*out, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(cause, out)
	}
}

// jsonPointerToPath turns "/2/createdAt" into "[2].createdAt".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var path strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&path, "[%d]", idx)
			continue
		}
		if path.Len() > 0 {
			path.WriteString(".")
		}
		path.WriteString(part)
	}
	return path.String()
}
