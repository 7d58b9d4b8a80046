//nolint:testpackage // Tests require internal access for thorough testing
package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/abatilo/todos/internal/storage"
)

type cliTask struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Completed bool     `json:"completed"`
	Priority  string   `json:"priority"`
	DueDate   *string  `json:"due_date"`
	Tags      []string `json:"tags"`
}

// cli runs commands against a private data directory.
type cli struct {
	t       *testing.T
	dataDir string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "xdg"))
	for _, key := range []string{
		"TODOS_CONFIG", "TODOS_BACKEND", "TODOS_DATA_DIR",
		"TODOS_KEY", "TODOS_LOG_LEVEL", "TODOS_LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
	return &cli{t: t, dataDir: filepath.Join(home, "data")}
}

func (c *cli) run(args ...string) (string, int) {
	c.t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--data-dir", c.dataDir}, args...), &stdout, &stderr)
	return stdout.String(), code
}

func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, code := c.run(args...)
	if code != 0 {
		c.t.Fatalf("todos %s exited %d: %s", strings.Join(args, " "), code, out)
	}
	return out
}

func (c *cli) add(args ...string) cliTask {
	c.t.Helper()
	out := c.mustRun(append([]string{"--json", "add"}, args...)...)
	var got cliTask
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		c.t.Fatalf("add output is not JSON: %v\n%s", err, out)
	}
	return got
}

func (c *cli) list(args ...string) []cliTask {
	c.t.Helper()
	out := c.mustRun(append([]string{"--json", "list"}, args...)...)
	var got []cliTask
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		c.t.Fatalf("list output is not JSON: %v\n%s", err, out)
	}
	return got
}

func listTitles(tasks []cliTask) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestCLIEndToEnd(t *testing.T) {
	c := newCLI(t)

	milk := c.add("Buy milk", "-p", "low")
	c.add("File taxes", "-p", "high")

	if diff := cmp.Diff([]string{"File taxes", "Buy milk"}, listTitles(c.list())); diff != "" {
		t.Errorf("list order (-want +got):\n%s", diff)
	}

	c.mustRun("toggle", milk.ID)

	got := c.list()
	if diff := cmp.Diff([]string{"File taxes", "Buy milk"}, listTitles(got)); diff != "" {
		t.Errorf("list order after toggle (-want +got):\n%s", diff)
	}
	if !got[1].Completed {
		t.Error("Buy milk not completed after toggle")
	}

	out := c.mustRun("--json", "stats")
	var st struct {
		Total          int     `json:"total"`
		Completed      int     `json:"completed"`
		CompletionRate float64 `json:"completion_rate"`
	}
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("stats output is not JSON: %v\n%s", err, out)
	}
	if st.Total != 2 || st.Completed != 1 || st.CompletionRate != 50 {
		t.Errorf("stats = %+v, want total 2, completed 1, rate 50", st)
	}

	data, err := os.ReadFile(filepath.Join(c.dataDir, "todos.json"))
	if err != nil {
		t.Fatalf("reading stored blob: %v", err)
	}
	stored, err := storage.Decode(data)
	if err != nil {
		t.Fatalf("stored blob does not decode: %v", err)
	}
	if len(stored) != 2 || stored[0].Title != "File taxes" {
		t.Errorf("stored collection = %+v", stored)
	}
}

func TestCLIValidation(t *testing.T) {
	c := newCLI(t)
	c.add("keep")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"blank title", []string{"add", "   "}, "title is required"},
		{"bad priority", []string{"add", "x", "-p", "urgent"}, "invalid priority: urgent"},
		{"bad due date", []string{"add", "x", "--due", "soon"}, "invalid due date: soon"},
		{"bad status", []string{"list", "--status", "open"}, "invalid status: open"},
		{"unknown id", []string{"show", "nope"}, "task not found: nope"},
		{"empty edit", []string{"edit", c.list()[0].ID}, "edit: nothing to change"},
		{"unknown backend", []string{"--backend", "redis", "list"}, "unknown storage backend: redis"},
		{"missing arg", []string{"toggle"}, "accepts 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, code := c.run(tt.args...)
			if code != 1 {
				t.Errorf("exit code = %d, want 1", code)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("output = %q, want it to contain %q", out, tt.want)
			}
		})
	}

	if got := c.list(); len(got) != 1 {
		t.Errorf("failed commands changed the collection: %v", listTitles(got))
	}
}

func TestCLIErrorsUseFormatter(t *testing.T) {
	c := newCLI(t)
	out, code := c.run("--json", "show", "missing")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	var body map[string]string
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("error output is not JSON: %v\n%s", err, out)
	}
	if body["error"] != "task not found: missing" {
		t.Errorf("error = %q", body["error"])
	}
}

func TestCLIEditShowAndPrefix(t *testing.T) {
	c := newCLI(t)
	added := c.add("Draft", "-t", "work")

	c.mustRun("edit", added.ID[:8], "--title", "Final", "--due", "2030-01-02", "-p", "high", "-t", "work", "-t", "urgent")

	out := c.mustRun("--json", "show", added.ID)
	var got cliTask
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("show output is not JSON: %v\n%s", err, out)
	}
	if got.Title != "Final" || got.Priority != "high" {
		t.Errorf("edited task = %+v", got)
	}
	if got.DueDate == nil || *got.DueDate != "2030-01-02T00:00:00Z" {
		t.Errorf("DueDate = %v, want 2030-01-02T00:00:00Z", got.DueDate)
	}
	if diff := cmp.Diff([]string{"work", "urgent"}, got.Tags); diff != "" {
		t.Errorf("Tags (-want +got):\n%s", diff)
	}

	c.mustRun("edit", added.ID, "--clear-due")
	if c.list()[0].DueDate != nil {
		t.Error("--clear-due left a due date")
	}
}

func TestCLIListFilters(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk", "-p", "low", "-t", "home")
	taxes := c.add("File taxes", "-p", "high", "-d", "ask the accountant", "-t", "finance")
	c.add("Call plumber", "-p", "high", "-t", "home")
	c.mustRun("toggle", taxes.ID)

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"--status", "pending"}, []string{"Call plumber", "Buy milk"}},
		{[]string{"--status", "completed"}, []string{"File taxes"}},
		{[]string{"-p", "high"}, []string{"Call plumber", "File taxes"}},
		{[]string{"-t", "home"}, []string{"Call plumber", "Buy milk"}},
		{[]string{"-s", "ACCOUNTANT"}, []string{"File taxes"}},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if diff := cmp.Diff(tt.want, listTitles(c.list(tt.args...))); diff != "" {
				t.Errorf("list %v (-want +got):\n%s", tt.args, diff)
			}
		})
	}
}

func TestCLIOverdue(t *testing.T) {
	c := newCLI(t)
	c.add("Late", "--due", "2000-01-01")
	c.add("Future", "--due", "2999-01-01")
	done := c.add("Late but done", "--due", "2000-01-01")
	c.mustRun("toggle", done.ID)

	var got []cliTask
	out := c.mustRun("--json", "overdue")
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("overdue output is not JSON: %v\n%s", err, out)
	}
	if diff := cmp.Diff([]string{"Late"}, listTitles(got)); diff != "" {
		t.Errorf("overdue (-want +got):\n%s", diff)
	}
}

func TestCLIRemoveAndClear(t *testing.T) {
	c := newCLI(t)
	gone := c.add("Gone")
	c.add("Pending")
	done := c.add("Done")
	c.mustRun("toggle", done.ID)

	if out := c.mustRun("rm", gone.ID); !strings.Contains(out, "Removed todo "+gone.ID) {
		t.Errorf("rm output = %q", out)
	}
	if out := c.mustRun("clear"); !strings.Contains(out, "Cleared 1 completed todo(s)") {
		t.Errorf("clear output = %q", out)
	}
	if diff := cmp.Diff([]string{"Pending"}, listTitles(c.list())); diff != "" {
		t.Errorf("after clear (-want +got):\n%s", diff)
	}

	c.mustRun("clear", "--all")
	if got := c.list(); len(got) != 0 {
		t.Errorf("after clear --all: %v", listTitles(got))
	}
}

func TestCLIExport(t *testing.T) {
	c := newCLI(t)
	dest := filepath.Join(t.TempDir(), "backup.json")

	out, code := c.run("export", "-o", dest)
	if code != 1 || !strings.Contains(out, "No data to export") {
		t.Errorf("export of empty store = %q (exit %d), want No data to export", out, code)
	}

	c.add("Back me up")
	if out = c.mustRun("export", "-o", dest); !strings.Contains(out, "Data exported successfully") {
		t.Errorf("export output = %q", out)
	}

	exported, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}
	stored, err := os.ReadFile(filepath.Join(c.dataDir, "todos.json"))
	if err != nil {
		t.Fatalf("reading stored blob: %v", err)
	}
	if !bytes.Equal(exported, stored) {
		t.Errorf("export differs from stored blob:\n%s\nvs\n%s", exported, stored)
	}
}

func TestCLIReset(t *testing.T) {
	c := newCLI(t)
	c.add("Temporary")

	c.mustRun("reset")

	if _, err := os.Stat(filepath.Join(c.dataDir, "todos.json")); !os.IsNotExist(err) {
		t.Errorf("stored blob still present after reset: %v", err)
	}
	if got := c.list(); len(got) != 0 {
		t.Errorf("after reset: %v", listTitles(got))
	}
}

func TestCLIStatus(t *testing.T) {
	c := newCLI(t)
	c.add("Count me")

	out := c.mustRun("--json", "status")
	var got struct {
		Backend   string `json:"backend"`
		Key       string `json:"key"`
		Location  string `json:"location"`
		Available bool   `json:"available"`
		Count     int    `json:"count"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("status output is not JSON: %v\n%s", err, out)
	}
	if got.Backend != "file" || got.Key != "todos" || !got.Available || got.Count != 1 {
		t.Errorf("status = %+v", got)
	}
	if want := filepath.Join(c.dataDir, "todos.json"); got.Location != want {
		t.Errorf("Location = %q, want %q", got.Location, want)
	}
}

func TestCLISQLiteBackend(t *testing.T) {
	c := newCLI(t)
	t.Setenv("TODOS_BACKEND", "sqlite")

	c.add("Buy milk", "-p", "low")
	c.add("File taxes", "-p", "high")

	if diff := cmp.Diff([]string{"File taxes", "Buy milk"}, listTitles(c.list())); diff != "" {
		t.Errorf("list order (-want +got):\n%s", diff)
	}
	if _, err := os.Stat(filepath.Join(c.dataDir, "todos.db")); err != nil {
		t.Errorf("sqlite database missing: %v", err)
	}
}

func TestCLIYAMLOutput(t *testing.T) {
	c := newCLI(t)
	c.add("Buy milk", "-p", "low")

	out := c.mustRun("--yaml", "list")
	if !strings.Contains(out, "title: Buy milk") || !strings.Contains(out, "priority: low") {
		t.Errorf("YAML list = %q", out)
	}
}
