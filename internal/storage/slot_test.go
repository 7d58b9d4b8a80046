//nolint:testpackage // Tests require internal access for thorough testing
package storage

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain key", "todos", "todos"},
		{"probe key", "__storage_test__", "storage-test"},
		{"path-like key", "../etc/passwd", "etc-passwd"},
		{"spaces", "my todos v2", "my-todos-v2"},
		{"nothing usable", "///", "slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeKey(tt.input); got != tt.want {
				t.Errorf("SanitizeKey(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// exerciseSlot runs the Slot contract against any backend.
func exerciseSlot(t *testing.T, slot Slot) {
	t.Helper()

	if _, ok, err := slot.Get("todos"); err != nil || ok {
		t.Fatalf("Get on empty slot = ok %v, err %v; want ok false, nil error", ok, err)
	}

	if err := slot.Set("todos", []byte(`[1]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := slot.Set("todos", []byte(`[2]`)); err != nil {
		t.Fatalf("second Set failed: %v", err)
	}

	got, ok, err := slot.Get("todos")
	if err != nil || !ok {
		t.Fatalf("Get after Set = ok %v, err %v", ok, err)
	}
	if string(got) != `[2]` {
		t.Errorf("Get = %s, want [2]", got)
	}

	if err = slot.Remove("todos"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, ok, _ = slot.Get("todos"); ok {
		t.Error("Get after Remove should report ok false")
	}
	if err = slot.Remove("todos"); err != nil {
		t.Errorf("Remove of missing key should succeed, got %v", err)
	}
}

func TestFileSlot(t *testing.T) {
	fsys := afero.NewMemMapFs()
	slot := NewFileSlot(fsys, "/data/todos")
	exerciseSlot(t, slot)

	if err := slot.Set("todos", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	entries, err := afero.ReadDir(fsys, "/data/todos")
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "todos.json" {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Errorf("directory holds %v, want only todos.json", names)
	}
}

func TestFileSlotOnDisk(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	exerciseSlot(t, NewOSFileSlot(dir))
}

func TestFileSlotReadOnly(t *testing.T) {
	slot := NewFileSlot(afero.NewReadOnlyFs(afero.NewMemMapFs()), "/data")

	if err := slot.Set("todos", []byte(`[]`)); err == nil {
		t.Error("Set on a read-only filesystem should fail")
	}
	if _, ok, err := slot.Get("todos"); ok || err != nil {
		t.Errorf("Get on read-only empty fs = ok %v, err %v", ok, err)
	}
}

func TestSQLiteSlot(t *testing.T) {
	slot, err := OpenSQLiteSlot(filepath.Join(t.TempDir(), "todos.db"))
	if err != nil {
		t.Fatalf("OpenSQLiteSlot failed: %v", err)
	}
	t.Cleanup(func() { slot.Close() })

	exerciseSlot(t, slot)

	if err = slot.Set("todos", []byte(`[]`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	got, ok, err := slot.Get("todos")
	if err != nil || !ok || string(got) != "[]" {
		t.Errorf("Get = %q, ok %v, err %v", got, ok, err)
	}
}
