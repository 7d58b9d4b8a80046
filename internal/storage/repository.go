package storage

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abatilo/todos/internal/task"
)

const (
	// DefaultKey is the slot key holding the serialized collection.
	DefaultKey  = "todos"
	probePrefix = "__storage_test__"
)

// RepositoryOptions configures a Repository.
type RepositoryOptions struct {
	Key     string      // defaults to DefaultKey
	Backend string      // backend name used in log fields
	Logger  *log.Logger // defaults to a discarding logger
}

// Repository reads and writes the whole task collection as one blob in a
// Slot. Every failure is logged and swallowed: persistence is best-effort
// and callers keep working from memory.
type Repository struct {
	slot    Slot
	key     string
	backend string
	logger  *log.Logger
}

// NewRepository binds a Repository to slot.
func NewRepository(slot Slot, opts RepositoryOptions) *Repository {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Repository{
		slot:    slot,
		key:     opts.Key,
		backend: opts.Backend,
		logger:  opts.Logger.With("key", opts.Key, "backend", opts.Backend),
	}
}

// Key returns the slot key.
func (r *Repository) Key() string {
	return r.key
}

// Backend returns the backend name.
func (r *Repository) Backend() string {
	return r.backend
}

// Load returns the persisted collection. An empty slot, an unreadable slot
// and a malformed blob all yield an empty, non-nil slice.
func (r *Repository) Load() []task.Task {
	data, ok, err := r.slot.Get(r.key)
	if err != nil {
		r.logger.Error("Error loading todos from storage", "err", err)
		return []task.Task{}
	}
	if !ok {
		r.logger.Debug("No stored todos")
		return []task.Task{}
	}

	tasks, err := Decode(data)
	if err != nil {
		r.logger.Error("Error loading todos from storage", "err", err)
		return []task.Task{}
	}
	r.logger.Debug("Loaded todos", "count", len(tasks))
	return tasks
}

// Save replaces the persisted collection with tasks in a single write.
func (r *Repository) Save(tasks []task.Task) {
	data, err := Encode(tasks)
	if err != nil {
		r.logger.Error("Error saving todos to storage", "err", err)
		return
	}
	if err = r.slot.Set(r.key, data); err != nil {
		r.logger.Error("Error saving todos to storage", "err", err)
		return
	}
	r.logger.Debug("Saved todos", "count", len(tasks), "bytes", len(data))
}

// Clear removes the persisted blob.
func (r *Repository) Clear() {
	if err := r.slot.Remove(r.key); err != nil {
		r.logger.Error("Error clearing todos from storage", "err", err)
	}
}

// IsAvailable probes the slot with a throwaway write and delete. The probe
// key is removed whether or not the write succeeded.
func (r *Repository) IsAvailable() bool {
	probe := probePrefix + uuid.NewString()
	setErr := r.slot.Set(probe, []byte(probe))
	removeErr := r.slot.Remove(probe)
	if setErr != nil || removeErr != nil {
		r.logger.Debug("Storage probe failed", "set_err", setErr, "remove_err", removeErr)
		return false
	}
	return true
}

// Raw returns the persisted bytes untouched, for export.
func (r *Repository) Raw() ([]byte, bool, error) {
	return r.slot.Get(r.key)
}
