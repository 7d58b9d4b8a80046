// Package todo owns the authoritative in-memory task collection.
//
// A Store loads its collection once in the background, keeps it ordered
// with task.Sort after every mutation, and hands each post-mutation
// snapshot to a background writer. Reads never wait for persistence.
package todo

import (
	"context"
	"io"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abatilo/todos/internal/stats"
	"github.com/abatilo/todos/internal/task"
)

// Persister loads and saves the whole collection. Implementations absorb
// their own failures.
type Persister interface {
	Load() []task.Task
	Save(tasks []task.Task)
}

// Options configures a Store.
type Options struct {
	Clock  func() time.Time // defaults to time.Now
	Logger *log.Logger      // defaults to a discarding logger
	IDGen  task.IDGenerator // defaults to task.NewID
}

// NewTask carries the caller-supplied fields of a task being added.
type NewTask struct {
	Title       string
	Description string
	Priority    task.Priority
	Completed   bool
	DueDate     *time.Time
	Tags        []string
}

// Store is safe for concurrent use.
type Store struct {
	repo   Persister
	clock  func() time.Time
	newID  task.IDGenerator
	logger *log.Logger
	writer *writer
	ready  chan struct{}

	mu      sync.Mutex
	tasks   []task.Task
	subs    map[int]func([]task.Task)
	nextSub int
}

// New creates a store and starts loading from repo. The store is usable
// immediately: reads return an empty collection and mutations block until
// the load completes.
func New(repo Persister, opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.IDGen == nil {
		opts.IDGen = task.NewID
	}

	s := &Store{
		repo:   repo,
		clock:  opts.Clock,
		newID:  opts.IDGen,
		logger: opts.Logger,
		ready:  make(chan struct{}),
		tasks:  []task.Task{},
		subs:   make(map[int]func([]task.Task)),
	}
	s.writer = newWriter(repo.Save)
	go s.load()
	return s
}

func (s *Store) load() {
	loaded := task.Sorted(s.repo.Load())

	s.mu.Lock()
	s.tasks = loaded
	s.mu.Unlock()

	s.logger.Debug("Store ready", "count", len(loaded))
	close(s.ready)
}

// Loading reports whether the initial load is still in progress.
func (s *Store) Loading() bool {
	select {
	case <-s.ready:
		return false
	default:
		return true
	}
}

// Ready is closed once the initial load has completed.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the store is ready or ctx is done.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush blocks until every save scheduled so far has reached the Persister.
func (s *Store) Flush(ctx context.Context) error {
	return s.writer.flush(ctx)
}

// Close flushes pending saves and stops the background writer. Mutations
// after Close still succeed and are saved synchronously.
func (s *Store) Close(ctx context.Context) error {
	return s.writer.close(ctx)
}

func (s *Store) now() time.Time {
	return s.clock().UTC()
}

// mutate runs fn against the collection once the store is ready. When fn
// reports a change, the collection is re-sorted and a save is scheduled
// before the lock is released; subscribers are notified afterwards.
func (s *Store) mutate(fn func(now time.Time) bool) {
	<-s.ready

	s.mu.Lock()
	if !fn(s.now()) {
		s.mu.Unlock()
		return
	}
	task.Sort(s.tasks)
	snapshot := cloneAll(s.tasks)
	s.writer.schedule(snapshot)
	subs := make([]func([]task.Task), 0, len(s.subs))
	for _, id := range slices.Sorted(maps.Keys(s.subs)) {
		subs = append(subs, s.subs[id])
	}
	s.mu.Unlock()

	for _, notify := range subs {
		notify(cloneAll(snapshot))
	}
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
}

// Add inserts a new task and returns a copy of it. Fields are taken as
// given; validation belongs to the caller.
func (s *Store) Add(in NewTask) task.Task {
	var created task.Task
	s.mutate(func(now time.Time) bool {
		created = task.Task{
			ID:          s.newID(),
			Title:       in.Title,
			Description: in.Description,
			Completed:   in.Completed,
			Priority:    in.Priority,
			CreatedAt:   now,
			UpdatedAt:   now,
			Tags:        task.NormalizeTags(in.Tags),
		}
		if in.DueDate != nil {
			d := in.DueDate.UTC()
			created.DueDate = &d
		}
		s.tasks = append(s.tasks, created)
		return true
	})
	s.logger.Debug("Added todo", "id", created.ID)
	return created.Clone()
}

// Update merges patch into the task with the given id and refreshes its
// UpdatedAt. An unknown id is ignored.
func (s *Store) Update(id string, patch task.Patch) {
	s.mutate(func(now time.Time) bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		patch.Apply(&s.tasks[i])
		s.tasks[i].UpdatedAt = now
		return true
	})
}

// Delete removes the task with the given id. An unknown id is ignored.
func (s *Store) Delete(id string) {
	s.mutate(func(time.Time) bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		s.tasks = slices.Delete(s.tasks, i, i+1)
		return true
	})
}

// Toggle flips the completion state of the task with the given id. An
// unknown id is ignored.
func (s *Store) Toggle(id string) {
	s.mutate(func(now time.Time) bool {
		i := s.indexOf(id)
		if i < 0 {
			return false
		}
		done := !s.tasks[i].Completed
		task.Patch{Completed: &done}.Apply(&s.tasks[i])
		s.tasks[i].UpdatedAt = now
		return true
	})
}

// ClearCompleted removes every completed task.
func (s *Store) ClearCompleted() {
	s.mutate(func(time.Time) bool {
		s.tasks = slices.DeleteFunc(s.tasks, func(t task.Task) bool { return t.Completed })
		return true
	})
}

// ClearAll removes every task.
func (s *Store) ClearAll() {
	s.mutate(func(time.Time) bool {
		s.tasks = []task.Task{}
		return true
	})
}

// Subscribe registers fn to receive a fresh snapshot after every change.
// Callbacks run on the mutating goroutine without the store lock held.
func (s *Store) Subscribe(fn func([]task.Task)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Todos returns a copy of the ordered collection.
func (s *Store) Todos() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.tasks)
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (task.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Stats summarizes the current collection.
func (s *Store) Stats() stats.Stats {
	return stats.Compute(s.Todos())
}

// ByPriority returns the tasks with priority p, in collection order.
func (s *Store) ByPriority(p task.Priority) []task.Task {
	return stats.ByPriority(s.Todos(), p)
}

// CompletedOnly returns the completed tasks, in collection order.
func (s *Store) CompletedOnly() []task.Task {
	return stats.Completed(s.Todos())
}

// PendingOnly returns the incomplete tasks, in collection order.
func (s *Store) PendingOnly() []task.Task {
	return stats.Pending(s.Todos())
}

// Overdue returns the incomplete tasks whose due date has passed, as of
// the store clock at call time.
func (s *Store) Overdue() []task.Task {
	return stats.Overdue(s.Todos(), s.now())
}

// Filter returns the tasks matching f, in collection order.
func (s *Store) Filter(f stats.Filter) []task.Task {
	return f.Apply(s.Todos())
}

func cloneAll(tasks []task.Task) []task.Task {
	out := make([]task.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
