package todo

import (
	"context"
	"sync"

	"github.com/abatilo/todos/internal/task"
)

type flushWaiter struct {
	seq  uint64
	done chan struct{}
}

// writer persists snapshots on a single background goroutine. It holds at
// most one pending snapshot: scheduling while a save is queued replaces the
// queued one, so the latest state always wins.
type writer struct {
	save func([]task.Task)

	mu        sync.Mutex
	pending   []task.Task
	queued    bool
	scheduled uint64
	saved     uint64
	waiters   []flushWaiter
	closed    bool

	wake      chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func newWriter(save func([]task.Task)) *writer {
	w := &writer{
		save:    save,
		wake:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.run()
	return w
}

// schedule queues snapshot for saving and returns immediately. After the
// writer is closed, snapshots are saved inline.
func (w *writer) schedule(snapshot []task.Task) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.save(snapshot)
		return
	}
	w.pending = snapshot
	w.queued = true
	w.scheduled++
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *writer) run() {
	defer close(w.stopped)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *writer) drain() {
	w.mu.Lock()
	if !w.queued {
		w.mu.Unlock()
		return
	}
	snapshot, seq := w.pending, w.scheduled
	w.pending, w.queued = nil, false
	w.mu.Unlock()

	w.save(snapshot)

	w.mu.Lock()
	w.saved = seq
	remaining := w.waiters[:0]
	for _, fw := range w.waiters {
		if fw.seq <= seq {
			close(fw.done)
			continue
		}
		remaining = append(remaining, fw)
	}
	w.waiters = remaining
	w.mu.Unlock()
}

// flush blocks until every snapshot scheduled before the call has been
// saved or superseded by a later saved snapshot.
func (w *writer) flush(ctx context.Context) error {
	w.mu.Lock()
	if w.saved >= w.scheduled {
		w.mu.Unlock()
		return nil
	}
	fw := flushWaiter{seq: w.scheduled, done: make(chan struct{})}
	w.waiters = append(w.waiters, fw)
	w.mu.Unlock()

	select {
	case <-fw.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close flushes and stops the background goroutine.
func (w *writer) close(ctx context.Context) error {
	if err := w.flush(ctx); err != nil {
		return err
	}
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.stop)
	})
	select {
	case <-w.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
