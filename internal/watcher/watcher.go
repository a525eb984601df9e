// Package watcher reports files that appear in a directory once they stop changing.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwellapp/inkwell/internal/logger"
)

// Watcher monitors one or more directories (non-recursively) using fsnotify,
// debouncing writes until a file's size and mtime settle.
type Watcher struct {
	logger  *slog.Logger
	opts    Options
	watcher *fsnotify.Watcher

	pending map[string]*pendingEvent // path -> pending event info
	mu      sync.Mutex               // protects pending map

	events   chan Event
	errors   chan error
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// pendingEvent tracks a file that may still be changing
type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a new file watcher. A nil logger discards output.
func New(log *slog.Logger, opts Options) (*Watcher, error) {
	opts.setDefaults()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		logger:  logger.OrDiscard(log),
		opts:    opts,
		watcher: fsw,
		pending: make(map[string]*pendingEvent),
		events:  make(chan Event, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}, nil
}

// Watch adds a directory to be monitored.
func (w *Watcher) Watch(dir string) error {
	dir = filepath.Clean(dir)

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}

	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to add watch: %w", err)
	}
	w.logger.Debug("added watch", "path", dir)
	return nil
}

// Start begins watching for events.
// This method blocks until the context is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	go w.processEvents(ctx)

	select {
	case <-ctx.Done():
	case <-w.done:
	}
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFsnotifyEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("watcher error dropped", "error", err)
			}
		}
	}
}

func (w *Watcher) handleFsnotifyEvent(event fsnotify.Event) {
	path := event.Name

	if w.opts.shouldIgnore(path) {
		return
	}

	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		w.cancelPending(path)
		w.emitEvent(Event{Type: EventRemoved, Path: path})
		return
	}

	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(path)
	}
}

// startSettling begins the settling process for a file
func (w *Watcher) startSettling(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		return
	}
	if info.IsDir() {
		return
	}

	pending := &pendingEvent{
		size:    info.Size(),
		modTime: info.ModTime(),
	}
	pending.timer = time.AfterFunc(w.opts.SettleDelay, func() {
		w.checkSettled(path)
	})
	w.pending[path] = pending
}

// checkSettled emits the file once its size and mtime are unchanged for a full settle delay.
func (w *Watcher) checkSettled(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	pending, exists := w.pending[path]
	if !exists {
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		return
	}

	if info.Size() != pending.size || !info.ModTime().Equal(pending.modTime) {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, func() {
			w.checkSettled(path)
		})
		return
	}

	delete(w.pending, path)
	w.emitEvent(Event{
		Type:    EventAdded,
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if pending, exists := w.pending[path]; exists {
		pending.timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) emitEvent(event Event) {
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel for receiving file system events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel for receiving errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and releases resources. Safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)

		w.mu.Lock()
		for _, pending := range w.pending {
			pending.timer.Stop()
		}
		clear(w.pending)
		w.mu.Unlock()

		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}
