package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"claudecfg/pkg/logging"
)

// DefaultDebounceInterval merges the bursts of raw filesystem events that
// editors and atomic writers produce for a single logical change.
const DefaultDebounceInterval = 500 * time.Millisecond

// ChangeOperation classifies what happened to the configuration file.
type ChangeOperation string

const (
	OperationCreate ChangeOperation = "create"
	OperationUpdate ChangeOperation = "update"
	OperationDelete ChangeOperation = "delete"
)

// ChangeEvent is one debounced notification about the configuration file.
type ChangeEvent struct {
	// Path is the configuration file that changed.
	Path string
	// Operation is the merged result of the raw events seen during the
	// debounce window.
	Operation ChangeOperation
	// Timestamp is when the last raw event arrived.
	Timestamp time.Time
}

// pendingChange is the event accumulated during the current debounce
// window together with the timer that will flush it.
type pendingChange struct {
	event ChangeEvent
	timer *time.Timer
}

// Watcher reports external modification of the configuration file. It
// watches the file's parent directory rather than the file itself, because
// an atomic save replaces the file by rename and a watch on the old inode
// would go quiet after the first change.
type Watcher struct {
	mu sync.Mutex

	path     string
	debounce time.Duration

	watcher *fsnotify.Watcher
	pending *pendingChange
	stopCh  chan struct{}
	running bool
}

// NewWatcher returns a Watcher for the configuration file at path. A
// debounce of zero or less selects DefaultDebounceInterval.
func NewWatcher(path string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	return &Watcher{path: path, debounce: debounce}
}

// Start begins watching. Debounced events arrive on changes until ctx is
// cancelled or Stop is called. Starting an already running watcher is a
// no-op.
func (w *Watcher) Start(ctx context.Context, changes chan<- ChangeEvent) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	stopCh := make(chan struct{})
	w.watcher = fsw
	w.stopCh = stopCh
	w.running = true
	w.mu.Unlock()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		w.Stop()
		return err
	}

	go w.processEvents(ctx, fsw, stopCh, changes)
	logging.Info("Watcher", "Watching %s for changes", w.path)
	return nil
}

// Stop ends watching and drops any change still waiting out its debounce
// window. Stopping a stopped watcher is a no-op.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	w.running = false
	close(w.stopCh)

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
	if w.watcher != nil {
		if err := w.watcher.Close(); err != nil {
			logging.Error("Watcher", err, "Error closing filesystem watcher")
		}
		w.watcher = nil
	}
	logging.Info("Watcher", "Stopped watching %s", w.path)
}

// processEvents is the watch loop. The fsnotify watcher and stop channel
// are passed in rather than read from the struct so a concurrent Stop
// cannot pull them out from underneath the select.
func (w *Watcher) processEvents(ctx context.Context, fsw *fsnotify.Watcher, stopCh <-chan struct{}, changes chan<- ChangeEvent) {
	for {
		select {
		case <-ctx.Done():
			w.clearPending()
			return
		case <-stopCh:
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event, changes)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher", err, "Filesystem watcher error")
		}
	}
}

// handleEvent filters raw events down to the watched file and starts or
// extends the debounce window.
func (w *Watcher) handleEvent(event fsnotify.Event, changes chan<- ChangeEvent) {
	if filepath.Base(event.Name) != filepath.Base(w.path) {
		return
	}

	var op ChangeOperation
	switch {
	case event.Op.Has(fsnotify.Create):
		op = OperationCreate
	case event.Op.Has(fsnotify.Write):
		op = OperationUpdate
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		op = OperationDelete
	default:
		// Chmod and other noise.
		return
	}

	logging.Debug("Watcher", "Raw %s event for %s", event.Op, event.Name)
	w.debounceEvent(ChangeEvent{
		Path:      w.path,
		Operation: op,
		Timestamp: time.Now(),
	}, changes)
}

// debounceEvent merges the new event into the pending one and resets the
// flush timer.
func (w *Watcher) debounceEvent(event ChangeEvent, changes chan<- ChangeEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		event.Operation = mergeOperations(w.pending.event.Operation, event.Operation)
	}

	timer := time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		pending := w.pending
		w.pending = nil
		w.mu.Unlock()

		if pending == nil {
			return
		}
		select {
		case changes <- pending.event:
			logging.Debug("Watcher", "Emitted %s event for %s", pending.event.Operation, pending.event.Path)
		default:
			logging.Warn("Watcher", "Change channel full, dropping %s event for %s", pending.event.Operation, pending.event.Path)
		}
	})
	w.pending = &pendingChange{event: event, timer: timer}
}

// clearPending drops the pending event without emitting it.
func (w *Watcher) clearPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
}

// mergeOperations collapses the raw operations seen during one debounce
// window into the one observers care about. A create followed by writes is
// still a create; anything followed by a delete is a delete; a delete
// followed by a create is a create (the atomic-save rename pattern).
func mergeOperations(old, new ChangeOperation) ChangeOperation {
	if old == OperationCreate && new == OperationUpdate {
		return OperationCreate
	}
	return new
}
