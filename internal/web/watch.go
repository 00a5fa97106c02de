package web

import (
	"log"
	"sync"

	"checktree/internal/store"

	"github.com/fsnotify/fsnotify"
)

// storeWatcher notices writes to the database made by other processes (the
// CLI or a TUI) and tells every open stream to re-render.
type storeWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	closed  bool
	notify  func()
	done    chan struct{}
}

func newStoreWatcher(dir string, notify func()) (*storeWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}
	return &storeWatcher{watcher: fw, notify: notify, done: make(chan struct{})}, nil
}

// Start runs the event loop until Close. The loop owns its own reference to
// the fsnotify channels so Close never races with it.
func (w *storeWatcher) Start() {
	events, errs := w.watcher.Events, w.watcher.Errors
	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				w.handleEvent(event)
			case err, ok := <-errs:
				if !ok {
					return
				}
				log.Println("store watcher error:", err)
			}
		}
	}()
}

func (w *storeWatcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if !store.IsDatabaseFile(event.Name) {
		return
	}
	w.notify()
}

func (w *storeWatcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	w.watcher.Close()
}
