package web

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestStoreWatcher_CloseDuringEvent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	w, err := newStoreWatcher(dir, func() {
		once.Do(func() { close(entered) })
		<-release
	})
	if err != nil {
		t.Fatalf("newStoreWatcher: %v", err)
	}
	w.Start()

	if err := os.WriteFile(filepath.Join(dir, "checktree.sqlite"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for database event")
	}

	w.Close()
	w.Close()
	close(release)

	select {
	case <-w.done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher loop did not exit after Close")
	}
}

func TestStoreWatcher_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	hits := make(chan struct{}, 8)
	w, err := newStoreWatcher(dir, func() { hits <- struct{}{} })
	if err != nil {
		t.Fatalf("newStoreWatcher: %v", err)
	}
	w.Start()
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "tui_state.json"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-hits:
		t.Fatal("notify fired for a non-database file")
	case <-time.After(200 * time.Millisecond):
	}
}
