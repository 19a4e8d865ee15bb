package sync

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keenthemes/ktui-picker/internal/config"
)

func TestWatcherEmitsReloadedOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")

	if err := config.SaveOptions(path, config.DefaultOptions()); err != nil {
		t.Fatalf("SaveOptions failed: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	opts := config.DefaultOptions()
	opts.Mode = "range"
	if err := config.SaveOptions(path, opts); err != nil {
		t.Fatalf("SaveOptions failed: %v", err)
	}

	select {
	case ev := <-w.Changes():
		if ev.Options.Mode != "range" {
			t.Errorf("Expected reloaded mode range, got %q", ev.Options.Mode)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for options change event")
	}
}

func TestWatcherSkipsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("mode: [broken\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Changes():
		t.Errorf("Expected no event for a broken file, got %+v", ev)
	case <-time.After(500 * time.Millisecond):
		// Expected: the broken file is logged and dropped.
	}
}

func TestWatcherIgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "options.yaml")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-w.Changes():
		t.Errorf("Expected no event for unrelated file, got %+v", ev)
	case <-time.After(500 * time.Millisecond):
	}
}
