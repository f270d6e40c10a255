package confloader

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcher_Watch_NonexistentDir(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Stop()

	if err := w.Watch("/nonexistent/path/config.yaml"); err == nil {
		t.Error("Watch() expected error for nonexistent directory")
	}
}

func TestWatcher_NotifiesOnWrite(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "devserver.yaml")
	otherFile := filepath.Join(dir, "other.yaml")
	if err := os.WriteFile(configFile, []byte("log:\n  level: info\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if err := w.Watch(configFile); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 10)
	w.OnChange(func(path string) { changed <- path })
	w.StartAsync()

	if err := os.WriteFile(otherFile, []byte("x: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(configFile, []byte("log:\n  level: debug\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if filepath.Base(path) != "devserver.yaml" {
			t.Errorf("callback path = %s, want devserver.yaml", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := NewWatcher()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Fatal(err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() = %v", err)
	}
}

func TestWatcher_Debounce(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "server.crt")
	keyFile := filepath.Join(dir, "server.key")
	for _, f := range []string{certFile, keyFile} {
		if err := os.WriteFile(f, []byte("old"), 0600); err != nil {
			t.Fatal(err)
		}
	}

	w, err := NewWatcher(WithDebounce(200 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()
	for _, f := range []string{certFile, keyFile} {
		if err := w.Watch(f); err != nil {
			t.Fatal(err)
		}
	}

	var calls atomic.Int32
	changed := make(chan string, 10)
	w.OnChange(func(path string) {
		calls.Add(1)
		changed <- path
	})
	w.StartAsync()

	os.WriteFile(certFile, []byte("new"), 0600)
	os.WriteFile(keyFile, []byte("new"), 0600)

	select {
	case path := <-changed:
		if filepath.Base(path) != "server.key" {
			t.Errorf("callback path = %s, want the last file written", path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	time.Sleep(400 * time.Millisecond)
	if n := calls.Load(); n != 1 {
		t.Errorf("callbacks = %d, want 1", n)
	}
}
