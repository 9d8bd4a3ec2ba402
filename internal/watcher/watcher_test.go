package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func waitFor(t *testing.T, ch <-chan string, want string) {
	t.Helper()
	select {
	case got := <-ch:
		if got != want {
			t.Fatalf("got event for %q, want %q", got, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for event for %q", want)
	}
}

func TestWatcher_addAndRemove(t *testing.T) {
	dir := t.TempDir()
	added := make(chan string, 4)
	removed := make(chan string, 4)

	w := New(dir, []string{".pdf", ".docx"},
		func(name string) { added <- name },
		func(name string) { removed <- name },
		WithDebounce(20*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "resume.pdf")
	if err := os.WriteFile(path, []byte("content"), 0600); err != nil {
		t.Fatal(err)
	}
	waitFor(t, added, "resume.pdf")

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	waitFor(t, removed, "resume.pdf")
}

func TestWatcher_ignoresOtherExtensions(t *testing.T) {
	dir := t.TempDir()
	added := make(chan string, 4)

	w := New(dir, []string{".pdf"},
		func(name string) { added <- name },
		nil,
		WithDebounce(20*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".tmp-abc"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-added:
		t.Fatalf("unexpected add event for %q", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_debounceCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	added := make(chan string, 16)

	w := New(dir, []string{".pdf"},
		func(name string) { added <- name },
		nil,
		WithDebounce(100*time.Millisecond),
	)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "resume.pdf")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte("content"), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	waitFor(t, added, "resume.pdf")

	select {
	case got := <-added:
		t.Fatalf("writes not coalesced, extra event for %q", got)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_startMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "missing"), nil, nil, nil)
	if err := w.Start(context.Background()); err == nil {
		w.Stop()
		t.Error("expected error for missing directory")
	}
}

func TestWatcher_startTwice(t *testing.T) {
	w := New(t.TempDir(), nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()
	if err := w.Start(ctx); err != nil {
		t.Errorf("second Start: %v", err)
	}
}
