package settings

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := writeSettings(t, validSettings)

	w := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	done := make(chan error, 1)
	go func() {
		done <- w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	// Give the watcher time to register before touching the file.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte(validSettings+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Fatal("reload callback never fired")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Watch returned %v, want context.Canceled", err)
	}
}

func TestWatcher_IgnoresSiblingFiles(t *testing.T) {
	path := writeSettings(t, validSettings)

	w := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan struct{}, 1)
	go func() {
		_ = w.Watch(ctx, func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	sibling := path + ".bak"
	if err := os.WriteFile(sibling, []byte("unrelated"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case <-reloaded:
		t.Fatal("reload fired for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_RejectsDoubleStart(t *testing.T) {
	path := writeSettings(t, validSettings)

	w := NewWatcher(path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	go func() {
		close(started)
		_ = w.Watch(ctx, func() error { return nil })
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	if err := w.Watch(ctx, func() error { return nil }); err == nil {
		t.Fatal("second Watch call should fail while the first is running")
	}
}
