package capture

import (
	"context"
	"testing"
	"time"
)

func TestWatchCancelExitsOnStop(t *testing.T) {
	r := NewDeviceRecorder(0, 0)
	done := make(chan struct{})

	exited := make(chan struct{})
	go func() {
		r.watchCancel(context.Background(), done)
		close(exited)
	}()

	// Closing done, as Stop does, must release the watcher even though
	// the context can never be cancelled.
	close(done)
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("watcher did not exit after done was closed")
	}
}

func TestWatchCancelStopsOnContext(t *testing.T) {
	r := NewDeviceRecorder(0, 0)
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())

	exited := make(chan struct{})
	go func() {
		r.watchCancel(ctx, done)
		close(exited)
	}()

	cancel()
	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("watcher did not exit after context cancellation")
	}
}

func TestDeviceStopIdempotentWhenNotRunning(t *testing.T) {
	r := NewDeviceRecorder(0, 0)
	if err := r.Stop(); err != nil {
		t.Errorf("Stop() on idle recorder error = %v", err)
	}
	if err := r.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
