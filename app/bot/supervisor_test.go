package bot

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type funcWatcher struct {
	name string
	run  func(ctx context.Context) error
}

func (w *funcWatcher) Name() string                  { return w.name }
func (w *funcWatcher) Run(ctx context.Context) error { return w.run(ctx) }

func TestSupervisor_WatchersRunIndependently(t *testing.T) {
	var ticks atomic.Int64

	blocked := &funcWatcher{name: "blocked", run: func(ctx context.Context) error {
		// Simulates a watcher stuck in a long rate-limit backoff.
		<-ctx.Done()
		return ctx.Err()
	}}
	ticking := &funcWatcher{name: "ticking", run: func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Millisecond):
				ticks.Add(1)
			}
		}
	}}

	supervisor := NewSupervisor(blocked, ticking)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Supervisor did not return after all watchers stopped")
	}

	if ticks.Load() == 0 {
		t.Errorf("Expected the unblocked watcher to make progress while its sibling was blocked")
	}
}

func TestSupervisor_FailedWatcherDoesNotStopSiblings(t *testing.T) {
	var ticks atomic.Int64

	failing := &funcWatcher{name: "failing", run: func(ctx context.Context) error {
		return context.DeadlineExceeded
	}}
	ticking := &funcWatcher{name: "ticking", run: func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Millisecond):
				ticks.Add(1)
			}
		}
	}}

	supervisor := NewSupervisor(failing, ticking)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		supervisor.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Supervisor did not return")
	}

	if ticks.Load() == 0 {
		t.Errorf("Expected surviving watcher to keep running after a sibling failed")
	}
}
