package bot

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// Supervisor runs each watcher as an independent goroutine and waits
// for all of them to terminate. Watchers share no mutable state beyond
// the dedup store and journal handles, both safe for concurrent use;
// there is no inter-watcher coordination or ordering.
type Supervisor struct {
	watchers []Watcher
}

func NewSupervisor(watchers ...Watcher) *Supervisor {
	return &Supervisor{watchers: watchers}
}

// Run blocks until every watcher has returned. Cancellation of ctx is
// the shutdown signal; a watcher failing for any other reason is
// logged without stopping its siblings.
func (s *Supervisor) Run(ctx context.Context) {
	var wg sync.WaitGroup

	for _, watcher := range s.watchers {
		wg.Add(1)
		go func(w Watcher) {
			defer wg.Done()

			err := w.Run(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Watcher terminated", "watcher", w.Name(), "error", err)
				return
			}
			slog.Info("Watcher stopped", "watcher", w.Name())
		}(watcher)
	}

	wg.Wait()
}
