package reddit

import (
	"context"
	"log/slog"
	"time"
)

const (
	// seenLimit bounds the duplicate-suppression window per stream.
	// Listings page at most 100 items, so this comfortably covers
	// anything the platform can redeliver across polls.
	seenLimit = 1000

	maxPollBackoff = 5 * time.Minute
)

// Stream turns a paged listing into a live feed. Each poll fetches the
// newest page and delivers items that have not been seen before, in
// feed order (oldest first within a poll). With skipExisting the first
// page is only marked seen, so items that existed before connecting
// are never delivered. Poll failures are logged and retried with a
// capped backoff instead of ending the stream.
type Stream[T any] struct {
	name         string
	fetch        func(ctx context.Context) ([]T, error)
	id           func(T) string
	interval     time.Duration
	skipExisting bool

	seen      map[string]struct{}
	seenOrder []string
	primed    bool
}

func NewStream[T any](name string, fetch func(ctx context.Context) ([]T, error), id func(T) string, interval time.Duration, skipExisting bool) *Stream[T] {
	return &Stream[T]{
		name:         name,
		fetch:        fetch,
		id:           id,
		interval:     interval,
		skipExisting: skipExisting,
		seen:         make(map[string]struct{}),
	}
}

// Run polls the listing until ctx is cancelled, invoking handle
// synchronously for each new item. A blocking handle (rate-limit
// backoff) delays only this stream. Returns ctx.Err() on shutdown.
func (s *Stream[T]) Run(ctx context.Context, handle func(ctx context.Context, item T)) error {
	pollFailures := 0

	for {
		items, err := s.fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			pollFailures++
			backoff := time.Duration(pollFailures) * s.interval
			if backoff > maxPollBackoff {
				backoff = maxPollBackoff
			}
			slog.Warn("Stream poll failed", "stream", s.name, "failures", pollFailures, "backoff", backoff.String(), "error", err)

			if err := sleepCtx(ctx, backoff); err != nil {
				return err
			}
			continue
		}
		pollFailures = 0

		// Listings are newest first; deliver oldest first.
		for i := len(items) - 1; i >= 0; i-- {
			item := items[i]
			id := s.id(item)
			if _, ok := s.seen[id]; ok {
				continue
			}
			s.markSeen(id)

			if s.skipExisting && !s.primed {
				continue
			}

			handle(ctx, item)

			if ctx.Err() != nil {
				return ctx.Err()
			}
		}
		s.primed = true

		if err := sleepCtx(ctx, s.interval); err != nil {
			return err
		}
	}
}

func (s *Stream[T]) markSeen(id string) {
	s.seen[id] = struct{}{}
	s.seenOrder = append(s.seenOrder, id)
	if len(s.seenOrder) > seenLimit {
		evicted := s.seenOrder[0]
		s.seenOrder = s.seenOrder[1:]
		delete(s.seen, evicted)
	}
}

// sleepCtx waits for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
