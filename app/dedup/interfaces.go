package dedup

import (
	"context"
	"time"
)

// StoreInterface defines the dedup store operations used by the watchers.
// A single-key check-then-set is not atomic: two processes racing on the
// same item can both reply. That window is documented, not eliminated;
// the platform contract is at-least-once with idempotent side effects.
type StoreInterface interface {
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, ts time.Time) error
	Ping(ctx context.Context) error
	Close() error
}
