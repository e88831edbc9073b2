package dedup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ StoreInterface = (*Store)(nil)

const connectAttempts = 3

// Store records "already replied" markers in Redis. Keys are written
// exactly once, after a successful reply, and never deleted by the bot.
// Safe for concurrent use by all watchers: go-redis multiplexes over a
// connection pool.
type Store struct {
	client *redis.Client
}

// Open connects to the dedup store, verifying the connection with a ping.
// Connection is attempted up to 3 times with logged errors between
// attempts; if every attempt fails the error is returned so the caller
// can abort startup instead of running with a non-functional store.
func Open(ctx context.Context, host, port, password string, db int) (*Store, error) {
	addr := fmt.Sprintf("%s:%s", host, port)

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		client := redis.NewClient(&redis.Options{
			Addr:         addr,
			Password:     password,
			DB:           db,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})

		if err := client.Ping(ctx).Err(); err != nil {
			lastErr = err
			slog.Error("Failed to connect to dedup store", "addr", addr, "attempt", attempt, "error", err)
			client.Close()
			continue
		}

		slog.Info("Connected to dedup store", "addr", addr, "db", db)
		return &Store{client: client}, nil
	}

	return nil, fmt.Errorf("failed to connect to dedup store after %d attempts: %w", connectAttempts, lastErr)
}

// Exists reports whether a replied marker has been recorded for key.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence of key %s: %w", key, err)
	}
	return count > 0, nil
}

// Set records a replied marker. The value is the Unix timestamp of the
// reply; only the key's existence carries meaning.
func (s *Store) Set(ctx context.Context, key string, ts time.Time) error {
	if err := s.client.Set(ctx, key, ts.Unix(), 0).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

// Ping verifies the store connection is still healthy.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the store connection.
func (s *Store) Close() error {
	return s.client.Close()
}
