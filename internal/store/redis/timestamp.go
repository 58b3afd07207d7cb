// Package redis persists the index builtAt timestamp in Redis so the cache
// freshness state survives process restarts.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	pkgredis "github.com/nishantgupta83/mindful-living/pkg/redis"
)

// TimestampStore stores the builtAt timestamp under a single Redis key,
// serialised as RFC 3339. A missing key yields the zero time, which the
// cache manager treats as the Empty state.
type TimestampStore struct {
	client *pkgredis.Client
	key    string
	logger *slog.Logger
}

// NewTimestampStore creates a TimestampStore using the given key.
func NewTimestampStore(client *pkgredis.Client, key string) *TimestampStore {
	return &TimestampStore{
		client: client,
		key:    key,
		logger: slog.Default().With("component", "timestamp-store"),
	}
}

// Load returns the persisted builtAt, or the zero time when none is stored.
func (t *TimestampStore) Load(ctx context.Context) (time.Time, error) {
	val, err := t.client.Get(ctx, t.key)
	if err != nil {
		if pkgredis.IsNilError(err) {
			return time.Time{}, nil
		}
		return time.Time{}, fmt.Errorf("loading builtAt from redis: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, val)
	if err != nil {
		// A corrupt value is as good as no value; rebuild rather than fail.
		t.logger.Warn("discarding unparseable builtAt value", "value", val, "error", err)
		return time.Time{}, nil
	}
	return parsed, nil
}

// Save persists builtAt with no expiry.
func (t *TimestampStore) Save(ctx context.Context, builtAt time.Time) error {
	val := builtAt.UTC().Format(time.RFC3339Nano)
	if err := t.client.Set(ctx, t.key, val, 0); err != nil {
		return fmt.Errorf("saving builtAt to redis: %w", err)
	}
	return nil
}
