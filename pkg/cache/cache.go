// Package cache provides the key/value store behind the console's
// repositories: a Valkey (Redis protocol) client for single nodes and
// clusters, and an in-memory store for development and tests.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by Get for missing or expired keys.
var ErrNotFound = errors.New("cache: key not found")

// NoExpiry as a Set ttl stores a key without expiry.
const NoExpiry time.Duration = -1

func effectiveTTL(ttl, def time.Duration) time.Duration {
	switch {
	case ttl < 0:
		return 0
	case ttl == 0:
		return def
	}
	return ttl
}

// Cache is a byte-oriented key/value store with per-key expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key. []byte and string values are stored as
	// is, anything else as JSON. A zero ttl uses the store's default TTL,
	// a negative ttl (NoExpiry) keeps the key until deleted, and so does a
	// zero default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	HealthCheck(ctx context.Context) error
}

func encode(key string, value interface{}) ([]byte, error) {
	switch x := value.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}
	b, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	return b, nil
}

// GetJSON reads key and unmarshals it into dst.
func GetJSON(ctx context.Context, c Cache, key string, dst interface{}) error {
	b, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshal value for key %s: %w", key, err)
	}
	return nil
}
