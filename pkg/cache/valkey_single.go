package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/platformbuilds/mirador-console/internal/metrics"
)

// valkey implements Cache on top of a go-redis client, which is either a
// single-node client or a cluster client.
type valkey struct {
	client redis.UniversalClient
	ttl    time.Duration
	kind   string
}

// NewValkeySingle connects to a single-node Valkey/Redis instance.
func NewValkeySingle(addr string, db int, password string, defaultTTL time.Duration) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})
	return connect(client, defaultTTL, "single-node")
}

func connect(client redis.UniversalClient, defaultTTL time.Duration, kind string) (Cache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey %s: %w", kind, err)
	}
	return &valkey{client: client, ttl: defaultTTL, kind: kind}, nil
}

func (v *valkey) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := v.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheRequest("get", "miss")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		metrics.RecordCacheRequest("get", "error")
		return nil, err
	}
	metrics.RecordCacheRequest("get", "hit")
	return b, nil
}

func (v *valkey) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := encode(key, value)
	if err != nil {
		metrics.RecordCacheRequest("set", "error")
		return err
	}
	if err := v.client.Set(ctx, key, data, effectiveTTL(ttl, v.ttl)).Err(); err != nil {
		metrics.RecordCacheRequest("set", "error")
		return err
	}
	metrics.RecordCacheRequest("set", "success")
	return nil
}

func (v *valkey) Delete(ctx context.Context, key string) error {
	if err := v.client.Del(ctx, key).Err(); err != nil {
		metrics.RecordCacheRequest("delete", "error")
		return err
	}
	metrics.RecordCacheRequest("delete", "success")
	return nil
}

// HealthCheck pings the Valkey instance.
func (v *valkey) HealthCheck(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *valkey) Close() error { return v.client.Close() }
