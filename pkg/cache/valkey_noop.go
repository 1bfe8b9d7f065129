package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-console/internal/metrics"
	"github.com/platformbuilds/mirador-console/pkg/logger"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// memoryCache is a process-local Cache. Data is not shared across replicas
// and is lost on restart.
type memoryCache struct {
	mu  sync.RWMutex
	m   map[string]memoryEntry
	ttl time.Duration
	now func() time.Time
}

// NewMemory returns an in-memory Cache.
func NewMemory(defaultTTL time.Duration) Cache {
	return &memoryCache{m: make(map[string]memoryEntry), ttl: defaultTTL, now: time.Now}
}

// NewNoopValkeyCache returns an in-memory Cache used in place of an
// unreachable Valkey.
func NewNoopValkeyCache(log logger.Logger, defaultTTL time.Duration) Cache {
	log.Warn("Valkey cache unavailable; using in-memory fallback")
	return &noopValkey{memoryCache: NewMemory(defaultTTL).(*memoryCache)}
}

func (n *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	n.mu.RLock()
	e, ok := n.m[key]
	n.mu.RUnlock()
	if !ok || (!e.expires.IsZero() && !n.now().Before(e.expires)) {
		metrics.RecordCacheRequest("get", "miss")
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	metrics.RecordCacheRequest("get", "hit")
	return append([]byte(nil), e.data...), nil
}

func (n *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	b, err := encode(key, value)
	if err != nil {
		metrics.RecordCacheRequest("set", "error")
		return err
	}
	ttl = effectiveTTL(ttl, n.ttl)
	e := memoryEntry{data: append([]byte(nil), b...)}
	if ttl > 0 {
		e.expires = n.now().Add(ttl)
	}
	n.mu.Lock()
	n.m[key] = e
	n.mu.Unlock()
	metrics.RecordCacheRequest("set", "success")
	return nil
}

func (n *memoryCache) Delete(_ context.Context, key string) error {
	n.mu.Lock()
	delete(n.m, key)
	n.mu.Unlock()
	metrics.RecordCacheRequest("delete", "success")
	return nil
}

func (n *memoryCache) HealthCheck(context.Context) error { return nil }

// noopValkey reports itself unhealthy so that health endpoints show the
// missing external cache.
type noopValkey struct {
	*memoryCache
}

func (n *noopValkey) HealthCheck(context.Context) error {
	return fmt.Errorf("valkey noop cache in use (external cache not connected)")
}
