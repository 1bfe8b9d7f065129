package cache

import (
	"context"
	"sync"
	"time"

	"github.com/platformbuilds/mirador-console/pkg/logger"
)

// autoSwapCache starts on a fallback Cache and switches to the real Valkey
// client once dialing succeeds.
type autoSwapCache struct {
	mu      sync.RWMutex
	current Cache
	logger  logger.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

const defaultRetry = 5 * time.Second

func newAutoSwapCache(fallback Cache, log logger.Logger, retry time.Duration, dialReal func() (Cache, error)) *autoSwapCache {
	if retry <= 0 {
		retry = defaultRetry
	}
	a := &autoSwapCache{
		current: fallback,
		logger:  log,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(retry)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				real, err := dialReal()
				if err != nil {
					a.logger.Warn("Valkey connection attempt failed; will retry", "error", err)
					continue
				}
				a.mu.Lock()
				a.current = real
				a.mu.Unlock()
				a.logger.Info("Valkey connection established; switched from in-memory to real cache")
				return
			}
		}
	}()

	return a
}

// Stop stops the background connector.
func (a *autoSwapCache) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}

func (a *autoSwapCache) active() Cache {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *autoSwapCache) Get(ctx context.Context, key string) ([]byte, error) {
	return a.active().Get(ctx, key)
}

func (a *autoSwapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return a.active().Set(ctx, key, value, ttl)
}

func (a *autoSwapCache) Delete(ctx context.Context, key string) error {
	return a.active().Delete(ctx, key)
}

func (a *autoSwapCache) HealthCheck(ctx context.Context) error {
	return a.active().HealthCheck(ctx)
}

// NewAutoSwapForSingle serves from fallback until the single-node Valkey at
// addr becomes reachable. It dials again every retry.
func NewAutoSwapForSingle(addr string, db int, password string, ttl, retry time.Duration, log logger.Logger, fallback Cache) Cache {
	return newAutoSwapCache(fallback, log, retry, func() (Cache, error) {
		return NewValkeySingle(addr, db, password, ttl)
	})
}

// NewAutoSwapForCluster serves from fallback until the Valkey cluster
// becomes reachable.
func NewAutoSwapForCluster(nodes []string, password string, ttl, retry time.Duration, log logger.Logger, fallback Cache) Cache {
	return newAutoSwapCache(fallback, log, retry, func() (Cache, error) {
		return NewValkeyCluster(nodes, password, ttl)
	})
}
