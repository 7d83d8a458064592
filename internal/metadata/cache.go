package metadata

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltv/reeltv/internal/config"
)

// Cache stores encoded metadata responses with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, val string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryCache is an in-process Cache with TTL expiry and a size cap.
type MemoryCache struct {
	mu       sync.RWMutex
	items    map[string]cacheItem
	ttl      time.Duration
	maxItems int

	stop     chan struct{}
	stopOnce sync.Once
}

type cacheItem struct {
	value     string
	expiresAt time.Time
}

// NewMemoryCache creates an in-memory cache. A zero TTL or size falls back
// to 15 minutes and 1000 entries.
func NewMemoryCache(ttl time.Duration, maxItems int) *MemoryCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if maxItems <= 0 {
		maxItems = 1000
	}

	c := &MemoryCache{
		items:    make(map[string]cacheItem),
		ttl:      ttl,
		maxItems: maxItems,
		stop:     make(chan struct{}),
	}

	go c.cleanup()

	return c
}

// NewCache picks the cache backend from configuration: Valkey when an
// address is configured and reachable, memory otherwise.
func NewCache(cfg config.CacheConfig, logger zerolog.Logger) Cache {
	if cfg.ValkeyAddr != "" {
		vc, err := NewValkeyCache(cfg.ValkeyAddr, cfg.ValkeyPassword)
		if err == nil {
			logger.Info().Str("addr", cfg.ValkeyAddr).Msg("Using Valkey metadata cache")
			return vc
		}
		logger.Warn().Err(err).Str("addr", cfg.ValkeyAddr).Msg("Valkey unavailable, falling back to memory cache")
	}
	return NewMemoryCache(cfg.TTL, cfg.MaxItems)
}

// Get retrieves an unexpired item from the cache.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.items[key]
	if !ok || time.Now().After(item.expiresAt) {
		return "", false
	}
	return item.value, true
}

// Set stores an item. A non-positive ttl uses the cache default.
func (c *MemoryCache) Set(_ context.Context, key, val string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[key]; !exists && len(c.items) >= c.maxItems {
		c.evictOldest()
	}

	c.items[key] = cacheItem{
		value:     val,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes an item from the cache.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// Len returns the number of stored items, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the background cleanup.
func (c *MemoryCache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// evictOldest drops expired items, then the 10% closest to expiry.
// Must be called with the lock held.
func (c *MemoryCache) evictOldest() {
	now := time.Now()
	for key, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, key)
		}
	}

	if len(c.items) < c.maxItems {
		return
	}

	toRemove := max(c.maxItems/10, 1)
	for ; toRemove > 0 && len(c.items) > 0; toRemove-- {
		var oldestKey string
		var oldest time.Time
		for key, item := range c.items {
			if oldestKey == "" || item.expiresAt.Before(oldest) {
				oldestKey, oldest = key, item.expiresAt
			}
		}
		delete(c.items, oldestKey)
	}
}

func (c *MemoryCache) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, item := range c.items {
				if now.After(item.expiresAt) {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		}
	}
}
