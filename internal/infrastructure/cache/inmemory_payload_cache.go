package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
)

// payloadEntry represents a cached payload with expiration
type payloadEntry struct {
	records   []catalog.FlatRecord
	expiresAt time.Time
}

// InMemoryPayloadCache implements PayloadCache using an in-memory map.
// Suitable for single-instance deployments and testing; instances do not
// share cached payloads or invalidations
type InMemoryPayloadCache struct {
	mu         sync.RWMutex
	entries    map[string]payloadEntry
	defaultTTL time.Duration
	stopChan   chan struct{}
	wg         sync.WaitGroup
	closeOnce  sync.Once
}

// NewInMemoryPayloadCache creates a new in-memory payload cache.
// It starts a background goroutine to clean up expired entries
func NewInMemoryPayloadCache(defaultTTL time.Duration) *InMemoryPayloadCache {
	if defaultTTL <= 0 {
		defaultTTL = defaultPayloadTTL
	}

	cache := &InMemoryPayloadCache{
		entries:    make(map[string]payloadEntry),
		defaultTTL: defaultTTL,
		stopChan:   make(chan struct{}),
	}

	// Start cleanup goroutine
	cache.wg.Add(1)
	go cache.cleanupLoop()

	return cache
}

// Get retrieves a cached payload by key
func (c *InMemoryPayloadCache) Get(ctx context.Context, key string) ([]catalog.FlatRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, exists := c.entries[key]
	if !exists {
		return nil, nil
	}

	// Check if entry has expired
	if time.Now().After(e.expiresAt) {
		return nil, nil // Expired, treat as a miss
	}

	return e.records, nil
}

// Set stores a payload in cache with the specified TTL
func (c *InMemoryPayloadCache) Set(ctx context.Context, key string, records []catalog.FlatRecord, ttl time.Duration) error {
	if records == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = payloadEntry{
		records:   records,
		expiresAt: time.Now().Add(ttl),
	}

	return nil
}

// InvalidateKind removes every cached payload for an entity kind
func (c *InMemoryPayloadCache) InvalidateKind(ctx context.Context, kind attribute.EntityKind) error {
	prefix := catalog.PayloadCacheKindPrefix(kind)

	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}

	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times
func (c *InMemoryPayloadCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryPayloadCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries from the cache
func (c *InMemoryPayloadCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
		}
	}
}

// Size returns the number of entries in the cache (for testing/monitoring)
func (c *InMemoryPayloadCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Ensure InMemoryPayloadCache implements PayloadCache
var _ catalog.PayloadCache = (*InMemoryPayloadCache)(nil)
