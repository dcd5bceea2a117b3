package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
	defaultPayloadTTL    = 5 * time.Minute
)

// RedisPayloadCache implements PayloadCache using Redis. Cached bulk-load
// payloads are shared across instances, so a catalog write on any node
// invalidates the projection everywhere
type RedisPayloadCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	defaultTTL time.Duration
	logger     *zap.Logger
}

// RedisPayloadCacheOption is a functional option for configuring the cache
type RedisPayloadCacheOption func(*RedisPayloadCache)

// WithPayloadTTL sets the default TTL applied when Set receives ttl 0
func WithPayloadTTL(ttl time.Duration) RedisPayloadCacheOption {
	return func(c *RedisPayloadCache) {
		c.defaultTTL = ttl
	}
}

// WithPayloadCacheLogger sets the logger for the cache
func WithPayloadCacheLogger(logger *zap.Logger) RedisPayloadCacheOption {
	return func(c *RedisPayloadCache) {
		c.logger = logger
	}
}

// NewRedisPayloadCache creates a new Redis-based payload cache
func NewRedisPayloadCache(cfg RedisConfig, opts ...RedisPayloadCacheOption) (*RedisPayloadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisPayloadCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		defaultTTL: defaultPayloadTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisPayloadCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisPayloadCacheWithClient(client *redis.Client, opts ...RedisPayloadCacheOption) *RedisPayloadCache {
	cache := &RedisPayloadCache{
		client:     client,
		ownsClient: false, // Client is shared, don't close it
		defaultTTL: defaultPayloadTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get retrieves a cached payload by key
func (c *RedisPayloadCache) Get(ctx context.Context, key string) ([]catalog.FlatRecord, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		// Cache miss
		c.logger.Debug("Cache miss for load payload", zap.String("key", key))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get load payload from cache",
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payload from cache: %w", err)
	}

	var records []catalog.FlatRecord
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Error("Failed to unmarshal load payload",
			zap.String("key", key),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	c.logger.Debug("Cache hit for load payload", zap.String("key", key))
	return records, nil
}

// Set stores a payload in cache with the specified TTL
func (c *RedisPayloadCache) Set(ctx context.Context, key string, records []catalog.FlatRecord, ttl time.Duration) error {
	if records == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(records)
	if err != nil {
		c.logger.Error("Failed to marshal load payload",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set load payload in cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to set payload in cache: %w", err)
	}

	c.logger.Debug("Cached load payload",
		zap.String("key", key),
		zap.Int("records", len(records)),
		zap.Duration("ttl", ttl))
	return nil
}

// InvalidateKind removes every cached payload for an entity kind.
// Uses SCAN to walk matching keys without blocking Redis with KEYS
func (c *RedisPayloadCache) InvalidateKind(ctx context.Context, kind attribute.EntityKind) error {
	pattern := catalog.PayloadCacheKindPrefix(kind) + "*"

	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, pattern, defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan load payload keys",
				zap.String("kind", string(kind)),
				zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete load payload keys",
					zap.String("kind", string(kind)),
					zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated load payload cache",
		zap.String("kind", string(kind)),
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisPayloadCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisPayloadCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisPayloadCache implements PayloadCache
var _ catalog.PayloadCache = (*RedisPayloadCache)(nil)
