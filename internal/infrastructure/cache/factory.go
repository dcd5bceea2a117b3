package cache

import (
	"fmt"
	"time"

	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CacheFactory creates the Redis-backed caches based on configuration.
// It covers both cache concerns of the backend: idempotency stores for
// event handlers and payload caches for bulk catalog loads
type CacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	payloadTTL            time.Duration
	allowInMemoryFallback bool
}

// CacheFactoryOption is a functional option for configuring the factory
type CacheFactoryOption func(*CacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to in-memory stores when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithPayloadCacheTTL sets the default TTL applied to cached load payloads
func WithPayloadCacheTTL(ttl time.Duration) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.payloadTTL = ttl
	}
}

// NewCacheFactory creates a new factory
func NewCacheFactory(cfg config.RedisConfig, opts ...CacheFactoryOption) *CacheFactory {
	f := &CacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		payloadTTL:            defaultPayloadTTL,
		allowInMemoryFallback: true, // Default to allowing fallback
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *CacheFactory) redisCfg() RedisConfig {
	return RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}
}

// CreateRedisIdempotencyStore creates a Redis-based idempotency store
func (f *CacheFactory) CreateRedisIdempotencyStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(f.redisCfg())
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
	}

	return store, nil
}

// CreateInMemoryIdempotencyStore creates an in-memory idempotency store
// This is suitable for single-instance deployments and testing
// WARNING: In-memory stores do not share state across process instances,
// which can lead to duplicate event processing in distributed deployments
func (f *CacheFactory) CreateInMemoryIdempotencyStore() shared.IdempotencyStore {
	return NewInMemoryIdempotencyStore()
}

// CreateIdempotencyStore creates an idempotency store based on whether Redis is available
// It tries to create a Redis store first, and falls back to in-memory if Redis is not available
// and AllowInMemoryFallback is true
func (f *CacheFactory) CreateIdempotencyStore() (shared.IdempotencyStore, error) {
	// Try Redis first
	store, err := f.CreateRedisIdempotencyStore()
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}

	// Check if fallback is allowed
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for idempotency but unavailable: %w", err)
	}

	// Fall back to in-memory with warning
	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store. "+
		"This may cause duplicate event processing in distributed deployments.",
		zap.Error(err),
	)
	return f.CreateInMemoryIdempotencyStore(), nil
}

// CreateRedisPayloadCache creates a Redis-based payload cache for bulk catalog loads
func (f *CacheFactory) CreateRedisPayloadCache() (catalog.PayloadCache, error) {
	payloadCache, err := NewRedisPayloadCache(f.redisCfg(),
		WithPayloadTTL(f.payloadTTL),
		WithPayloadCacheLogger(f.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis payload cache: %w", err)
	}

	return payloadCache, nil
}

// CreateInMemoryPayloadCache creates an in-memory payload cache
// This is suitable for single-instance deployments and testing
// WARNING: In-memory caches serve stale payloads when another instance
// mutates the catalog, since invalidation events only reach local memory
func (f *CacheFactory) CreateInMemoryPayloadCache() catalog.PayloadCache {
	return NewInMemoryPayloadCache(f.payloadTTL)
}

// CreatePayloadCache creates a payload cache based on whether Redis is available
// It tries to create a Redis cache first, and falls back to in-memory if Redis is not available
// and AllowInMemoryFallback is true
func (f *CacheFactory) CreatePayloadCache() (catalog.PayloadCache, error) {
	// Try Redis first
	payloadCache, err := f.CreateRedisPayloadCache()
	if err == nil {
		f.logger.Info("using Redis payload cache")
		return payloadCache, nil
	}

	// Check if fallback is allowed
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for payload caching but unavailable: %w", err)
	}

	// Fall back to in-memory with warning
	f.logger.Warn("Redis unavailable, falling back to in-memory payload cache. "+
		"Cached load payloads will not be shared across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryPayloadCache(), nil
}
