package catalog

import (
	"context"
	"time"

	"github.com/retailpos/backend/internal/domain/attribute"
)

// PayloadCache caches bulk-load payloads between catalog mutations.
// Payloads are keyed per request so two sessions asking for the same
// projection share one cached copy. Implementations must support
// invalidating a whole entity kind, since any catalog write can change
// an unknown number of cached projections
type PayloadCache interface {
	// Get retrieves a cached payload by key.
	// Returns nil, nil if the payload is not in cache (cache miss).
	// Returns nil, error if there was an error accessing the cache.
	Get(ctx context.Context, key string) ([]FlatRecord, error)

	// Set stores a payload in cache with the specified TTL.
	// If ttl is 0, implementation should use a default TTL.
	Set(ctx context.Context, key string, records []FlatRecord, ttl time.Duration) error

	// InvalidateKind removes every cached payload for an entity kind
	InvalidateKind(ctx context.Context, kind attribute.EntityKind) error
}

// PayloadCacheKey builds the cache key for a bulk-load request. The kind
// is a key segment so kind-wide invalidation can match by prefix
func PayloadCacheKey(kind attribute.EntityKind, requestHash string) string {
	return "pos:catalog:" + string(kind) + ":" + requestHash
}

// PayloadCacheKindPrefix returns the key prefix shared by every cached
// payload of an entity kind
func PayloadCacheKindPrefix(kind attribute.EntityKind) string {
	return "pos:catalog:" + string(kind) + ":"
}
