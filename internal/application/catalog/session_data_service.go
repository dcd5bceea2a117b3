package catalog

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
)

// DefaultPayloadTTL bounds how long a cached bulk-load payload may keep
// serving after a missed invalidation
const DefaultPayloadTTL = 5 * time.Minute

// SessionDataService executes session bulk-load requests against the
// catalog. Responses are flat records carrying exactly the requested
// fields plus id, ready for the terminal to index without further
// queries
type SessionDataService struct {
	projector       catalog.Projector
	cache           catalog.PayloadCache
	ttl             time.Duration
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewSessionDataService creates a new session data service without
// payload caching
func NewSessionDataService(projector catalog.Projector, logger *zap.Logger) *SessionDataService {
	return &SessionDataService{
		projector: projector,
		ttl:       DefaultPayloadTTL,
		logger:    logger,
	}
}

// NewCachedSessionDataService creates a session data service backed by a
// payload cache. Cache failures degrade to direct loads, never to
// request failures
func NewCachedSessionDataService(projector catalog.Projector, cache catalog.PayloadCache, logger *zap.Logger) *SessionDataService {
	return &SessionDataService{
		projector: projector,
		cache:     cache,
		ttl:       DefaultPayloadTTL,
		logger:    logger,
	}
}

// SetPayloadTTL overrides the cached payload TTL
func (s *SessionDataService) SetPayloadTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// SetBusinessMetrics sets the business metrics collector
func (s *SessionDataService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// LoadEntities executes one bulk-load request. Validation failures come
// back as domain errors; projector failures propagate wrapped so the
// handler can map them to a transport error
func (s *SessionDataService) LoadEntities(ctx context.Context, req BulkLoadRequest) (*BulkLoadResponse, error) {
	params := req.ToLoadParams()
	if err := params.Validate(); err != nil {
		return nil, shared.NewDomainError("INVALID_LOAD_REQUEST", err.Error())
	}

	var key string
	cacheable := s.cache != nil
	if cacheable {
		hash, ok := requestHash(params)
		if !ok {
			cacheable = false
		} else {
			key = catalog.PayloadCacheKey(params.Kind, hash)
		}
	}

	// Check the payload cache first
	if cacheable {
		records, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("payload cache read failed, loading directly",
				zap.String("entity_kind", string(params.Kind)),
				zap.Error(err),
			)
		} else if records != nil {
			if s.businessMetrics != nil {
				s.businessMetrics.RecordCatalogLoad(ctx, string(params.Kind), telemetry.CacheResultHit)
			}
			return &BulkLoadResponse{
				EntityKind: string(params.Kind),
				Records:    records,
				Count:      len(records),
			}, nil
		}
	}

	records, err := s.projector.LoadRecords(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", params.Kind, err)
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordCatalogLoad(ctx, string(params.Kind), telemetry.CacheResultMiss)
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, records, s.ttl); err != nil {
			s.logger.Warn("payload cache write failed",
				zap.String("entity_kind", string(params.Kind)),
				zap.Error(err),
			)
		}
	}

	return &BulkLoadResponse{
		EntityKind: string(params.Kind),
		Records:    records,
		Count:      len(records),
	}, nil
}

// CanonicalLoadParams returns the bulk-load requests a terminal issues
// during session bootstrap, one per bulk-loadable entity kind
func (s *SessionDataService) CanonicalLoadParams() []catalog.LoadParams {
	kinds := []attribute.EntityKind{attribute.KindBrand, attribute.KindProduct}
	params := make([]catalog.LoadParams, 0, len(kinds))
	for _, kind := range kinds {
		if p, ok := catalog.LoadParamsFor(kind); ok {
			params = append(params, p)
		}
	}
	return params
}

// requestHash derives a deterministic cache key segment from the load
// params. Struct field order fixes the JSON shape, so equal requests
// hash equally. ok is false for params that cannot be marshalled; those
// requests bypass the cache
func requestHash(params catalog.LoadParams) (string, bool) {
	payload, err := json.Marshal(params)
	if err != nil {
		return "", false
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:16]), true
}
