package pos

import (
	"sync"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/attribute"
)

// CatalogStore is the terminal's in-memory index of referenced catalog
// entities, keyed by entity kind and id. One store belongs to one session:
// it is filled during bootstrap and read-only afterwards, so lookups during
// checkout and printing never touch the network.
//
// Index replaces a kind's bucket wholesale, which makes repeated bootstraps
// of the same payload idempotent. Resolve never returns an error; an absent
// entry is an expected condition the caller degrades on
type CatalogStore struct {
	mu      sync.RWMutex
	buckets map[attribute.EntityKind]map[uuid.UUID]CatalogEntity
}

// NewCatalogStore creates an empty store
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{
		buckets: make(map[attribute.EntityKind]map[uuid.UUID]CatalogEntity),
	}
}

// Index replaces the bucket for kind with the given entities. Later
// duplicates of the same id win, mirroring a reload of the same record
func (s *CatalogStore) Index(kind attribute.EntityKind, entities []CatalogEntity) {
	bucket := make(map[uuid.UUID]CatalogEntity, len(entities))
	for _, entity := range entities {
		bucket[entity.ID] = entity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.buckets[kind] = bucket
}

// Resolve looks up one entity by kind and id. The second return is false
// when the kind was never indexed or the id is absent
func (s *CatalogStore) Resolve(kind attribute.EntityKind, id uuid.UUID) (CatalogEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bucket, ok := s.buckets[kind]
	if !ok {
		return CatalogEntity{}, false
	}
	entity, ok := bucket[id]
	return entity, ok
}

// BrandName resolves a brand id to its display name. It satisfies the
// resolver contract the receipt formatter consumes
func (s *CatalogStore) BrandName(id uuid.UUID) (string, bool) {
	entity, ok := s.Resolve(attribute.KindBrand, id)
	if !ok {
		return "", false
	}
	return entity.Name, true
}

// Count returns how many entities of kind are indexed
func (s *CatalogStore) Count(kind attribute.EntityKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets[kind])
}
