package pos

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/shared"
)

// CatalogFetcher pulls flat catalog records from the backend. The HTTP
// adapter implements it; tests substitute fixtures
type CatalogFetcher interface {
	Fetch(ctx context.Context, params catalog.LoadParams) ([]catalog.FlatRecord, error)
}

// OrderSubmitter delivers a capture envelope to the backend
type OrderSubmitter interface {
	Submit(ctx context.Context, envelope CaptureEnvelope) error
}

// SessionState represents the lifecycle state of a terminal session
type SessionState string

const (
	SessionStateCreated SessionState = "CREATED"
	SessionStateReady   SessionState = "READY"
	SessionStateClosed  SessionState = "CLOSED"
)

// Session is one cashier shift on one terminal. It owns the catalog
// store for its lifetime: Bootstrap fills the store before the session
// becomes interactive, and no order can open until it has. Bootstrapping
// again re-indexes in place, which is safe because Index replaces
// buckets wholesale
type Session struct {
	ID      uuid.UUID
	Cashier string

	registry  *attribute.Registry
	store     *CatalogStore
	fetcher   CatalogFetcher
	submitter OrderSubmitter

	mu    sync.Mutex
	state SessionState
}

// NewSession creates a session in the CREATED state. The id is the
// backend session id handed out when the shift was opened
func NewSession(id uuid.UUID, cashier string, registry *attribute.Registry, fetcher CatalogFetcher, submitter OrderSubmitter) (*Session, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Session ID cannot be empty")
	}
	if registry == nil {
		return nil, shared.NewDomainError("INVALID_REGISTRY", "Attribute registry is required")
	}
	if fetcher == nil {
		return nil, shared.NewDomainError("INVALID_FETCHER", "Catalog fetcher is required")
	}

	return &Session{
		ID:        id,
		Cashier:   cashier,
		registry:  registry,
		store:     NewCatalogStore(),
		fetcher:   fetcher,
		submitter: submitter,
		state:     SessionStateCreated,
	}, nil
}

// Bootstrap loads every referenced catalog kind through the fetcher and
// indexes the records into the session store. The session only becomes
// READY once all kinds are indexed; any fetch or decode failure aborts
// the bootstrap and leaves the session non-interactive so the caller can
// retry
func (s *Session) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == SessionStateClosed {
		return shared.ErrSessionClosed
	}

	for _, kind := range []attribute.EntityKind{attribute.KindBrand, attribute.KindProduct} {
		params, ok := catalog.LoadParamsFor(kind)
		if !ok {
			return shared.NewDomainError("INVALID_LOAD_KIND", fmt.Sprintf("No load parameters declared for kind %s", kind))
		}

		records, err := s.fetcher.Fetch(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to fetch %s records: %w", kind, err)
		}

		entities, err := s.decodeRecords(kind, records)
		if err != nil {
			return err
		}
		s.store.Index(kind, entities)
	}

	s.state = SessionStateReady
	return nil
}

func (s *Session) decodeRecords(kind attribute.EntityKind, records []catalog.FlatRecord) ([]CatalogEntity, error) {
	entities := make([]CatalogEntity, 0, len(records))
	switch kind {
	case attribute.KindBrand:
		for _, rec := range records {
			entity, err := DecodeBrandRecord(s.registry, rec)
			if err != nil {
				return nil, err
			}
			entities = append(entities, entity)
		}
	case attribute.KindProduct:
		for _, rec := range records {
			product, err := DecodeProductRecord(s.registry, rec)
			if err != nil {
				return nil, err
			}
			entities = append(entities, productEntity(product))
		}
	default:
		return nil, shared.NewDomainError("INVALID_LOAD_KIND", fmt.Sprintf("Kind %s cannot be indexed", kind))
	}
	return entities, nil
}

// productEntity flattens a product record into the store's entity shape.
// The brand reference and price travel inside the attribute set so the
// store stays generic over kinds
func productEntity(p ProductRecord) CatalogEntity {
	attrs := attribute.NewSet()
	if id, ok := p.Brand.ID(); ok {
		attrs.Put(attribute.KeyBrandRef, attribute.Ref(id))
	} else {
		attrs.Put(attribute.KeyBrandRef, attribute.NullRef())
	}
	for _, key := range p.Attributes.Keys() {
		if v, ok := p.Attributes.Get(key); ok {
			attrs.Put(key, v)
		}
	}
	return CatalogEntity{ID: p.ID, Name: p.Name, Attributes: attrs}
}

// Ready reports whether the catalog store is indexed and orders may open
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == SessionStateReady
}

// State returns the current session state
func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Store exposes the session's catalog store for checkout and printing
func (s *Session) Store() *CatalogStore {
	return s.store
}

// OpenOrder starts a new order on this session. Fails until the session
// is READY so no order can reference an unindexed catalog
func (s *Session) OpenOrder() (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case SessionStateReady:
		return NewOrder(s.ID, s.Cashier, s.registry)
	case SessionStateClosed:
		return nil, shared.ErrSessionClosed
	default:
		return nil, shared.ErrSessionNotReady
	}
}

// SubmitOrder locks the order if needed and delivers its capture
// envelope to the backend. The envelope is rebuilt from the aggregate on
// every attempt, so retrying after a transport failure resubmits the
// same payload under the same order uid
func (s *Session) SubmitOrder(ctx context.Context, order *Order) error {
	if order == nil {
		return shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	if !s.Ready() {
		return shared.ErrSessionNotReady
	}
	if s.submitter == nil {
		return shared.NewDomainError("INVALID_SUBMITTER", "Order submitter is required")
	}

	if order.IsOpen() {
		if err := order.Lock(); err != nil {
			return err
		}
	}
	if !order.IsLocked() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot submit order in %s status", order.Status))
	}

	if err := s.submitter.Submit(ctx, order.CaptureEnvelope()); err != nil {
		return fmt.Errorf("failed to submit order %s: %w", order.ID, err)
	}

	return order.MarkCaptured()
}

// Close ends the session. Closing is idempotent; a closed session
// rejects bootstraps and new orders but its store stays readable for
// reprints of already captured orders
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = SessionStateClosed
}
