package checkout

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/retailpos/backend/internal/domain/attribute"
	"github.com/retailpos/backend/internal/domain/catalog"
	"github.com/retailpos/backend/internal/domain/checkout"
	"github.com/retailpos/backend/internal/domain/shared"
	"github.com/retailpos/backend/internal/infrastructure/telemetry"
)

// CaptureService persists capture envelopes posted by terminals. The
// client order UID is the retry-safety boundary: a first capture creates
// the order, every later capture of the same UID patches it, so a
// terminal can resubmit after a transport failure without creating
// duplicates
type CaptureService struct {
	orderRepo       checkout.PosOrderRepository
	sessionRepo     checkout.PosSessionRepository
	brandRepo       catalog.BrandRepository
	registry        *attribute.Registry
	eventPublisher  shared.EventPublisher
	businessMetrics *telemetry.BusinessMetrics
	logger          *zap.Logger
}

// NewCaptureService creates a new CaptureService
func NewCaptureService(
	orderRepo checkout.PosOrderRepository,
	sessionRepo checkout.PosSessionRepository,
	brandRepo catalog.BrandRepository,
	registry *attribute.Registry,
	logger *zap.Logger,
) *CaptureService {
	return &CaptureService{
		orderRepo:   orderRepo,
		sessionRepo: sessionRepo,
		brandRepo:   brandRepo,
		registry:    registry,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CaptureService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetBusinessMetrics sets the business metrics collector
func (s *CaptureService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// CaptureOrder applies one capture envelope: create on first sight of the
// client order UID, sparse patch on every retry or amendment
func (s *CaptureService) CaptureOrder(ctx context.Context, req CaptureOrderRequest) (*PosOrderResponse, error) {
	envelope, ignored, err := req.ToEnvelope(s.registry)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_ATTRIBUTE_VALUE", err.Error())
	}
	if len(ignored) > 0 {
		s.logger.Debug("ignoring undeclared capture attributes",
			zap.String("order_uid", envelope.OrderUID.String()),
			zap.Strings("keys", ignored),
		)
	}

	// Capture requires an open session
	session, err := s.sessionRepo.FindByID(ctx, envelope.SessionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SESSION_NOT_FOUND", "Capture session not found")
		}
		return nil, err
	}
	if !session.IsOpen() {
		return nil, shared.NewDomainError("SESSION_CLOSED", "Cannot capture orders into a closed session")
	}

	// Create-or-patch by client order UID
	order, err := s.orderRepo.FindByClientUID(ctx, envelope.OrderUID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		order, err = checkout.NewPosOrderFromEnvelope(envelope, s.registry)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := order.ApplyCapture(envelope, s.registry); err != nil {
			return nil, err
		}
		order.AddDomainEvent(checkout.NewPosOrderAmendedEvent(order))
	}

	// Snapshot brand display names at capture time; reprints read these
	// instead of re-resolving against a catalog that may have moved on
	order.SnapshotBrandNames(s.brandNameResolver(ctx))

	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.businessMetrics != nil {
		s.businessMetrics.RecordOrderWithAmount(ctx, order.Priority, order.Total)
	}

	s.publishEvents(ctx, order)

	response := ToPosOrderResponse(order)
	return &response, nil
}

// GetByID retrieves a captured order by server id, falling back to the
// client order UID so terminals can query with the only id they hold
func (s *CaptureService) GetByID(ctx context.Context, id uuid.UUID) (*PosOrderResponse, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPosOrderResponse(order)
	return &response, nil
}

// List retrieves captured orders with filtering and pagination
func (s *CaptureService) List(ctx context.Context, filter PosOrderListFilter) ([]PosOrderResponse, int64, error) {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "captured_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  make(map[string]interface{}),
	}
	if filter.SessionID != nil {
		domainFilter.Filters["session_id"] = *filter.SessionID
	}
	if filter.Cashier != "" {
		domainFilter.Filters["cashier"] = filter.Cashier
	}
	if filter.Priority != "" {
		domainFilter.Filters["priority"] = filter.Priority
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PosOrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToPosOrderResponse(&orders[i])
	}

	return responses, total, nil
}

// findOrder resolves an order by server id first, then client order UID
func (s *CaptureService) findOrder(ctx context.Context, id uuid.UUID) (*checkout.PosOrder, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err == nil {
		return order, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return s.orderRepo.FindByClientUID(ctx, id)
}

// brandNameResolver adapts the brand repository to the snapshot callback
func (s *CaptureService) brandNameResolver(ctx context.Context) func(uuid.UUID) (string, bool) {
	return func(id uuid.UUID) (string, bool) {
		brand, err := s.brandRepo.FindByID(ctx, id)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("brand snapshot lookup failed",
					zap.String("brand_id", id.String()),
					zap.Error(err),
				)
			}
			return "", false
		}
		return brand.Name, true
	}
}

// publishEvents publishes the aggregate's pending domain events
func (s *CaptureService) publishEvents(ctx context.Context, order *checkout.PosOrder) {
	if s.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	for _, event := range events {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			// Log error but don't fail the operation - event handling is async
			s.logger.Warn("failed to publish capture event",
				zap.String("event_type", event.EventType()),
				zap.Error(err),
			)
		}
	}
	order.ClearDomainEvents()
}
